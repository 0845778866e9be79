// Package server exposes chess environments over HTTP and websockets.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gym-chess/actionspace"
	"gym-chess/engine"
	"gym-chess/env"
)

// Config is the server configuration. It can be loaded from JSON.
type Config struct {
	Addr       string     `json:"addr"`
	SessionTTL Duration   `json:"session_ttl"`
	Env        env.Config `json:"env"`
}

// Duration is a time.Duration that marshals as a string like "30m".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func DefaultConfig() Config {
	return Config{
		Addr:       ":8080",
		SessionTTL: Duration(30 * time.Minute),
		Env:        env.DefaultConfig(),
	}
}

// Server routes requests to the sessions of one Manager.
type Server struct {
	cfg     Config
	manager *env.Manager
}

func New(cfg Config) *Server {
	return &Server{cfg: cfg, manager: env.NewManager(cfg.Env)}
}

// Manager returns the session store behind the server.
func (s *Server) Manager() *env.Manager { return s.manager }

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/backends", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"backends": engine.Backends()})
	})

	r.Route("/api/envs", func(r chi.Router) {
		r.Get("/", s.listEnvs)
		r.Post("/", s.createEnv)
		r.Get("/{id}", s.getEnv)
		r.Delete("/{id}", s.deleteEnv)
		r.Post("/{id}/reset", s.resetEnv)
		r.Post("/{id}/step", s.stepEnv)
	})
	r.Get("/api/actions/{action}", s.describeAction)
	r.Post("/api/encode", s.encodeMove)
	r.Get("/ws/envs/{id}", s.serveEnvWS)
	return r
}

type envResponse struct {
	ID           string                 `json:"id"`
	Config       env.Config             `json:"config"`
	Observation  env.Observation        `json:"observation"`
	Info         env.Info               `json:"info"`
	LegalActions []actionspace.ActionID `json:"legal_actions"`
	Done         bool                   `json:"done"`
}

// createRequest overrides the server's env defaults. A nil MaxSteps keeps
// the default bound and an explicit 0 asks for an unlimited episode.
type createRequest struct {
	Backend  string `json:"backend,omitempty"`
	FEN      string `json:"fen,omitempty"`
	MaxSteps *int   `json:"max_steps,omitempty"`
}

type stepRequest struct {
	Action *int   `json:"action,omitempty"`
	Move   string `json:"move,omitempty"`
}

type stepResponse struct {
	ID string `json:"id"`
	env.StepResult
	LegalActions []actionspace.ActionID `json:"legal_actions"`
}

type actionResponse struct {
	Action    actionspace.ActionID `json:"action"`
	From      string               `json:"from"`
	To        string               `json:"to,omitempty"`
	Promotion string               `json:"promotion,omitempty"`
	Band      string               `json:"band"`
	Category  string               `json:"category"`
	OnBoard   bool                 `json:"on_board"`
	UCI       string               `json:"uci,omitempty"`
}

type encodeRequest struct {
	Move string `json:"move"`
}

func snapshot(id string, e *env.Env) envResponse {
	return envResponse{
		ID:           id,
		Config:       e.Config(),
		Observation:  e.Observation(),
		Info:         e.Info(),
		LegalActions: e.LegalIDs(),
		Done:         e.Done(),
	}
}

func (s *Server) listEnvs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"ids": s.manager.IDs()})
}

func (s *Server) createEnv(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
			return
		}
	}
	cfg := s.manager.Defaults()
	if req.Backend != "" {
		cfg.Backend = req.Backend
	}
	if req.FEN != "" {
		cfg.FEN = req.FEN
	}
	if req.MaxSteps != nil {
		cfg.MaxSteps = *req.MaxSteps
	}
	sess, err := s.manager.Create(cfg)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	var resp envResponse
	_ = sess.Do(func(e *env.Env) error {
		resp = snapshot(sess.ID, e)
		return nil
	})
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*env.Session, bool) {
	sess, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) getEnv(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var resp envResponse
	_ = sess.Do(func(e *env.Env) error {
		resp = snapshot(sess.ID, e)
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deleteEnv(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.manager.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

func (s *Server) resetEnv(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var resp envResponse
	err := sess.Do(func(e *env.Env) error {
		if _, err := e.Reset(); err != nil {
			return err
		}
		resp = snapshot(sess.ID, e)
		return nil
	})
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) stepEnv(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}
	resp, err := step(sess, req)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

var errEmptyStep = errors.New("step needs an action or a move")

func step(sess *env.Session, req stepRequest) (stepResponse, error) {
	resp := stepResponse{ID: sess.ID}
	err := sess.Do(func(e *env.Env) error {
		var (
			res env.StepResult
			err error
		)
		switch {
		case req.Action != nil:
			if *req.Action < 0 || *req.Action >= actionspace.ActionSpaceLen {
				return actionspace.ErrActionOutOfRange
			}
			res, err = e.Step(actionspace.ActionID(*req.Action))
		case req.Move != "":
			res, err = e.StepUCI(req.Move)
		default:
			return errEmptyStep
		}
		if err != nil {
			return err
		}
		resp.StepResult = res
		resp.LegalActions = e.LegalIDs()
		return nil
	})
	return resp, err
}

func (s *Server) describeAction(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "action"))
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, errors.New("invalid action"))
		return
	}
	if n >= actionspace.ActionSpaceLen {
		writeError(w, http.StatusBadRequest, actionspace.ErrActionOutOfRange)
		return
	}
	d, err := actionspace.Decode(actionspace.ActionID(n))
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	resp := actionResponse{
		Action:   d.ID,
		From:     d.From.String(),
		Band:     d.Category.Band().String(),
		Category: d.Category.String(),
		OnBoard:  d.OnBoard(),
	}
	if d.Promotion != actionspace.NoPiece {
		resp.Promotion = d.Promotion.String()
	}
	if d.OnBoard() {
		resp.To = d.To.String()
		resp.UCI, _ = d.UCI()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) encodeMove(w http.ResponseWriter, r *http.Request) {
	var req encodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}
	m, err := actionspace.ParseUCI(req.Move)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := actionspace.Classify(m)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	id := actionspace.Compose(m.From, c)
	writeJSON(w, http.StatusOK, map[string]any{
		"move":     m.String(),
		"action":   id,
		"band":     c.Band().String(),
		"category": c.String(),
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, env.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, env.ErrEpisodeDone):
		return http.StatusConflict
	case errors.Is(err, actionspace.ErrIllegalActionID), errors.Is(err, engine.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrUnknownBackend), errors.Is(err, engine.ErrInvalidFEN),
		errors.Is(err, env.ErrInvalidConfig),
		errors.Is(err, actionspace.ErrActionOutOfRange), errors.Is(err, actionspace.ErrUnclassifiableMove),
		errors.Is(err, actionspace.ErrInvalidCoordinate), errors.Is(err, actionspace.ErrInvalidSquare),
		errors.Is(err, errEmptyStep):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
