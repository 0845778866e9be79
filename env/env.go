// Package env is a gym-style chess environment driven by action ids.
package env

import (
	"errors"
	"fmt"

	"gym-chess/actionspace"
	"gym-chess/engine"
)

// ErrEpisodeDone is returned by Step once the episode has terminated or been
// truncated. Call Reset to start a new one.
var ErrEpisodeDone = errors.New("episode is over")

// ErrInvalidConfig is returned by New for a configuration it cannot use.
var ErrInvalidConfig = errors.New("invalid env config")

// Config selects the engine backend and the episode shape.
type Config struct {
	Backend  string `json:"backend"`
	FEN      string `json:"fen"`
	MaxSteps int    `json:"max_steps"` // 0 means unlimited
}

// DefaultConfig returns the initial position on the default backend.
func DefaultConfig() Config {
	return Config{Backend: engine.DefaultBackend, FEN: engine.StartFEN}
}

// Observation is what the agent sees after every reset and step.
type Observation struct {
	Board       engine.Squares `json:"board"`
	WhiteToMove bool           `json:"white_to_move"`
	Ply         int            `json:"ply"`
}

// Info carries diagnostics that are not part of the observation.
type Info struct {
	FEN          string `json:"fen"`
	InCheck      bool   `json:"in_check"`
	Checkmate    bool   `json:"checkmate"`
	Stalemate    bool   `json:"stalemate"`
	LegalActions int    `json:"legal_actions"`
	LastMove     string `json:"last_move,omitempty"`
}

// StepResult is the outcome of one Step.
type StepResult struct {
	Observation Observation `json:"observation"`
	Reward      float64     `json:"reward"`
	Terminated  bool        `json:"terminated"`
	Truncated   bool        `json:"truncated"`
	Info        Info        `json:"info"`
}

// Env owns one game. It is not safe for concurrent use; Manager serialises
// access per session.
type Env struct {
	cfg        Config
	pos        engine.Position
	index      *actionspace.Index[engine.Move]
	ply        int
	lastMove   string
	terminated bool
	truncated  bool
}

// New builds an environment at the configured starting position.
func New(cfg Config) (*Env, error) {
	if cfg.Backend == "" {
		cfg.Backend = engine.DefaultBackend
	}
	if cfg.FEN == "" {
		cfg.FEN = engine.StartFEN
	}
	if cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("%w: max steps must be >= 0, got %d", ErrInvalidConfig, cfg.MaxSteps)
	}
	e := &Env{cfg: cfg}
	if _, err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Config returns the configuration the env was built with.
func (e *Env) Config() Config { return e.cfg }

// Reset restarts the episode from the configured position.
func (e *Env) Reset() (Observation, error) {
	pos, err := engine.Open(e.cfg.Backend, e.cfg.FEN)
	if err != nil {
		return Observation{}, err
	}
	e.pos = pos
	e.ply = 0
	e.lastMove = ""
	e.truncated = false
	if err := e.reindex(); err != nil {
		return Observation{}, err
	}
	return e.observe(), nil
}

// reindex rebuilds the action index for the current position.
func (e *Env) reindex() error {
	idx, err := actionspace.BuildIndex(e.pos.LegalMoves(), engine.Geometry)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", e.pos.FEN(), err)
	}
	e.index = idx
	e.terminated = idx.Len() == 0
	return nil
}

// Step plays the move behind id. An illegal id leaves the env untouched.
// The reward is 1 when the move delivers checkmate and 0 otherwise, from the
// point of view of the side that moved.
func (e *Env) Step(id actionspace.ActionID) (StepResult, error) {
	if e.Done() {
		return StepResult{}, ErrEpisodeDone
	}
	mv, err := e.index.Resolve(id)
	if err != nil {
		return StepResult{}, err
	}
	if err := e.pos.Apply(mv); err != nil {
		return StepResult{}, err
	}
	e.ply++
	e.lastMove = mv.UCI
	if err := e.reindex(); err != nil {
		return StepResult{}, err
	}

	res := StepResult{Observation: e.observe(), Info: e.Info()}
	res.Terminated = e.terminated
	if res.Terminated && e.pos.IsCheckmate() {
		res.Reward = 1
	}
	if !res.Terminated && e.cfg.MaxSteps > 0 && e.ply >= e.cfg.MaxSteps {
		e.truncated = true
	}
	res.Truncated = e.truncated
	return res, nil
}

// StepUCI resolves a UCI move through the action index and steps with it.
func (e *Env) StepUCI(uci string) (StepResult, error) {
	m, err := actionspace.ParseUCI(uci)
	if err != nil {
		return StepResult{}, err
	}
	mv, err := engine.FindMove(e.pos, m.String())
	if err != nil {
		return StepResult{}, err
	}
	id, err := actionspace.Encode(mv.Action)
	if err != nil {
		return StepResult{}, err
	}
	return e.Step(id)
}

// Done reports whether the episode has terminated or been truncated.
func (e *Env) Done() bool { return e.terminated || e.truncated }

// Mask returns the legal-action mask of the current position.
func (e *Env) Mask() []bool { return e.index.Mask() }

// Actions returns the legal actions in ascending id order.
func (e *Env) Actions() []actionspace.Action[engine.Move] { return e.index.Actions() }

// LegalIDs returns the legal ids in ascending order.
func (e *Env) LegalIDs() []actionspace.ActionID { return e.index.IDs() }

// Observation returns the current observation without stepping.
func (e *Env) Observation() Observation { return e.observe() }

// Info describes the current position.
func (e *Env) Info() Info {
	return Info{
		FEN:          e.pos.FEN(),
		InCheck:      e.pos.InCheck(),
		Checkmate:    e.pos.IsCheckmate(),
		Stalemate:    e.pos.IsStalemate(),
		LegalActions: e.index.Len(),
		LastMove:     e.lastMove,
	}
}

// FEN returns the current position.
func (e *Env) FEN() string { return e.pos.FEN() }

// Render draws the current position.
func (e *Env) Render() string { return engine.Render(e.pos) }

func (e *Env) observe() Observation {
	return Observation{
		Board:       e.pos.Squares(),
		WhiteToMove: e.pos.WhiteToMove(),
		Ply:         e.ply,
	}
}
