package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"gym-chess/env"
)

const wsIdlePingInterval = 30 * time.Second

// wsMessage is the envelope for every websocket frame in both directions.
//
// Client messages: "state", "reset", "step" (payload is a step request).
// Server messages: "state", "step", "error", "ping".
type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (s *Server) serveEnvWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	send := make(chan []byte, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := writeWSWithHeartbeat(conn, send); err != nil {
			conn.Close()
			for range send {
			}
		}
	}()
	defer func() {
		close(send)
		<-done
		conn.Close()
	}()

	send <- mustMarshal(stateMessage(sess))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			send <- mustMarshal(errorMessage("invalid message"))
			continue
		}
		send <- mustMarshal(handleWS(sess, msg))
	}
}

func handleWS(sess *env.Session, msg wsMessage) wsMessage {
	switch msg.Type {
	case "state":
		return stateMessage(sess)
	case "reset":
		var resp envResponse
		err := sess.Do(func(e *env.Env) error {
			if _, err := e.Reset(); err != nil {
				return err
			}
			resp = snapshot(sess.ID, e)
			return nil
		})
		if err != nil {
			return errorMessage(err.Error())
		}
		return wsMessage{Type: "state", Payload: mustMarshal(resp)}
	case "step":
		var req stepRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return errorMessage("invalid payload")
		}
		resp, err := step(sess, req)
		if err != nil {
			return errorMessage(err.Error())
		}
		return wsMessage{Type: "step", Payload: mustMarshal(resp)}
	}
	return errorMessage("unknown message type " + msg.Type)
}

func stateMessage(sess *env.Session) wsMessage {
	var resp envResponse
	_ = sess.Do(func(e *env.Env) error {
		resp = snapshot(sess.ID, e)
		return nil
	})
	return wsMessage{Type: "state", Payload: mustMarshal(resp)}
}

func errorMessage(text string) wsMessage {
	return wsMessage{Type: "error", Payload: mustMarshal(map[string]string{"error": text})}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
