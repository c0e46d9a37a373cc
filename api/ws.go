package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"dmx-editor/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Type  string         `json:"type"`
	State *session.State `json:"state,omitempty"`
}

func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "session_id", s.ID, "error", err)
		return
	}
	defer conn.Close()

	// gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeMsg := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}
	sendState := func(st session.State) error {
		return writeMsg(wsMessage{Type: "state", State: &st})
	}

	outChan := make(chan session.State, 1)
	kick := s.SetClient(outChan) // kicks any prior client
	defer s.ClearClient(outChan) // closes outChan

	if err := sendState(s.Snapshot()); err != nil {
		h.logger.Debug("ws initial state failed", "session_id", s.ID, "error", err)
		return
	}

	// Pump state changes until ClearClient closes outChan.
	go func() {
		for st := range outChan {
			if err := sendState(st); err != nil {
				return
			}
		}
	}()

	// Close the connection on session removal or displacement so the read
	// loop below unblocks.
	connDone := make(chan struct{})
	go func() {
		select {
		case <-s.Done():
			_ = writeMsg(wsMessage{Type: "closed"})
			conn.Close()
		case <-kick:
			// Displaced by a newer connection. No "closed" message: the
			// session itself is still alive.
			conn.Close()
		case <-connDone:
		}
	}()
	defer close(connDone)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "refresh":
			if err := sendState(s.Snapshot()); err != nil {
				return
			}
		default:
			h.logger.Debug("ws message ignored", "session_id", s.ID, "type", msg.Type)
		}
	}
}
