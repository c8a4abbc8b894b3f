package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"miosa/internal/runner"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchWSOutbound struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Status    string `json:"status,omitempty"`
	Progress  int32  `json:"progress,omitempty"`
	Message   string `json:"message,omitempty"`
}

// HandleWatchWS streams background planning events for one session over a
// websocket. The client sends nothing but pings; the server fans out hub
// events until the connection drops.
func (h *ConsultationHandler) HandleWatchWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	if _, ok := h.svc.GetSession(sessionID); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		log.Printf("watch ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	events, cancel := h.svc.Hub.Subscribe(sessionID)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeWatchWS(conn, watchWSOutbound{Type: "subscribed", SessionID: sessionID}); err != nil {
		return
	}

	ticker := time.NewTicker(watchWSPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := writeWatchWS(conn, watchEventOutbound(sessionID, evt)); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeWatchWS(conn *websocket.Conn, out watchWSOutbound) error {
	if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(out)
}

func watchEventOutbound(sessionID string, evt runner.RunEvent) watchWSOutbound {
	out := watchWSOutbound{
		SessionID: sessionID,
		Status:    evt.Status,
		Progress:  evt.Progress,
		Message:   evt.Message,
	}
	switch evt.Type {
	case runner.EventTypeStatus:
		out.Type = "status"
	case runner.EventTypeProgress:
		out.Type = "progress"
	case runner.EventTypeComplete:
		out.Type = "complete"
	case runner.EventTypeError:
		out.Type = "error"
	default:
		out.Type = "log"
	}
	return out
}
