package routes

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dasdy/timetable/model"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second
	// a client that falls this far behind is dropped
	pendingChanges = 4096
)

// WSHandle streams lamp changes. The first message is the whole board, every
// following one a single change; both are JSON arrays of model.LampChange.
func (s *ServerHandler) WSHandle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(logCtx, "Websocket upgrade failed", "error", err)

		return
	}
	defer conn.Close()

	changes := make(chan model.LampChange, pendingChanges)
	overflow := make(chan struct{})
	var overflowOnce sync.Once

	// subscribe before the snapshot so that no change falls in between
	unsubscribe := s.Lamps.Subscribe(func(c model.LampChange) {
		select {
		case changes <- c:
		default:
			overflowOnce.Do(func() { close(overflow) })
		}
	})
	defer unsubscribe()

	snapshot := s.Lamps.Snapshot()
	initial := make([]model.LampChange, len(snapshot))

	for i, c := range snapshot {
		initial[i] = model.LampChange{Index: i, Color: c.Hex()}
	}

	if err := writeChanges(conn, initial); err != nil {
		return
	}

	// the reader only notices the client going away
	closed := make(chan struct{})

	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	slog.DebugContext(logCtx, "Websocket client connected", "remote", r.RemoteAddr)

	for {
		select {
		case <-closed:
			return
		case <-overflow:
			slog.WarnContext(logCtx, "Websocket client too slow, dropping", "remote", r.RemoteAddr)

			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
				time.Now().Add(time.Second))

			return
		case c := <-changes:
			if err := writeChanges(conn, []model.LampChange{c}); err != nil {
				return
			}
		}
	}
}

func writeChanges(conn *websocket.Conn, changes []model.LampChange) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

	return conn.WriteJSON(changes)
}
