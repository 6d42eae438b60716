package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dasdy/timetable/board"
	cs "github.com/dasdy/timetable/web/components"
)

// BuildBoardRenderContext builds the render context for the board page.
func (s *ServerHandler) BuildBoardRenderContext() cs.RenderContext {
	snapshot := s.Lamps.Snapshot()
	colors := make([]string, len(snapshot))

	for i, c := range snapshot {
		colors[i] = c.Hex()
	}

	cfg := s.Board.Config()
	result := lampsContext(colors, cfg, len(colors)/board.RowCount)
	result.Text = s.Board.Text()
	result.Animating = s.Board.Animating()
	result.Page = cs.PageTypeBoard

	return result
}

// BoardHandle handles requests to the board page.
func (s *ServerHandler) BoardHandle(w http.ResponseWriter, _ *http.Request) {
	slog.DebugContext(logCtx, "Handling board page request")

	renderContext := s.BuildBoardRenderContext()
	renderOrFail(cs.BoardPage(&renderContext), w)
}

func (s *ServerHandler) ShowHandle(w http.ResponseWriter, r *http.Request) {
	text := r.FormValue("text")
	slog.InfoContext(logCtx, "Show requested", "text", text)

	if err := s.Board.Show(text); err != nil {
		boardError(w, err)

		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *ServerHandler) MoveLeftHandle(w http.ResponseWriter, r *http.Request) {
	s.handleMove(w, r, "left", s.Board.MoveLeft)
}

func (s *ServerHandler) MoveRightHandle(w http.ResponseWriter, r *http.Request) {
	s.handleMove(w, r, "right", s.Board.MoveRight)
}

func (s *ServerHandler) ClearHandle(w http.ResponseWriter, r *http.Request) {
	slog.InfoContext(logCtx, "Clear requested")

	if err := s.Board.Clear(); err != nil {
		boardError(w, err)

		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type moveFunc func(text string, circles int, interval time.Duration) (*board.Animation, error)

func (s *ServerHandler) handleMove(w http.ResponseWriter, r *http.Request, direction string, move moveFunc) {
	text := r.FormValue("text")

	circles, err := optionalInt(r.FormValue("circles"))
	if err != nil {
		http.Error(w, fmt.Sprintf("bad circles: %s", err), http.StatusBadRequest)

		return
	}

	intervalMs, err := optionalInt(r.FormValue("interval"))
	if err != nil {
		http.Error(w, fmt.Sprintf("bad interval: %s", err), http.StatusBadRequest)

		return
	}

	slog.InfoContext(logCtx, "Move requested", "direction", direction, "text", text, "circles", circles, "interval_ms", intervalMs)

	if _, err := move(text, circles, time.Duration(intervalMs)*time.Millisecond); err != nil {
		boardError(w, err)

		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	return strconv.Atoi(s)
}

func boardError(w http.ResponseWriter, err error) {
	slog.ErrorContext(logCtx, "Board operation failed", "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
