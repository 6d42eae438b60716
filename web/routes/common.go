package routes

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/dasdy/timetable/board"
	"github.com/dasdy/timetable/db"
	"github.com/dasdy/timetable/glyph"
	"github.com/dasdy/timetable/logging"
	"github.com/dasdy/timetable/model"
	cs "github.com/dasdy/timetable/web/components"
	"github.com/gorilla/websocket"
)

var logCtx = logging.PackageCtx("web")

// Board is what the handlers need from a timetable.
type Board interface {
	Config() board.Config
	Text() string
	Animating() bool
	Show(text string) error
	MoveLeft(text string, circles int, interval time.Duration) (*board.Animation, error)
	MoveRight(text string, circles int, interval time.Duration) (*board.Animation, error)
	Clear() error
	AddGlyphs(custom map[rune]model.Glyph)
}

// ServerHandler holds all dependencies needed for the web server handlers.
type ServerHandler struct {
	Board   Board
	Lamps   *board.MemoryLamps
	Storage db.Storage

	authorLock sync.Mutex
	authoring  *glyph.Authoring
	lastSaved  string

	upgrader websocket.Upgrader
}

func NewServerHandler(b Board, lamps *board.MemoryLamps, storage db.Storage) *ServerHandler {
	return &ServerHandler{
		Board:     b,
		Lamps:     lamps,
		Storage:   storage,
		authoring: glyph.NewAuthoring(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
		},
	}
}

// SafeRenderTemplate safely renders a templ component to an http.ResponseWriter.
func SafeRenderTemplate(component templ.Component, w http.ResponseWriter) error {
	// Do not write to w because it implies 200 status
	var buf bytes.Buffer

	err := component.Render(context.Background(), &buf)
	if err != nil {
		return fmt.Errorf("could not render template: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")

	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(logCtx, "Failed to write response", "error", err)

		return fmt.Errorf("could not write to response writer: %w", err)
	}

	return nil
}

func renderOrFail(component templ.Component, w http.ResponseWriter) {
	if err := SafeRenderTemplate(component, w); err != nil {
		slog.ErrorContext(logCtx, "Could not render page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func lampsContext(colors []string, cfg board.Config, columns int) cs.RenderContext {
	lamps := make([]cs.Lamp, len(colors))
	for i, c := range colors {
		lamps[i] = cs.Lamp{Index: i, Color: c}
	}

	return cs.RenderContext{
		TotalCols:  columns,
		TotalRows:  board.RowCount,
		Lamps:      lamps,
		Background: cfg.BoardBgColor.Hex(),
		LampOn:     cfg.LampColorOn.Hex(),
		LampOff:    cfg.LampColorOff.Hex(),
	}
}

func languageOr(s string, fallback model.Language) model.Language {
	if s == "" {
		return fallback
	}

	return model.Language(s)
}
