package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/dasdy/timetable/glyph"
	"github.com/dasdy/timetable/model"
	cs "github.com/dasdy/timetable/web/components"
)

var ErrNoStorage = errors.New("glyph storage is not configured")

// BuildAuthoringRenderContext builds the render context for the calibration board.
func (s *ServerHandler) BuildAuthoringRenderContext() cs.RenderContext {
	cfg := s.Board.Config()
	on, off := cfg.LampColorOn.Hex(), cfg.LampColorOff.Hex()

	s.authorLock.Lock()
	lit := s.authoring.Lit()
	lastSaved := s.lastSaved
	s.authorLock.Unlock()

	colors := make([]string, s.authoring.Lamps())
	for i := range colors {
		colors[i] = off
	}

	for _, i := range lit {
		colors[i] = on
	}

	result := lampsContext(colors, cfg, glyph.AuthoringColumns)
	result.Page = cs.PageTypeAuthoring
	result.Language = string(cfg.Language)
	result.LastSaved = lastSaved

	return result
}

// AuthorHandle handles requests to the calibration page.
func (s *ServerHandler) AuthorHandle(w http.ResponseWriter, _ *http.Request) {
	slog.DebugContext(logCtx, "Handling authoring page request")

	renderContext := s.BuildAuthoringRenderContext()
	renderOrFail(cs.AuthoringPage(&renderContext), w)
}

// ToggleHandle flips one calibration lamp and answers with the lit lamps.
func (s *ServerHandler) ToggleHandle(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.URL.Query().Get("lamp"))
	if err != nil {
		http.Error(w, fmt.Sprintf("bad lamp: %s", err), http.StatusBadRequest)

		return
	}

	s.authorLock.Lock()
	lit, err := s.authoring.Toggle(index)
	s.authorLock.Unlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(lit); err != nil {
		slog.ErrorContext(logCtx, "Failed to write response", "error", err)
	}
}

// SaveHandle stores the drawn glyph for a character and starts a fresh drawing.
func (s *ServerHandler) SaveHandle(w http.ResponseWriter, r *http.Request) {
	if s.Storage == nil {
		http.Error(w, ErrNoStorage.Error(), http.StatusServiceUnavailable)

		return
	}

	char := r.FormValue("rune")
	if utf8.RuneCountInString(char) != 1 {
		http.Error(w, fmt.Sprintf("expected a single character, got %q", char), http.StatusBadRequest)

		return
	}

	r0, _ := utf8.DecodeRuneInString(char)
	language := languageOr(r.FormValue("language"), s.Board.Config().Language)

	s.authorLock.Lock()
	defer s.authorLock.Unlock()

	stored := model.StoredGlyph{Language: language, Rune: r0, Glyph: s.authoring.Glyph()}
	if err := s.Storage.Store(stored); err != nil {
		slog.ErrorContext(logCtx, "Could not save glyph", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	slog.InfoContext(logCtx, "Glyph saved", "rune", char, "language", language, "lamps", stored.Glyph.Lamps)

	if language == s.Board.Config().Language {
		s.Board.AddGlyphs(map[rune]model.Glyph{r0: stored.Glyph})
	}

	s.authoring.Reset()
	s.lastSaved = char

	http.Redirect(w, r, "/author", http.StatusSeeOther)
}
