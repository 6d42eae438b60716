// Package board animates text on a timetable board made of lamps.
//
// Lamps are numbered column by column, RowCount lamps per column. Text is
// converted to lamp positions by a glyph table; the board lights the positions
// that fall on it and, when scrolling, moves every position by one column per
// tick.
package board

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dasdy/timetable/glyph"
	"github.com/dasdy/timetable/logging"
	"github.com/dasdy/timetable/model"
	"github.com/lucasb-eyer/go-colorful"
)

// RowCount is the number of lamps in one column. One scroll step moves text by
// exactly one column.
const RowCount = glyph.Rows

var (
	ErrInvalidTarget  = errors.New("invalid board target")
	ErrNotInitialized = errors.New("board is not initialized")
)

var logCtx = logging.PackageCtx("board")

type Timetable struct {
	target Target
	cfg    Config
	table  *glyph.Table

	lock        sync.Mutex
	lamps       Lamps
	coordinates model.Coordinates
	text        string
	active      *Animation
}

// New validates the configuration. The board itself is built by Init.
func New(target Target, cfg Config) (*Timetable, error) {
	if target == nil {
		return nil, ErrInvalidTarget
	}

	cfg = cfg.withDefaults()

	if cfg.ColumnsInBoard < 0 {
		return nil, fmt.Errorf("columns in board must be positive, got %d", cfg.ColumnsInBoard)
	}

	table := cfg.Table
	if table == nil {
		var err error

		table, err = glyph.Builtin(cfg.Language)
		if err != nil {
			return nil, fmt.Errorf("could not load glyph table: %w", err)
		}
	}

	return &Timetable{
		target:      target,
		cfg:         cfg,
		table:       table,
		coordinates: model.Coordinates{},
	}, nil
}

// Init builds the board and binds its lamps. It returns the board so calls can
// be chained.
func (t *Timetable) Init() (*Timetable, error) {
	lamps, err := t.target.Build(t.cfg.Spec())
	if err != nil {
		return nil, fmt.Errorf("could not build board: %w", err)
	}

	if lamps == nil {
		return nil, ErrInvalidTarget
	}

	t.lock.Lock()
	t.lamps = lamps
	t.lock.Unlock()

	slog.DebugContext(logCtx, "Board ready", "lamps", lamps.Len(), "columns", t.cfg.ColumnsInBoard)

	return t, nil
}

// AddGlyphs lays custom glyphs over the table. Text shown or scrolled after the
// call uses them; a running scroll keeps the positions it already has.
func (t *Timetable) AddGlyphs(custom map[rune]model.Glyph) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.table = t.table.Merge(custom)
}

func (t *Timetable) Config() Config {
	return t.cfg
}

// Text is the text being shown or scrolled, empty after Clear.
func (t *Timetable) Text() string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.text
}

// Coordinates returns a copy of the tracked positions.
func (t *Timetable) Coordinates() model.Coordinates {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.coordinates.Clone()
}

// Animating reports whether a scroll is running.
func (t *Timetable) Animating() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.active != nil
}

// Show replaces whatever is on the board with text, without moving it.
func (t *Timetable) Show(text string) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.lamps == nil {
		return ErrNotInitialized
	}

	if err := t.resetLocked(); err != nil {
		return err
	}

	t.convert(text)

	return t.turnOnAll()
}

// MoveLeft scrolls text in from the right edge and out through the left one,
// repeating circles more times. A non-positive interval uses the configured one.
func (t *Timetable) MoveLeft(text string, circles int, interval time.Duration) (*Animation, error) {
	return t.move(text, circles, interval, "left", rebaseFromRight, terminateLeft, shiftLeft)
}

// MoveRight scrolls text in from the left edge and out through the right one.
func (t *Timetable) MoveRight(text string, circles int, interval time.Duration) (*Animation, error) {
	return t.move(text, circles, interval, "right", rebaseFromLeft, terminateRight, shiftRight)
}

// Clear stops any animation and turns every lit lamp off. Calling it on an idle
// or uninitialised board is fine.
func (t *Timetable) Clear() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.resetLocked()
}

func (t *Timetable) move(
	text string,
	circles int,
	interval time.Duration,
	direction string,
	rebase func(model.Coordinates, int) model.Coordinates,
	terminate terminateFunc,
	transform transformFunc,
) (*Animation, error) {
	if interval <= 0 {
		interval = t.cfg.TickInterval
	}

	circles = max(circles, 0)

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.lamps == nil {
		return nil, ErrNotInitialized
	}

	if err := t.resetLocked(); err != nil {
		return nil, err
	}

	t.convert(text)
	t.coordinates = rebase(t.coordinates, t.lamps.Len())

	anim := newAnimation(t.cfg.NewTicker(interval), circles, interval, terminate, transform)
	t.active = anim

	slog.DebugContext(logCtx, "Animation started",
		"direction", direction,
		"circles", circles,
		"interval", interval,
		"text", text)

	go t.runPeriodicShift(anim)

	return anim, nil
}

// resetLocked cancels the active animation, turns off lit lamps and forgets
// the text. Every entry point calls it before touching the board.
func (t *Timetable) resetLocked() error {
	if t.active != nil {
		t.active.finish(ErrCanceled)
		t.active = nil
	}

	err := t.turnOffAll()

	t.coordinates = model.Coordinates{}
	t.text = ""

	return err
}

func (t *Timetable) convert(text string) {
	t.text = text
	t.coordinates = t.table.Convert(text)
}

// runPeriodicShift is the loop shared by both scroll directions.
func (t *Timetable) runPeriodicShift(anim *Animation) {
	for {
		select {
		case <-anim.done:
			return
		case <-anim.ticker.C():
			if !t.tick(anim) {
				return
			}
		}
	}
}

// tick runs one step and reports whether the animation goes on. A failed step
// stops the animation before the error is reported.
func (t *Timetable) tick(anim *Animation) bool {
	t.lock.Lock()

	if t.active != anim {
		t.lock.Unlock()

		return false
	}

	finished, err := t.step(anim)
	if err != nil {
		err = fmt.Errorf("tick failed: %w", err)
		t.active = nil
		anim.finish(err)
	}

	t.lock.Unlock()

	if err != nil {
		slog.ErrorContext(logCtx, "Animation stopped", "error", err)

		if t.cfg.OnError != nil {
			t.cfg.OnError(err)
		}

		return false
	}

	return !finished
}

// step checks for the end of the text, then moves every position one step,
// switching the old positions off and the new ones on.
func (t *Timetable) step(anim *Animation) (bool, error) {
	next, finished := anim.terminate(shiftState{
		coords:      t.coordinates,
		circles:     anim.circles,
		boardLength: t.lamps.Len(),
	})

	if finished {
		err := t.turnOffAll()
		t.coordinates = model.Coordinates{}
		t.text = ""
		t.active = nil

		if err != nil {
			return true, err
		}

		anim.finish(nil)
		slog.DebugContext(logCtx, "Animation finished")

		return true, nil
	}

	anim.circles = next.circles
	t.coordinates = next.coords

	if err := t.turnOffAll(); err != nil {
		return false, err
	}

	shifted := make(model.Coordinates, len(t.coordinates))
	for i, p := range t.coordinates {
		shifted[i] = anim.transform(p)
	}

	t.coordinates = shifted

	return false, t.turnOnAll()
}

func terminateLeft(s shiftState) (shiftState, bool) {
	last, ok := s.coords.Max()
	if !ok {
		return s, true
	}

	if last >= 0 {
		return s, false
	}

	return nextCircle(s, rebaseFromRight)
}

func terminateRight(s shiftState) (shiftState, bool) {
	first, ok := s.coords.Min()
	if !ok {
		return s, true
	}

	if int(first) < s.boardLength {
		return s, false
	}

	return nextCircle(s, rebaseFromLeft)
}

func nextCircle(s shiftState, rebase func(model.Coordinates, int) model.Coordinates) (shiftState, bool) {
	if s.circles <= 0 {
		return s, true
	}

	s.circles--
	s.coords = rebase(s.coords, s.boardLength)

	return s, false
}

func shiftLeft(p model.Position) model.Position {
	return p - RowCount
}

func shiftRight(p model.Position) model.Position {
	return p + RowCount
}

// rebaseFromRight moves the text, whole columns at a time, so that its first
// column lands in the column just past the right edge of the board. The
// column of the leftmost lamp counts, not the lamp itself: a glyph that is
// dark in row 0 still starts fully off the board.
func rebaseFromRight(coords model.Coordinates, boardLength int) model.Coordinates {
	first, ok := coords.Min()
	if !ok {
		return coords
	}

	increment := boardLength - floorDiv(int(first), RowCount)*RowCount

	return coords.Shift(increment)
}

// rebaseFromLeft moves the text so that its last column lands in the column
// just before the left edge of the board.
func rebaseFromLeft(coords model.Coordinates, _ int) model.Coordinates {
	last, ok := coords.Max()
	if !ok {
		return coords
	}

	increment := (floorDiv(int(last), RowCount) + 1) * RowCount

	return coords.Shift(-increment)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}

func (t *Timetable) switchLamp(position model.Position, c colorful.Color) error {
	if position < 0 || int(position) >= t.lamps.Len() {
		return nil
	}

	if err := t.lamps.SetLamp(int(position), c); err != nil {
		return fmt.Errorf("could not switch lamp %d: %w", position, err)
	}

	return nil
}

func (t *Timetable) turnOnAll() error {
	return t.switchAll(t.cfg.LampColorOn)
}

func (t *Timetable) turnOffAll() error {
	if t.lamps == nil {
		return nil
	}

	return t.switchAll(t.cfg.LampColorOff)
}

func (t *Timetable) switchAll(c colorful.Color) error {
	for _, p := range t.coordinates {
		if err := t.switchLamp(p, c); err != nil {
			return err
		}
	}

	return nil
}
