package routes_test

import (
	"iter"
	"time"

	"github.com/dasdy/timetable/board"
	"github.com/dasdy/timetable/model"
	"github.com/dasdy/timetable/web/routes"
)

// SimpleStorageMock is a simple manual mock implementation of the Storage interface
type SimpleStorageMock struct {
	Stored      []model.StoredGlyph
	ReturnError error
}

func (m *SimpleStorageMock) Store(glyph model.StoredGlyph) error {
	if m.ReturnError != nil {
		return m.ReturnError
	}

	m.Stored = append(m.Stored, glyph)

	return nil
}

func (m *SimpleStorageMock) GatherAll(language model.Language) (map[rune]model.Glyph, error) {
	result := make(map[rune]model.Glyph)

	for _, g := range m.Stored {
		if g.Language == language {
			result[g.Rune] = g.Glyph
		}
	}

	return result, m.ReturnError
}

func (m *SimpleStorageMock) AllIterator() (iter.Seq[model.StoredGlyph], error) {
	return func(yield func(model.StoredGlyph) bool) {
		for _, g := range m.Stored {
			if !yield(g) {
				return
			}
		}
	}, nil
}

func (m *SimpleStorageMock) Close() {}

type moveCall struct {
	Direction string
	Text      string
	Circles   int
	Interval  time.Duration
}

// BoardMock records the operations it was asked to do.
type BoardMock struct {
	Cfg         board.Config
	CurrentText string
	Shown       []string
	Moves       []moveCall
	Clears      int
	Added       map[rune]model.Glyph
	ReturnError error
}

func newBoardMock() *BoardMock {
	cfg := board.DefaultConfig()
	cfg.ColumnsInBoard = 2

	return &BoardMock{Cfg: cfg}
}

func (m *BoardMock) Config() board.Config { return m.Cfg }
func (m *BoardMock) Text() string         { return m.CurrentText }
func (m *BoardMock) Animating() bool      { return false }

func (m *BoardMock) Show(text string) error {
	m.Shown = append(m.Shown, text)

	return m.ReturnError
}

func (m *BoardMock) MoveLeft(text string, circles int, interval time.Duration) (*board.Animation, error) {
	m.Moves = append(m.Moves, moveCall{"left", text, circles, interval})

	return nil, m.ReturnError
}

func (m *BoardMock) MoveRight(text string, circles int, interval time.Duration) (*board.Animation, error) {
	m.Moves = append(m.Moves, moveCall{"right", text, circles, interval})

	return nil, m.ReturnError
}

func (m *BoardMock) Clear() error {
	m.Clears++

	return m.ReturnError
}

func (m *BoardMock) AddGlyphs(custom map[rune]model.Glyph) {
	if m.Added == nil {
		m.Added = make(map[rune]model.Glyph)
	}

	for r, g := range custom {
		m.Added[r] = g
	}
}

func setupMockServerHandler() (*routes.ServerHandler, *BoardMock, *SimpleStorageMock) {
	boardMock := newBoardMock()
	storage := &SimpleStorageMock{}
	lamps := board.NewMemoryLamps(boardMock.Cfg.Spec().Lamps(), boardMock.Cfg.LampColorOff)

	return routes.NewServerHandler(boardMock, lamps, storage), boardMock, storage
}
