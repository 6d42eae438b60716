package terminal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dasdy/timetable/board"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct {
	r     rune
	style tcell.Style
}

// MockScreen is a minimal tcell.Screen that remembers what was drawn.
type MockScreen struct {
	tcell.Screen

	lock      sync.Mutex
	cells     map[[2]int]cell
	shows     int
	syncs     int
	finalised bool
	events    chan tcell.Event
}

func newMockScreen() *MockScreen {
	return &MockScreen{cells: make(map[[2]int]cell), events: make(chan tcell.Event, 4)}
}

func (m *MockScreen) Size() (int, int) { return 80, 24 }

func (m *MockScreen) SetContent(x, y int, mainc rune, _ []rune, style tcell.Style) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.cells[[2]int{x, y}] = cell{mainc, style}
}

func (m *MockScreen) Show() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.shows++
}

func (m *MockScreen) Sync() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.syncs++
}

func (m *MockScreen) Fini() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if !m.finalised {
		m.finalised = true
		close(m.events)
	}
}

func (m *MockScreen) PollEvent() tcell.Event {
	ev, ok := <-m.events
	if !ok {
		return nil
	}

	return ev
}

func (m *MockScreen) at(x, y int) cell {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.cells[[2]int{x, y}]
}

func foreground(c cell) tcell.Color {
	fg, _, _ := c.style.Decompose()

	return fg
}

func buildBoard(t *testing.T, columns int) (*MockScreen, *Board, board.Config) {
	t.Helper()

	screen := newMockScreen()
	b := NewBoard(screen)

	cfg := board.DefaultConfig()
	cfg.ColumnsInBoard = columns

	_, err := b.Build(cfg.Spec())
	require.NoError(t, err)

	return screen, b, cfg
}

func TestBuildDrawsEveryLampOff(t *testing.T) {
	screen, b, cfg := buildBoard(t, 3)

	assert.Equal(t, 21, b.lamps.Len())
	assert.Equal(t, 1, screen.shows)

	off := toTcell(cfg.LampColorOff)
	for i := range b.lamps.Len() {
		x, y := b.lamps.Cell(i)

		assert.Equal(t, lampRune, screen.at(x, y).r, "lamp %d", i)
		assert.Equal(t, off, foreground(screen.at(x, y)), "lamp %d", i)
		assert.Equal(t, off, foreground(screen.at(x+1, y)), "lamp %d", i)
	}

	assert.Equal(t, ' ', screen.at(0, 0).r, "margin is background")
}

func TestLampCells(t *testing.T) {
	_, b, _ := buildBoard(t, 3)

	testCases := []struct {
		index int
		x, y  int
	}{
		{0, 1, 1},
		{6, 1, 7},
		{7, 3, 1},
		{20, 5, 7},
	}

	for _, tc := range testCases {
		x, y := b.lamps.Cell(tc.index)

		assert.Equal(t, tc.x, x, "lamp %d", tc.index)
		assert.Equal(t, tc.y, y, "lamp %d", tc.index)
	}
}

func TestSetLamp(t *testing.T) {
	screen, b, cfg := buildBoard(t, 3)

	require.NoError(t, b.lamps.SetLamp(8, cfg.LampColorOn))

	x, y := b.lamps.Cell(8)
	assert.Equal(t, toTcell(cfg.LampColorOn), foreground(screen.at(x, y)))
	assert.Equal(t, 2, screen.shows)

	require.Error(t, b.lamps.SetLamp(21, cfg.LampColorOn))
	require.Error(t, b.lamps.SetLamp(-1, cfg.LampColorOn))
}

func TestTimetableOnTerminal(t *testing.T) {
	screen := newMockScreen()
	cfg := board.DefaultConfig()
	cfg.ColumnsInBoard = 4

	tt, err := board.New(NewBoard(screen), cfg)
	require.NoError(t, err)
	_, err = tt.Init()
	require.NoError(t, err)

	require.NoError(t, tt.Show("I"))

	on := toTcell(cfg.LampColorOn)
	// the middle column of I is fully lit
	for row := range 7 {
		assert.Equal(t, on, foreground(screen.at(margin+cellsPerLamp, margin+row)), "row %d", row)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	testCases := []struct {
		name string
		ev   tcell.Event
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			screen, b, _ := buildBoard(t, 1)

			screen.events <- tcell.NewEventResize(80, 24)
			screen.events <- tc.ev

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			require.NoError(t, b.Run(ctx))
			require.NoError(t, ctx.Err(), "run should stop before the deadline")
			assert.Equal(t, 1, screen.syncs)

			require.NoError(t, b.Close())
			assert.True(t, screen.finalised)
		})
	}
}

func TestRunStopsWithContext(t *testing.T) {
	screen, b, _ := buildBoard(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, b.Run(ctx))
	assert.False(t, screen.finalised, "the screen stays up until closed")

	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "closing twice is fine")
	assert.True(t, screen.finalised)
}

func TestRunNeedsScreen(t *testing.T) {
	require.ErrorIs(t, (&Board{}).Run(context.Background()), board.ErrNotInitialized)
}

func TestNilBoardIsInvalidTarget(t *testing.T) {
	var b *Board

	tt, err := board.New(b, board.DefaultConfig())
	require.NoError(t, err)

	_, err = tt.Init()
	require.ErrorIs(t, err, board.ErrInvalidTarget)

	require.ErrorIs(t, b.Run(context.Background()), board.ErrNotInitialized)
	require.NoError(t, b.Close())
}
