package board_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dasdy/timetable/board"
	"github.com/dasdy/timetable/glyph"
	"github.com/dasdy/timetable/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func narrowTable() *glyph.Table {
	return glyph.New(model.LanguageEnglish, map[rune]model.Glyph{
		'A': {Width: 1, Lamps: []int{0, 1, 2, 3, 4}},
	})
}

func newBoard(t *testing.T, columns int) (*board.Timetable, *board.MemoryTarget) {
	t.Helper()

	target := &board.MemoryTarget{}
	cfg := board.DefaultConfig()
	cfg.ColumnsInBoard = columns
	cfg.Table = narrowTable()

	tt, err := board.New(target, cfg)
	require.NoError(t, err)

	tt, err = tt.Init()
	require.NoError(t, err)

	t.Cleanup(func() { _ = tt.Clear() })

	return tt, target
}

// onCounter counts how often each lamp was switched to the "on" colour.
type onCounter struct {
	lock   sync.Mutex
	counts map[int]int
}

func countOn(lamps *board.MemoryLamps, on string) *onCounter {
	c := &onCounter{counts: make(map[int]int)}
	lamps.Subscribe(func(change model.LampChange) {
		if change.Color != on {
			return
		}

		c.lock.Lock()
		defer c.lock.Unlock()

		c.counts[change.Index]++
	})

	return c
}

func (c *onCounter) get(index int) int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.counts[index]
}

func TestNew(t *testing.T) {
	t.Run("rejects missing target", func(t *testing.T) {
		_, err := board.New(nil, board.DefaultConfig())

		require.ErrorIs(t, err, board.ErrInvalidTarget)
	})

	t.Run("rejects unknown language", func(t *testing.T) {
		cfg := board.DefaultConfig()
		cfg.Language = "klingon"

		_, err := board.New(&board.MemoryTarget{}, cfg)

		require.ErrorIs(t, err, glyph.ErrUnknownLanguage)
	})

	t.Run("fills in defaults", func(t *testing.T) {
		tt, err := board.New(&board.MemoryTarget{}, board.Config{})

		require.NoError(t, err)
		assert.Equal(t, board.DefaultColumns, tt.Config().ColumnsInBoard)
		assert.Equal(t, board.DefaultTickInterval, tt.Config().TickInterval)
		assert.Equal(t, board.DefaultLanguage, tt.Config().Language)
	})
}

func TestInit(t *testing.T) {
	t.Run("rejects a nil builder", func(t *testing.T) {
		var target *board.MemoryTarget

		tt, err := board.New(target, board.DefaultConfig())
		require.NoError(t, err)

		_, err = tt.Init()
		require.ErrorIs(t, err, board.ErrInvalidTarget)
	})

	t.Run("builds board of columns times rows lamps", func(t *testing.T) {
		_, target := newBoard(t, 7)

		assert.Equal(t, 49, target.Lamps.Len())
	})

	t.Run("propagates builder errors", func(t *testing.T) {
		target := board.TargetFunc(func(model.BoardSpec) (board.Lamps, error) {
			return nil, errors.New("no screen")
		})

		tt, err := board.New(target, board.DefaultConfig())
		require.NoError(t, err)

		_, err = tt.Init()
		require.ErrorContains(t, err, "no screen")
	})

	t.Run("rejects builder returning no lamps", func(t *testing.T) {
		target := board.TargetFunc(func(model.BoardSpec) (board.Lamps, error) {
			return nil, nil
		})

		tt, err := board.New(target, board.DefaultConfig())
		require.NoError(t, err)

		_, err = tt.Init()
		require.ErrorIs(t, err, board.ErrInvalidTarget)
	})

	t.Run("operations need init", func(t *testing.T) {
		tt, err := board.New(&board.MemoryTarget{}, board.DefaultConfig())
		require.NoError(t, err)

		require.ErrorIs(t, tt.Show("A"), board.ErrNotInitialized)

		_, err = tt.MoveLeft("A", 0, 0)
		require.ErrorIs(t, err, board.ErrNotInitialized)

		_, err = tt.MoveRight("A", 0, 0)
		require.ErrorIs(t, err, board.ErrNotInitialized)

		require.NoError(t, tt.Clear())
	})
}

func TestShowAndClear(t *testing.T) {
	t.Run("show lights exactly the glyph lamps", func(t *testing.T) {
		tt, target := newBoard(t, 7)
		on := tt.Config().LampColorOn

		require.NoError(t, tt.Show("A"))

		assert.Equal(t, []int{0, 1, 2, 3, 4}, target.Lamps.Lit(on))
		assert.Equal(t, "A", tt.Text())
		assert.False(t, tt.Animating())
	})

	t.Run("clear turns the lamps back off", func(t *testing.T) {
		tt, target := newBoard(t, 7)
		on := tt.Config().LampColorOn
		off := tt.Config().LampColorOff

		require.NoError(t, tt.Show("A"))
		require.NoError(t, tt.Clear())

		assert.Empty(t, target.Lamps.Lit(on))
		assert.Len(t, target.Lamps.Lit(off), 49)
		assert.Empty(t, tt.Coordinates())
		assert.Empty(t, tt.Text())
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		tt, target := newBoard(t, 7)

		require.NoError(t, tt.Clear())
		require.NoError(t, tt.Clear())

		assert.Empty(t, target.Lamps.Lit(tt.Config().LampColorOn))
	})

	t.Run("show replaces previous text", func(t *testing.T) {
		tt, target := newBoard(t, 7)

		require.NoError(t, tt.Show("AA"))
		require.NoError(t, tt.Show("A"))

		assert.Equal(t, []int{0, 1, 2, 3, 4}, target.Lamps.Lit(tt.Config().LampColorOn))
	})

	t.Run("positions past the board are skipped", func(t *testing.T) {
		tt, target := newBoard(t, 1)

		require.NoError(t, tt.Show("AA"))

		assert.Equal(t, []int{0, 1, 2, 3, 4}, target.Lamps.Lit(tt.Config().LampColorOn))
		assert.Len(t, tt.Coordinates(), 10)
	})
}

func TestShowWithBuiltinFont(t *testing.T) {
	target := &board.MemoryTarget{}
	cfg := board.DefaultConfig()
	cfg.ColumnsInBoard = 8

	tt, err := board.New(target, cfg)
	require.NoError(t, err)
	_, err = tt.Init()
	require.NoError(t, err)

	require.NoError(t, tt.Show("HI"))

	table, err := glyph.Builtin(model.LanguageEnglish)
	require.NoError(t, err)

	expected := make([]int, 0)
	for _, p := range table.Convert("HI") {
		if p >= 0 && int(p) < target.Lamps.Len() {
			expected = append(expected, int(p))
		}
	}

	assert.ElementsMatch(t, expected, target.Lamps.Lit(cfg.LampColorOn))
}

func TestAddGlyphs(t *testing.T) {
	tt, target := newBoard(t, 7)
	on := tt.Config().LampColorOn

	require.NoError(t, tt.Show("B"))
	assert.Empty(t, target.Lamps.Lit(on))

	tt.AddGlyphs(map[rune]model.Glyph{
		'B': {Width: 1, Lamps: []int{6}},
		'A': {Width: 1, Lamps: []int{0}},
	})

	require.NoError(t, tt.Show("BA"))
	assert.Equal(t, []int{6, 14}, target.Lamps.Lit(on))
}

func TestScrollCircles(t *testing.T) {
	testCases := []struct {
		name    string
		move    func(tt *board.Timetable) (*board.Animation, error)
		circles int
	}{
		{"left once", func(tt *board.Timetable) (*board.Animation, error) { return tt.MoveLeft("A", 0, time.Millisecond) }, 0},
		{"left three times", func(tt *board.Timetable) (*board.Animation, error) { return tt.MoveLeft("A", 2, time.Millisecond) }, 2},
		{"right twice", func(tt *board.Timetable) (*board.Animation, error) { return tt.MoveRight("A", 1, time.Millisecond) }, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tt, target := newBoard(t, 7)
			counter := countOn(target.Lamps, tt.Config().LampColorOn.Hex())

			anim, err := tc.move(tt)
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			require.NoError(t, anim.Wait(ctx))

			// every traversal lights the middle column exactly once
			assert.Equal(t, tc.circles+1, counter.get(21))
			assert.False(t, tt.Animating())
			assert.Empty(t, tt.Coordinates())
			assert.Empty(t, target.Lamps.Lit(tt.Config().LampColorOn))
		})
	}
}

func TestNewAnimationCancelsPrevious(t *testing.T) {
	tt, target := newBoard(t, 7)

	first, err := tt.MoveLeft("A", 10, time.Hour)
	require.NoError(t, err)

	second, err := tt.MoveRight("A", 10, time.Hour)
	require.NoError(t, err)

	<-first.Done()
	assert.ErrorIs(t, first.Err(), board.ErrCanceled)
	assert.True(t, tt.Animating())
	assert.NoError(t, second.Err())

	require.NoError(t, tt.Clear())

	<-second.Done()
	assert.ErrorIs(t, second.Err(), board.ErrCanceled)
	assert.False(t, tt.Animating())
	assert.Empty(t, target.Lamps.Lit(tt.Config().LampColorOn))
}

func TestWaitHonoursContext(t *testing.T) {
	tt, _ := newBoard(t, 7)

	anim, err := tt.MoveLeft("A", 0, time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, anim.Wait(ctx), context.Canceled)
	assert.True(t, tt.Animating())
}

func TestParseColor(t *testing.T) {
	c, err := board.ParseColor("#ffcc00")

	require.NoError(t, err)
	assert.Equal(t, "#ffcc00", c.Hex())

	_, err = board.ParseColor("yellow")
	require.Error(t, err)
}

func TestMemoryLampsSubscribe(t *testing.T) {
	lamps := board.NewMemoryLamps(3, board.DefaultConfig().LampColorOff)
	on := board.DefaultConfig().LampColorOn

	changes := make([]model.LampChange, 0)
	unsubscribe := lamps.Subscribe(func(c model.LampChange) { changes = append(changes, c) })

	require.NoError(t, lamps.SetLamp(1, on))
	unsubscribe()
	require.NoError(t, lamps.SetLamp(2, on))

	assert.Equal(t, []model.LampChange{{Index: 1, Color: on.Hex()}}, changes)
	assert.Equal(t, []int{1, 2}, lamps.Lit(on))
	assert.Len(t, lamps.Snapshot(), 3)
}
