// Package terminal draws the board in a terminal window.
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dasdy/timetable/board"
	"github.com/dasdy/timetable/logging"
	"github.com/dasdy/timetable/model"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	lampRune = '█'
	// every lamp is two cells wide so that it looks square
	cellsPerLamp = 2
	margin       = 1
)

var logCtx = logging.PackageCtx("terminal")

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()

	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Board builds lamps on a tcell screen. A nil Screen is replaced with the
// real terminal on Build.
type Board struct {
	Screen tcell.Screen

	lamps *Lamps
}

func NewBoard(screen tcell.Screen) *Board {
	return &Board{Screen: screen}
}

func (b *Board) Build(spec model.BoardSpec) (board.Lamps, error) {
	if b == nil {
		return nil, board.ErrInvalidTarget
	}

	if b.Screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("could not open terminal: %w", err)
		}

		if err := screen.Init(); err != nil {
			return nil, fmt.Errorf("could not open terminal: %w", err)
		}

		b.Screen = screen
	}

	width, height := b.Screen.Size()
	if need := spec.Columns*cellsPerLamp + 2*margin; width < need {
		slog.WarnContext(logCtx, "Terminal is narrower than the board", "width", width, "needed", need)
	}

	if need := spec.Rows + 2*margin; height < need {
		slog.WarnContext(logCtx, "Terminal is lower than the board", "height", height, "needed", need)
	}

	b.lamps = &Lamps{
		screen:     b.Screen,
		rows:       spec.Rows,
		count:      spec.Lamps(),
		background: tcell.StyleDefault.Background(toTcell(spec.Background)),
	}
	b.lamps.paintBackground(spec)

	for i := range b.lamps.count {
		b.lamps.draw(i, spec.LampOff)
	}

	b.Screen.Show()

	return b.lamps, nil
}

// Run handles terminal events until ctx is done or the user presses Esc, q or
// Ctrl-C. The screen stays up until Close.
func (b *Board) Run(ctx context.Context) error {
	if b == nil || b.Screen == nil {
		return board.ErrNotInitialized
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})

	go func() {
		for {
			// PollEvent returns nil once the screen is finalised
			ev := b.Screen.PollEvent()
			if ev == nil {
				return
			}

			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !b.handleEvent(ev) {
				return nil
			}
		}
	}
}

// Close gives the terminal back to the shell.
func (b *Board) Close() error {
	if b != nil && b.Screen != nil {
		b.Screen.Fini()
	}

	return nil
}

func (b *Board) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			slog.DebugContext(logCtx, "Quit requested")

			return false
		}
	case *tcell.EventResize:
		b.Screen.Sync()
	}

	return true
}

type Lamps struct {
	lock       sync.Mutex
	screen     tcell.Screen
	rows       int
	count      int
	background tcell.Style
}

func (l *Lamps) Len() int {
	return l.count
}

func (l *Lamps) SetLamp(index int, c colorful.Color) error {
	if index < 0 || index >= l.count {
		return fmt.Errorf("lamp %d is outside the board of %d", index, l.count)
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	l.draw(index, c)
	l.screen.Show()

	return nil
}

// Cell returns the top-left screen cell of a lamp.
func (l *Lamps) Cell(index int) (int, int) {
	column, row := index/l.rows, index%l.rows

	return margin + column*cellsPerLamp, margin + row
}

func (l *Lamps) draw(index int, c colorful.Color) {
	x, y := l.Cell(index)
	style := l.background.Foreground(toTcell(c))

	for dx := range cellsPerLamp {
		l.screen.SetContent(x+dx, y, lampRune, nil, style)
	}
}

func (l *Lamps) paintBackground(spec model.BoardSpec) {
	width := spec.Columns*cellsPerLamp + 2*margin
	height := spec.Rows + 2*margin

	for y := range height {
		for x := range width {
			l.screen.SetContent(x, y, ' ', nil, l.background)
		}
	}
}
