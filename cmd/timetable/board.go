package timetable

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dasdy/timetable/board"
	"github.com/dasdy/timetable/db"
	"github.com/dasdy/timetable/glyph"
	"github.com/dasdy/timetable/model"
	"github.com/dasdy/timetable/ports"
	"github.com/dasdy/timetable/terminal"
	"github.com/spf13/cobra"
)

// Board flags shared by every command that builds a board.
var (
	language       string
	boardHeight    int
	boardBgColor   string
	lampColorOn    string
	lampColorOff   string
	tickInterval   time.Duration
	columnsInBoard int
	storagePath    string
	devicePath     string
)

func addBoardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&language, "language", "l", string(board.DefaultLanguage), "Glyph table: eng or ua")
	cmd.Flags().IntVar(&boardHeight, "board-height", board.DefaultBoardHeight, "Board height in pixels")
	cmd.Flags().StringVar(&boardBgColor, "board-bg-color", board.DefaultBoardBgColor, "Board background colour")
	cmd.Flags().StringVar(&lampColorOn, "lamp-color-on", board.DefaultLampColorOn, "Colour of a lit lamp")
	cmd.Flags().StringVar(&lampColorOff, "lamp-color-off", board.DefaultLampColorOff, "Colour of a dark lamp")
	cmd.Flags().DurationVar(&tickInterval, "tick-interval", board.DefaultTickInterval, "Default time between scroll steps")
	cmd.Flags().IntVarP(&columnsInBoard, "columns-in-board", "c", board.DefaultColumns, "Number of lamp columns")
	addStorageFlag(cmd)
}

func addStorageFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&storagePath, "storage", "s", "./glyphs.sqlite",
		"Path to the sqlite file with hand-drawn glyphs, empty to use only built-in fonts")
}

func addDeviceFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&devicePath, "device", "d", "", "Serial device of an LED panel, the terminal is used when empty")
}

func boardConfig() (board.Config, error) {
	cfg := board.DefaultConfig()
	cfg.Language = model.Language(language)
	cfg.BoardHeight = boardHeight
	cfg.TickInterval = tickInterval
	cfg.ColumnsInBoard = columnsInBoard

	var err error

	if cfg.BoardBgColor, err = board.ParseColor(boardBgColor); err != nil {
		return cfg, err
	}

	if cfg.LampColorOn, err = board.ParseColor(lampColorOn); err != nil {
		return cfg, err
	}

	if cfg.LampColorOff, err = board.ParseColor(lampColorOff); err != nil {
		return cfg, err
	}

	cfg.Table, err = loadTable(cfg.Language)
	if err != nil {
		return cfg, err
	}

	cfg.OnError = func(err error) {
		slog.ErrorContext(logCtx, "Animation failed", "error", err)
	}

	return cfg, nil
}

// loadTable returns the built-in table for a language with the glyphs drawn by
// hand laid over it.
func loadTable(lang model.Language) (*glyph.Table, error) {
	table, err := glyph.Builtin(lang)
	if err != nil {
		return nil, err
	}

	if storagePath == "" {
		return table, nil
	}

	storage, err := db.ConnectDB(storagePath)
	if err != nil {
		return nil, fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
	}
	defer storage.Close()

	custom, err := storage.GatherAll(lang)
	if err != nil {
		return nil, fmt.Errorf("could not read glyphs: %w", err)
	}

	slog.DebugContext(logCtx, "Loaded hand-drawn glyphs", "language", lang, "count", len(custom))

	return table.Merge(custom), nil
}

// display is where a command draws the board.
type display struct {
	target board.Target
	// wait blocks until the user is done looking at the board or ctx is done.
	wait        func(ctx context.Context) error
	close       func() error
	interactive bool
}

func openDisplay() *display {
	if devicePath != "" {
		panel := ports.NewBoard(devicePath)

		return &display{
			target: panel,
			wait: func(ctx context.Context) error {
				<-ctx.Done()

				return nil
			},
			close: panel.Close,
		}
	}

	screen := terminal.NewBoard(nil)

	return &display{
		target:      screen,
		wait:        screen.Run,
		close:       screen.Close,
		interactive: true,
	}
}

func initBoard(d *display) (*board.Timetable, error) {
	cfg, err := boardConfig()
	if err != nil {
		return nil, err
	}

	tt, err := board.New(d.target, cfg)
	if err != nil {
		return nil, err
	}

	tt, err = tt.Init()
	if err != nil {
		if devicePath != "" {
			if names, errInner := ports.GetAvailableDevices(); errInner == nil {
				slog.InfoContext(logCtx, "Suggested devices", "devices", names)
			}
		}

		return nil, err
	}

	return tt, nil
}
