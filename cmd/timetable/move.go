package timetable

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/dasdy/timetable/board"
	"github.com/spf13/cobra"
)

var (
	circles  int
	interval time.Duration
)

// moveLeftCmd represents the move-left command.
var moveLeftCmd = &cobra.Command{
	Use:   "move-left TEXT",
	Short: "Scroll text from the right edge of the board to the left one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd.Context(), args[0], (*board.Timetable).MoveLeft)
	},
}

// moveRightCmd represents the move-right command.
var moveRightCmd = &cobra.Command{
	Use:   "move-right TEXT",
	Short: "Scroll text from the left edge of the board to the right one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd.Context(), args[0], (*board.Timetable).MoveRight)
	},
}

type move func(tt *board.Timetable, text string, circles int, interval time.Duration) (*board.Animation, error)

func runMove(parent context.Context, text string, start move) error {
	d := openDisplay()
	defer d.close()

	tt, err := initBoard(d)
	if err != nil {
		return err
	}

	anim, err := start(tt, text, circles, interval)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	// the display is released as soon as the animation ends
	go func() {
		select {
		case <-anim.Done():
			stop()
		case <-ctx.Done():
		}
	}()

	if err := d.wait(ctx); err != nil {
		return err
	}

	if err := tt.Clear(); err != nil {
		slog.WarnContext(logCtx, "Could not clear the board", "error", err)
	}

	err = anim.Err()
	if errors.Is(err, board.ErrCanceled) {
		slog.InfoContext(logCtx, "Animation interrupted")

		return nil
	}

	return err
}

func init() {
	for _, cmd := range []*cobra.Command{moveLeftCmd, moveRightCmd} {
		rootCmd.AddCommand(cmd)

		addBoardFlags(cmd)
		addDeviceFlag(cmd)
		cmd.Flags().IntVar(&circles, "circles", 0, "How many extra times the text goes around")
		cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Time between scroll steps, tick-interval when zero")
	}
}
