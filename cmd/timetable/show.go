package timetable

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:   "show TEXT",
	Short: "Show text on the board without moving it",
	Long: `Light the lamps of TEXT starting from the first column. On the terminal the
board stays up until Esc or q is pressed; a serial panel keeps the text lit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := openDisplay()
		defer d.close()

		tt, err := initBoard(d)
		if err != nil {
			return err
		}

		if err := tt.Show(args[0]); err != nil {
			return err
		}

		if !d.interactive {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return d.wait(ctx)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	addBoardFlags(showCmd)
	addDeviceFlag(showCmd)
}
