package timetable

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dasdy/timetable/board"
	"github.com/dasdy/timetable/db"
	"github.com/dasdy/timetable/web"
	"github.com/dasdy/timetable/web/routes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var port int

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web interface",
	Long: `Serve a page with a live board, controls for showing and scrolling text and a
calibration board for drawing new glyphs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		slog.DebugContext(logCtx, "Config", "file", viper.ConfigFileUsed(), "settings", viper.AllSettings())

		cfg, err := boardConfig()
		if err != nil {
			return err
		}

		target := &board.MemoryTarget{}

		tt, err := board.New(target, cfg)
		if err != nil {
			return err
		}

		if _, err := tt.Init(); err != nil {
			return err
		}
		defer tt.Clear()

		var storage db.Storage

		if storagePath != "" {
			sqlite, err := db.ConnectDB(storagePath)
			if err != nil {
				return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
			}
			defer sqlite.Close()

			storage = sqlite
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return web.StartServer(ctx, port, routes.NewServerHandler(tt, target.Lamps, storage))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addBoardFlags(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 9000, "Port on which server should be watching")
}
