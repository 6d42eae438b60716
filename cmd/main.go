package main

import (
	"log/slog"
	"os"

	"github.com/dasdy/timetable/cmd/timetable"
	"github.com/dasdy/timetable/logging"
)

func main() {
	// replaced once flags are parsed and --log-level is known
	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, slog.LevelInfo)))

	timetable.Execute()
}
