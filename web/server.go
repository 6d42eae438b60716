package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dasdy/timetable/logging"
	"github.com/dasdy/timetable/web/routes"
)

var logCtx = logging.PackageCtx("web")

func BuildServer(handler *routes.ServerHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", http.HandlerFunc(handler.BoardHandle))
	mux.Handle("POST /show", http.HandlerFunc(handler.ShowHandle))
	mux.Handle("POST /move-left", http.HandlerFunc(handler.MoveLeftHandle))
	mux.Handle("POST /move-right", http.HandlerFunc(handler.MoveRightHandle))
	mux.Handle("POST /clear", http.HandlerFunc(handler.ClearHandle))
	mux.Handle("GET /ws", http.HandlerFunc(handler.WSHandle))
	mux.Handle("GET /author", http.HandlerFunc(handler.AuthorHandle))
	mux.Handle("POST /author/toggle", http.HandlerFunc(handler.ToggleHandle))
	mux.Handle("POST /author/save", http.HandlerFunc(handler.SaveHandle))

	return mux
}

// StartServer serves until ctx is done, then shuts down gracefully.
func StartServer(ctx context.Context, port int, handler *routes.ServerHandler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           BuildServer(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(logCtx, "Could not stop server", "error", err)
		}
	}()

	slog.InfoContext(logCtx, "Running interface", "port", port)

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return fmt.Errorf("could not run server: %w", err)
}
