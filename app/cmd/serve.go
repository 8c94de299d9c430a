package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tareas-go/app/config"
	"tareas-go/app/controllers"
	"tareas-go/app/routes"
	"tareas-go/app/services"
	"tareas-go/app/store"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := cfg.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}
	defer st.Close()

	srv := newServer(ctx, cfg, st, logger)

	logger.Info("servicio escuchando", "addr", "http://localhost"+cfg.Addr(), "store", cfg.StoreDriver)
	return serve(ctx, srv, logger)
}

// newServer resets the table and builds the HTTP server around it. A failed
// reset is logged and the server still starts.
func newServer(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) *http.Server {
	taskService := services.NewTaskService(st, logger)
	if err := taskService.Initialize(ctx); err != nil {
		logger.Warn("continuing without a clean tareas table", "err", err)
	}

	taskController := controllers.NewTaskController(taskService, logger)
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           routes.NewRouter(taskController, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
