package cli

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"

	"task-manager/internal/content/httpapi"
)

// ShutdownTimeout bounds the graceful stop of the serve command.
const ShutdownTimeout = 10 * time.Second

// ServeCommand runs the content HTTP transport and the reminder scheduler
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute serves until ctx ends or the server fails. A nil ln listens on the
// configured address.
func (c *ServeCommand) Execute(ctx context.Context, ln net.Listener) error {
	rt := c.app.rt
	cfg := rt.Config
	logger := rt.Logger

	stopReminders, err := rt.startReminders()
	if err != nil {
		return err
	}
	defer stopReminders()

	relayCtx, stopRelay := context.WithCancel(ctx)
	defer stopRelay()
	rt.relay(relayCtx)

	handler := httpapi.NewHandler(rt.Provider, cfg.Content.CallTimeout, logger)
	server := httpapi.NewServer(httpapi.ServerConfig{
		Addr:         cfg.HTTPAddr(),
		ReadTimeout:  cfg.Content.ReadTimeout,
		WriteTimeout: cfg.Content.WriteTimeout,
	}, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		if ln != nil {
			errCh <- server.Serve(ln)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	if ln != nil {
		c.app.printf("Serving %s on %s\n", rt.Provider.TasksURI(), ln.Addr())
	} else {
		c.app.printf("Serving %s on %s\n", rt.Provider.TasksURI(), cfg.HTTPAddr())
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
		return err
	}
	return nil
}
