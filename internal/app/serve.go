package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/logging"
	"github.com/agbru/wideint/internal/server"
)

// runServe serves the HTTP API until SIGINT or SIGTERM. The run timeout
// does not apply: a server runs until it is stopped.
func (a *Application) runServe(ctx context.Context) int {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.Registry, server.DefaultConfig(a.Config.Addr),
		server.WithLogger(a.Logger),
		server.WithVersion(Version))
	if err := srv.ListenAndServe(ctx); err != nil {
		a.Logger.Error("server failed", err, logging.String("addr", a.Config.Addr))
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
