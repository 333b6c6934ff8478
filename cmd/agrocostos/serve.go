package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds how long in-flight requests get after a signal.
const shutdownTimeout = 30 * time.Second

// Run executes the serve command. It blocks until deps.Ctx is done, then
// shuts the server down gracefully.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.ListenAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fail(deps, fmt.Errorf("listening on %s: %w", addr, err))
	}
	return serve(deps.Ctx, deps, ln)
}

func serve(ctx context.Context, deps *Dependencies, ln net.Listener) error {
	srv := &http.Server{
		Handler:           NewServer(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	fmt.Fprintf(deps.Stdout, "listening on http://%s/api\n", ln.Addr())
	return g.Wait()
}
