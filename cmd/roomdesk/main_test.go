package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	listenErr error
	stopped   chan struct{}
	shutdowns atomic.Int32
}

func (s *fakeServer) ListenAndServe() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.stopped
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(context.Context) error {
	if s.shutdowns.Add(1) == 1 {
		close(s.stopped)
	}
	return nil
}

// startWorker mimics the outbox worker: it exits only after ctx is cancelled
// and reports whether it was still running when serve returned.
func startWorker(ctx context.Context) (<-chan struct{}, *atomic.Bool) {
	done := make(chan struct{})
	running := &atomic.Bool{}
	running.Store(true)
	go func() {
		defer close(done)
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		running.Store(false)
	}()
	return done, running
}

func TestServeStopsWorkerWhenListenFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done, running := startWorker(ctx)
	srv := &fakeServer{listenErr: errors.New("address already in use"), stopped: make(chan struct{})}

	err := serve(ctx, cancel, srv, done, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.False(t, running.Load(), "worker must have exited before serve returns")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done, running := startWorker(ctx)
	srv := &fakeServer{stopped: make(chan struct{})}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := serve(ctx, cancel, srv, done, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.False(t, running.Load())
	assert.GreaterOrEqual(t, srv.shutdowns.Load(), int32(1))
}
