package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudproxy/internal/config"
)

const maxAcceptBackoff = time.Second

// SessionHandler serves one connected frontend client until it disconnects
// or ctx is cancelled.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor listens for frontend clients and hands each to a SessionHandler.
// It satisfies server.Service.
type Acceptor struct {
	cfg     config.ProxyConfig
	handler SessionHandler
	logger  *zap.Logger

	// ctx is cancelled by Stop and parents every session context.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	listener net.Listener
	sessions sync.WaitGroup
	active   atomic.Int32
}

// NewAcceptor creates an acceptor for the proxy listener.
//
// Precondition: handler and logger must be non-nil.
func NewAcceptor(cfg config.ProxyConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	if handler == nil {
		panic("proxy.NewAcceptor: handler must not be nil")
	}
	if logger == nil {
		panic("proxy.NewAcceptor: logger must not be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start implements server.Service.
func (a *Acceptor) Start() error { return a.ListenAndServe() }

// ListenAndServe binds the proxy address and accepts clients until Stop.
// Transient accept errors are retried with a growing delay.
//
// Postcondition: returns nil after Stop, or the bind error.
func (a *Acceptor) ListenAndServe() error {
	lis, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}

	a.mu.Lock()
	if a.ctx.Err() != nil {
		a.mu.Unlock()
		_ = lis.Close()
		return nil
	}
	a.listener = lis
	a.mu.Unlock()

	a.logger.Info("proxy listening", zap.String("addr", lis.Addr().String()))

	var delay time.Duration
	for {
		raw, err := lis.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || a.ctx.Err() != nil {
				return nil
			}
			delay = min(max(2*delay, 5*time.Millisecond), maxAcceptBackoff)
			a.logger.Warn("accept failed", zap.Error(err), zap.Duration("retry_in", delay))
			select {
			case <-time.After(delay):
			case <-a.ctx.Done():
				return nil
			}
			continue
		}
		delay = 0

		a.sessions.Add(1)
		go a.serve(raw)
	}
}

func (a *Acceptor) serve(raw net.Conn) {
	defer a.sessions.Done()
	start := time.Now()
	addr := raw.RemoteAddr().String()
	n := a.active.Add(1)
	defer a.active.Add(-1)

	log := a.logger.With(zap.String("remote_addr", addr))
	log.Info("client connected", zap.Int32("active", n))

	conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
	defer conn.Close()

	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	// Handlers blocked in a read see the close and return.
	stopClose := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stopClose()

	if err := conn.Negotiate(); err != nil {
		log.Warn("telnet negotiation failed", zap.Error(err))
		return
	}

	if err := a.handler.HandleSession(ctx, conn); err != nil {
		log.Warn("session ended", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	log.Info("session ended cleanly", zap.Duration("duration", time.Since(start)))
}

// Stop closes the listener, cancels every session and waits for them to
// return. It is safe to call more than once, and before ListenAndServe.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	if a.ctx.Err() != nil {
		a.mu.Unlock()
		return
	}
	a.cancel()
	lis := a.listener
	a.mu.Unlock()

	if lis != nil {
		_ = lis.Close()
	}
	a.sessions.Wait()
	a.logger.Info("proxy stopped")
}

// Addr returns the listening address, or "" before ListenAndServe binds.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return ""
}

// IsRunning reports whether the acceptor is bound and not stopped.
func (a *Acceptor) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listener != nil && a.ctx.Err() == nil
}

// Active returns the number of connected clients.
func (a *Acceptor) Active() int {
	return int(a.active.Load())
}
