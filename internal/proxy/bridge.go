// Package proxy relays a player's client connection to the game server and
// feeds every game line through the parser before the player sees it.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudproxy/internal/config"
	"github.com/cory-johannsen/mudproxy/internal/game/flags"
	"github.com/cory-johannsen/mudproxy/internal/game/parser"
	"github.com/cory-johannsen/mudproxy/internal/game/session"
	"github.com/cory-johannsen/mudproxy/internal/observability"
	"github.com/cory-johannsen/mudproxy/internal/scripting"
	"github.com/cory-johannsen/mudproxy/internal/settings"
)

// Dialer opens the upstream game connection.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Bridge is the SessionHandler that proxies one player to the game.
type Bridge struct {
	cfg      config.Config
	policy   parser.CapturePolicy
	sessions *session.Manager
	store    settings.Store
	scripts  *scripting.Manager
	dialer   Dialer
	logger   *zap.Logger
}

// NewBridge wires a Bridge. scripts may be nil to run without automation.
//
// Precondition: sessions, store and logger must be non-nil; cfg must be valid.
// Postcondition: Returns a Bridge ready to serve sessions.
func NewBridge(cfg config.Config, sessions *session.Manager, store settings.Store, scripts *scripting.Manager, logger *zap.Logger) (*Bridge, error) {
	if sessions == nil {
		panic("proxy.NewBridge: sessions must not be nil")
	}
	if store == nil {
		panic("proxy.NewBridge: store must not be nil")
	}
	if logger == nil {
		panic("proxy.NewBridge: logger must not be nil")
	}
	policy, err := parser.ParseCapturePolicy(cfg.Parser.CapturePolicy)
	if err != nil {
		return nil, err
	}
	return &Bridge{
		cfg:      cfg,
		policy:   policy,
		sessions: sessions,
		store:    store,
		scripts:  scripts,
		dialer:   &net.Dialer{Timeout: cfg.Game.DialTimeout},
		logger:   logger,
	}, nil
}

// SetDialer replaces the upstream dialer.
func (b *Bridge) SetDialer(d Dialer) { b.dialer = d }

// HandleSession implements SessionHandler. It returns nil when either side
// closes its connection normally.
func (b *Bridge) HandleSession(ctx context.Context, front *Conn) error {
	start := time.Now()
	raw, err := b.dialer.DialContext(ctx, "tcp", b.cfg.Game.Addr())
	if err != nil {
		_ = front.WriteLine(errorLine("cannot reach " + b.cfg.Game.Addr()))
		return fmt.Errorf("dialing game %s: %w", b.cfg.Game.Addr(), err)
	}
	game := NewConn(raw, b.cfg.Game.ReadTimeout, b.cfg.Game.WriteTimeout)
	defer game.Close()

	sess, err := b.openSession(ctx)
	if err != nil {
		return err
	}
	id := sess.ID().String()
	defer func() { _ = b.sessions.Remove(sess.ID()) }()

	logger := observability.SessionLogger(b.logger, id, front.RemoteAddr().String())
	logger.Info("game connected",
		zap.String("game_addr", b.cfg.Game.Addr()),
		zap.Bool("echo_gains", sess.EchoGains()),
		zap.Duration("elapsed", time.Since(start)),
	)

	p := parser.New(sess, parser.Options{
		Logger:   logger,
		Notifier: sess.Notices(),
		Policy:   b.policy,
	})

	if b.scripts != nil {
		err := b.scripts.Attach(scripting.Host{
			Session: sess,
			Send:    game.WriteLine,
			Notify:  sess.Notices().Notify,
		})
		if err != nil {
			logger.Warn("scripts not loaded", zap.Error(err))
			_ = front.WriteLine(errorLine("scripts not loaded: " + err.Error()))
		} else {
			defer b.scripts.Detach(id)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		done <- b.upstream(p, game, front)
	}()
	go func() {
		defer wg.Done()
		done <- b.downstream(ctx, sess, game, front)
	}()
	go func() {
		defer wg.Done()
		b.drainNotices(ctx, sess, front)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
	}
	cancel()
	// Unblock whichever reader is still waiting.
	_ = game.Close()
	_ = front.Close()
	wg.Wait()

	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// openSession creates the session with the predefined flags and the stored
// gain echo preference.
func (b *Bridge) openSession(ctx context.Context) (*session.Session, error) {
	reg := flags.NewRegistry()
	if dir := b.cfg.Content.FlagsDir; dir != "" {
		defs, err := flags.LoadDirectory(dir, reg)
		switch {
		case errors.Is(err, os.ErrNotExist):
			b.logger.Warn("flag directory missing", zap.String("dir", dir))
		case err != nil:
			return nil, fmt.Errorf("loading flags: %w", err)
		default:
			b.logger.Debug("flags loaded", zap.Int("count", len(defs)))
		}
	}

	echo, err := settings.Bool(ctx, b.store, b.cfg.Proxy.Profile, settings.KeyEchoExp, b.cfg.Parser.EchoGains)
	if err != nil {
		b.logger.Warn("reading echo preference", zap.Error(err))
	}

	return b.sessions.Open(session.Options{
		Flags:        reg,
		EchoGains:    echo,
		NoticeBuffer: b.cfg.Parser.NoticeBuffer,
	}), nil
}

// upstream is the only goroutine that calls Parse, so lines reach the
// parser in stream order.
func (b *Bridge) upstream(p *parser.Parser, game, front *Conn) error {
	id := p.Session().ID().String()
	for {
		line, err := game.ReadLine()
		if line != "" || err == nil {
			if werr := b.relay(p, id, line, front); werr != nil {
				return fmt.Errorf("writing to client: %w", werr)
			}
		}
		if err != nil {
			return err
		}
	}
}

func (b *Bridge) relay(p *parser.Parser, id, line string, front *Conn) error {
	line = p.Parse(line)
	if b.scripts != nil {
		shown, ok := b.scripts.OnLine(id, line)
		if !ok {
			return nil
		}
		line = shown
	}
	return front.WriteLine(line)
}

func (b *Bridge) downstream(ctx context.Context, sess *session.Session, game, front *Conn) error {
	prefix := b.cfg.Proxy.CommandPrefix
	for {
		line, err := front.ReadLine()
		if err != nil {
			return err
		}
		if prefix != "" && strings.HasPrefix(line, prefix) {
			b.command(ctx, sess, front, strings.TrimPrefix(line, prefix))
			continue
		}
		if err := game.WriteLine(line); err != nil {
			return fmt.Errorf("writing to game: %w", err)
		}
	}
}

func (b *Bridge) drainNotices(ctx context.Context, sess *session.Session, front *Conn) {
	events := sess.Notices().Events()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			if err := front.WriteLine(noticeLine(msg)); err != nil {
				return
			}
		}
	}
}
