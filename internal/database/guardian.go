package database

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// State describes the guardian's view of the database connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDegraded
)

// String returns the lowercase name of the state for logs and health output.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDegraded:
		return "degraded"
	}
	return "unknown"
}

// ErrRetriesExhausted is returned when a reconnect is requested after the
// attempt cap has been reached; only the periodic tick re-opens evaluation.
var ErrRetriesExhausted = errors.New("reconnect attempts exhausted")

// ErrNotConnected is returned for queries issued while no connection exists.
var ErrNotConnected = errors.New("database not connected")

// ConnectFunc opens a fresh connection pool.
type ConnectFunc func(ctx context.Context) (Pool, error)

// GuardianConfig tunes the reconnect policy.
type GuardianConfig struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	TickInterval time.Duration
}

// DefaultGuardianConfig returns the standard reconnect policy: up to five
// attempts with exponential backoff from 500ms capped at 8s, and a liveness
// tick every 30 seconds.
func DefaultGuardianConfig() GuardianConfig {
	return GuardianConfig{
		MaxAttempts:  5,
		BaseDelay:    500 * time.Millisecond,
		MaxDelay:     8 * time.Second,
		TickInterval: 30 * time.Second,
	}
}

// Guardian owns the process-wide database connection. It reconnects with
// bounded exponential backoff when the connection drops, re-evaluates on a
// periodic tick, and exposes a health predicate for the request pipeline.
// Repositories issue queries through it; every call is delegated to the
// current pool.
type Guardian struct {
	connect ConnectFunc
	cfg     GuardianConfig
	logger  *slog.Logger

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	state    State
	pool     Pool
	attempts int
}

// NewGuardian creates a guardian using connect to open pools. It starts in
// the Disconnected state; call Start to establish the first connection.
func NewGuardian(connect ConnectFunc, cfg GuardianConfig, logger *slog.Logger) *Guardian {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultGuardianConfig().MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultGuardianConfig().BaseDelay
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = DefaultGuardianConfig().MaxDelay
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultGuardianConfig().TickInterval
	}
	return &Guardian{
		connect: connect,
		cfg:     cfg,
		logger:  logger,
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Start establishes the initial connection. A failure here is returned to
// the caller; at boot the process cannot usefully run without a database,
// so the caller treats it as fatal.
func (g *Guardian) Start(ctx context.Context) error {
	g.mu.Lock()
	g.state = StateConnecting
	g.mu.Unlock()

	pool, err := g.connect(ctx)
	if err != nil {
		g.mu.Lock()
		g.state = StateDisconnected
		g.mu.Unlock()
		return err
	}

	g.mu.Lock()
	g.pool = pool
	g.state = StateConnected
	g.attempts = 0
	g.mu.Unlock()

	g.logger.Info("database connected")
	return nil
}

// Run drives the periodic liveness check until ctx is cancelled. A tick on a
// healthy connection pings it and degrades the state if the ping fails; a
// tick on an unhealthy connection re-opens reconnect evaluation even after
// the attempt cap has been reached.
func (g *Guardian) Run(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.tick(ctx)
		}
	}
}

func (g *Guardian) tick(ctx context.Context) {
	g.mu.Lock()
	state := g.state
	pool := g.pool
	g.mu.Unlock()

	if state == StateConnected && pool != nil {
		if err := pool.Ping(ctx); err == nil {
			return
		}
		g.logger.Warn("database ping failed, marking degraded")
		g.mu.Lock()
		if g.state == StateConnected {
			g.state = StateDegraded
		}
		g.mu.Unlock()
	}

	// The tick ignores the attempt cap: it is the path that re-opens
	// evaluation after a run of failures.
	if err := g.reconnect(ctx, true); err != nil {
		g.logger.Warn("periodic reconnect failed", slog.String("error", err.Error()))
	}
}

// Healthy reports whether the connection is usable: the guardian must
// believe it is connected and the pool must answer a ping. A failed ping
// transitions the state to Degraded.
func (g *Guardian) Healthy(ctx context.Context) bool {
	g.mu.Lock()
	state := g.state
	pool := g.pool
	g.mu.Unlock()

	if state != StateConnected || pool == nil {
		return false
	}
	if err := pool.Ping(ctx); err != nil {
		g.mu.Lock()
		if g.state == StateConnected {
			g.state = StateDegraded
		}
		g.mu.Unlock()
		return false
	}
	return true
}

// State returns the guardian's current state.
func (g *Guardian) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// ForceReconnect tears down any existing connection and attempts to
// re-establish one, honoring the attempt cap. Teardown errors are ignored.
// The caller bounds the whole operation through ctx.
func (g *Guardian) ForceReconnect(ctx context.Context) error {
	return g.reconnect(ctx, false)
}

func (g *Guardian) reconnect(ctx context.Context, fromTick bool) error {
	g.mu.Lock()
	if !fromTick && g.attempts >= g.cfg.MaxAttempts {
		g.mu.Unlock()
		return ErrRetriesExhausted
	}
	attempt := g.attempts
	g.attempts++
	old := g.pool
	g.pool = nil
	g.state = StateConnecting
	g.mu.Unlock()

	if old != nil {
		old.Close()
	}

	if delay := g.backoff(attempt); delay > 0 {
		if err := g.sleep(ctx, delay); err != nil {
			g.mu.Lock()
			g.state = StateDisconnected
			g.mu.Unlock()
			return err
		}
	}

	pool, err := g.connect(ctx)
	if err != nil {
		g.mu.Lock()
		g.state = StateDisconnected
		attempts := g.attempts
		g.mu.Unlock()
		g.logger.Warn("database reconnect failed",
			slog.Int("attempt", attempts),
			slog.Int("max_attempts", g.cfg.MaxAttempts),
			slog.String("error", err.Error()),
		)
		return err
	}

	g.mu.Lock()
	g.pool = pool
	g.state = StateConnected
	g.attempts = 0
	g.mu.Unlock()

	g.logger.Info("database reconnected", slog.Int("after_attempts", attempt+1))
	return nil
}

// backoff grows exponentially with the attempt number, capped at MaxDelay.
// The first attempt is immediate.
func (g *Guardian) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	d := g.cfg.BaseDelay << (attempt - 1)
	if d > g.cfg.MaxDelay || d <= 0 {
		d = g.cfg.MaxDelay
	}
	return d
}

// Close shuts down the current connection, if any.
func (g *Guardian) Close() {
	g.mu.Lock()
	pool := g.pool
	g.pool = nil
	g.state = StateDisconnected
	g.mu.Unlock()

	if pool != nil {
		pool.Close()
	}
}

// current returns the active pool or ErrNotConnected.
func (g *Guardian) current() (Pool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateConnected || g.pool == nil {
		return nil, ErrNotConnected
	}
	return g.pool, nil
}

// Exec delegates to the current pool.
func (g *Guardian) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	pool, err := g.current()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return pool.Exec(ctx, sql, args...)
}

// Query delegates to the current pool.
func (g *Guardian) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	pool, err := g.current()
	if err != nil {
		return nil, err
	}
	return pool.Query(ctx, sql, args...)
}

// QueryRow delegates to the current pool.
func (g *Guardian) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	pool, err := g.current()
	if err != nil {
		return errRow{err: err}
	}
	return pool.QueryRow(ctx, sql, args...)
}

// Begin delegates to the current pool.
func (g *Guardian) Begin(ctx context.Context) (pgx.Tx, error) {
	pool, err := g.current()
	if err != nil {
		return nil, err
	}
	return pool.Begin(ctx)
}

// Ping delegates to the current pool.
func (g *Guardian) Ping(ctx context.Context) error {
	pool, err := g.current()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

// errRow satisfies pgx.Row for queries issued with no live connection.
type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }
