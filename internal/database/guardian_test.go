package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePool is a minimal Pool for guardian state-machine tests.
type fakePool struct {
	mu      sync.Mutex
	pingErr error
	closed  bool
}

func (p *fakePool) setPingErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pingErr = err
}

func (p *fakePool) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pingErr
}

func (p *fakePool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (p *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (p *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return errRow{err: errors.New("not implemented")}
}

func (p *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("not implemented")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// newTestGuardian returns a guardian whose backoff sleeps are instant.
func newTestGuardian(connect ConnectFunc, cfg GuardianConfig) *Guardian {
	g := NewGuardian(connect, cfg, testLogger())
	g.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return g
}

func TestGuardian_StartSuccess(t *testing.T) {
	pool := &fakePool{}
	g := newTestGuardian(func(ctx context.Context) (Pool, error) { return pool, nil }, GuardianConfig{})

	require.NoError(t, g.Start(context.Background()))
	assert.Equal(t, StateConnected, g.State())
	assert.True(t, g.Healthy(context.Background()))
}

func TestGuardian_StartFailure(t *testing.T) {
	g := newTestGuardian(func(ctx context.Context) (Pool, error) {
		return nil, errors.New("connection refused")
	}, GuardianConfig{})

	err := g.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateDisconnected, g.State())
	assert.False(t, g.Healthy(context.Background()))
}

func TestGuardian_HealthyRequiresPing(t *testing.T) {
	pool := &fakePool{}
	g := newTestGuardian(func(ctx context.Context) (Pool, error) { return pool, nil }, GuardianConfig{})
	require.NoError(t, g.Start(context.Background()))

	pool.setPingErr(errors.New("connection reset"))
	assert.False(t, g.Healthy(context.Background()))
	assert.Equal(t, StateDegraded, g.State())
}

func TestGuardian_ForceReconnectRecovers(t *testing.T) {
	bad := &fakePool{pingErr: errors.New("connection reset")}
	good := &fakePool{}
	calls := 0
	g := newTestGuardian(func(ctx context.Context) (Pool, error) {
		calls++
		if calls == 1 {
			return bad, nil
		}
		return good, nil
	}, GuardianConfig{})
	require.NoError(t, g.Start(context.Background()))

	assert.False(t, g.Healthy(context.Background()))
	require.NoError(t, g.ForceReconnect(context.Background()))

	assert.Equal(t, StateConnected, g.State())
	assert.True(t, g.Healthy(context.Background()))
	assert.True(t, bad.closed, "old pool should be torn down")
}

func TestGuardian_BoundedRetry(t *testing.T) {
	attempts := 0
	g := newTestGuardian(func(ctx context.Context) (Pool, error) {
		attempts++
		return nil, errors.New("connection refused")
	}, GuardianConfig{MaxAttempts: 3})

	// Keep forcing reconnects well past the cap; the guardian must stop
	// attempting once the cap is reached instead of spinning.
	for i := 0; i < 10; i++ {
		_ = g.ForceReconnect(context.Background())
	}

	assert.Equal(t, 3, attempts)
	assert.ErrorIs(t, g.ForceReconnect(context.Background()), ErrRetriesExhausted)
}

func TestGuardian_TickReopensEvaluation(t *testing.T) {
	attempts := 0
	succeedFrom := 5
	g := newTestGuardian(func(ctx context.Context) (Pool, error) {
		attempts++
		if attempts < succeedFrom {
			return nil, errors.New("connection refused")
		}
		return &fakePool{}, nil
	}, GuardianConfig{MaxAttempts: 3})

	for i := 0; i < 10; i++ {
		_ = g.ForceReconnect(context.Background())
	}
	require.Equal(t, 3, attempts, "cap reached, direct reconnects stop")

	// Ticks attempt again despite the exhausted counter.
	g.tick(context.Background())
	assert.Equal(t, 4, attempts)
	assert.Equal(t, StateDisconnected, g.State())

	g.tick(context.Background())
	assert.Equal(t, 5, attempts)
	assert.Equal(t, StateConnected, g.State())

	// Success resets the counter so direct reconnects work again.
	assert.NotErrorIs(t, g.ForceReconnect(context.Background()), ErrRetriesExhausted)
}

func TestGuardian_CounterResetsOnSuccess(t *testing.T) {
	fail := true
	attempts := 0
	g := newTestGuardian(func(ctx context.Context) (Pool, error) {
		attempts++
		if fail {
			return nil, errors.New("connection refused")
		}
		return &fakePool{}, nil
	}, GuardianConfig{MaxAttempts: 3})

	_ = g.ForceReconnect(context.Background())
	_ = g.ForceReconnect(context.Background())
	fail = false
	require.NoError(t, g.ForceReconnect(context.Background()))
	require.Equal(t, StateConnected, g.State())

	// After a success the full attempt budget is available again.
	fail = true
	before := attempts
	for i := 0; i < 10; i++ {
		_ = g.ForceReconnect(context.Background())
	}
	assert.Equal(t, 3, attempts-before)
}

func TestGuardian_BackoffGrowsAndCaps(t *testing.T) {
	g := NewGuardian(nil, GuardianConfig{BaseDelay: time.Second, MaxDelay: 4 * time.Second}, testLogger())

	assert.Equal(t, time.Duration(0), g.backoff(0))
	assert.Equal(t, time.Second, g.backoff(1))
	assert.Equal(t, 2*time.Second, g.backoff(2))
	assert.Equal(t, 4*time.Second, g.backoff(3))
	assert.Equal(t, 4*time.Second, g.backoff(10))
}

func TestGuardian_QueriesFailWhenDisconnected(t *testing.T) {
	g := NewGuardian(nil, GuardianConfig{}, testLogger())

	_, err := g.Exec(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)

	err = g.QueryRow(context.Background(), "SELECT 1").Scan()
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.ErrorIs(t, g.Ping(context.Background()), ErrNotConnected)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(errors.New("dial tcp 127.0.0.1:5432: connection refused")))
	assert.True(t, IsTransient(errors.New("unexpected EOF")))
	assert.True(t, IsTransient(errors.New("read: i/o timeout")))
	assert.True(t, IsTransient(ErrNotConnected))
	assert.True(t, IsTransient(fmt.Errorf("exec query: %w", ErrNotConnected)))
	assert.False(t, IsTransient(errors.New(`syntax error at or near "SELEC"`)))
	assert.False(t, IsTransient(nil))
}
