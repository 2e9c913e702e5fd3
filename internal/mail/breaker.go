package mail

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/mahatkd/federation-api/internal/domain"
)

// BreakerMailer wraps a Mailer with a circuit breaker so a failing SMTP
// provider stops consuming request time. All sends here are non-critical
// side effects; an open breaker fails fast and the caller logs and moves on.
type BreakerMailer struct {
	inner   Mailer
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

// NewBreakerMailer wraps inner with a circuit breaker. The breaker trips
// when half of at least five calls fail, stays open for 30 seconds, and
// allows a single probe when half-open.
func NewBreakerMailer(inner Mailer, logger *slog.Logger) *BreakerMailer {
	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("mail circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return &BreakerMailer{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:  logger,
	}
}

// State returns the breaker's current state.
func (b *BreakerMailer) State() gobreaker.State {
	return b.breaker.State()
}

func (b *BreakerMailer) execute(send func() error) error {
	_, err := b.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, send()
	})
	return err
}

func (b *BreakerMailer) SendPasswordReset(ctx context.Context, toEmail, name, token string, expiresIn time.Duration) error {
	return b.execute(func() error {
		return b.inner.SendPasswordReset(ctx, toEmail, name, token, expiresIn)
	})
}

func (b *BreakerMailer) SendContactNotification(ctx context.Context, contact *domain.Contact) error {
	return b.execute(func() error {
		return b.inner.SendContactNotification(ctx, contact)
	})
}

func (b *BreakerMailer) SendEnrollmentReceived(ctx context.Context, enrollment *domain.Enrollment) error {
	return b.execute(func() error {
		return b.inner.SendEnrollmentReceived(ctx, enrollment)
	})
}

func (b *BreakerMailer) SendEnrollmentDecision(ctx context.Context, enrollment *domain.Enrollment) error {
	return b.execute(func() error {
		return b.inner.SendEnrollmentDecision(ctx, enrollment)
	})
}
