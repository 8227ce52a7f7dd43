package scheduler

import (
	"context"
	"time"

	"github.com/landmarket/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// ResetTokenPurger deletes password reset tokens older than their TTL
type ResetTokenPurger struct {
	repo   identity.PasswordResetRepository
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewResetTokenPurger creates the purge job
func NewResetTokenPurger(repo identity.PasswordResetRepository, ttl time.Duration, logger *zap.Logger) *ResetTokenPurger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResetTokenPurger{repo: repo, ttl: ttl, now: time.Now, logger: logger}
}

// Name implements Job
func (p *ResetTokenPurger) Name() string {
	return "purge-password-resets"
}

// Run implements Job
func (p *ResetTokenPurger) Run(ctx context.Context) error {
	if p.ttl <= 0 {
		return nil
	}
	n, err := p.repo.DeleteCreatedBefore(ctx, p.now().Add(-p.ttl))
	if err != nil {
		return err
	}
	if n > 0 {
		p.logger.Info("Purged expired password reset tokens", zap.Int64("count", n))
	}
	return nil
}
