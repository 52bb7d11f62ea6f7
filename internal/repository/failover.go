package repository

import (
	"context"
	"sync/atomic"
	"time"

	"sharehub/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverLimitRepository serves from the primary until it errors, then flips
// to the fallback and retries the primary once a minute.
type FailoverLimitRepository struct {
	primary   domain.LimitRepository
	fallback  domain.LimitRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverLimitRepository(primary, fallback domain.LimitRepository, logger *zerolog.Logger) *FailoverLimitRepository {
	return &FailoverLimitRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverLimitRepository) Allow(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.Allow(ctx, userID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.logger.Error().Err(err).Msg("Primary limit repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		allowed, err := r.primary.Allow(ctx, userID, limit, window)
		if err == nil {
			r.isDown.Store(false)
			return allowed, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.Allow(ctx, userID, limit, window)
}
