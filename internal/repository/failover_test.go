package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLimits struct {
	mock.Mock
}

func (m *mockLimits) Allow(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverLimitRepository(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	window := time.Minute

	t.Run("UsesPrimaryWhenHealthy", func(t *testing.T) {
		primary := new(mockLimits)
		fallback := new(mockLimits)
		repo := NewFailoverLimitRepository(primary, fallback, &logger)

		primary.On("Allow", ctx, int64(1), 5, window).Return(true, nil)

		allowed, err := repo.Allow(ctx, 1, 5, window)
		assert.NoError(t, err)
		assert.True(t, allowed)
		fallback.AssertNotCalled(t, "Allow", ctx, int64(1), 5, window)
	})

	t.Run("FallsBackOnPrimaryError", func(t *testing.T) {
		primary := new(mockLimits)
		fallback := new(mockLimits)
		repo := NewFailoverLimitRepository(primary, fallback, &logger)

		primary.On("Allow", ctx, int64(1), 5, window).Return(false, errors.New("connection refused"))
		fallback.On("Allow", ctx, int64(1), 5, window).Return(true, nil)

		allowed, err := repo.Allow(ctx, 1, 5, window)
		assert.NoError(t, err)
		assert.True(t, allowed)

		// Primary stays marked down; the next call goes straight to fallback.
		allowed, err = repo.Allow(ctx, 1, 5, window)
		assert.NoError(t, err)
		assert.True(t, allowed)
		primary.AssertNumberOfCalls(t, "Allow", 1)
		fallback.AssertNumberOfCalls(t, "Allow", 2)
	})
}
