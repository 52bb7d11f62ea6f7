package service

import (
	"context"
	"testing"
	"time"

	"sharehub/internal/database"
	"sharehub/internal/domain"
	"sharehub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookingService(repo *mockRepo) *BookingService {
	logger := zerolog.Nop()
	return NewBookingService(repo, nil, &logger)
}

func TestBookingCreate(t *testing.T) {
	ctx := context.Background()
	booker := &models.User{ID: 2, Name: "Booker"}
	item := &models.Item{ID: 5, Name: "Drill", OwnerID: 1, Available: true}
	start := time.Now().Add(time.Hour)
	end := time.Now().Add(2 * time.Hour)

	t.Run("success", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(booker, nil)
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil)
		repo.On("CreateBooking", ctx, mock.MatchedBy(func(b *models.Booking) bool {
			return b.Status == models.StatusWaiting && b.ItemID == 5 && b.BookerID == 2
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Booking).ID = 10
		}).Return(nil)
		repo.On("GetBooking", ctx, int64(10)).Return(&models.Booking{
			ID: 10, ItemID: 5, BookerID: 2, Status: models.StatusWaiting, ItemName: "Drill",
		}, nil)

		booking, err := svc.Create(ctx, 2, 5, start, end)
		require.NoError(t, err)
		assert.Equal(t, models.StatusWaiting, booking.Status)
		assert.Equal(t, "Drill", booking.ItemName)
		repo.AssertExpectations(t)
	})

	t.Run("missing dates", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		_, err := svc.Create(ctx, 2, 5, time.Time{}, end)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("start after end", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		_, err := svc.Create(ctx, 2, 5, end, start)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("start in the past", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		_, err := svc.Create(ctx, 2, 5, time.Now().Add(-time.Hour), end)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("unknown booker", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(nil, database.ErrNotFound)

		_, err := svc.Create(ctx, 2, 5, start, end)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("own item reads as missing", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		owner := &models.User{ID: 1, Name: "Owner"}
		repo.On("GetUserByID", ctx, int64(1)).Return(owner, nil)
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil)

		_, err := svc.Create(ctx, 1, 5, start, end)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("unavailable item", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		parked := &models.Item{ID: 5, OwnerID: 1, Available: false}
		repo.On("GetUserByID", ctx, int64(2)).Return(booker, nil)
		repo.On("GetItemByID", ctx, int64(5)).Return(parked, nil)

		_, err := svc.Create(ctx, 2, 5, start, end)
		assert.ErrorIs(t, err, domain.ErrItemNotAvailable)
	})
}

func TestBookingDecide(t *testing.T) {
	ctx := context.Background()
	owner := &models.User{ID: 1, Name: "Owner"}
	item := &models.Item{ID: 5, OwnerID: 1, Available: true}
	waiting := &models.Booking{ID: 10, ItemID: 5, BookerID: 2, Status: models.StatusWaiting, Version: 1}

	t.Run("approve", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		repo.On("GetUserByID", ctx, int64(1)).Return(owner, nil)
		repo.On("GetBooking", ctx, int64(10)).Return(waiting, nil).Once()
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil)
		repo.On("UpdateBookingStatusWithVersion", ctx, int64(10), int64(1), models.StatusApproved).Return(nil)
		repo.On("GetBooking", ctx, int64(10)).Return(&models.Booking{
			ID: 10, ItemID: 5, BookerID: 2, Status: models.StatusApproved, Version: 2,
		}, nil).Once()

		booking, err := svc.Decide(ctx, 1, 10, true)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, booking.Status)
		repo.AssertExpectations(t)
	})

	t.Run("reject", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		repo.On("GetUserByID", ctx, int64(1)).Return(owner, nil)
		repo.On("GetBooking", ctx, int64(10)).Return(waiting, nil).Once()
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil)
		repo.On("UpdateBookingStatusWithVersion", ctx, int64(10), int64(1), models.StatusRejected).Return(nil)
		repo.On("GetBooking", ctx, int64(10)).Return(&models.Booking{
			ID: 10, ItemID: 5, BookerID: 2, Status: models.StatusRejected, Version: 2,
		}, nil).Once()

		booking, err := svc.Decide(ctx, 1, 10, false)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, booking.Status)
	})

	t.Run("non-owner reads as missing", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		stranger := &models.User{ID: 3, Name: "Stranger"}
		repo.On("GetUserByID", ctx, int64(3)).Return(stranger, nil)
		repo.On("GetBooking", ctx, int64(10)).Return(waiting, nil)
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil)

		_, err := svc.Decide(ctx, 3, 10, true)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("already approved", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		approved := &models.Booking{ID: 10, ItemID: 5, BookerID: 2, Status: models.StatusApproved, Version: 2}
		repo.On("GetUserByID", ctx, int64(1)).Return(owner, nil)
		repo.On("GetBooking", ctx, int64(10)).Return(approved, nil)
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil)

		_, err := svc.Decide(ctx, 1, 10, false)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("lost race fails like a repeat decision", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		repo.On("GetUserByID", ctx, int64(1)).Return(owner, nil)
		repo.On("GetBooking", ctx, int64(10)).Return(waiting, nil)
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil)
		repo.On("UpdateBookingStatusWithVersion", ctx, int64(10), int64(1), models.StatusApproved).
			Return(database.ErrConcurrentModification)

		_, err := svc.Decide(ctx, 1, 10, true)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestBookingRevise(t *testing.T) {
	ctx := context.Background()
	booker := &models.User{ID: 2, Name: "Booker"}
	rejected := &models.Booking{
		ID: 10, ItemID: 5, BookerID: 2, Status: models.StatusRejected, Version: 2,
		Start: time.Now().Add(time.Hour), End: time.Now().Add(2 * time.Hour),
	}

	t.Run("resets to waiting", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		newStart := time.Now().Add(3 * time.Hour)
		repo.On("GetUserByID", ctx, int64(2)).Return(booker, nil)
		repo.On("GetBooking", ctx, int64(10)).Return(rejected, nil).Once()
		repo.On("UpdateBookingDatesWithVersion", ctx, int64(10), int64(2), newStart, rejected.End, models.StatusWaiting).Return(nil)
		repo.On("GetBooking", ctx, int64(10)).Return(&models.Booking{
			ID: 10, ItemID: 5, BookerID: 2, Status: models.StatusWaiting, Version: 3,
		}, nil).Once()

		booking, err := svc.Revise(ctx, 2, 10, models.BookingPatch{Start: &newStart})
		require.NoError(t, err)
		assert.Equal(t, models.StatusWaiting, booking.Status)
		repo.AssertExpectations(t)
	})

	t.Run("non-booker is forbidden", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		stranger := &models.User{ID: 3}
		repo.On("GetUserByID", ctx, int64(3)).Return(stranger, nil)
		repo.On("GetBooking", ctx, int64(10)).Return(rejected, nil)

		newStart := time.Now().Add(3 * time.Hour)
		_, err := svc.Revise(ctx, 3, 10, models.BookingPatch{Start: &newStart})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("empty patch", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(booker, nil)
		repo.On("GetBooking", ctx, int64(10)).Return(rejected, nil)

		_, err := svc.Revise(ctx, 2, 10, models.BookingPatch{})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestBookingGetByID_Visibility(t *testing.T) {
	ctx := context.Background()
	booking := &models.Booking{ID: 10, ItemID: 5, BookerID: 2, ItemOwnerID: 1, Status: models.StatusWaiting}

	cases := []struct {
		name    string
		actorID int64
		visible bool
	}{
		{"booker sees it", 2, true},
		{"owner sees it", 1, true},
		{"stranger does not", 3, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockRepo)
			svc := newBookingService(repo)

			repo.On("GetUserByID", ctx, tc.actorID).Return(&models.User{ID: tc.actorID}, nil)
			repo.On("GetBooking", ctx, int64(10)).Return(booking, nil)

			got, err := svc.GetByID(ctx, tc.actorID, 10)
			if tc.visible {
				require.NoError(t, err)
				assert.Equal(t, booking.ID, got.ID)
			} else {
				assert.True(t, domain.IsNotFound(err))
			}
		})
	}
}

func TestBookingList(t *testing.T) {
	ctx := context.Background()
	booker := &models.User{ID: 2}

	t.Run("unsupported state", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		_, err := svc.ListForBooker(ctx, 2, "SOMETIME", 0, 10)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("booker list", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(booker, nil)
		repo.On("GetBookingsForBooker", ctx, int64(2), models.FilterAll, mock.Anything, 0, 10).
			Return([]*models.Booking{{ID: 10}}, nil)

		bookings, err := svc.ListForBooker(ctx, 2, models.FilterAll, 0, 10)
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("owner without items is forbidden", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(booker, nil)
		repo.On("CountItemsByOwner", ctx, int64(2)).Return(0, nil)

		_, err := svc.ListForOwner(ctx, 2, models.FilterAll, 0, 10)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("owner list", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo)

		repo.On("GetUserByID", ctx, int64(1)).Return(&models.User{ID: 1}, nil)
		repo.On("CountItemsByOwner", ctx, int64(1)).Return(2, nil)
		repo.On("GetBookingsForOwner", ctx, int64(1), models.FilterWaiting, mock.Anything, 0, 10).
			Return([]*models.Booking{{ID: 10}, {ID: 11}}, nil)

		bookings, err := svc.ListForOwner(ctx, 1, models.FilterWaiting, 0, 10)
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
	})
}
