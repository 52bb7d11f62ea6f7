package service

import (
	"context"
	"errors"
	"time"

	"sharehub/internal/database"
	"sharehub/internal/domain"
	"sharehub/internal/events"
	"sharehub/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: creation, owner decisions,
// booker revisions, and time-windowed listing.
type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{repo: repo, eventBus: eventBus, logger: logger}
}

// Create validates the preconditions in contract order and stores the booking
// in WAITING. Any caller-supplied status is ignored. The item's availability
// flag is an owner-managed toggle and is deliberately not flipped here.
func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewValidation("missing dates")
	}
	now := time.Now()
	if !start.Before(end) || !start.After(now) || !end.After(now) {
		return nil, domain.NewValidation("invalid range")
	}

	if _, err := s.resolveUser(ctx, bookerID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NewNotFound(domain.KindItem, itemID)
		}
		return nil, err
	}
	// Owners cannot book their own items; the item is reported missing so
	// that the response does not reveal who owns it.
	if item.OwnerID == bookerID {
		return nil, domain.NewNotFound(domain.KindItem, itemID)
	}
	if !item.Available {
		return nil, domain.ErrItemNotAvailable
	}

	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	stored, err := s.repo.GetBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, stored, 0)
	return stored, nil
}

// Decide lets the item owner approve or reject a booking exactly once. Of two
// concurrent decisions only one wins; the loser fails like a repeat decision.
func (s *BookingService) Decide(ctx context.Context, actorID, bookingID int64, approved bool) (*models.Booking, error) {
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}
	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NewNotFound(domain.KindItem, booking.ItemID)
		}
		return nil, err
	}

	// Non-owners get the same answer as for a missing booking.
	if item.OwnerID != actorID {
		return nil, domain.NewNotFound(domain.KindBooking, bookingID)
	}
	if booking.Status == models.StatusApproved {
		return nil, domain.NewValidation("already approved")
	}

	status := models.StatusRejected
	if approved {
		status = models.StatusApproved
	}

	err = s.repo.UpdateBookingStatusWithVersion(ctx, bookingID, booking.Version, status)
	if err != nil {
		if errors.Is(err, database.ErrConcurrentModification) {
			return nil, domain.NewValidation("already approved")
		}
		return nil, err
	}

	updated, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	eventType := events.EventBookingRejected
	if approved {
		eventType = events.EventBookingApproved
	}
	s.publishEvent(eventType, updated, actorID)
	return updated, nil
}

// Revise lets the booker move the dates; the booking always re-enters the
// approval queue as WAITING.
func (s *BookingService) Revise(ctx context.Context, actorID, bookingID int64, patch models.BookingPatch) (*models.Booking, error) {
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}
	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID != actorID {
		return nil, domain.ErrUnauthorized
	}
	if patch.Start == nil && patch.End == nil {
		return nil, domain.NewValidation("nothing to do")
	}

	start := booking.Start
	end := booking.End
	if patch.Start != nil {
		start = *patch.Start
	}
	if patch.End != nil {
		end = *patch.End
	}

	err = s.repo.UpdateBookingDatesWithVersion(ctx, bookingID, booking.Version, start, end, models.StatusWaiting)
	if err != nil {
		if errors.Is(err, database.ErrConcurrentModification) {
			return nil, domain.NewValidation("booking changed concurrently")
		}
		return nil, err
	}

	return s.repo.GetBooking(ctx, bookingID)
}

// GetByID shows a booking to its booker and the item's owner only.
func (s *BookingService) GetByID(ctx context.Context, actorID, bookingID int64) (*models.Booking, error) {
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}
	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID != actorID && booking.ItemOwnerID != actorID {
		return nil, domain.NewNotFound(domain.KindBooking, bookingID)
	}
	return booking, nil
}

func (s *BookingService) ListForBooker(ctx context.Context, actorID int64, filter string, from, size int) ([]*models.Booking, error) {
	if !models.ValidFilter(filter) {
		return nil, domain.NewValidation("unsupported state")
	}
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}
	return s.repo.GetBookingsForBooker(ctx, actorID, filter, time.Now(), from, size)
}

func (s *BookingService) ListForOwner(ctx context.Context, actorID int64, filter string, from, size int) ([]*models.Booking, error) {
	if !models.ValidFilter(filter) {
		return nil, domain.NewValidation("unsupported state")
	}
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountItemsByOwner(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrUnauthorized
	}

	return s.repo.GetBookingsForOwner(ctx, actorID, filter, time.Now(), from, size)
}

func (s *BookingService) GetAll(ctx context.Context) ([]*models.Booking, error) {
	return s.repo.GetAllBookings(ctx)
}

func (s *BookingService) resolveUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NewNotFound(domain.KindUser, userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *BookingService) resolveBooking(ctx context.Context, bookingID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NewNotFound(domain.KindBooking, bookingID)
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, decidedBy int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		ItemID:     booking.ItemID,
		ItemName:   booking.ItemName,
		BookerID:   booking.BookerID,
		BookerName: booking.BookerName,
		Start:      booking.Start,
		End:        booking.End,
		Status:     booking.Status,
		DecidedBy:  decidedBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
