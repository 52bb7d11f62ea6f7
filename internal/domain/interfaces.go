package domain

import (
	"context"
	"time"

	"sharehub/internal/models"
)

// Repository is the durable store behind the services. All list queries take
// explicit paging (zero-based offset, page size) and, where time matters, the
// caller's "now" so that behavior is deterministic under test.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)

	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	GetItemsByOwner(ctx context.Context, ownerID int64, from, size int) ([]*models.Item, error)
	CountItemsByOwner(ctx context.Context, ownerID int64) (int, error)
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error
	UpdateBookingDatesWithVersion(ctx context.Context, id, fromVersion int64, start, end time.Time, status string) error
	GetBookingsForBooker(ctx context.Context, bookerID int64, filter string, now time.Time, from, size int) ([]*models.Booking, error)
	GetBookingsForOwner(ctx context.Context, ownerID int64, filter string, now time.Time, from, size int) ([]*models.Booking, error)
	GetApprovedBookingsForOwnerItems(ctx context.Context, ownerID int64) ([]*models.Booking, error)
	GetApprovedBookingsForItem(ctx context.Context, itemID int64) ([]*models.Booking, error)
	HasPastApprovedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)

	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetRequestsExcludingRequester(ctx context.Context, requesterID int64, from, size int) ([]*models.ItemRequest, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
	GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)
}

// LimitRepository tracks per-user request counts within a sliding window.
type LimitRepository interface {
	Allow(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type UserService interface {
	Create(ctx context.Context, name, email string) (*models.User, error)
	Update(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error)
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, userID int64) (*models.User, error)
}

type ItemService interface {
	Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, actorID, itemID int64, patch models.ItemPatch) (*models.Item, error)
	Delete(ctx context.Context, actorID, itemID int64) (*models.Item, error)
	GetByID(ctx context.Context, actorID, itemID int64) (*models.ItemDetails, error)
	ListForOwner(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemDetails, error)
	Search(ctx context.Context, actorID int64, text string) ([]*models.Item, error)
	AddComment(ctx context.Context, actorID, itemID int64, text string) (*models.Comment, error)
}

type BookingService interface {
	Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	Decide(ctx context.Context, actorID, bookingID int64, approved bool) (*models.Booking, error)
	Revise(ctx context.Context, actorID, bookingID int64, patch models.BookingPatch) (*models.Booking, error)
	GetByID(ctx context.Context, actorID, bookingID int64) (*models.Booking, error)
	ListForBooker(ctx context.Context, actorID int64, filter string, from, size int) ([]*models.Booking, error)
	ListForOwner(ctx context.Context, actorID int64, filter string, from, size int) ([]*models.Booking, error)
	GetAll(ctx context.Context) ([]*models.Booking, error)
}

type RequestService interface {
	Create(ctx context.Context, requesterID int64, description string) (*models.RequestDetails, error)
	GetByID(ctx context.Context, actorID, requestID int64) (*models.RequestDetails, error)
	ListOwn(ctx context.Context, requesterID int64) ([]*models.RequestDetails, error)
	ListOthers(ctx context.Context, actorID int64, from, size *int) ([]*models.RequestDetails, error)
}
