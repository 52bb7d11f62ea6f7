package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sharehub/internal/database"
	"sharehub/internal/domain"
	"sharehub/internal/events"
	"sharehub/internal/models"

	"github.com/rs/zerolog"
)

// ItemService manages the catalog, the owner-only last/next booking
// projection, and item comments.
type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, eventBus: eventBus, logger: logger}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if item == nil || strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Description) == "" {
		return nil, domain.NewValidation("name and description are required")
	}
	if _, err := s.resolveUser(ctx, ownerID); err != nil {
		return nil, err
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

func (s *ItemService) Update(ctx context.Context, actorID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}
	item, err := s.resolveItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, domain.ErrUnauthorized
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, actorID, itemID int64) (*models.Item, error) {
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}
	item, err := s.resolveItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, domain.ErrUnauthorized
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", itemID).Msg("item deleted")
	return item, nil
}

// GetByID returns the item with its comments. Last/next bookings are attached
// only for the owner; everyone else gets nils regardless of what exists.
func (s *ItemService) GetByID(ctx context.Context, actorID, itemID int64) (*models.ItemDetails, error) {
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}
	item, err := s.resolveItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details := &models.ItemDetails{Item: *item, Comments: derefComments(comments)}
	if item.OwnerID == actorID {
		approved, err := s.repo.GetApprovedBookingsForItem(ctx, itemID)
		if err != nil {
			return nil, err
		}
		details.LastBooking, details.NextBooking = projectLastNext(approved, time.Now())
	}
	return details, nil
}

// ListForOwner pages the owner's items. Comments and the last/next projection
// are each computed from one batched query, grouped by item id, so listing
// cost follows the owner's booking count rather than items × bookings.
func (s *ItemService) ListForOwner(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemDetails, error) {
	if _, err := s.resolveUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID, from, size)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.ItemDetails{}, nil
	}

	itemIDs := make([]int64, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	comments, err := s.repo.GetCommentsByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	commentsByItem := make(map[int64][]models.Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], *c)
	}

	approved, err := s.repo.GetApprovedBookingsForOwnerItems(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	approvedByItem := make(map[int64][]*models.Booking)
	for _, b := range approved {
		approvedByItem[b.ItemID] = append(approvedByItem[b.ItemID], b)
	}

	now := time.Now()
	details := make([]*models.ItemDetails, 0, len(items))
	for _, item := range items {
		d := &models.ItemDetails{Item: *item, Comments: commentsByItem[item.ID]}
		if d.Comments == nil {
			d.Comments = []models.Comment{}
		}
		d.LastBooking, d.NextBooking = projectLastNext(approvedByItem[item.ID], now)
		details = append(details, d)
	}
	return details, nil
}

// Search returns available items matching the text; blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, actorID int64, text string) ([]*models.Item, error) {
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	return s.repo.SearchItems(ctx, text)
}

// AddComment stores a comment by a user who has an approved booking of the
// item that has already started.
func (s *ItemService) AddComment(ctx context.Context, actorID, itemID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidation("empty comment")
	}
	user, err := s.resolveUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	item, err := s.resolveItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.HasPastApprovedBooking(ctx, actorID, item.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewValidation("not authorized to comment")
	}

	comment := &models.Comment{Text: text, ItemID: item.ID, AuthorID: actorID}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	comment.AuthorName = user.Name

	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: item.ID, AuthorID: actorID}
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}
	return comment, nil
}

// projectLastNext picks, among approved bookings of one item, the completed or
// in-progress booking with the greatest start and the future booking with the
// smallest start.
func projectLastNext(approved []*models.Booking, now time.Time) (last, next *models.Booking) {
	for _, b := range approved {
		switch {
		case b.End.Before(now) || (b.Start.Before(now) && b.End.After(now)):
			if last == nil || b.Start.After(last.Start) {
				last = b
			}
		case b.Start.After(now):
			if next == nil || b.Start.Before(next.Start) {
				next = b
			}
		}
	}
	return last, next
}

func (s *ItemService) resolveUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NewNotFound(domain.KindUser, userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *ItemService) resolveItem(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NewNotFound(domain.KindItem, itemID)
		}
		return nil, err
	}
	return item, nil
}

func derefComments(comments []*models.Comment) []models.Comment {
	out := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, *c)
	}
	return out
}
