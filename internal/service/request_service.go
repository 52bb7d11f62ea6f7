package service

import (
	"context"
	"errors"
	"strings"

	"sharehub/internal/database"
	"sharehub/internal/domain"
	"sharehub/internal/models"

	"github.com/rs/zerolog"
)

// RequestService manages item requests ("I want an item like this") and the
// association with items created in response.
type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (*models.RequestDetails, error) {
	if _, err := s.resolveUser(ctx, requesterID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, domain.NewValidation("description is required")
	}

	request := &models.ItemRequest{Description: description, RequesterID: requesterID}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", request.ID).Msg("item request created")
	return &models.RequestDetails{ItemRequest: *request, Items: []models.Item{}}, nil
}

func (s *RequestService) GetByID(ctx context.Context, actorID, requestID int64) (*models.RequestDetails, error) {
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NewNotFound(domain.KindRequest, requestID)
		}
		return nil, err
	}

	items, err := s.repo.GetItemsByRequestIDs(ctx, []int64{requestID})
	if err != nil {
		return nil, err
	}

	details := &models.RequestDetails{ItemRequest: *request, Items: []models.Item{}}
	for _, item := range items {
		details.Items = append(details.Items, *item)
	}
	return details, nil
}

// ListOwn returns the requester's own requests, newest first.
func (s *RequestService) ListOwn(ctx context.Context, requesterID int64) ([]*models.RequestDetails, error) {
	if _, err := s.resolveUser(ctx, requesterID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetRequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// ListOthers pages requests authored by other users. Missing paging params
// yield an empty list; a zero size is rejected. Both behaviors are part of
// the contract.
func (s *RequestService) ListOthers(ctx context.Context, actorID int64, from, size *int) ([]*models.RequestDetails, error) {
	if _, err := s.resolveUser(ctx, actorID); err != nil {
		return nil, err
	}
	if size != nil && *size == 0 {
		return nil, domain.NewValidation("size must be positive")
	}
	if from == nil || size == nil {
		return []*models.RequestDetails{}, nil
	}

	requests, err := s.repo.GetRequestsExcludingRequester(ctx, actorID, *from, *size)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// attachItems batch-fetches the items answering the given requests and groups
// them by request id.
func (s *RequestService) attachItems(ctx context.Context, requests []*models.ItemRequest) ([]*models.RequestDetails, error) {
	if len(requests) == 0 {
		return []*models.RequestDetails{}, nil
	}

	requestIDs := make([]int64, len(requests))
	for i, r := range requests {
		requestIDs[i] = r.ID
	}

	items, err := s.repo.GetItemsByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}
	itemsByRequest := make(map[int64][]models.Item)
	for _, item := range items {
		if item.RequestID == nil {
			continue
		}
		itemsByRequest[*item.RequestID] = append(itemsByRequest[*item.RequestID], *item)
	}

	details := make([]*models.RequestDetails, 0, len(requests))
	for _, r := range requests {
		d := &models.RequestDetails{ItemRequest: *r, Items: itemsByRequest[r.ID]}
		if d.Items == nil {
			d.Items = []models.Item{}
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *RequestService) resolveUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NewNotFound(domain.KindUser, userID)
		}
		return nil, err
	}
	return user, nil
}
