package service

import (
	"context"
	"testing"

	"sharehub/internal/database"
	"sharehub/internal/domain"
	"sharehub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRequestService(repo *mockRepo) *RequestService {
	logger := zerolog.Nop()
	return NewRequestService(repo, &logger)
}

func TestRequestCreate(t *testing.T) {
	ctx := context.Background()
	requester := &models.User{ID: 2, Name: "Requester"}

	t.Run("success", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newRequestService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(requester, nil)
		repo.On("CreateRequest", ctx, mock.MatchedBy(func(r *models.ItemRequest) bool {
			return r.RequesterID == 2 && r.Description == "need a drill"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.ItemRequest).ID = 3
		}).Return(nil)

		details, err := svc.Create(ctx, 2, "need a drill")
		require.NoError(t, err)
		assert.Equal(t, int64(3), details.ID)
		assert.Empty(t, details.Items)
	})

	t.Run("unknown user checked before description", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newRequestService(repo)

		repo.On("GetUserByID", ctx, int64(9)).Return(nil, database.ErrNotFound)

		_, err := svc.Create(ctx, 9, "")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("blank description", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newRequestService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(requester, nil)

		_, err := svc.Create(ctx, 2, "   ")
		assert.True(t, domain.IsValidation(err))
	})
}

func TestRequestGetByID(t *testing.T) {
	ctx := context.Background()
	requester := &models.User{ID: 2}

	t.Run("with answering items", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newRequestService(repo)

		requestID := int64(3)
		repo.On("GetUserByID", ctx, int64(2)).Return(requester, nil)
		repo.On("GetRequestByID", ctx, requestID).Return(&models.ItemRequest{ID: 3, Description: "need a drill", RequesterID: 5}, nil)
		repo.On("GetItemsByRequestIDs", ctx, []int64{3}).Return([]*models.Item{
			{ID: 7, Name: "Drill", RequestID: &requestID},
		}, nil)

		details, err := svc.GetByID(ctx, 2, 3)
		require.NoError(t, err)
		require.Len(t, details.Items, 1)
		assert.Equal(t, int64(7), details.Items[0].ID)
	})

	t.Run("missing request", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newRequestService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(requester, nil)
		repo.On("GetRequestByID", ctx, int64(9)).Return(nil, database.ErrNotFound)

		_, err := svc.GetByID(ctx, 2, 9)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestRequestListOwn(t *testing.T) {
	ctx := context.Background()
	requester := &models.User{ID: 2}

	repo := new(mockRepo)
	svc := newRequestService(repo)

	firstID, secondID := int64(3), int64(4)
	repo.On("GetUserByID", ctx, int64(2)).Return(requester, nil)
	repo.On("GetRequestsByRequester", ctx, int64(2)).Return([]*models.ItemRequest{
		{ID: firstID, RequesterID: 2},
		{ID: secondID, RequesterID: 2},
	}, nil)
	repo.On("GetItemsByRequestIDs", ctx, []int64{3, 4}).Return([]*models.Item{
		{ID: 7, Name: "Drill", RequestID: &firstID},
	}, nil)

	details, err := svc.ListOwn(ctx, 2)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Len(t, details[0].Items, 1)
	assert.Empty(t, details[1].Items)
}

func TestRequestListOthers(t *testing.T) {
	ctx := context.Background()
	actor := &models.User{ID: 2}

	t.Run("missing paging yields empty list", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newRequestService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(actor, nil)

		details, err := svc.ListOthers(ctx, 2, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, details)
		repo.AssertNotCalled(t, "GetRequestsExcludingRequester", ctx, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero size is rejected", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newRequestService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(actor, nil)

		from, size := 0, 0
		_, err := svc.ListOthers(ctx, 2, &from, &size)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("pages requests from others", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newRequestService(repo)

		repo.On("GetUserByID", ctx, int64(2)).Return(actor, nil)
		repo.On("GetRequestsExcludingRequester", ctx, int64(2), 0, 10).Return([]*models.ItemRequest{
			{ID: 5, RequesterID: 9},
		}, nil)
		repo.On("GetItemsByRequestIDs", ctx, []int64{5}).Return([]*models.Item{}, nil)

		from, size := 0, 10
		details, err := svc.ListOthers(ctx, 2, &from, &size)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, int64(5), details[0].ID)
	})
}
