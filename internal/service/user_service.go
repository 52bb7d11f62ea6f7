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

type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Create(ctx context.Context, name, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, domain.NewValidation("email is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidation("name is required")
	}

	user := &models.User{Name: name, Email: email}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		taken, err := s.repo.EmailTaken(ctx, *patch.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrDuplicateEmail
		}
		user.Email = *patch.Email
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.getUser(ctx, userID)
}

func (s *UserService) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *UserService) Delete(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NewNotFound(domain.KindUser, userID)
		}
		return nil, err
	}
	s.logger.Info().Int64("user_id", userID).Msg("user deleted")
	return user, nil
}

func (s *UserService) getUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NewNotFound(domain.KindUser, userID)
		}
		return nil, err
	}
	return user, nil
}
