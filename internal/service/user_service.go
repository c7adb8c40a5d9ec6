package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventplanner/internal/cache"
	apperrors "eventplanner/internal/errors"
	"eventplanner/internal/model"
	"eventplanner/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ProfileInput carries editable profile fields.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
}

// UserService exposes profile and administration operations.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, id uint, current, next string) error
	ListUsers(ctx context.Context) ([]model.User, error)
	SetRole(ctx context.Context, id uint, role string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		email = user.Email
	}
	if email != user.Email {
		other, err := s.repo.FindByEmail(ctx, email)
		if err == nil && other.ID != id {
			return nil, apperrors.ErrUserAlreadyExists
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	err = s.repo.UpdateProfile(ctx, id, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), email)
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, apperrors.ErrUserAlreadyExists
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("update profile: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return s.GetUser(ctx, id)
}

func (s *userService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, id, string(hashedPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) SetRole(ctx context.Context, id uint, role string) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be user or admin", apperrors.ErrInvalidInput)
	}

	err := s.repo.UpdateRole(ctx, id, role)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return s.GetUser(ctx, id)
}
