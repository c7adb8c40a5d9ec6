package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventplanner/internal/cache"
	apperrors "eventplanner/internal/errors"
	"eventplanner/internal/model"
)

func TestUserService_GetUserIsCached(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(3)).Return(&model.User{ID: 3, Username: "carol"}, nil).Once()
	svc := NewUserService(mockRepo, cache.NewMemory())

	for i := 0; i < 2; i++ {
		user, err := svc.GetUser(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "carol", user.Username)
	}
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUserNotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)
	svc := NewUserService(mockRepo, nil)

	_, err := svc.GetUser(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	tests := []struct {
		name          string
		input         ProfileInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "email taken by someone else",
			input: ProfileInput{FirstName: "Al", Email: "bob@example.com"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "bob@example.com").Return(&model.User{ID: 7}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:  "unique index catches a race",
			input: ProfileInput{Email: "new@example.com"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("UpdateProfile", mock.Anything, uint(2), "", "", "new@example.com").Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:  "empty email keeps the current one",
			input: ProfileInput{FirstName: " Alice ", LastName: "L"},
			setupMock: func(m *MockUserRepository) {
				m.On("UpdateProfile", mock.Anything, uint(2), "Alice", "L", "alice@example.com").Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockRepo.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Email: "alice@example.com"}, nil)
			tt.setupMock(mockRepo)
			svc := NewUserService(mockRepo, nil)

			user, err := svc.UpdateProfile(context.Background(), 2, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, user)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("old-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: 2, PasswordHash: string(hash)}

	t.Run("wrong current password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(2)).Return(stored, nil)
		svc := NewUserService(mockRepo, nil)

		err := svc.ChangePassword(context.Background(), 2, "guess", "new-secret")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stores a new hash", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(2)).Return(stored, nil)
		mockRepo.On("UpdatePassword", mock.Anything, uint(2), mock.MatchedBy(func(h string) bool {
			return bcrypt.CompareHashAndPassword([]byte(h), []byte("new-secret")) == nil
		})).Return(nil)
		svc := NewUserService(mockRepo, nil)

		require.NoError(t, svc.ChangePassword(context.Background(), 2, "old-secret", "new-secret"))
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_SetRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewUserService(mockRepo, nil)

	_, err := svc.SetRole(context.Background(), 2, "superuser")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	mockRepo.On("UpdateRole", mock.Anything, uint(4), model.RoleAdmin).Return(gorm.ErrRecordNotFound)
	_, err = svc.SetRole(context.Background(), 4, model.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
