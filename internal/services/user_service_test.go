package services_test

import (
	"context"
	"errors"
	"testing"

	"blogsite/internal/models"
	"blogsite/internal/repositories"
	"blogsite/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_SaveUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, zerolog.Nop())
	ctx := context.Background()

	user := &models.User{UID: "uid-ada", Email: "ada@example.com", Name: "Ada"}

	mockRepo.On("GetByUID", "uid-ada").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", user).Return(nil).Once()
	created, err := service.SaveUser(ctx, ada, user)
	require.NoError(t, err)
	assert.True(t, created)

	mockRepo.On("GetByUID", "uid-ada").Return(user, nil).Once()
	created, err = service.SaveUser(ctx, ada, user)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = service.SaveUser(ctx, bob, user)
	assert.ErrorIs(t, err, services.ErrForbidden)

	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, zerolog.Nop())
	ctx := context.Background()

	user := &models.User{UID: "uid-ada", Email: "ada@example.com"}
	mockRepo.On("GetByEmail", "ada@example.com").Return(user, nil).Once()
	mockRepo.On("GetByUID", "uid-ada").Return(user, nil).Once()

	got, err := service.GetUser(ctx, "ada@example.com", "ignored")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	got, err = service.GetUser(ctx, "", "uid-ada")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = service.GetUser(ctx, "", "")
	var verr *services.ValidationError
	assert.True(t, errors.As(err, &verr))

	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, zerolog.Nop())
	ctx := context.Background()

	mockRepo.On("GetByID", "u1").Return(&models.User{ID: "u1", Email: "ada@example.com", Name: "Ada"}, nil)
	mockRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "Ada L." && u.Phone == "555"
	})).Return(nil).Once()

	user, err := service.UpdateProfile(ctx, ada, "u1", models.ProfilePatch{Name: strPtr("Ada L."), Phone: strPtr("555")})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", user.Name)

	_, err = service.UpdateProfile(ctx, bob, "u1", models.ProfilePatch{Name: strPtr("Bob")})
	assert.ErrorIs(t, err, services.ErrForbidden)

	mockRepo.AssertExpectations(t)
}
