package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/org-auth/models"
	"go.uber.org/zap"
)

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()
	phone := "0700"
	user := models.NewUser("Ada", "Lovelace", "ada@example.com", "hash", &phone)

	f := newFixture()
	svc := NewUserService(f.users, zap.NewNop())

	f.users.On("GetByID", ctx, user.UserID).Return(user, nil).Once()
	got, err := svc.GetUser(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, user.Public(), *got)

	f.users.On("GetByID", ctx, user.UserID).Return(nil, notFound("user")).Once()
	_, err = svc.GetUser(ctx, user.UserID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	f.users.On("GetByID", ctx, user.UserID).Return(nil, errors.New("timeout")).Once()
	_, err = svc.GetUser(ctx, user.UserID)
	assert.True(t, IsInternalError(err))
}
