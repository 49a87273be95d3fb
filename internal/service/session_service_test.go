package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
)

func TestSessionService_RequireWithoutLogin(t *testing.T) {
	env := newTestEnv(&fakeBackend{})

	_, err := env.sessions.Require(context.Background(), testTelegramID)
	assert.ErrorIs(t, err, apperr.ErrAuthRequired)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthentication))
}

func TestSessionService_LoginPersistsSession(t *testing.T) {
	env := newTestEnv(&fakeBackend{}).login()

	stored, err := env.sessionRepo.GetByTelegramID(context.Background(), testTelegramID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "u1", stored.User.UserID)
	assert.Equal(t, int64(100), stored.ChatID)

	active, err := env.sessions.Require(context.Background(), testTelegramID)
	require.NoError(t, err)
	assert.Equal(t, "u1", active.Cache.User().UserID)
	assert.Len(t, env.sessions.Active(), 1)
}

func TestSessionService_LoginRejectsEmptyCredentials(t *testing.T) {
	env := newTestEnv(&fakeBackend{})

	_, err := env.sessions.Login(context.Background(), testTelegramID, 100, "  ", "secret")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = env.sessions.Login(context.Background(), testTelegramID, 100, "a@b.c", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestSessionService_LoginBackendFailure(t *testing.T) {
	env := newTestEnv(&fakeBackend{loginErr: apperr.Server(401, "invalid email or password")})

	_, err := env.sessions.Login(context.Background(), testTelegramID, 100, "a@b.c", "bad")
	assert.True(t, apperr.IsKind(err, apperr.KindServer))

	stored, err := env.sessionRepo.GetByTelegramID(context.Background(), testTelegramID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionService_RestoreAfterRestart(t *testing.T) {
	env := newTestEnv(&fakeBackend{}).login()

	// новый процесс с той же базой
	restarted := NewSessionService(env.sessionRepo, env.backend, nil, nil)
	count, err := restarted.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	active, err := restarted.Require(context.Background(), testTelegramID)
	require.NoError(t, err)
	assert.Equal(t, "u1", active.Session.User.UserID)
}

func TestSessionService_RequireFallsBackToRepository(t *testing.T) {
	env := newTestEnv(&fakeBackend{}).login()

	restarted := NewSessionService(env.sessionRepo, env.backend, nil, nil)
	first, err := restarted.Require(context.Background(), testTelegramID)
	require.NoError(t, err)
	second, err := restarted.Require(context.Background(), testTelegramID)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSessionService_Logout(t *testing.T) {
	env := newTestEnv(&fakeBackend{}).login()

	require.NoError(t, env.sessions.Logout(context.Background(), testTelegramID))

	_, err := env.sessions.Require(context.Background(), testTelegramID)
	assert.ErrorIs(t, err, apperr.ErrAuthRequired)
	assert.Empty(t, env.sessions.Active())
}

func TestSessionService_UpdateProfile(t *testing.T) {
	env := newTestEnv(&fakeBackend{}).login()

	err := env.sessions.UpdateProfile(context.Background(), testTelegramID, "student@example.com", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Empty(t, env.backend.profileUpdates)

	require.NoError(t, env.sessions.UpdateProfile(context.Background(), testTelegramID, "new@example.com", ""))
	require.Len(t, env.backend.profileUpdates, 1)
	assert.Equal(t, "u1", env.backend.profileUpdates[0].UserID)
	assert.Equal(t, "new@example.com", env.backend.profileUpdates[0].Email)

	// после смены данных нужен повторный вход
	_, err = env.sessions.Require(context.Background(), testTelegramID)
	assert.ErrorIs(t, err, apperr.ErrAuthRequired)
}
