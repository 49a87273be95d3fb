package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/kreno"
	"github.com/Freeeeeet/kreno_bot/internal/metrics"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/store"
)

// ActiveSession сессия с ее кешем
type ActiveSession struct {
	Session model.Session
	Cache   *store.Cache
}

type SessionService struct {
	sessionRepo SessionRepository
	backend     Backend
	loc         *time.Location
	now         func() time.Time
	logger      *zap.Logger

	mu       sync.RWMutex
	sessions map[int64]*ActiveSession
}

func NewSessionService(
	sessionRepo SessionRepository,
	backend Backend,
	loc *time.Location,
	logger *zap.Logger,
) *SessionService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessionRepo: sessionRepo,
		backend:     backend,
		loc:         loc,
		now:         time.Now,
		logger:      logger,
		sessions:    make(map[int64]*ActiveSession),
	}
}

// WithClock подменяет источник времени (для тестов)
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Location часовой пояс расписания
func (s *SessionService) Location() *time.Location {
	return s.loc
}

// Now текущее время в часовом поясе расписания
func (s *SessionService) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *SessionService) newCache(user model.User) *store.Cache {
	return store.NewCache(user, s.backend, store.Options{
		Now:      s.now,
		Location: s.loc,
		Logger:   s.logger,
	})
}

// Login проверяет учетные данные в бэкенде и открывает сессию.
// Пароль нигде не сохраняется.
func (s *SessionService) Login(ctx context.Context, telegramID, chatID int64, email, password string) (*model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	user, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err),
		)
		return nil, err
	}

	session := &model.Session{
		TelegramID: telegramID,
		ChatID:     chatID,
		User:       user,
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.sessions[telegramID] = &ActiveSession{Session: *session, Cache: s.newCache(user)}
	count := len(s.sessions)
	s.mu.Unlock()
	metrics.SetActiveSessions(count)

	s.logger.Info("User logged in",
		zap.Int64("telegram_id", telegramID),
		zap.String("user_id", user.UserID),
	)

	return session, nil
}

// Logout закрывает сессию и удаляет ее кеш
func (s *SessionService) Logout(ctx context.Context, telegramID int64) error {
	if err := s.sessionRepo.Delete(ctx, telegramID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, telegramID)
	count := len(s.sessions)
	s.mu.Unlock()
	metrics.SetActiveSessions(count)

	s.logger.Info("User logged out", zap.Int64("telegram_id", telegramID))
	return nil
}

// Require возвращает активную сессию или AuthenticationRequired
func (s *SessionService) Require(ctx context.Context, telegramID int64) (*ActiveSession, error) {
	s.mu.RLock()
	active, ok := s.sessions[telegramID]
	s.mu.RUnlock()
	if ok {
		return active, nil
	}

	// После перезапуска сессия есть только в базе
	session, err := s.sessionRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, apperr.ErrAuthRequired
	}

	return s.register(session), nil
}

func (s *SessionService) register(session *model.Session) *ActiveSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if active, ok := s.sessions[session.TelegramID]; ok {
		return active
	}
	active := &ActiveSession{Session: *session, Cache: s.newCache(session.User)}
	s.sessions[session.TelegramID] = active
	metrics.SetActiveSessions(len(s.sessions))
	return active
}

// Cache возвращает кеш пользователя
func (s *SessionService) Cache(ctx context.Context, telegramID int64) (*store.Cache, error) {
	active, err := s.Require(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return active.Cache, nil
}

// Restore поднимает сессии из базы после перезапуска
func (s *SessionService) Restore(ctx context.Context) (int, error) {
	sessions, err := s.sessionRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	for _, session := range sessions {
		s.register(session)
	}

	s.logger.Info("Sessions restored", zap.Int("count", len(sessions)))
	return len(sessions), nil
}

// Active возвращает снимок активных сессий
func (s *SessionService) Active() []*ActiveSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*ActiveSession, 0, len(s.sessions))
	for _, a := range s.sessions {
		active = append(active, a)
	}
	return active
}

// UpdateProfile меняет email и/или пароль; после успеха нужен повторный вход
func (s *SessionService) UpdateProfile(ctx context.Context, telegramID int64, email, password string) error {
	active, err := s.Require(ctx, telegramID)
	if err != nil {
		return err
	}

	update := kreno.ProfileUpdate{UserID: active.Session.User.UserID}
	if email = strings.TrimSpace(email); email != "" && email != active.Session.User.Email {
		update.Email = email
	}
	update.Password = password
	if update.Email == "" && update.Password == "" {
		return apperr.Validation("NOTHING_TO_UPDATE", "change your email or password before saving")
	}

	if err := s.backend.UpdateProfile(ctx, update); err != nil {
		return err
	}

	s.logger.Info("Profile updated", zap.String("user_id", update.UserID))
	return s.Logout(ctx, telegramID)
}
