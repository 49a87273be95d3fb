package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/repository/base"
)

type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(db base.DB) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(db)}
}

// Save создаёт или обновляет сессию Telegram-пользователя
func (r *SessionRepository) Save(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (telegram_id, chat_id, user_id, email, username, full_name, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (telegram_id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			user_id = EXCLUDED.user_id,
			email = EXCLUDED.email,
			username = EXCLUDED.username,
			full_name = EXCLUDED.full_name,
			role = EXCLUDED.role,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		session.TelegramID,
		session.ChatID,
		session.User.UserID,
		session.User.Email,
		session.User.Username,
		session.User.FullName,
		session.User.Role,
	).Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// GetByTelegramID получает сессию по Telegram ID
func (r *SessionRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Session, error) {
	query := `
		SELECT telegram_id, chat_id, user_id, email, username, full_name, role, created_at, updated_at
		FROM sessions
		WHERE telegram_id = $1
	`

	session, err := scanSession(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Сессия не найдена
		}
		return nil, fmt.Errorf("get session by telegram id: %w", err)
	}

	return session, nil
}

// ListAll возвращает все активные сессии
func (r *SessionRepository) ListAll(ctx context.Context) ([]*model.Session, error) {
	query := `
		SELECT telegram_id, chat_id, user_id, email, username, full_name, role, created_at, updated_at
		FROM sessions
		ORDER BY updated_at DESC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// Delete удаляет сессию
func (r *SessionRepository) Delete(ctx context.Context, telegramID int64) error {
	if _, err := r.ExecAffected(ctx, `DELETE FROM sessions WHERE telegram_id = $1`, telegramID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*model.Session, error) {
	var session model.Session
	err := row.Scan(
		&session.TelegramID,
		&session.ChatID,
		&session.User.UserID,
		&session.User.Email,
		&session.User.Username,
		&session.User.FullName,
		&session.User.Role,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
