package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/repository/base"
)

type EvaluationRepository struct {
	*base.Repository
}

func NewEvaluationRepository(db base.DB) *EvaluationRepository {
	return &EvaluationRepository{Repository: base.NewRepository(db)}
}

// SaveReceipt запоминает время первой отправки оценки
func (r *EvaluationRepository) SaveReceipt(ctx context.Context, receipt *model.EvaluationReceipt) error {
	query := `
		INSERT INTO evaluation_receipts (user_id, lesson_id, telegram_id, submitted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, lesson_id) DO NOTHING
	`

	if _, err := r.ExecAffected(ctx, query, receipt.UserID, receipt.LessonID, receipt.TelegramID, receipt.SubmittedAt); err != nil {
		return fmt.Errorf("save evaluation receipt: %w", err)
	}
	return nil
}

// GetReceipt получает отметку об отправке оценки урока
func (r *EvaluationRepository) GetReceipt(ctx context.Context, userID, lessonID string) (*model.EvaluationReceipt, error) {
	query := `
		SELECT user_id, lesson_id, telegram_id, submitted_at, updated_at
		FROM evaluation_receipts
		WHERE user_id = $1 AND lesson_id = $2
	`

	var receipt model.EvaluationReceipt
	err := r.QueryRow(ctx, query, userID, lessonID).Scan(
		&receipt.UserID,
		&receipt.LessonID,
		&receipt.TelegramID,
		&receipt.SubmittedAt,
		&receipt.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get evaluation receipt: %w", err)
	}

	return &receipt, nil
}

// MarkUpdated отмечает редактирование оценки
func (r *EvaluationRepository) MarkUpdated(ctx context.Context, userID, lessonID string, at time.Time) error {
	query := `
		UPDATE evaluation_receipts
		SET updated_at = $3
		WHERE user_id = $1 AND lesson_id = $2
	`

	affected, err := r.ExecAffected(ctx, query, userID, lessonID, at)
	if err != nil {
		return fmt.Errorf("mark evaluation updated: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("evaluation receipt not found")
	}
	return nil
}

// WasReminded проверяет, отправлялось ли напоминание об уроке
func (r *EvaluationRepository) WasReminded(ctx context.Context, userID, lessonID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM evaluation_reminders
			WHERE user_id = $1 AND lesson_id = $2
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, userID, lessonID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check evaluation reminded: %w", err)
	}
	return exists, nil
}

// MarkReminded отмечает отправку напоминания; false если уже отправлялось
func (r *EvaluationRepository) MarkReminded(ctx context.Context, userID, lessonID string) (bool, error) {
	query := `
		INSERT INTO evaluation_reminders (user_id, lesson_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, lesson_id) DO NOTHING
	`

	affected, err := r.ExecAffected(ctx, query, userID, lessonID)
	if err != nil {
		return false, fmt.Errorf("mark evaluation reminded: %w", err)
	}
	return affected > 0, nil
}
