package kreno

import (
	"context"
	"net/http"

	"github.com/Freeeeeet/kreno_bot/internal/model"
)

const (
	submitEvaluationEndpoint = "submit_evaluation.php"
	updateEvaluationEndpoint = "update_evaluation.php"
)

// SubmitEvaluation отправляет новую оценку урока
func (c *Client) SubmitEvaluation(ctx context.Context, eval model.Evaluation) error {
	_, err := c.call(ctx, request{endpoint: submitEvaluationEndpoint, method: http.MethodPost, body: eval})
	return err
}

// UpdateEvaluation заменяет ранее отправленную оценку
func (c *Client) UpdateEvaluation(ctx context.Context, eval model.Evaluation) error {
	_, err := c.call(ctx, request{endpoint: updateEvaluationEndpoint, method: http.MethodPost, body: eval})
	return err
}
