package kreno

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

const (
	questionsEndpoint  = "generate_questions_api.php"
	weakSpotsEndpoint  = "generate_weak_spots_api.php"
	saveResultEndpoint = "save_test_result_api.php"
)

// apiQuestion сгенерированный вопрос: варианты и правильный ответ текстом
type apiQuestion struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"min=2,dive,required"`
	Answer   string   `json:"answer" validate:"required"`
	Category string   `json:"category"`
}

// toModel нумерует варианты буквами a, b, c...
func (a apiQuestion) toModel(index int, category string) (model.Question, error) {
	correct := slices.Index(a.Options, a.Answer)
	if correct < 0 {
		return model.Question{}, apperr.Malformed("questions[%d]: answer is not among options", index)
	}
	if len(a.Options) > 26 {
		return model.Question{}, apperr.Malformed("questions[%d]: too many options", index)
	}

	q := model.Question{
		ID:              fmt.Sprintf("ai-q%d", index+1),
		Text:            a.Question,
		Options:         make([]model.Option, len(a.Options)),
		CorrectOptionID: optionID(correct),
		Category:        category,
	}
	if a.Category != "" {
		q.Category = a.Category
	}
	for i, text := range a.Options {
		q.Options[i] = model.Option{ID: optionID(i), Text: text}
	}
	return q, nil
}

func optionID(i int) string {
	return string(rune('a' + i))
}

type questionsRequest struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type weakSpotsRequest struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit"`
}

// Questions генерирует вопросы по категории
func (c *Client) Questions(ctx context.Context, category string, count int) ([]model.Question, error) {
	env, err := c.call(ctx, request{
		endpoint: questionsEndpoint,
		method:   http.MethodPost,
		body:     questionsRequest{Category: category, Count: count},
	})
	if err != nil {
		return nil, err
	}
	return c.questions(env, category)
}

// WeakSpotQuestions генерирует вопросы по слабым местам студента
func (c *Client) WeakSpotQuestions(ctx context.Context, userID string, limit int) ([]model.Question, error) {
	env, err := c.call(ctx, request{
		endpoint: weakSpotsEndpoint,
		method:   http.MethodPost,
		body:     weakSpotsRequest{UserID: userID, Limit: limit},
	})
	if err != nil {
		return nil, err
	}
	return c.questions(env, "General")
}

func (c *Client) questions(env envelope, category string) ([]model.Question, error) {
	raw, err := list[apiQuestion](c, env, "questions")
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, apperr.Malformed("no questions returned")
	}

	questions := make([]model.Question, 0, len(raw))
	for i, a := range raw {
		q, err := a.toModel(i, category)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// SaveTestResult сохраняет результат теста
func (c *Client) SaveTestResult(ctx context.Context, result model.TestResult) error {
	_, err := c.call(ctx, request{endpoint: saveResultEndpoint, method: http.MethodPost, body: result})
	return err
}
