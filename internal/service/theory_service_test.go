package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

func testQuestions() []model.Question {
	options := []model.Option{{ID: "a", Text: "Stop"}, {ID: "b", Text: "Go"}}
	return []model.Question{
		{ID: "ai-q1", Text: "Red light?", Options: options, CorrectOptionID: "a"},
		{ID: "ai-q2", Text: "Green light?", Options: options, CorrectOptionID: "b"},
		{ID: "ai-q3", Text: "Amber light?", Options: options, CorrectOptionID: "a"},
	}
}

func TestTheoryService_StartUsesCategoryEndpoint(t *testing.T) {
	backend := &fakeBackend{questions: testQuestions()}
	env := newTestEnv(backend).login()

	run, err := env.theory.Start(context.Background(), testTelegramID, "1")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 3, run.Total())
	assert.Equal(t, 1, backend.questionsCalls)
	assert.Equal(t, "Road and Traffic Signs", backend.lastCategory)
	assert.Equal(t, 15, backend.lastCount)

	_, err = env.theory.Start(context.Background(), testTelegramID, "6")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.weakSpotCalls)
	assert.Equal(t, 2, backend.lastCount)

	_, err = env.theory.Start(context.Background(), testTelegramID, "99")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestTheoryService_RunToCompletion(t *testing.T) {
	backend := &fakeBackend{questions: testQuestions()}
	env := newTestEnv(backend).login()
	ctx := context.Background()

	_, err := env.theory.Start(ctx, testTelegramID, "2")
	require.NoError(t, err)

	_, correct, err := env.theory.Answer(testTelegramID, 0, "a")
	require.NoError(t, err)
	assert.True(t, correct)

	// повторное нажатие на уже отвеченный вопрос
	_, _, err = env.theory.Answer(testTelegramID, 0, "b")
	assert.ErrorIs(t, err, ErrStaleQuestion)

	_, _, err = env.theory.Answer(testTelegramID, 1, "z")
	assert.ErrorIs(t, err, ErrUnknownOption)

	_, err = env.theory.Finish(ctx, testTelegramID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, correct, err = env.theory.Answer(testTelegramID, 1, "a")
	require.NoError(t, err)
	assert.False(t, correct)

	run, err := env.theory.Skip(testTelegramID, 2)
	require.NoError(t, err)
	assert.True(t, run.Done())

	run, err = env.theory.Finish(ctx, testTelegramID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Score)

	require.Len(t, backend.results, 1)
	result := backend.results[0]
	assert.Equal(t, "u1", result.UserID)
	assert.Equal(t, "Incidents, Accidents, Emergencies", result.Category)
	assert.Equal(t, 1, result.Score)
	require.Len(t, result.Questions, 3)
	assert.Nil(t, result.Questions[2].UserAnswer)
	require.NotNil(t, result.Questions[1].UserAnswer)
	assert.Equal(t, "a", *result.Questions[1].UserAnswer)

	_, err = env.theory.Run(testTelegramID)
	assert.True(t, IsNoActiveTest(err))
}

func TestTheoryService_FinishSaveFailureClosesRun(t *testing.T) {
	backend := &fakeBackend{
		questions:     testQuestions()[:1],
		saveResultErr: apperr.Network(assert.AnError),
	}
	env := newTestEnv(backend).login()
	ctx := context.Background()

	_, err := env.theory.Start(ctx, testTelegramID, "3")
	require.NoError(t, err)
	_, _, err = env.theory.Answer(testTelegramID, 0, "a")
	require.NoError(t, err)

	run, err := env.theory.Finish(ctx, testTelegramID)
	assert.True(t, apperr.IsKind(err, apperr.KindNetwork))
	require.NotNil(t, run)
	assert.Equal(t, 1, run.Score)

	_, err = env.theory.Run(testTelegramID)
	assert.ErrorIs(t, err, ErrNoActiveTest)
}

func TestTheoryService_Abort(t *testing.T) {
	env := newTestEnv(&fakeBackend{questions: testQuestions()}).login()

	_, err := env.theory.Start(context.Background(), testTelegramID, "4")
	require.NoError(t, err)
	assert.True(t, env.theory.Abort(testTelegramID))
	assert.False(t, env.theory.Abort(testTelegramID))
}

func TestPerformanceMessage(t *testing.T) {
	tests := []struct {
		score, total int
		want         string
	}{
		{0, 0, "No questions were attempted."},
		{12, 15, "Excellent work! You've mastered this category."},
		{9, 15, "Good job! A little more practice will make perfect."},
		{6, 15, "You're getting there! Keep practicing."},
		{5, 15, "Keep trying! Review the material and try again."},
		{2, 2, "Excellent work! You've mastered this category."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PerformanceMessage(tt.score, tt.total), "%d/%d", tt.score, tt.total)
	}
}
