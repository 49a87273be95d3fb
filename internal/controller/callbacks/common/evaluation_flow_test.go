package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/service"
)

func testForm() *service.EvaluationForm {
	return &service.EvaluationForm{
		Lesson:               model.Lesson{ID: "l1", Title: "Parking", Date: "2025-05-30", StartTime: "09:00"},
		SkillCategories:      []string{"Parallel parking", "Mirrors"},
		InstructorCategories: []string{"Punctuality"},
	}
}

func TestEvaluationFlow_Steps(t *testing.T) {
	flow := NewEvaluationFlow(testForm(), false)
	require.Equal(t, 3, flow.Steps())

	name, instructor, ok := flow.Category(1)
	assert.True(t, ok)
	assert.False(t, instructor)
	assert.Equal(t, "Mirrors", name)

	name, instructor, ok = flow.Category(2)
	assert.True(t, ok)
	assert.True(t, instructor)
	assert.Equal(t, "Punctuality", name)

	_, _, ok = flow.Category(3)
	assert.False(t, ok)
}

func TestEvaluationFlow_Rate(t *testing.T) {
	flow := NewEvaluationFlow(testForm(), true)
	assert.True(t, flow.Draft.Editing)

	require.NoError(t, flow.Rate(0, 5))
	// повторное нажатие на кнопку первого шага
	assert.ErrorIs(t, flow.Rate(0, 1), ErrStaleButton)
	assert.ErrorIs(t, flow.Rate(1, 9), ErrInvalidFormat)

	require.NoError(t, flow.Rate(1, 2))
	assert.False(t, flow.RatingsDone())
	require.NoError(t, flow.Rate(2, 4))
	assert.True(t, flow.RatingsDone())

	assert.Equal(t, model.RatingVeryGood, flow.Draft.SkillRatings["Parallel parking"])
	assert.Equal(t, model.RatingPoor, flow.Draft.SkillRatings["Mirrors"])
	assert.Equal(t, model.RatingGood, flow.Draft.InstructorRatings["Punctuality"])

	assert.ErrorIs(t, flow.SetOverall(0), ErrInvalidFormat)
	require.NoError(t, flow.SetOverall(4))
	flow.SetComment("Great lesson")
	assert.Equal(t, 4, flow.Draft.OverallRating)
	assert.Equal(t, "Great lesson", flow.Draft.Comment)
}

type mapReader map[string]interface{}

func (m mapReader) GetData(_ int64, key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

func TestLoadEvaluationFlow(t *testing.T) {
	_, err := LoadEvaluationFlow(mapReader{}, 1)
	assert.ErrorIs(t, err, ErrFlowExpired)

	_, err = LoadEvaluationFlow(mapReader{KeyEvaluationFlow: "nope"}, 1)
	assert.ErrorIs(t, err, ErrFlowExpired)

	flow := NewEvaluationFlow(testForm(), false)
	got, err := LoadEvaluationFlow(mapReader{KeyEvaluationFlow: flow}, 1)
	require.NoError(t, err)
	assert.Same(t, flow, got)
}
