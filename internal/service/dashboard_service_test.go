package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

func TestDashboardService_Dashboard(t *testing.T) {
	env := newTestEnv(&fakeBackend{
		lessons: []model.Lesson{
			lessonAt("past", "2025-05-30", "09:00", "10:00"),
			lessonAt("later", "2025-06-05", "09:00", "10:00"),
			lessonAt("next", "2025-06-01", "09:00", "10:00"),
		},
		slots: []model.AvailabilitySlot{
			{UserID: "u1", Date: "2025-05-31", StartTime: "11:30"},
			{UserID: "u1", Date: "2025-05-31", StartTime: "12:00"},
			{UserID: "u1", Date: "2025-06-02", StartTime: "08:00"},
		},
		services: []model.EnrolledService{{ID: "s1", Type: "Driving Lessons", Date: "2025-06-01", Status: model.ServiceStatusActive}},
	}).login()

	dash, err := env.dashboard.Dashboard(context.Background(), testTelegramID)
	require.NoError(t, err)

	require.NotNil(t, dash.NextLesson)
	assert.Equal(t, "next", dash.NextLesson.ID)
	require.Len(t, dash.Upcoming, 2)
	assert.Equal(t, "later", dash.Upcoming[1].ID)
	assert.Equal(t, 1, dash.PendingEvaluations)
	assert.Equal(t, 2, dash.UpcomingSlots)
	assert.Len(t, dash.Services, 1)
	assert.NoError(t, dash.ServicesErr)
}

func TestDashboardService_ServicesFailureIsSoft(t *testing.T) {
	env := newTestEnv(&fakeBackend{
		servicesErr: apperr.Network(assert.AnError),
	}).login()

	dash, err := env.dashboard.Dashboard(context.Background(), testTelegramID)
	require.NoError(t, err)
	assert.Nil(t, dash.NextLesson)
	assert.True(t, apperr.IsKind(dash.ServicesErr, apperr.KindNetwork))

	_, err = env.dashboard.Services(context.Background(), testTelegramID)
	assert.Error(t, err)
}

func TestDashboardService_Lessons(t *testing.T) {
	env := newTestEnv(&fakeBackend{
		lessons: []model.Lesson{
			lessonAt("a", "2025-05-20", "09:00", "10:00"),
			{ID: "b", Date: "2025-05-28", StartTime: "09:00", EndTime: strPtr("10:00"), EvaluationGiven: true},
			lessonAt("c", "2025-06-01", "09:00", "10:00"),
		},
	}).login()

	upcoming, past, err := env.dashboard.Lessons(context.Background(), testTelegramID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "c", upcoming[0].ID)
	require.Len(t, past, 2)
	assert.Equal(t, "b", past[0].ID)
	assert.Equal(t, "a", past[1].ID)
}
