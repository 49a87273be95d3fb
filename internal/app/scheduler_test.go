package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/kreno"
	"github.com/Freeeeeet/kreno_bot/internal/model"
	"github.com/Freeeeeet/kreno_bot/internal/service"
)

var schedulerNow = time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)

type stubBackend struct {
	service.Backend // методы, которые задачи не вызывают

	lessonsCalls atomic.Int32
	slotsCalls   atomic.Int32
}

func (b *stubBackend) Login(ctx context.Context, email, password string) (model.User, error) {
	return model.User{UserID: "u-" + email, Email: email}, nil
}

func (b *stubBackend) Lessons(ctx context.Context, userID string) ([]model.Lesson, error) {
	b.lessonsCalls.Add(1)
	end := "10:00"
	return []model.Lesson{
		{ID: "past", Date: "2025-05-30", StartTime: "09:00", EndTime: &end},
		{ID: "future", Date: "2025-06-02", StartTime: "09:00", EndTime: &end},
	}, nil
}

func (b *stubBackend) Availability(ctx context.Context, userID string, rng kreno.AvailabilityRange) ([]model.AvailabilitySlot, error) {
	b.slotsCalls.Add(1)
	return nil, nil
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[int64]*model.Session
}

func (m *memSessions) Save(ctx context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.TelegramID] = s
	return nil
}

func (m *memSessions) GetByTelegramID(ctx context.Context, id int64) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id], nil
}

func (m *memSessions) ListAll(ctx context.Context) ([]*model.Session, error) { return nil, nil }

func (m *memSessions) Delete(ctx context.Context, id int64) error { return nil }

type memReceipts struct {
	mu       sync.Mutex
	reminded map[string]bool
}

func (m *memReceipts) SaveReceipt(ctx context.Context, r *model.EvaluationReceipt) error { return nil }

func (m *memReceipts) GetReceipt(ctx context.Context, userID, lessonID string) (*model.EvaluationReceipt, error) {
	return nil, nil
}

func (m *memReceipts) MarkUpdated(ctx context.Context, userID, lessonID string, at time.Time) error {
	return nil
}

func (m *memReceipts) WasReminded(ctx context.Context, userID, lessonID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reminded[userID+"/"+lessonID], nil
}

func (m *memReceipts) MarkReminded(ctx context.Context, userID, lessonID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userID + "/" + lessonID
	if m.reminded[key] {
		return false, nil
	}
	m.reminded[key] = true
	return true, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls map[int64][]string
	// failures сколько первых отправок завершится ошибкой
	failures int
}

func (n *recordingNotifier) NotifyPendingEvaluations(ctx context.Context, session model.Session, lessons []model.Lesson) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failures > 0 {
		n.failures--
		return fmt.Errorf("telegram is unavailable")
	}
	for _, l := range lessons {
		n.calls[session.TelegramID] = append(n.calls[session.TelegramID], l.ID)
	}
	return nil
}

type busyLock struct{ unlocked atomic.Int32 }

func (l *busyLock) Lock(context.Context, string, time.Duration) (bool, error) { return false, nil }

func (l *busyLock) Unlock(context.Context, string) error {
	l.unlocked.Add(1)
	return nil
}

func newTestScheduler(t *testing.T, locker Locker) (*Scheduler, *stubBackend, *recordingNotifier) {
	t.Helper()

	backend := &stubBackend{}
	logger := zap.NewNop()
	sessions := service.NewSessionService(&memSessions{sessions: map[int64]*model.Session{}}, backend, time.UTC, logger).
		WithClock(func() time.Time { return schedulerNow })
	evaluations := service.NewEvaluationService(sessions, &memReceipts{reminded: map[string]bool{}}, backend, 72*time.Hour, logger)

	for _, id := range []int64{1, 2} {
		_, err := sessions.Login(context.Background(), id, id, fmt.Sprintf("student%d@example.com", id), "secret")
		require.NoError(t, err)
	}

	notifier := &recordingNotifier{calls: map[int64][]string{}}
	s := NewScheduler(SchedulerConfig{RefreshSchedule: "@every 30m", ReminderSchedule: "0 18 * * *"},
		sessions, evaluations, notifier, locker, logger)
	return s, backend, notifier
}

func TestScheduler_RefreshCaches(t *testing.T) {
	s, backend, _ := newTestScheduler(t, nil)

	require.NoError(t, s.RefreshCaches(context.Background()))
	assert.Equal(t, int32(2), backend.lessonsCalls.Load())
	assert.Equal(t, int32(2), backend.slotsCalls.Load())

	// обновление всегда принудительное
	require.NoError(t, s.RefreshCaches(context.Background()))
	assert.Equal(t, int32(4), backend.lessonsCalls.Load())
}

func TestScheduler_SendRemindersOnce(t *testing.T) {
	s, _, notifier := newTestScheduler(t, nil)

	require.NoError(t, s.SendReminders(context.Background()))
	assert.Equal(t, []string{"past"}, notifier.calls[1])
	assert.Equal(t, []string{"past"}, notifier.calls[2])

	require.NoError(t, s.SendReminders(context.Background()))
	assert.Len(t, notifier.calls[1], 1)
}

func TestScheduler_RetriesUndeliveredReminders(t *testing.T) {
	s, _, notifier := newTestScheduler(t, nil)
	notifier.failures = 2

	// обе сессии не получили напоминание
	assert.Error(t, s.SendReminders(context.Background()))
	assert.Empty(t, notifier.calls[1])
	assert.Empty(t, notifier.calls[2])

	require.NoError(t, s.SendReminders(context.Background()))
	assert.Equal(t, []string{"past"}, notifier.calls[1])
	assert.Equal(t, []string{"past"}, notifier.calls[2])

	require.NoError(t, s.SendReminders(context.Background()))
	assert.Len(t, notifier.calls[1], 1)
	assert.Len(t, notifier.calls[2], 1)
}

func TestScheduler_SkipsWhenLockHeld(t *testing.T) {
	lock := &busyLock{}
	s, backend, _ := newTestScheduler(t, lock)

	s.runLocked(context.Background(), jobRefresh, s.RefreshCaches)
	assert.Equal(t, int32(0), backend.lessonsCalls.Load())
	assert.Equal(t, int32(0), lock.unlocked.Load())
}

func TestScheduler_StartRejectsBadSchedule(t *testing.T) {
	s, _, _ := newTestScheduler(t, nil)
	s.cfg.RefreshSchedule = "every now and then"

	assert.Error(t, s.Start(context.Background()))
}

func TestLocalLock(t *testing.T) {
	var l LocalLock
	ok, err := l.Lock(context.Background(), jobRefresh, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, l.Unlock(context.Background(), jobRefresh))
	assert.Equal(t, "kreno_bot:lock:refresh_caches", lockKey(jobRefresh))
}
