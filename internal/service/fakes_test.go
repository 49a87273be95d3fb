package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/kreno"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

var testNow = time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func lessonAt(id, date, start, end string) model.Lesson {
	return model.Lesson{ID: id, Title: "Lesson " + id, Date: date, StartTime: start, EndTime: strPtr(end)}
}

type fakeBackend struct {
	mu sync.Mutex

	user           model.User
	loginErr       error
	lessons        []model.Lesson
	slots          []model.AvailabilitySlot
	subSkills      []model.SubSkill
	questions      []model.Question
	services       []model.EnrolledService
	servicesErr    error
	submitErr      error
	saveResultErr  error
	submitted      []model.Evaluation
	updated        []model.Evaluation
	profileUpdates []kreno.ProfileUpdate
	results        []model.TestResult
	addCalls       int
	removeCalls    int
	weakSpotCalls  int
	questionsCalls int
	lastCategory   string
	lastCount      int
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (model.User, error) {
	if f.loginErr != nil {
		return model.User{}, f.loginErr
	}
	user := f.user
	user.Email = email
	return user, nil
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, update kreno.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileUpdates = append(f.profileUpdates, update)
	return nil
}

func (f *fakeBackend) Lessons(ctx context.Context, userID string) ([]model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Lesson(nil), f.lessons...), nil
}

func (f *fakeBackend) Skills(ctx context.Context) ([]model.Skill, error) {
	return []model.Skill{{ID: "1", Name: "Parking"}}, nil
}

func (f *fakeBackend) SubSkills(ctx context.Context) ([]model.SubSkill, error) {
	return f.subSkills, nil
}

func (f *fakeBackend) Availability(ctx context.Context, userID string, rng kreno.AvailabilityRange) ([]model.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.AvailabilitySlot(nil), f.slots...), nil
}

func (f *fakeBackend) AddAvailability(ctx context.Context, key model.SlotKey) (model.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	id := int64(f.addCalls)
	return model.AvailabilitySlot{ID: &id, UserID: key.UserID, Date: key.Date, StartTime: key.StartTime}, nil
}

func (f *fakeBackend) RemoveAvailability(ctx context.Context, key model.SlotKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	return nil
}

func (f *fakeBackend) SubmitEvaluation(ctx context.Context, eval model.Evaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, eval)
	return nil
}

func (f *fakeBackend) UpdateEvaluation(ctx context.Context, eval model.Evaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, eval)
	return nil
}

func (f *fakeBackend) Questions(ctx context.Context, category string, count int) ([]model.Question, error) {
	f.questionsCalls++
	f.lastCategory, f.lastCount = category, count
	return f.questions, nil
}

func (f *fakeBackend) WeakSpotQuestions(ctx context.Context, userID string, limit int) ([]model.Question, error) {
	f.weakSpotCalls++
	f.lastCount = limit
	return f.questions, nil
}

func (f *fakeBackend) SaveTestResult(ctx context.Context, result model.TestResult) error {
	if f.saveResultErr != nil {
		return f.saveResultErr
	}
	f.results = append(f.results, result)
	return nil
}

func (f *fakeBackend) EnrolledServices(ctx context.Context, userID string) ([]model.EnrolledService, error) {
	return f.services, f.servicesErr
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[int64]*model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[int64]*model.Session)}
}

func (r *fakeSessionRepo) Save(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.TelegramID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[telegramID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) ListAll(ctx context.Context) ([]*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.Session
	for _, s := range r.sessions {
		cp := *s
		all = append(all, &cp)
	}
	return all, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, telegramID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, telegramID)
	return nil
}

type receiptKey struct{ userID, lessonID string }

type fakeEvaluationRepo struct {
	mu       sync.Mutex
	receipts map[receiptKey]*model.EvaluationReceipt
	reminded map[receiptKey]bool
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{
		receipts: make(map[receiptKey]*model.EvaluationReceipt),
		reminded: make(map[receiptKey]bool),
	}
}

func (r *fakeEvaluationRepo) SaveReceipt(ctx context.Context, receipt *model.EvaluationReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := receiptKey{receipt.UserID, receipt.LessonID}
	if _, ok := r.receipts[key]; !ok {
		cp := *receipt
		r.receipts[key] = &cp
	}
	return nil
}

func (r *fakeEvaluationRepo) GetReceipt(ctx context.Context, userID, lessonID string) (*model.EvaluationReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	receipt, ok := r.receipts[receiptKey{userID, lessonID}]
	if !ok {
		return nil, nil
	}
	cp := *receipt
	return &cp, nil
}

func (r *fakeEvaluationRepo) MarkUpdated(ctx context.Context, userID, lessonID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if receipt, ok := r.receipts[receiptKey{userID, lessonID}]; ok {
		receipt.UpdatedAt = &at
	}
	return nil
}

func (r *fakeEvaluationRepo) WasReminded(ctx context.Context, userID, lessonID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reminded[receiptKey{userID, lessonID}], nil
}

func (r *fakeEvaluationRepo) MarkReminded(ctx context.Context, userID, lessonID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := receiptKey{userID, lessonID}
	if r.reminded[key] {
		return false, nil
	}
	r.reminded[key] = true
	return true, nil
}

type testEnv struct {
	backend     *fakeBackend
	sessionRepo *fakeSessionRepo
	evalRepo    *fakeEvaluationRepo
	sessions    *SessionService
	calendar    *CalendarService
	evaluations *EvaluationService
	theory      *TheoryService
	dashboard   *DashboardService
}

const testTelegramID int64 = 42

func newTestEnv(backend *fakeBackend) *testEnv {
	if backend.user.UserID == "" {
		backend.user = model.User{UserID: "u1", Username: "student"}
	}
	logger := zap.NewNop()
	sessionRepo := newFakeSessionRepo()
	evalRepo := newFakeEvaluationRepo()
	sessions := NewSessionService(sessionRepo, backend, time.UTC, logger).
		WithClock(func() time.Time { return testNow })

	return &testEnv{
		backend:     backend,
		sessionRepo: sessionRepo,
		evalRepo:    evalRepo,
		sessions:    sessions,
		calendar:    NewCalendarService(sessions, calendar.DefaultGridConfig(), logger),
		evaluations: NewEvaluationService(sessions, evalRepo, backend, 72*time.Hour, logger),
		theory:      NewTheoryService(sessions, backend, logger),
		dashboard:   NewDashboardService(sessions, backend, logger),
	}
}

func (e *testEnv) login() *testEnv {
	if _, err := e.sessions.Login(context.Background(), testTelegramID, 100, "student@example.com", "secret"); err != nil {
		panic(err)
	}
	return e
}
