//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"travel-ai-planner/internal/domain"
	"travel-ai-planner/internal/domain/model"
	"travel-ai-planner/internal/domain/ports/adapter"
	"travel-ai-planner/internal/domain/ports/repository"
)

// ---- In-memory plan job repo ----

type MockJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*model.PlanJob
	// ProgressDays records CurrentDay from every progress patch, in order.
	ProgressDays  []int
	GetStatusFunc func(ctx context.Context, jobID string) (model.JobStatus, error)
}

func NewMockJobRepo() *MockJobRepo {
	return &MockJobRepo{jobs: map[string]*model.PlanJob{}}
}

var _ repository.PlanJobRepository = (*MockJobRepo)(nil)

func (m *MockJobRepo) Create(ctx context.Context, tx repository.Tx, job *model.PlanJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *MockJobRepo) Patch(ctx context.Context, tx repository.Tx, jobID string, p repository.JobPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Status != nil {
		job.Status = *p.Status
	}
	if p.TripID != nil {
		job.TripID = p.TripID
	}
	if p.Structure != nil {
		job.Structure = p.Structure
	}
	if p.Progress != nil {
		job.Progress = *p.Progress
		m.ProgressDays = append(m.ProgressDays, p.Progress.CurrentDay)
	}
	if p.CreditsCharged != nil {
		job.CreditsCharged = *p.CreditsCharged
	}
	if p.Error != nil {
		job.Error = *p.Error
	}
	if p.CompletedAt != nil {
		job.CompletedAt = p.CompletedAt
	}
	job.UpdatedAt = time.Now()
	return nil
}

func (m *MockJobRepo) FindByID(ctx context.Context, tx repository.Tx, jobID string) (*model.PlanJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *MockJobRepo) GetStatus(ctx context.Context, jobID string) (model.JobStatus, error) {
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx, jobID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return job.Status, nil
}

func (m *MockJobRepo) Cancel(ctx context.Context, jobID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.UserID != userID {
		return domain.ErrNotFound
	}
	if job.Status.Terminal() {
		return domain.ErrJobNotCancellable
	}
	job.Status = model.JobStatusCancelled
	return nil
}

func (m *MockJobRepo) FindStaleGenerating(ctx context.Context, updatedBefore time.Time, limit int) ([]*model.PlanJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PlanJob
	for _, job := range m.jobs {
		if job.Status == model.JobStatusGenerating && job.UpdatedAt.Before(updatedBefore) {
			cp := *job
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// ---- In-memory credit ledger ----

type MockLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	Deducted int64
	Refunded int64
}

func NewMockLedger() *MockLedger {
	return &MockLedger{balances: map[string]int64{}}
}

var _ repository.CreditLedger = (*MockLedger)(nil)

func (m *MockLedger) SetBalance(userID string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = amount
}

func (m *MockLedger) Deduct(ctx context.Context, tx repository.Tx, userID string, amount int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.balances[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if bal < amount {
		return 0, domain.ErrInsufficientCredits
	}
	m.balances[userID] = bal - amount
	m.Deducted += amount
	return bal - amount, nil
}

func (m *MockLedger) Refund(ctx context.Context, tx repository.Tx, userID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.balances[userID]; !ok {
		return domain.ErrNotFound
	}
	m.balances[userID] += amount
	m.Refunded += amount
	return nil
}

func (m *MockLedger) Balance(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.balances[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return bal, nil
}

// ---- Transaction manager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs the callback immediately without a real transaction unless a
// custom WithTxFunc is assigned.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- In-memory trip store ----

type MockTripStore struct {
	mu                 sync.Mutex
	Trips              []*model.Trip
	Days               []*model.TripDay
	Stops              []*model.TripStop
	Budgets            []*model.BudgetCategory
	ActivitiesByDay    map[string][]model.Activity
	CoverImages        map[string]string
	CreateTripFunc     func(ctx context.Context, t *model.Trip) (string, error)
	InsertActivityHook func(ctx context.Context, acts []model.Activity) error
	nextID             int
}

func NewMockTripStore() *MockTripStore {
	return &MockTripStore{
		ActivitiesByDay: map[string][]model.Activity{},
		CoverImages:     map[string]string{},
	}
}

var _ adapter.TripStore = (*MockTripStore)(nil)

func (m *MockTripStore) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *MockTripStore) CreateTrip(ctx context.Context, t *model.Trip) (string, error) {
	if m.CreateTripFunc != nil {
		return m.CreateTripFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Trips = append(m.Trips, t)
	return m.genID("trip"), nil
}

func (m *MockTripStore) CreateDay(ctx context.Context, d *model.TripDay) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Days = append(m.Days, d)
	return "day-" + d.Date, nil
}

func (m *MockTripStore) CreateStop(ctx context.Context, s *model.TripStop) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stops = append(m.Stops, s)
	return m.genID("stop"), nil
}

func (m *MockTripStore) CreateBudgetCategory(ctx context.Context, b *model.BudgetCategory) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Budgets = append(m.Budgets, b)
	return m.genID("budget"), nil
}

func (m *MockTripStore) InsertActivities(ctx context.Context, acts []model.Activity) error {
	if m.InsertActivityHook != nil {
		if err := m.InsertActivityHook(ctx, acts); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range acts {
		m.ActivitiesByDay[a.DayID] = append(m.ActivitiesByDay[a.DayID], a)
	}
	return nil
}

func (m *MockTripStore) UpdateCoverImage(ctx context.Context, tripID, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CoverImages[tripID] = imageURL
	return nil
}

// ---- Scripted completion adapter ----

type scriptedResponse struct {
	text string
	err  error
}

type MockAI struct {
	mu        sync.Mutex
	responses []scriptedResponse
	Calls     int
}

func NewMockAI() *MockAI { return &MockAI{} }

var _ adapter.CompletionAdapter = (*MockAI)(nil)

func (m *MockAI) Respond(text string) *MockAI {
	m.responses = append(m.responses, scriptedResponse{text: text})
	return m
}

func (m *MockAI) Fail(err error) *MockAI {
	m.responses = append(m.responses, scriptedResponse{err: err})
	return m
}

func (m *MockAI) Complete(ctx context.Context, modelName, system string, messages []adapter.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls >= len(m.responses) {
		return "", errors.New("mock ai: no scripted response left")
	}
	r := m.responses[m.Calls]
	m.Calls++
	return r.text, r.err
}

func (m *MockAI) CountTokens(ctx context.Context, modelName string, messages []adapter.Message) (int, error) {
	n := 0
	for _, msg := range messages {
		n += len(msg.Content) / 4
	}
	return n, nil
}

// ---- Fake place adapter ----

type MockPlaces struct {
	mu         sync.Mutex
	Queries    []string
	LookupFunc func(ctx context.Context, query string) (*model.PlaceResult, error)
}

func NewMockPlaces() *MockPlaces { return &MockPlaces{} }

var _ adapter.PlaceAdapter = (*MockPlaces)(nil)

func (m *MockPlaces) Lookup(ctx context.Context, query string) (*model.PlaceResult, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	m.mu.Unlock()
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, query)
	}
	return &model.PlaceResult{
		PlaceID:          "place-" + query,
		Latitude:         38.72,
		Longitude:        -9.14,
		FormattedAddress: query,
		MapURL:           model.PlaceMapURL("place-"+query, query),
	}, nil
}

// ---- Notification mocks ----

type MockPrefsRepo struct {
	Prefs map[string]*repository.NotificationPrefs
}

func NewMockPrefsRepo() *MockPrefsRepo {
	return &MockPrefsRepo{Prefs: map[string]*repository.NotificationPrefs{}}
}

var _ repository.NotificationPrefsRepository = (*MockPrefsRepo)(nil)

func (m *MockPrefsRepo) Get(ctx context.Context, tx repository.Tx, userID string) (*repository.NotificationPrefs, error) {
	p, ok := m.Prefs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type notifEntry struct {
	kind   string
	sentAt time.Time
}

type MockNotifLog struct {
	mu      sync.Mutex
	entries map[string][]notifEntry
}

func NewMockNotifLog() *MockNotifLog {
	return &MockNotifLog{entries: map[string][]notifEntry{}}
}

var _ repository.NotificationLogRepository = (*MockNotifLog)(nil)

func (m *MockNotifLog) Save(ctx context.Context, tx repository.Tx, userID, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = append(m.entries[userID], notifEntry{kind: kind, sentAt: time.Now()})
	return nil
}

func (m *MockNotifLog) SentWithin(ctx context.Context, tx repository.Tx, userID, kind string, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-window)
	for _, e := range m.entries[userID] {
		if e.kind == kind && e.sentAt.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

type MockPush struct {
	mu       sync.Mutex
	Sent     []adapter.PushMessage
	SendFunc func(ctx context.Context, prefs *repository.NotificationPrefs, msg adapter.PushMessage) error
}

var _ adapter.PushGateway = (*MockPush)(nil)

func (m *MockPush) Send(ctx context.Context, prefs *repository.NotificationPrefs, msg adapter.PushMessage) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, prefs, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

// ---- Synchronous enqueuer ----

// syncEnqueuer runs the task inline so tests observe the whole job
// lifecycle from a single Submit call.
type syncEnqueuer struct{}

func (syncEnqueuer) Submit(task func(ctx context.Context) error) error {
	return task(context.Background())
}

// failingEnqueuer simulates a saturated pool.
type failingEnqueuer struct{}

func (failingEnqueuer) Submit(task func(ctx context.Context) error) error {
	return errors.New("worker queue full")
}

// deferredEnqueuer captures the task for the test to run by hand.
type deferredEnqueuer struct {
	task func(ctx context.Context) error
}

func (d *deferredEnqueuer) Submit(task func(ctx context.Context) error) error {
	d.task = task
	return nil
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
