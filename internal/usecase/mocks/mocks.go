package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/usecase"
)

// MockTravelerRepository is a mock implementation of TravelerRepository.
type MockTravelerRepository struct {
	mu        sync.RWMutex
	travelers map[string][]*domain.Traveler

	ListByTripFunc func(ctx context.Context, tripID string) ([]*domain.Traveler, error)
}

func NewMockTravelerRepository() *MockTravelerRepository {
	return &MockTravelerRepository{travelers: make(map[string][]*domain.Traveler)}
}

// Add registers travelers for a trip.
func (m *MockTravelerRepository) Add(travelers ...*domain.Traveler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range travelers {
		m.travelers[t.TripID] = append(m.travelers[t.TripID], t)
	}
}

func (m *MockTravelerRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Traveler, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Traveler(nil), m.travelers[tripID]...), nil
}

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.Expense

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Expense, error)
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{expenses: make(map[string]*domain.Expense)}
}

func (m *MockExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// TripOf returns the trip owning an expense, or "".
func (m *MockExpenseRepository) TripOf(expenseID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[expenseID]; ok {
		return e.TripID
	}
	return ""
}

// MockSplitRepository is a mock implementation of SplitRepository.
// Splits are attributed to trips through the expense repository.
type MockSplitRepository struct {
	mu       sync.RWMutex
	splits   []domain.ExpenseSplit
	expenses *MockExpenseRepository

	CreateBatchFunc func(ctx context.Context, tx usecase.Transaction, splits []domain.ExpenseSplit) error
	ListByTripFunc  func(ctx context.Context, tripID string) ([]domain.ExpenseSplit, error)
}

func NewMockSplitRepository(expenses *MockExpenseRepository) *MockSplitRepository {
	return &MockSplitRepository{expenses: expenses}
}

func (m *MockSplitRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, splits []domain.ExpenseSplit) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, splits)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.splits = append(m.splits, splits...)
	return nil
}

func (m *MockSplitRepository) ListByTrip(ctx context.Context, tripID string) ([]domain.ExpenseSplit, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.ExpenseSplit
	for _, s := range m.splits {
		if m.expenses != nil && m.expenses.TripOf(s.ExpenseID) == tripID {
			result = append(result, s)
		}
	}
	return result, nil
}

// MockActualRepository is a mock implementation of ActualRepository.
// It enforces the (expense, traveler, installment) uniqueness of the real store.
type MockActualRepository struct {
	mu       sync.RWMutex
	actuals  map[string]*domain.ExpenseActual
	expenses *MockExpenseRepository

	CreateIfAbsentFunc   func(ctx context.Context, tx usecase.Transaction, actual *domain.ExpenseActual) (bool, error)
	GetByIDFunc          func(ctx context.Context, id string) (*domain.ExpenseActual, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.ExpenseActual, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, actual *domain.ExpenseActual) error
	ListByTripFunc       func(ctx context.Context, tripID string) ([]*domain.ExpenseActual, error)
	DeleteByTripFunc     func(ctx context.Context, tx usecase.Transaction, tripID string) (int64, error)
}

func NewMockActualRepository(expenses *MockExpenseRepository) *MockActualRepository {
	return &MockActualRepository{
		actuals:  make(map[string]*domain.ExpenseActual),
		expenses: expenses,
	}
}

func (m *MockActualRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, actual *domain.ExpenseActual) (bool, error) {
	if m.CreateIfAbsentFunc != nil {
		return m.CreateIfAbsentFunc(ctx, tx, actual)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.actuals {
		if existing.ExpenseID == actual.ExpenseID &&
			existing.TravelerID == actual.TravelerID &&
			existing.InstallmentNumber == actual.InstallmentNumber {
			return false, nil
		}
	}
	stored := *actual
	m.actuals[actual.ID] = &stored
	return true, nil
}

func (m *MockActualRepository) GetByID(ctx context.Context, id string) (*domain.ExpenseActual, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.actuals[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, domain.ErrActualNotFound
}

func (m *MockActualRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ExpenseActual, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockActualRepository) Update(ctx context.Context, tx usecase.Transaction, actual *domain.ExpenseActual) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, actual)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.actuals[actual.ID]; !ok {
		return domain.ErrActualNotFound
	}
	stored := *actual
	m.actuals[actual.ID] = &stored
	return nil
}

func (m *MockActualRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.ExpenseActual, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.ExpenseActual
	for _, a := range m.actuals {
		if m.expenses != nil && m.expenses.TripOf(a.ExpenseID) == tripID {
			copied := *a
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockActualRepository) DeleteByTrip(ctx context.Context, tx usecase.Transaction, tripID string) (int64, error) {
	if m.DeleteByTripFunc != nil {
		return m.DeleteByTripFunc(ctx, tx, tripID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, a := range m.actuals {
		if m.expenses != nil && m.expenses.TripOf(a.ExpenseID) == tripID {
			delete(m.actuals, id)
			deleted++
		}
	}
	return deleted, nil
}

// Count returns the number of stored actuals.
func (m *MockActualRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.actuals)
}

// MockLineItemSource is a mock implementation of LineItemSource.
type MockLineItemSource struct {
	mu    sync.RWMutex
	items map[string][]*domain.PlannedLineItem

	ListLineItemsFunc func(ctx context.Context, tripID string, module domain.Module, statuses []domain.Status) ([]*domain.PlannedLineItem, error)
}

func NewMockLineItemSource() *MockLineItemSource {
	return &MockLineItemSource{items: make(map[string][]*domain.PlannedLineItem)}
}

// Add registers line items for a trip.
func (m *MockLineItemSource) Add(tripID string, items ...*domain.PlannedLineItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[tripID] = append(m.items[tripID], items...)
}

func (m *MockLineItemSource) ListLineItems(ctx context.Context, tripID string, module domain.Module, statuses []domain.Status) ([]*domain.PlannedLineItem, error) {
	if m.ListLineItemsFunc != nil {
		return m.ListLineItemsFunc(ctx, tripID, module, statuses)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	allowed := make(map[domain.Status]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	var result []*domain.PlannedLineItem
	for _, item := range m.items[tripID] {
		if item.Module == module && allowed[item.Status] {
			result = append(result, item)
		}
	}
	return result, nil
}

// MockForecastRepository is a mock implementation of ForecastRepository.
type MockForecastRepository struct {
	mu      sync.RWMutex
	reports map[string]*domain.CostForecastReport

	SaveFunc      func(ctx context.Context, tx usecase.Transaction, report *domain.CostForecastReport) error
	GetLatestFunc func(ctx context.Context, tripID string) (*domain.CostForecastReport, error)
}

func NewMockForecastRepository() *MockForecastRepository {
	return &MockForecastRepository{reports: make(map[string]*domain.CostForecastReport)}
}

func (m *MockForecastRepository) Save(ctx context.Context, tx usecase.Transaction, report *domain.CostForecastReport) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, report)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.TripID] = report
	return nil
}

func (m *MockForecastRepository) GetLatest(ctx context.Context, tripID string) (*domain.CostForecastReport, error) {
	if m.GetLatestFunc != nil {
		return m.GetLatestFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.reports[tripID]; ok {
		return r, nil
	}
	return nil, domain.ErrForecastNotFound
}

// MockRateSource is a mock implementation of RateSource. Rates holds the value
// of one unit of any requested base in each target.
type MockRateSource struct {
	Rates        map[string]decimal.Decimal
	GetRatesFunc func(ctx context.Context, base string, targets []string) (*domain.RateSnapshot, error)

	Requested []string
}

func NewMockRateSource(rates map[string]decimal.Decimal) *MockRateSource {
	return &MockRateSource{Rates: rates}
}

func (m *MockRateSource) GetRates(ctx context.Context, base string, targets []string) (*domain.RateSnapshot, error) {
	m.Requested = append(m.Requested, targets...)
	if m.GetRatesFunc != nil {
		return m.GetRatesFunc(ctx, base, targets)
	}
	snapshot := domain.NewRateSnapshot(base, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, target := range targets {
		if v, ok := m.Rates[domain.NormalizeCurrency(target)]; ok {
			snapshot.Set(target, v, snapshot.FetchedAt)
		}
	}
	return snapshot, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier is a mock implementation of Retrier. By default it runs the operation once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
	Calls     int
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	m.Calls++
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%03d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{keys: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.keys[key]; ok {
		return true, existing, nil
	}
	if response == nil {
		response = []byte("processing")
	}
	m.keys[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}
