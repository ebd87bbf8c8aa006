package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
)

func notFound(resource string) error {
	return fmt.Errorf("%s: %w", resource, repository.ErrNotFound)
}

// MockCustomerRepository mocks CustomerRepository
type MockCustomerRepository struct {
	CreateFunc       func(ctx context.Context, customer *models.Customer) error
	GetByIDFunc      func(ctx context.Context, id int) (*models.Customer, error)
	ListFunc         func(ctx context.Context, filters repository.ListFilters) ([]*models.Customer, int, error)
	UpdateFunc       func(ctx context.Context, customer *models.Customer) error
	DeleteFunc       func(ctx context.Context, id int) error
	AutocompleteFunc func(ctx context.Context, term string, limit int) ([]*models.Customer, error)
	CreatedDatesFunc func(ctx context.Context) ([]time.Time, error)
	CountFunc        func(ctx context.Context) (int, error)
	TopByRevenueFunc func(ctx context.Context, limit int) ([]*repository.CustomerRevenue, error)

	Calls map[string]int // Track method calls
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{Calls: make(map[string]int)}
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	customer.ID = 1
	customer.CreatedAt = time.Now()
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	customer := NewTestCustomer()
	customer.ID = id
	return customer, nil
}

func (m *MockCustomerRepository) List(ctx context.Context, filters repository.ListFilters) ([]*models.Customer, int, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return []*models.Customer{}, 0, nil
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	return nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCustomerRepository) Autocomplete(ctx context.Context, term string, limit int) ([]*models.Customer, error) {
	m.Calls["Autocomplete"]++
	if m.AutocompleteFunc != nil {
		return m.AutocompleteFunc(ctx, term, limit)
	}
	return []*models.Customer{}, nil
}

func (m *MockCustomerRepository) CreatedDates(ctx context.Context) ([]time.Time, error) {
	m.Calls["CreatedDates"]++
	if m.CreatedDatesFunc != nil {
		return m.CreatedDatesFunc(ctx)
	}
	return nil, nil
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"]++
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockCustomerRepository) TopByRevenue(ctx context.Context, limit int) ([]*repository.CustomerRevenue, error) {
	m.Calls["TopByRevenue"]++
	if m.TopByRevenueFunc != nil {
		return m.TopByRevenueFunc(ctx, limit)
	}
	return []*repository.CustomerRevenue{}, nil
}

// MockNoteRepository mocks NoteRepository
type MockNoteRepository struct {
	CreateFunc         func(ctx context.Context, note *models.Note) error
	GetByIDFunc        func(ctx context.Context, id int) (*models.Note, error)
	ListByCustomerFunc func(ctx context.Context, customerID int) ([]*models.Note, error)
	UpdateFunc         func(ctx context.Context, note *models.Note) error
	DeleteFunc         func(ctx context.Context, id int) error

	Calls map[string]int
}

func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{Calls: make(map[string]int)}
}

func (m *MockNoteRepository) Create(ctx context.Context, note *models.Note) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, note)
	}
	note.ID = 1
	return nil
}

func (m *MockNoteRepository) GetByID(ctx context.Context, id int) (*models.Note, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &models.Note{ID: id, CustomerID: 1, Description: "Called about renewal"}, nil
}

func (m *MockNoteRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Note, error) {
	m.Calls["ListByCustomer"]++
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	return []*models.Note{}, nil
}

func (m *MockNoteRepository) Update(ctx context.Context, note *models.Note) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, note)
	}
	return nil
}

func (m *MockNoteRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockProductRepository mocks ProductRepository
type MockProductRepository struct {
	CreateFunc  func(ctx context.Context, product *models.Product) error
	GetByIDFunc func(ctx context.Context, id int) (*models.Product, error)
	ListFunc    func(ctx context.Context, filters repository.ListFilters) ([]*models.Product, int, error)
	UpdateFunc  func(ctx context.Context, product *models.Product) error
	DeleteFunc  func(ctx context.Context, id int) error
	CountFunc   func(ctx context.Context) (int, error)

	Calls map[string]int
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{Calls: make(map[string]int)}
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, product)
	}
	product.ID = 1
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	product := NewTestProduct()
	product.ID = id
	return product, nil
}

func (m *MockProductRepository) List(ctx context.Context, filters repository.ListFilters) ([]*models.Product, int, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return []*models.Product{}, 0, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, product)
	}
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"]++
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MockPurchaseRepository mocks PurchaseRepository
type MockPurchaseRepository struct {
	CreateFunc         func(ctx context.Context, purchase *models.Purchase) error
	GetByIDFunc        func(ctx context.Context, id int) (*models.Purchase, error)
	ListFunc           func(ctx context.Context, filters repository.ListFilters) ([]*models.Purchase, int, error)
	ListByCustomerFunc func(ctx context.Context, customerID int) ([]*models.Purchase, error)
	ListByProductFunc  func(ctx context.Context, productID int) ([]*models.Purchase, error)
	UpdateFunc         func(ctx context.Context, purchase *models.Purchase) error
	DeleteFunc         func(ctx context.Context, id int) error
	CountFunc          func(ctx context.Context) (int, error)
	SumAmountFunc      func(ctx context.Context) (decimal.Decimal, error)

	Calls map[string]int
}

func NewMockPurchaseRepository() *MockPurchaseRepository {
	return &MockPurchaseRepository{Calls: make(map[string]int)}
}

func (m *MockPurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, purchase)
	}
	purchase.ID = 1
	return nil
}

func (m *MockPurchaseRepository) GetByID(ctx context.Context, id int) (*models.Purchase, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return NewTestPurchase(id, 1, "100.00"), nil
}

func (m *MockPurchaseRepository) List(ctx context.Context, filters repository.ListFilters) ([]*models.Purchase, int, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return []*models.Purchase{}, 0, nil
}

func (m *MockPurchaseRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Purchase, error) {
	m.Calls["ListByCustomer"]++
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	return []*models.Purchase{}, nil
}

func (m *MockPurchaseRepository) ListByProduct(ctx context.Context, productID int) ([]*models.Purchase, error) {
	m.Calls["ListByProduct"]++
	if m.ListByProductFunc != nil {
		return m.ListByProductFunc(ctx, productID)
	}
	return []*models.Purchase{}, nil
}

func (m *MockPurchaseRepository) Update(ctx context.Context, purchase *models.Purchase) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, purchase)
	}
	return nil
}

func (m *MockPurchaseRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockPurchaseRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"]++
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockPurchaseRepository) SumAmount(ctx context.Context) (decimal.Decimal, error) {
	m.Calls["SumAmount"]++
	if m.SumAmountFunc != nil {
		return m.SumAmountFunc(ctx)
	}
	return decimal.Zero, nil
}

// MockLeadRepository mocks LeadRepository
type MockLeadRepository struct {
	CreateFunc          func(ctx context.Context, lead *models.Lead) error
	GetByIDFunc         func(ctx context.Context, id int) (*models.Lead, error)
	ListFunc            func(ctx context.Context, filters repository.ListFilters) ([]*models.Lead, int, error)
	UpdateFunc          func(ctx context.Context, lead *models.Lead) error
	DeleteFunc          func(ctx context.Context, id int) error
	CountFunc           func(ctx context.Context) (int, error)
	CountByStageFunc    func(ctx context.Context) ([]repository.StageCount, error)
	TopByLikelihoodFunc func(ctx context.Context, limit int) ([]*models.Lead, error)

	Calls map[string]int
}

func NewMockLeadRepository() *MockLeadRepository {
	return &MockLeadRepository{Calls: make(map[string]int)}
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, lead)
	}
	lead.ID = 1
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	return nil
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id int) (*models.Lead, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	lead := NewTestLead()
	lead.ID = id
	return lead, nil
}

func (m *MockLeadRepository) List(ctx context.Context, filters repository.ListFilters) ([]*models.Lead, int, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return []*models.Lead{}, 0, nil
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *models.Lead) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, lead)
	}
	lead.UpdatedAt = time.Now()
	return nil
}

func (m *MockLeadRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockLeadRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"]++
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockLeadRepository) CountByStage(ctx context.Context) ([]repository.StageCount, error) {
	m.Calls["CountByStage"]++
	if m.CountByStageFunc != nil {
		return m.CountByStageFunc(ctx)
	}
	return []repository.StageCount{}, nil
}

func (m *MockLeadRepository) TopByLikelihood(ctx context.Context, limit int) ([]*models.Lead, error) {
	m.Calls["TopByLikelihood"]++
	if m.TopByLikelihoodFunc != nil {
		return m.TopByLikelihoodFunc(ctx, limit)
	}
	return []*models.Lead{}, nil
}

// MockEngagementRepository mocks EngagementRepository
type MockEngagementRepository struct {
	CreateFunc         func(ctx context.Context, engagement *models.Engagement) error
	GetByIDFunc        func(ctx context.Context, id int) (*models.Engagement, error)
	ListFunc           func(ctx context.Context, filters repository.ListFilters) ([]*models.Engagement, int, error)
	ListByCustomerFunc func(ctx context.Context, customerID int) ([]*models.Engagement, error)
	UpdateFunc         func(ctx context.Context, engagement *models.Engagement) error
	DeleteFunc         func(ctx context.Context, id int) error
	CountFunc          func(ctx context.Context) (int, error)
	CountByTypeFunc    func(ctx context.Context) ([]repository.TypeCount, error)

	Calls map[string]int
}

func NewMockEngagementRepository() *MockEngagementRepository {
	return &MockEngagementRepository{Calls: make(map[string]int)}
}

func (m *MockEngagementRepository) Create(ctx context.Context, engagement *models.Engagement) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, engagement)
	}
	engagement.ID = 1
	return nil
}

func (m *MockEngagementRepository) GetByID(ctx context.Context, id int) (*models.Engagement, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return NewTestEngagement(id, 1, models.EngagementLevelMedium), nil
}

func (m *MockEngagementRepository) List(ctx context.Context, filters repository.ListFilters) ([]*models.Engagement, int, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return []*models.Engagement{}, 0, nil
}

func (m *MockEngagementRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Engagement, error) {
	m.Calls["ListByCustomer"]++
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	return []*models.Engagement{}, nil
}

func (m *MockEngagementRepository) Update(ctx context.Context, engagement *models.Engagement) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, engagement)
	}
	return nil
}

func (m *MockEngagementRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockEngagementRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"]++
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockEngagementRepository) CountByType(ctx context.Context) ([]repository.TypeCount, error) {
	m.Calls["CountByType"]++
	if m.CountByTypeFunc != nil {
		return m.CountByTypeFunc(ctx)
	}
	return []repository.TypeCount{}, nil
}

// MockLifetimeValueRepository mocks LifetimeValueRepository. With no funcs set
// it behaves as an empty table that remembers created rows.
type MockLifetimeValueRepository struct {
	CreateFunc          func(ctx context.Context, ltv *models.LifetimeValue) error
	GetByCustomerIDFunc func(ctx context.Context, customerID int) (*models.LifetimeValue, error)
	ListAllFunc         func(ctx context.Context) ([]*models.LifetimeValue, error)
	UpdateFunc          func(ctx context.Context, ltv *models.LifetimeValue) error

	Rows  map[int]*models.LifetimeValue // keyed by customer id
	Calls map[string]int
}

func NewMockLifetimeValueRepository() *MockLifetimeValueRepository {
	return &MockLifetimeValueRepository{
		Rows:  make(map[int]*models.LifetimeValue),
		Calls: make(map[string]int),
	}
}

func (m *MockLifetimeValueRepository) Create(ctx context.Context, ltv *models.LifetimeValue) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ltv)
	}
	ltv.ID = len(m.Rows) + 1
	m.Rows[ltv.CustomerID] = ltv
	return nil
}

func (m *MockLifetimeValueRepository) GetByCustomerID(ctx context.Context, customerID int) (*models.LifetimeValue, error) {
	m.Calls["GetByCustomerID"]++
	if m.GetByCustomerIDFunc != nil {
		return m.GetByCustomerIDFunc(ctx, customerID)
	}
	if row, ok := m.Rows[customerID]; ok {
		return row, nil
	}
	return nil, notFound("lifetime value")
}

func (m *MockLifetimeValueRepository) ListAll(ctx context.Context) ([]*models.LifetimeValue, error) {
	m.Calls["ListAll"]++
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	rows := make([]*models.LifetimeValue, 0, len(m.Rows))
	for _, row := range m.Rows {
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *MockLifetimeValueRepository) Update(ctx context.Context, ltv *models.LifetimeValue) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ltv)
	}
	m.Rows[ltv.CustomerID] = ltv
	return nil
}

// MockInternalMetricsRepository mocks InternalMetricsRepository. With no
// funcs set it behaves as an empty table that remembers created rows.
type MockInternalMetricsRepository struct {
	CreateFunc   func(ctx context.Context, metrics *models.InternalMetrics) error
	GetFirstFunc func(ctx context.Context) (*models.InternalMetrics, error)
	ListAllFunc  func(ctx context.Context) ([]*models.InternalMetrics, error)
	UpdateFunc   func(ctx context.Context, metrics *models.InternalMetrics) error

	Rows  []*models.InternalMetrics
	Calls map[string]int
}

func NewMockInternalMetricsRepository() *MockInternalMetricsRepository {
	return &MockInternalMetricsRepository{Calls: make(map[string]int)}
}

func (m *MockInternalMetricsRepository) Create(ctx context.Context, metrics *models.InternalMetrics) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, metrics)
	}
	metrics.ID = len(m.Rows) + 1
	m.Rows = append(m.Rows, metrics)
	return nil
}

func (m *MockInternalMetricsRepository) GetFirst(ctx context.Context) (*models.InternalMetrics, error) {
	m.Calls["GetFirst"]++
	if m.GetFirstFunc != nil {
		return m.GetFirstFunc(ctx)
	}
	if len(m.Rows) == 0 {
		return nil, notFound("internal metrics")
	}
	return m.Rows[0], nil
}

func (m *MockInternalMetricsRepository) ListAll(ctx context.Context) ([]*models.InternalMetrics, error) {
	m.Calls["ListAll"]++
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return m.Rows, nil
}

func (m *MockInternalMetricsRepository) Update(ctx context.Context, metrics *models.InternalMetrics) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, metrics)
	}
	return nil
}

// MockUserRepository mocks UserRepository
type MockUserRepository struct {
	CreateFunc        func(ctx context.Context, user *models.User) error
	GetByIDFunc       func(ctx context.Context, id int) (*models.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	UpdateFunc        func(ctx context.Context, user *models.User) error

	Calls map[string]int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Calls: make(map[string]int)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	user.CreatedAt = time.Now()
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	user := NewTestUser("")
	user.ID = id
	return user, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.Calls["GetByUsername"]++
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, notFound("user")
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// MockPublisher records lifetime value recalculation requests
type MockPublisher struct {
	mu          sync.Mutex
	Published   []int // customer ids in publish order
	PublishFunc func(ctx context.Context, customerID int) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishRecalculation(ctx context.Context, customerID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishFunc != nil {
		if err := m.PublishFunc(ctx, customerID); err != nil {
			return err
		}
	}
	m.Published = append(m.Published, customerID)
	return nil
}

// GetPublishedCount returns the number of successful publishes
func (m *MockPublisher) GetPublishedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}

// MockCache is an in-memory JSON cache
type MockCache struct {
	mu      sync.Mutex
	Entries map[string][]byte
	GetErr  error
	SetErr  error
	Gets    int
	Sets    int
}

func NewMockCache() *MockCache {
	return &MockCache{Entries: make(map[string][]byte)}
}

func (m *MockCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetErr != nil {
		return false, m.GetErr
	}
	raw, ok := m.Entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *MockCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.Entries[key] = raw
	return nil
}
