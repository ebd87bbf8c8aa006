package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
)

// AutocompleteLimit caps customer autocomplete results
const AutocompleteLimit = 10

// CustomerService handles customer and note business logic
type CustomerService struct {
	customerRepo repository.CustomerRepository
	noteRepo     repository.NoteRepository
	analytics    *AnalyticsService
	pageSize     int
	logger       *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	noteRepo repository.NoteRepository,
	analytics *AnalyticsService,
	pageSize int,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		noteRepo:     noteRepo,
		analytics:    analytics,
		pageSize:     pageSize,
		logger:       logger,
	}
}

// CustomerRequest is the body of a customer create or edit
type CustomerRequest struct {
	Name      string              `json:"name" validate:"required,max=100"`
	Email     string              `json:"email" validate:"required,email,max=254"`
	Phone     *string             `json:"phone" validate:"omitempty,max=20"`
	Industry  *string             `json:"industry" validate:"omitempty,max=100"`
	Company   *string             `json:"company" validate:"omitempty,max=100"`
	Education *string             `json:"education" validate:"omitempty,max=100"`
	Income    decimal.NullDecimal `json:"income"`
}

func (r *CustomerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = optionalString(r.Phone)
	r.Industry = optionalString(r.Industry)
	r.Company = optionalString(r.Company)
	r.Education = optionalString(r.Education)
}

// Validate validates the customer request
func (r *CustomerRequest) Validate() error {
	r.normalize()
	if err := validateRequest(r); err != nil {
		return err
	}
	if r.Income.Valid && r.Income.Decimal.IsNegative() {
		return &ValidationError{Message: "income must be at least 0"}
	}
	return nil
}

func (r *CustomerRequest) apply(c *models.Customer) {
	c.Name = r.Name
	c.Email = r.Email
	c.Phone = r.Phone
	c.Industry = r.Industry
	c.Company = r.Company
	c.Education = r.Education
	c.Income = r.Income
}

// CustomerDetail is a customer with notes and derived metrics
type CustomerDetail struct {
	*models.Customer
	Notes []*models.Note `json:"notes"`
	CustomerMetrics
}

// NoteRequest is the body of a note create or edit
type NoteRequest struct {
	Description string `json:"description" validate:"required"`
}

// Validate validates the note request
func (r *NoteRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	return validateRequest(r)
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, req *CustomerRequest) (*models.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer := &models.Customer{}
	req.apply(customer)

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, writeError(err, "customer", 0, "create")
	}

	s.logger.Info("Customer created", zap.Int("customer_id", customer.ID))
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "customer", id)
	}
	return customer, nil
}

// GetCustomerDetail returns the customer with notes, total revenue, churn
// likelihood and lifetime value
func (s *CustomerService) GetCustomerDetail(ctx context.Context, id int) (*CustomerDetail, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	metrics, err := s.analytics.CustomerMetrics(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CustomerDetail{Customer: customer, Notes: notes, CustomerMetrics: *metrics}, nil
}

// ListCustomers searches customers by name, email or phone
func (s *CustomerService) ListCustomers(ctx context.Context, q ListQuery) ([]*models.Customer, *PaginationInfo, error) {
	customers, page, err := paginate(ctx, q, s.pageSize, s.customerRepo.List)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, page, nil
}

// UpdateCustomer replaces the editable fields of a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, req *CustomerRequest) (*models.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(customer)

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, writeError(err, "customer", id, "update")
	}
	return customer, nil
}

// DeleteCustomer removes a customer and everything that belongs to it
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return writeError(err, "customer", id, "delete")
	}
	s.logger.Info("Customer deleted", zap.Int("customer_id", id))
	return nil
}

// Autocomplete returns up to ten customers whose name contains term
func (s *CustomerService) Autocomplete(ctx context.Context, term string) ([]models.CustomerSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.CustomerSummary{}, nil
	}

	customers, err := s.customerRepo.Autocomplete(ctx, term, AutocompleteLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to autocomplete customers: %w", err)
	}

	out := make([]models.CustomerSummary, len(customers))
	for i, c := range customers {
		out[i] = c.Summary()
	}
	return out, nil
}

// ListNotes lists the notes of a customer
func (s *CustomerService) ListNotes(ctx context.Context, customerID int) ([]*models.Note, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// AddNote attaches a note to a customer
func (s *CustomerService) AddNote(ctx context.Context, customerID int, req *NoteRequest) (*models.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	note := &models.Note{CustomerID: customerID, Description: req.Description}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, writeError(err, "note", 0, "create")
	}
	return note, nil
}

// UpdateNote edits a note's description
func (s *CustomerService) UpdateNote(ctx context.Context, id int, req *NoteRequest) (*models.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "note", id)
	}
	note.Description = req.Description

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, writeError(err, "note", id, "update")
	}
	return note, nil
}

// DeleteNote removes a note
func (s *CustomerService) DeleteNote(ctx context.Context, id int) error {
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return writeError(err, "note", id, "delete")
	}
	return nil
}

// optionalString trims s and maps blank values to nil
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
