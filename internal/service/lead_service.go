package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/analytics"
	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
)

var maxLikelihood = decimal.NewFromInt(100)

// LeadService handles lead business logic
type LeadService struct {
	leadRepo     repository.LeadRepository
	customerRepo repository.CustomerRepository
	pageSize     int
	logger       *zap.Logger
	now          func() time.Time
}

// NewLeadService creates a new lead service
func NewLeadService(leadRepo repository.LeadRepository, customerRepo repository.CustomerRepository, pageSize int, logger *zap.Logger) *LeadService {
	return &LeadService{
		leadRepo:     leadRepo,
		customerRepo: customerRepo,
		pageSize:     pageSize,
		logger:       logger,
		now:          time.Now,
	}
}

// LeadRequest is the body of a lead create or edit. A lead needs a customer,
// a standalone name, or WithoutCustomer set.
type LeadRequest struct {
	CustomerID          *int             `json:"customer_id" validate:"omitempty,gt=0"`
	WithoutCustomer     bool             `json:"without_customer"`
	Name                *string          `json:"name" validate:"omitempty,max=100"`
	Email               *string          `json:"email" validate:"omitempty,email"`
	Phone               *string          `json:"phone" validate:"omitempty,max=20"`
	Company             *string          `json:"company" validate:"omitempty,max=100"`
	Status              string           `json:"status" validate:"required,max=50"`
	LikelihoodToConvert decimal.Decimal  `json:"likelihood_to_convert"`
	Stage               models.LeadStage `json:"lead_stage"`
}

// Validate validates the lead request
func (r *LeadRequest) Validate() error {
	r.Name = optionalString(r.Name)
	r.Email = optionalString(r.Email)
	r.Phone = optionalString(r.Phone)
	r.Company = optionalString(r.Company)
	r.Status = strings.TrimSpace(r.Status)
	if r.Stage == "" {
		r.Stage = models.LeadStageInitialContact
	}

	if r.CustomerID == nil && r.Name == nil && !r.WithoutCustomer {
		return &ValidationError{Message: "a lead needs a customer_id, a name, or without_customer set"}
	}
	if err := validateRequest(r); err != nil {
		return err
	}
	if !r.Stage.IsValid() {
		return &ValidationError{Message: fmt.Sprintf("lead_stage must be one of: %s", joinStages())}
	}
	if r.LikelihoodToConvert.IsNegative() || r.LikelihoodToConvert.GreaterThan(maxLikelihood) {
		return &ValidationError{Message: "likelihood_to_convert must be between 0 and 100"}
	}
	return nil
}

func joinStages() string {
	names := make([]string, len(models.LeadStages))
	for i, s := range models.LeadStages {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// LeadDetail is a lead with its time in the pipeline
type LeadDetail struct {
	*models.Lead
	DisplayName         string `json:"display_name"`
	TotalTimeInPipeline int    `json:"total_time_in_pipeline_days"`
}

func (s *LeadService) build(ctx context.Context, req *LeadRequest) (*models.Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := &models.Lead{
		CustomerID:          req.CustomerID,
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		Company:             req.Company,
		Status:              req.Status,
		LikelihoodToConvert: req.LikelihoodToConvert,
		Stage:               req.Stage,
	}

	if req.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, lookupError(err, "customer", *req.CustomerID)
		}
		lead.CustomerName = &customer.Name
	}
	return lead, nil
}

// CreateLead creates a new lead
func (s *LeadService) CreateLead(ctx context.Context, req *LeadRequest) (*models.Lead, error) {
	lead, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, writeError(err, "lead", 0, "create")
	}

	s.logger.Info("Lead created", zap.Int("lead_id", lead.ID), zap.String("lead", lead.DisplayName()))
	return lead, nil
}

// GetLeadDetail returns a lead with the number of days since it was created
func (s *LeadService) GetLeadDetail(ctx context.Context, id int) (*LeadDetail, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "lead", id)
	}
	return &LeadDetail{
		Lead:                lead,
		DisplayName:         lead.DisplayName(),
		TotalTimeInPipeline: analytics.DaysInPipeline(*lead, s.now()),
	}, nil
}

// ListLeads searches leads by customer name, lead name or status
func (s *LeadService) ListLeads(ctx context.Context, q ListQuery) ([]*models.Lead, *PaginationInfo, error) {
	leads, page, err := paginate(ctx, q, s.pageSize, s.leadRepo.List)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, page, nil
}

// UpdateLead replaces the editable fields of a lead
func (s *LeadService) UpdateLead(ctx context.Context, id int, req *LeadRequest) (*models.Lead, error) {
	existing, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "lead", id)
	}

	lead, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	lead.ID = id
	lead.CreatedAt = existing.CreatedAt

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, writeError(err, "lead", id, "update")
	}
	return lead, nil
}

// DeleteLead removes a lead
func (s *LeadService) DeleteLead(ctx context.Context, id int) error {
	if err := s.leadRepo.Delete(ctx, id); err != nil {
		return writeError(err, "lead", id, "delete")
	}
	return nil
}
