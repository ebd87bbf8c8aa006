package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
)

// EngagementService handles engagement business logic
type EngagementService struct {
	engagementRepo repository.EngagementRepository
	customerRepo   repository.CustomerRepository
	pageSize       int
	logger         *zap.Logger
	now            func() time.Time
}

// NewEngagementService creates a new engagement service
func NewEngagementService(engagementRepo repository.EngagementRepository, customerRepo repository.CustomerRepository, pageSize int, logger *zap.Logger) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		customerRepo:   customerRepo,
		pageSize:       pageSize,
		logger:         logger,
		now:            time.Now,
	}
}

// EngagementRequest is the body of an engagement create or edit
type EngagementRequest struct {
	CustomerID int                    `json:"customer_id" validate:"required,gt=0"`
	Level      models.EngagementLevel `json:"level_of_engagement" validate:"required,oneof=Low Medium High"`
	Type       models.EngagementType  `json:"type_of_engagement" validate:"required,oneof=Call Email Meeting 'Website Visit'"`
	EngagedAt  *time.Time             `json:"engagement_date"`
}

// Validate validates the engagement request
func (r *EngagementRequest) Validate() error {
	return validateRequest(r)
}

func (s *EngagementService) build(ctx context.Context, req *EngagementRequest) (*models.Engagement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, lookupError(err, "customer", req.CustomerID)
	}

	engagedAt := s.now()
	if req.EngagedAt != nil {
		engagedAt = *req.EngagedAt
	}

	return &models.Engagement{
		CustomerID:   req.CustomerID,
		Level:        req.Level,
		Type:         req.Type,
		EngagedAt:    engagedAt,
		CustomerName: customer.Name,
	}, nil
}

// CreateEngagement logs a new engagement
func (s *EngagementService) CreateEngagement(ctx context.Context, req *EngagementRequest) (*models.Engagement, error) {
	engagement, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.engagementRepo.Create(ctx, engagement); err != nil {
		return nil, writeError(err, "engagement", 0, "create")
	}
	return engagement, nil
}

// GetEngagement retrieves an engagement by ID
func (s *EngagementService) GetEngagement(ctx context.Context, id int) (*models.Engagement, error) {
	engagement, err := s.engagementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "engagement", id)
	}
	return engagement, nil
}

// ListEngagements searches engagements by customer name or type
func (s *EngagementService) ListEngagements(ctx context.Context, q ListQuery) ([]*models.Engagement, *PaginationInfo, error) {
	engagements, page, err := paginate(ctx, q, s.pageSize, s.engagementRepo.List)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	return engagements, page, nil
}

// UpdateEngagement replaces an engagement
func (s *EngagementService) UpdateEngagement(ctx context.Context, id int, req *EngagementRequest) (*models.Engagement, error) {
	engagement, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	engagement.ID = id

	if err := s.engagementRepo.Update(ctx, engagement); err != nil {
		return nil, writeError(err, "engagement", id, "update")
	}
	return engagement, nil
}

// DeleteEngagement removes an engagement
func (s *EngagementService) DeleteEngagement(ctx context.Context, id int) error {
	if err := s.engagementRepo.Delete(ctx, id); err != nil {
		return writeError(err, "engagement", id, "delete")
	}
	return nil
}
