package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
)

// RecalculationPublisher enqueues lifetime value recomputation for a customer
type RecalculationPublisher interface {
	PublishRecalculation(ctx context.Context, customerID int) error
}

// PurchaseService handles purchase business logic
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	publisher    RecalculationPublisher
	pageSize     int
	logger       *zap.Logger
	now          func() time.Time
}

// NewPurchaseService creates a new purchase service. publisher may be nil, in
// which case no recalculation jobs are sent.
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	publisher RecalculationPublisher,
	pageSize int,
	logger *zap.Logger,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		publisher:    publisher,
		pageSize:     pageSize,
		logger:       logger,
		now:          time.Now,
	}
}

// PurchaseRequest is the body of a purchase create or edit
type PurchaseRequest struct {
	CustomerID  int             `json:"customer_id" validate:"required,gt=0"`
	ProductID   int             `json:"product_id" validate:"required,gt=0"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	SaleDate    *time.Time      `json:"sale_date"`
	AmountSpent decimal.Decimal `json:"amount_spent"`
}

// Validate validates the purchase request
func (r *PurchaseRequest) Validate() error {
	if err := validateRequest(r); err != nil {
		return err
	}
	if r.AmountSpent.IsNegative() {
		return &ValidationError{Message: "amount_spent must be at least 0"}
	}
	return nil
}

func (s *PurchaseService) build(ctx context.Context, req *PurchaseRequest) (*models.Purchase, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, lookupError(err, "customer", req.CustomerID)
	}
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, lookupError(err, "product", req.ProductID)
	}

	saleDate := s.now()
	if req.SaleDate != nil {
		saleDate = *req.SaleDate
	}

	return &models.Purchase{
		CustomerID:   req.CustomerID,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		SaleDate:     time.Date(saleDate.Year(), saleDate.Month(), saleDate.Day(), 0, 0, 0, 0, time.UTC),
		AmountSpent:  req.AmountSpent,
		CustomerName: customer.Name,
		ProductName:  product.Name,
	}, nil
}

// CreatePurchase records a purchase and schedules the customer's lifetime
// value recalculation
func (s *PurchaseService) CreatePurchase(ctx context.Context, req *PurchaseRequest) (*models.Purchase, error) {
	purchase, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, writeError(err, "purchase", 0, "create")
	}

	s.scheduleRecalculation(ctx, purchase.CustomerID)
	return purchase, nil
}

// GetPurchase retrieves a purchase by ID
func (s *PurchaseService) GetPurchase(ctx context.Context, id int) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "purchase", id)
	}
	return purchase, nil
}

// ListPurchases searches purchases by customer or product name
func (s *PurchaseService) ListPurchases(ctx context.Context, q ListQuery) ([]*models.Purchase, *PaginationInfo, error) {
	purchases, page, err := paginate(ctx, q, s.pageSize, s.purchaseRepo.List)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, page, nil
}

// UpdatePurchase replaces a purchase. Both the old and new customer get a
// recalculation when the purchase moves between customers.
func (s *PurchaseService) UpdatePurchase(ctx context.Context, id int, req *PurchaseRequest) (*models.Purchase, error) {
	existing, err := s.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}

	purchase, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	purchase.ID = id

	if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
		return nil, writeError(err, "purchase", id, "update")
	}

	s.scheduleRecalculation(ctx, purchase.CustomerID)
	if existing.CustomerID != purchase.CustomerID {
		s.scheduleRecalculation(ctx, existing.CustomerID)
	}
	return purchase, nil
}

// DeletePurchase removes a purchase
func (s *PurchaseService) DeletePurchase(ctx context.Context, id int) error {
	existing, err := s.GetPurchase(ctx, id)
	if err != nil {
		return err
	}

	if err := s.purchaseRepo.Delete(ctx, id); err != nil {
		return writeError(err, "purchase", id, "delete")
	}

	s.scheduleRecalculation(ctx, existing.CustomerID)
	return nil
}

// scheduleRecalculation publishes a lifetime value job. Failures are logged
// and never fail the write that triggered them.
func (s *PurchaseService) scheduleRecalculation(ctx context.Context, customerID int) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecalculation(ctx, customerID); err != nil {
		s.logger.Warn("Failed to publish lifetime value job",
			zap.Int("customer_id", customerID),
			zap.Error(err),
		)
	}
}
