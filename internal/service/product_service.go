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

// ProductService handles product business logic
type ProductService struct {
	productRepo repository.ProductRepository
	analytics   *AnalyticsService
	pageSize    int
	logger      *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, analytics *AnalyticsService, pageSize int, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		analytics:   analytics,
		pageSize:    pageSize,
		logger:      logger,
	}
}

// ProductRequest is the body of a product create or edit
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Validate validates the product request
func (r *ProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = optionalString(r.Description)
	if err := validateRequest(r); err != nil {
		return err
	}
	if r.Price.IsNegative() {
		return &ValidationError{Message: "price must be at least 0"}
	}
	return nil
}

// ProductDetail is a product with its total revenue
type ProductDetail struct {
	*models.Product
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product := &models.Product{Name: req.Name, Description: req.Description, Price: req.Price}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, writeError(err, "product", 0, "create")
	}
	return product, nil
}

// GetProductDetail returns a product with the sum of its purchases
func (s *ProductService) GetProductDetail(ctx context.Context, id int) (*ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "product", id)
	}

	revenue, err := s.analytics.ProductRevenue(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: product, TotalRevenue: revenue}, nil
}

// ListProducts searches products by name
func (s *ProductService) ListProducts(ctx context.Context, q ListQuery) ([]*models.Product, *PaginationInfo, error) {
	products, page, err := paginate(ctx, q, s.pageSize, s.productRepo.List)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, page, nil
}

// UpdateProduct replaces the editable fields of a product
func (s *ProductService) UpdateProduct(ctx context.Context, id int, req *ProductRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product := &models.Product{ID: id, Name: req.Name, Description: req.Description, Price: req.Price}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, writeError(err, "product", id, "update")
	}
	return product, nil
}

// DeleteProduct removes a product and every purchase of it
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return writeError(err, "product", id, "delete")
	}
	s.logger.Info("Product deleted", zap.Int("product_id", id))
	return nil
}
