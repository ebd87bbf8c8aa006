package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/cli"
	"github.com/RileyK05/basic-crm/internal/config"
	"github.com/RileyK05/basic-crm/internal/database"
	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
	"github.com/RileyK05/basic-crm/internal/service"
)

// Command-line flags
var (
	customersCount = flag.Int("customers", 12, "Number of customers to create")
	purchasesEach  = flag.Int("purchases", 3, "Purchases per customer")
	adminPassword  = flag.String("admin-password", "", "Create an 'admin' account with this password")
	clearData      = flag.Bool("clear", false, "Truncate CRM tables before inserting")
	showHelp       = flag.Bool("help", false, "Show usage information")
)

var (
	industries = []string{"Software", "Retail", "Healthcare", "Finance", "Logistics"}
	educations = []string{"High School", "Bachelor's", "Master's", "PhD"}
	catalog    = []struct {
		name  string
		price string
	}{
		{"Starter Plan", "29.99"},
		{"Premium Plan", "199.99"},
		{"Enterprise Plan", "999.00"},
		{"Onboarding Package", "450.00"},
		{"Support Add-on", "75.50"},
	}
	seedTables = []string{
		"notes", "purchases", "engagements", "leads", "lifetime_values",
		"internal_metrics", "products", "customers",
	}
)

// services bundles what the seeder writes through
type services struct {
	customers   *service.CustomerService
	products    *service.ProductService
	purchases   *service.PurchaseService
	leads       *service.LeadService
	engagements *service.EngagementService
	analytics   *service.AnalyticsService
	metrics     *service.InternalMetricsService
	users       *service.UserService
}

func main() {
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	cli.Info("=== CRM Database Seeder ===\n")

	cfg, err := config.Load()
	if err != nil {
		cli.Fatal(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	ctx := context.Background()

	cli.Info("Connecting to database...")
	db, err := database.Open(ctx, cfg)
	if err != nil {
		cli.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()
	cli.Success("✓ Connected to database\n")

	if *clearData {
		if err := clearSeedData(ctx, db); err != nil {
			cli.Fatal(fmt.Sprintf("Failed to clear seed data: %v", err))
		}
	}

	svc := newServices(db, cfg.Pagination.PageSize)

	if *adminPassword != "" {
		if err := seedAdmin(ctx, svc, *adminPassword); err != nil {
			cli.Fatal(fmt.Sprintf("Failed to seed admin: %v", err))
		}
	}

	products, err := seedProducts(ctx, svc)
	if err != nil {
		cli.Fatal(fmt.Sprintf("Failed to seed products: %v", err))
	}

	customers, err := seedCustomers(ctx, svc, *customersCount)
	if err != nil {
		cli.Fatal(fmt.Sprintf("Failed to seed customers: %v", err))
	}

	purchases, err := seedActivity(ctx, svc, customers, products, *purchasesEach)
	if err != nil {
		cli.Fatal(fmt.Sprintf("Failed to seed activity: %v", err))
	}

	if err := seedMetrics(ctx, svc, customers); err != nil {
		cli.Fatal(fmt.Sprintf("Failed to seed metrics: %v", err))
	}

	cli.Info("\n=== Seeding Summary ===")
	cli.Success(fmt.Sprintf("✓ Products created: %d", len(products)))
	cli.Success(fmt.Sprintf("✓ Customers created: %d", len(customers)))
	cli.Success(fmt.Sprintf("✓ Purchases created: %d", purchases))
	cli.Info("\nSeeding completed successfully!")
}

func newServices(db *sql.DB, pageSize int) *services {
	logger := zap.NewNop()
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	lifetimeValueRepo := repository.NewLifetimeValueRepository(db)
	metricsRepo := repository.NewInternalMetricsRepository(db)

	analytics := service.NewAnalyticsService(customerRepo, purchaseRepo, engagementRepo, lifetimeValueRepo, metricsRepo, logger)
	return &services{
		customers:   service.NewCustomerService(customerRepo, repository.NewNoteRepository(db), analytics, pageSize, logger),
		products:    service.NewProductService(productRepo, analytics, pageSize, logger),
		purchases:   service.NewPurchaseService(purchaseRepo, customerRepo, productRepo, nil, pageSize, logger),
		leads:       service.NewLeadService(repository.NewLeadRepository(db), customerRepo, pageSize, logger),
		engagements: service.NewEngagementService(engagementRepo, customerRepo, pageSize, logger),
		analytics:   analytics,
		metrics:     service.NewInternalMetricsService(metricsRepo, lifetimeValueRepo, logger),
		users:       service.NewUserService(repository.NewUserRepository(db), logger),
	}
}

func clearSeedData(ctx context.Context, db *sql.DB) error {
	cli.Warning("Clearing existing CRM data...")
	for _, table := range seedTables {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	cli.Success("✓ Seed data cleared\n")
	return nil
}

func seedAdmin(ctx context.Context, svc *services, password string) error {
	_, err := svc.users.Signup(ctx, &service.SignupRequest{
		Username:  "admin",
		Email:     "admin@example.com",
		Password:  password,
		FirstName: "Admin",
		Role:      models.UserRoleAdmin,
	})
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		cli.Warning("Account 'admin' already exists, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	cli.Success("✓ Created account 'admin'")
	return nil
}

func seedProducts(ctx context.Context, svc *services) ([]*models.Product, error) {
	cli.Info(fmt.Sprintf("Seeding %d products...", len(catalog)))
	products := make([]*models.Product, 0, len(catalog))
	for _, item := range catalog {
		product, err := svc.products.CreateProduct(ctx, &service.ProductRequest{
			Name:  item.name,
			Price: decimal.RequireFromString(item.price),
		})
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", item.name, err)
		}
		products = append(products, product)
	}
	return products, nil
}

func seedCustomers(ctx context.Context, svc *services, count int) ([]*models.Customer, error) {
	cli.Info(fmt.Sprintf("Seeding %d customers...", count))
	customers := make([]*models.Customer, 0, count)
	skipped := 0
	for i := 1; i <= count; i++ {
		industry := industries[i%len(industries)]
		education := educations[i%len(educations)]
		company := fmt.Sprintf("Company %d", i)
		customer, err := svc.customers.CreateCustomer(ctx, &service.CustomerRequest{
			Name:      fmt.Sprintf("Seed Customer %02d", i),
			Email:     fmt.Sprintf("seed.customer%02d@example.com", i),
			Industry:  &industry,
			Company:   &company,
			Education: &education,
			Income:    decimal.NewNullDecimal(decimal.NewFromInt(int64(40000 + i*2500))),
		})
		var conflict *service.ConflictError
		if errors.As(err, &conflict) {
			skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("customer %d: %w", i, err)
		}
		customers = append(customers, customer)
	}
	cli.Success(fmt.Sprintf("✓ Seeded %d customers (skipped %d existing)", len(customers), skipped))
	return customers, nil
}

// seedActivity gives every customer purchases, an engagement, a note and a lead
func seedActivity(ctx context.Context, svc *services, customers []*models.Customer, products []*models.Product, perCustomer int) (int, error) {
	cli.Info("Seeding purchases, engagements, notes and leads...")
	levels := []models.EngagementLevel{models.EngagementLevelLow, models.EngagementLevelMedium, models.EngagementLevelHigh}
	purchases := 0
	now := time.Now().UTC()

	for i, customer := range customers {
		for j := 0; j < perCustomer; j++ {
			product := products[(i+j)%len(products)]
			quantity := 1 + j%3
			saleDate := now.AddDate(0, -(i + j), 0)
			_, err := svc.purchases.CreatePurchase(ctx, &service.PurchaseRequest{
				CustomerID:  customer.ID,
				ProductID:   product.ID,
				Quantity:    quantity,
				SaleDate:    &saleDate,
				AmountSpent: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			})
			if err != nil {
				return purchases, fmt.Errorf("purchase for customer %d: %w", customer.ID, err)
			}
			purchases++
		}

		engagedAt := now.AddDate(0, 0, -i)
		if _, err := svc.engagements.CreateEngagement(ctx, &service.EngagementRequest{
			CustomerID: customer.ID,
			Level:      levels[i%len(levels)],
			Type:       models.EngagementTypes[i%len(models.EngagementTypes)],
			EngagedAt:  &engagedAt,
		}); err != nil {
			return purchases, fmt.Errorf("engagement for customer %d: %w", customer.ID, err)
		}

		if _, err := svc.customers.AddNote(ctx, customer.ID, &service.NoteRequest{
			Description: fmt.Sprintf("Seeded account, %s industry", *customer.Industry),
		}); err != nil {
			return purchases, fmt.Errorf("note for customer %d: %w", customer.ID, err)
		}

		customerID := customer.ID
		if _, err := svc.leads.CreateLead(ctx, &service.LeadRequest{
			CustomerID:          &customerID,
			Status:              "Open",
			LikelihoodToConvert: decimal.NewFromInt(int64((i * 17) % 101)),
			Stage:               models.LeadStages[i%len(models.LeadStages)],
		}); err != nil {
			return purchases, fmt.Errorf("lead for customer %d: %w", customer.ID, err)
		}
	}
	return purchases, nil
}

// seedMetrics stores lifetime values and rolls them up into the company average
func seedMetrics(ctx context.Context, svc *services, customers []*models.Customer) error {
	cli.Info("Calculating lifetime values...")
	for _, customer := range customers {
		if _, err := svc.analytics.RecalculateLifetimeValue(ctx, customer.ID, true); err != nil {
			return fmt.Errorf("lifetime value for customer %d: %w", customer.ID, err)
		}
	}
	metrics, err := svc.metrics.RecalculateAverageLifetimeValue(ctx)
	if err != nil {
		return err
	}
	if metrics.AverageLifetimeValue.Valid {
		cli.Success(fmt.Sprintf("✓ Average lifetime value: %s", metrics.AverageLifetimeValue.Decimal.StringFixed(2)))
	}
	return nil
}

func printUsage() {
	cli.Info("=== CRM Database Seeder ===\n")
	fmt.Println("Usage: seed [flags]")
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  seed")
	fmt.Println("  seed -customers 50 -purchases 5")
	fmt.Println("  seed -clear -admin-password 'change-me-please'")
}
