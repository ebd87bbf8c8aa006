package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
	"github.com/RileyK05/basic-crm/internal/testutil"
)

func TestCustomerRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CustomerRequest
		wantErr bool
	}{
		{"valid", CustomerRequest{Name: "Ada", Email: "ada@example.com"}, false},
		{"missing name", CustomerRequest{Name: "  ", Email: "ada@example.com"}, true},
		{"bad email", CustomerRequest{Name: "Ada", Email: "not-an-email"}, true},
		{"negative income", CustomerRequest{Name: "Ada", Email: "ada@example.com", Income: testutil.NullDec("-1")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				var vErr *ValidationError
				assert.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCustomerRequest_BlankOptionalsBecomeNil(t *testing.T) {
	req := CustomerRequest{Name: " Ada ", Email: "ada@example.com", Phone: testutil.StringPtr("   ")}
	require.NoError(t, req.Validate())

	assert.Equal(t, "Ada", req.Name)
	assert.Nil(t, req.Phone)
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	repos := newTestRepos()
	repos.customers.CreateFunc = func(ctx context.Context, c *models.Customer) error {
		return repository.ErrDuplicate
	}

	_, err := repos.customerService().CreateCustomer(context.Background(), &CustomerRequest{Name: "Ada", Email: "ada@example.com"})

	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestGetCustomer_NotFound(t *testing.T) {
	repos := newTestRepos()
	repos.customers.GetByIDFunc = func(ctx context.Context, id int) (*models.Customer, error) {
		return nil, fmt.Errorf("customer: %w", repository.ErrNotFound)
	}

	_, err := repos.customerService().GetCustomer(context.Background(), 42)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 42, nf.ID)
}

func TestGetCustomerDetail_NoEngagementAndNoLifetimeValue(t *testing.T) {
	repos := newTestRepos()
	repos.purchases.ListByCustomerFunc = func(ctx context.Context, id int) ([]*models.Purchase, error) {
		return []*models.Purchase{testutil.NewTestPurchase(1, id, "50"), testutil.NewTestPurchase(2, id, "25.50")}, nil
	}

	detail, err := repos.customerService().GetCustomerDetail(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, detail.TotalRevenue.Equal(testutil.Dec("75.50")))
	assert.True(t, detail.ChurnLikelihood.NoEngagement)
	assert.True(t, detail.LifetimeValue.IsZero())
	assert.Zero(t, repos.lifetimeValues.Calls["Create"])
}

func TestGetCustomerDetail_WithEngagementsAndStoredRow(t *testing.T) {
	repos := newTestRepos()
	repos.metrics.Rows = []*models.InternalMetrics{{ID: 1, InternalChurnRate: testutil.NullDec("0.2")}}
	repos.customers.CreatedDatesFunc = func(ctx context.Context) ([]time.Time, error) {
		return []time.Time{fixedNow.AddDate(-2, 0, 0)}, nil
	}
	repos.engagements.ListByCustomerFunc = func(ctx context.Context, id int) ([]*models.Engagement, error) {
		return []*models.Engagement{
			testutil.NewTestEngagement(1, id, models.EngagementLevelHigh),
			testutil.NewTestEngagement(2, id, models.EngagementLevelLow),
		}, nil
	}
	repos.purchases.ListByCustomerFunc = func(ctx context.Context, id int) ([]*models.Purchase, error) {
		return []*models.Purchase{testutil.NewTestPurchase(1, id, "100")}, nil
	}
	repos.lifetimeValues.Rows[1] = &models.LifetimeValue{ID: 1, CustomerID: 1}

	detail, err := repos.customerService().GetCustomerDetail(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, detail.ChurnLikelihood.NoEngagement)
	assert.Equal(t, "0.1", detail.ChurnLikelihood.Value.String())
	assert.True(t, detail.LifetimeValue.GreaterThan(testutil.Dec("0")))
}

func TestAutocomplete_BlankTermSkipsQuery(t *testing.T) {
	repos := newTestRepos()

	out, err := repos.customerService().Autocomplete(context.Background(), "   ")
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Zero(t, repos.customers.Calls["Autocomplete"])
}

func TestAutocomplete_ReturnsSummaries(t *testing.T) {
	repos := newTestRepos()
	var gotLimit int
	repos.customers.AutocompleteFunc = func(ctx context.Context, term string, limit int) ([]*models.Customer, error) {
		gotLimit = limit
		return testutil.NewTestCustomers(2), nil
	}

	out, err := repos.customerService().Autocomplete(context.Background(), "cust")
	require.NoError(t, err)

	assert.Equal(t, AutocompleteLimit, gotLimit)
	require.Len(t, out, 2)
	assert.Equal(t, models.CustomerSummary{ID: 1, Name: "Customer 1", Email: "customer1@example.com"}, out[0])
}

func TestAddNote_UnknownCustomer(t *testing.T) {
	repos := newTestRepos()
	repos.customers.GetByIDFunc = func(ctx context.Context, id int) (*models.Customer, error) {
		return nil, repository.ErrNotFound
	}

	_, err := repos.customerService().AddNote(context.Background(), 9, &NoteRequest{Description: "hello"})

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Zero(t, repos.notes.Calls["Create"])
}

func TestAddNote_BlankDescription(t *testing.T) {
	repos := newTestRepos()

	_, err := repos.customerService().AddNote(context.Background(), 1, &NoteRequest{Description: "  "})

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestDeleteCustomer_Missing(t *testing.T) {
	repos := newTestRepos()
	repos.customers.DeleteFunc = func(ctx context.Context, id int) error {
		return fmt.Errorf("customer: %w", repository.ErrNotFound)
	}

	err := repos.customerService().DeleteCustomer(context.Background(), 5)

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}
