package testutil

import (
	"fmt"
	"time"

	"github.com/RileyK05/basic-crm/internal/models"
)

// NewTestCustomer creates a test customer with all fields populated
func NewTestCustomer() *models.Customer {
	return &models.Customer{
		ID:        1,
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Phone:     StringPtr("555-0100"),
		Industry:  StringPtr("Software"),
		Company:   StringPtr("Analytical Engines"),
		Education: StringPtr("Private tutoring"),
		Income:    NullDec("85000.00"),
		CreatedAt: time.Now().AddDate(-1, 0, 0),
	}
}

// NewTestCustomerWithID creates a customer with specific ID
func NewTestCustomerWithID(id int) *models.Customer {
	customer := NewTestCustomer()
	customer.ID = id
	customer.Name = fmt.Sprintf("Customer %d", id)
	customer.Email = fmt.Sprintf("customer%d@example.com", id)
	return customer
}

// NewTestCustomers creates multiple test customers
func NewTestCustomers(count int) []*models.Customer {
	customers := make([]*models.Customer, count)
	for i := range customers {
		customers[i] = NewTestCustomerWithID(i + 1)
	}
	return customers
}

// NewTestProduct creates a test product
func NewTestProduct() *models.Product {
	return &models.Product{
		ID:          1,
		Name:        "Premium Plan",
		Description: StringPtr("Annual subscription"),
		Price:       Dec("199.99"),
	}
}

// NewTestPurchase creates a purchase of amount for customerID
func NewTestPurchase(id, customerID int, amount string) *models.Purchase {
	return &models.Purchase{
		ID:           id,
		CustomerID:   customerID,
		ProductID:    1,
		Quantity:     1,
		SaleDate:     time.Now(),
		AmountSpent:  Dec(amount),
		CustomerName: "Ada Lovelace",
		ProductName:  "Premium Plan",
	}
}

// NewTestLead creates a lead linked to customer 1
func NewTestLead() *models.Lead {
	now := time.Now()
	return &models.Lead{
		ID:                  1,
		CustomerID:          IntPtr(1),
		Status:              "Open",
		LikelihoodToConvert: Dec("40"),
		Stage:               models.LeadStageQualified,
		CreatedAt:           now.AddDate(0, 0, -3),
		UpdatedAt:           now,
		CustomerName:        StringPtr("Ada Lovelace"),
	}
}

// NewTestEngagement creates an engagement of the given level for customerID
func NewTestEngagement(id, customerID int, level models.EngagementLevel) *models.Engagement {
	return &models.Engagement{
		ID:           id,
		CustomerID:   customerID,
		Level:        level,
		Type:         models.EngagementTypeCall,
		EngagedAt:    time.Now(),
		CustomerName: "Ada Lovelace",
	}
}

// NewTestUser creates a user whose password hash is hash
func NewTestUser(hash string) *models.User {
	return &models.User{
		ID:           1,
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: hash,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         models.UserRoleSalesRep,
		CreatedAt:    time.Now(),
	}
}
