package models

import "time"

// UserRole labels what a user does. Roles are not used for authorization.
type UserRole string

const (
	UserRoleAdmin        UserRole = "Admin"
	UserRoleManager      UserRole = "Manager"
	UserRoleSalesRep     UserRole = "SalesRep"
	UserRoleCustomerServ UserRole = "CustomerServ"
)

// IsValid reports whether r is a known role
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleSalesRep, UserRoleCustomerServ:
		return true
	}
	return false
}

// User is an account able to sign in to the CRM
type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
