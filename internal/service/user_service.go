package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RileyK05/basic-crm/internal/models"
	"github.com/RileyK05/basic-crm/internal/repository"
)

// UserService handles signup, login and account edits
type UserService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, bcryptCost: bcrypt.DefaultCost, logger: logger}
}

// SignupRequest registers a new account
type SignupRequest struct {
	Username  string          `json:"username" validate:"required,min=3,max=150"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8,max=72"`
	FirstName string          `json:"first_name" validate:"max=150"`
	LastName  string          `json:"last_name" validate:"max=150"`
	Role      models.UserRole `json:"role" validate:"omitempty,oneof=Admin Manager SalesRep CustomerServ"`
}

// Validate validates the signup request
func (r *SignupRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if r.Role == "" {
		r.Role = models.UserRoleSalesRep
	}
	return validateRequest(r)
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountRequest edits the signed-in account. Password is optional.
type AccountRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	FirstName string          `json:"first_name" validate:"max=150"`
	LastName  string          `json:"last_name" validate:"max=150"`
	Role      models.UserRole `json:"role" validate:"required,oneof=Admin Manager SalesRep CustomerServ"`
	Password  *string         `json:"password" validate:"omitempty,min=8,max=72"`
}

// Signup creates an account with a bcrypt-hashed password
func (s *UserService) Signup(ctx context.Context, req *SignupRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Resource: "user", Message: "username already taken"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User signed up", zap.Int("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Authenticate checks credentials and returns the matching user
func (s *UserService) Authenticate(ctx context.Context, req *LoginRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "invalid username or password"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "invalid username or password"}
	}
	return user, nil
}

// GetAccount returns the account for a session's user id
func (s *UserService) GetAccount(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "account no longer exists"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateAccount edits the account's profile and optionally its password
func (s *UserService) UpdateAccount(ctx context.Context, id int, req *AccountRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Role = req.Role
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, writeError(err, "user", id, "update")
	}
	return user, nil
}
