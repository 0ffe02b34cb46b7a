package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	"github.com/kikibeach/kiki-pos/internal/domain/repository"
	"github.com/kikibeach/kiki-pos/pkg/apperror"
	"github.com/kikibeach/kiki-pos/pkg/utils"
)

const minPasswordLength = 8

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
	ExpiresIn   time.Duration
}

// Login authenticates a staff member and returns an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.DisplayName(), string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:        user,
		AccessToken: token,
		ExpiresIn:   s.jwtManager.Expiry(),
	}, nil
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     enum.Role
}

// Register creates a staff account. Only admins reach this.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	var fields []apperror.FieldError
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if strings.TrimSpace(input.Name) == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if len(input.Password) < minPasswordLength {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	role := input.Role
	if role == "" {
		role = enum.RoleCashier
	}
	if !role.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "role", Message: "must be admin or cashier"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetCurrentUser returns the authenticated user
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
