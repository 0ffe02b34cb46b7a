package request

import "github.com/kikibeach/kiki-pos/internal/domain/enum"

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a staff registration request
type RegisterRequest struct {
	Name            string    `json:"name" binding:"required,min=2,max=255"`
	Email           string    `json:"email" binding:"required,email"`
	Password        string    `json:"password" binding:"required,min=8"`
	PasswordConfirm string    `json:"password_confirm" binding:"required,eqfield=Password"`
	Role            enum.Role `json:"role" binding:"omitempty,oneof=admin cashier"`
}
