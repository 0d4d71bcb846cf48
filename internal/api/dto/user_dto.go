package dto

import (
	"time"

	"github.com/gramseva/grievance-service/internal/domain"
)

// SendOTPRequest starts a registration or login code flow.
type SendOTPRequest struct {
	Email string `json:"email"`
}

// RegisterVerifyRequest finalizes registration with the emailed code.
type RegisterVerifyRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
	OTP      string `json:"otp"`
}

// LoginRequest is the password login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyOTPRequest completes a login code flow.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// AuthResponse carries the session credential.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the caller-visible identity projection.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Mobile    string      `json:"mobile"`
	Role      domain.Role `json:"role"`
	Address   string      `json:"address"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserResponse projects a user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Mobile:    user.Mobile,
		Role:      user.Role,
		Address:   user.Address,
		CreatedAt: user.CreatedAt,
	}
}
