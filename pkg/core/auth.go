package core

import "context"

// RegisterRequest is the self-registration payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// AuthService implements registration and credential verification.
type AuthService interface {
	// Register creates a tester account with the regular tester type.
	Register(ctx context.Context, req *RegisterRequest) (*Tester, error)
	// Login verifies the credentials, stamps the last login time and
	// returns the tester.
	Login(ctx context.Context, email, password string) (*Tester, error)
}
