package core

import (
	"github.com/gin-gonic/gin"
)

// Session provides session management for
// authenticated testers.
type Session interface {
	// CreateToken creates a signed JWT bearer token for the tester.
	CreateToken(data *SessionData) (string, error)
	// Authorize parses and validates the JWT Token from the request header.
	Authorize(c *gin.Context) (*SessionData, error)
}

// SessionData represents the data stored in the JWT claims
type SessionData struct {
	Expiry       int64  `json:"exp"`
	JwtID        string `json:"jti"`
	TesterID     int64  `json:"tester_id"`
	Email        string `json:"email"`
	TesterTypeID int64  `json:"tester_type_id"`
}
