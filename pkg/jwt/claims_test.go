package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
)

func validClaims() *JwtClaims {
	claims := NewJWTClaims()
	now := time.Now()
	claims.SetIssuedAt(now.Unix())
	claims.SetExpiry(now.Add(time.Hour).Unix())
	claims.SetJTI("jwt-id-1")
	claims.SetIssuer("testdeck")
	_ = claims.SetCustomClaim(&core.SessionData{TesterID: 1, Email: "qa@example.com", TesterTypeID: 3})
	return claims
}

func TestJwtClaimsValid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *JwtClaims)
		wantErr error
	}{
		{name: "valid claims", mutate: func(c *JwtClaims) {}},
		{
			name:    "expired token",
			mutate:  func(c *JwtClaims) { c.SetExpiry(time.Now().Add(-time.Minute).Unix()) },
			wantErr: errs.ErrExpiredToken,
		},
		{
			name:    "missing expiry",
			mutate:  func(c *JwtClaims) { delete(c.MapClaims, "exp") },
			wantErr: errs.ErrExpiredToken,
		},
		{
			name:    "issued in the future",
			mutate:  func(c *JwtClaims) { c.SetIssuedAt(time.Now().Add(time.Hour).Unix()) },
			wantErr: errs.ErrExpiredToken,
		},
		{
			name:    "missing jti",
			mutate:  func(c *JwtClaims) { delete(c.MapClaims, "jti") },
			wantErr: errs.ErrMissingJTI,
		},
		{
			name:    "missing tester id",
			mutate:  func(c *JwtClaims) { delete(c.MapClaims, "tester_id") },
			wantErr: errs.ErrMissingTesterID,
		},
		{
			name:    "missing email",
			mutate:  func(c *JwtClaims) { delete(c.MapClaims, "email") },
			wantErr: errs.ErrMissingEmail,
		},
		{
			name:    "missing tester type",
			mutate:  func(c *JwtClaims) { delete(c.MapClaims, "tester_type_id") },
			wantErr: errs.ErrMissingTesterType,
		},
		{
			// claims that round-tripped through JSON carry float64 values
			name: "decoded numeric claims",
			mutate: func(c *JwtClaims) {
				c.MapClaims["tester_id"] = float64(1)
				c.MapClaims["tester_type_id"] = float64(3)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			tt.mutate(claims)
			err := claims.Valid()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Valid() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetCustomClaim(t *testing.T) {
	tests := []struct {
		name    string
		data    *core.SessionData
		wantErr bool
	}{
		{name: "complete data", data: &core.SessionData{TesterID: 1, Email: "qa@example.com", TesterTypeID: 3}},
		{name: "missing tester id", data: &core.SessionData{Email: "qa@example.com", TesterTypeID: 3}, wantErr: true},
		{name: "missing email", data: &core.SessionData{TesterID: 1, TesterTypeID: 3}, wantErr: true},
		{name: "missing tester type", data: &core.SessionData{TesterID: 1, Email: "qa@example.com"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := NewJWTClaims()
			err := claims.SetCustomClaim(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetCustomClaim() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
