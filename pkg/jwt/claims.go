package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/testdeck/testdeck/pkg/core"
	"github.com/testdeck/testdeck/pkg/errors"
)

// JwtClaims - represents the jwt claims
type JwtClaims struct {
	jwt.MapClaims
}

// NewJWTClaims - Initializes a new jwt claims
func NewJWTClaims() *JwtClaims {
	return &JwtClaims{MapClaims: jwt.MapClaims{}}
}

// SetExpiry sets expiry in unix epoch secs
func (c *JwtClaims) SetExpiry(timeUnix int64) {
	c.MapClaims["exp"] = timeUnix
}

// SetIssuedAt sets expiry in unix epoch secs
func (c *JwtClaims) SetIssuedAt(timeUnix int64) {
	c.MapClaims["iat"] = timeUnix
}

// SetJTI sets sets the unique JWT ID
func (c *JwtClaims) SetJTI(jti string) {
	c.MapClaims["jti"] = jti
}

// SetIssuer sets the issuer for these claims
func (c *JwtClaims) SetIssuer(issuer string) {
	c.MapClaims["iss"] = issuer
}

// SetCustomClaim sets the custom claim in payload
func (c *JwtClaims) SetCustomClaim(data *core.SessionData) error {
	if data.TesterID == 0 || data.Email == "" || data.TesterTypeID == 0 {
		return errors.ErrMissingSessionData
	}
	c.MapClaims["tester_id"] = data.TesterID
	c.MapClaims["email"] = data.Email
	c.MapClaims["tester_type_id"] = data.TesterTypeID
	return nil
}

// Valid Checks if the JWT Token is valid
func (c *JwtClaims) Valid() error {
	now := time.Now().Unix()

	if !c.MapClaims.VerifyExpiresAt(now, true) {
		return errors.ErrExpiredToken
	}
	if !c.MapClaims.VerifyIssuedAt(now, true) {
		return errors.ErrExpiredToken
	}

	if _, ok := c.MapClaims["jti"].(string); !ok {
		return errors.ErrMissingJTI
	}

	if !hasNumericClaim(c.MapClaims, "tester_id") {
		return errors.ErrMissingTesterID
	}

	if _, ok := c.MapClaims["email"].(string); !ok {
		return errors.ErrMissingEmail
	}

	if !hasNumericClaim(c.MapClaims, "tester_type_id") {
		return errors.ErrMissingTesterType
	}

	return nil
}

// MarshalJSON marshals the MapClaims struct
func (c *JwtClaims) MarshalJSON() ([]byte, error) {
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	return json.Marshal(c.MapClaims)
}

// numeric claims decode as float64, freshly set ones are still int64.
func hasNumericClaim(claims jwt.MapClaims, key string) bool {
	switch claims[key].(type) {
	case float64, int64, int:
		return true
	}
	return false
}
