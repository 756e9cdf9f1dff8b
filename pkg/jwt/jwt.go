package jwt

import (
	"crypto/rsa"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/testdeck/testdeck/config"
	"github.com/testdeck/testdeck/pkg/core"
	"github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
	"github.com/testdeck/testdeck/pkg/utils"
)

const (
	defaultSigningAlgo     = "RS256"
	defaultTokenHeaderName = "Bearer"
	defaultTimeout         = time.Hour * 24 * 30
)

// JWTAuthorizer provides a Json-Web-Token authentication implementation. On failure, a 401 HTTP response
// is returned.
type JWTAuthorizer struct {
	// signing algorithm - possible values are HS256, HS384, HS512, RS256, RS384 or RS512
	signingAlgorithm string
	// Duration that a jwt token is valid. Optional, defaults to one hour.
	timeout time.Duration
	// TokenHeadName is a string in the header. Default value is "Bearer"
	tokenHeadName string
	// Private key
	privKey *rsa.PrivateKey
	// Public key
	pubKey *rsa.PublicKey
	// the logger object
	logger lumber.Logger
}

// New returns a new session authorizer
func New(cfg *config.Config, logger lumber.Logger) (core.Session, error) {
	privKeyBytes, err := base64.StdEncoding.DecodeString(cfg.JWT.PrivateKey)
	if err != nil {
		logger.Errorf("error while b64 decoding private key %v", err)
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privKeyBytes)
	if err != nil {
		logger.Errorf("error while parsing RSA private key %v", err)
		return nil, errors.ErrInvalidPrivKey
	}
	pubKeyBytes, err := base64.StdEncoding.DecodeString(cfg.JWT.PublicKey)
	if err != nil {
		logger.Errorf("error while b64 decoding public key %v", err)
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pubKeyBytes)
	if err != nil {
		logger.Errorf("error while parsing RSA public key %v", err)
		return nil, errors.ErrInvalidPubKey
	}

	timeout := cfg.JWT.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &JWTAuthorizer{
		signingAlgorithm: defaultSigningAlgo,
		tokenHeadName:    defaultTokenHeaderName,
		timeout:          timeout,
		privKey:          privateKey,
		pubKey:           publicKey,
		logger:           logger,
	}, nil
}

// CreateToken method that clients can use to create a signed jwt token.
func (jw *JWTAuthorizer) CreateToken(data *core.SessionData) (string, error) {
	claims := NewJWTClaims()
	claims.SetIssuedAt(time.Now().Unix())
	claims.SetExpiry(time.Now().Add(jw.timeout).Unix())
	claims.SetJTI(utils.GenerateUUID())

	if err := claims.SetCustomClaim(data); err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.GetSigningMethod(jw.signingAlgorithm), claims)

	tokenString, err := token.SignedString(jw.privKey)
	if err != nil {
		jw.logger.Errorf("failed to create JWT token, error %v", err)
		return "", errors.ErrFailedTokenCreation
	}

	return tokenString, nil
}

// Authorize vaildates and extracts the data from JWT Token claims from request header
func (jw *JWTAuthorizer) Authorize(c *gin.Context) (*core.SessionData, error) {
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, errors.ErrMissingToken)
		return nil, errors.ErrMissingToken
	}
	parts := strings.Split(authHeader, " ")
	if !(len(parts) == 2 && parts[0] == jw.tokenHeadName) {
		jw.logger.Errorf("Error while parsing auth token, got Authorization token: %s", authHeader)
		c.AbortWithStatusJSON(http.StatusForbidden, errors.ErrInvalidAuthHeader)
		return nil, errors.ErrInvalidAuthHeader
	}
	token := parts[1]

	if token == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, errors.ErrMissingToken)
		return nil, errors.ErrMissingToken
	}

	claims, err := jw.parseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, err)
		return nil, err
	}

	sessionData, err := jw.extractData(claims)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, err)
		return nil, err
	}

	return sessionData, err
}

func (jw *JWTAuthorizer) parseToken(token string) (*JwtClaims, error) {
	jwtToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if jwt.GetSigningMethod(jw.signingAlgorithm) != t.Method {
			return nil, errors.ErrInvalidSigningAlgorithm
		}
		return jw.pubKey, nil
	})
	if err != nil {
		jw.logger.Errorf("error while parsing jwt token, error: %v", err)
		return nil, errors.ErrInvalidToken
	}

	// extract claims from token
	mapClaims := jwtToken.Claims.(jwt.MapClaims)

	jc := NewJWTClaims()
	jc.MapClaims = mapClaims

	// check if claims are valid
	if err := jc.Valid(); err != nil {
		jw.logger.Errorf("error while parsing jwt token, error: %v", err)
		return nil, err
	}

	return jc, nil
}

func (jw *JWTAuthorizer) extractData(jc *JwtClaims) (*core.SessionData, error) {
	rawBytes, err := jc.MarshalJSON()
	if err != nil {
		jw.logger.Errorf("failed to marshall jwt claim payload, error:%v", err)
		return nil, errors.ErrMarshalJSON
	}
	sessionData := new(core.SessionData)

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	if err = json.Unmarshal(rawBytes, &sessionData); err != nil {
		jw.logger.Errorf("failed to unmarshall jwt claim payload, error:%v", err)
		return nil, errors.ErrUnMarshalJSON
	}

	return sessionData, nil
}
