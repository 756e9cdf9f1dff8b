package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// HandleLogin verifies the credentials and returns a signed session token.
func HandleLogin(
	authService core.AuthService,
	session core.Session,
	logger lumber.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds Credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		tester, err := authService.Login(ctx, creds.Email, creds.Password)
		if err != nil {
			if errors.Is(err, errs.ErrInvalidCredentials) || errors.Is(err, errs.ErrInactiveTester) {
				c.JSON(http.StatusUnauthorized, err)
				return
			}
			logger.Errorf("failed to log in tester %s, %v", creds.Email, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		token, err := session.CreateToken(&core.SessionData{
			TesterID:     tester.ID,
			Email:        tester.Email,
			TesterTypeID: tester.TesterTypeID,
		})
		if err != nil {
			logger.Errorf("failed to create session token for tester %d, %v", tester.ID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "tester": tester})
	}
}

// HandleRegister creates a new tester account.
func HandleRegister(
	authService core.AuthService,
	logger lumber.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req core.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		tester, err := authService.Register(ctx, &req)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, errs.New("email already registered"))
				return
			}
			logger.Errorf("failed to register tester %s, %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		c.JSON(http.StatusCreated, tester)
	}
}
