package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/testdeck/testdeck/pkg/constants"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

const sessionDataKey = "sessionData"

// HandleJWTVerification returns a middleware that checks
// if the JWT in the request is valid.
func HandleJWTVerification(
	session core.Session,
	redisDB core.RedisDB,
	logger lumber.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, err := session.Authorize(c)
		if err != nil {
			logger.Errorf("failed to authorize request %v", err)
			return
		}
		key := fmt.Sprintf("%s%s", core.JwtIDPrefix, sessionData.JwtID)

		// if jwtID exists in redis then it is blocklisted
		resp := redisDB.Client().Exists(c, key)

		n, err := resp.Result()
		if err != nil {
			logger.Errorf("error while finding JWT ID in redis %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, err.Error())
			return
		}

		// JWT token is blocklisted
		if n == 1 {
			logger.Debugf("Token with ID %s is invalidated", sessionData.JwtID)
			c.AbortWithStatusJSON(http.StatusForbidden, errs.ErrInvalidJWTToken)
			return
		}
		c.Set(sessionDataKey, sessionData)
		c.Next()
	}
}

// HandleAdminOnly restricts the route to testers whose type carries
// admin privileges.
func HandleAdminOnly(
	testerTypeStore core.TesterTypeStore,
	logger lumber.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		contextValue, exists := c.Get(sessionDataKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrUnauthorized)
			return
		}
		sessionData, ok := contextValue.(*core.SessionData)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrUnauthorized)
			return
		}
		testerType, err := testerTypeStore.Find(c, sessionData.TesterTypeID)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, errs.ErrForbidden)
				return
			}
			logger.Errorf("error while finding tester type %d, %v", sessionData.TesterTypeID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		if _, ok := constants.AdminTesterTypes[testerType.Name]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, errs.ErrForbidden)
			return
		}
		c.Next()
	}
}
