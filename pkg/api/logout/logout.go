package logout

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	apiutils "github.com/testdeck/testdeck/pkg/api/utils"
	"github.com/testdeck/testdeck/pkg/lumber"

	"github.com/gin-gonic/gin"
	"github.com/testdeck/testdeck/pkg/core"
)

// HandleLogout creates an http.HandlerFunc that handles
// session termination.
func HandleLogout(
	redisDB core.RedisDB,
	logger lumber.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctxData, statusCode, err := apiutils.ExtractAndValidateData(c, false)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}
		if ctxData.Expiry == 0 || ctxData.JwtID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing expiry or jwt id"})
			return
		}
		sub := ctxData.Expiry - time.Now().Unix()
		key := fmt.Sprintf("%s%s", core.JwtIDPrefix, ctxData.JwtID)

		// blocklist the token for its remaining lifetime
		if sub > 0 {
			resp := redisDB.Client().Set(c, key, strconv.FormatInt(ctxData.TesterID, 10), time.Duration(sub)*time.Second)
			if _, err := resp.Result(); err != nil {
				logger.Errorf("Error while blocklisting JWT Token, error %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, err.Error())
				return
			}
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
