package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
)

// ContextData represent the data added to gin context by the middlewares
type ContextData struct {
	*core.SessionData
	Limit      int
	Offset     int
	NextCursor string
}

// ExtractAndValidateData returns and validates the incoming data in context if it exists.
func ExtractAndValidateData(c *gin.Context, paginationRequired bool) (*ContextData, int, error) {
	var cd ContextData
	contextValue, exists := c.Get("sessionData")
	if !exists {
		return nil, http.StatusUnauthorized, errs.ErrUnauthorized
	}
	sessionData, ok := contextValue.(*core.SessionData)
	if !ok {
		return nil, http.StatusUnauthorized, errs.ErrUnauthorized
	}
	cd.SessionData = sessionData

	statusCode, perr := paginationRequiredParams(c, &cd, paginationRequired)
	if perr != nil {
		return nil, statusCode, perr
	}
	return &cd, http.StatusOK, nil
}

// ParseID reads an int64 path parameter.
func ParseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, errs.InvalidQueryErr(name)
	}
	return id, nil
}

// ParseQueryID reads an optional int64 query parameter, 0 when absent.
func ParseQueryID(c *gin.Context, name string) (int64, error) {
	val := c.Query(name)
	if val == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id < 1 {
		return 0, errs.InvalidQueryErr(name)
	}
	return id, nil
}

// validateOffset validates the offset value
func validateOffset(offsetStr string) (int, error) {
	offset, err := strconv.Atoi(offsetStr)
	if err != nil {
		return 0, err
	}
	switch offset {
	case 0, 1:
		offset = 0
	}
	return offset, nil
}

func paginationRequiredParams(c *gin.Context,
	cd *ContextData, paginationRequired bool) (int, error) {
	if paginationRequired {
		limit := c.GetInt("limit")
		if limit == 0 {
			return http.StatusBadRequest, errs.MissingInQueryErr("limit")
		}
		cd.Limit = limit

		offset := c.GetString("offset")
		if offset != "" {
			offset, err := validateOffset(offset)
			if err != nil {
				return http.StatusBadRequest, errs.InvalidQueryErr("offset")
			}
			cd.Offset = offset
		}

		nextCursor := c.GetString("next_cursor")
		if nextCursor != "" {
			cd.NextCursor = nextCursor
		}
	}
	return 0, nil
}
