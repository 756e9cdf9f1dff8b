package execution

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apiutils "github.com/testdeck/testdeck/pkg/api/utils"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
	"github.com/testdeck/testdeck/pkg/utils"
)

// ReassignRequest moves an execution to another device or tester.
type ReassignRequest struct {
	DeviceID int64 `json:"device_id"`
	TesterID int64 `json:"tester_id"`
}

func parseFilters(c *gin.Context) (*core.ExecutionFilters, error) {
	filters := new(core.ExecutionFilters)
	var err error
	if filters.RunID, err = apiutils.ParseQueryID(c, "run_id"); err != nil {
		return nil, err
	}
	if filters.DeviceID, err = apiutils.ParseQueryID(c, "device_id"); err != nil {
		return nil, err
	}
	if filters.TesterID, err = apiutils.ParseQueryID(c, "tester_id"); err != nil {
		return nil, err
	}
	if filters.StatusID, err = apiutils.ParseQueryID(c, "status_id"); err != nil {
		return nil, err
	}
	if filters.TestCaseVersionID, err = apiutils.ParseQueryID(c, "test_case_version_id"); err != nil {
		return nil, err
	}
	if after := c.Query("executed_after"); after != "" {
		filters.ExecutedAfter, err = time.Parse(time.RFC3339, after)
		if err != nil {
			return nil, errs.InvalidQueryErr("executed_after")
		}
	}
	if before := c.Query("executed_before"); before != "" {
		filters.ExecutedBefore, err = time.Parse(time.RFC3339, before)
		if err != nil {
			return nil, errs.InvalidQueryErr("executed_before")
		}
	}
	return filters, nil
}

// HandleFind returns a single execution.
func HandleFind(executionStore core.ExecutionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "executionID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		execution, err := executionStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Execution", "id"))
				return
			}
			logger.Errorf("error while finding execution %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, execution)
	}
}

// HandleList returns a page of executions matching the query filters.
func HandleList(executionStore core.ExecutionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}
		filters, err := parseFilters(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		executions, err := executionStore.List(ctx, filters, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Executions", "page"))
				return
			}
			logger.Errorf("error while listing executions, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(executions) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			executions = executions[:len(executions)-1]
		}
		c.JSON(http.StatusOK, gin.H{"executions": executions, "response_metadata": responseMetadata})
	}
}

// HandleStats returns role-based aggregate counters for the filtered
// executions.
func HandleStats(executionStore core.ExecutionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, err := parseFilters(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		stats, err := executionStore.Stats(ctx, filters)
		if err != nil {
			logger.Errorf("error while computing execution stats, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// HandleTransitionStatus applies a status update to an execution.
func HandleTransitionStatus(executionService core.ExecutionService, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "executionID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var transition core.StatusTransition
		if err := c.ShouldBindJSON(&transition); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		execution, err := executionService.TransitionStatus(ctx, id, &transition)
		if err != nil {
			if errors.Is(err, errs.ErrUnknownStatus) || errors.Is(err, errs.ErrUnknownAttachment) {
				c.JSON(http.StatusBadRequest, err)
				return
			}
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Execution", "id"))
				return
			}
			logger.Errorf("error while transitioning execution %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, execution)
	}
}

// HandleReassignDevice moves an execution to another device.
func HandleReassignDevice(executionService core.ExecutionService, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "executionID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req ReassignRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.DeviceID < 1 {
			c.JSON(http.StatusBadRequest, errs.InvalidQueryErr("device_id"))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		execution, err := executionService.ReassignDevice(ctx, id, req.DeviceID)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, err)
				return
			}
			logger.Errorf("error while reassigning execution %d to device %d, %v", id, req.DeviceID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, execution)
	}
}

// HandleReassignTester moves an execution to another tester.
func HandleReassignTester(executionService core.ExecutionService, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "executionID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req ReassignRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.TesterID < 1 {
			c.JSON(http.StatusBadRequest, errs.InvalidQueryErr("tester_id"))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		execution, err := executionService.ReassignTester(ctx, id, req.TesterID)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, err)
				return
			}
			logger.Errorf("error while reassigning execution %d to tester %d, %v", id, req.TesterID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, execution)
	}
}

// HandleDelete removes an execution.
func HandleDelete(executionStore core.ExecutionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "executionID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := executionStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Execution", "id"))
				return
			}
			logger.Errorf("error while deleting execution %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
