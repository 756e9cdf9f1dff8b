package testcase

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apiutils "github.com/testdeck/testdeck/pkg/api/utils"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
	"github.com/testdeck/testdeck/pkg/utils"
)

// CaseRequest is the create/update payload for test cases.
type CaseRequest struct {
	ScenarioID  int64 `json:"scenario_id" binding:"required"`
	StatusSetID int64 `json:"status_set_id" binding:"required"`
}

// HandleCreate creates a new test case under a scenario.
func HandleCreate(testCaseStore core.TestCaseStore, scenarioStore core.ScenarioStore,
	statusSetStore core.StatusSetStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := scenarioStore.Find(ctx, req.ScenarioID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Scenario", "id"))
				return
			}
			logger.Errorf("error while finding scenario %d, %v", req.ScenarioID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		if _, err := statusSetStore.Find(ctx, req.StatusSetID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Status set", "id"))
				return
			}
			logger.Errorf("error while finding status set %d, %v", req.StatusSetID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		testCase := &core.TestCase{ScenarioID: req.ScenarioID, StatusSetID: req.StatusSetID}
		id, err := testCaseStore.Create(ctx, testCase)
		if err != nil {
			logger.Errorf("error while creating test case, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		testCase.ID = id
		c.JSON(http.StatusCreated, testCase)
	}
}

// HandleFind returns a single test case.
func HandleFind(testCaseStore core.TestCaseStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "caseID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		testCase, err := testCaseStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case", "id"))
				return
			}
			logger.Errorf("error while finding test case %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, testCase)
	}
}

// HandleList returns a page of test cases, optionally scoped to a scenario.
func HandleList(testCaseStore core.TestCaseStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}
		scenarioID, err := apiutils.ParseQueryID(c, "scenario_id")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		testCases, err := testCaseStore.List(ctx, scenarioID, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test cases", "page"))
				return
			}
			logger.Errorf("error while listing test cases, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(testCases) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			testCases = testCases[:len(testCases)-1]
		}
		c.JSON(http.StatusOK, gin.H{"test_cases": testCases, "response_metadata": responseMetadata})
	}
}

// HandleUpdate moves a test case to a different scenario or status set.
func HandleUpdate(testCaseStore core.TestCaseStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "caseID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req CaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		testCase := &core.TestCase{ID: id, ScenarioID: req.ScenarioID, StatusSetID: req.StatusSetID}
		if err := testCaseStore.Update(ctx, testCase); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case", "id"))
				return
			}
			logger.Errorf("error while updating test case %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, testCase)
	}
}

// HandleDelete removes a test case.
func HandleDelete(testCaseStore core.TestCaseStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "caseID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := testCaseStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case", "id"))
				return
			}
			logger.Errorf("error while deleting test case %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
