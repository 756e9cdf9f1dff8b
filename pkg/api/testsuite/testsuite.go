package testsuite

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

// ResolveRequest carries optional per-test-case version overrides for a
// resolution preview.
type ResolveRequest struct {
	Overrides map[int64]int64 `json:"overrides"`
}

// HandleCreate creates a new test suite.
func HandleCreate(testSuiteStore core.TestSuiteStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var suite core.TestSuite
		if err := c.ShouldBindJSON(&suite); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		id, err := testSuiteStore.Create(ctx, &suite)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while creating test suite, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		suite.ID = id
		c.JSON(http.StatusCreated, suite)
	}
}

// HandleFind returns a single test suite.
func HandleFind(testSuiteStore core.TestSuiteStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "suiteID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		suite, err := testSuiteStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test suite", "id"))
				return
			}
			logger.Errorf("error while finding test suite %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, suite)
	}
}

// HandleList returns a page of test suites.
func HandleList(testSuiteStore core.TestSuiteStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		suites, err := testSuiteStore.List(ctx, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test suites", "page"))
				return
			}
			logger.Errorf("error while listing test suites, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(suites) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			suites = suites[:len(suites)-1]
		}
		c.JSON(http.StatusOK, gin.H{"test_suites": suites, "response_metadata": responseMetadata})
	}
}

// HandleResolve previews which test case versions a run of the suite would
// exercise, without creating any executions.
func HandleResolve(executionService core.ExecutionService, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "suiteID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req ResolveRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
				return
			}
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		resolved, err := executionService.ResolveSuiteVersions(ctx, id, req.Overrides)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test suite", "id"))
				return
			}
			if errors.Is(err, errs.ErrEmptySuite) {
				c.JSON(http.StatusUnprocessableEntity, err)
				return
			}
			logger.Errorf("error while resolving test suite %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, gin.H{"resolved_cases": resolved})
	}
}

// HandleUpdate updates a test suite.
func HandleUpdate(testSuiteStore core.TestSuiteStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "suiteID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var suite core.TestSuite
		if err := c.ShouldBindJSON(&suite); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		suite.ID = id

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := testSuiteStore.Update(ctx, &suite); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test suite", "id"))
				return
			}
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while updating test suite %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, suite)
	}
}

// HandleDelete removes a test suite.
func HandleDelete(testSuiteStore core.TestSuiteStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "suiteID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := testSuiteStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test suite", "id"))
				return
			}
			logger.Errorf("error while deleting test suite %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
