package suitcase

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apiutils "github.com/testdeck/testdeck/pkg/api/utils"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
)

// BulkRequest adds many test cases to a suite at once.
type BulkRequest struct {
	TestCaseIDs []int64 `json:"test_case_ids" binding:"required,min=1"`
}

// HandleCreate adds a single test case to a suite.
func HandleCreate(suitcaseStore core.SuitcaseStore, testSuiteStore core.TestSuiteStore,
	testCaseStore core.TestCaseStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var suitcase core.Suitcase
		if err := c.ShouldBindJSON(&suitcase); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := testSuiteStore.Find(ctx, suitcase.TestSuiteID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test suite", "id"))
				return
			}
			logger.Errorf("error while finding test suite %d, %v", suitcase.TestSuiteID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		if _, err := testCaseStore.Find(ctx, suitcase.TestCaseID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case", "id"))
				return
			}
			logger.Errorf("error while finding test case %d, %v", suitcase.TestCaseID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		id, err := suitcaseStore.Create(ctx, &suitcase)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while adding test case %d to suite %d, %v",
				suitcase.TestCaseID, suitcase.TestSuiteID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		suitcase.ID = id
		c.JSON(http.StatusCreated, suitcase)
	}
}

// HandleCreateBulk adds many test cases to a suite, skipping the ones
// already present.
func HandleCreateBulk(suitcaseStore core.SuitcaseStore, testSuiteStore core.TestSuiteStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		suiteID, err := apiutils.ParseID(c, "suiteID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req BulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := testSuiteStore.Find(ctx, suiteID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test suite", "id"))
				return
			}
			logger.Errorf("error while finding test suite %d, %v", suiteID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		added, err := suitcaseStore.CreateBulk(ctx, suiteID, req.TestCaseIDs)
		if err != nil {
			logger.Errorf("error while bulk adding test cases to suite %d, %v", suiteID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, gin.H{"added": added})
	}
}

// HandleListBySuite returns the memberships of a suite.
func HandleListBySuite(suitcaseStore core.SuitcaseStore, testSuiteStore core.TestSuiteStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		suiteID, err := apiutils.ParseID(c, "suiteID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := testSuiteStore.Find(ctx, suiteID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test suite", "id"))
				return
			}
			logger.Errorf("error while finding test suite %d, %v", suiteID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		suitcases, err := suitcaseStore.FindBySuite(ctx, suiteID)
		if err != nil {
			logger.Errorf("error while listing memberships of suite %d, %v", suiteID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, gin.H{"suitcases": suitcases})
	}
}

// HandleDelete removes a test case from a suite.
func HandleDelete(suitcaseStore core.SuitcaseStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "suitcaseID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := suitcaseStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Suitcase", "id"))
				return
			}
			logger.Errorf("error while deleting suitcase %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
