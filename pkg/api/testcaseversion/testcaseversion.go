package testcaseversion

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

// VersionRequest is the payload for creating or revising a test case version.
type VersionRequest struct {
	TestCaseID     int64  `json:"test_case_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	Steps          string `json:"steps"`
	ExpectedResult string `json:"expected_result"`
	ReleaseReady   bool   `json:"release_ready"`
}

func versionFromRequest(req *VersionRequest, createdBy int64) *core.TestCaseVersion {
	version := &core.TestCaseVersion{
		TestCaseID:   req.TestCaseID,
		CreatedBy:    createdBy,
		ReleaseReady: req.ReleaseReady,
		Name:         req.Name,
	}
	if req.Description != "" {
		version.Description.SetValid(req.Description)
	}
	if req.Steps != "" {
		version.Steps.SetValid(req.Steps)
	}
	if req.ExpectedResult != "" {
		version.ExpectedResult.SetValid(req.ExpectedResult)
	}
	return version
}

// HandleCreate snapshots a new version of a test case. The version number
// is assigned by the store.
func HandleCreate(versionStore core.TestCaseVersionStore, testCaseStore core.TestCaseStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VersionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, false)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := testCaseStore.Find(ctx, req.TestCaseID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case", "id"))
				return
			}
			logger.Errorf("error while finding test case %d, %v", req.TestCaseID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		version := versionFromRequest(&req, cd.TesterID)
		id, err := versionStore.Create(ctx, version)
		if err != nil {
			logger.Errorf("error while creating test case version, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		created, err := versionStore.Find(ctx, id)
		if err != nil {
			logger.Errorf("error while reloading test case version %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// DeriveRequest overrides fields of the copied version. Absent fields
// keep the latest version's values.
type DeriveRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Steps          string `json:"steps"`
	ExpectedResult string `json:"expected_result"`
	ReleaseReady   *bool  `json:"release_ready"`
}

// HandleDerive snapshots a new version copied from the latest one,
// applying any field overrides from the payload.
func HandleDerive(versionStore core.TestCaseVersionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, err := apiutils.ParseID(c, "caseID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req DeriveRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
				return
			}
		}
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, false)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		latest, err := versionStore.FindLatest(ctx, caseID)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case version", "test case"))
				return
			}
			logger.Errorf("error while finding latest version of test case %d, %v", caseID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		version := &core.TestCaseVersion{
			TestCaseID:     caseID,
			CreatedBy:      cd.TesterID,
			ReleaseReady:   latest.ReleaseReady,
			Name:           latest.Name,
			Description:    latest.Description,
			Steps:          latest.Steps,
			ExpectedResult: latest.ExpectedResult,
		}
		if req.Name != "" {
			version.Name = req.Name
		}
		if req.Description != "" {
			version.Description.SetValid(req.Description)
		}
		if req.Steps != "" {
			version.Steps.SetValid(req.Steps)
		}
		if req.ExpectedResult != "" {
			version.ExpectedResult.SetValid(req.ExpectedResult)
		}
		if req.ReleaseReady != nil {
			version.ReleaseReady = *req.ReleaseReady
		}

		id, err := versionStore.Create(ctx, version)
		if err != nil {
			logger.Errorf("error while deriving version of test case %d, %v", caseID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		created, err := versionStore.Find(ctx, id)
		if err != nil {
			logger.Errorf("error while reloading test case version %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// HandleFind returns a single test case version.
func HandleFind(versionStore core.TestCaseVersionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "versionID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		version, err := versionStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case version", "id"))
				return
			}
			logger.Errorf("error while finding test case version %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, version)
	}
}

// HandleListByCase returns all versions of a test case, most recent first.
func HandleListByCase(versionStore core.TestCaseVersionStore, testCaseStore core.TestCaseStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, err := apiutils.ParseID(c, "caseID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := testCaseStore.Find(ctx, caseID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case", "id"))
				return
			}
			logger.Errorf("error while finding test case %d, %v", caseID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		versions, err := versionStore.FindByTestCase(ctx, caseID)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusOK, gin.H{"test_case_versions": []*core.TestCaseVersion{}})
				return
			}
			logger.Errorf("error while listing versions of test case %d, %v", caseID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, gin.H{"test_case_versions": versions})
	}
}

// HandleFindLatest returns the most recent version of a test case.
func HandleFindLatest(versionStore core.TestCaseVersionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID, err := apiutils.ParseID(c, "caseID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		version, err := versionStore.FindLatest(ctx, caseID)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case version", "test case"))
				return
			}
			logger.Errorf("error while finding latest version of test case %d, %v", caseID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, version)
	}
}

// HandleUpdate edits the descriptive fields of a version in place.
func HandleUpdate(versionStore core.TestCaseVersionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "versionID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req VersionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		version := versionFromRequest(&req, 0)
		version.ID = id
		if err := versionStore.Update(ctx, version); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case version", "id"))
				return
			}
			logger.Errorf("error while updating test case version %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		updated, err := versionStore.Find(ctx, id)
		if err != nil {
			logger.Errorf("error while reloading test case version %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// HandleDelete removes a test case version.
func HandleDelete(versionStore core.TestCaseVersionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "versionID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := versionStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Test case version", "id"))
				return
			}
			logger.Errorf("error while deleting test case version %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
