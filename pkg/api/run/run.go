package run

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

// RunRequest is the create/update payload for runs.
type RunRequest struct {
	Name          string `json:"name" binding:"required"`
	ProjectID     int64  `json:"project_id" binding:"required"`
	SuiteMetadata string `json:"test_suite_metadata"`
}

func runFromRequest(req *RunRequest) *core.Run {
	run := &core.Run{Name: req.Name, ProjectID: req.ProjectID}
	if req.SuiteMetadata != "" {
		run.SuiteMetadata.SetValid(req.SuiteMetadata)
	}
	return run
}

// HandleCreate creates a new run under a project.
func HandleCreate(runStore core.RunStore, projectStore core.ProjectStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RunRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := projectStore.Find(ctx, req.ProjectID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Project", "id"))
				return
			}
			logger.Errorf("error while finding project %d, %v", req.ProjectID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		run := runFromRequest(&req)
		id, err := runStore.Create(ctx, run)
		if err != nil {
			logger.Errorf("error while creating run, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		run.ID = id
		c.JSON(http.StatusCreated, run)
	}
}

// HandleFind returns a single run.
func HandleFind(runStore core.RunStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "runID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		run, err := runStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Run", "id"))
				return
			}
			logger.Errorf("error while finding run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

// HandleList returns a page of runs, most recent first. Supports project_id
// and active filters.
func HandleList(runStore core.RunStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}
		projectID, err := apiutils.ParseQueryID(c, "project_id")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		activeOnly := c.Query("active") == "true"

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		runs, err := runStore.List(ctx, projectID, activeOnly, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Runs", "page"))
				return
			}
			logger.Errorf("error while listing runs, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(runs) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			runs = runs[:len(runs)-1]
		}
		c.JSON(http.StatusOK, gin.H{"runs": runs, "response_metadata": responseMetadata})
	}
}

// HandleUpdate updates a run's descriptive fields.
func HandleUpdate(runStore core.RunStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "runID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req RunRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		run := runFromRequest(&req)
		run.ID = id
		if err := runStore.Update(ctx, run); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Run", "id"))
				return
			}
			logger.Errorf("error while updating run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

// HandleStart stamps the run as started. Starting twice is a no-op
// rejected with a conflict.
func HandleStart(runStore core.RunStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "runID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := runStore.Start(ctx, id, time.Now()); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusConflict, errs.New("Run not found or already started"))
				return
			}
			logger.Errorf("error while starting run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		run, err := runStore.Find(ctx, id)
		if err != nil {
			logger.Errorf("error while reloading run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

// HandleComplete stamps the run as done. Completing twice is rejected
// with a conflict.
func HandleComplete(runStore core.RunStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "runID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := runStore.Complete(ctx, id, time.Now()); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusConflict, errs.New("Run not found or already completed"))
				return
			}
			logger.Errorf("error while completing run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		run, err := runStore.Find(ctx, id)
		if err != nil {
			logger.Errorf("error while reloading run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

// HandleStats returns role-based execution counters for the run.
func HandleStats(runStore core.RunStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "runID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := runStore.Find(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Run", "id"))
				return
			}
			logger.Errorf("error while finding run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		stats, err := runStore.Stats(ctx, id)
		if err != nil {
			logger.Errorf("error while computing stats of run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// HandleListExecutions returns the executions of a run in execution order.
func HandleListExecutions(runStore core.RunStore, executionStore core.ExecutionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "runID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := runStore.Find(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Run", "id"))
				return
			}
			logger.Errorf("error while finding run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		executions, err := executionStore.ListByRun(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusOK, gin.H{"executions": []*core.Execution{}})
				return
			}
			logger.Errorf("error while listing executions of run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, gin.H{"executions": executions})
	}
}

// HandleDelete removes a run.
func HandleDelete(runStore core.RunStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "runID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := runStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Run", "id"))
				return
			}
			logger.Errorf("error while deleting run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}

// HandleMaterialize fills the run with executions for every resolvable
// member of the given suite.
func HandleMaterialize(executionService core.ExecutionService, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "runID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req core.MaterializeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		req.RunID = id

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		executions, err := executionService.MaterializeRun(ctx, &req)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, err)
				return
			}
			if errors.Is(err, errs.ErrEmptySuite) || errors.Is(err, errs.ErrNoNotRunStatus) {
				c.JSON(http.StatusUnprocessableEntity, err)
				return
			}
			logger.Errorf("error while materializing run %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"executions": executions})
	}
}
