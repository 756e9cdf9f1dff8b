package scenario

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

// HandleCreate creates a new scenario.
func HandleCreate(scenarioStore core.ScenarioStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var scenario core.Scenario
		if err := c.ShouldBindJSON(&scenario); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		id, err := scenarioStore.Create(ctx, &scenario)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while creating scenario, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		scenario.ID = id
		c.JSON(http.StatusCreated, scenario)
	}
}

// HandleFind returns a single scenario.
func HandleFind(scenarioStore core.ScenarioStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "scenarioID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		scenario, err := scenarioStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Scenario", "id"))
				return
			}
			logger.Errorf("error while finding scenario %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, scenario)
	}
}

// HandleList returns a page of scenarios.
func HandleList(scenarioStore core.ScenarioStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		scenarios, err := scenarioStore.List(ctx, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Scenarios", "page"))
				return
			}
			logger.Errorf("error while listing scenarios, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(scenarios) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			scenarios = scenarios[:len(scenarios)-1]
		}
		c.JSON(http.StatusOK, gin.H{"scenarios": scenarios, "response_metadata": responseMetadata})
	}
}

// HandleUpdate updates a scenario.
func HandleUpdate(scenarioStore core.ScenarioStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "scenarioID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var scenario core.Scenario
		if err := c.ShouldBindJSON(&scenario); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		scenario.ID = id

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := scenarioStore.Update(ctx, &scenario); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Scenario", "id"))
				return
			}
			logger.Errorf("error while updating scenario %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, scenario)
	}
}

// HandleDelete removes a scenario.
func HandleDelete(scenarioStore core.ScenarioStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "scenarioID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := scenarioStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Scenario", "id"))
				return
			}
			logger.Errorf("error while deleting scenario %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
