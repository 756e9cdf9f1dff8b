package statusset

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

// HandleCreate creates a new status set.
func HandleCreate(statusSetStore core.StatusSetStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var statusSet core.StatusSet
		if err := c.ShouldBindJSON(&statusSet); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		id, err := statusSetStore.Create(ctx, &statusSet)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while creating status set, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		statusSet.ID = id
		c.JSON(http.StatusCreated, statusSet)
	}
}

// HandleFind returns a single status set.
func HandleFind(statusSetStore core.StatusSetStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "setID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		statusSet, err := statusSetStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Status set", "id"))
				return
			}
			logger.Errorf("error while finding status set %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, statusSet)
	}
}

// HandleList returns a page of status sets.
func HandleList(statusSetStore core.StatusSetStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		statusSets, err := statusSetStore.List(ctx, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Status sets", "page"))
				return
			}
			logger.Errorf("error while listing status sets, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(statusSets) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			statusSets = statusSets[:len(statusSets)-1]
		}
		c.JSON(http.StatusOK, gin.H{"status_sets": statusSets, "response_metadata": responseMetadata})
	}
}

// HandleListStatuses returns all statuses belonging to a status set.
func HandleListStatuses(statusSetStore core.StatusSetStore, statusStore core.StatusStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "setID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := statusSetStore.Find(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Status set", "id"))
				return
			}
			logger.Errorf("error while finding status set %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		statuses, err := statusStore.ListBySet(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusOK, gin.H{"statuses": []*core.Status{}})
				return
			}
			logger.Errorf("error while listing statuses of set %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, gin.H{"statuses": statuses})
	}
}

// HandleUpdate updates a status set.
func HandleUpdate(statusSetStore core.StatusSetStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "setID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var statusSet core.StatusSet
		if err := c.ShouldBindJSON(&statusSet); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		statusSet.ID = id

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := statusSetStore.Update(ctx, &statusSet); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Status set", "id"))
				return
			}
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while updating status set %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, statusSet)
	}
}

// HandleDelete removes a status set.
func HandleDelete(statusSetStore core.StatusSetStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "setID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := statusSetStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Status set", "id"))
				return
			}
			logger.Errorf("error while deleting status set %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
