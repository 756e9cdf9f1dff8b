package status

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

// StatusRequest is the create/update payload for statuses.
type StatusRequest struct {
	StatusSetID int64           `json:"status_set_id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Role        core.StatusRole `json:"role" binding:"required"`
	Description string          `json:"description"`
}

// HandleCreate creates a new status inside a status set.
func HandleCreate(statusStore core.StatusStore, statusSetStore core.StatusSetStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		if !req.Role.Valid() {
			c.JSON(http.StatusBadRequest, errs.InvalidQueryErr("role"))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := statusSetStore.Find(ctx, req.StatusSetID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Status set", "id"))
				return
			}
			logger.Errorf("error while finding status set %d, %v", req.StatusSetID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		status := &core.Status{
			StatusSetID: req.StatusSetID,
			Name:        req.Name,
			Role:        req.Role,
		}
		if req.Description != "" {
			status.Description.SetValid(req.Description)
		}
		id, err := statusStore.Create(ctx, status)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while creating status, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		status.ID = id
		c.JSON(http.StatusCreated, status)
	}
}

// HandleFind returns a single status.
func HandleFind(statusStore core.StatusStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "statusID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		status, err := statusStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Status", "id"))
				return
			}
			logger.Errorf("error while finding status %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

// HandleUpdate updates a status. The owning set never changes.
func HandleUpdate(statusStore core.StatusStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "statusID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		if !req.Role.Valid() {
			c.JSON(http.StatusBadRequest, errs.InvalidQueryErr("role"))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		status := &core.Status{ID: id, Name: req.Name, Role: req.Role}
		if req.Description != "" {
			status.Description.SetValid(req.Description)
		}
		if err := statusStore.Update(ctx, status); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Status", "id"))
				return
			}
			logger.Errorf("error while updating status %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

// HandleDelete removes a status.
func HandleDelete(statusStore core.StatusStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "statusID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := statusStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Status", "id"))
				return
			}
			logger.Errorf("error while deleting status %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
