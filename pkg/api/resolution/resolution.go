package resolution

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

// HandleCreate registers a new screen resolution.
func HandleCreate(resolutionStore core.ResolutionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var resolution core.Resolution
		if err := c.ShouldBindJSON(&resolution); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		id, err := resolutionStore.Create(ctx, &resolution)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while creating resolution, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		resolution.ID = id
		c.JSON(http.StatusCreated, resolution)
	}
}

// HandleFind returns a single resolution.
func HandleFind(resolutionStore core.ResolutionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "resolutionID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		resolution, err := resolutionStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Resolution", "id"))
				return
			}
			logger.Errorf("error while finding resolution %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, resolution)
	}
}

// HandleList returns a page of resolutions.
func HandleList(resolutionStore core.ResolutionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		resolutions, err := resolutionStore.List(ctx, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Resolutions", "page"))
				return
			}
			logger.Errorf("error while listing resolutions, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(resolutions) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			resolutions = resolutions[:len(resolutions)-1]
		}
		c.JSON(http.StatusOK, gin.H{"resolutions": resolutions, "response_metadata": responseMetadata})
	}
}

// HandleDelete removes a resolution.
func HandleDelete(resolutionStore core.ResolutionStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "resolutionID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := resolutionStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Resolution", "id"))
				return
			}
			logger.Errorf("error while deleting resolution %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
