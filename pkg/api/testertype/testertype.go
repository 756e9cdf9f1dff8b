package testertype

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

// HandleCreate creates a new tester type.
func HandleCreate(testerTypeStore core.TesterTypeStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var testerType core.TesterType
		if err := c.ShouldBindJSON(&testerType); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		id, err := testerTypeStore.Create(ctx, &testerType)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while creating tester type, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		testerType.ID = id
		c.JSON(http.StatusCreated, testerType)
	}
}

// HandleFind returns a single tester type.
func HandleFind(testerTypeStore core.TesterTypeStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "typeID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		testerType, err := testerTypeStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Tester type", "id"))
				return
			}
			logger.Errorf("error while finding tester type %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, testerType)
	}
}

// HandleList returns a page of tester types.
func HandleList(testerTypeStore core.TesterTypeStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		testerTypes, err := testerTypeStore.List(ctx, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Tester types", "page"))
				return
			}
			logger.Errorf("error while listing tester types, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(testerTypes) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			testerTypes = testerTypes[:len(testerTypes)-1]
		}
		c.JSON(http.StatusOK, gin.H{"tester_types": testerTypes, "response_metadata": responseMetadata})
	}
}

// HandleUpdate updates a tester type.
func HandleUpdate(testerTypeStore core.TesterTypeStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "typeID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var testerType core.TesterType
		if err := c.ShouldBindJSON(&testerType); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		testerType.ID = id

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := testerTypeStore.Update(ctx, &testerType); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Tester type", "id"))
				return
			}
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while updating tester type %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, testerType)
	}
}

// HandleDelete removes a tester type.
func HandleDelete(testerTypeStore core.TesterTypeStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "typeID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := testerTypeStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Tester type", "id"))
				return
			}
			logger.Errorf("error while deleting tester type %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
