package testergroup

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

// GroupRequest is the create/update payload for tester groups.
type GroupRequest struct {
	Name    string `json:"name" binding:"required"`
	OwnerID int64  `json:"owner_id" binding:"required"`
}

// HandleCreate creates a new tester group owned by the given tester.
func HandleCreate(testerGroupStore core.TesterGroupStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GroupRequest
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

		group := &core.TesterGroup{
			CreatedByID: cd.TesterID,
			OwnerID:     req.OwnerID,
			Name:        req.Name,
		}
		id, err := testerGroupStore.Create(ctx, group)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while creating tester group, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		group.ID = id
		c.JSON(http.StatusCreated, group)
	}
}

// HandleFind returns a single tester group.
func HandleFind(testerGroupStore core.TesterGroupStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "groupID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		group, err := testerGroupStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Tester group", "id"))
				return
			}
			logger.Errorf("error while finding tester group %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, group)
	}
}

// HandleList returns a page of tester groups.
func HandleList(testerGroupStore core.TesterGroupStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		groups, err := testerGroupStore.List(ctx, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Tester groups", "page"))
				return
			}
			logger.Errorf("error while listing tester groups, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(groups) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			groups = groups[:len(groups)-1]
		}
		c.JSON(http.StatusOK, gin.H{"tester_groups": groups, "response_metadata": responseMetadata})
	}
}

// HandleUpdate updates a tester group.
func HandleUpdate(testerGroupStore core.TesterGroupStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "groupID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var req GroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		group := &core.TesterGroup{ID: id, OwnerID: req.OwnerID, Name: req.Name}
		if err := testerGroupStore.Update(ctx, group); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Tester group", "id"))
				return
			}
			logger.Errorf("error while updating tester group %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, group)
	}
}

// HandleDelete removes a tester group.
func HandleDelete(testerGroupStore core.TesterGroupStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "groupID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := testerGroupStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Tester group", "id"))
				return
			}
			logger.Errorf("error while deleting tester group %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
