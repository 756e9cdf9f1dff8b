package project

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

// HandleCreate creates a new project.
func HandleCreate(projectStore core.ProjectStore, clientStore core.ClientStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project core.Project
		if err := c.ShouldBindJSON(&project); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := clientStore.Find(ctx, project.ClientID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Client", "id"))
				return
			}
			logger.Errorf("error while finding client %d, %v", project.ClientID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		id, err := projectStore.Create(ctx, &project)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while creating project, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		project.ID = id
		c.JSON(http.StatusCreated, project)
	}
}

// HandleFind returns a single project.
func HandleFind(projectStore core.ProjectStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "projectID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		project, err := projectStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Project", "id"))
				return
			}
			logger.Errorf("error while finding project %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

// HandleList returns a page of projects, optionally scoped to a client.
func HandleList(projectStore core.ProjectStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}
		clientID, err := apiutils.ParseQueryID(c, "client_id")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		projects, err := projectStore.List(ctx, clientID, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Projects", "page"))
				return
			}
			logger.Errorf("error while listing projects, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(projects) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			projects = projects[:len(projects)-1]
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects, "response_metadata": responseMetadata})
	}
}

// HandleUpdate updates a project.
func HandleUpdate(projectStore core.ProjectStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "projectID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var project core.Project
		if err := c.ShouldBindJSON(&project); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		project.ID = id

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := projectStore.Update(ctx, &project); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Project", "id"))
				return
			}
			logger.Errorf("error while updating project %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

// HandleDelete removes a project.
func HandleDelete(projectStore core.ProjectStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "projectID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := projectStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Project", "id"))
				return
			}
			logger.Errorf("error while deleting project %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
