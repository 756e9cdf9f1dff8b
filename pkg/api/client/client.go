package client

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

// HandleCreate creates a new client.
func HandleCreate(clientStore core.ClientStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var client core.Client
		if err := c.ShouldBindJSON(&client); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		id, err := clientStore.Create(ctx, &client)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while creating client, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		client.ID = id
		c.JSON(http.StatusCreated, client)
	}
}

// HandleFind returns a single client.
func HandleFind(clientStore core.ClientStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "clientID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		client, err := clientStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Client", "id"))
				return
			}
			logger.Errorf("error while finding client %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

// HandleList returns a page of clients.
func HandleList(clientStore core.ClientStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		clients, err := clientStore.List(ctx, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Clients", "page"))
				return
			}
			logger.Errorf("error while listing clients, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(clients) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			clients = clients[:len(clients)-1]
		}
		c.JSON(http.StatusOK, gin.H{"clients": clients, "response_metadata": responseMetadata})
	}
}

// HandleUpdate updates a client.
func HandleUpdate(clientStore core.ClientStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "clientID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var client core.Client
		if err := c.ShouldBindJSON(&client); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		client.ID = id

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := clientStore.Update(ctx, &client); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Client", "id"))
				return
			}
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while updating client %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

// HandleDelete removes a client.
func HandleDelete(clientStore core.ClientStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "clientID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := clientStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Client", "id"))
				return
			}
			logger.Errorf("error while deleting client %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
