package device

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

// HandleCreate registers a new device under a project.
func HandleCreate(deviceStore core.DeviceStore, projectStore core.ProjectStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var device core.Device
		if err := c.ShouldBindJSON(&device); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if _, err := projectStore.Find(ctx, device.ProjectID); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Project", "id"))
				return
			}
			logger.Errorf("error while finding project %d, %v", device.ProjectID, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		id, err := deviceStore.Create(ctx, &device)
		if err != nil {
			if errors.Is(err, errs.ErrDupeKey) {
				c.JSON(http.StatusConflict, err)
				return
			}
			logger.Errorf("error while creating device, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		device.ID = id
		c.JSON(http.StatusCreated, device)
	}
}

// HandleFind returns a single device.
func HandleFind(deviceStore core.DeviceStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "deviceID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		device, err := deviceStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Device", "id"))
				return
			}
			logger.Errorf("error while finding device %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, device)
	}
}

// HandleList returns a page of devices, optionally scoped to a project.
func HandleList(deviceStore core.DeviceStore, logger lumber.Logger) gin.HandlerFunc {
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

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		devices, err := deviceStore.List(ctx, projectID, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Devices", "page"))
				return
			}
			logger.Errorf("error while listing devices, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(devices) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			devices = devices[:len(devices)-1]
		}
		c.JSON(http.StatusOK, gin.H{"devices": devices, "response_metadata": responseMetadata})
	}
}

// HandleUpdate updates a device.
func HandleUpdate(deviceStore core.DeviceStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "deviceID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		var device core.Device
		if err := c.ShouldBindJSON(&device); err != nil {
			c.JSON(http.StatusBadRequest, errs.ValidationErr(err))
			return
		}
		device.ID = id

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := deviceStore.Update(ctx, &device); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Device", "id"))
				return
			}
			logger.Errorf("error while updating device %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, device)
	}
}

// HandleDelete removes a device.
func HandleDelete(deviceStore core.DeviceStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "deviceID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		if err := deviceStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Device", "id"))
				return
			}
			logger.Errorf("error while deleting device %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
