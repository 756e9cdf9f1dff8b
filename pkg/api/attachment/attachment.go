package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/testdeck/testdeck/config"
	apiutils "github.com/testdeck/testdeck/pkg/api/utils"
	"github.com/testdeck/testdeck/pkg/core"
	errs "github.com/testdeck/testdeck/pkg/errors"
	"github.com/testdeck/testdeck/pkg/lumber"
	"github.com/testdeck/testdeck/pkg/utils"
)

// HandleUpload stores the multipart file and records the attachment row.
// Optional form fields carry the resolution, parent attachment and
// presentmon metadata.
func HandleUpload(cfg *config.Config, attachmentStore core.AttachmentStore,
	fileStore core.FileStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, false)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, errs.InvalidQueryErr("file"))
			return
		}
		if cfg.Storage.MaxUploadSize > 0 && fileHeader.Size > cfg.Storage.MaxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, errs.ErrFileTooLarge)
			return
		}

		attachment := &core.Attachment{
			UploadedBy: cd.TesterID,
			Filename:   utils.SanitizeFilename(fileHeader.Filename),
			UploadedAt: time.Now(),
		}
		if v := c.PostForm("resolution_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id < 1 {
				c.JSON(http.StatusBadRequest, errs.InvalidQueryErr("resolution_id"))
				return
			}
			attachment.ResolutionID.SetValid(id)
		}
		if v := c.PostForm("parent_attachment_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id < 1 {
				c.JSON(http.StatusBadRequest, errs.InvalidQueryErr("parent_attachment_id"))
				return
			}
			attachment.ParentAttachmentID.SetValid(id)
		}
		attachment.PresentmonFile = c.PostForm("presentmon_file") == "true"
		if v := c.PostForm("presentmon_version"); v != "" {
			attachment.PresentmonVersion.SetValid(v)
		}
		if v := c.PostForm("settings"); v != "" {
			attachment.Settings.SetValid(v)
		}
		attachment.RelativePath = filepath.Join(
			fmt.Sprintf("%d", cd.TesterID),
			utils.GenerateUUID()+"_"+attachment.Filename,
		)

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		src, err := fileHeader.Open()
		if err != nil {
			logger.Errorf("error while opening uploaded file, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		defer src.Close()

		if _, err := fileStore.Save(ctx, attachment.RelativePath, src); err != nil {
			logger.Errorf("error while saving attachment payload, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		id, err := attachmentStore.Create(ctx, attachment)
		if err != nil {
			if rmErr := fileStore.Remove(ctx, attachment.RelativePath); rmErr != nil {
				logger.Errorf("error while removing orphaned attachment file %s, %v",
					attachment.RelativePath, rmErr)
			}
			logger.Errorf("error while creating attachment, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		attachment.ID = id
		c.JSON(http.StatusCreated, attachment)
	}
}

// HandleFind returns attachment metadata.
func HandleFind(attachmentStore core.AttachmentStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "attachmentID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		attachment, err := attachmentStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Attachment", "id"))
				return
			}
			logger.Errorf("error while finding attachment %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		c.JSON(http.StatusOK, attachment)
	}
}

// HandleDownload streams the attachment payload back to the caller.
func HandleDownload(attachmentStore core.AttachmentStore, fileStore core.FileStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "attachmentID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		attachment, err := attachmentStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Attachment", "id"))
				return
			}
			logger.Errorf("error while finding attachment %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		payload, err := fileStore.Open(ctx, attachment.RelativePath)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Attachment payload", "file store"))
				return
			}
			logger.Errorf("error while opening attachment payload %s, %v", attachment.RelativePath, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		defer payload.Close()

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
		c.Header("Content-Type", "application/octet-stream")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, payload); err != nil {
			logger.Errorf("error while streaming attachment %d, %v", id, err)
		}
	}
}

// HandleList returns a page of attachments, optionally filtered by uploader.
func HandleList(attachmentStore core.AttachmentStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, statusCode, err := apiutils.ExtractAndValidateData(c, true)
		if err != nil {
			c.AbortWithStatusJSON(statusCode, err)
			return
		}
		uploadedBy, err := apiutils.ParseQueryID(c, "uploaded_by")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		attachments, err := attachmentStore.List(ctx, uploadedBy, cd.Offset, cd.Limit+1)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Attachments", "page"))
				return
			}
			logger.Errorf("error while listing attachments, %v", err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		responseMetadata := new(core.ResponseMetadata)
		if len(attachments) == cd.Limit+1 {
			responseMetadata.NextCursor = utils.EncodeOffset(cd.Offset + cd.Limit)
			attachments = attachments[:len(attachments)-1]
		}
		c.JSON(http.StatusOK, gin.H{"attachments": attachments, "response_metadata": responseMetadata})
	}
}

// HandleDelete removes the attachment row and its stored payload.
func HandleDelete(attachmentStore core.AttachmentStore, fileStore core.FileStore, logger lumber.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := apiutils.ParseID(c, "attachmentID")
		if err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		attachment, err := attachmentStore.Find(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Attachment", "id"))
				return
			}
			logger.Errorf("error while finding attachment %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}

		if err := attachmentStore.Delete(ctx, id); err != nil {
			if errors.Is(err, errs.ErrRowsNotFound) {
				c.JSON(http.StatusNotFound, errs.EntityNotFoundErr("Attachment", "id"))
				return
			}
			logger.Errorf("error while deleting attachment %d, %v", id, err)
			c.JSON(http.StatusInternalServerError, errs.GenericErrorMessage)
			return
		}
		if err := fileStore.Remove(ctx, attachment.RelativePath); err != nil {
			logger.Errorf("error while removing attachment payload %s, %v", attachment.RelativePath, err)
		}
		c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
	}
}
