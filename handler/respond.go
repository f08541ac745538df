package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gyan-sharma/gs7crm-backend/middleware"
	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/pkg/logger"
	"github.com/gyan-sharma/gs7crm-backend/service"
)

// currentActor builds the service-layer actor from the authenticated request.
func currentActor(c *gin.Context) service.Actor {
	return service.Actor{
		ID:   middleware.GetUserID(c),
		Role: middleware.GetRole(c),
	}
}

// writeError maps service errors to HTTP responses. Validation problems are
// 400, missing rows 404, role failures 403, state-machine violations 409;
// anything else is logged and returned as a generic 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrExtensionNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrReviewRequired),
		errors.Is(err, service.ErrReviewNotPending),
		errors.Is(err, service.ErrReviewPending),
		errors.Is(err, service.ErrContractExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		logger.Error(c.Request.Context(), "request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// stageFormFiles pushes every uploaded file through the document service and
// returns the staged metadata. The database rows are created later inside the
// owning service's transaction.
func stageFormFiles(c *gin.Context, docs *service.DocumentService, files []*multipart.FileHeader, docCtx model.DocumentContext, folder string) ([]model.DocumentMeta, bool) {
	metas := make([]model.DocumentMeta, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file " + header.Filename})
			return nil, false
		}

		meta, err := docs.Stage(c.Request.Context(), service.UploadInput{
			Context:  docCtx,
			Folder:   folder,
			Filename: header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Reader:   file,
		})
		file.Close()
		if err != nil {
			writeError(c, err)
			return nil, false
		}
		metas = append(metas, meta)
	}
	return metas, true
}
