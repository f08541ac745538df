package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/pkg/logger"
	"github.com/gyan-sharma/gs7crm-backend/service"
)

type DocumentHandler struct {
	documents *service.DocumentService
}

func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Upload attaches one file to an entity. Multipart: file, context
// (review|contract|partner|opportunity) and owner_id.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	docCtx := model.DocumentContext(c.PostForm("context"))
	ownerID := c.PostForm("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}

	doc, err := h.documents.Upload(c.Request.Context(), currentActor(c), service.UploadInput{
		Context:  docCtx,
		Folder:   ownerID,
		Filename: header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Reader:   file,
	}, ownerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Download streams the stored bytes with the original filename.
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, reader, err := h.documents.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	c.Header("Content-Type", doc.MIMEType)
	if doc.Size > 0 {
		c.Header("Content-Length", fmt.Sprintf("%d", doc.Size))
	}

	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger.Warn(c.Request.Context(), "document stream interrupted", "document_id", doc.ID, "error", err)
	}
}

// Delete removes the stored object and the metadata row immediately.
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
