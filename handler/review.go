package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/service"
)

type ReviewHandler struct {
	reviews   *service.ReviewService
	documents *service.DocumentService
}

func NewReviewHandler(reviews *service.ReviewService, documents *service.DocumentService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, documents: documents}
}

// CreateRequest accepts a multipart form: details, the reviewer selections
// and optional attachments. Files are staged to object storage first; the
// database rows are written in one transaction by the service.
func (h *ReviewHandler) CreateRequest(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	offerID := c.Param("id")
	details := c.PostForm("details")
	technical := form.Value["technical_reviewer_ids"]
	commercial := form.Value["commercial_reviewer_ids"]

	metas, ok := stageFormFiles(c, h.documents, form.File["documents"], model.DocContextReview, offerID)
	if !ok {
		return
	}

	request, err := h.reviews.CreateRequest(c.Request.Context(), currentActor(c), service.CreateReviewRequestInput{
		OfferID:               offerID,
		Details:               details,
		TechnicalReviewerIDs:  technical,
		CommercialReviewerIDs: commercial,
		Documents:             metas,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// ListRequests returns the offer's review requests, newest first.
func (h *ReviewHandler) ListRequests(c *gin.Context) {
	requests, err := h.reviews.RequestsForOffer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Progress reports per-track approval state for the offer's latest request.
func (h *ReviewHandler) Progress(c *gin.Context) {
	progress, err := h.reviews.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// History returns the offer's full review audit trail, newest first.
func (h *ReviewHandler) History(c *gin.Context) {
	entries, err := h.reviews.HistoryForOffer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comments string `json:"comments"`
}

// Decide records the reviewer's verdict on a pending review.
func (h *ReviewHandler) Decide(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	review, err := h.reviews.SubmitDecision(c.Request.Context(), currentActor(c),
		c.Param("id"), model.ReviewStatus(req.Decision), req.Comments)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Resend re-opens a decided review. Multipart: message plus optional new
// documents for the original request.
func (h *ReviewHandler) Resend(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	reviewID := c.Param("id")
	message := c.PostForm("message")

	offerID, err := h.reviews.OfferIDForReview(c.Request.Context(), reviewID)
	if err != nil {
		writeError(c, err)
		return
	}

	metas, ok := stageFormFiles(c, h.documents, form.File["documents"], model.DocContextReview, offerID)
	if !ok {
		return
	}

	review, err := h.reviews.Resend(c.Request.Context(), currentActor(c), reviewID, message, metas)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// ResendFeed lists the resend messages recorded against a review.
func (h *ReviewHandler) ResendFeed(c *gin.Context) {
	entries, err := h.reviews.ResendFeed(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resends": entries})
}
