package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/service"
)

type OfferHandler struct {
	offers *service.OfferService
}

func NewOfferHandler(offers *service.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

func (h *OfferHandler) List(c *gin.Context) {
	offers, err := h.offers.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *OfferHandler) Get(c *gin.Context) {
	offer, err := h.offers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves the offer through its lifecycle. The response includes
// the statuses reachable from the new one so clients can render the next
// actions without duplicating the transition table.
func (h *OfferHandler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	offer, err := h.offers.Transition(c.Request.Context(), currentActor(c), c.Param("id"), model.OfferStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offer":         offer,
		"next_statuses": offer.Status.Next(),
	})
}

// RecomputeTotals re-derives the financial rollups from the nested records.
func (h *OfferHandler) RecomputeTotals(c *gin.Context) {
	offer, err := h.offers.RecomputeTotals(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

// Convert creates a draft offer from an opportunity.
func (h *OfferHandler) Convert(c *gin.Context) {
	offer, err := h.offers.ConvertOpportunity(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}
