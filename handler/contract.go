package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/service"
)

type ContractHandler struct {
	contracts *service.ContractService
	documents *service.DocumentService
}

func NewContractHandler(contracts *service.ContractService, documents *service.DocumentService) *ContractHandler {
	return &ContractHandler{contracts: contracts, documents: documents}
}

// CreateFromOffer turns a won offer into a contract. Multipart: summary,
// payment_terms, start_date (RFC 3339 date) and optional attachments.
func (h *ContractHandler) CreateFromOffer(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	startDate, err := time.Parse("2006-01-02", c.PostForm("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be a YYYY-MM-DD date"})
		return
	}

	offerID := c.Param("id")
	metas, ok := stageFormFiles(c, h.documents, form.File["documents"], model.DocContextContract, offerID)
	if !ok {
		return
	}

	contract, err := h.contracts.CreateFromOffer(c.Request.Context(), currentActor(c), service.CreateContractInput{
		OfferID:      offerID,
		Summary:      c.PostForm("summary"),
		PaymentTerms: c.PostForm("payment_terms"),
		StartDate:    startDate,
		Documents:    metas,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := h.contracts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contracts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// UpdateStatus moves the contract through its lifecycle.
func (h *ContractHandler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	contract, err := h.contracts.Transition(c.Request.Context(), currentActor(c), c.Param("id"), model.ContractStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}
