package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/service"
)

// MasterDataHandler exposes the supporting entities: partners, customers,
// opportunities, projects and license pricing.
type MasterDataHandler struct {
	master   *service.MasterDataService
	importer *service.ImportService
}

func NewMasterDataHandler(master *service.MasterDataService, importer *service.ImportService) *MasterDataHandler {
	return &MasterDataHandler{master: master, importer: importer}
}

// Partners

func (h *MasterDataHandler) CreatePartner(c *gin.Context) {
	var in service.PartnerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	partner, err := h.master.CreatePartner(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, partner)
}

func (h *MasterDataHandler) ListPartners(c *gin.Context) {
	partners, err := h.master.ListPartners(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partners": partners})
}

func (h *MasterDataHandler) GetPartner(c *gin.Context) {
	partner, err := h.master.GetPartner(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (h *MasterDataHandler) UpdatePartner(c *gin.Context) {
	var in service.PartnerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	partner, err := h.master.UpdatePartner(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (h *MasterDataHandler) DeletePartner(c *gin.Context) {
	if err := h.master.DeletePartner(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Partner deleted"})
}

// Customers

func (h *MasterDataHandler) CreateCustomer(c *gin.Context) {
	var in service.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	customer, err := h.master.CreateCustomer(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *MasterDataHandler) ListCustomers(c *gin.Context) {
	customers, err := h.master.ListCustomers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *MasterDataHandler) GetCustomer(c *gin.Context) {
	customer, err := h.master.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *MasterDataHandler) UpdateCustomer(c *gin.Context) {
	var in service.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	customer, err := h.master.UpdateCustomer(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *MasterDataHandler) DeleteCustomer(c *gin.Context) {
	if err := h.master.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

// Opportunities

func (h *MasterDataHandler) CreateOpportunity(c *gin.Context) {
	var in service.OpportunityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	opp, err := h.master.CreateOpportunity(c.Request.Context(), currentActor(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, opp)
}

func (h *MasterDataHandler) ListOpportunities(c *gin.Context) {
	opps, err := h.master.ListOpportunities(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunities": opps})
}

func (h *MasterDataHandler) GetOpportunity(c *gin.Context) {
	opp, err := h.master.GetOpportunity(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

func (h *MasterDataHandler) UpdateOpportunity(c *gin.Context) {
	var in service.OpportunityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	opp, err := h.master.UpdateOpportunity(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

type StageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

func (h *MasterDataHandler) SetOpportunityStage(c *gin.Context) {
	var req StageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	opp, err := h.master.SetOpportunityStage(c.Request.Context(), c.Param("id"), model.OpportunityStage(req.Stage))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

// Projects

func (h *MasterDataHandler) CreateProject(c *gin.Context) {
	var in service.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	project, err := h.master.CreateProject(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *MasterDataHandler) ListProjects(c *gin.Context) {
	projects, err := h.master.ListProjects(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *MasterDataHandler) GetProject(c *gin.Context) {
	project, err := h.master.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *MasterDataHandler) AddMilestone(c *gin.Context) {
	var in service.MilestoneInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	milestone, err := h.master.AddMilestone(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, milestone)
}

func (h *MasterDataHandler) CompleteMilestone(c *gin.Context) {
	milestone, err := h.master.CompleteMilestone(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}

// License pricing

func (h *MasterDataHandler) CreateLicensePrice(c *gin.Context) {
	var in service.LicensePriceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	price, err := h.master.CreateLicensePrice(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, price)
}

func (h *MasterDataHandler) ListLicensePrices(c *gin.Context) {
	prices, err := h.master.ListLicensePrices(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

func (h *MasterDataHandler) UpdateLicensePrice(c *gin.Context) {
	var in service.LicensePriceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	price, err := h.master.UpdateLicensePrice(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

func (h *MasterDataHandler) DeleteLicensePrice(c *gin.Context) {
	if err := h.master.DeleteLicensePrice(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Price deleted"})
}

// ImportLicensePrices bulk-creates pricing rows from an xlsx workbook.
func (h *MasterDataHandler) ImportLicensePrices(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	result, err := h.importer.ImportLicensePrices(c.Request.Context(), file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportLicensePrices streams the pricing table as an xlsx workbook.
func (h *MasterDataHandler) ExportLicensePrices(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="license_prices.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.importer.ExportLicensePrices(c.Request.Context(), c.Writer); err != nil {
		writeError(c, err)
	}
}
