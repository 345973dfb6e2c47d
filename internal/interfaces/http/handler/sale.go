package handler

import (
	salesapp "github.com/estate/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles sale and installment schedule API endpoints
type SaleHandler struct {
	BaseHandler
	service *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(service *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// HoldSaleRequest represents a request to put a sale on hold
type HoldSaleRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Create records a plot sale with its stage plan and installment schedule
func (h *SaleHandler) Create(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var req salesapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.Create(c.Request.Context(), branchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, sale)
}

// Get returns one sale with its stages and installment lines
func (h *SaleHandler) Get(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), branchID, saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// GetByNumber returns one sale looked up by its document number
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	saleNumber := c.Param("number")
	if saleNumber == "" {
		h.BadRequest(c, "Missing sale number")
		return
	}

	sale, err := h.service.GetBySaleNumber(c.Request.Context(), branchID, saleNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// List returns a paginated list of sales
func (h *SaleHandler) List(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var filter salesapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	sales, total, err := h.service.List(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// Hold puts an active sale on hold
func (h *SaleHandler) Hold(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req HoldSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.Hold(c.Request.Context(), branchID, saleID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// Resume reactivates a sale that was on hold
func (h *SaleHandler) Resume(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.service.Resume(c.Request.Context(), branchID, saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// RegenerateSchedule rebuilds the installment schedule of a sale. Only
// allowed while no installment has been paid.
func (h *SaleHandler) RegenerateSchedule(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req salesapp.InstallmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.RegenerateSchedule(c.Request.Context(), branchID, saleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}
