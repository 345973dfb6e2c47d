package handler

import (
	landapp "github.com/estate/backend/internal/application/land"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlotHandler handles plot lifecycle API endpoints
type PlotHandler struct {
	BaseHandler
	service *landapp.PlotService
}

// NewPlotHandler creates a new PlotHandler
func NewPlotHandler(service *landapp.PlotService) *PlotHandler {
	return &PlotHandler{service: service}
}

// Create carves a new plot out of a parcel
func (h *PlotHandler) Create(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var req landapp.CreatePlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plot, err := h.service.Create(c.Request.Context(), branchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, plot)
}

// Get returns one plot by ID
func (h *PlotHandler) Get(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	plotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	plot, err := h.service.GetByID(c.Request.Context(), branchID, plotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plot)
}

// List returns a paginated list of plots
func (h *PlotHandler) List(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var filter landapp.PlotListFilter
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

	plots, total, err := h.service.List(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, plots, total, filter.Page, filter.PageSize)
}

// Reserve places a booking hold on an available plot
func (h *PlotHandler) Reserve(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	plotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	plot, err := h.service.Reserve(c.Request.Context(), branchID, plotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plot)
}

// Block takes a plot off the market
func (h *PlotHandler) Block(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	plotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	var req landapp.BlockPlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	plot, err := h.service.Block(c.Request.Context(), branchID, plotID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plot)
}

// Unblock returns a blocked plot to the market
func (h *PlotHandler) Unblock(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	plotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	plot, err := h.service.Unblock(c.Request.Context(), branchID, plotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plot)
}

// Delete removes a plot and releases its reserved area. Sold plots cannot
// be deleted.
func (h *PlotHandler) Delete(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	plotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid plot ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), branchID, plotID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
