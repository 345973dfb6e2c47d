package handler

import (
	landapp "github.com/estate/backend/internal/application/land"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParcelHandler handles land parcel API endpoints
type ParcelHandler struct {
	BaseHandler
	service *landapp.ParcelService
}

// NewParcelHandler creates a new ParcelHandler
func NewParcelHandler(service *landapp.ParcelService) *ParcelHandler {
	return &ParcelHandler{service: service}
}

// Create registers a new land parcel
func (h *ParcelHandler) Create(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var req landapp.CreateParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	parcel, err := h.service.Create(c.Request.Context(), branchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, parcel)
}

// Get returns one parcel by ID
func (h *ParcelHandler) Get(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	parcelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid parcel ID")
		return
	}

	parcel, err := h.service.GetByID(c.Request.Context(), branchID, parcelID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, parcel)
}

// List returns a paginated list of parcels
func (h *ParcelHandler) List(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var filter landapp.ParcelListFilter
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

	parcels, total, err := h.service.List(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, parcels, total, filter.Page, filter.PageSize)
}

// Update changes parcel details
func (h *ParcelHandler) Update(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	parcelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid parcel ID")
		return
	}

	var req landapp.UpdateParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	parcel, err := h.service.Update(c.Request.Context(), branchID, parcelID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, parcel)
}

// Deactivate soft-deactivates a parcel. Parcels are never deleted.
func (h *ParcelHandler) Deactivate(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	parcelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid parcel ID")
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), branchID, parcelID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
