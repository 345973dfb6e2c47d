package handler

import (
	salesapp "github.com/estate/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceiptHandler handles receipt voucher API endpoints
type ReceiptHandler struct {
	BaseHandler
	service *salesapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(service *salesapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{service: service}
}

// Create drafts a new receipt voucher against a sale stage
func (h *ReceiptHandler) Create(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var req salesapp.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.service.Create(c.Request.Context(), branchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, receipt)
}

// Get returns one receipt by ID
func (h *ReceiptHandler) Get(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.service.GetByID(c.Request.Context(), branchID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List returns a paginated list of receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var filter salesapp.ReceiptListFilter
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

	receipts, total, err := h.service.List(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, receipts, total, filter.Page, filter.PageSize)
}

// Update edits a draft or rejected receipt
func (h *ReceiptHandler) Update(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req salesapp.UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.service.Update(c.Request.Context(), branchID, receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Submit moves a draft receipt into the approval chain
func (h *ReceiptHandler) Submit(c *gin.Context) {
	branchID, actorID, role, receiptID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	receipt, err := h.service.Submit(c.Request.Context(), branchID, receiptID, actorID, role)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Approve advances a pending receipt one approval level. The second
// approval applies the payment to the sale and posts the ledger entries.
func (h *ReceiptHandler) Approve(c *gin.Context) {
	branchID, actorID, role, receiptID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req salesapp.ApprovalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.service.Approve(c.Request.Context(), branchID, receiptID, actorID, role, req.Remarks)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Reject sends a pending receipt back to its maker
func (h *ReceiptHandler) Reject(c *gin.Context) {
	branchID, actorID, role, receiptID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req salesapp.ApprovalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.service.Reject(c.Request.Context(), branchID, receiptID, actorID, role, req.Remarks)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}
