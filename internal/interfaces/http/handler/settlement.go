package handler

import (
	financeapp "github.com/estate/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettlementHandler handles cancellation settlement and refund API endpoints
type SettlementHandler struct {
	BaseHandler
	service *financeapp.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(service *financeapp.SettlementService) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// Open starts a cancellation settlement for a sale. The sale moves to
// Cancelled and its plot returns to the market.
func (h *SettlementHandler) Open(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var req financeapp.OpenCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cancellation, err := h.service.Open(c.Request.Context(), branchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, cancellation)
}

// Get returns one settlement by ID
func (h *SettlementHandler) Get(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	cancellationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cancellation ID")
		return
	}

	cancellation, err := h.service.GetByID(c.Request.Context(), branchID, cancellationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cancellation)
}

// GetBySale returns the settlement opened for a sale, if any
func (h *SettlementHandler) GetBySale(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	saleID, err := uuid.Parse(c.Param("saleId"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	cancellation, err := h.service.GetBySale(c.Request.Context(), branchID, saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cancellation)
}

// List returns settlements filtered by status
func (h *SettlementHandler) List(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var filter financeapp.CancellationListFilter
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

	cancellations, err := h.service.List(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cancellations)
}

// Approve confirms a pending settlement
func (h *SettlementHandler) Approve(c *gin.Context) {
	branchID, actorID, role, cancellationID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req financeapp.DecideCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cancellation, err := h.service.Approve(c.Request.Context(), branchID, cancellationID, actorID, role, req.Remarks)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cancellation)
}

// Reject refuses a pending settlement. The sale returns to Active and the
// plot is sold again.
func (h *SettlementHandler) Reject(c *gin.Context) {
	branchID, actorID, role, cancellationID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req financeapp.DecideCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cancellation, err := h.service.Reject(c.Request.Context(), branchID, cancellationID, actorID, role, req.Remarks)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cancellation)
}

// GenerateRefundSchedule splits the refundable amount into equal payouts
func (h *SettlementHandler) GenerateRefundSchedule(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	cancellationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cancellation ID")
		return
	}

	var req financeapp.RefundScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	refunds, err := h.service.GenerateRefundSchedule(c.Request.Context(), branchID, cancellationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, refunds)
}

// ListRefunds returns the refund payout lines of a settlement
func (h *SettlementHandler) ListRefunds(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	cancellationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cancellation ID")
		return
	}

	refunds, err := h.service.ListRefunds(c.Request.Context(), branchID, cancellationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, refunds)
}

// SubmitRefund moves a draft refund into the approval chain
func (h *SettlementHandler) SubmitRefund(c *gin.Context) {
	branchID, actorID, role, refundID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	refund, err := h.service.SubmitRefund(c.Request.Context(), branchID, refundID, actorID, role)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, refund)
}

// ApproveRefund advances a pending refund one approval level
func (h *SettlementHandler) ApproveRefund(c *gin.Context) {
	branchID, actorID, role, refundID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req financeapp.ApprovalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	refund, err := h.service.ApproveRefund(c.Request.Context(), branchID, refundID, actorID, role, req.Remarks)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, refund)
}

// RejectRefund sends a pending refund back to its maker
func (h *SettlementHandler) RejectRefund(c *gin.Context) {
	branchID, actorID, role, refundID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req financeapp.ApprovalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	refund, err := h.service.RejectRefund(c.Request.Context(), branchID, refundID, actorID, role, req.Remarks)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, refund)
}

// MarkRefundPaid records the payout of an approved refund line, posts the
// reversal to the ledger and rolls the settlement status forward
func (h *SettlementHandler) MarkRefundPaid(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid refund ID")
		return
	}

	var req financeapp.MarkRefundPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	refund, err := h.service.MarkRefundPaid(c.Request.Context(), branchID, refundID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, refund)
}
