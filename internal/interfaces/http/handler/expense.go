package handler

import (
	financeapp "github.com/estate/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExpenseHandler handles expense voucher API endpoints
type ExpenseHandler struct {
	BaseHandler
	service *financeapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(service *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// Create drafts a new expense voucher
func (h *ExpenseHandler) Create(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var req financeapp.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.service.Create(c.Request.Context(), branchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, expense)
}

// Get returns one expense by ID
func (h *ExpenseHandler) Get(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	expense, err := h.service.GetByID(c.Request.Context(), branchID, expenseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// List returns a paginated list of expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var filter financeapp.ExpenseListFilter
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

	expenses, total, err := h.service.List(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, expenses, total, filter.Page, filter.PageSize)
}

// Update edits a draft or rejected expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	var req financeapp.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.service.Update(c.Request.Context(), branchID, expenseID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// Submit moves a draft expense into the approval chain
func (h *ExpenseHandler) Submit(c *gin.Context) {
	branchID, actorID, role, expenseID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	expense, err := h.service.Submit(c.Request.Context(), branchID, expenseID, actorID, role)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// Approve advances a pending expense one approval level. The second
// approval posts the expense to the ledger.
func (h *ExpenseHandler) Approve(c *gin.Context) {
	branchID, actorID, role, expenseID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req financeapp.ApprovalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.service.Approve(c.Request.Context(), branchID, expenseID, actorID, role, req.Remarks)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// Reject sends a pending expense back to its maker
func (h *ExpenseHandler) Reject(c *gin.Context) {
	branchID, actorID, role, expenseID, ok := approvalContext(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req financeapp.ApprovalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.service.Reject(c.Request.Context(), branchID, expenseID, actorID, role, req.Remarks)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}
