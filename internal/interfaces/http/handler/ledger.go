package handler

import (
	ledgerapp "github.com/estate/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles general ledger read API endpoints. The ledger is
// append-only; there are no write endpoints.
type LedgerHandler struct {
	BaseHandler
	service *ledgerapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(service *ledgerapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// List returns ledger entries filtered by account, type and date range
func (h *LedgerHandler) List(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var filter ledgerapp.EntryListFilter
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

	entries, total, err := h.service.List(c.Request.Context(), branchID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// ByReference returns the entries posted for one source document
func (h *LedgerHandler) ByReference(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	referenceID, err := uuid.Parse(c.Param("referenceId"))
	if err != nil {
		h.BadRequest(c, "Invalid reference ID")
		return
	}

	entries, err := h.service.FindByReference(c.Request.Context(), branchID, referenceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// TrialBalance aggregates debits and credits per account over a date range
func (h *LedgerHandler) TrialBalance(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid branch")
		return
	}

	var query ledgerapp.TrialBalanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	balance, err := h.service.TrialBalance(c.Request.Context(), branchID, query)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balance)
}
