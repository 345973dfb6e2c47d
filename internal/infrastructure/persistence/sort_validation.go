package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// SortClause builds an ORDER BY expression from caller-supplied sort
// parameters. The field is validated against the whitelist so the value
// can be interpolated into the query safely.
func SortClause(sortField, orderDir string, allowedFields map[string]bool, defaultField string) string {
	return ValidateSortField(sortField, allowedFields, defaultField) + " " + ValidateSortOrder(orderDir)
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ParcelSortFields contains allowed sort fields for land parcels
var ParcelSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"parcel_number":  true,
	"name":           true,
	"location":       true,
	"total_area":     true,
	"sold_area":      true,
	"remaining_area": true,
	"active":         true,
}

// PlotSortFields contains allowed sort fields for plots
var PlotSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"plot_number":      true,
	"area":             true,
	"status":           true,
	"sale_date":        true,
	"reservation_date": true,
	"facing":           true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"sale_number":  true,
	"sale_date":    true,
	"status":       true,
	"total_price":  true,
	"paid_amount":  true,
	"client_name":  true,
	"completed_at": true,
}

// ReceiptSortFields contains allowed sort fields for receipts
var ReceiptSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"receipt_number": true,
	"receipt_date":   true,
	"amount":         true,
	"payment_method": true,
	"received_from":  true,
	"status":         true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"expense_number": true,
	"incurred_at":    true,
	"category":       true,
	"amount":         true,
	"payment_method": true,
	"status":         true,
}

// CancellationSortFields contains allowed sort fields for cancellations
var CancellationSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"requested_at":      true,
	"status":            true,
	"client_name":       true,
	"total_paid":        true,
	"refundable_amount": true,
	"refunded_amount":   true,
}

// LedgerEntrySortFields contains allowed sort fields for ledger entries
var LedgerEntrySortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"transaction_date": true,
	"account_name":     true,
	"account_type":     true,
	"transaction_type": true,
	"reference_number": true,
	"debit":            true,
	"credit":           true,
}
