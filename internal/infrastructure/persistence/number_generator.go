package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentNumberGenerator issues per-branch document numbers of the form
// TYPE-YYYY-MM-NNNNN. One counter row exists per (branch, type, month); the
// increment runs as a single upsert so concurrent issuers never collide and
// the sequence has no gaps.
type DocumentNumberGenerator struct {
	db *gorm.DB
}

// NewDocumentNumberGenerator creates a new DocumentNumberGenerator
func NewDocumentNumberGenerator(db *gorm.DB) *DocumentNumberGenerator {
	return &DocumentNumberGenerator{db: db}
}

// Next returns the next document number for the branch, type and month of at
func (g *DocumentNumberGenerator) Next(ctx context.Context, branchID uuid.UUID, docType string, at time.Time) (string, error) {
	period := at.Format("2006-01")

	var next int64
	err := dbFromContext(ctx, g.db).WithContext(ctx).Raw(`
		INSERT INTO document_counters (branch_id, doc_type, period, last_value)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (branch_id, doc_type, period)
		DO UPDATE SET last_value = document_counters.last_value + 1
		RETURNING last_value`,
		branchID, docType, period,
	).Scan(&next).Error
	if err != nil {
		return "", fmt.Errorf("failed to advance %s counter: %w", docType, err)
	}

	return fmt.Sprintf("%s-%s-%05d", docType, period, next), nil
}
