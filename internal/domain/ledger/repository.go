package ledger

import (
	"context"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntryFilter captures the query options for listing ledger entries
type EntryFilter struct {
	shared.Filter
	AccountName     *string
	AccountType     *AccountType
	TransactionType *TransactionType
	ReferenceID     *uuid.UUID
	FromDate        *time.Time
	ToDate          *time.Time
}

// EntryRepository defines the persistence interface for ledger entries.
// The store is append-only: there are no update or delete operations.
type EntryRepository interface {
	// Append validates balance and writes the entries in one batch.
	Append(ctx context.Context, entries []Entry) error
	FindByReference(ctx context.Context, branchID, referenceID uuid.UUID) ([]Entry, error)
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter EntryFilter) ([]Entry, error)
	// AccountBalances aggregates debits and credits per account over a range.
	AccountBalances(ctx context.Context, branchID uuid.UUID, from, to time.Time) ([]AccountBalance, error)
	CountForBranch(ctx context.Context, branchID uuid.UUID, filter EntryFilter) (int64, error)
}
