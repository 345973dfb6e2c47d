package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/ledger"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// LedgerService answers read queries over the double-entry ledger. Writes
// happen inside the sale, receipt, expense and refund flows; this service
// never appends entries itself.
type LedgerService struct {
	entryRepo ledger.EntryRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(entryRepo ledger.EntryRepository) *LedgerService {
	return &LedgerService{entryRepo: entryRepo}
}

// List retrieves ledger entries with filtering and pagination
func (s *LedgerService) List(ctx context.Context, branchID uuid.UUID, filter EntryListFilter) ([]EntryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	domainFilter := ledger.EntryFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}
	if filter.AccountName != "" {
		domainFilter.AccountName = &filter.AccountName
	}
	if filter.AccountType != "" {
		accountType := ledger.AccountType(filter.AccountType)
		if !accountType.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown account type %q", filter.AccountType))
		}
		domainFilter.AccountType = &accountType
	}
	if filter.TransactionType != "" {
		txType := ledger.TransactionType(filter.TransactionType)
		if !txType.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown transaction type %q", filter.TransactionType))
		}
		domainFilter.TransactionType = &txType
	}
	if filter.ReferenceID != "" {
		referenceID, err := uuid.Parse(filter.ReferenceID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid reference ID")
		}
		domainFilter.ReferenceID = &referenceID
	}
	if filter.FromDate != "" {
		from, err := time.Parse(dateLayout, filter.FromDate)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid from date, expected YYYY-MM-DD")
		}
		domainFilter.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := time.Parse(dateLayout, filter.ToDate)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid to date, expected YYYY-MM-DD")
		}
		domainFilter.ToDate = &to
	}

	entries, err := s.entryRepo.FindAllForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entryRepo.CountForBranch(ctx, branchID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses, total, nil
}

// FindByReference retrieves the entries posted for one source document
func (s *LedgerService) FindByReference(ctx context.Context, branchID, referenceID uuid.UUID) ([]EntryResponse, error) {
	entries, err := s.entryRepo.FindByReference(ctx, branchID, referenceID)
	if err != nil {
		return nil, err
	}
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses, nil
}

// TrialBalance aggregates every account over a date range. The grand debit
// and credit totals must agree for a healthy ledger.
func (s *LedgerService) TrialBalance(ctx context.Context, branchID uuid.UUID, query TrialBalanceQuery) (*TrialBalanceResponse, error) {
	from, err := time.Parse(dateLayout, query.FromDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid from date, expected YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, query.ToDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid to date, expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_INPUT", "To date must not precede from date")
	}

	balances, err := s.entryRepo.AccountBalances(ctx, branchID, from, to)
	if err != nil {
		return nil, err
	}

	accounts := make([]AccountBalanceResponse, len(balances))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, b := range balances {
		accounts[i] = AccountBalanceResponse{
			AccountName: b.AccountName,
			AccountType: string(b.AccountType),
			TotalDebit:  b.TotalDebit,
			TotalCredit: b.TotalCredit,
			Balance:     b.Balance,
		}
		totalDebit = totalDebit.Add(b.TotalDebit)
		totalCredit = totalCredit.Add(b.TotalCredit)
	}

	return &TrialBalanceResponse{
		From:        from,
		To:          to,
		Accounts:    accounts,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Balanced:    totalDebit.Equal(totalCredit),
	}, nil
}
