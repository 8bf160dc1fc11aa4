package usecase

import (
	"context"

	"ledger-service/internal/domain"
	"ledger-service/internal/repository"
)

// LedgerUsecase serves the read-only general ledger projection with
// per-row running balances.
type LedgerUsecase struct {
	ledgerRepo  repository.LedgerRepository
	accountRepo repository.AccountRepository
}

func NewLedgerUsecase(ledgerRepo repository.LedgerRepository, accountRepo repository.AccountRepository) *LedgerUsecase {
	return &LedgerUsecase{ledgerRepo: ledgerRepo, accountRepo: accountRepo}
}

// Get returns one page of an account's ledger in chronological order.
// The page is fetched newest-first for pagination, the running balance
// is seeded from the cumulative balance of every older line excluded by
// the page or startDate window, accumulated oldest-to-newest, and the
// page is then reversed into chronological order.
func (uc *LedgerUsecase) Get(ctx context.Context, f *domain.LedgerFilter) (*domain.Ledger, error) {
	account, err := uc.accountRepo.GetByID(ctx, f.OrganizationID, f.AccountID)
	if err != nil {
		return nil, err
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		f.Limit = 500
	}

	txns, total, err := uc.ledgerRepo.ListAccountLines(ctx, f)
	if err != nil {
		return nil, err
	}

	ledger := &domain.Ledger{Account: account, Total: total}
	if len(txns) == 0 {
		ledger.Transactions = []*domain.LedgerTransaction{}
		return ledger, nil
	}

	// Seed from the true historical balance just before the oldest
	// returned row, so the first row's balance is not zero-based when
	// resuming mid-history.
	oldest := txns[len(txns)-1]
	priorDebits, priorCredits, err := uc.ledgerRepo.SumPriorLines(ctx, f.AccountID, oldest)
	if err != nil {
		return nil, err
	}
	running := domain.LineDelta(account.NormalBalance, priorDebits, priorCredits)

	// txns is newest-first; accumulate oldest-to-newest.
	for i := len(txns) - 1; i >= 0; i-- {
		running = running.Add(domain.LineDelta(account.NormalBalance, txns[i].DebitAmount, txns[i].CreditAmount))
		txns[i].Balance = running
	}

	// Reverse into chronological order.
	chronological := make([]*domain.LedgerTransaction, 0, len(txns))
	for i := len(txns) - 1; i >= 0; i-- {
		chronological = append(chronological, txns[i])
	}
	ledger.Transactions = chronological

	return ledger, nil
}
