package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"ledger-service/internal/domain"
	"ledger-service/internal/repository"
	"ledger-service/pkg/xerrors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// EventPublisher emits domain events after a successful posting
type EventPublisher interface {
	PublishPosted(ctx context.Context, entry *domain.JournalEntry) error
}

// JournalUsecase implements the journal engine: it validates balanced
// entries and posts them atomically together with the per-account
// balance increments.
type JournalUsecase struct {
	journalRepo repository.JournalRepository
	accountRepo repository.AccountRepository
	balanceRepo repository.BalanceRepository
	publisher   EventPublisher
	logger      *zap.Logger
}

func NewJournalUsecase(
	journalRepo repository.JournalRepository,
	accountRepo repository.AccountRepository,
	balanceRepo repository.BalanceRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *JournalUsecase {
	return &JournalUsecase{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		balanceRepo: balanceRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Post validates and persists one balanced journal entry. The entry row,
// all line rows, and every affected balance increment commit together or
// not at all.
func (uc *JournalUsecase) Post(ctx context.Context, in *domain.JournalEntryCreate) (*domain.JournalEntry, error) {
	if in.OrganizationID == 0 {
		return nil, &xerrors.ValidationError{Field: "organization_id", Msg: "organization_id is required"}
	}
	if in.EntryDate.IsZero() {
		return nil, &xerrors.ValidationError{Field: "entry_date", Msg: "entry_date is required"}
	}
	if len(in.Lines) < 2 {
		return nil, xerrors.ErrTooFewLines
	}
	for _, l := range in.Lines {
		if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
			return nil, xerrors.ErrNegativeAmount
		}
	}

	totalDebit, totalCredit := in.Totals()
	if totalDebit.Sub(totalCredit).Abs().Cmp(domain.BalanceTolerance) > 0 {
		return nil, &xerrors.UnbalancedEntryError{TotalDebit: totalDebit, TotalCredit: totalCredit}
	}

	reference := in.Reference
	if reference == "" {
		reference = generateReference(in.EntryDate)
	}

	entry := &domain.JournalEntry{
		OrganizationID: in.OrganizationID,
		EntryDate:      in.EntryDate,
		Reference:      reference,
		Description:    in.Description,
		Status:         domain.StatusPosted,
		TotalDebit:     totalDebit,
		TotalCredit:    totalCredit,
	}

	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.journalRepo.CreateEntry(ctx, entry, tx); err != nil {
		return nil, err
	}

	for _, l := range in.Lines {
		account, err := uc.accountRepo.GetForPosting(ctx, tx, in.OrganizationID, l.AccountID)
		if err != nil {
			return nil, err
		}

		line := &domain.JournalEntryLine{
			EntryID:      entry.ID,
			AccountID:    l.AccountID,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			TaxRate:      l.TaxRate,
			TaxAmount:    l.TaxAmount,
			AccountCode:  account.Code,
			AccountName:  account.Name,
		}
		if err := uc.journalRepo.CreateLine(ctx, line, tx); err != nil {
			return nil, err
		}
		entry.Lines = append(entry.Lines, line)

		delta := domain.LineDelta(account.NormalBalance, l.DebitAmount, l.CreditAmount)
		if err := uc.balanceRepo.Increment(ctx, tx, &domain.BalanceUpdate{
			AccountID: l.AccountID,
			Delta:     delta,
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit journal entry: %w", err)
	}

	uc.logger.Info("journal entry posted",
		zap.Int64("entry_id", entry.ID),
		zap.Int64("organization_id", entry.OrganizationID),
		zap.String("reference", entry.Reference),
		zap.String("total_debit", totalDebit.StringFixed(2)),
	)

	if uc.publisher != nil {
		if err := uc.publisher.PublishPosted(ctx, entry); err != nil {
			// Posting already committed; event delivery is best effort.
			uc.logger.Warn("failed to publish posted event", zap.Int64("entry_id", entry.ID), zap.Error(err))
		}
	}

	return entry, nil
}

func (uc *JournalUsecase) GetByID(ctx context.Context, orgID, entryID int64) (*domain.JournalEntry, error) {
	return uc.journalRepo.GetByID(ctx, orgID, entryID)
}

// List returns one page of an organization's entries, newest first
func (uc *JournalUsecase) List(ctx context.Context, f *domain.JournalEntryFilter) ([]*domain.JournalEntry, int, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.journalRepo.List(ctx, f)
}

// generateReference builds a caller-visible entry reference when the
// request omits one.
func generateReference(entryDate time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return fmt.Sprintf("JE-%s", ulid.MustNew(ulid.Timestamp(entryDate), entropy))
}
