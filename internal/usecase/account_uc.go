package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ledger-service/internal/domain"
	"ledger-service/internal/repository"
	"ledger-service/pkg/xerrors"

	"github.com/redis/go-redis/v9"
)

const (
	accountTypesCacheKey = "ledger:account_types"
	accountTypesCacheTTL = 30 * time.Minute
	accountListCacheTTL  = 1 * time.Minute
)

// AccountUsecase implements the account registry: chart-of-accounts CRUD
// with referential checks. Reference-data and listing reads go through a
// cache-aside layer when Redis is available.
type AccountUsecase struct {
	accountRepo  repository.AccountRepository
	balanceRepo  repository.BalanceRepository
	categoryRepo repository.CategoryRepository
	orgRepo      repository.OrganizationRepository
	redisClient  *redis.Client
}

func NewAccountUsecase(
	accountRepo repository.AccountRepository,
	balanceRepo repository.BalanceRepository,
	categoryRepo repository.CategoryRepository,
	orgRepo repository.OrganizationRepository,
	redisClient *redis.Client,
) *AccountUsecase {
	return &AccountUsecase{
		accountRepo:  accountRepo,
		balanceRepo:  balanceRepo,
		categoryRepo: categoryRepo,
		orgRepo:      orgRepo,
		redisClient:  redisClient,
	}
}

// Create validates references, inserts the account and its zero balance
// row in one transaction, and returns the joined projection.
func (uc *AccountUsecase) Create(ctx context.Context, in *domain.AccountCreate) (*domain.Account, error) {
	if !in.IsValid() {
		return nil, &xerrors.ValidationError{Field: "account", Msg: "organization_id, code, name and account_type_id are required"}
	}

	if ok, err := uc.orgRepo.Exists(ctx, in.OrganizationID); err != nil {
		return nil, err
	} else if !ok {
		return nil, xerrors.ErrOrganizationNotFound
	}

	if _, err := uc.categoryRepo.GetType(ctx, in.AccountTypeID); err != nil {
		return nil, err
	}

	if err := uc.validateCategory(ctx, in.OrganizationID, in.CategoryID); err != nil {
		return nil, err
	}
	if err := uc.validateParent(ctx, in.OrganizationID, in.ParentAccountID, 0); err != nil {
		return nil, err
	}

	account := &domain.Account{
		OrganizationID:  in.OrganizationID,
		Code:            in.Code,
		Name:            in.Name,
		AccountTypeID:   in.AccountTypeID,
		CategoryID:      in.CategoryID,
		ParentAccountID: in.ParentAccountID,
		Description:     in.Description,
		IsBankAccount:   in.IsBankAccount,
		BankDetails:     in.BankDetails,
	}

	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.Create(ctx, account, tx); err != nil {
		return nil, err
	}
	// Balance row is created with the account so posting never has to
	// deal with an absent row.
	if err := uc.balanceRepo.CreateZero(ctx, tx, account.OrganizationID, account.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit account creation: %w", err)
	}

	uc.invalidateAccountsCache(ctx, account.OrganizationID)

	return uc.accountRepo.GetByID(ctx, account.OrganizationID, account.ID)
}

// Update performs a partial merge: only supplied fields change, and any
// changed foreign key is re-validated with the same rules as create.
func (uc *AccountUsecase) Update(ctx context.Context, orgID, accountID int64, in *domain.AccountUpdate) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, orgID, accountID)
	if err != nil {
		return nil, err
	}

	if in.AccountTypeID != nil {
		if _, err := uc.categoryRepo.GetType(ctx, *in.AccountTypeID); err != nil {
			return nil, err
		}
		account.AccountTypeID = *in.AccountTypeID
	}
	if in.CategoryID != nil {
		if err := uc.validateCategory(ctx, orgID, in.CategoryID); err != nil {
			return nil, err
		}
		account.CategoryID = in.CategoryID
	}
	if in.ParentAccountID != nil {
		if err := uc.validateParent(ctx, orgID, in.ParentAccountID, accountID); err != nil {
			return nil, err
		}
		account.ParentAccountID = in.ParentAccountID
	}
	if in.Code != nil {
		account.Code = *in.Code
	}
	if in.Name != nil {
		account.Name = *in.Name
	}
	if in.Description != nil {
		account.Description = in.Description
	}
	if in.IsActive != nil {
		account.IsActive = *in.IsActive
	}
	if in.IsBankAccount != nil {
		account.IsBankAccount = *in.IsBankAccount
	}
	if in.BankDetails != nil {
		account.BankDetails = in.BankDetails
	}

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.invalidateAccountsCache(ctx, orgID)

	return uc.accountRepo.GetByID(ctx, orgID, accountID)
}

func (uc *AccountUsecase) GetByID(ctx context.Context, orgID, accountID int64) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, orgID, accountID)
}

// List returns the organization's chart of accounts ordered by
// (account type, category, code), cached briefly.
func (uc *AccountUsecase) List(ctx context.Context, orgID int64) ([]*domain.Account, error) {
	cacheKey := fmt.Sprintf("ledger:accounts:org:%d", orgID)

	if uc.redisClient != nil {
		if val, err := uc.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var accounts []*domain.Account
			if jsonErr := json.Unmarshal([]byte(val), &accounts); jsonErr == nil {
				return accounts, nil
			}
		}
	}

	accounts, err := uc.accountRepo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if uc.redisClient != nil {
		if data, err := json.Marshal(accounts); err == nil {
			_ = uc.redisClient.Set(ctx, cacheKey, data, accountListCacheTTL).Err()
		}
	}

	return accounts, nil
}

// ListTypes returns the global account type reference data, cache-aside
func (uc *AccountUsecase) ListTypes(ctx context.Context) ([]*domain.AccountType, error) {
	if uc.redisClient != nil {
		if val, err := uc.redisClient.Get(ctx, accountTypesCacheKey).Result(); err == nil {
			var types []*domain.AccountType
			if jsonErr := json.Unmarshal([]byte(val), &types); jsonErr == nil {
				return types, nil
			}
		}
	}

	types, err := uc.categoryRepo.ListTypes(ctx)
	if err != nil {
		return nil, err
	}

	if uc.redisClient != nil {
		if data, err := json.Marshal(types); err == nil {
			_ = uc.redisClient.Set(ctx, accountTypesCacheKey, data, accountTypesCacheTTL).Err()
		}
	}

	return types, nil
}

func (uc *AccountUsecase) ListCategories(ctx context.Context, orgID int64) ([]*domain.AccountCategory, error) {
	return uc.categoryRepo.ListCategories(ctx, orgID)
}

func (uc *AccountUsecase) CreateCategory(ctx context.Context, in *domain.CategoryCreate) (*domain.AccountCategory, error) {
	if !in.IsValid() {
		return nil, &xerrors.ValidationError{Field: "category", Msg: "organization_id, account_type_id and name are required"}
	}

	if ok, err := uc.orgRepo.Exists(ctx, in.OrganizationID); err != nil {
		return nil, err
	} else if !ok {
		return nil, xerrors.ErrOrganizationNotFound
	}
	if _, err := uc.categoryRepo.GetType(ctx, in.AccountTypeID); err != nil {
		return nil, err
	}

	category := &domain.AccountCategory{
		OrganizationID: in.OrganizationID,
		AccountTypeID:  in.AccountTypeID,
		Name:           in.Name,
	}
	if err := uc.categoryRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// validateCategory checks a referenced category exists and belongs to
// the same organization.
func (uc *AccountUsecase) validateCategory(ctx context.Context, orgID int64, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	category, err := uc.categoryRepo.GetCategory(ctx, *categoryID)
	if err != nil {
		return err
	}
	if category.OrganizationID != orgID {
		return xerrors.ErrInvalidAccountCategory
	}
	return nil
}

// validateParent checks a referenced parent exists in the same
// organization and is not the account itself.
func (uc *AccountUsecase) validateParent(ctx context.Context, orgID int64, parentID *int64, selfID int64) error {
	if parentID == nil {
		return nil
	}
	if selfID != 0 && *parentID == selfID {
		return xerrors.ErrInvalidParentAccount
	}
	if _, err := uc.accountRepo.GetByID(ctx, orgID, *parentID); err != nil {
		if errors.Is(err, xerrors.ErrAccountNotFound) {
			return xerrors.ErrInvalidParentAccount
		}
		return err
	}
	return nil
}

func (uc *AccountUsecase) invalidateAccountsCache(ctx context.Context, orgID int64) {
	if uc.redisClient == nil {
		return
	}
	_ = uc.redisClient.Del(ctx, fmt.Sprintf("ledger:accounts:org:%d", orgID)).Err()
}
