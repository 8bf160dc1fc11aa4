package usecase

import (
	"context"
	"fmt"

	"ledger-service/internal/domain"
	"ledger-service/internal/repository"
	"ledger-service/pkg/xerrors"
)

type OrganizationUsecase struct {
	orgRepo repository.OrganizationRepository
}

func NewOrganizationUsecase(orgRepo repository.OrganizationRepository) *OrganizationUsecase {
	return &OrganizationUsecase{orgRepo: orgRepo}
}

func (uc *OrganizationUsecase) Create(ctx context.Context, in *domain.OrganizationCreate) (*domain.Organization, error) {
	if !in.IsValid() {
		return nil, &xerrors.ValidationError{Field: "name", Msg: "name is required"}
	}

	org := &domain.Organization{Name: in.Name}
	if err := uc.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, nil
}

func (uc *OrganizationUsecase) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	return uc.orgRepo.GetByID(ctx, id)
}

func (uc *OrganizationUsecase) List(ctx context.Context) ([]*domain.Organization, error) {
	return uc.orgRepo.List(ctx)
}
