package service

import (
	"context"
	"fmt"

	"ledger-service/internal/domain"
	"ledger-service/internal/repository"

	"go.uber.org/zap"
)

// SystemSeeder installs the global account type reference data at
// startup. Seeding is idempotent; rerunning it converges on the same
// rows.
type SystemSeeder struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

func NewSystemSeeder(categoryRepo repository.CategoryRepository, logger *zap.Logger) *SystemSeeder {
	return &SystemSeeder{categoryRepo: categoryRepo, logger: logger}
}

// SeedSystem upserts the default account types
func (s *SystemSeeder) SeedSystem(ctx context.Context) error {
	for _, t := range domain.DefaultAccountTypes {
		if err := s.categoryRepo.UpsertType(ctx, t); err != nil {
			return fmt.Errorf("failed to seed account type %s: %w", t.Name, err)
		}
	}

	s.logger.Info("account type reference data seeded",
		zap.Int("types", len(domain.DefaultAccountTypes)),
	)
	return nil
}
