package service

import (
	"context"
	"testing"

	"ledger-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedSystemIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeder := NewSystemSeeder(store.Categories(), zap.NewNop())

	require.NoError(t, seeder.SeedSystem(ctx))
	types, err := store.ListTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 5)
	assert.Equal(t, "Asset", types[0].Name)
	assert.Equal(t, "Expense", types[4].Name)

	// Rerunning converges without duplicating rows.
	require.NoError(t, seeder.SeedSystem(ctx))
	types, err = store.ListTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 5)
}
