package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-inspector/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesWithDefaults(t *testing.T) {
	repo := NewMemoryUserRepository(0.4)
	user, err := repo.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, 0.4, user.Threshold)
}

func TestMemoryUserRepository_SaveAndUpdateState(t *testing.T) {
	repo := NewMemoryUserRepository(0.5)
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.NoError(t, user.SetThreshold(0.7))
	require.NoError(t, repo.Save(ctx, user))

	require.NoError(t, repo.UpdateState(ctx, 1, entity.StateAwaitingPhoto))

	got, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 0.7, got.Threshold)
	require.Equal(t, entity.StateAwaitingPhoto, got.State)
}
