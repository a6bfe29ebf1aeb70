package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10, 0.5)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Equal(t, 0.5, u.Threshold)
}

func TestUser_SetThreshold(t *testing.T) {
	u := NewUser(1, 10, 0.5)
	require.NoError(t, u.SetThreshold(0.3))
	require.Equal(t, 0.3, u.Threshold)

	require.Error(t, u.SetThreshold(2))
	require.Equal(t, 0.3, u.Threshold)
}
