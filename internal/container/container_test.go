package container

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"vision-inspector/config"
	"vision-inspector/internal/infrastructure/imaging"
	"vision-inspector/internal/infrastructure/storage"
)

func TestNew_WiresServices(t *testing.T) {
	c := New(Deps{
		UserRepo:    storage.NewMemoryUserRepository(0.5),
		HistoryRepo: storage.NewMemoryHistoryRepository(),
		Decoder:     imaging.NewDecoder(),
	})
	require.NotNil(t, c.UserService)
	require.NotNil(t, c.InspectionService)
	require.NotNil(t, c.HistoryService)
	require.NoError(t, c.Close())
}

func TestBuild_ContourBackend(t *testing.T) {
	cfg := config.Default()
	cfg.DetectorBackend = "contour"

	c, err := Build(context.Background(), cfg, log.New(io.Discard))
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, "contour", c.InspectionService.DetectorName())
}

func TestBuild_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.DetectorBackend = "ssd"

	_, err := Build(context.Background(), cfg, log.New(io.Discard))
	require.Error(t, err)
}
