package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vision-inspector/internal/domain/entity"
)

func result(id string, defects ...entity.DefectRecord) entity.InspectionResult {
	return entity.NewInspectionResult(id, time.Now(), id+".jpg", entity.ImageMeta{Width: 64, Height: 64}, 0.5, defects)
}

func TestMemoryHistoryRepository_AppendAllOrder(t *testing.T) {
	repo := NewMemoryHistoryRepository()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Append(ctx, result(id)))
	}

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "a", all[0].ID)
	require.Equal(t, "b", all[1].ID)
	require.Equal(t, "c", all[2].ID)
}

func TestMemoryHistoryRepository_SnapshotIsolation(t *testing.T) {
	repo := NewMemoryHistoryRepository()
	ctx := context.Background()

	r := result("a", entity.NewDefectRecord(1, "DENT", 0.8, entity.BoundingBox{X2: 4, Y2: 4}))
	require.NoError(t, repo.Append(ctx, r))

	// изменения исходного значения и снимка не попадают в хранилище
	r.Defects[0].Label = "MUTATED"
	all, err := repo.All(ctx)
	require.NoError(t, err)
	all[0].Defects[0].Confidence = 0

	stored, ok, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "DENT", stored.Defects[0].Label)
	require.Equal(t, 0.8, stored.Defects[0].Confidence)
}

func TestMemoryHistoryRepository_GetMissing(t *testing.T) {
	repo := NewMemoryHistoryRepository()
	_, ok, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryHistoryRepository_ClearIdempotent(t *testing.T) {
	repo := NewMemoryHistoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, result("a")))

	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))
	require.Equal(t, 0, repo.Len())

	summary, err := repo.Aggregate(ctx)
	require.NoError(t, err)
	require.Equal(t, 1.0, summary.PassRate)
}

func TestMemoryHistoryRepository_AggregatePassRate(t *testing.T) {
	repo := NewMemoryHistoryRepository()
	ctx := context.Background()

	summary, err := repo.Aggregate(ctx)
	require.NoError(t, err)
	require.Equal(t, 1.0, summary.PassRate)

	require.NoError(t, repo.Append(ctx, result("pass")))
	require.NoError(t, repo.Append(ctx, result("reject", entity.NewDefectRecord(1, "DENT", 0.9, entity.BoundingBox{X2: 1, Y2: 1}))))

	summary, err = repo.Aggregate(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Count)
	require.Equal(t, 0.5, summary.PassRate)
}

func TestMemoryHistoryRepository_ConcurrentAppendAndAggregate(t *testing.T) {
	repo := NewMemoryHistoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = repo.Append(ctx, result(fmt.Sprintf("r%d", i)))
		}(i)
		go func() {
			defer wg.Done()
			s, _ := repo.Aggregate(ctx)
			assert.Equal(t, s.Count, len(s.TimeSeries))
		}()
	}
	wg.Wait()

	require.Equal(t, 50, repo.Len())
}
