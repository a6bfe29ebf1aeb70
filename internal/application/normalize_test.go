package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-inspector/internal/domain/entity"
)

func TestNormalizeDetections_ScratchAndDent(t *testing.T) {
	defects, err := NormalizeDetections([]entity.RawDetection{
		{Label: "scratch", Confidence: 0.92, Box: entity.BoundingBox{X1: 10, Y1: 10, X2: 50, Y2: 60}},
		{Label: "dent", Confidence: 0.85, Box: entity.BoundingBox{X1: 100, Y1: 100, X2: 180, Y2: 170}},
	})
	require.NoError(t, err)
	require.Len(t, defects, 2)

	first := defects[0]
	require.Equal(t, 1, first.ID)
	require.Equal(t, "SCRATCH", first.Label)
	require.Equal(t, 0.92, first.Confidence)
	require.Equal(t, 40.0, first.Width)
	require.Equal(t, 50.0, first.Height)
	require.Equal(t, 2000.0, first.Area)
	require.Equal(t, 0.8, first.AspectRatio)

	second := defects[1]
	require.Equal(t, 2, second.ID)
	require.Equal(t, "DENT", second.Label)
	require.Equal(t, 80.0, second.Width)
	require.Equal(t, 70.0, second.Height)
	require.Equal(t, 5600.0, second.Area)
	require.InDelta(t, 1.143, second.AspectRatio, 0.001)
}

func TestNormalizeDetections_DenseIDs(t *testing.T) {
	raw := make([]entity.RawDetection, 25)
	for i := range raw {
		raw[i] = entity.RawDetection{
			Label:      fmt.Sprintf(" crack-%d ", i),
			Confidence: 0.6,
			Box:        entity.BoundingBox{X1: float64(i), Y1: 0, X2: float64(i + 3), Y2: 5},
		}
	}

	defects, err := NormalizeDetections(raw)
	require.NoError(t, err)
	for i, d := range defects {
		require.Equal(t, i+1, d.ID)
		require.Equal(t, fmt.Sprintf("CRACK-%d", i), d.Label)
	}
}

func TestNormalizeDetections_Empty(t *testing.T) {
	defects, err := NormalizeDetections(nil)
	require.NoError(t, err)
	require.NotNil(t, defects)
	require.Empty(t, defects)
}

func TestNormalizeDetections_Malformed(t *testing.T) {
	tests := []struct {
		name string
		det  entity.RawDetection
	}{
		{"x2 < x1", entity.RawDetection{Label: "a", Confidence: 0.5, Box: entity.BoundingBox{X1: 10, X2: 5, Y2: 5}}},
		{"y2 < y1", entity.RawDetection{Label: "a", Confidence: 0.5, Box: entity.BoundingBox{Y1: 10, X2: 5, Y2: 5}}},
		{"confidence > 1", entity.RawDetection{Label: "a", Confidence: 1.5, Box: entity.BoundingBox{X2: 5, Y2: 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []entity.RawDetection{
				{Label: "ok", Confidence: 0.9, Box: entity.BoundingBox{X2: 1, Y2: 1}},
				tt.det,
			}
			_, err := NormalizeDetections(raw)
			var malformed *entity.MalformedDetectionError
			require.ErrorAs(t, err, &malformed)
			require.Equal(t, 1, malformed.Index)
		})
	}
}
