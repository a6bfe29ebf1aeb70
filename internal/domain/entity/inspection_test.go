package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewInspectionResult_Empty(t *testing.T) {
	r := NewInspectionResult("id", time.Now(), "part.jpg", ImageMeta{Width: 10, Height: 10}, 0.5, nil)
	require.Equal(t, VerdictPass, r.Verdict)
	require.Equal(t, 0.0, r.AverageConfidence)
	require.NotNil(t, r.Defects)
	require.False(t, r.HasDefects())
}

func TestNewInspectionResult_WithDefects(t *testing.T) {
	defects := []DefectRecord{
		NewDefectRecord(1, "SCRATCH", 0.92, BoundingBox{X1: 10, Y1: 10, X2: 50, Y2: 60}),
		NewDefectRecord(2, "DENT", 0.85, BoundingBox{X1: 100, Y1: 100, X2: 180, Y2: 170}),
	}
	r := NewInspectionResult("id", time.Now(), "part.jpg", ImageMeta{Width: 640, Height: 480}, 0.5, defects)
	require.Equal(t, VerdictReject, r.Verdict)
	require.InDelta(t, 0.885, r.AverageConfidence, 1e-9)
	require.True(t, r.HasDefects())
}

func TestVerdictFor(t *testing.T) {
	require.Equal(t, VerdictPass, VerdictFor(0))
	require.Equal(t, VerdictReject, VerdictFor(1))
	require.Equal(t, VerdictReject, VerdictFor(7))
}

func TestInspectionResultClone(t *testing.T) {
	r := NewInspectionResult("id", time.Now(), "a", ImageMeta{}, 0.5, []DefectRecord{
		NewDefectRecord(1, "DENT", 0.7, BoundingBox{X2: 2, Y2: 2}),
	})
	c := r.Clone()
	c.Defects[0].Label = "CHANGED"
	require.Equal(t, "DENT", r.Defects[0].Label)
}
