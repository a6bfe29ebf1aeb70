package entity

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	require.Equal(t, 0, s.Count)
	require.Equal(t, 1.0, s.PassRate)
	require.Equal(t, 0.0, s.AvgDefects)
	require.Equal(t, 0.0, s.AvgConfidence)
	require.Empty(t, s.TimeSeries)
}

func TestSummarize_PassAndReject(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	pass := NewInspectionResult("a", t0, "ok.jpg", ImageMeta{Width: 1, Height: 1}, 0.5, nil)
	reject := NewInspectionResult("b", t1, "bad.jpg", ImageMeta{Width: 1, Height: 1}, 0.5, []DefectRecord{
		NewDefectRecord(1, "SCRATCH", 0.9, BoundingBox{X2: 1, Y2: 1}),
		NewDefectRecord(2, "DENT", 0.7, BoundingBox{X2: 1, Y2: 1}),
	})

	s := Summarize([]InspectionResult{pass, reject})

	want := HistorySummary{
		Count:          2,
		PassCount:      1,
		RejectCount:    1,
		PassRate:       0.5,
		AvgDefects:     1.0,
		AvgConfidence:  0.8,
		DefectsByLabel: map[string]int{"SCRATCH": 1, "DENT": 1},
		TimeSeries: []TimePoint{
			{Timestamp: t0, Defects: 0},
			{Timestamp: t1, Defects: 2},
		},
	}
	if diff := cmp.Diff(want, s, cmp.Comparer(func(a, b float64) bool {
		d := a - b
		return d < 1e-9 && d > -1e-9
	})); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}
