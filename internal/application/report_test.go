package app

import (
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vision-inspector/internal/domain/entity"
)

var reportTime = time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)

func sampleResult() entity.InspectionResult {
	defects, _ := NormalizeDetections([]entity.RawDetection{
		{Label: "scratch", Confidence: 0.92, Box: entity.BoundingBox{X1: 10, Y1: 10, X2: 50, Y2: 60}},
		{Label: "dent", Confidence: 0.85, Box: entity.BoundingBox{X1: 100, Y1: 100, X2: 180, Y2: 170}},
	})
	r := entity.NewInspectionResult("r-1", reportTime, "part.jpg",
		entity.ImageMeta{Width: 640, Height: 480, ColorMode: "RGB", ByteSize: 2048, Format: "jpeg"}, 0.5, defects)
	r.Detector = "yolo-nano"
	return r
}

func TestExportResult(t *testing.T) {
	text := ExportResult(sampleResult())

	want := strings.Join([]string{
		"AlfaStack Vision AI - Inspection Report",
		"ID: r-1",
		"Timestamp: 2026-05-04T12:30:00Z",
		"Source: part.jpg",
		"Image: 640x480 RGB jpeg, 2048 bytes",
		"Detector: yolo-nano",
		"Threshold: 0.50",
		"Verdict: REJECT",
		"Defects: 2",
		"Average confidence: 88.5%",
		"1. SCRATCH - 92.0% confidence",
		"2. DENT - 85.0% confidence",
		"",
	}, "\n")
	require.Equal(t, want, text)
	require.Equal(t, text, ExportResult(sampleResult()))
}

func TestExportResult_Clean(t *testing.T) {
	r := entity.NewInspectionResult("r-2", reportTime, "clean.png", entity.ImageMeta{Width: 8, Height: 8}, 0.3, nil)
	text := ExportResult(r)
	require.Contains(t, text, "Verdict: PASS\n")
	require.True(t, strings.HasSuffix(text, "Defects: 0\n"))
}

func TestExportHistoryCSV(t *testing.T) {
	clean := entity.NewInspectionResult("r-0", reportTime.Add(-time.Hour), "line 3, cam A.png", entity.ImageMeta{Width: 8, Height: 8}, 0.5, nil)
	history := []entity.InspectionResult{clean, sampleResult(), clean}

	out, err := ExportHistoryCSV(history)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, len(history)+1)
	require.Equal(t, "timestamp,defects,confidence,verdict,sourceName", lines[0])
	require.Equal(t, "2026-05-04T12:30:00Z,2,0.8850,REJECT,part.jpg", lines[2])

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	for i, r := range history {
		require.Equal(t, strconv.Itoa(len(r.Defects)), records[i+1][1])
		require.Equal(t, r.SourceName, records[i+1][4])
	}
}

func TestExportHistoryCSV_Empty(t *testing.T) {
	out, err := ExportHistoryCSV(nil)
	require.NoError(t, err)
	require.Equal(t, "timestamp,defects,confidence,verdict,sourceName\n", out)
}

func TestExportHistoryCSV_SubSecondTimestamps(t *testing.T) {
	meta := entity.ImageMeta{Width: 8, Height: 8}
	first := entity.NewInspectionResult("a", reportTime.Add(120*time.Millisecond), "a.png", meta, 0.5, nil)
	second := entity.NewInspectionResult("b", reportTime.Add(450*time.Millisecond), "b.png", meta, 0.5, nil)

	out, err := ExportHistoryCSV([]entity.InspectionResult{first, second})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Equal(t, "2026-05-04T12:30:00.12Z", records[1][0])
	require.Equal(t, "2026-05-04T12:30:00.45Z", records[2][0])
}
