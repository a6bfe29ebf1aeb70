package telegram

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vision-inspector/internal/domain/entity"
)

func TestParseThreshold(t *testing.T) {
	for in, want := range map[string]float64{"0.4": 0.4, " 0,25 ": 0.25, "40%": 0.4, "1": 1} {
		got, err := parseThreshold(in)
		require.NoError(t, err, in)
		require.InDelta(t, want, got, 1e-9, in)
	}

	_, err := parseThreshold("abc")
	require.Error(t, err)

	_, err = parseThreshold("1.5")
	var invalid *entity.InvalidThresholdError
	require.ErrorAs(t, err, &invalid)
}

func TestDescribeError(t *testing.T) {
	require.Contains(t, describeError(&entity.DecodeError{Reason: "empty image"}), "empty image")
	require.Equal(t, msgAnalysisFailed, describeError(&entity.MalformedDetectionError{}))
	require.Equal(t, msgAnalysisFailed, describeError(errors.New("model crashed")))
}

func TestFormatSummary(t *testing.T) {
	require.Equal(t, msgEmptyHistory, formatSummary(entity.Summarize(nil)))

	ts := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	results := []entity.InspectionResult{
		entity.NewInspectionResult("a", ts, "a.jpg", entity.ImageMeta{}, 0.5, nil),
		entity.NewInspectionResult("b", ts, "b.jpg", entity.ImageMeta{}, 0.5, []entity.DefectRecord{
			entity.NewDefectRecord(1, "DENT", 0.8, entity.BoundingBox{X2: 1, Y2: 1}),
			entity.NewDefectRecord(2, "SCRATCH", 0.6, entity.BoundingBox{X2: 1, Y2: 1}),
			entity.NewDefectRecord(3, "SCRATCH", 0.7, entity.BoundingBox{X2: 1, Y2: 1}),
		}),
	}

	text := formatSummary(entity.Summarize(results))
	require.Contains(t, text, "Проверок: 2\n")
	require.Contains(t, text, "Годных: 1 (50.0%)\n")
	require.Contains(t, text, "• SCRATCH: 2\n• DENT: 1\n")
}

func TestFormatResult(t *testing.T) {
	clean := entity.NewInspectionResult("a", time.Now(), "a.jpg", entity.ImageMeta{}, 0.5, nil)
	require.Contains(t, formatResult(clean), "Дефекты не обнаружены")
	require.Contains(t, formatResult(clean), "Verdict: PASS")
}

func TestStartListsEveryCommand(t *testing.T) {
	for _, cmd := range []string{"/check", "/threshold", "/stats", "/report", "/export", "/clear", "/cancel"} {
		require.Contains(t, msgStart, cmd)
		require.Contains(t, msgHelp, cmd)
	}
	require.Contains(t, msgStart, "/help")
}

func TestTextReply(t *testing.T) {
	require.Equal(t, msgStillAwaiting, textReply(entity.StateAwaitingPhoto))
	require.Equal(t, msgSendPhoto, textReply(entity.StateMainMenu))
	require.Equal(t, msgSendPhoto, textReply(entity.StateProcessing))
}
