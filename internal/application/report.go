package app

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vision-inspector/internal/domain/entity"
)

// CSVHeader порядок колонок выгрузки истории
var CSVHeader = []string{"timestamp", "defects", "confidence", "verdict", "sourceName"}

// ExportResult формирует текстовый отчёт по одной инспекции.
// Дефекты перечисляются в порядке result.Defects.
func ExportResult(result entity.InspectionResult) string {
	var b strings.Builder

	b.WriteString("AlfaStack Vision AI - Inspection Report\n")
	fmt.Fprintf(&b, "ID: %s\n", result.ID)
	fmt.Fprintf(&b, "Timestamp: %s\n", result.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Source: %s\n", result.SourceName)
	fmt.Fprintf(&b, "Image: %dx%d %s %s, %d bytes\n",
		result.Image.Width, result.Image.Height, result.Image.ColorMode, result.Image.Format, result.Image.ByteSize)
	if result.Detector != "" {
		fmt.Fprintf(&b, "Detector: %s\n", result.Detector)
	}
	fmt.Fprintf(&b, "Threshold: %.2f\n", result.ConfidenceThreshold)
	fmt.Fprintf(&b, "Verdict: %s\n", result.Verdict)
	fmt.Fprintf(&b, "Defects: %d\n", len(result.Defects))

	if len(result.Defects) == 0 {
		return b.String()
	}

	fmt.Fprintf(&b, "Average confidence: %.1f%%\n", result.AverageConfidence*100)
	for _, d := range result.Defects {
		fmt.Fprintf(&b, "%d. %s - %.1f%% confidence\n", d.ID, d.Label, d.Confidence*100)
	}
	return b.String()
}

// ExportHistoryCSV выгружает историю в CSV: заголовок и по строке на инспекцию.
func ExportHistoryCSV(results []entity.InspectionResult) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Timestamp.UTC().Format(time.RFC3339Nano),
			strconv.Itoa(len(r.Defects)),
			strconv.FormatFloat(r.AverageConfidence, 'f', 4, 64),
			string(r.Verdict),
			r.SourceName,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row %s: %w", r.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}
