package entity

import "time"

// TimePoint точка временного ряда: момент инспекции и число дефектов
type TimePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Defects   int       `json:"defects"`
}

// HistorySummary агрегированные метрики качества по истории
type HistorySummary struct {
	Count          int            `json:"count"`
	PassCount      int            `json:"passCount"`
	RejectCount    int            `json:"rejectCount"`
	PassRate       float64        `json:"passRate"`
	AvgDefects     float64        `json:"avgDefects"`
	AvgConfidence  float64        `json:"avgConfidence"`
	DefectsByLabel map[string]int `json:"defectsByLabel"`
	TimeSeries     []TimePoint    `json:"timeSeries"`
}

// Summarize считает метрики полным проходом по результатам.
// Для пустой истории PassRate равен 1.0.
// AvgConfidence усредняется по всем дефектам истории, 0 если дефектов нет.
func Summarize(results []InspectionResult) HistorySummary {
	s := HistorySummary{
		PassRate:       1.0,
		DefectsByLabel: make(map[string]int),
		TimeSeries:     make([]TimePoint, 0, len(results)),
	}

	var (
		totalDefects  int
		confidenceSum float64
	)
	for _, r := range results {
		s.Count++
		if r.Verdict == VerdictPass {
			s.PassCount++
		} else {
			s.RejectCount++
		}

		for _, d := range r.Defects {
			totalDefects++
			confidenceSum += d.Confidence
			s.DefectsByLabel[d.Label]++
		}

		s.TimeSeries = append(s.TimeSeries, TimePoint{Timestamp: r.Timestamp, Defects: len(r.Defects)})
	}

	if s.Count > 0 {
		s.PassRate = float64(s.PassCount) / float64(s.Count)
		s.AvgDefects = float64(totalDefects) / float64(s.Count)
	}
	if totalDefects > 0 {
		s.AvgConfidence = confidenceSum / float64(totalDefects)
	}

	return s
}
