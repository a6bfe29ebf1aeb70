package entity

import "time"

// Verdict итог инспекции
type Verdict string

const (
	VerdictPass   Verdict = "PASS"   // дефекты не найдены
	VerdictReject Verdict = "REJECT" // найден хотя бы один дефект
)

// VerdictFor возвращает вердикт по количеству дефектов.
func VerdictFor(defects int) Verdict {
	if defects > 0 {
		return VerdictReject
	}
	return VerdictPass
}

// InspectionResult хранит итог анализа одного изображения.
// После добавления в историю не изменяется.
type InspectionResult struct {
	ID                  string         `json:"id"`
	Timestamp           time.Time      `json:"timestamp"`
	SourceName          string         `json:"sourceName"`
	Image               ImageMeta      `json:"image"`
	Detector            string         `json:"detector"`
	Defects             []DefectRecord `json:"defects"`
	ConfidenceThreshold float64        `json:"confidenceThreshold"`
	AverageConfidence   float64        `json:"averageConfidence"`
	Verdict             Verdict        `json:"verdict"`
}

// NewInspectionResult собирает результат и вычисляет среднюю уверенность и вердикт.
func NewInspectionResult(id string, ts time.Time, source string, meta ImageMeta, threshold float64, defects []DefectRecord) InspectionResult {
	if defects == nil {
		defects = []DefectRecord{}
	}

	return InspectionResult{
		ID:                  id,
		Timestamp:           ts,
		SourceName:          source,
		Image:               meta,
		Defects:             defects,
		ConfidenceThreshold: threshold,
		AverageConfidence:   AverageConfidence(defects),
		Verdict:             VerdictFor(len(defects)),
	}
}

// AverageConfidence среднее значение уверенности, 0 для пустого списка.
func AverageConfidence(defects []DefectRecord) float64 {
	if len(defects) == 0 {
		return 0
	}
	var sum float64
	for _, d := range defects {
		sum += d.Confidence
	}
	return sum / float64(len(defects))
}

// HasDefects флаг наличия дефектов
func (r InspectionResult) HasDefects() bool {
	return len(r.Defects) > 0
}

// Clone возвращает копию, не разделяющую срез дефектов с оригиналом.
func (r InspectionResult) Clone() InspectionResult {
	out := r
	out.Defects = make([]DefectRecord, len(r.Defects))
	copy(out.Defects, r.Defects)
	return out
}
