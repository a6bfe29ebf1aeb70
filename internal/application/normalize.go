package app

import (
	"math"
	"strings"

	"vision-inspector/internal/domain/entity"
)

// NormalizeDetections превращает ответ детектора в список дефектов.
// ID назначаются 1..n в порядке ответа, метка приводится к верхнему регистру.
func NormalizeDetections(raw []entity.RawDetection) ([]entity.DefectRecord, error) {
	defects := make([]entity.DefectRecord, 0, len(raw))
	for i, det := range raw {
		if !det.Box.Valid() {
			return nil, &entity.MalformedDetectionError{Index: i, Box: det.Box, Reason: "inverted or non-finite box"}
		}
		if math.IsNaN(det.Confidence) || det.Confidence < 0 || det.Confidence > 1 {
			return nil, &entity.MalformedDetectionError{Index: i, Box: det.Box, Reason: "confidence outside [0,1]"}
		}

		defects = append(defects, entity.NewDefectRecord(i+1, canonicalLabel(det.Label), det.Confidence, det.Box))
	}
	return defects, nil
}

func canonicalLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}
