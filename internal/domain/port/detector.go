package port

import (
	"context"
	"image"

	"vision-inspector/internal/domain/entity"
)

// DefectDetector интерфейс детектора дефектов
type DefectDetector interface {
	// Detect возвращает области с уверенностью не ниже threshold.
	// Порядок ответа задаёт нумерацию дефектов, пустой ответ означает чистую деталь.
	Detect(ctx context.Context, img image.Image, threshold float64) ([]entity.RawDetection, error)

	// Name имя бэкенда, например "yolo-nano"
	Name() string
}

// DefectHighlighter рисует найденные дефекты поверх изображения
type DefectHighlighter interface {
	// Highlight возвращает JPEG с рамками вокруг дефектов
	Highlight(img image.Image, defects []entity.DefectRecord) ([]byte, error)
}
