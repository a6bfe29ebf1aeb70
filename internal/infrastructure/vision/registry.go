package vision

import (
	"fmt"
	"path/filepath"
	"strings"

	"vision-inspector/internal/domain/port"
)

// Backend тип детектора
type Backend string

const (
	BackendYOLO    Backend = "yolo"    // предобученная модель YOLO в формате ONNX
	BackendContour Backend = "contour" // поиск контуров без нейросети
)

// ModelSize размер модели YOLO
type ModelSize string

const (
	ModelNano   ModelSize = "nano"
	ModelSmall  ModelSize = "small"
	ModelMedium ModelSize = "medium"
)

var modelFiles = map[ModelSize]string{
	ModelNano:   "yolov8n.onnx",
	ModelSmall:  "yolov8s.onnx",
	ModelMedium: "yolov8m.onnx",
}

// ParseBackend разбирает имя бэкенда
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendYOLO, BackendContour:
		return b, nil
	default:
		return "", fmt.Errorf("unknown detector backend %q", s)
	}
}

// ParseModelSize разбирает размер модели
func ParseModelSize(s string) (ModelSize, error) {
	size := ModelSize(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := modelFiles[size]; !ok {
		return "", fmt.Errorf("unknown model size %q, expected nano, small or medium", s)
	}
	return size, nil
}

// ModelPath путь к файлу модели нужного размера
func ModelPath(dir string, size ModelSize) string {
	return filepath.Join(dir, modelFiles[size])
}

// Options параметры создания детектора
type Options struct {
	Backend      Backend
	ModelSize    ModelSize
	ModelDir     string
	Labels       []string // имена классов модели по индексу
	NMSThreshold float64
	InputSize    int // сторона входа сети, 640 по умолчанию
}

// NewDetector создаёт детектор выбранного бэкенда. Модель загружается один раз.
func NewDetector(opts Options) (port.DefectDetector, error) {
	if opts.InputSize <= 0 {
		opts.InputSize = 640
	}

	switch opts.Backend {
	case BackendYOLO:
		if len(opts.Labels) == 0 {
			return nil, fmt.Errorf("yolo backend requires class labels")
		}
		return newYOLODetector(opts)
	case BackendContour:
		return newContourDetector(opts)
	default:
		return nil, fmt.Errorf("unknown detector backend %q", opts.Backend)
	}
}

func detectorName(opts Options) string {
	if opts.Backend == BackendYOLO {
		return string(opts.Backend) + "-" + string(opts.ModelSize)
	}
	return string(opts.Backend)
}
