//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"vision-inspector/internal/domain/entity"
	"vision-inspector/internal/domain/port"
)

// ErrGoCVDisabled сборка без тега gocv
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// stubDetector детектор-заглушка (без OpenCV).
type stubDetector struct {
	name string
}

func newYOLODetector(opts Options) (port.DefectDetector, error) {
	return &stubDetector{name: detectorName(opts)}, nil
}

func newContourDetector(opts Options) (port.DefectDetector, error) {
	return &stubDetector{name: detectorName(opts)}, nil
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *stubDetector) Detect(ctx context.Context, img image.Image, threshold float64) ([]entity.RawDetection, error) {
	return nil, ErrGoCVDisabled
}

func (d *stubDetector) Name() string { return d.name }

// Highlighter заглушка подсветки
type Highlighter struct{}

// NewHighlighter создаёт подсветку-заглушку
func NewHighlighter() *Highlighter { return &Highlighter{} }

// Highlight возвращает ошибку, если сборка без тега gocv.
func (h *Highlighter) Highlight(img image.Image, defects []entity.DefectRecord) ([]byte, error) {
	return nil, ErrGoCVDisabled
}

var (
	_ port.DefectDetector    = (*stubDetector)(nil)
	_ port.DefectHighlighter = (*Highlighter)(nil)
)
