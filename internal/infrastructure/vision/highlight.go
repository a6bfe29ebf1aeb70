//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"vision-inspector/internal/domain/entity"
	"vision-inspector/internal/domain/port"
)

// Highlighter рисует рамки и подписи дефектов
type Highlighter struct {
	Color     color.RGBA
	Thickness int
	Quality   int
}

// NewHighlighter создаёт подсветку с зелёными рамками
func NewHighlighter() *Highlighter {
	return &Highlighter{
		Color:     color.RGBA{G: 255, A: 255},
		Thickness: 2,
		Quality:   90,
	}
}

// Highlight рисует прямоугольники вокруг дефектов и возвращает новую картинку.
func (h *Highlighter) Highlight(img image.Image, defects []entity.DefectRecord) ([]byte, error) {
	mat, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	for _, d := range defects {
		rect := image.Rect(int(d.Box.X1), int(d.Box.Y1), int(d.Box.X2), int(d.Box.Y2))
		gocv.Rectangle(&mat, rect, h.Color, h.Thickness)

		caption := fmt.Sprintf("#%d %s %.0f%%", d.ID, d.Label, d.Confidence*100)
		origin := image.Pt(rect.Min.X, maxInt(rect.Min.Y-6, 12))
		gocv.PutText(&mat, caption, origin, gocv.FontHersheySimplex, 0.5, h.Color, 1)
	}

	out, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: h.Quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

var _ port.DefectHighlighter = (*Highlighter)(nil)
