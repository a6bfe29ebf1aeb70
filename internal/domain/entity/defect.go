package entity

import "math"

// BoundingBox прямоугольник дефекта в пикселях исходного изображения
type BoundingBox struct {
	X1 float64 `json:"x1"` // левый край
	Y1 float64 `json:"y1"` // верхний край
	X2 float64 `json:"x2"` // правый край
	Y2 float64 `json:"y2"` // нижний край
}

// Valid сообщает, что координаты конечны и x2>=x1, y2>=y1.
func (b BoundingBox) Valid() bool {
	for _, v := range [...]float64{b.X1, b.Y1, b.X2, b.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.X2 >= b.X1 && b.Y2 >= b.Y1
}

// Center возвращает координаты центра прямоугольника
func (b BoundingBox) Center() (x, y float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// RawDetection сырой ответ детектора до нормализации
type RawDetection struct {
	Label      string
	Confidence float64
	Box        BoundingBox
}

// DefectRecord нормализованный дефект внутри одного результата инспекции.
// Производные поля считаются один раз в NewDefectRecord.
type DefectRecord struct {
	ID          int         `json:"id"`
	Label       string      `json:"label"`
	Confidence  float64     `json:"confidence"`
	Box         BoundingBox `json:"box"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Area        float64     `json:"area"`
	AspectRatio float64     `json:"aspectRatio"`
}

// NewDefectRecord создаёт запись дефекта и вычисляет размеры, площадь и соотношение сторон.
func NewDefectRecord(id int, label string, confidence float64, box BoundingBox) DefectRecord {
	width := box.X2 - box.X1
	height := box.Y2 - box.Y1

	var aspect float64
	if height > 0 {
		aspect = width / height
	}

	return DefectRecord{
		ID:          id,
		Label:       label,
		Confidence:  confidence,
		Box:         box,
		Width:       width,
		Height:      height,
		Area:        width * height,
		AspectRatio: aspect,
	}
}
