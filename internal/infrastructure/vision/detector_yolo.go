//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"vision-inspector/internal/domain/entity"
	"vision-inspector/internal/domain/port"
)

// yoloDetector запускает ONNX-экспорт YOLOv8 через модуль DNN OpenCV.
// Выход сети имеет форму [1, 4+классы, якоря]: cx, cy, w, h и оценки классов.
type yoloDetector struct {
	mu     sync.Mutex // gocv.Net не потокобезопасен
	net    gocv.Net
	name   string
	labels []string
	nms    float32
	input  int
}

func newYOLODetector(opts Options) (port.DefectDetector, error) {
	path := ModelPath(opts.ModelDir, opts.ModelSize)

	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, fmt.Errorf("load model %s: network is empty", path)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("set backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("set target: %w", err)
	}

	nms := opts.NMSThreshold
	if nms <= 0 {
		nms = 0.45
	}

	return &yoloDetector{
		net:    net,
		name:   detectorName(opts),
		labels: opts.Labels,
		nms:    float32(nms),
		input:  opts.InputSize,
	}, nil
}

func (d *yoloDetector) Name() string { return d.name }

// Close освобождает сеть
func (d *yoloDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// Detect возвращает детекции с уверенностью не ниже threshold после NMS,
// отсортированные по убыванию уверенности.
func (d *yoloDetector) Detect(ctx context.Context, img image.Image, threshold float64) ([]entity.RawDetection, error) {
	mat, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.input, d.input), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sizes := out.Size()
	if len(sizes) != 3 || sizes[1] <= 4 {
		return nil, fmt.Errorf("unexpected output shape %v", sizes)
	}
	rows, anchors := sizes[1], sizes[2]

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	width, height := float64(mat.Cols()), float64(mat.Rows())
	xScale := width / float64(d.input)
	yScale := height / float64(d.input)

	classes := rows - 4
	if classes > len(d.labels) {
		classes = len(d.labels)
	}

	var (
		rects  []image.Rectangle
		boxes  []entity.BoundingBox
		scores []float32
		labels []string
	)
	for i := 0; i < anchors; i++ {
		best, bestScore := -1, float32(-1)
		for c := 0; c < classes; c++ {
			if s := data[(4+c)*anchors+i]; s > bestScore {
				best, bestScore = c, s
			}
		}
		if best < 0 || float64(bestScore) < threshold {
			continue
		}

		cx := float64(data[i]) * xScale
		cy := float64(data[anchors+i]) * yScale
		w := float64(data[2*anchors+i]) * xScale
		h := float64(data[3*anchors+i]) * yScale

		box := entity.BoundingBox{
			X1: clamp(cx-w/2, 0, width),
			Y1: clamp(cy-h/2, 0, height),
			X2: clamp(cx+w/2, 0, width),
			Y2: clamp(cy+h/2, 0, height),
		}
		boxes = append(boxes, box)
		rects = append(rects, image.Rect(int(box.X1), int(box.Y1), int(box.X2), int(box.Y2)))
		scores = append(scores, bestScore)
		labels = append(labels, d.labels[best])
	}

	detections := make([]entity.RawDetection, 0, len(rects))
	if len(rects) == 0 {
		return detections, nil
	}

	for _, idx := range gocv.NMSBoxes(rects, scores, float32(threshold), d.nms) {
		confidence := float64(scores[idx])
		if confidence > 1 {
			confidence = 1
		}
		detections = append(detections, entity.RawDetection{
			Label:      labels[idx],
			Confidence: confidence,
			Box:        boxes[idx],
		})
	}
	return detections, nil
}

var _ port.DefectDetector = (*yoloDetector)(nil)
