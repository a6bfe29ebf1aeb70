//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-inspector/internal/domain/entity"
	"vision-inspector/internal/domain/port"
)

const contourLabel = "anomaly"

// contourDetector ищет дефекты по контурам краёв без нейросети.
// Уверенность области равна доле площади контура в его ограничивающем прямоугольнике.
type contourDetector struct {
	name                  string
	MinAreaRatio          float64
	MaxAspectRatio        float64
	MinAspectRatio        float64
	MaxSide               int
	MinImageSide          int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64
}

func newContourDetector(opts Options) (port.DefectDetector, error) {
	return &contourDetector{
		name:                  detectorName(opts),
		MinAreaRatio:          0.001,
		MinAspectRatio:        0.1,
		MaxAspectRatio:        10.0,
		MaxSide:               1024,
		MinImageSide:          400,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
		MaxGlareRatio:         0.08,
	}, nil
}

func (d *contourDetector) Name() string { return d.name }

// Detect запускает анализ изображения и возвращает найденные области.
func (d *contourDetector) Detect(ctx context.Context, img image.Image, threshold float64) ([]entity.RawDetection, error) {
	mat, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if err := d.checkImageQuality(mat); err != nil {
		return nil, err
	}

	// Приводим изображение к стандартному размеру для стабильных порогов.
	scale := 1.0
	if mat.Cols() > d.MaxSide || mat.Rows() > d.MaxSide {
		scale = float64(d.MaxSide) / float64(maxInt(mat.Cols(), mat.Rows()))
		newW := int(float64(mat.Cols()) * scale)
		newH := int(float64(mat.Rows()) * scale)
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, 50, 150)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	minArea := int(float64(mat.Cols()*mat.Rows()) * d.MinAreaRatio)
	detections := make([]entity.RawDetection, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		rect := gocv.BoundingRect(c)
		area := rect.Dx() * rect.Dy()
		if area < minArea || rect.Dy() == 0 {
			continue
		}

		aspect := float64(rect.Dx()) / float64(rect.Dy())
		if aspect < d.MinAspectRatio || aspect > d.MaxAspectRatio {
			continue
		}

		confidence := clamp(gocv.ContourArea(c)/float64(area), 0, 1)
		if confidence < threshold {
			continue
		}

		detections = append(detections, entity.RawDetection{
			Label:      contourLabel,
			Confidence: confidence,
			Box: entity.BoundingBox{
				X1: float64(rect.Min.X) / scale,
				Y1: float64(rect.Min.Y) / scale,
				X2: float64(rect.Max.X) / scale,
				Y2: float64(rect.Max.Y) / scale,
			},
		})
	}

	return detections, nil
}

func (d *contourDetector) checkImageQuality(mat gocv.Mat) error {
	if mat.Cols() < d.MinImageSide || mat.Rows() < d.MinImageSide {
		return fmt.Errorf("quality gate failed: image is too small (%dx%d)", mat.Cols(), mat.Rows())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if r := ratioOfMask(edges); r < d.MinSharpnessEdgeRatio {
		return fmt.Errorf("quality gate failed: image is blurry (edge_ratio=%.4f)", r)
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if r := ratioOfMask(bright); r > d.MaxOverexposedRatio {
		return fmt.Errorf("quality gate failed: overexposed image (ratio=%.4f)", r)
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if r := ratioOfMask(dark); r > d.MaxUnderexposedRatio {
		return fmt.Errorf("quality gate failed: underexposed image (ratio=%.4f)", r)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return fmt.Errorf("quality gate failed: invalid hsv channels")
	}

	lowSat := gocv.NewMat()
	defer lowSat.Close()
	gocv.Threshold(channels[1], &lowSat, 40, 255, gocv.ThresholdBinaryInv)

	highVal := gocv.NewMat()
	defer highVal.Close()
	gocv.Threshold(channels[2], &highVal, 245, 255, gocv.ThresholdBinary)

	glare := gocv.NewMat()
	defer glare.Close()
	gocv.BitwiseAnd(lowSat, highVal, &glare)
	if r := ratioOfMask(glare); r > d.MaxGlareRatio {
		return fmt.Errorf("quality gate failed: too much glare (ratio=%.4f)", r)
	}

	return nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}

var _ port.DefectDetector = (*contourDetector)(nil)
