package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"vision-inspector/internal/domain/entity"
	"vision-inspector/internal/domain/port"
)

// ErrDetectorNotConfigured сервис собран без детектора
var ErrDetectorNotConfigured = errors.New("detector is not configured")

// InspectionService прогоняет изображение через декодер, детектор и нормализацию.
type InspectionService struct {
	decoder     port.ImageDecoder
	detector    port.DefectDetector
	highlighter port.DefectHighlighter
	history     port.HistoryRepository
	logger      *log.Logger
	timeout     time.Duration
	now         func() time.Time
	newID       func() string
}

// InspectionOutput содержит результат поиска дефектов и картинку с подсветкой.
type InspectionOutput struct {
	Result      *entity.InspectionResult
	Highlighted []byte
}

// InspectionOption настраивает InspectionService
type InspectionOption func(*InspectionService)

// WithHighlighter включает подсветку дефектов
func WithHighlighter(h port.DefectHighlighter) InspectionOption {
	return func(s *InspectionService) { s.highlighter = h }
}

// WithDetectTimeout ограничивает время вызова детектора, 0 отключает ограничение
func WithDetectTimeout(d time.Duration) InspectionOption {
	return func(s *InspectionService) { s.timeout = d }
}

// WithLogger задаёт логгер
func WithLogger(l *log.Logger) InspectionOption {
	return func(s *InspectionService) { s.logger = l }
}

// WithClock подменяет источник времени
func WithClock(now func() time.Time) InspectionOption {
	return func(s *InspectionService) { s.now = now }
}

// WithIDGenerator подменяет генератор ID результатов
func WithIDGenerator(f func() string) InspectionOption {
	return func(s *InspectionService) { s.newID = f }
}

// NewInspectionService создаёт сервис, который управляет проверкой дефектов.
func NewInspectionService(decoder port.ImageDecoder, detector port.DefectDetector, history port.HistoryRepository, opts ...InspectionOption) *InspectionService {
	s := &InspectionService{
		decoder:  decoder,
		detector: detector,
		history:  history,
		logger:   log.New(io.Discard),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run выполняет одну инспекцию и возвращает результат, не трогая историю.
func (s *InspectionService) Run(ctx context.Context, imageData []byte, sourceName string, threshold float64) (*entity.InspectionResult, error) {
	result, _, err := s.run(ctx, imageData, sourceName, threshold)
	return result, err
}

// Inspect выполняет инспекцию и добавляет результат в историю только при успехе.
func (s *InspectionService) Inspect(ctx context.Context, imageData []byte, sourceName string, threshold float64) (*entity.InspectionResult, error) {
	result, _, err := s.inspect(ctx, imageData, sourceName, threshold)
	return result, err
}

// ProcessPhoto инспектирует фото, сохраняет результат и при наличии дефектов рисует подсветку.
func (s *InspectionService) ProcessPhoto(ctx context.Context, imageData []byte, sourceName string, threshold float64) (*InspectionOutput, error) {
	result, img, err := s.inspect(ctx, imageData, sourceName, threshold)
	if err != nil {
		return nil, err
	}

	out := &InspectionOutput{Result: result}
	if result.HasDefects() && s.highlighter != nil {
		highlighted, err := s.highlighter.Highlight(img, result.Defects)
		if err != nil {
			s.logger.Warn("highlight failed", "id", result.ID, "err", err)
		} else {
			out.Highlighted = highlighted
		}
	}
	return out, nil
}

// DetectorName имя подключённого бэкенда
func (s *InspectionService) DetectorName() string {
	if s.detector == nil {
		return ""
	}
	return s.detector.Name()
}

func (s *InspectionService) inspect(ctx context.Context, imageData []byte, sourceName string, threshold float64) (*entity.InspectionResult, image.Image, error) {
	result, img, err := s.run(ctx, imageData, sourceName, threshold)
	if err != nil {
		return nil, nil, err
	}

	if err := s.history.Append(ctx, *result); err != nil {
		return nil, nil, fmt.Errorf("append history: %w", err)
	}
	return result, img, nil
}

func (s *InspectionService) run(ctx context.Context, imageData []byte, sourceName string, threshold float64) (*entity.InspectionResult, image.Image, error) {
	if err := entity.ValidateThreshold(threshold); err != nil {
		return nil, nil, err
	}
	if s.detector == nil {
		return nil, nil, ErrDetectorNotConfigured
	}

	start := s.now()

	img, meta, err := s.decoder.Decode(imageData)
	if err != nil {
		s.logger.Info("image rejected", "source", sourceName, "err", err)
		return nil, nil, err
	}

	raw, err := s.detect(ctx, img, threshold)
	if err != nil {
		s.logger.Error("detector failed", "source", sourceName, "detector", s.detector.Name(), "err", err)
		return nil, nil, fmt.Errorf("detect: %w", err)
	}

	defects, err := NormalizeDetections(raw)
	if err != nil {
		s.logger.Error("detector returned malformed output", "source", sourceName, "err", err)
		return nil, nil, err
	}

	result := entity.NewInspectionResult(s.newID(), s.now(), sourceName, meta, threshold, defects)
	result.Detector = s.detector.Name()

	s.logger.Info("inspection finished",
		"id", result.ID,
		"source", sourceName,
		"size", fmt.Sprintf("%dx%d", meta.Width, meta.Height),
		"defects", len(defects),
		"verdict", result.Verdict,
		"elapsed", s.now().Sub(start),
	)
	return &result, img, nil
}

// detect вызывает детектор; при заданном таймауте не ждёт дольше него,
// даже если детектор не следит за контекстом.
func (s *InspectionService) detect(ctx context.Context, img image.Image, threshold float64) ([]entity.RawDetection, error) {
	if s.timeout <= 0 {
		return s.detector.Detect(ctx, img, threshold)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type detectResult struct {
		raw []entity.RawDetection
		err error
	}
	done := make(chan detectResult, 1)
	go func() {
		raw, err := s.detector.Detect(ctx, img, threshold)
		done <- detectResult{raw: raw, err: err}
	}()

	select {
	case r := <-done:
		return r.raw, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
