package container

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"vision-inspector/config"
	app "vision-inspector/internal/application"
	"vision-inspector/internal/domain/port"
	"vision-inspector/internal/infrastructure/imaging"
	"vision-inspector/internal/infrastructure/objectstore"
	"vision-inspector/internal/infrastructure/storage"
	"vision-inspector/internal/infrastructure/vision"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
	HistoryService    *app.HistoryService

	closers []io.Closer
}

// Deps зависимости сервисов приложения
type Deps struct {
	UserRepo    port.UserRepository
	HistoryRepo port.HistoryRepository
	Decoder     port.ImageDecoder
	Detector    port.DefectDetector
	Highlighter port.DefectHighlighter // может быть nil
	Archive     port.ReportArchive     // может быть nil
	Logger      *log.Logger
	Options     []app.InspectionOption
}

// New собирает сервисы приложения из готовых зависимостей
func New(d Deps) *Container {
	logger := d.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	opts := append([]app.InspectionOption{
		app.WithLogger(logger.WithPrefix("inspection")),
	}, d.Options...)
	if d.Highlighter != nil {
		opts = append(opts, app.WithHighlighter(d.Highlighter))
	}

	return &Container{
		UserService:       app.NewUserService(d.UserRepo),
		InspectionService: app.NewInspectionService(d.Decoder, d.Detector, d.HistoryRepo, opts...),
		HistoryService:    app.NewHistoryService(d.HistoryRepo, d.Archive, logger.WithPrefix("history")),
	}
}

// Build создаёт инфраструктуру по конфигурации: детектор загружается один раз на процесс.
func Build(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Container, error) {
	backend, err := vision.ParseBackend(cfg.DetectorBackend)
	if err != nil {
		return nil, err
	}
	size, err := vision.ParseModelSize(cfg.ModelSize)
	if err != nil {
		return nil, err
	}

	detector, err := vision.NewDetector(vision.Options{
		Backend:      backend,
		ModelSize:    size,
		ModelDir:     cfg.ModelDir,
		Labels:       cfg.DefectLabels,
		NMSThreshold: cfg.NMSThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("init detector: %w", err)
	}
	logger.Info("detector ready", "name", detector.Name())

	var archive port.ReportArchive
	if cfg.Minio.Enabled() {
		a, err := objectstore.NewMinioArchive(ctx, objectstore.MinioConfig{
			Endpoint:        cfg.Minio.Endpoint,
			AccessKeyID:     cfg.Minio.AccessKeyID,
			SecretAccessKey: cfg.Minio.SecretAccessKey,
			Bucket:          cfg.Minio.Bucket,
			Region:          cfg.Minio.Region,
			UseSSL:          cfg.Minio.UseSSL,
		}, logger.WithPrefix("archive"))
		if err != nil {
			closeDetector(detector)
			return nil, err
		}
		archive = a
		logger.Info("report archive ready", "bucket", cfg.Minio.Bucket)
	}

	c := New(Deps{
		UserRepo:    storage.NewMemoryUserRepository(cfg.ConfidenceThreshold),
		HistoryRepo: storage.NewMemoryHistoryRepository(),
		Decoder:     imaging.NewDecoder(imaging.WithMaxPixels(cfg.MaxImagePixels)),
		Detector:    detector,
		Highlighter: vision.NewHighlighter(),
		Archive:     archive,
		Logger:      logger,
		Options:     []app.InspectionOption{app.WithDetectTimeout(cfg.DetectTimeout)},
	})
	if closer, ok := detector.(io.Closer); ok {
		c.closers = append(c.closers, closer)
	}
	return c, nil
}

// Close освобождает ресурсы детектора
func (c *Container) Close() error {
	var firstErr error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func closeDetector(d port.DefectDetector) {
	if closer, ok := d.(io.Closer); ok {
		_ = closer.Close()
	}
}
