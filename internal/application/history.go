package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"vision-inspector/internal/domain/entity"
	"vision-inspector/internal/domain/port"
)

// ErrArchiveNotConfigured внешнее хранилище отчётов не подключено
var ErrArchiveNotConfigured = errors.New("report archive is not configured")

// HistoryService читает историю инспекций, считает метрики и выгружает отчёты.
type HistoryService struct {
	repo    port.HistoryRepository
	archive port.ReportArchive
	logger  *log.Logger
	now     func() time.Time
}

// NewHistoryService создаёт сервис истории; archive может быть nil
func NewHistoryService(repo port.HistoryRepository, archive port.ReportArchive, logger *log.Logger) *HistoryService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HistoryService{repo: repo, archive: archive, logger: logger, now: time.Now}
}

func (s *HistoryService) All(ctx context.Context) ([]entity.InspectionResult, error) {
	return s.repo.All(ctx)
}

func (s *HistoryService) Get(ctx context.Context, id string) (entity.InspectionResult, bool, error) {
	return s.repo.Get(ctx, id)
}

// Last возвращает последнюю инспекцию
func (s *HistoryService) Last(ctx context.Context) (entity.InspectionResult, bool, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return entity.InspectionResult{}, false, err
	}
	if len(all) == 0 {
		return entity.InspectionResult{}, false, nil
	}
	return all[len(all)-1], true, nil
}

func (s *HistoryService) Summary(ctx context.Context) (entity.HistorySummary, error) {
	return s.repo.Aggregate(ctx)
}

func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.logger.Info("history cleared")
	return nil
}

// ExportCSV выгружает всю историю в CSV
func (s *HistoryService) ExportCSV(ctx context.Context) (string, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return "", err
	}
	return ExportHistoryCSV(all)
}

// CSVFileName имя файла выгрузки для момента t
func CSVFileName(t time.Time) string {
	return "inspection_history_" + t.UTC().Format("20060102_150405") + ".csv"
}

// Archive сохраняет CSV-выгрузку во внешнее хранилище и возвращает ключ объекта.
func (s *HistoryService) Archive(ctx context.Context) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveNotConfigured
	}

	data, err := s.ExportCSV(ctx)
	if err != nil {
		return "", err
	}

	key, err := s.archive.Store(ctx, CSVFileName(s.now()), "text/csv", []byte(data))
	if err != nil {
		return "", fmt.Errorf("archive history: %w", err)
	}
	s.logger.Info("history archived", "key", key, "bytes", len(data))
	return key, nil
}
