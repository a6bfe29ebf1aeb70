package port

import "context"

// ReportArchive внешнее хранилище выгруженных отчётов
type ReportArchive interface {
	// Store сохраняет отчёт и возвращает ключ объекта
	Store(ctx context.Context, name, contentType string, data []byte) (string, error)
}
