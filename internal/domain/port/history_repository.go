package port

import (
	"context"

	"vision-inspector/internal/domain/entity"
)

// HistoryRepository упорядоченный журнал результатов инспекций
type HistoryRepository interface {
	// Append добавляет результат в конец истории
	Append(ctx context.Context, result entity.InspectionResult) error

	// All возвращает снимок истории в порядке добавления
	All(ctx context.Context) ([]entity.InspectionResult, error)

	// Get ищет результат по ID
	Get(ctx context.Context, id string) (entity.InspectionResult, bool, error)

	// Clear очищает историю целиком
	Clear(ctx context.Context) error

	// Aggregate считает метрики по снимку истории
	Aggregate(ctx context.Context) (entity.HistorySummary, error)
}
