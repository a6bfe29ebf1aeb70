package storage

import (
	"context"
	"sync"

	"vision-inspector/internal/domain/entity"
	"vision-inspector/internal/domain/port"
)

// MemoryHistoryRepository история инспекций на время жизни процесса.
// Запись сериализована мьютексом, чтение работает по копии.
type MemoryHistoryRepository struct {
	mu      sync.RWMutex
	results []entity.InspectionResult
}

// NewMemoryHistoryRepository создаёт пустую историю
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{}
}

// Append добавляет копию результата в конец истории
func (r *MemoryHistoryRepository) Append(ctx context.Context, result entity.InspectionResult) error {
	stored := result.Clone()

	r.mu.Lock()
	r.results = append(r.results, stored)
	r.mu.Unlock()

	return nil
}

// All возвращает снимок истории в порядке добавления
func (r *MemoryHistoryRepository) All(ctx context.Context) ([]entity.InspectionResult, error) {
	return r.snapshot(), nil
}

// Get ищет результат по ID
func (r *MemoryHistoryRepository) Get(ctx context.Context, id string) (entity.InspectionResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.results {
		if r.results[i].ID == id {
			return r.results[i].Clone(), true, nil
		}
	}
	return entity.InspectionResult{}, false, nil
}

// Clear очищает историю, повторный вызов безопасен
func (r *MemoryHistoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	r.results = nil
	r.mu.Unlock()

	return nil
}

// Aggregate считает метрики по снимку, снятому под той же блокировкой, что и Append
func (r *MemoryHistoryRepository) Aggregate(ctx context.Context) (entity.HistorySummary, error) {
	return entity.Summarize(r.snapshot()), nil
}

// Len количество записей
func (r *MemoryHistoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

func (r *MemoryHistoryRepository) snapshot() []entity.InspectionResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.InspectionResult, len(r.results))
	for i := range r.results {
		out[i] = r.results[i].Clone()
	}
	return out
}

// Проверка реализации интерфейса
var _ port.HistoryRepository = (*MemoryHistoryRepository)(nil)
