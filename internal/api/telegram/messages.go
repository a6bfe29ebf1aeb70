package telegram

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	app "vision-inspector/internal/application"
	"vision-inspector/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для поиска дефектов на фотографиях деталей.

📸 Отправьте мне фото детали, и я найду и опишу дефекты.

📋 Команды:
/check — начать проверку детали
/threshold — порог уверенности детектора
/stats — статистика качества
/report — отчёт по последней проверке
/export — история проверок в CSV
/clear — очистить историю
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото детали
2️⃣ Бот проанализирует изображение
3️⃣ Вы получите результат: текст + фото с подсветкой дефектов

💡 Рекомендации:
• Снимайте при хорошем освещении
• Используйте однотонный фон
• Фото должно быть чётким
• Поддерживаются JPEG, PNG и BMP

📋 Команды:
/check — начать проверку
/threshold 0.4 — изменить порог уверенности
/stats — статистика качества
/report — отчёт по последней проверке
/export — выгрузить историю в CSV
/clear — очистить историю
/cancel — отменить операцию`

	msgAwaitingPhoto    = "📸 Отправьте фото детали для проверки на дефекты."
	msgCancelled        = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto        = "📸 Пожалуйста, отправьте фото детали для проверки на дефекты."
	msgStillAwaiting    = "📸 Жду фото детали. Отправьте изображение или /cancel для отмены проверки."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing       = "⏳ Обрабатываю изображение..."
	msgProcessingError  = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgAnalysisFailed   = "⚠️ Анализ не удался. Попробуйте ещё раз."
	msgInternalError    = "⚠️ Внутренняя ошибка. Попробуйте позже."
	msgEmptyHistory     = "📭 История проверок пуста."
	msgHistoryCleared   = "🗑 История проверок очищена."
	msgThresholdUsage   = "Укажите порог от 0 до 1, например: /threshold 0.4"
	msgThresholdCurrent = "🎚 Текущий порог уверенности: %.2f"
	msgThresholdSet     = "✅ Порог уверенности установлен: %.2f"
)

// parseThreshold принимает "0.4", "0,4" и "40%"
func parseThreshold(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if percent {
		v /= 100
	}
	return v, entity.ValidateThreshold(v)
}

// describeError текст ошибки для пользователя
func describeError(err error) string {
	var (
		decodeErr    *entity.DecodeError
		thresholdErr *entity.InvalidThresholdError
	)
	switch {
	case errors.As(err, &decodeErr):
		return "⚠️ " + decodeErr.Error()
	case errors.As(err, &thresholdErr):
		return "⚠️ " + thresholdErr.Error()
	default:
		return msgAnalysisFailed
	}
}

func formatResult(r entity.InspectionResult) string {
	if !r.HasDefects() {
		return "✅ Дефекты не обнаружены.\n\n" + app.ExportResult(r)
	}
	return fmt.Sprintf("🚨 Обнаружено дефектов: %d\n\n%s", len(r.Defects), app.ExportResult(r))
}

func formatSummary(s entity.HistorySummary) string {
	if s.Count == 0 {
		return msgEmptyHistory
	}

	var b strings.Builder
	b.WriteString("📊 Статистика качества\n")
	fmt.Fprintf(&b, "Проверок: %d\n", s.Count)
	fmt.Fprintf(&b, "Годных: %d (%.1f%%)\n", s.PassCount, s.PassRate*100)
	fmt.Fprintf(&b, "Брак: %d\n", s.RejectCount)
	fmt.Fprintf(&b, "Дефектов на деталь: %.2f\n", s.AvgDefects)
	fmt.Fprintf(&b, "Средняя уверенность: %.1f%%\n", s.AvgConfidence*100)

	if len(s.DefectsByLabel) > 0 {
		labels := make([]string, 0, len(s.DefectsByLabel))
		for label := range s.DefectsByLabel {
			labels = append(labels, label)
		}
		sort.Slice(labels, func(i, j int) bool {
			ci, cj := s.DefectsByLabel[labels[i]], s.DefectsByLabel[labels[j]]
			if ci != cj {
				return ci > cj
			}
			return labels[i] < labels[j]
		})

		b.WriteString("\nПо типам:\n")
		for _, label := range labels {
			fmt.Fprintf(&b, "• %s: %d\n", label, s.DefectsByLabel[label])
		}
	}
	return b.String()
}

// textReply ответ на текст без команды. Фото принимаются в любом состоянии,
// состояние влияет только на подсказку.
func textReply(state entity.UserState) string {
	if state == entity.StateAwaitingPhoto {
		return msgStillAwaiting
	}
	return msgSendPhoto
}
