package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "vision-inspector/internal/application"
	"vision-inspector/internal/domain/entity"
)

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	users       *app.UserService
	inspections *app.InspectionService
	history     *app.HistoryService
	logger      *log.Logger
	httpClient  *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, inspections *app.InspectionService, history *app.HistoryService, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	logger.Info("authorized on account", "username", api.Self.UserName)

	return &Bot{
		api:         api,
		users:       users,
		inspections: inspections,
		history:     history,
		logger:      logger,
		httpClient:  &http.Client{Timeout: time.Minute},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, msg, photo.FileID, photo.FileUniqueID+".jpg")
		return
	}

	// Изображение, отправленное файлом без сжатия
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		b.handleImage(ctx, msg, msg.Document.FileID, msg.Document.FileName)
		return
	}

	// Текстовое сообщение (не команда)
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("get user", "user", msg.From.ID, "err", err)
		b.sendMessage(msg.Chat.ID, msgSendPhoto)
		return
	}
	b.sendMessage(msg.Chat.ID, textReply(user.State))
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
			b.logger.Error("reset user state", "user", userID, "err", err)
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		if _, err := b.users.BeginCheck(ctx, userID, chatID); err != nil {
			b.logger.Error("begin check", "user", userID, "err", err)
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "threshold":
		b.handleThreshold(ctx, msg)

	case "stats":
		summary, err := b.history.Summary(ctx)
		if err != nil {
			b.logger.Error("history summary", "err", err)
			b.sendMessage(chatID, msgInternalError)
			return
		}
		b.sendMessage(chatID, formatSummary(summary))

	case "report":
		last, ok, err := b.history.Last(ctx)
		switch {
		case err != nil:
			b.logger.Error("last inspection", "err", err)
			b.sendMessage(chatID, msgInternalError)
		case !ok:
			b.sendMessage(chatID, msgEmptyHistory)
		default:
			b.sendMessage(chatID, app.ExportResult(last))
		}

	case "export":
		data, err := b.history.ExportCSV(ctx)
		if err != nil {
			b.logger.Error("export history", "err", err)
			b.sendMessage(chatID, msgInternalError)
			return
		}
		b.sendDocument(chatID, app.CSVFileName(time.Now()), []byte(data))

	case "clear":
		if err := b.history.Clear(ctx); err != nil {
			b.logger.Error("clear history", "err", err)
			b.sendMessage(chatID, msgInternalError)
			return
		}
		b.sendMessage(chatID, msgHistoryCleared)

	case "cancel":
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
			b.logger.Error("cancel", "user", userID, "err", err)
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) handleThreshold(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		user, err := b.users.Get(ctx, userID, chatID)
		if err != nil {
			b.logger.Error("get user", "user", userID, "err", err)
			b.sendMessage(chatID, msgInternalError)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgThresholdCurrent, user.Threshold))
		return
	}

	value, err := parseThreshold(args)
	if err != nil {
		b.sendMessage(chatID, msgThresholdUsage)
		return
	}

	user, err := b.users.SetThreshold(ctx, userID, chatID, value)
	if err != nil {
		var invalid *entity.InvalidThresholdError
		if errors.As(err, &invalid) {
			b.sendMessage(chatID, msgThresholdUsage)
			return
		}
		b.logger.Error("set threshold", "user", userID, "err", err)
		b.sendMessage(chatID, msgInternalError)
		return
	}
	b.sendMessage(chatID, fmt.Sprintf(msgThresholdSet, user.Threshold))
}

// handleImage скачивает изображение, запускает инспекцию и отправляет отчёт
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID, fileName string) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	// Устанавливаем состояние "обработка"
	user, err := b.users.SetState(ctx, userID, chatID, entity.StateProcessing)
	if err != nil {
		b.logger.Error("set state", "user", userID, "err", err)
		b.sendMessage(chatID, msgInternalError)
		return
	}
	// Возвращаем в главное меню при любом исходе
	defer func() {
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
			b.logger.Error("reset user state", "user", userID, "err", err)
		}
	}()

	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Error("download photo", "user", userID, "err", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	out, err := b.inspections.ProcessPhoto(ctx, imageData, fileName, user.Threshold)
	if err != nil {
		b.sendMessage(chatID, describeError(err))
		return
	}

	b.sendMessage(chatID, formatResult(*out.Result))
	if len(out.Highlighted) > 0 {
		b.sendPhoto(chatID, out.Highlighted, fmt.Sprintf("Найдено дефектов: %d", len(out.Result.Defects)))
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", "chat", chatID, "err", err)
	}
}

func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "defects.jpg", Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("send photo", "chat", chatID, "err", err)
	}
}

func (b *Bot) sendDocument(chatID int64, name string, data []byte) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("send document", "chat", chatID, "err", err)
	}
}
