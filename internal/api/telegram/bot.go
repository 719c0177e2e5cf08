package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	app "pneumo-bot/internal/application"
	"pneumo-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я помогаю оценить рентгеновский снимок грудной клетки.

📸 Отправьте снимок (JPEG или PNG), и я определю признаки пневмонии и попрошу ИИ пояснить результат.

📋 Команды:
/diagnose — проверить снимок
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте снимок фото или файлом
2️⃣ Модель классифицирует снимок: Normal или Pneumonia
3️⃣ Вы получите уверенность модели, вероятности классов и пояснение ИИ

💡 Файлом снимок приходит без сжатия, так точнее.

📋 Команды:
/diagnose — проверить снимок
/cancel — отменить операцию`

	msgAwaitingXray    = "📸 Отправьте рентгеновский снимок грудной клетки."
	msgCancelled       = "❌ Операция отменена. Отправьте /diagnose для новой проверки."
	msgSendXray        = "📸 Пожалуйста, отправьте рентгеновский снимок (JPEG или PNG)."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую снимок..."
	msgBusy            = "⏳ Предыдущий снимок ещё обрабатывается, подождите."
	msgInvalidImage    = "⚠️ Не удалось прочитать изображение. Поддерживаются JPEG и PNG."
	msgProcessingError = "⚠️ Не удалось обработать снимок. Попробуйте ещё раз."
	msgTooLarge        = "⚠️ Файл слишком большой. Отправьте снимок до 20 МБ."
	msgDisclaimer      = "⚠️ Результат не является медицинским диагнозом. Обратитесь к врачу."

	// Лимит Telegram на длину сообщения
	maxMessageLen = 4096
	// Снимки больше этого размера не скачиваем
	maxDownloadBytes = 20 << 20
)

var errFileTooLarge = errors.New("file is too large")

// Diagnoser запускает диагностику одного снимка
type Diagnoser interface {
	RunDiagnosis(ctx context.Context, raw []byte) (*entity.DiagnosticReport, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	users     *app.UserService
	diagnoser Diagnoser
	http      *http.Client
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, diagnoser Diagnoser, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log = log.With().Str("component", "telegram").Logger()
	log.Info().Str("account", api.Self.UserName).Msg("Authorized on Telegram")

	return &Bot{
		api:       api,
		users:     users,
		diagnoser: diagnoser,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       log,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			// Диагностика идёт до ~10 секунд, не держим остальные чаты
			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(ctx, msg)
			}(update.Message)
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

	// Обработка снимка
	if fileID, ok := imageFileID(msg); ok {
		b.handleXray(ctx, msg, fileID)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendXray)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	var err error

	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "diagnose":
		_, err = b.users.BeginDiagnosis(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgAwaitingXray)

	case "cancel":
		_, err = b.users.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}

	if err != nil {
		b.log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to update user state")
	}
}

// handleXray скачивает снимок и отвечает отчётом
func (b *Bot) handleXray(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	log := b.log.With().Int64("user_id", msg.From.ID).Logger()

	_, started, err := b.users.StartProcessing(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get user")
		return
	}
	if !started {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	reportID := ""
	defer func() {
		if _, err := b.users.FinishProcessing(ctx, msg.From.ID, msg.Chat.ID, reportID); err != nil {
			log.Error().Err(err).Msg("Failed to reset user state")
		}
	}()

	b.sendMessage(msg.Chat.ID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Error().Err(err).Msg("Error downloading image")
		if errors.Is(err, errFileTooLarge) {
			b.sendMessage(msg.Chat.ID, msgTooLarge)
			return
		}
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	report, err := b.diagnoser.RunDiagnosis(ctx, imageData)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidImage) {
			b.sendMessage(msg.Chat.ID, msgInvalidImage)
			return
		}
		log.Error().Err(err).Msg("Diagnosis failed")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	reportID = report.ID
	b.sendMessage(msg.Chat.ID, FormatReport(report))
}

// imageFileID возвращает файл снимка: фото максимального размера или документ-изображение
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
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

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	return readLimited(resp.Body, maxDownloadBytes)
}

// readLimited читает не больше limit байт и сообщает о превышении, а не обрезает файл
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", errFileTooLarge, limit)
	}
	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("Error sending message")
	}
}
