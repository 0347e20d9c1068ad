package telegram

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/otabek-dev/poytaxt_bot/internal/config"
	"github.com/otabek-dev/poytaxt_bot/internal/middleware"
	"github.com/otabek-dev/poytaxt_bot/internal/quiz"
	"github.com/otabek-dev/poytaxt_bot/internal/repositories"
	"github.com/otabek-dev/poytaxt_bot/internal/security"
	"github.com/otabek-dev/poytaxt_bot/pkg/errors"
	"github.com/otabek-dev/poytaxt_bot/pkg/logger"
	"gorm.io/gorm"
)

const numWorkers = 8

type Bot struct {
	api     *tgbotapi.BotAPI
	config  *config.Config
	engine  *quiz.Engine
	limiter *middleware.RateLimiter

	// Per-user ordered processing: updates are hashed onto a fixed worker
	// so two events from one user never race.
	workerChans []chan tgbotapi.Update

	// Closed when /stop should halt the whole process (parity mode).
	done     chan struct{}
	haltOnce sync.Once
}

func InitBot(cfg *config.Config, db *gorm.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	capitalRepo := repositories.NewCapitalRepository(db)
	if count, err := capitalRepo.Count(); err == nil {
		logger.Info("Reference set ready", "capitals", count)
	}

	engine := quiz.NewEngine(
		capitalRepo,
		quiz.NewGenerator(),
		quiz.NewSessionStore(),
		cfg.QuizCountOptions,
		cfg.QuizDistractors,
	)

	bot := &Bot{
		api:         api,
		config:      cfg,
		engine:      engine,
		limiter:     middleware.NewRateLimiter(cfg.RateLimitPerUser, time.Minute),
		workerChans: make([]chan tgbotapi.Update, numWorkers),
		done:        make(chan struct{}),
	}

	if err := bot.setBotCommands(); err != nil {
		logger.Warn("Failed to register bot commands", "error", err)
	}

	for i := 0; i < numWorkers; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	go bot.startUpdateListener()

	return bot, nil
}

// Done is closed when the bot has been asked to halt the process
// (STOP_HALTS_PROCESS parity mode).
func (b *Bot) Done() <-chan struct{} {
	return b.done
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	logger.Info("Bot stopped receiving updates")
}

func (b *Bot) setBotCommands() error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Botni ishga tushirish"},
		tgbotapi.BotCommand{Command: "test", Description: "Poytaxtlar testini boshlash"},
		tgbotapi.BotCommand{Command: "stop", Description: "Botni to'xtatish"},
		tgbotapi.BotCommand{Command: "info", Description: "Foydalanuvchi haqida ma'lumot"},
	)
	_, err := b.api.Request(commands)
	return err
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			var userID int64
			if update.Message != nil {
				userID = update.Message.From.ID
			} else if update.CallbackQuery != nil {
				userID = update.CallbackQuery.From.ID
			}

			if userID != 0 {
				workerIdx := userID % int64(len(b.workerChans))
				if workerIdx < 0 {
					workerIdx = -workerIdx
				}
				b.workerChans[workerIdx] <- update
			} else {
				go b.handleUpdate(update)
			}
		}

		select {
		case <-b.done:
			return
		default:
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		time.Sleep(5 * time.Second)
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID

	logger.Debug("Received message", "user_id", userID, "text", message.Text)

	if !b.limiter.Allow(userID) {
		logger.Warn("Rate limit exceeded", "user_id", userID)
		b.sendMessage(userID, MsgRateLimited, nil)
		return
	}

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	// Any other message outside a command is a gentle nudge to the menu.
	b.sendMessage(userID, MsgHelpPrompt, nil)
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	userID := message.From.ID

	switch message.Command() {
	case "start":
		name := security.SanitizeDisplayName(message.From.FirstName)
		if name == "" {
			name = "do'stim"
		}
		b.sendMessage(userID, fmt.Sprintf(MsgWelcomeFormat, name), MainMenuKeyboard())

	case "test":
		b.sendQuizMessage(userID, b.engine.CountMenu(userID))

	case "info":
		username := security.SanitizeDisplayName(message.From.UserName)
		if username == "" {
			username = "N/A"
		}
		b.sendMessage(userID, fmt.Sprintf(MsgInfoFormat, username, userID), nil)

	case "stop":
		ack := b.engine.Stop(userID)
		b.sendMessage(userID, ack.Text, nil)
		if b.config.StopHaltsProcess {
			logger.Info("Stop requested with process halt enabled", "user_id", userID)
			b.signalHalt()
		}

	default:
		b.sendMessage(userID, MsgHelpPrompt, nil)
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	data := query.Data

	logger.Debug("Received callback", "user_id", userID, "data", data)

	defer b.answerCallback(query.ID)

	if !b.limiter.Allow(userID) {
		logger.Warn("Rate limit exceeded", "user_id", userID)
		return
	}

	switch {
	case strings.HasPrefix(data, quiz.CountTokenPrefix):
		count, err := quiz.ParseCountToken(data)
		if err != nil {
			b.reportFailure(userID, err)
			return
		}
		msgs, err := b.engine.StartQuiz(userID, count)
		if err != nil {
			b.reportFailure(userID, err)
			return
		}
		b.sendQuizMessages(userID, msgs)

	case strings.HasPrefix(data, quiz.AnswerTokenPrefix):
		chosen, correct, err := quiz.ParseAnswerToken(data)
		if err != nil {
			b.reportFailure(userID, err)
			return
		}
		msgs, err := b.engine.SubmitAnswer(userID, chosen, correct)
		if err != nil {
			b.reportFailure(userID, err)
			return
		}
		b.sendQuizMessages(userID, msgs)

	default:
		b.sendMessage(userID, MsgHelpPrompt, nil)
	}
}

// reportFailure converts engine errors into user-facing text. The engine has
// already reset the session on anything unrecoverable; a late answer for a
// cleared session just gets the help prompt back.
func (b *Bot) reportFailure(userID int64, err error) {
	code := errors.CodeOf(err)
	logger.Error("Quiz event failed", "user_id", userID, "code", code, "error", err)

	if code == errors.ErrCodeUnknownSession {
		b.sendMessage(userID, MsgHelpPrompt, nil)
		return
	}
	b.sendMessage(userID, MsgError, nil)
}

func (b *Bot) sendQuizMessages(chatID int64, msgs []quiz.Message) {
	for _, m := range msgs {
		b.sendQuizMessage(chatID, m)
	}
}

func (b *Bot) sendQuizMessage(chatID int64, m quiz.Message) {
	if len(m.Options) == 0 {
		b.sendMessage(chatID, m.Text, nil)
		return
	}

	// The count menu fits on one row; answer options go two per row.
	perRow := 2
	if strings.HasPrefix(m.Options[0].Data, quiz.CountTokenPrefix) {
		perRow = len(m.Options)
	}

	b.sendMessage(chatID, m.Text, InlineOptionsKeyboard(m.Options, perRow))
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

func (b *Bot) answerCallback(queryID string) {
	callback := tgbotapi.NewCallback(queryID, "")
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func (b *Bot) signalHalt() {
	b.haltOnce.Do(func() {
		close(b.done)
	})
}
