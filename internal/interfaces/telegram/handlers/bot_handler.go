package handlers

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"spanish-conjugation-bot/internal/application/usecases"
	"spanish-conjugation-bot/internal/domain/user"
	"spanish-conjugation-bot/internal/infrastructure/telegram"
	"spanish-conjugation-bot/internal/pkg/logger"
)

// BotHandler handles Telegram bot interactions
type BotHandler struct {
	bot          *telegram.Bot
	userUseCase  *usecases.UserUseCase
	drillUseCase *usecases.DrillUseCase
	scheduler    *usecases.SchedulerUseCase
	log          *logger.Logger

	mu           sync.Mutex
	activeDrills map[int64]*usecases.DrillSession
}

// NewBotHandler creates a new bot handler
func NewBotHandler(
	bot *telegram.Bot,
	userUseCase *usecases.UserUseCase,
	drillUseCase *usecases.DrillUseCase,
	scheduler *usecases.SchedulerUseCase,
	log *logger.Logger,
) *BotHandler {
	return &BotHandler{
		bot:          bot,
		userUseCase:  userUseCase,
		drillUseCase: drillUseCase,
		scheduler:    scheduler,
		log:          log,
		activeDrills: make(map[int64]*usecases.DrillSession),
	}
}

// Start starts the bot and handles updates until the context is cancelled
func (h *BotHandler) Start(ctx context.Context) error {
	updates := h.bot.GetUpdatesChan()

	h.log.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			h.log.Info("bot stopping")
			return nil
		case update := <-updates:
			go h.handleUpdate(update)
		}
	}
}

// handleUpdate processes incoming updates
func (h *BotHandler) handleUpdate(update tgbotapi.Update) {
	ctx := context.Background()

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

// handleMessage processes text messages and commands
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	learner, err := h.getOrCreateUser(ctx, message.From)
	if err != nil {
		h.log.Error("failed to get/create user", "error", err)
		return
	}

	switch message.Command() {
	case "start":
		h.handleStart(ctx, message, learner)
	case "practice":
		h.handlePractice(ctx, message.Chat.ID, learner)
	case "due":
		h.handleDue(ctx, message.Chat.ID, learner)
	case "stats":
		h.handleStats(ctx, message.Chat.ID, learner)
	case "settings":
		h.handleSettings(ctx, message.Chat.ID, learner)
	case "help":
		h.handleHelp(message.Chat.ID)
	case "":
		// Plain text: treat as the answer to an active drill
		h.handleAnswer(ctx, message, learner)
	default:
		h.bot.SendMessage(message.Chat.ID, "Unknown command. Use /practice to start a drill, or /help for instructions.")
	}
}

// handleCallbackQuery processes inline keyboard callbacks
func (h *BotHandler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	learner, err := h.getOrCreateUser(ctx, callback.From)
	if err != nil {
		h.log.Error("failed to get/create user", "error", err)
		return
	}

	// Answer the callback to remove the loading state
	if err := h.bot.AnswerCallbackQuery(callback.ID, ""); err != nil {
		h.log.Warn("failed to answer callback query", "error", err)
	}

	data := callback.Data
	chatID := callback.Message.Chat.ID

	switch {
	case strings.HasPrefix(data, "felt_"):
		rating := strings.TrimPrefix(data, "felt_")
		// Replace the rating keyboard with the chosen answer
		if err := h.bot.EditMessage(chatID, callback.Message.MessageID, callback.Message.Text+"\n→ "+rating); err != nil {
			h.log.Warn("failed to edit felt prompt", "error", err)
		}
		h.handleFeltRating(ctx, chatID, learner, rating)
	case data == "drill_next":
		h.sendNextExercise(ctx, chatID, learner)
	case data == "drill_finish":
		h.handleFinishSession(ctx, chatID, learner)
	case strings.HasPrefix(data, "toggle_"):
		h.handleSettingsToggle(ctx, chatID, learner, strings.TrimPrefix(data, "toggle_"))
	default:
		h.log.Warn("unknown callback", "data", data)
	}
}

// getOrCreateUser resolves the learner behind a Telegram identity
func (h *BotHandler) getOrCreateUser(ctx context.Context, from *tgbotapi.User) (*user.User, error) {
	if from == nil {
		return nil, errNoSender
	}
	return h.userUseCase.GetOrCreateUser(
		ctx,
		user.TelegramID(from.ID),
		from.UserName,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
}

func (h *BotHandler) activeDrill(chatID int64) *usecases.DrillSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.activeDrills[chatID]
}

func (h *BotHandler) setActiveDrill(chatID int64, session *usecases.DrillSession) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if session == nil {
		delete(h.activeDrills, chatID)
		return
	}
	h.activeDrills[chatID] = session
}
