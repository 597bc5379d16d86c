package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"spanish-conjugation-bot/internal/pkg/logger"
)

// Bot wraps the Telegram bot API
type Bot struct {
	api *tgbotapi.BotAPI
	log *logger.Logger
}

// NewBot creates a new Telegram bot
func NewBot(token string, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	api.Debug = false
	log.Info("authorized on Telegram", "account", api.Self.UserName)

	return &Bot{api: api, log: log}, nil
}

// GetUpdatesChan returns a channel for receiving updates
func (b *Bot) GetUpdatesChan() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return b.api.GetUpdatesChan(u)
}

// SendMessage sends a text message
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// SendMessageWithMarkdown sends a message with markdown formatting
func (b *Bot) SendMessageWithMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := b.api.Send(msg)
	return err
}

// SendMessageWithKeyboard sends a message with inline keyboard
func (b *Bot) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	return err
}

// EditMessage edits an existing message
func (b *Bot) EditMessage(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	_, err := b.api.Send(edit)
	return err
}

// AnswerCallbackQuery answers a callback query
func (b *Bot) AnswerCallbackQuery(callbackID string, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	_, err := b.api.Send(callback)
	return err
}

// SendReminder sends a due-review reminder (implements usecases.ReminderNotifier)
func (b *Bot) SendReminder(chatID int64, text string) error {
	return b.SendMessage(chatID, text)
}

// SetupCommands configures the bot commands with BotFather
func (b *Bot) SetupCommands() error {
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "🏠 Welcome message",
		},
		{
			Command:     "practice",
			Description: "✍️ Start a conjugation drill",
		},
		{
			Command:     "due",
			Description: "⏰ Show conjugations due for review",
		},
		{
			Command:     "stats",
			Description: "📊 View your learning progress",
		},
		{
			Command:     "settings",
			Description: "⚙️ Reminders and rating prompts",
		},
		{
			Command:     "help",
			Description: "❓ Get help and instructions",
		},
	}

	setCommands := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(setCommands); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}

	b.log.Info("bot commands configured")
	return nil
}
