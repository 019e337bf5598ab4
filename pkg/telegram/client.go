package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram limits messages to 4096 characters; keep a safety margin.
const maxMessageLen = 4000

// Notifier defines the interface for a Telegram notifier.
type Notifier interface {
	SendMessage(text string) error
}

// Client is an implementation of Notifier that also exposes the
// long-polling update channel for the bot command surface.
type Client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewClient creates a new Telegram client.
func NewClient(botToken string, chatID int64) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Client{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// ChatID returns the configured destination chat.
func (c *Client) ChatID() int64 {
	return c.chatID
}

// SendMessage sends a MarkdownV2 message to the configured Telegram chat,
// splitting it when it exceeds the Telegram message length limit.
func (c *Client) SendMessage(text string) error {
	for _, part := range SplitMessage(text, maxMessageLen) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		msg := tgbotapi.NewMessage(c.chatID, part)
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		msg.DisableWebPagePreview = true
		if _, err := c.bot.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

// Updates opens the long-polling update channel.
func (c *Client) Updates(timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	return c.bot.GetUpdatesChan(u)
}

// StopReceivingUpdates closes the update channel.
func (c *Client) StopReceivingUpdates() {
	c.bot.StopReceivingUpdates()
}
