package bot

import (
	"context"
	"strings"

	"golang-etf-news-bot/internal/service"
	"golang-etf-news-bot/pkg/common"
	"golang-etf-news-bot/pkg/logger"
	"golang-etf-news-bot/pkg/telegram"
	"golang-etf-news-bot/pkg/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client is the slice of the Telegram client the command handler needs.
// *telegram.Client satisfies it.
type Client interface {
	SendMessage(text string) error
	Updates(timeout int) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	ChatID() int64
}

// Handler consumes Telegram updates and dispatches bot commands.
type Handler struct {
	client        Client
	digestService service.DigestService
	pollTimeout   int
	logger        *logger.Logger
}

// NewHandler creates a new bot command handler.
func NewHandler(client Client, digestService service.DigestService, pollTimeout int, log *logger.Logger) *Handler {
	return &Handler{
		client:        client,
		digestService: digestService,
		pollTimeout:   pollTimeout,
		logger:        log,
	}
}

// Start consumes the update channel until the context is cancelled.
// Commands from chats other than the configured destination are ignored.
func (h *Handler) Start(ctx context.Context) {
	updates := h.client.Updates(h.pollTimeout)
	h.logger.Info("Bot command handler started")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Bot command handler stopping")
			h.client.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}
	if update.Message.Chat.ID != h.client.ChatID() {
		h.logger.Warn("Ignoring command from unexpected chat",
			logger.Field("chat_id", update.Message.Chat.ID),
		)
		return
	}

	command := strings.ToLower(update.Message.Command())
	h.logger.Info("Received bot command", logger.StringField("command", command))

	switch command {
	case common.BotCommandStart:
		if err := h.client.SendMessage(telegram.FormatWelcomeMessage()); err != nil {
			h.logger.Error("Failed to send welcome message", logger.ErrorField(err))
		}
	case common.BotCommandGetNews:
		// Run off the poll loop so long digests do not stall updates.
		utils.GoSafe(func() {
			if _, err := h.digestService.Run(ctx); err != nil {
				h.logger.Error("On-demand digest run failed", logger.ErrorField(err))
			}
		})
	}
}
