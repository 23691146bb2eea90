package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/keyboards"
)

const welcomeText = "Привет! Это бот местной барахолки.\n\n" +
	"Доступно:\n" +
	"/new - подать объявление\n" +
	"/my - мои объявления\n" +
	"/search текст - поиск\n" +
	"/category - выбор категории\n" +
	"/view ID - просмотр\n" +
	"/delete ID - удалить\n"

const helpText = "Быстрые команды:\n/new\n/my\n/search телефон\n/category\n/view 123\n/delete 123"

// NewStartHandler returns a handler for the /start command. When a required
// channel is configured, access is gated behind a subscription check.
func NewStartHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	log := h.deps.Logger.With("handler", "start")
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", userID)

	if !h.isSubscribed(ctx, b, userID) {
		h.sendSubscriptionRequired(ctx, b, chatID)
		return
	}

	h.deps.sendText(ctx, b, chatID, welcomeText, keyboards.MainMenu())
}

func (h startHandler) isSubscribed(ctx context.Context, b *tgbot.Bot, userID int64) bool {
	channel := h.deps.Config.Telegram.RequiredChannel
	if channel == "" {
		return true
	}

	member, err := b.GetChatMember(ctx, &tgbot.GetChatMemberParams{
		ChatID: channel,
		UserID: userID,
	})
	if err != nil {
		h.deps.Logger.WarnContext(ctx, "Failed to check channel membership",
			"channel", channel, "user_id", userID, "error", err)
		return false
	}

	return member.Type != models.ChatMemberTypeLeft && member.Type != models.ChatMemberTypeBanned
}

func (h startHandler) sendSubscriptionRequired(ctx context.Context, b *tgbot.Bot, chatID int64) {
	text := "Чтобы продолжить, подпишитесь на канал " + h.deps.Config.Telegram.RequiredChannel +
		" и нажмите «Проверить подписку»."
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboards.SubscriptionRequired(h.deps.Config.RequiredChannelURL()),
	})
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send subscription notice", "chat_id", chatID, "error", err)
	}
}

// NewSubscriptionCheckHandler handles the "sub:check" callback of the
// subscription gate.
func NewSubscriptionCheckHandler(deps HandlerDeps) tgbot.HandlerFunc {
	h := startHandler{deps}
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		cb := update.CallbackQuery
		if cb == nil {
			return
		}

		if !h.isSubscribed(ctx, b, cb.From.ID) {
			deps.answerCallback(ctx, b, cb.ID, "Подписка не найдена. Подпишитесь и повторите.", true)
			return
		}

		deps.sendText(ctx, b, callbackChatID(cb), "Подписка подтверждена. Доступ открыт.", keyboards.MainMenu())
		deps.answerCallback(ctx, b, cb.ID, "Готово", false)
	}
}

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		deps.sendText(ctx, b, update.Message.Chat.ID, helpText, keyboards.MainMenu())
	}
}
