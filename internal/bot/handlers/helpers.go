package handlers

import (
	"context"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/format"
)

// User-facing message texts. The authorization texts deliberately do not
// distinguish "not found" from "not yours".
const (
	msgNoRights           = "Недостаточно прав."
	msgNotFoundOrNoRights = "Нет прав или ID не найден."
	msgDeleteFailed       = "Не удалось удалить: нет прав или ID не найден."
	msgSaveError          = "Ошибка при сохранении объявления. Попробуйте позже."
	msgMainMenu           = "Главное меню."
)

// commandArg extracts the argument of a "/cmd arg" message, or "" when the
// command has none.
func commandArg(text string) string {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// parseIDArg parses a positive numeric id argument.
func parseIDArg(arg string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// callbackIDPart extracts the trailing id segment of a "prefix:id" callback.
func callbackIDPart(data string) string {
	idx := strings.LastIndexByte(data, ':')
	if idx < 0 {
		return ""
	}
	return data[idx+1:]
}

// sendText is a small wrapper for plain-text replies; send failures are
// logged and otherwise ignored, matching the non-fatal transport policy.
func (h HandlerDeps) sendText(ctx context.Context, b *tgbot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.Logger.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}

// sendAdList sends one card per ad. makeMarkup may be nil for plain
// listings.
func (h HandlerDeps) sendAdList(ctx context.Context, b *tgbot.Bot, chatID int64, ads []database.Ad, withStatus bool, makeMarkup func(ad *database.Ad) models.ReplyMarkup, albumFollowup string) {
	for i := range ads {
		ad := &ads[i]
		var markup models.ReplyMarkup
		if makeMarkup != nil {
			markup = makeMarkup(ad)
		}
		text := format.Ad(ad, withStatus)
		if _, err := h.Publisher.SendAdCard(ctx, chatID, ad, text, markup, albumFollowup); err != nil {
			h.Logger.WarnContext(ctx, "Failed to send ad card", "ad_id", ad.ID, "chat_id", chatID, "error", err)
		}
	}
}

// answerCallback acknowledges a callback query, optionally as an alert.
func (h HandlerDeps) answerCallback(ctx context.Context, b *tgbot.Bot, callbackID, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.Logger.WarnContext(ctx, "Failed to answer callback query", "error", err)
	}
}

// callbackChatID resolves the chat a callback originated from, falling back
// to the user's private chat when the message is inaccessible.
func callbackChatID(cb *models.CallbackQuery) int64 {
	if cb.Message.Message != nil {
		return cb.Message.Message.Chat.ID
	}
	if cb.Message.InaccessibleMessage != nil {
		return cb.Message.InaccessibleMessage.Chat.ID
	}
	return cb.From.ID
}
