package handlers

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/flow"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/format"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/keyboards"
)

const promptTitle = "Введите заголовок (до 100 символов):"

// NewNewAdHandler returns a handler for the /new command, starting the ad
// creation dialogue.
func NewNewAdHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		deps.startCreation(ctx, b, update.Message.Chat.ID, update.Message.From)
	}
}

// startCreation opens a creation session after the daily limit check. Any
// active session of the user is discarded.
func (h HandlerDeps) startCreation(ctx context.Context, b *tgbot.Bot, chatID int64, from *models.User) {
	log := h.Logger.With("handler", "new_ad")

	used, err := h.Store.CountRecentAds(ctx, from.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to count recent ads", "user_id", from.ID, "error", err)
		h.sendText(ctx, b, chatID, msgSaveError, keyboards.MainMenu())
		return
	}
	limit := h.Config.Limits.DailyAds
	if used >= limit {
		h.sendText(ctx, b, chatID,
			fmt.Sprintf("Лимит: %d %s за 24 часа.",
				limit, format.PluralRu(limit, "объявление", "объявления", "объявлений")),
			keyboards.MainMenu())
		return
	}

	h.Sessions.Put(from.ID, flow.NewCreateSession(from.ID, from.Username))
	log.InfoContext(ctx, "Creation dialogue started", "user_id", from.ID)
	h.sendText(ctx, b, chatID, promptTitle, keyboards.Cancel())
}
