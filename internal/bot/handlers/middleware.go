// Package handlers contains the Telegram command, callback, and dialogue
// handlers, along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly creates a middleware that rejects message senders outside the
// configured admin set.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			if !deps.Config.IsAdmin(userID) {
				log := deps.Logger.With("middleware", "admin_only")
				log.WarnContext(ctx, "Unauthorized admin command attempt",
					"user_id", userID, "chat_id", update.Message.Chat.ID)

				_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: update.Message.Chat.ID,
					Text:   msgNoRights,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized notice", "error", err)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
