package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
)

const pendingListLimit = 20

// NewAdminPanelHandler returns a handler for the /admin command listing
// pending ads. Authorization is enforced by the AdminOnly middleware.
func NewAdminPanelHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		chatID := update.Message.Chat.ID

		pending, err := deps.Store.ListAds(ctx, database.StatusPending, pendingListLimit)
		if err != nil {
			deps.Logger.ErrorContext(ctx, "Failed to list pending ads", "error", err)
			deps.sendText(ctx, b, chatID, msgSaveError, nil)
			return
		}
		if len(pending) == 0 {
			deps.sendText(ctx, b, chatID, "Нет объявлений на модерации.", nil)
			return
		}

		lines := make([]string, 0, len(pending)+1)
		lines = append(lines, "Pending объявления:")
		for _, ad := range pending {
			username := ad.Username.String
			if username == "" {
				username = "no_username"
			}
			lines = append(lines, fmt.Sprintf("#%d | %s | @%s", ad.ID, ad.Title, username))
		}
		deps.sendText(ctx, b, chatID, strings.Join(lines, "\n"), nil)
	}
}

// NewModerationCallbackHandler handles the "ad:ap:ID" and "ad:rj:ID"
// moderation callbacks. Middleware does not see callback queries, so the
// admin check happens here.
func NewModerationCallbackHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		cb := update.CallbackQuery
		if cb == nil {
			return
		}

		if !deps.Config.IsAdmin(cb.From.ID) {
			deps.Logger.WarnContext(ctx, "Unauthorized moderation callback", "user_id", cb.From.ID)
			deps.answerCallback(ctx, b, cb.ID, msgNoRights, true)
			return
		}

		parts := strings.Split(cb.Data, ":")
		if len(parts) != 3 {
			deps.answerCallback(ctx, b, cb.ID, "Некорректный ID", true)
			return
		}
		action := parts[1]
		adID, ok := parseIDArg(parts[2])
		if !ok {
			deps.answerCallback(ctx, b, cb.ID, "Некорректный ID", true)
			return
		}

		var target database.Status
		switch action {
		case "ap":
			target = database.StatusPublished
		case "rj":
			target = database.StatusRejected
		default:
			deps.answerCallback(ctx, b, cb.ID, "Некорректный ID", true)
			return
		}

		ad, err := deps.Store.GetAd(ctx, adID)
		if err != nil || ad == nil {
			deps.answerCallback(ctx, b, cb.ID, "Не найдено", true)
			return
		}
		if !ad.Status.CanTransitionTo(target) {
			deps.answerCallback(ctx, b, cb.ID, "Объявление уже обработано.", true)
			return
		}

		log := deps.Logger.With("handler", "moderation", "ad_id", adID, "admin_id", cb.From.ID)

		switch action {
		case "ap":
			if err := deps.Publisher.Approve(ctx, ad); err != nil {
				log.WarnContext(ctx, "Failed to publish approved ad", "error", err)
				deps.answerCallback(ctx, b, cb.ID,
					"Не удалось опубликовать в канал: проверьте PUBLICATION_CHAT_ID и права бота.", true)
				return
			}
			log.InfoContext(ctx, "Ad approved")
			deps.sendText(ctx, b, ad.UserID, fmt.Sprintf("Ваше объявление #%d одобрено.", ad.ID), nil)
			deps.answerCallback(ctx, b, cb.ID, "Approved", false)

		case "rj":
			if err := deps.Publisher.Reject(ctx, adID); err != nil {
				log.ErrorContext(ctx, "Failed to reject ad", "error", err)
				deps.answerCallback(ctx, b, cb.ID, msgSaveError, true)
				return
			}
			log.InfoContext(ctx, "Ad rejected")
			deps.sendText(ctx, b, ad.UserID, fmt.Sprintf("Ваше объявление #%d отклонено.", ad.ID), nil)
			deps.answerCallback(ctx, b, cb.ID, "Rejected", false)
		}
	}
}
