package handlers

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/flow"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/keyboards"
)

const myAdsLimit = 20

// NewMyAdsHandler returns a handler for the /my command listing the user's
// ads with edit/delete actions.
func NewMyAdsHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		deps.showMyAds(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
	}
}

func (h HandlerDeps) showMyAds(ctx context.Context, b *tgbot.Bot, chatID, userID int64) {
	ads, err := h.Store.GetUserAds(ctx, userID, myAdsLimit)
	if err != nil {
		h.Logger.ErrorContext(ctx, "Failed to list user ads", "user_id", userID, "error", err)
		h.sendText(ctx, b, chatID, msgSaveError, keyboards.MainMenu())
		return
	}
	if len(ads) == 0 {
		h.sendText(ctx, b, chatID, "У вас пока нет объявлений.", keyboards.MainMenu())
		return
	}

	h.sendText(ctx, b, chatID, "Ваши объявления:", keyboards.MainMenu())
	h.sendAdList(ctx, b, chatID, ads, true, func(ad *database.Ad) models.ReplyMarkup {
		return keyboards.MyAdActions(ad.ID)
	}, "Действия:")
}

// ownedAd loads an ad and verifies ownership. Absence and foreign ownership
// are indistinguishable to the caller.
func (h HandlerDeps) ownedAd(ctx context.Context, adID, userID int64) (*database.Ad, error) {
	ad, err := h.Store.GetAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	if ad == nil || ad.UserID != userID {
		return nil, nil
	}
	return ad, nil
}

// deleteOwnedAd retracts any published broadcast and soft-deletes the ad.
func (h HandlerDeps) deleteOwnedAd(ctx context.Context, adID, userID int64) (bool, error) {
	ad, err := h.ownedAd(ctx, adID, userID)
	if err != nil || ad == nil {
		return false, err
	}
	if err := h.Publisher.Retract(ctx, adID); err != nil {
		h.Logger.WarnContext(ctx, "Failed to retract ad before deletion", "ad_id", adID, "error", err)
	}
	return h.Store.DeleteUserAd(ctx, adID, userID)
}

// NewDeleteHandler returns a handler for the "/delete ID" command.
func NewDeleteHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		chatID := update.Message.Chat.ID

		adID, ok := parseIDArg(commandArg(update.Message.Text))
		if !ok {
			deps.sendText(ctx, b, chatID, "Использование: /delete ID", nil)
			return
		}

		deleted, err := deps.deleteOwnedAd(ctx, adID, update.Message.From.ID)
		if err != nil || !deleted {
			deps.sendText(ctx, b, chatID, msgDeleteFailed, nil)
			return
		}
		deps.sendText(ctx, b, chatID, "Объявление удалено.", nil)
	}
}

// NewDeleteCallbackHandler handles the "mydel:ID" callback on an owner's ad
// card.
func NewDeleteCallbackHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		cb := update.CallbackQuery
		if cb == nil {
			return
		}

		adID, ok := parseIDArg(callbackIDPart(cb.Data))
		if !ok {
			deps.answerCallback(ctx, b, cb.ID, "Некорректный ID", true)
			return
		}

		deleted, err := deps.deleteOwnedAd(ctx, adID, cb.From.ID)
		if err != nil || !deleted {
			deps.answerCallback(ctx, b, cb.ID, msgDeleteFailed, true)
			return
		}

		deps.answerCallback(ctx, b, cb.ID, "Объявление удалено", false)
		if cb.Message.Message != nil {
			_, err := b.EditMessageReplyMarkup(ctx, &tgbot.EditMessageReplyMarkupParams{
				ChatID:    cb.Message.Message.Chat.ID,
				MessageID: cb.Message.Message.ID,
			})
			if err != nil {
				deps.Logger.DebugContext(ctx, "Failed to clear ad card markup", "ad_id", adID, "error", err)
			}
		}
	}
}

// startEdit opens an edit session seeded from the stored ad.
func (h HandlerDeps) startEdit(ctx context.Context, b *tgbot.Bot, chatID int64, from *models.User, ad *database.Ad) {
	h.Sessions.Put(from.ID, flow.NewEditSession(from.ID, from.Username, ad))
	h.Logger.InfoContext(ctx, "Edit dialogue started", "user_id", from.ID, "ad_id", ad.ID)
	h.sendText(ctx, b, chatID,
		fmt.Sprintf("Текущий заголовок: %s\nВведите новый заголовок или нажмите «%s».",
			ad.Title, keyboards.BtnKeep),
		keyboards.EditStep())
}

// NewEditHandler returns a handler for the "/edit ID" command.
func NewEditHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		chatID := update.Message.Chat.ID

		adID, ok := parseIDArg(commandArg(update.Message.Text))
		if !ok {
			deps.sendText(ctx, b, chatID, "Использование: /edit ID", nil)
			return
		}

		ad, err := deps.ownedAd(ctx, adID, update.Message.From.ID)
		if err != nil || ad == nil {
			deps.sendText(ctx, b, chatID, msgNotFoundOrNoRights, nil)
			return
		}
		deps.startEdit(ctx, b, chatID, update.Message.From, ad)
	}
}

// NewEditCallbackHandler handles the "myedit:ID" callback on an owner's ad
// card.
func NewEditCallbackHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		cb := update.CallbackQuery
		if cb == nil {
			return
		}

		adID, ok := parseIDArg(callbackIDPart(cb.Data))
		if !ok {
			deps.answerCallback(ctx, b, cb.ID, "Некорректный ID", true)
			return
		}

		ad, err := deps.ownedAd(ctx, adID, cb.From.ID)
		if err != nil || ad == nil {
			deps.answerCallback(ctx, b, cb.ID, msgNotFoundOrNoRights, true)
			return
		}

		deps.startEdit(ctx, b, callbackChatID(cb), &cb.From, ad)
		deps.answerCallback(ctx, b, cb.ID, "Редактирование", false)
	}
}
