package handlers

import (
	"context"
	"unicode/utf8"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/flow"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/keyboards"
)

const (
	searchLimit   = 10
	categoryLimit = 10
	minQueryRunes = 2
)

// contactMarkup is the per-card markup of public listings.
func contactMarkup(ad *database.Ad) models.ReplyMarkup {
	return keyboards.ContactAuthor(ad.Username.String, ad.UserID)
}

// NewSearchHandler returns a handler for the /search command. Without an
// argument it opens the interactive query dialogue.
func NewSearchHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		chatID := update.Message.Chat.ID

		query := commandArg(update.Message.Text)
		if query == "" {
			deps.promptSearch(ctx, b, chatID, update.Message.From.ID)
			return
		}
		deps.runSearch(ctx, b, chatID, query)
	}
}

// promptSearch opens a search session awaiting the query text.
func (h HandlerDeps) promptSearch(ctx context.Context, b *tgbot.Bot, chatID, userID int64) {
	h.Sessions.Put(userID, flow.NewSearchSession(userID))
	h.sendText(ctx, b, chatID, "Введите текст для поиска:", keyboards.Cancel())
}

// runSearch executes a full-text search over published ads and sends the
// resulting cards.
func (h HandlerDeps) runSearch(ctx context.Context, b *tgbot.Bot, chatID int64, query string) {
	ads, err := h.Store.SearchAds(ctx, query, searchLimit)
	if err != nil {
		h.Logger.ErrorContext(ctx, "Search failed", "query", query, "error", err)
		h.sendText(ctx, b, chatID, "Ничего не найдено.", keyboards.MainMenu())
		return
	}
	if len(ads) == 0 {
		h.sendText(ctx, b, chatID, "Ничего не найдено.", keyboards.MainMenu())
		return
	}

	h.sendText(ctx, b, chatID, "Найдено по запросу: "+query, nil)
	h.sendAdList(ctx, b, chatID, ads, false, contactMarkup, "Связаться с автором:")
	h.sendText(ctx, b, chatID, "Поиск завершен.", keyboards.MainMenu())
}

// handleSearchInput consumes the query text of an active search session.
func (h HandlerDeps) handleSearchInput(ctx context.Context, b *tgbot.Bot, chatID, userID int64, text string) {
	if utf8.RuneCountInString(text) < minQueryRunes {
		h.sendText(ctx, b, chatID, "Введите минимум 2 символа или нажмите «Отмена».", nil)
		return
	}
	h.Sessions.Delete(userID)
	h.runSearch(ctx, b, chatID, text)
}

// NewCategoryHandler returns a handler for the /category command offering
// the category browse keyboard.
func NewCategoryHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		deps.showCategories(ctx, b, update.Message.Chat.ID)
	}
}

func (h HandlerDeps) showCategories(ctx context.Context, b *tgbot.Bot, chatID int64) {
	h.sendText(ctx, b, chatID, "Выберите категорию:", keyboards.CategoryBrowse())
}

// listCategoryAds sends the published ads of one category.
func (h HandlerDeps) listCategoryAds(ctx context.Context, b *tgbot.Bot, chatID int64, category string) {
	ads, err := h.Store.GetAdsByCategory(ctx, category, categoryLimit)
	if err != nil {
		h.Logger.ErrorContext(ctx, "Failed to list category ads", "category", category, "error", err)
		h.sendText(ctx, b, chatID, "Ничего не найдено.", keyboards.MainMenu())
		return
	}
	if len(ads) == 0 {
		h.sendText(ctx, b, chatID, "В категории «"+category+"» пока нет объявлений.", nil)
		return
	}

	h.sendText(ctx, b, chatID, "Категория: "+category, nil)
	h.sendAdList(ctx, b, chatID, ads, false, contactMarkup, "Связаться с автором:")
}

// NewViewHandler returns a handler for the "/view ID" command. Deleted and
// rejected ads are hidden as if absent.
func NewViewHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		chatID := update.Message.Chat.ID

		adID, ok := parseIDArg(commandArg(update.Message.Text))
		if !ok {
			deps.sendText(ctx, b, chatID, "Использование: /view ID", nil)
			return
		}

		ad, err := deps.Store.GetAd(ctx, adID)
		if err != nil || ad == nil ||
			ad.Status == database.StatusDeleted || ad.Status == database.StatusRejected {
			deps.sendText(ctx, b, chatID, "Объявление не найдено.", nil)
			return
		}

		deps.sendAdList(ctx, b, chatID, []database.Ad{*ad}, true, contactMarkup, "Связаться с автором:")
	}
}
