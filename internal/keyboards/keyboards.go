// Package keyboards builds the reply and inline keyboards used by the
// dialogue and moderation flows.
package keyboards

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/flow"
)

// Reply keyboard button labels. Handlers match incoming text against these.
const (
	BtnNewAd      = "📝 Подать объявление"
	BtnMyAds      = "📂 Мои объявления"
	BtnSearch     = "🔎 Поиск"
	BtnCategories = "🗂 Категории"
	BtnHelp       = "ℹ️ Помощь"
	BtnCancel     = "❌ Отмена"
	BtnDone       = "✅ Готово"
	BtnSkipPhoto  = "⏭ Пропустить фото"
	BtnPublish    = "🚀 Опубликовать"
	BtnBack       = "⬅️ Назад"
	BtnKeep       = "Оставить как есть"
	BtnSkipPhone  = "Пропустить телефон"
	BtnClearPhone = "Убрать телефон"
)

func replyKeyboard(rows [][]models.KeyboardButton) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true}
}

// MainMenu is the idle-state reply keyboard.
func MainMenu() *models.ReplyKeyboardMarkup {
	return replyKeyboard([][]models.KeyboardButton{
		{{Text: BtnNewAd}, {Text: BtnMyAds}},
		{{Text: BtnSearch}, {Text: BtnCategories}},
		{{Text: BtnHelp}},
	})
}

// Cancel offers only the cancel action.
func Cancel() *models.ReplyKeyboardMarkup {
	return replyKeyboard([][]models.KeyboardButton{
		{{Text: BtnCancel}},
	})
}

// CategorySelect lists all categories for the dialogue's category step.
func CategorySelect() *models.ReplyKeyboardMarkup {
	rows := make([][]models.KeyboardButton, 0, len(flow.Categories)+1)
	for _, category := range flow.Categories {
		rows = append(rows, []models.KeyboardButton{{Text: category}})
	}
	rows = append(rows, []models.KeyboardButton{{Text: BtnCancel}})
	return replyKeyboard(rows)
}

// CategoryBrowse lists all categories for browsing published ads.
func CategoryBrowse() *models.ReplyKeyboardMarkup {
	rows := make([][]models.KeyboardButton, 0, len(flow.Categories)+1)
	for _, category := range flow.Categories {
		rows = append(rows, []models.KeyboardButton{{Text: category}})
	}
	rows = append(rows, []models.KeyboardButton{{Text: BtnBack}})
	return replyKeyboard(rows)
}

// Photos is shown while collecting photos.
func Photos() *models.ReplyKeyboardMarkup {
	return replyKeyboard([][]models.KeyboardButton{
		{{Text: BtnDone}, {Text: BtnSkipPhoto}},
		{{Text: BtnCancel}},
	})
}

// PhoneOptional is shown on the creation phone step.
func PhoneOptional() *models.ReplyKeyboardMarkup {
	return replyKeyboard([][]models.KeyboardButton{
		{{Text: BtnSkipPhone}, {Text: BtnCancel}},
	})
}

// Confirm is shown on the confirmation step.
func Confirm() *models.ReplyKeyboardMarkup {
	return replyKeyboard([][]models.KeyboardButton{
		{{Text: BtnPublish}, {Text: BtnCancel}},
	})
}

// EditStep offers the per-step "keep current value" shortcut of the edit flow.
func EditStep() *models.ReplyKeyboardMarkup {
	return replyKeyboard([][]models.KeyboardButton{
		{{Text: BtnKeep}, {Text: BtnCancel}},
	})
}

// EditPhone adds the phone-specific "clear" shortcut.
func EditPhone() *models.ReplyKeyboardMarkup {
	return replyKeyboard([][]models.KeyboardButton{
		{{Text: BtnKeep}, {Text: BtnClearPhone}},
		{{Text: BtnCancel}},
	})
}

// ContactAuthor links to the ad's author, by username when available.
func ContactAuthor(username string, userID int64) *models.InlineKeyboardMarkup {
	url := fmt.Sprintf("tg://user?id=%d", userID)
	if username != "" {
		url = "https://t.me/" + username
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "💬 Связаться с автором", URL: url}},
		},
	}
}

// AdminModeration offers approve/reject actions for a pending ad.
func AdminModeration(adID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ Approve", CallbackData: fmt.Sprintf("ad:ap:%d", adID)},
				{Text: "❌ Reject", CallbackData: fmt.Sprintf("ad:rj:%d", adID)},
			},
		},
	}
}

// MyAdActions offers edit/delete actions on an owner's ad card.
func MyAdActions(adID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Редактировать", CallbackData: fmt.Sprintf("myedit:%d", adID)},
				{Text: "Удалить", CallbackData: fmt.Sprintf("mydel:%d", adID)},
			},
		},
	}
}

// SubscriptionRequired points at the required channel and offers a re-check.
func SubscriptionRequired(channelURL string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "📢 Подписаться на канал", URL: channelURL}},
			{{Text: "✅ Проверить подписку", CallbackData: "sub:check"}},
		},
	}
}
