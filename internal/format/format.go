// Package format renders ad cards as Telegram MarkdownV2 text.
package format

import (
	"strings"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
)

// mdv2Special is the character set MarkdownV2 requires escaping for.
const mdv2Special = `_*[]()~` + "`" + `>#+-=|{}.!`

var escaper = buildEscaper()

func buildEscaper() *strings.Replacer {
	pairs := make([]string, 0, len(mdv2Special)*2)
	for _, ch := range mdv2Special {
		pairs = append(pairs, string(ch), `\`+string(ch))
	}
	return strings.NewReplacer(pairs...)
}

// EscapeMarkdownV2 escapes all MarkdownV2 special characters in text.
func EscapeMarkdownV2(text string) string {
	return escaper.Replace(text)
}

var statusLabels = map[database.Status]string{
	database.StatusPending:   "На модерации",
	database.StatusPublished: "Опубликовано",
	database.StatusRejected:  "Отклонено",
	database.StatusDeleted:   "Удалено",
	database.StatusDraft:     "Черновик",
}

// StatusLabel returns the user-facing Russian label for a status.
func StatusLabel(status database.Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// PluralRu picks the Russian noun form for n: one ("объявление"),
// few ("объявления"), many ("объявлений"). Teens always take many.
func PluralRu(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n%100 >= 11 && n%100 <= 14:
		return many
	case n%10 == 1:
		return one
	case n%10 >= 2 && n%10 <= 4:
		return few
	default:
		return many
	}
}

// Ad renders an ad card. withStatus appends the status line, used for
// owner and moderation views.
func Ad(ad *database.Ad, withStatus bool) string {
	parts := []string{
		"*" + EscapeMarkdownV2(ad.Title) + "*",
		"",
		"Категория: " + EscapeMarkdownV2(ad.Category),
		"Цена: " + EscapeMarkdownV2(ad.PriceText),
		"Город/район: " + EscapeMarkdownV2(ad.City),
		"",
		EscapeMarkdownV2(ad.Description),
	}
	if ad.Phone.Valid && ad.Phone.String != "" {
		parts = append(parts, "\nТелефон: "+EscapeMarkdownV2(ad.Phone.String))
	}
	if ad.Username.Valid && ad.Username.String != "" {
		parts = append(parts, EscapeMarkdownV2("Опубликовал: @"+ad.Username.String))
	}
	if withStatus {
		parts = append(parts, "Статус: "+EscapeMarkdownV2(StatusLabel(ad.Status)))
	}
	return strings.Join(parts, "\n")
}

// DraftPreview renders a confirmation preview from staged dialogue fields.
func DraftPreview(draft *database.AdDraft) string {
	return Ad(PreviewAd(draft), false)
}

// PreviewAd materializes staged dialogue fields as a draft-status ad for
// rendering. The draft status never reaches storage.
func PreviewAd(draft *database.AdDraft) *database.Ad {
	ad := &database.Ad{
		UserID:      draft.UserID,
		Title:       draft.Title,
		Description: draft.Description,
		PriceText:   draft.PriceText,
		Category:    draft.Category,
		City:        draft.City,
		Photos:      database.StringList(draft.Photos),
		Status:      database.StatusDraft,
	}
	if draft.Username != "" {
		ad.Username.String = draft.Username
		ad.Username.Valid = true
	}
	if draft.Phone != "" {
		ad.Phone.String = draft.Phone
		ad.Phone.Valid = true
	}
	if draft.PriceValue != nil {
		ad.PriceValue.Float64 = *draft.PriceValue
		ad.PriceValue.Valid = true
	}
	return ad
}
