package format_test

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/format"
)

func TestEscapeMarkdownV2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "Продам диван", want: "Продам диван"},
		{name: "punctuation escaped", input: "Цена: 1500! (торг)", want: `Цена: 1500\! \(торг\)`},
		{name: "markdown markers escaped", input: "*bold* _italic_ `code`", want: "\\*bold\\* \\_italic\\_ \\`code\\`"},
		{name: "dots and dashes escaped", input: "т.е. б/у - норм", want: `т\.е\. б/у \- норм`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := format.EscapeMarkdownV2(tt.input); got != tt.want {
				t.Errorf("EscapeMarkdownV2(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func sampleAd() *database.Ad {
	return &database.Ad{
		ID:          1,
		UserID:      42,
		Username:    sql.NullString{String: "seller", Valid: true},
		Title:       "Диван",
		Description: "Почти новый.",
		PriceText:   "1500 ₽",
		Category:    "Мебель",
		City:        "Центр",
		Status:      database.StatusPublished,
	}
}

func TestAdCard(t *testing.T) {
	t.Parallel()

	text := format.Ad(sampleAd(), false)

	for _, want := range []string{"*Диван*", "Категория: Мебель", "Цена: 1500 ₽", "Город/район: Центр"} {
		if !strings.Contains(text, want) {
			t.Errorf("card missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(text, `Опубликовал: @seller`) {
		t.Errorf("card missing author line:\n%s", text)
	}
	if strings.Contains(text, "Статус") {
		t.Errorf("status line present without withStatus:\n%s", text)
	}
	if strings.Contains(text, "Телефон") {
		t.Errorf("phone line present for ad without phone:\n%s", text)
	}
}

func TestAdCardWithStatusAndPhone(t *testing.T) {
	t.Parallel()

	ad := sampleAd()
	ad.Phone = sql.NullString{String: "+79990000000", Valid: true}
	text := format.Ad(ad, true)

	if !strings.Contains(text, "Телефон: \\+79990000000") {
		t.Errorf("card missing escaped phone:\n%s", text)
	}
	if !strings.Contains(text, "Статус: Опубликовано") {
		t.Errorf("card missing status line:\n%s", text)
	}
}

func TestAdCardEscapesUserContent(t *testing.T) {
	t.Parallel()

	ad := sampleAd()
	ad.Title = "Диван! (б/у)"
	text := format.Ad(ad, false)

	if !strings.Contains(text, `*Диван\! \(б/у\)*`) {
		t.Errorf("title not escaped:\n%s", text)
	}
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status database.Status
		want   string
	}{
		{database.StatusPending, "На модерации"},
		{database.StatusPublished, "Опубликовано"},
		{database.StatusRejected, "Отклонено"},
		{database.StatusDeleted, "Удалено"},
		{database.StatusDraft, "Черновик"},
		{database.Status("mystery"), "mystery"},
	}
	for _, tt := range tests {
		if got := format.StatusLabel(tt.status); got != tt.want {
			t.Errorf("StatusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestDraftPreviewMatchesStoredRendering(t *testing.T) {
	t.Parallel()

	price := 1500.0
	draft := &database.AdDraft{
		UserID:      42,
		Username:    "seller",
		Title:       "Диван",
		Description: "Почти новый.",
		PriceText:   "1500 ₽",
		PriceValue:  &price,
		Category:    "Мебель",
		City:        "Центр",
	}

	if got, want := format.DraftPreview(draft), format.Ad(sampleAd(), false); got != want {
		t.Errorf("preview diverges from stored rendering:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPluralRu(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want string
	}{
		{1, "объявление"},
		{2, "объявления"},
		{3, "объявления"},
		{4, "объявления"},
		{5, "объявлений"},
		{11, "объявлений"},
		{12, "объявлений"},
		{14, "объявлений"},
		{21, "объявление"},
		{22, "объявления"},
		{25, "объявлений"},
		{100, "объявлений"},
		{101, "объявление"},
		{111, "объявлений"},
	}
	for _, tt := range tests {
		got := format.PluralRu(tt.n, "объявление", "объявления", "объявлений")
		if got != tt.want {
			t.Errorf("PluralRu(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
