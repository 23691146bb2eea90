package flow

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field bounds for dialogue input.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 2000
	MaxCityLen        = 100
	MaxPhoneLen       = 30
	MaxPhotos         = 4
)

// Categories is the fixed set of ad categories. Users pick one with a
// keyboard button; anything else is rejected.
var Categories = []string{
	"Одежда",
	"Электроника",
	"Мебель",
	"Транспорт",
	"Детские товары",
	"Животные",
	"Услуги",
	"Другое",
}

// ValidCategory reports whether category is one of the fixed set.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidateTitle trims and bounds-checks an ad title.
func ValidateTitle(raw string) (string, bool) {
	title := strings.TrimSpace(raw)
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLen {
		return "", false
	}
	return title, true
}

// ValidateDescription trims and bounds-checks an ad description.
func ValidateDescription(raw string) (string, bool) {
	description := strings.TrimSpace(raw)
	if description == "" || utf8.RuneCountInString(description) > MaxDescriptionLen {
		return "", false
	}
	return description, true
}

// ValidateCity trims and bounds-checks a city/district value.
func ValidateCity(raw string) (string, bool) {
	city := strings.TrimSpace(raw)
	if city == "" || utf8.RuneCountInString(city) > MaxCityLen {
		return "", false
	}
	return city, true
}

// ValidatePhone trims and bounds-checks a free-text phone value.
func ValidatePhone(raw string) (string, bool) {
	phone := strings.TrimSpace(raw)
	if utf8.RuneCountInString(phone) > MaxPhoneLen {
		return "", false
	}
	return phone, true
}

// freeTextPrices maps recognized non-numeric price tokens to themselves;
// matching is case-insensitive and the canonical label is capitalized.
var freeTextPrices = map[string]struct{}{
	"договорная": {},
	"бесплатно":  {},
}

var numericPrice = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ParsePrice parses a price step input. Recognized free-text tokens map to
// a canonical label with no numeric value; otherwise the input must be
// digits with an optional 1-2 digit decimal part (comma or space accepted
// as separators), producing a display string in rubles and a numeric value.
func ParsePrice(raw string) (string, *float64, bool) {
	txt := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := freeTextPrices[txt]; ok {
		return capitalize(txt), nil, true
	}

	normalized := strings.ReplaceAll(txt, " ", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	if !numericPrice.MatchString(normalized) {
		return "", nil, false
	}

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return "", nil, false
	}
	return normalized + " ₽", &value, true
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
