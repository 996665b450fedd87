// Package templates renders the bilingual customer-facing messages.
package templates

import (
	"errors"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Language string

const (
	Myanmar Language = "myanmar"
	English Language = "english"
	Both    Language = "both"
)

const bilingualSeparator = "\n\n"

// Placeholder names understood by Substitute.
const (
	PlaceholderOrderID         = "orderId"
	PlaceholderTotalAmount     = "totalAmount"
	PlaceholderDeliveryAddress = "deliveryAddress"
)

var ErrUnknownTemplate = errors.New("unknown template")

// ParseLanguage maps a request value to a Language. Anything unrecognised
// renders both languages.
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case Myanmar:
		return Myanmar
	case English:
		return English
	default:
		return Both
	}
}

// Vars maps placeholder names (without braces) to their values.
type Vars map[string]string

// Substitute replaces every {name} occurrence for the names present in vars.
// Placeholders without a value are left as they are.
func Substitute(text string, vars Vars) string {
	if len(vars) == 0 {
		return text
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Bilingual holds the two renderings of one message.
type Bilingual struct {
	Myanmar string
	English string
}

// Render returns the text for lang with vars substituted. Both puts the
// Myanmar text first.
func (b Bilingual) Render(lang Language, vars Vars) string {
	switch lang {
	case Myanmar:
		return Substitute(b.Myanmar, vars)
	case English:
		return Substitute(b.English, vars)
	default:
		return Substitute(b.Myanmar, vars) + bilingualSeparator + Substitute(b.English, vars)
	}
}

// Keyed is a status-keyed template set with a fallback entry.
type Keyed struct {
	Entries  map[string]Bilingual
	Fallback string
}

// Get returns the entry for key, or the fallback entry when key is unknown.
func (k Keyed) Get(key string) Bilingual {
	if b, ok := k.Entries[key]; ok {
		return b
	}
	return k.Entries[k.Fallback]
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators, dropping the
// fraction for whole numbers.
func FormatAmount(amount float64) string {
	if amount == math.Trunc(amount) && math.Abs(amount) < 1e15 {
		return amountPrinter.Sprintf("%d", int64(amount))
	}
	return amountPrinter.Sprintf("%.2f", amount)
}
