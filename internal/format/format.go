// Package format renders prices and percentages for a display locale.
package format

import (
	"strings"

	"github.com/bojanz/currency"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FallbackLocale is used whenever a locale string cannot be parsed.
const FallbackLocale = "en-US"

var fallbackTag = language.MustParse(FallbackLocale)

// Locale parses a BCP 47 tag, falling back to en-US on any error.
func Locale(locale string) language.Tag {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return fallbackTag
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fallbackTag
	}
	return tag
}

// FmtCurrency formats amount in major units with the locale's CLDR currency
// pattern, so symbol position and spacing follow the locale:
// FmtCurrency(5.7, "USD", "en-US") => "$5.70", FmtCurrency(5.7, "EUR", "de-DE") => "5,70 €".
// Unknown codes render as "<CODE> <amount>"; unknown locales use en-US.
func FmtCurrency(amount decimal.Decimal, code, locale string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	digits, ok := currency.GetDigits(code)
	if !ok {
		return code + " " + amount.StringFixed(2)
	}
	value, err := currency.NewAmount(amount.RoundBank(int32(digits)).StringFixed(int32(digits)), code)
	if err != nil {
		return code + " " + amount.StringFixed(2)
	}
	f := currency.NewFormatter(currency.NewLocale(Locale(locale).String()))
	return f.Format(value)
}

// FmtPercent formats a fraction such as 0.4 as a localized percentage ("40%").
func FmtPercent(fraction decimal.Decimal, locale string) string {
	p := message.NewPrinter(Locale(locale))
	return p.Sprint(number.Percent(fraction.InexactFloat64()))
}
