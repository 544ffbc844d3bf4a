package donation

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// currencySymbols covers the currencies the widget is commonly configured
// with. Unknown codes fall back to the uppercased ISO code as a prefix.
var currencySymbols = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"jpy": "¥",
	"aud": "A$",
	"cad": "CA$",
}

// FormatCurrency renders an amount as a display string with two decimal
// places and locale-aware digit grouping, e.g. FormatCurrency(1234.5, "usd")
// returns "$1,234.50".
func FormatCurrency(amount float64, currency string) string {
	code := strings.ToLower(currency)
	if code == "" {
		code = DefaultCurrency
	}

	p := message.NewPrinter(language.AmericanEnglish)
	if sym, ok := currencySymbols[code]; ok {
		return p.Sprintf("%s%.2f", sym, amount)
	}
	return p.Sprintf("%s %.2f", strings.ToUpper(code), amount)
}
