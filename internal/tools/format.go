package tools

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func dollars(cents int64) float64 {
	return float64(cents) / 100
}

// usd renders whole dollar amounts without decimals, e.g. "$1,499".
func usd(cents int64) string {
	if cents%100 == 0 {
		return printer.Sprintf("$%d", cents/100)
	}
	return printer.Sprintf("$%.2f", dollars(cents))
}

// formatCard keeps the digits and groups them in fours.
func formatCard(number string) string {
	var b strings.Builder
	n := 0
	for _, r := range number {
		if r < '0' || r > '9' {
			continue
		}
		if n > 0 && n%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return printer.Sprintf("%d %s", n, word)
	}
	return printer.Sprintf("%d %ss", n, word)
}

func upperOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return strings.ToUpper(s)
}
