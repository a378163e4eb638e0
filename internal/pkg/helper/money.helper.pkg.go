package helper

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var kesPrinter = message.NewPrinter(language.English)

// FormatKES renders an amount with thousands separators, e.g. "KES 2,500".
func FormatKES(amount int64) string {
	return kesPrinter.Sprintf("KES %d", amount)
}
