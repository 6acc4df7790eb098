package utils

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders v with thousands separators and two decimals, e.g. $12,345.60.
func FormatMoney(v float64) string {
	if v < 0 {
		return printer.Sprintf("-$%.2f", -v)
	}

	return printer.Sprintf("$%.2f", v)
}

func FormatNumber(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}
