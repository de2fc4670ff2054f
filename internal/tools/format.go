package tools

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer with English number grouping; the agent's system prompt asks for
// comma-grouped figures, so tool summaries arrive pre-formatted.
var numberPrinter = message.NewPrinter(language.English)

func formatUSD(v float64) string {
	return numberPrinter.Sprintf("$%.2f", v)
}

func formatPercent(v float64) string {
	return numberPrinter.Sprintf("%.2f%%", v)
}
