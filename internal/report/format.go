package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const dateLayout = "02.01.2006"

var germanPrinter = message.NewPrinter(language.German)

// FormatEuro renders an amount the way de-DE currency formatting does, e.g. "1.234,50 €" with a no-break space.
func FormatEuro(amount float64) string {
	return germanPrinter.Sprint(number.Decimal(amount, number.Scale(2))) + "\u00a0€"
}

// FormatDate renders a calendar date as dd.mm.yyyy.
func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}

// Filename returns the download name for a trainer-month report,
// using the last word of the trainer's name.
func Filename(trainerName, month string) string {
	last := strings.TrimSpace(trainerName)
	if fields := strings.Fields(trainerName); len(fields) > 0 {
		last = fields[len(fields)-1]
	}
	return fmt.Sprintf("Abrechnung_%s_%s.xlsx", month, last)
}

func approvalLabel(approved bool) string {
	if approved {
		return "Ja"
	}
	return "Offen"
}
