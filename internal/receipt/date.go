package receipt

import (
	"regexp"
	"strconv"
	"time"

	"github.com/cleared-dev/txparse/internal/model"
)

var dateRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2}(?:\d{2})?)\b`)

// extractDate returns the first day/month/year date in text as YYYY-MM-DD.
// Two-digit years are taken as 20YY. Impossible dates are skipped.
func extractDate(text string) (string, bool) {
	for _, m := range dateRe.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Day() != day || int(t.Month()) != month {
			continue
		}
		return t.Format(model.DateFormat), true
	}
	return "", false
}
