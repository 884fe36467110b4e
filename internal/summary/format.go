// Package summary renders the final page: escaped text, Italian dates, the
// copyable invitation and a shareable PNG card.
package summary

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-significant characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var italianWeekdays = [...]string{
	time.Sunday:    "domenica",
	time.Monday:    "lunedì",
	time.Tuesday:   "martedì",
	time.Wednesday: "mercoledì",
	time.Thursday:  "giovedì",
	time.Friday:    "venerdì",
	time.Saturday:  "sabato",
}

var italianMonths = [...]string{
	"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
	"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
}

// FormatDate renders "YYYY-MM-DD" as a long Italian date such as
// "sabato 14 febbraio 2026". Missing, empty or zero month and day default to
// 1 and out of range values roll over. Unparseable input is returned
// unchanged.
func FormatDate(yyyyMMdd string) string {
	if yyyyMMdd == "" {
		return ""
	}

	parts := strings.Split(yyyyMMdd, "-")
	nums := []int{0, 1, 1}
	for i := 0; i < len(parts) && i < len(nums); i++ {
		n := 0
		if p := strings.TrimSpace(parts[i]); p != "" {
			var err error
			if n, err = strconv.Atoi(p); err != nil {
				return yyyyMMdd
			}
		}
		if i > 0 && n == 0 {
			n = 1
		}
		nums[i] = n
	}
	// Two-digit years are read as 19xx.
	if nums[0] >= 0 && nums[0] < 100 {
		nums[0] += 1900
	}

	dt := time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC)
	return fmt.Sprintf("%s %02d %s %d",
		italianWeekdays[dt.Weekday()], dt.Day(), italianMonths[dt.Month()-1], dt.Year())
}
