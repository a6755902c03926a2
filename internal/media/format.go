package media

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// FormatDuration renders seconds as hh:mm:ss. Non-finite input renders as
// --:--:--; negative input clamps to zero.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "--:--:--"
	}
	total := int64(math.Round(math.Max(0, seconds)))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatClipDuration renders a clip duration, or --:--:-- when unknown.
func FormatClipDuration(d time.Duration) string {
	if d <= 0 {
		return "--:--:--"
	}
	return FormatDuration(d.Seconds())
}

// FormatNumber groups digits the way the UI shows counts (1,234).
func FormatNumber(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// FormatCount renders a clip count label.
func FormatCount(n int) string {
	if n == 1 {
		return "1 clip"
	}
	return FormatNumber(n) + " clips"
}
