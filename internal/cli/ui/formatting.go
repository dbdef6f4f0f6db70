package ui

import (
	"fmt"
	"io"
	"time"
)

// FormatStatus возвращает иконку и цвет для статуса теста (PASS, FAIL, SKIP).
func FormatStatus(status string) (icon, color string) {
	switch status {
	case "PASS", "passed":
		return IconCheckmark, ColorGreen
	case "FAIL", "failed", "aborted":
		return IconCross, ColorRed
	case "SKIP":
		return IconSkip, ColorYellow
	default:
		return IconClock, ColorGray
	}
}

// Status печатает статус с иконкой в цвете.
func Status(status string) string {
	icon, color := FormatStatus(status)
	return color + icon + " " + status + ColorReset
}

func Duration(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}

func Errorf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ColorRed+IconCross+" "+format+ColorReset+"\n", args...)
}

func Header(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\n"+ColorBold+"=== "+format+" ==="+ColorReset+"\n", args...)
}
