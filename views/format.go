// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

const (
	emailMaxLength   = 30
	apiKeyVisible    = 20
	relativeDateDays = 30
)

const day = 24 * time.Hour

// relativeMagnitudes floor the elapsed time to whole units and stop at days
var relativeMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "Just now", DivBy: 1},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * day, Format: "1 day %s", DivBy: 1},
	{D: (relativeDateDays + 1) * day, Format: "%d days %s", DivBy: day},
}

// FormatNumber groups thousands: 1234567 -> "1,234,567"
func FormatNumber(n int) string {
	return humanize.Comma(int64(n))
}

// RelativeDate renders t relative to now: "Just now", "5 minutes ago",
// "3 days ago". Anything older than 30 days is shown as a short date.
func RelativeDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.After(now) {
		return "Just now"
	}
	if now.Sub(t) >= (relativeDateDays+1)*day {
		return ShortDate(t)
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", relativeMagnitudes)
}

func ShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("1/2/2006")
}

func LongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006 at 03:04 PM")
}

// ScoreColor buckets a quality score: >=71 green, >=41 yellow, else red
func ScoreColor(score int) string {
	switch {
	case score >= 71:
		return "green"
	case score >= 41:
		return "yellow"
	}
	return "red"
}

// TruncateEmail shortens the local part so the whole address fits in 30
// characters, keeping the domain intact.
func TruncateEmail(email string) string {
	if utf8.RuneCountInString(email) <= emailMaxLength {
		return email
	}

	user, domain, ok := strings.Cut(email, "@")
	if !ok {
		return string([]rune(email)[:emailMaxLength-3]) + "..."
	}

	keep := max(1, emailMaxLength-utf8.RuneCountInString(domain)-5)
	runes := []rune(user)
	if keep < len(runes) {
		runes = runes[:keep]
	}
	return string(runes) + "...@" + domain
}

// MaskAPIKey shows the first 20 characters of key
func MaskAPIKey(key string) string {
	if len(key) <= apiKeyVisible {
		return key
	}
	return key[:apiKeyVisible] + "..."
}

// PercentOf returns n as a whole percentage of total, capped at 100
func PercentOf(n, total int) int {
	if total <= 0 || n <= 0 {
		return 0
	}
	return min(100, n*100/total)
}
