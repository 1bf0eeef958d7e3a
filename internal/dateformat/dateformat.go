// Package dateformat formats the current time for {DATE:...} placeholders.
package dateformat

import (
	"strconv"
	"strings"
	"time"

	"github.com/prettymuchbryce/autorename/internal/config"

	"github.com/itchyny/timefmt-go"
)

// Formatter formats the current time with a pattern.
// The pattern syntax depends on the implementation.
type Formatter interface {
	Format(pattern string) string
}

// New returns the formatter for the configured date style.
func New(style config.DateStyle) Formatter {
	if style == config.DateStyleStrftime {
		return &Strftime{}
	}
	return &Moment{}
}

// Strftime formats with strftime directives (%Y, %m, %d, ...).
type Strftime struct {
	Now func() time.Time // nil means time.Now
}

// Format implements Formatter.
func (s *Strftime) Format(pattern string) string {
	return timefmt.Format(clock(s.Now)(), pattern)
}

// Moment formats with Moment.js-style tokens (YYYY, MM, DD, ...).
// Text inside square brackets is copied verbatim.
type Moment struct {
	Now func() time.Time // nil means time.Now
}

// Format implements Formatter.
func (m *Moment) Format(pattern string) string {
	now := clock(m.Now)()
	return timefmt.Format(now, translate(pattern, now))
}

func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

// momentTokens maps Moment tokens to strftime directives, longest first.
// Tokens without a directive are computed and inserted as literal text.
var momentTokens = []struct {
	token     string
	directive string
	literal   func(t time.Time) string
}{
	{token: "YYYY", directive: "%Y"},
	{token: "YY", directive: "%y"},
	{token: "MMMM", directive: "%B"},
	{token: "MMM", directive: "%b"},
	{token: "MM", directive: "%m"},
	{token: "M", literal: func(t time.Time) string { return strconv.Itoa(int(t.Month())) }},
	{token: "DDDD", directive: "%j"},
	{token: "DDD", literal: func(t time.Time) string { return strconv.Itoa(t.YearDay()) }},
	{token: "Do", literal: func(t time.Time) string { return ordinal(t.Day()) }},
	{token: "DD", directive: "%d"},
	{token: "D", literal: func(t time.Time) string { return strconv.Itoa(t.Day()) }},
	{token: "dddd", directive: "%A"},
	{token: "ddd", directive: "%a"},
	{token: "d", literal: func(t time.Time) string { return strconv.Itoa(int(t.Weekday())) }},
	{token: "HH", directive: "%H"},
	{token: "H", literal: func(t time.Time) string { return strconv.Itoa(t.Hour()) }},
	{token: "hh", directive: "%I"},
	{token: "h", literal: func(t time.Time) string { return strconv.Itoa(hour12(t)) }},
	{token: "mm", directive: "%M"},
	{token: "m", literal: func(t time.Time) string { return strconv.Itoa(t.Minute()) }},
	{token: "ss", directive: "%S"},
	{token: "s", literal: func(t time.Time) string { return strconv.Itoa(t.Second()) }},
	{token: "SSS", literal: func(t time.Time) string { return t.Format(".000")[1:] }},
	{token: "A", directive: "%p"},
	{token: "a", literal: func(t time.Time) string { return strings.ToLower(t.Format("PM")) }},
	{token: "X", literal: func(t time.Time) string { return strconv.FormatInt(t.Unix(), 10) }},
	{token: "x", literal: func(t time.Time) string { return strconv.FormatInt(t.UnixMilli(), 10) }},
	{token: "ZZ", directive: "%z"},
	{token: "Z", literal: func(t time.Time) string { return t.Format("-07:00") }},
}

// translate converts a Moment pattern to a strftime pattern for t.
func translate(pattern string, t time.Time) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			if end := strings.IndexByte(pattern[i:], ']'); end > 0 {
				b.WriteString(escape(pattern[i+1 : i+end]))
				i += end + 1
				continue
			}
		}

		matched := false
		for _, tok := range momentTokens {
			if !strings.HasPrefix(pattern[i:], tok.token) {
				continue
			}
			if tok.literal != nil {
				b.WriteString(escape(tok.literal(t)))
			} else {
				b.WriteString(tok.directive)
			}
			i += len(tok.token)
			matched = true
			break
		}
		if matched {
			continue
		}

		b.WriteString(escape(pattern[i : i+1]))
		i++
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		return 12
	}
	return h
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
