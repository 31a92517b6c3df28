package feed

import (
	"regexp"
	"strings"
	"time"
)

// TimestampFormat is the canonical UTC timestamp layout used across all
// records.
const TimestampFormat = "2006-01-02 15:04:05"

// Feed dates show up in two shapes: RFC-2822 style ("Sat, 25 Jan 2020
// 01:52:22 +0000") and ISO-8601 style with explicit offset
// ("2020-01-31T22:10:38+0800"). Both are matched as substrings since the
// raw field may carry surrounding text.
var (
	rfc2822Re = regexp.MustCompile(`\d{1,2} [ADFJMNOS]\w* \d{4} \b(?:[01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9] \+[0-9]{4}\b`)
	iso8601Re = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}\+[0-9]{2}:?[0-9]{2}`)
)

const (
	rfc2822Layout = "2 Jan 2006 15:04:05 -0700"
	iso8601Layout = "2006-01-02T15:04:05-0700"
)

// NormalizeDate converts a raw date string to the canonical UTC format.
// When neither recognized pattern matches, the input is returned
// unmodified; callers that cannot tolerate a non-canonical passthrough
// should use CanonicalDate instead.
func NormalizeDate(raw string) string {
	if ts, ok := CanonicalDate(raw); ok {
		return ts
	}
	return raw
}

// CanonicalDate converts a raw date string to the canonical UTC format,
// reporting whether a recognized pattern matched and parsed.
func CanonicalDate(raw string) (string, bool) {
	if m := rfc2822Re.FindString(raw); m != "" {
		if t, err := time.Parse(rfc2822Layout, m); err == nil {
			return FormatUTC(t), true
		}
	}

	if m := iso8601Re.FindString(raw); m != "" {
		if t, err := time.Parse(iso8601Layout, normalizeISO(m)); err == nil {
			return FormatUTC(t), true
		}
	}

	return "", false
}

// FormatUTC renders a time in the canonical UTC format.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// normalizeISO folds the matched variants ("2020-01-31 22:10:38+08:00")
// into the single layout the parser expects.
func normalizeISO(m string) string {
	if len(m) > 10 && m[10] == ' ' {
		m = m[:10] + "T" + m[11:]
	}
	if i := strings.LastIndex(m, ":"); i == len(m)-3 {
		m = m[:i] + m[i+1:]
	}
	return m
}
