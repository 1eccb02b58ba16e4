package normalize

import (
	"fmt"
	"strings"
	"time"
)

// KeyLayout is the minute-precision layout matching keys are built on. The
// payroll feed rounds punch seconds to :00, so anything finer never matches.
const KeyLayout = "2006-01-02T15:04"

var instantLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04-0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToKey reduces one source timestamp to its minute-precision UTC form. The
// second return reports whether the value parsed cleanly; on failure the raw
// string is truncated to minute width so a malformed punch still carries a
// stable key instead of aborting the batch.
func ToKey(ts string) (string, bool) {
	t, err := ParseInstant(ts)
	if err != nil {
		if len(ts) >= len(KeyLayout) {
			return ts[:len(KeyLayout)], false
		}
		return ts, false
	}
	return t.UTC().Format(KeyLayout), true
}

// ParseInstant parses the timestamp shapes the two feeds actually emit:
// RFC 3339, four-digit zone offsets, fractional seconds of any width, and
// naive date-times (taken as UTC).
func ParseInstant(ts string) (time.Time, error) {
	s := strings.TrimSpace(ts)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	// Drop fractional seconds, keeping whatever zone offset followed them.
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i] + offsetFromTail(s[i+1:])
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", ts)
}

// BusinessDate is the calendar date of a punch in its own zone, or "" when
// the timestamp cannot be parsed.
func BusinessDate(ts string) string {
	t, err := ParseInstant(ts)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func offsetFromTail(tail string) string {
	var off string
	switch {
	case strings.Contains(tail, "+"):
		off = "+" + tail[strings.LastIndex(tail, "+")+1:]
	case strings.Contains(tail, "-"):
		off = "-" + tail[strings.LastIndex(tail, "-")+1:]
	default:
		return "+00:00"
	}
	if len(off) == 5 && !strings.Contains(off, ":") {
		off = off[:3] + ":" + off[3:]
	}
	return off
}
