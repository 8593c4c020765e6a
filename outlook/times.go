package outlook

import "time"

// Wire timestamps are ISO-8601.  The upstream contract truncates the
// timezone offset rather than converting it, so parsing keeps the civil
// time as-is and interprets it in the local location.  This is a known
// precision loss inherited from the service, not something to correct
// here.
var wireTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// parseWireTime parses a wire timestamp, discarding any trailing offset
// or Z designator.  The second return value is false when s does not
// look like a timestamp at all.
func parseWireTime(s string) (time.Time, bool) {
	if len(s) < 19 {
		return time.Time{}, false
	}
	core := s
	for i := 19; i < len(s); i++ {
		if c := s[i]; c == 'Z' || c == '+' || c == '-' {
			core = s[:i]
			break
		}
	}
	for _, layout := range wireTimeLayouts {
		if t, err := time.ParseInLocation(layout, core, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
