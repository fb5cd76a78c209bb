package logparse

import (
	"regexp"
	"time"
)

// TimestampWidth is the length of the per-line prefix GitHub Actions writes
// in front of every log line, trailing space included.
const TimestampWidth = 28

var timestampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{7}Z $`)

// Timestamp is a recognized line prefix.
type Timestamp struct {
	Raw  string // the prefix without its trailing space
	Time time.Time
}

// SplitTimestamp recognizes a leading "YYYY-MM-DDTHH:MM:SS.fffffffZ " token.
// It returns the parsed prefix and the rest of the line. Lines without the
// prefix come back unchanged with ok set to false.
func SplitTimestamp(line string) (ts Timestamp, rest string, ok bool) {
	if !hasTimestamp(line) {
		return Timestamp{}, line, false
	}
	raw := line[:TimestampWidth-1]
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return Timestamp{}, line, false
	}
	return Timestamp{Raw: raw, Time: parsed}, line[TimestampWidth:], true
}

func hasTimestamp(line string) bool {
	return len(line) >= TimestampWidth && timestampRe.MatchString(line[:TimestampWidth])
}
