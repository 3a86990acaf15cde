package slackexport

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Timestamp wraps a Slack message timestamp ("1234567890.123456").
// Timestamps double as message IDs and order as decimal numbers.
type Timestamp string

// String implements fmt.Stringer, returning ISO 8601 format
func (ts Timestamp) String() string {
	t, ok := ts.Time()
	if !ok {
		return string(ts)
	}
	return t.Format(time.RFC3339)
}

// MarshalJSON implements json.Marshaler, outputting the raw Slack value
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(ts))
}

// Raw returns the original Slack timestamp
func (ts Timestamp) Raw() string {
	return string(ts)
}

// Time converts the timestamp to UTC time. ok is false when the value is not
// a decimal number.
func (ts Timestamp) Time() (time.Time, bool) {
	whole, frac, ok := ts.split()
	if !ok {
		return time.Time{}, false
	}
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	var nsec int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		frac += strings.Repeat("0", 9-len(frac))
		nsec, _ = strconv.ParseInt(frac, 10, 64)
	}
	return time.Unix(sec, nsec).UTC(), true
}

// Format renders the timestamp with the given time layout, falling back to
// the raw value for non-numeric timestamps.
func (ts Timestamp) Format(layout string) string {
	t, ok := ts.Time()
	if !ok {
		return string(ts)
	}
	return t.Format(layout)
}

// Compare orders two timestamps numerically without going through float64,
// which cannot hold 16 significant digits exactly. Non-numeric values sort
// after numeric ones and compare lexically among themselves.
func (ts Timestamp) Compare(other Timestamp) int {
	aw, af, aok := ts.split()
	bw, bf, bok := other.split()
	switch {
	case !aok && !bok:
		return strings.Compare(string(ts), string(other))
	case !aok:
		return 1
	case !bok:
		return -1
	}

	aw = strings.TrimLeft(aw, "0")
	bw = strings.TrimLeft(bw, "0")
	if len(aw) != len(bw) {
		if len(aw) < len(bw) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(aw, bw); c != 0 {
		return c
	}

	for len(af) < len(bf) {
		af += "0"
	}
	for len(bf) < len(af) {
		bf += "0"
	}
	return strings.Compare(af, bf)
}

// split breaks a timestamp into its integer and fractional digit runs.
func (ts Timestamp) split() (whole, frac string, ok bool) {
	s := string(ts)
	if s == "" {
		return "", "", false
	}
	whole, frac, _ = strings.Cut(s, ".")
	if whole == "" || !allDigits(whole) || !allDigits(frac) {
		return "", "", false
	}
	return whole, frac, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
