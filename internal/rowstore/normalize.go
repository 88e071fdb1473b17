package rowstore

import (
	"regexp"
	"time"
)

// ISOLayout is the timestamp format written to the remote store (UTC, millisecond precision).
const ISOLayout = "2006-01-02T15:04:05.000Z"

var isoDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)

// FormatTime renders t the way the remote store expects.
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseTime accepts any timestamp that ToWire or the remote store produce.
func ParseTime(s string) (time.Time, bool) {
	if !isoDateRE.MatchString(s) {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ToWire deep-copies v, turning every time.Time into an ISO string.
func ToWire(v any) any {
	switch x := v.(type) {
	case time.Time:
		return FormatTime(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return FormatTime(*x)
	case Row:
		out := make(Row, len(x))
		for k, val := range x {
			out[k] = ToWire(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = ToWire(val)
		}
		return out
	case Filter:
		out := make(Filter, len(x))
		for k, val := range x {
			out[k] = ToWire(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = ToWire(val)
		}
		return out
	default:
		return v
	}
}

// FromWire deep-copies v, turning every ISO timestamp string into a time.Time.
func FromWire(v any) any {
	switch x := v.(type) {
	case string:
		if t, ok := ParseTime(x); ok {
			return t
		}
		return x
	case Row:
		out := make(Row, len(x))
		for k, val := range x {
			out[k] = FromWire(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = FromWire(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = FromWire(val)
		}
		return out
	default:
		return v
	}
}

// RowToWire and RowFromWire are typed wrappers for the common case.
func RowToWire(r Row) Row {
	if r == nil {
		return nil
	}
	return ToWire(r).(Row)
}

func RowFromWire(r Row) Row {
	if r == nil {
		return nil
	}
	return FromWire(r).(Row)
}
