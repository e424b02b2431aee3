package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Dates are limited to four-digit years so they stay valid RFC 3339.
var (
	minDate = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(9999, time.December, 31, 23, 59, 59, 999_999_999, time.UTC)
)

// coerceDate converts a decoded JSON value into a date. Strings are parsed
// with the common date layouts, numbers are epoch milliseconds.
func coerceDate(v any) (time.Time, error) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, errors.New("empty string is not a date")
		}
		t, err := cast.ToTimeE(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognized date %q", val)
		}
		t = t.UTC()
		if t.Before(minDate) || t.After(maxDate) {
			return time.Time{}, fmt.Errorf("date %q is out of range, years 0000-9999 are supported", val)
		}
		return t, nil
	case json.Number:
		ms, err := val.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number %q", val.String())
		}
		return fromMillis(ms)
	case float64:
		return fromMillis(val)
	case nil:
		return time.Time{}, errors.New("null is not a date")
	default:
		return time.Time{}, fmt.Errorf("cannot coerce %s to a date", jsonKind(v))
	}
}

func fromMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) ||
		ms < float64(minDate.UnixMilli()) || ms > float64(maxDate.UnixMilli()) {
		return time.Time{}, fmt.Errorf("timestamp %v is out of range, years 0000-9999 are supported", ms)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// normalizeURL trims and lowercases a URL string.
func normalizeURL(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func jsonKind(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
