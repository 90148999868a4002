package tools

import (
	"fmt"
	"strconv"
	"strings"
)

// StringList coerces a decoded JSON value into a list of strings. Numbers are
// formatted, nil entries are skipped. ok is false when v is not a list at all.
func StringList(v any) (out []string, ok bool) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), true
	case []any:
		out = make([]string, 0, len(list))
		for _, item := range list {
			switch s := item.(type) {
			case nil:
				continue
			case string:
				out = append(out, s)
			default:
				out = append(out, fmt.Sprint(s))
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// Int coerces a decoded JSON number (or numeric string) into an int.
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		return int(n), n == float32(int(n))
	case float64:
		return int(n), n == float64(int(n))
	case interface{ Int64() (int64, error) }:
		// json.Number and smithy document.Number
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}
