package store

import "time"

// EpochMillis converts any accepted timestamp representation to a
// canonical epoch-millisecond integer. Older documents stored numeric
// epochs while newer ones hold store-native timestamps; both must count
// identically in the rate-limit window. Unrecognized values map to 0
// and are discarded by the caller.
func EpochMillis(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case time.Time:
		return t.UnixMilli()
	default:
		return 0
	}
}

// EpochMillisList normalizes a decoded timestamp array, dropping
// anything that does not parse.
func EpochMillisList(v interface{}) []int64 {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(raw))
	for _, e := range raw {
		if ms := EpochMillis(e); ms > 0 {
			out = append(out, ms)
		}
	}
	return out
}

func asTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case int64:
		return time.UnixMilli(t)
	case float64:
		return time.UnixMilli(int64(t))
	default:
		return time.Time{}
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	switch t := v.(type) {
	case int64:
		return int(t)
	case int:
		return t
	case float64:
		return int(t)
	default:
		return 0
	}
}
