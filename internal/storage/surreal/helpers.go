package surreal

import (
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isAlreadyExists checks if an error is a duplicate record violation
func isAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "already exists") ||
		strings.Contains(errStr, "duplicate")
}

// asRows normalizes a statement result into a slice of rows
func asRows(result interface{}) []interface{} {
	switch v := result.(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	default:
		return []interface{}{v}
	}
}

// asMap converts a decoded CBOR object into a string-keyed map
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	}
	return nil, false
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// toInt64 converts the numeric types the driver may decode into int64
func toInt64(v interface{}) (int64, bool) {
	switch c := v.(type) {
	case int:
		return int64(c), true
	case int64:
		return c, true
	case uint64:
		return int64(c), true
	case int32:
		return int64(c), true
	case uint32:
		return int64(c), true
	case float64:
		return int64(c), true
	case float32:
		return int64(c), true
	}
	return 0, false
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	n, _ := toInt64(m[key])
	return int(n)
}

// getIntPtr extracts an optional int, nil when absent or null
func getIntPtr(m map[string]interface{}, key string) *int {
	n, ok := toInt64(m[key])
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}

// getTime extracts a time value stored as RFC3339 text or a native datetime
func getTime(m map[string]interface{}, key string) time.Time {
	switch t := m[key].(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case time.Time:
		return t
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// getBoolMap extracts an object of id to bool, keeping only true entries
func getBoolMap(m map[string]interface{}, key string) map[string]bool {
	out := map[string]bool{}
	obj, ok := asMap(m[key])
	if !ok {
		return out
	}
	for k, v := range obj {
		if b, ok := v.(bool); ok && b {
			out[k] = true
		}
	}
	return out
}

// extractCount reads the count field of a GROUP ALL count() row
func extractCount(rows []interface{}) int {
	if len(rows) == 0 {
		return 0
	}
	if m, ok := asMap(rows[0]); ok {
		return getInt(m, "count")
	}
	return 0
}
