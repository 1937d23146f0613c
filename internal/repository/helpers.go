package repository

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError sniffs driver errors for index violations;
// the driver has no typed error for them.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists")
}

// extractRecordID normalizes the id field to "table:key" form. The
// driver hands ids back in several shapes depending on codec path.
func extractRecordID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return v.String()
	case *models.RecordID:
		if v != nil {
			return v.String()
		}
	case map[string]interface{}:
		tb, tbOK := v["tb"].(string)
		key, keyOK := v["id"].(string)
		if tbOK && keyOK {
			return tb + ":" + key
		}
	}

	// Last resort: round-trip through JSON into a RecordID.
	if data, err := json.Marshal(id); err == nil {
		var rid models.RecordID
		if err := json.Unmarshal(data, &rid); err == nil {
			return rid.String()
		}
	}
	return ""
}

// extractQueryResults unwraps the adapter's {status, result} envelope
// into the row array.
func extractQueryResults(result interface{}) ([]interface{}, bool) {
	results, ok := result.([]interface{})
	if !ok || len(results) == 0 {
		return nil, false
	}
	if envelope, ok := results[0].(map[string]interface{}); ok {
		if rows, ok := envelope["result"].([]interface{}); ok {
			return rows, true
		}
	}
	// Already a bare row array.
	return results, true
}

// extractCount pulls the count out of a count-query result, enveloped
// or bare.
func extractCount(result interface{}) int {
	resp, ok := result.(map[string]interface{})
	if !ok {
		return 0
	}
	if status, ok := resp["status"].(string); ok && status == "OK" {
		if rows, ok := resp["result"].([]interface{}); ok && len(rows) > 0 {
			if row, ok := rows[0].(map[string]interface{}); ok {
				return extractCountValue(row["count"])
			}
		}
	}
	return extractCountValue(resp["count"])
}

func extractCountValue(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case float32:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	}
	return 0
}

func getString(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// getStringPtr treats "" and NONE alike: both mean unset.
func getStringPtr(m map[string]interface{}, key string) *string {
	if s, ok := m[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

func getInt(m map[string]interface{}, key string) int {
	switch n := m[key].(type) {
	case float64:
		return int(n)
	case float32:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	}
	return 0
}

// getTime accepts the shapes datetimes arrive in: RFC 3339 strings,
// time.Time, or the driver's CustomDateTime.
func getTime(m map[string]interface{}, key string) time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	case time.Time:
		return v
	case models.CustomDateTime:
		return v.Time
	case *models.CustomDateTime:
		if v != nil {
			return v.Time
		}
	}
	return time.Time{}
}

func getStringSlice(m map[string]interface{}, key string) []string {
	items, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getMapSlice(m map[string]interface{}, key string) []map[string]interface{} {
	items, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out
}
