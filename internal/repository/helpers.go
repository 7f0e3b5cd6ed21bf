package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/placeshare/api/internal/database"
	"github.com/placeshare/api/internal/model"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique index violation
func isUniqueConstraintError(err error) bool {
	return err != nil && errors.Is(err, database.ErrDuplicate)
}

// recordKey returns the key part of id when it names a record of table.
// The second result is false for ids of another table or empty ids.
func recordKey(table, id string) (string, bool) {
	tb, key := model.SplitID(table, id)
	if tb != table || key == "" {
		return "", false
	}
	return key, true
}

// recordID converts a SurrealDB ID (which may be a complex object) to a canonical string
func recordID(table string, id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return model.NormalizeID(table, v)
	case models.RecordID:
		return model.NormalizeID(table, fmt.Sprintf("%s:%v", v.Table, v.ID))
	case *models.RecordID:
		if v == nil {
			return ""
		}
		return model.NormalizeID(table, fmt.Sprintf("%s:%v", v.Table, v.ID))
	case map[string]interface{}:
		// Fetched record: {"id": ..., ...}
		if inner, ok := v["id"]; ok && v["tb"] == nil {
			return recordID(table, inner)
		}
		// {"tb": "user", "id": "xxx"}
		tb, _ := v["tb"].(string)
		if tb == "" {
			return ""
		}
		return model.NormalizeID(table, fmt.Sprintf("%s:%v", tb, v["id"]))
	}
	return model.NormalizeID(table, fmt.Sprintf("%v", id))
}

// recordIDs converts a list of record links to canonical ids, skipping empty links
func recordIDs(table string, v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if id := recordID(table, item); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// parseTime parses time from various formats
func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// extractQueryResults extracts the records of the first statement
func extractQueryResults(result []interface{}) []interface{} {
	if len(result) == 0 {
		return nil
	}
	if first, ok := result[0].(map[string]interface{}); ok {
		if records, ok := first["result"].([]interface{}); ok {
			return records
		}
	}
	return nil
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getFloat extracts a float value from a map
func getFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return 0
}

// getMap extracts a nested object from a map
func getMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return map[string]interface{}{}
}
