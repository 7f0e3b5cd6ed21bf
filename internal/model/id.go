package model

import (
	"strings"

	"github.com/google/uuid"
)

// Record tables
const (
	TableUser  = "user"
	TablePlace = "place"
)

// NewUserID returns a fresh canonical user id.
func NewUserID() string {
	return TableUser + ":" + uuid.NewString()
}

// NewPlaceID returns a fresh canonical place id.
func NewPlaceID() string {
	return TablePlace + ":" + uuid.NewString()
}

// NormalizeID returns id in canonical "table:key" form.
// A bare key is prefixed with table. Keys escaped by the database
// (⟨key⟩ or `key`) are unescaped. Ids that name a different table keep
// their own prefix, so they never compare equal to an id of table.
func NormalizeID(table, id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}

	tb, key, found := strings.Cut(id, ":")
	if !found {
		return table + ":" + unescapeKey(id)
	}
	key = unescapeKey(key)
	if tb == "" || key == "" {
		return ""
	}
	return tb + ":" + key
}

// SplitID returns the table and key of a canonical id.
func SplitID(table, id string) (string, string) {
	normalized := NormalizeID(table, id)
	tb, key, _ := strings.Cut(normalized, ":")
	return tb, key
}

// SameID reports whether a and b name the same record of table.
func SameID(table, a, b string) bool {
	na := NormalizeID(table, a)
	if na == "" || !strings.HasPrefix(na, table+":") {
		return false
	}
	return na == NormalizeID(table, b)
}

func unescapeKey(key string) string {
	key = strings.TrimPrefix(key, "⟨")
	key = strings.TrimSuffix(key, "⟩")
	return strings.Trim(key, "`")
}
