package cache

import (
	"fmt"
	"strings"
)

// FilterAbsent is the sentinel for an unset filter field inside a cache key.
const FilterAbsent = "-"

// NormalizeFilter reduces a raw filter value to canonical form: trimmed,
// lowercased (locale-invariant), internal whitespace runs collapsed to a
// single space. Empty or all-whitespace input maps to FilterAbsent.
// The function is pure and idempotent.
func NormalizeFilter(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return FilterAbsent
	}
	return strings.Join(fields, " ")
}

// GoalsPageKey builds the cache key for one page of a user's goal list.
// The filter arguments must already be normalized; normalization never
// introduces the ':' separator, so fields cannot bleed into each other.
func GoalsPageKey(userID int32, page, pageSize int, search, status, priority string) string {
	return fmt.Sprintf("goals:u=%d:p=%d:ps=%d:s=%s:st=%s:pr=%s", userID, page, pageSize, search, status, priority)
}

// UserTagKey builds the key of the per-user set tracking outstanding page keys.
func UserTagKey(userID int32) string {
	return fmt.Sprintf("tag:goals:u=%d", userID)
}
