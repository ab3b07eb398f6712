package repository

import "strings"

// inClause expands an IN (...) clause with one placeholder per ID and
// returns the full query plus its argument list.
func inClause(prefix string, ids []uint64) (string, []interface{}) {
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	return prefix + "(" + strings.Join(placeholders, ",") + ")", args
}

// lower normalizes user-supplied search text for LIKE matching.
func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// dedupe returns ids with duplicates removed, preserving order.
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
