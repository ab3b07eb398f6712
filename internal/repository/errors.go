// Package repository defines error values and helpers that are reused
// across multiple repositories. Sentinel values allow handlers to
// distinguish failure scenarios: ErrForbidden indicates the current user
// is not authorized to act on a resource owned by someone else, while the
// per-entity not-found sentinels map to HTTP 404 responses.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062). Repositories use it to translate unique-index conflicts
// into typed domain errors. The string check catches drivers or proxies
// that flatten the error before it reaches us.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
