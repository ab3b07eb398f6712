package middleware

// identity.go holds helpers shared across middleware files. The rate
// limiter keys on the authenticated user when one is present and falls
// back to "guest" otherwise.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user ID stored
// by JWTAuth, or "guest" when the request is unauthenticated.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64, int64, int:
		return fmt.Sprint(t)
	}
	return "guest"
}
