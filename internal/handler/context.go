package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

var errNoUser = errors.New("no authenticated user in context")

// getUserID extracts the authenticated user id placed into the context
// by the JWT middleware. The sub claim round-trips through JSON, so it
// arrives as a float64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case float64:
		return uint64(t), nil
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errNoUser
}

// queryInt reads an optional integer query parameter, falling back to
// def when the parameter is absent or malformed.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return def
}
