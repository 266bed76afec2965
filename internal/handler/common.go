package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// optionalUserID returns the acting user id or zero when the request
// carries no identity (e.g. routes without the JWT middleware).
func optionalUserID(c echo.Context) uint64 {
    id, err := getUserID(c)
    if err != nil {
        return 0
    }
    return id
}

// pathID parses a numeric path parameter into uint64.
func pathID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}
