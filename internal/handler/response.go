package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// envelope is the uniform response body used by the resource endpoints:
// a machine-readable code, a human-readable message and an optional
// data payload.
type envelope struct {
    Code    int         `json:"code"`
    Message string      `json:"message"`
    Data    interface{} `json:"data,omitempty"`
}

// respond writes the envelope with the given HTTP status.
func respond(c echo.Context, status int, message string, data interface{}) error {
    return c.JSON(status, envelope{Code: status, Message: message, Data: data})
}

func respondOK(c echo.Context, message string, data interface{}) error {
    return respond(c, http.StatusOK, message, data)
}

func respondCreated(c echo.Context, message string, data interface{}) error {
    return respond(c, http.StatusCreated, message, data)
}

func respondError(c echo.Context, status int, message string) error {
    return respond(c, status, message, nil)
}
