package handler

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestRespondWrapsPayloadInEnvelope(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    err := respondOK(c, "room detail", map[string]int{"id": 7})
    require.NoError(t, err)
    assert.Equal(t, http.StatusOK, rec.Code)

    var body envelope
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    assert.Equal(t, http.StatusOK, body.Code)
    assert.Equal(t, "room detail", body.Message)
    assert.NotNil(t, body.Data)
}

func TestRespondErrorOmitsData(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    err := respondError(c, http.StatusNotFound, "room not found")
    require.NoError(t, err)
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.NotContains(t, rec.Body.String(), `"data"`)
}

func TestGetUserIDAcceptsCommonClaimTypes(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)

    for _, tc := range []struct {
        name  string
        value interface{}
        want  uint64
    }{
        {"float64 claim", float64(12), 12},
        {"string claim", "34", 34},
        {"uint64 value", uint64(56), 56},
    } {
        t.Run(tc.name, func(t *testing.T) {
            c := e.NewContext(req, httptest.NewRecorder())
            c.Set("user_id", tc.value)
            got, err := getUserID(c)
            require.NoError(t, err)
            assert.Equal(t, tc.want, got)
        })
    }

    c := e.NewContext(req, httptest.NewRecorder())
    _, err := getUserID(c)
    assert.Error(t, err)
    assert.Zero(t, optionalUserID(c))
}
