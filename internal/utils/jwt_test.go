package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessTokenCarriesSubjectAndRole(t *testing.T) {
    at, err := NewAccessToken("test-secret", 42, "LANDLORD", 15)
    require.NoError(t, err)
    require.NotEmpty(t, at.Token)

    tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("test-secret"), nil
    })
    require.NoError(t, err)
    require.True(t, tok.Valid)

    claims, ok := tok.Claims.(jwt.MapClaims)
    require.True(t, ok)
    assert.Equal(t, float64(42), claims["sub"])
    assert.Equal(t, "LANDLORD", claims["role"])
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, time.Minute)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
    at, err := NewAccessToken("right-secret", 1, "TENANT", 5)
    require.NoError(t, err)

    _, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("wrong-secret"), nil
    })
    assert.Error(t, err)
}

func TestNewRefreshTokenIsRandomAndHexEncoded(t *testing.T) {
    a, err := NewRefreshToken(7)
    require.NoError(t, err)
    b, err := NewRefreshToken(7)
    require.NoError(t, err)

    assert.Len(t, a.Raw, 96)
    assert.NotEqual(t, a.Raw, b.Raw)
    assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), a.Exp, time.Minute)
}

func TestHashRefreshRawIsDeterministic(t *testing.T) {
    h1 := HashRefreshRaw("some-token")
    h2 := HashRefreshRaw("some-token")
    h3 := HashRefreshRaw("other-token")

    assert.Equal(t, h1, h2)
    assert.NotEqual(t, h1, h3)
    assert.Len(t, h1, 64) // sha256 hex digest
}
