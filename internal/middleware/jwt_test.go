package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/task-manager/internal/utils"
)

func newTokens() *utils.TokenService {
	return utils.NewTokenService(utils.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

type panickyVerifier struct{}

func (panickyVerifier) VerifyAccess(string) (utils.Payload, error) { panic("boom") }

// serve runs a single GET through mw and reports whether the handler ran.
func serve(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *utils.Payload, bool) {
	e := echo.New()
	var seen *utils.Payload
	ran := false
	e.GET("/me", func(c echo.Context) error {
		ran = true
		if p, ok := Identity(c); ok {
			seen = &p
		}
		return c.NoContent(http.StatusNoContent)
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen, ran
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens := newTokens()
	pair, err := tokens.Issue(utils.Payload{UserID: "u-1", Email: "ann@x.com"})
	require.NoError(t, err)

	rec, seen, ran := serve(Authenticate(tokens), "Bearer "+pair.AccessToken)
	assert.True(t, ran)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, utils.Payload{UserID: "u-1", Email: "ann@x.com"}, *seen)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	for _, h := range []string{"", "abc123", "Basic abc123", "Bearer "} {
		rec, _, ran := serve(Authenticate(newTokens()), h)
		assert.False(t, ran, "header %q", h)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, msgTokenMissing, message(t, rec))
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	tokens := newTokens()
	pair, err := tokens.Issue(utils.Payload{UserID: "u-1", Email: "ann@x.com"})
	require.NoError(t, err)

	for name, h := range map[string]string{
		"garbage":       "Bearer not-a-jwt",
		"refresh token": "Bearer " + pair.RefreshToken,
	} {
		t.Run(name, func(t *testing.T) {
			rec, _, ran := serve(Authenticate(tokens), h)
			assert.False(t, ran)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, msgTokenInvalid, message(t, rec))
		})
	}
}

func TestAuthenticate_VerifierPanicIsInvalid(t *testing.T) {
	rec, _, ran := serve(Authenticate(panickyVerifier{}), "Bearer abc")
	assert.False(t, ran)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgTokenInvalid, message(t, rec))
}

func TestOptionalAuthenticate(t *testing.T) {
	tokens := newTokens()
	pair, err := tokens.Issue(utils.Payload{UserID: "u-1", Email: "ann@x.com"})
	require.NoError(t, err)

	_, seen, ran := serve(OptionalAuthenticate(tokens), "Bearer "+pair.AccessToken)
	assert.True(t, ran)
	require.NotNil(t, seen)
	assert.Equal(t, "u-1", seen.UserID)

	for _, h := range []string{"", "Bearer garbage", "Basic x"} {
		rec, seen, ran := serve(OptionalAuthenticate(tokens), h)
		assert.True(t, ran, "header %q", h)
		assert.Nil(t, seen)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	_, seen, ran = serve(OptionalAuthenticate(panickyVerifier{}), "Bearer abc")
	assert.True(t, ran)
	assert.Nil(t, seen)
}
