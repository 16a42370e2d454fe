package middleware

// identity.go holds the request identity placed in the echo context by the
// auth gate.  Handlers read it with Identity; other middleware use userID.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-manager/internal/utils"
)

const identityKey = "auth.identity"

// Identity returns the authenticated payload, if any.
func Identity(c echo.Context) (utils.Payload, bool) {
	p, ok := c.Get(identityKey).(utils.Payload)
	if !ok || p.UserID == "" {
		return utils.Payload{}, false
	}
	return p, true
}

// SetIdentity attaches p to the request.
func SetIdentity(c echo.Context, p utils.Payload) { c.Set(identityKey, p) }

// userID returns the authenticated user id or "guest".
func userID(c echo.Context) string {
	if p, ok := Identity(c); ok {
		return p.UserID
	}
	return "guest"
}
