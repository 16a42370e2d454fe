package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-manager/internal/utils"
)

// AccessVerifier checks access tokens.  *utils.TokenService satisfies it.
type AccessVerifier interface {
	VerifyAccess(raw string) (utils.Payload, error)
}

// 401 messages for the two ways a request can fail Authenticate.
const (
	msgTokenMissing = "Access token is missing. Provide a valid Bearer token."
	msgTokenInvalid = "Invalid or expired access token"
)

// Authenticate requires a valid Bearer access token.  On success the token
// payload is available through Identity; otherwise the request ends with 401
// and the handler never runs.
func Authenticate(tokens AccessVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// No header and a malformed header get the same message.
			raw, ok := utils.ExtractBearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c, msgTokenMissing)
			}
			p, ok := verify(tokens, raw)
			if !ok {
				return unauthorized(c, msgTokenInvalid)
			}
			SetIdentity(c, p)
			return next(c)
		}
	}
}

// OptionalAuthenticate attaches the identity when a valid token is present
// and otherwise lets the request through anonymously.  It never rejects.
func OptionalAuthenticate(tokens AccessVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A bad token is ignored here; the route decides whether it needs one.
			if raw, ok := utils.ExtractBearer(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
				if p, ok := verify(tokens, raw); ok {
					SetIdentity(c, p)
				}
			}
			return next(c)
		}
	}
}

// verify treats a panicking verifier the same as a rejected token.
func verify(tokens AccessVerifier, raw string) (p utils.Payload, ok bool) {
	defer func() {
		if recover() != nil {
			p, ok = utils.Payload{}, false
		}
	}()
	p, err := tokens.VerifyAccess(raw)
	if err != nil || p.UserID == "" {
		return utils.Payload{}, false
	}
	return p, true
}

// unauthorized writes the auth envelope with status 401.
func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": msg})
}
