package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/task-manager/internal/service"
)

// statusFor maps every service error kind to its HTTP status.
func statusFor(k service.Kind) int {
	switch k {
	case service.KindValidation, service.KindDuplicateEmail:
		return http.StatusBadRequest
	case service.KindInvalidCredentials, service.KindInvalidToken,
		service.KindUnauthenticated, service.KindUserNotFound:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// envelope is the body shape of every /auth response.
type envelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    any                  `json:"data,omitempty"`
	Errors  []service.FieldError `json:"errors,omitempty"`
}

func succeed(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: msg, Data: data})
}

// fail writes err inside the auth envelope.  Internal causes are logged,
// never returned.
func fail(c echo.Context, log *zap.Logger, err error) error {
	se := service.AsError(err)
	logInternal(c, log, se)
	return c.JSON(statusFor(se.Kind), envelope{Success: false, Message: se.Message, Errors: se.Fields})
}

// failPlain writes err as {message, errors?} for the task routes.
func failPlain(c echo.Context, log *zap.Logger, err error) error {
	se := service.AsError(err)
	logInternal(c, log, se)
	body := echo.Map{"message": se.Message}
	if len(se.Fields) > 0 {
		body["errors"] = se.Fields
	}
	return c.JSON(statusFor(se.Kind), body)
}

func logInternal(c echo.Context, log *zap.Logger, se *service.Error) {
	if se.Kind != service.KindInternal || log == nil {
		return
	}
	log.Error("request failed",
		zap.String("path", c.Path()),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(se))
}
