package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/task-manager/internal/middleware"
	"github.com/iliyamo/task-manager/internal/model"
	"github.com/iliyamo/task-manager/internal/service"
	"github.com/iliyamo/task-manager/internal/utils"
)

// AuthService is implemented by *service.AuthService.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	Logout(ctx context.Context, userID string) error
}

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	Auth AuthService
	Log  *zap.Logger
}

// NewAuthHandler returns an AuthHandler; a nil logger is replaced by a no-op.
func NewAuthHandler(auth AuthService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Auth: auth, Log: log.Named("auth-handler")}
}

// requestTimeout bounds the service call behind each auth endpoint.
const requestTimeout = 5 * time.Second

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// normalize trims the display name so the length limits apply to what is
// stored.
func (r *registerReq) normalize() { r.Name = strings.TrimSpace(r.Name) }

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// Register creates an account and returns it without the password hash.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Auth.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(c, h.Log, err)
	}
	registrationsTotal.Inc()
	return succeed(c, http.StatusCreated, "User registered successfully", u)
}

// Login returns the user and a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := h.Auth.Login(ctx, service.LoginInput{Email: req.Email, Password: req.Password})
	loginsTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return fail(c, h.Log, err)
	}
	return succeed(c, http.StatusOK, "Login successful", res)
}

// Refresh exchanges the refresh token in the body for a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "Refresh token is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	pair, err := h.Auth.RefreshAccessToken(ctx, req.RefreshToken)
	refreshesTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return fail(c, h.Log, err)
	}
	return succeed(c, http.StatusOK, "Token refreshed successfully", pair)
}

// Logout acknowledges the request.  Tokens are not revoked; the client must
// discard them.
func (h *AuthHandler) Logout(c echo.Context) error {
	id, found := middleware.Identity(c)
	if !found {
		return fail(c, h.Log, service.UnauthenticatedError())
	}
	if err := h.Auth.Logout(c.Request().Context(), id.UserID); err != nil {
		return fail(c, h.Log, err)
	}
	return succeed(c, http.StatusOK, "Logout successful. Please clear tokens on client-side.", nil)
}
