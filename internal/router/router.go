package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/task-manager/internal/handler"
	"github.com/iliyamo/task-manager/internal/middleware"
)

// RegisterRoutes registers the unauthenticated probes and the metrics
// endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth mounts /auth.  Every route passes through OptionalAuthenticate
// so a "user" rate-limit key strategy can see who is calling, then through
// limiter.  Logout additionally requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens middleware.AccessVerifier, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth", middleware.OptionalAuthenticate(tokens))
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, middleware.Authenticate(tokens))
}

// RegisterTasks mounts /tasks behind Authenticate.
func RegisterTasks(e *echo.Echo, t *handler.TaskHandler, tokens middleware.AccessVerifier) {
	g := e.Group("/tasks", middleware.Authenticate(tokens))
	g.GET("", t.List)
	g.POST("", t.Create)
	g.GET("/:id", t.Get)
	g.PATCH("/:id", t.Update)
	g.DELETE("/:id", t.Delete)
	g.PATCH("/:id/toggle", t.Toggle)
}
