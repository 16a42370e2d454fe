package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root answers the plain liveness probe at "/".
func Root(c echo.Context) error { return c.String(http.StatusOK, "Healthy") }

// Health is used by load balancers and monitoring to check the process is up.
func Health(c echo.Context) error { return c.String(http.StatusOK, "ok") }
