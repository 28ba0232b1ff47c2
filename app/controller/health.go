package controller

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-core/app/factory"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

type healthChecker interface {
	Check(ctx context.Context) error
}

type HealthController struct {
	checker healthChecker
	logger  logrus.FieldLogger
}

func NewHealthController(checker healthChecker) *HealthController {
	return &HealthController{
		checker: checker,
		logger:  factory.NewModuleLogger("health-controller"),
	}
}

func (c *HealthController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

// DeepHealth also exercises the database: a read plus a write, so a read-only
// replica posing as the primary fails the probe.
func (c *HealthController) DeepHealth(ctx echo.Context) error {
	if err := c.checker.Check(ctx.Request().Context()); err != nil {
		c.logger.WithError(err).Error("Deep health check failed")
		return ctx.JSON(http.StatusServiceUnavailable, &types.DeepHealthResponse{Database: "unavailable"})
	}
	return ctx.JSON(http.StatusOK, &types.DeepHealthResponse{Database: "ok"})
}
