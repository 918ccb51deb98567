package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/neslihan-na/playlearnkids-admin/internal/middleware"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/rs/zerolog"
)

const healthCheckTimeout = 5 * time.Second

// HealthHandler reports whether the store and Redis answer.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type healthCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	UsersRoot   string                 `json:"users_root"`
	Checks      map[string]healthCheck `json:"checks"`
}

// CheckHealth answers 503 when the store is down. Redis is optional, so a
// failing Redis is reported without failing the check.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		UsersRoot:   h.server.Config.UsersRoot(),
		Checks:      map[string]healthCheck{},
	}

	store := h.check(c.Request().Context(), &logger, "store", h.server.Store.Ping)
	response.Checks["store"] = store
	isHealthy := store.Status == "healthy"

	if h.server.Redis != nil {
		response.Checks["redis"] = h.check(c.Request().Context(), &logger, "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	if !isHealthy {
		response.Status = "unhealthy"
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")
		h.recordFailure("overall", "overall_unhealthy", time.Since(start), nil)
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		h.recordFailure("response", "json_response_error", time.Since(start), err)
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) check(parent context.Context, logger *zerolog.Logger, name string, ping func(context.Context) error) healthCheck {
	ctx, cancel := context.WithTimeout(parent, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")
		h.recordFailure(name, name+"_unhealthy", elapsed, err)
		return healthCheck{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
	}

	return healthCheck{Status: "healthy", ResponseTime: elapsed.String()}
}

func (h *HealthHandler) recordFailure(checkType, errorType string, elapsed time.Duration, err error) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	attrs := map[string]any{
		"check_type":       checkType,
		"operation":        "health_check",
		"error_type":       errorType,
		"response_time_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		attrs["error_message"] = err.Error()
	}
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
}
