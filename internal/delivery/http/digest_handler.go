package http

import (
	"net/http"

	"golang-etf-news-bot/internal/service"
	"golang-etf-news-bot/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DigestHandler exposes the ops surface: health and an on-demand digest trigger.
type DigestHandler struct {
	digestService service.DigestService
	logger        *logger.Logger
}

// NewDigestHandler creates a new DigestHandler.
func NewDigestHandler(digestService service.DigestService, logger *logger.Logger) *DigestHandler {
	return &DigestHandler{digestService: digestService, logger: logger}
}

// RegisterRoutes registers the digest routes on the Echo instance.
func (h *DigestHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/api/v1/digest/run", h.RunDigest)
}

// Health reports service liveness.
func (h *DigestHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// RunDigest triggers a pipeline run and returns its summary.
func (h *DigestHandler) RunDigest(c echo.Context) error {
	result, err := h.digestService.Run(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}
