package handler

import (
	"net/http"
	"time"

	"github.com/grachmannico95/finsync/internal/eventbus"
	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	bus eventbus.EventBus
}

func NewHealthHandler(bus eventbus.EventBus) *HealthHandler {
	return &HealthHandler{bus: bus}
}

func (h *HealthHandler) Check(c echo.Context) error {
	body := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.bus != nil {
		body["event_bus"] = h.bus.Stats()
	}
	return c.JSON(http.StatusOK, body)
}
