package handler

import (
	"net/http"

	"github.com/grachmannico95/finsync/internal/service"
	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/labstack/echo/v4"
)

// DeviceHandler lets the host app report connectivity and battery so the
// background scheduler can hold off.
type DeviceHandler struct {
	monitor *service.DeviceMonitor
	logger  *logger.Logger
}

func NewDeviceHandler(monitor *service.DeviceMonitor, log *logger.Logger) *DeviceHandler {
	return &DeviceHandler{
		monitor: monitor,
		logger:  log,
	}
}

func (h *DeviceHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.monitor.State())
}

func (h *DeviceHandler) Update(c echo.Context) error {
	var state service.DeviceState
	if err := c.Bind(&state); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid device state",
		})
	}
	if state.BatteryLevel < 0 || state.BatteryLevel > 100 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "battery_level must be between 0 and 100",
		})
	}

	h.monitor.Update(state)
	h.logger.Debug(c.Request().Context(), "Device state updated",
		"network_available", state.NetworkAvailable,
		"battery_level", state.BatteryLevel,
		"charging", state.Charging,
	)

	return c.JSON(http.StatusOK, state)
}
