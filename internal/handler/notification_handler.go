package handler

import (
	"net/http"
	"strconv"

	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	repo   domain.NotificationRepository
	logger *logger.Logger
}

func NewNotificationHandler(repo domain.NotificationRepository, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		repo:   repo,
		logger: log,
	}
}

func (h *NotificationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("user_id")

	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 20
	}

	items, err := h.repo.ListNotifications(ctx, userID, limit)
	if err != nil {
		h.logger.Error(ctx, "Failed to list notifications",
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list notifications",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"items":   items,
	})
}

func (h *NotificationHandler) Dismiss(c echo.Context) error {
	ctx := c.Request().Context()

	dismissed, err := h.repo.DismissPending(ctx, c.Param("user_id"))
	if err != nil {
		h.logger.Error(ctx, "Failed to dismiss notifications",
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to dismiss notifications",
		})
	}

	return c.JSON(http.StatusOK, map[string]int{
		"dismissed": dismissed,
	})
}
