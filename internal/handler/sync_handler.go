package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/internal/service"
	"github.com/grachmannico95/finsync/internal/syncstatus"
	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

type SyncHandler struct {
	service   service.SyncService
	status    *syncstatus.Manager
	logger    *logger.Logger
	keepAlive time.Duration
}

func NewSyncHandler(syncService service.SyncService, status *syncstatus.Manager, log *logger.Logger) *SyncHandler {
	return &SyncHandler{
		service:   syncService,
		status:    status,
		logger:    log,
		keepAlive: 15 * time.Second,
	}
}

func (h *SyncHandler) SyncAll(c echo.Context) error {
	ctx := c.Request().Context()

	h.logger.Info(ctx, "Handling sync request")

	return h.respond(c, h.service.SyncAllAccounts(ctx, c.Param("user_id")))
}

func (h *SyncHandler) Incremental(c echo.Context) error {
	ctx := c.Request().Context()

	h.logger.Info(ctx, "Handling incremental sync request")

	return h.respond(c, h.service.IncrementalSync(ctx, c.Param("user_id")))
}

func (h *SyncHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("user_id")

	h.service.CancelSync(ctx, userID)

	return c.JSON(http.StatusAccepted, h.service.Status(userID))
}

func (h *SyncHandler) Status(c echo.Context) error {
	userID := c.Param("user_id")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": h.status.Recall(c.Request().Context(), userID),
		"scopes": h.status.Scopes(userID),
	})
}

// Stream pushes every status transition of the user as a server-sent event,
// starting with the current snapshot.
func (h *SyncHandler) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("user_id")

	events, unsubscribe := h.status.Subscribe(userID)
	defer unsubscribe()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	if err := writeEvent(res, h.service.Status(userID)); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug(ctx, "Status stream closed")
			return nil
		case snap, ok := <-events:
			if !ok {
				return nil
			}
			if err := writeEvent(res, snap); err != nil {
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func (h *SyncHandler) SyncAccount(c echo.Context) error {
	ctx := c.Request().Context()

	h.logger.Info(ctx, "Handling account sync request")

	return h.respond(c, h.service.SyncAccount(ctx, c.Param("account_id")))
}

func (h *SyncHandler) SyncTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	start, err := time.Parse(dateLayout, c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "start must be a YYYY-MM-DD date",
		})
	}

	end, err := time.Parse(dateLayout, c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "end must be a YYYY-MM-DD date",
		})
	}

	h.logger.Info(ctx, "Handling transaction sync request",
		"start", start.Format(dateLayout),
		"end", end.Format(dateLayout),
	)

	// end is inclusive of the whole day.
	end = end.Add(24*time.Hour - time.Nanosecond)

	return h.respond(c, h.service.SyncTransactions(ctx, c.Param("account_id"), start, end))
}

func (h *SyncHandler) respond(c echo.Context, result domain.SyncResult) error {
	code := StatusCode(result)
	if code >= http.StatusInternalServerError {
		h.logger.Error(c.Request().Context(), "Sync failed",
			"kind", result.Err.Kind,
			"error", result.Err,
		)
	}
	return c.JSON(code, result)
}

// StatusCode maps a sync result onto the HTTP status returned to clients.
func StatusCode(result domain.SyncResult) int {
	if !result.IsFailure() {
		return http.StatusOK
	}

	err := result.Err
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusBadRequest
	}

	switch err.Kind {
	case domain.SyncErrorAuth:
		return http.StatusUnauthorized
	case domain.SyncErrorRateLimit:
		return http.StatusTooManyRequests
	case domain.SyncErrorInProgress, domain.SyncErrorCancelled:
		return http.StatusConflict
	case domain.SyncErrorInstitutionDown,
		domain.SyncErrorInstitutionUnsupported,
		domain.SyncErrorItemNotFound,
		domain.SyncErrorConsentRevoked,
		domain.SyncErrorNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeEvent(res *echo.Response, snap syncstatus.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "event: status\ndata: %s\n\n", data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
