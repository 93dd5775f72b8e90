package middleware

import (
	"github.com/google/uuid"
	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/labstack/echo/v4"
)

const TraceIDHeader = "X-Trace-ID"

func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := c.Request().Header.Get(TraceIDHeader)
			if traceID == "" {
				traceID = uuid.New().String()
			}

			ctx := logger.WithTraceID(c.Request().Context(), traceID)
			c.SetRequest(c.Request().WithContext(ctx))

			c.Response().Header().Set(TraceIDHeader, traceID)

			return next(c)
		}
	}
}

// Scope copies the user and account path parameters into the request context
// so every log line of the request carries them.
func Scope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if userID := c.Param("user_id"); userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}
			if accountID := c.Param("account_id"); accountID != "" {
				ctx = logger.WithAccountID(ctx, accountID)
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
