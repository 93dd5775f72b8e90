package middleware

import (
	"net/http"
	"time"

	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/labstack/echo/v4"
)

func Logging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []interface{}{
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", c.RealIP(),
			}

			ctx := c.Request().Context()
			switch status := c.Response().Status; {
			case status >= http.StatusInternalServerError:
				log.Error(ctx, "HTTP request", fields...)
			case status >= http.StatusBadRequest:
				log.Warn(ctx, "HTTP request", fields...)
			default:
				log.Info(ctx, "HTTP request", fields...)
			}

			return nil
		}
	}
}
