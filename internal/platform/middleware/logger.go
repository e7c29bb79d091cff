package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/citotrack/citotrack/internal/platform/auth"
)

// Logger logs one structured line per request: method, path, status,
// latency, and the acting user when a session is present.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt = evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())

			if sess := auth.SessionFromContext(req.Context()); sess.UserID != uuid.Nil {
				evt = evt.Str("user_id", sess.UserID.String()).Str("role", string(sess.Role))
			}

			evt.Msg("request")
			return err
		}
	}
}
