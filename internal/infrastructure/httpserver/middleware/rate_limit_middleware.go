package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/domain/ratelimit"
	"github.com/hazelmere/property-api/internal/core/ports"
	"github.com/hazelmere/property-api/internal/infrastructure/httpserver/helpers"
)

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger}
}

// LimitByIP throttles the route per client IP for the given event. The check
// runs before the handler touches the body, so a blocked login never reaches
// credential verification. A limiter store failure fails the request (closed)
// rather than admitting it.
func (r *RateLimitMiddleware) LimitByIP(event ratelimit.Event, blockedMessage string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identifier := helpers.ClientIdentifier(c)

			blocked, err := r.rateLimiter.CheckAndIncrement(c.Request().Context(), identifier, event)
			if err != nil {
				if r.logger != nil {
					r.logger.WithError(err).WithFields(logrus.Fields{"identifier": identifier, "event": event}).Error("rate limiter store failure; rejecting request")
				}
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}
			if blocked {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": blockedMessage})
			}
			return next(c)
		}
	}
}
