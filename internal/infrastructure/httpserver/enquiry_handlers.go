package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hazelmere/property-api/internal/core/domain/enquiry"
	"github.com/hazelmere/property-api/internal/core/domain/ratelimit"
	"github.com/hazelmere/property-api/internal/infrastructure/httpserver/helpers"
)

// enquiry stores a buyer message. Rate limiting happens here rather than in
// route middleware because the identifier prefers the sender id from the
// body, with the client IP as fallback.
func (s *Server) enquiry(c echo.Context) error {
	var req enquiry.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	identifier := req.SenderID
	if identifier == "" {
		identifier = helpers.ClientIdentifier(c)
	}

	blocked, err := s.rateLimiter.CheckAndIncrement(c.Request().Context(), identifier, ratelimit.EventEnquiry)
	if err != nil {
		s.logger.WithError(err).Error("rate limiter store failure; rejecting enquiry")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if blocked {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many enquiries"})
	}

	if err := s.enquirySvc.Submit(c.Request().Context(), &req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
