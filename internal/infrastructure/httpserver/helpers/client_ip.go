package helpers

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hazelmere/property-api/internal/core/domain/ratelimit"
)

// ClientIdentifier resolves the best-effort caller identity for rate
// limiting: first hop of X-Forwarded-For, then CF-Connecting-IP, then the
// connection address, then the sentinel.
func ClientIdentifier(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		if hop := strings.TrimSpace(strings.Split(xff, ",")[0]); hop != "" {
			return hop
		}
	}
	if ip := c.Request().Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return ratelimit.IdentifierUnknown
}
