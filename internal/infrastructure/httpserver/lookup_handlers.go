package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hazelmere/property-api/internal/core/domain/guide"
	"github.com/hazelmere/property-api/internal/core/domain/nearby"
)

// Lookup handlers
func (s *Server) nearby(c echo.Context) error {
	var req nearby.LookupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lon < -180 || req.Lon > 180 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "coordinates out of range"})
	}

	result, err := s.nearbySvc.Lookup(c.Request().Context(), req.Lat, req.Lon)
	if err != nil {
		s.logger.WithError(err).Error("nearby lookup failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) areaGuide(c echo.Context) error {
	var req guide.LookupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	req.Area = strings.TrimSpace(req.Area)
	if req.Area == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "area is required"})
	}

	g, err := s.areaGuideSvc.Lookup(c.Request().Context(), req.Area)
	if err != nil {
		s.logger.WithError(err).Error("area guide lookup failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, g)
}
