package httpserver

import "github.com/hazelmere/property-api/internal/core/domain/ratelimit"

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")
	// nearby and area-guide are deliberately not rate limited; they serve
	// mostly from cache, only login and enquiry are throttled.
	api.POST("/nearby", s.nearby)
	api.POST("/area-guide", s.areaGuide)
	api.POST("/enquiry", s.enquiry)
	api.POST("/login", s.login, s.middleware.RateLimit.LimitByIP(ratelimit.EventLogin, "Too many login attempts"))
}
