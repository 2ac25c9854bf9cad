package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/ports"
	customMiddleware "github.com/hazelmere/property-api/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	AreaGuideService   ports.AreaGuideService
	NearbyService      ports.NearbyService
	EnquiryService     ports.EnquiryService
	AuthService        ports.AuthService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	areaGuideSvc   ports.AreaGuideService
	nearbySvc      ports.NearbyService
	enquirySvc     ports.EnquiryService
	authSvc        ports.AuthService
	rateLimiter    ports.RateLimiterService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		areaGuideSvc:   deps.AreaGuideService,
		nearbySvc:      deps.NearbyService,
		enquirySvc:     deps.EnquiryService,
		authSvc:        deps.AuthService,
		rateLimiter:    deps.RateLimiterService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
