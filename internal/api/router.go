package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/reservation-backend/internal/pkg/ratelimit"
	"github.com/nekogravitycat/reservation-backend/internal/reservation"
	reservationHttp "github.com/nekogravitycat/reservation-backend/internal/reservation/http"
	"github.com/nekogravitycat/reservation-backend/internal/resource"
	resourceHttp "github.com/nekogravitycat/reservation-backend/internal/resource/http"
	"github.com/nekogravitycat/reservation-backend/internal/salon"
	salonHttp "github.com/nekogravitycat/reservation-backend/internal/salon/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger

	// DB backs the readiness probe.
	DB Pinger

	// WriteLimiter throttles mutating requests per client. Nil disables it.
	WriteLimiter ratelimit.Limiter

	ResourceService    resource.Service
	ReservationService reservation.Service
	SalonService       salon.Service

	Location            *time.Location
	AvailabilityMaxDays int
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (request logging, recovery, CORS) and registers routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(RequestLogger(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.IsProduction, cfg.ProdOrigins)))

	r.GET("/healthz", Healthz)
	r.GET("/readyz", Readyz(cfg.DB))

	var writeMiddleware []gin.HandlerFunc
	if cfg.WriteLimiter != nil {
		writeMiddleware = append(writeMiddleware, RateLimit(cfg.WriteLimiter, logger))
	}

	resourceHandler := resourceHttp.NewHandler(cfg.ResourceService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService, cfg.Location, cfg.AvailabilityMaxDays)
	salonHandler := salonHttp.NewHandler(cfg.SalonService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		resourceHttp.RegisterRoutes(v1, resourceHandler, writeMiddleware...)
		reservationHttp.RegisterRoutes(v1, reservationHandler, writeMiddleware...)
		salonHttp.RegisterRoutes(v1, salonHandler, writeMiddleware...)
	}

	return r
}

func corsConfig(isProduction bool, prodOrigins string) cors.Config {
	config := cors.DefaultConfig()
	if isProduction {
		config.AllowOrigins = splitOrigins(prodOrigins)
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000", // Web frontend
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	return config
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		// cors.New panics on an empty origin list.
		out = []string{"https://localhost"}
	}
	return out
}
