package app

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/reservation-backend/internal/api"
	"github.com/nekogravitycat/reservation-backend/internal/event"
	"github.com/nekogravitycat/reservation-backend/internal/pkg/ratelimit"
	"github.com/nekogravitycat/reservation-backend/internal/reservation"
	"github.com/nekogravitycat/reservation-backend/internal/resource"
	"github.com/nekogravitycat/reservation-backend/internal/salon"
	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger

	BusinessHours       scheduling.BusinessHours
	Location            *time.Location
	AvailabilityMaxDays int

	RedisAddr          string
	RedisPassword      string
	RateLimitPerMinute int

	KafkaBrokers string
	KafkaTopic   string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router       *gin.Engine
	SalonService salon.Service

	publisher event.Publisher
	redis     *redis.Client
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{}

	// Salon Module: owns the live business hours.
	salonRepo := salon.NewPgxRepository(cfg.DBPool)
	salonService := salon.NewService(salonRepo, salon.Info{
		Name:               "Salon",
		BusinessHoursStart: cfg.BusinessHours.Start,
		BusinessHoursEnd:   cfg.BusinessHours.End,
	}, logger.Named("salon"))
	c.SalonService = salonService

	// Resource Module
	resRepo := resource.NewPgxRepository(cfg.DBPool)
	resService := resource.NewService(resRepo)

	// Reservation Module
	c.publisher = event.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	reservationRepo := reservation.NewPgxRepository(cfg.DBPool)
	reservationService := reservation.NewService(
		reservationRepo, resService, salonService, cfg.Location, c.publisher, logger.Named("reservation"),
	)

	// Write rate limiting is shared through Redis when configured.
	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		c.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		limiter = ratelimit.NewRedis(c.redis, cfg.RateLimitPerMinute, time.Minute, "reservation-backend:rl")
	} else {
		limiter = ratelimit.NewMemory(cfg.RateLimitPerMinute, time.Minute)
	}

	var pinger api.Pinger
	if cfg.DBPool != nil {
		pinger = cfg.DBPool
	}

	// Router
	c.Router = api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              logger.Named("http"),
		DB:                  pinger,
		WriteLimiter:        limiter,
		ResourceService:     resService,
		ReservationService:  reservationService,
		SalonService:        salonService,
		Location:            cfg.Location,
		AvailabilityMaxDays: cfg.AvailabilityMaxDays,
	})

	return c
}

// Close releases the event publisher and the Redis client.
func (c *Container) Close() error {
	var errs []error
	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	return errors.Join(errs...)
}
