package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/infrastructure/auth"
	"github.com/fammo-app/fammo/internal/infrastructure/cache"
	"github.com/fammo-app/fammo/internal/infrastructure/config"
	"github.com/fammo-app/fammo/internal/infrastructure/email"
	"github.com/fammo-app/fammo/internal/infrastructure/geocoding"
	"github.com/fammo-app/fammo/internal/infrastructure/llm"
	"github.com/fammo-app/fammo/internal/infrastructure/permission"
	"github.com/fammo-app/fammo/internal/infrastructure/ratelimit"
	"github.com/fammo-app/fammo/internal/infrastructure/scheduler"
	"github.com/fammo-app/fammo/internal/infrastructure/token"
	"github.com/fammo-app/fammo/internal/interfaces/http/middleware"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases,
// handlers and middlewares, and wires them together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	// Infrastructure services
	jwtSvc       *auth.JWTService
	hasher       *auth.BcryptPasswordHasher
	tokens       *token.Generator
	emailSvc     *email.SMTPEmailService
	geocoder     *geocoding.NominatimClient
	generator    recommendation.Generator
	gemini       *llm.GeminiGenerator
	pendingStore *cache.PendingStore
	enforcer     *permission.Enforcer
}

// NewContainer builds the whole object graph. The database and Redis
// connections are owned by the caller.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	// Section 1: Infrastructure - Repositories, Auth, Email, Geocoding, LLM
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Application - Use cases
	c.initUseCases()

	// Section 3: Interfaces - Handlers and Middlewares
	c.initHandlers()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.cfg

	c.repos = newRepositories(c.db, c.log)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	c.hasher = auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	c.tokens = token.NewTokenGenerator()
	c.pendingStore = cache.NewPendingStore(c.redis)
	c.geocoder = geocoding.NewNominatimClient(cfg.Geocoding, c.log)
	c.emailSvc = email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		BaseURL:     cfg.Server.BaseURL,
		AdminEmails: cfg.Email.AdminEmails,
	})

	gemini, err := llm.NewGeminiGenerator(context.Background(), cfg.LLM, c.log)
	if err != nil {
		c.log.Warnw("AI generation disabled", "error", err)
		c.generator = llm.DisabledGenerator{}
	} else {
		c.gemini = gemini
		c.generator = gemini
	}

	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := enforcer.SeedDefaultPolicies(); err != nil {
		return fmt.Errorf("failed to seed permission policies: %w", err)
	}
	c.enforcer = enforcer

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)
	if cfg.RateLimit.Enabled {
		window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		limiter := ratelimit.NewRedisRateLimiter(c.redis, cfg.RateLimit.Requests, window)
		c.rateLimiter = middleware.NewRateLimiter(limiter, c.log)
	}

	return nil
}

// RegisterJobs adds the maintenance jobs to the scheduler.
func (c *Container) RegisterJobs(m *scheduler.SchedulerManager) error {
	if err := m.RegisterUsageResetJob(scheduler.BatchJobFunc(c.ucs.resetStaleUsage.RunBatch)); err != nil {
		return fmt.Errorf("failed to register usage reset job: %w", err)
	}
	if err := m.RegisterReferralCodeJob(c.ucs.createMissingCodesUC); err != nil {
		return fmt.Errorf("failed to register referral code job: %w", err)
	}
	interval := time.Duration(c.cfg.Scheduler.GeocodeIntervalHours) * time.Hour
	if err := m.RegisterGeocodeJob(scheduler.BatchJobFunc(c.ucs.geocodeClinicsUC.RunBatch), interval); err != nil {
		return fmt.Errorf("failed to register geocode job: %w", err)
	}
	return nil
}

// GetEngine returns the gin engine with every route registered.
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// Shutdown releases clients the container opened itself.
func (c *Container) Shutdown() {
	if c.gemini != nil {
		if err := c.gemini.Close(); err != nil {
			c.log.Warnw("failed to close LLM client", "error", err)
		}
	}
}
