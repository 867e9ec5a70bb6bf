package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fammo-app/fammo/internal/interfaces/http/middleware"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.Metrics())

	c.engine.GET("/health", c.hdlrs.healthHandler.Health)
	c.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := c.engine.Group("/api")
	c.setupVetRoutes(api)
	c.setupAuthRoutes(api)
	c.setupPetRoutes(api)
	c.setupProfileRoutes(api)
	c.setupAIRoutes(api)
	c.setupAdminRoutes(api)

	api.GET("/plans", c.hdlrs.planHandler.ListPlans)
}

// setupVetRoutes configures clinic search, referral and clinic owner routes
func (c *Container) setupVetRoutes(api *gin.RouterGroup) {
	h := c.hdlrs.vetHandler
	vets := api.Group("/vets")
	{
		vets.GET("/nearby-clinics", c.limit(), h.NearbyClinics)
		vets.GET("/clinics-by-city", c.limit(), h.ClinicsByCity)
		vets.POST("/track-referral", c.limit(), h.TrackReferral)
		vets.GET("/ref/:code", c.limit(), h.ReferralLanding)
		vets.POST("/clinics", c.limit(), c.authMiddleware.OptionalAuth(), h.RegisterClinic)
		vets.GET("/clinics/confirm", c.limit(), h.ConfirmClinicEmail)
	}

	dashboard := vets.Group("/dashboard")
	dashboard.Use(c.authMiddleware.RequireAuth())
	{
		dashboard.GET("", h.Dashboard)
		dashboard.POST("/referral-codes", h.IssueReferralCode)
		dashboard.POST("/referral-codes/:id/deactivate", h.DeactivateReferralCode)
	}
}

// setupAuthRoutes configures account routes
func (c *Container) setupAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.limit(), c.hdlrs.authHandler.Register)
		auth.POST("/activate", c.limit(), c.hdlrs.authHandler.Activate)
		auth.POST("/login", c.limit(), c.hdlrs.authHandler.Login)
	}
}

// setupPetRoutes configures the onboarding wizard and pet listing
func (c *Container) setupPetRoutes(api *gin.RouterGroup) {
	h := c.hdlrs.petHandler
	pets := api.Group("/pets")
	{
		pets.POST("/wizard", c.limit(), h.StartWizard)
		pets.POST("/wizard/:token/steps/:step", c.limit(), h.SubmitStep)
		pets.POST("/wizard/:token/finish", c.authMiddleware.RequireAuth(), h.FinishWizard)
		pets.GET("", c.authMiddleware.RequireAuth(), h.ListPets)
	}
}

// setupProfileRoutes configures profile routes
func (c *Container) setupProfileRoutes(api *gin.RouterGroup) {
	profile := api.Group("/profile")
	profile.Use(c.authMiddleware.RequireAuth())
	{
		profile.POST("/save-location", c.hdlrs.profileHandler.SaveLocation)
	}
}

// setupAIRoutes configures the metered AI actions
func (c *Container) setupAIRoutes(api *gin.RouterGroup) {
	h := c.hdlrs.aiHandler
	ai := api.Group("/ai")
	ai.Use(c.authMiddleware.RequireAuth())
	{
		ai.POST("/pets/:id/meal-plan", h.MealPlan)
		ai.POST("/pets/:id/health-report", h.HealthReport)
		ai.GET("/usage", h.Usage)
		ai.GET("/history", h.History)
	}
}

// setupAdminRoutes configures back-office routes guarded by casbin policies
func (c *Container) setupAdminRoutes(api *gin.RouterGroup) {
	h := c.hdlrs.adminHandler
	admin := api.Group("/admin")
	admin.Use(c.authMiddleware.RequireAuth(), c.permissionMiddleware.RequirePermission())
	{
		admin.GET("/clinic/:id/nearby-users", h.NearbyUsers)
		admin.PATCH("/clinics/:id/gates", h.UpdateClinicGates)
		admin.POST("/referrals/status", h.SetReferralStatus)
		admin.POST("/usage/reset-stale", h.ResetStaleUsage)
	}
}

// limit returns the IP rate limiter, or a pass-through when it is disabled.
func (c *Container) limit() gin.HandlerFunc {
	if c.rateLimiter == nil {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return c.rateLimiter.Limit()
}
