package http

import (
	"context"

	"github.com/fammo-app/fammo/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	vetHandler     *handlers.VetHandler
	authHandler    *handlers.AuthHandler
	profileHandler *handlers.ProfileHandler
	petHandler     *handlers.PetHandler
	aiHandler      *handlers.AIHandler
	planHandler    *handlers.PlanHandler
	adminHandler   *handlers.AdminHandler
	healthHandler  *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	ucs := c.ucs
	h := &allHandlers{}

	h.vetHandler = handlers.NewVetHandler(
		ucs.findNearbyClinicsUC,
		ucs.findClinicsByCityUC,
		ucs.trackReferralUC,
		ucs.recordReferralVisitUC,
		ucs.registerClinicUC,
		ucs.confirmClinicEmailUC,
		ucs.clinicDashboardUC,
		ucs.issueReferralCodeUC,
		ucs.deactivateReferralUC,
		c.cfg.Referral.PendingTTL(),
		c.log,
	)
	h.authHandler = handlers.NewAuthHandler(ucs.registerUC, ucs.activateUC, ucs.loginUC, c.log)
	h.profileHandler = handlers.NewProfileHandler(ucs.saveLocationUC, c.log)
	h.petHandler = handlers.NewPetHandler(ucs.wizard, ucs.listPetsUC, c.log)
	h.aiHandler = handlers.NewAIHandler(ucs.mealPlanUC, ucs.healthReportUC, ucs.usageStatusUC, ucs.historyUC, c.log)
	h.planHandler = handlers.NewPlanHandler(ucs.listPlansUC, c.log)
	h.adminHandler = handlers.NewAdminHandler(
		ucs.nearbyUsersReportUC, ucs.updateClinicGatesUC, ucs.setReferralStatusUC, ucs.resetStaleUsage, c.log,
	)
	h.healthHandler = handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"database": c.pingDatabase,
		"redis":    c.pingRedis,
	}, c.log)

	c.hdlrs = h
}

func (c *Container) pingDatabase(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Container) pingRedis(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}
