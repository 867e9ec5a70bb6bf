package http

import (
	"time"

	clinicUsecases "github.com/fammo-app/fammo/internal/application/clinic/usecases"
	petUsecases "github.com/fammo-app/fammo/internal/application/pet/usecases"
	profileUsecases "github.com/fammo-app/fammo/internal/application/profile/usecases"
	referralUsecases "github.com/fammo-app/fammo/internal/application/referral/usecases"
	usageUsecases "github.com/fammo-app/fammo/internal/application/usage/usecases"
	userUsecases "github.com/fammo-app/fammo/internal/application/user/usecases"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/services/markdown"
)

// allUseCases holds every use case the handlers and scheduled jobs call.
type allUseCases struct {
	// Clinics
	findNearbyClinicsUC  *clinicUsecases.FindNearbyClinicsUseCase
	findClinicsByCityUC  *clinicUsecases.FindClinicsByCityUseCase
	registerClinicUC     *clinicUsecases.RegisterClinicUseCase
	confirmClinicEmailUC *clinicUsecases.ConfirmClinicEmailUseCase
	clinicDashboardUC    *clinicUsecases.GetClinicDashboardUseCase
	nearbyUsersReportUC  *clinicUsecases.NearbyUsersReportUseCase
	updateClinicGatesUC  *clinicUsecases.UpdateClinicGatesUseCase
	geocodeClinicsUC     *clinicUsecases.GeocodeClinicsUseCase

	// Referrals
	trackReferralUC       *referralUsecases.TrackReferralUseCase
	recordReferralVisitUC *referralUsecases.RecordReferralVisitUseCase
	attachReferralUC      *referralUsecases.AttachReferralOnRegistrationUseCase
	activateReferralUC    *referralUsecases.ActivateReferralUseCase
	issueReferralCodeUC   *referralUsecases.IssueReferralCodeUseCase
	deactivateReferralUC  *referralUsecases.DeactivateReferralCodeUseCase
	setReferralStatusUC   *referralUsecases.SetReferralStatusUseCase
	createMissingCodesUC  *referralUsecases.CreateMissingReferralCodesUseCase
	ensureActiveCodeUC    *referralUsecases.EnsureActiveCodeUseCase

	// Usage & AI
	mealPlanUC      *usageUsecases.GenerateMealPlanUseCase
	healthReportUC  *usageUsecases.GenerateHealthReportUseCase
	usageStatusUC   *usageUsecases.GetUsageStatusUseCase
	historyUC       *usageUsecases.ListRecommendationHistoryUseCase
	listPlansUC     *usageUsecases.ListPlansUseCase
	resetStaleUsage *usageUsecases.ResetStaleUsageUseCase

	// Pets & profile
	createPetUC    *petUsecases.CreatePetUseCase
	listPetsUC     *petUsecases.ListPetsUseCase
	wizard         *petUsecases.WizardService
	saveLocationUC *profileUsecases.SaveLocationUseCase

	// Accounts
	registerUC *userUsecases.RegisterUseCase
	activateUC *userUsecases.ActivateAccountUseCase
	loginUC    *userUsecases.LoginUseCase
}

// initUseCases wires the application layer. Referral use cases come first
// because clinic confirmation and account registration depend on them.
func (c *Container) initUseCases() {
	cfg := c.cfg
	tx := db.NewTransactionManager(c.db)
	repos := c.repos
	ucs := &allUseCases{}

	referralSettings := referralUsecases.Settings{
		SiteURL:     cfg.Referral.SiteURL,
		MaxAttempts: cfg.Referral.MaxAttempts,
		PendingTTL:  cfg.Referral.PendingTTL(),
	}
	codeGenerator := clinic.NewCodeGenerator(cfg.Referral.CodePrefix, cfg.Referral.SlugMaxLength, cfg.Referral.SuffixLength)
	resolver := referralUsecases.NewCodeResolver(repos.referralCodeRepo, repos.clinicRepo, c.log)
	minter := referralUsecases.NewCodeMinter(repos.referralCodeRepo, codeGenerator, referralSettings, c.log)

	ucs.trackReferralUC = referralUsecases.NewTrackReferralUseCase(resolver, repos.referredUserRepo, repos.userRepo, c.log)
	ucs.recordReferralVisitUC = referralUsecases.NewRecordReferralVisitUseCase(
		resolver, repos.referredUserRepo, c.pendingStore, referralSettings, c.log,
	)
	ucs.attachReferralUC = referralUsecases.NewAttachReferralOnRegistrationUseCase(
		resolver, repos.referredUserRepo, c.pendingStore, referralSettings, c.log,
	)
	ucs.activateReferralUC = referralUsecases.NewActivateReferralUseCase(repos.referredUserRepo, c.pendingStore, c.log)
	ucs.ensureActiveCodeUC = referralUsecases.NewEnsureActiveCodeUseCase(repos.referralCodeRepo, minter, c.log)
	ucs.issueReferralCodeUC = referralUsecases.NewIssueReferralCodeUseCase(
		repos.clinicRepo, repos.referralCodeRepo, minter, referralSettings, c.log,
	)
	ucs.deactivateReferralUC = referralUsecases.NewDeactivateReferralCodeUseCase(repos.clinicRepo, repos.referralCodeRepo, c.log)
	ucs.setReferralStatusUC = referralUsecases.NewSetReferralStatusUseCase(tx, repos.referredUserRepo, c.log)
	ucs.createMissingCodesUC = referralUsecases.NewCreateMissingReferralCodesUseCase(repos.clinicRepo, minter, c.log)

	ucs.findNearbyClinicsUC = clinicUsecases.NewFindNearbyClinicsUseCase(repos.clinicRepo, c.log)
	ucs.findClinicsByCityUC = clinicUsecases.NewFindClinicsByCityUseCase(repos.clinicRepo, c.log)
	ucs.registerClinicUC = clinicUsecases.NewRegisterClinicUseCase(
		tx, repos.clinicRepo, repos.userRepo, c.hasher, c.tokens, c.emailSvc, c.geocoder, c.log,
	)
	ucs.confirmClinicEmailUC = clinicUsecases.NewConfirmClinicEmailUseCase(
		repos.clinicRepo, c.tokens, ucs.ensureActiveCodeUC, c.emailSvc, c.log,
	)
	ucs.clinicDashboardUC = clinicUsecases.NewGetClinicDashboardUseCase(
		repos.clinicRepo, repos.referralCodeRepo, repos.referredUserRepo, cfg.Referral.SiteURL, c.log,
	)
	ucs.nearbyUsersReportUC = clinicUsecases.NewNearbyUsersReportUseCase(repos.clinicRepo, repos.profileRepo, repos.userRepo, c.log)
	ucs.updateClinicGatesUC = clinicUsecases.NewUpdateClinicGatesUseCase(repos.clinicRepo, ucs.ensureActiveCodeUC, c.log)
	ucs.geocodeClinicsUC = clinicUsecases.NewGeocodeClinicsUseCase(repos.clinicRepo, c.geocoder, c.log).
		WithBatchLimit(cfg.Scheduler.GeocodeBatchLimit)

	policy := usage.NewPolicy(usage.Defaults{
		MealLimit:   cfg.Quota.DefaultMealLimit,
		HealthLimit: cfg.Quota.DefaultHealthLimit,
	})
	subjects := usageUsecases.NewSubjectResolver(repos.userRepo, repos.profileRepo, repos.planRepo, c.log)
	runner := usageUsecases.NewMeteredActionRunner(tx, repos.ledgerRepo, repos.recommendRepo, subjects, policy, c.log)
	ucs.mealPlanUC = usageUsecases.NewGenerateMealPlanUseCase(runner, repos.petRepo, repos.recommendRepo, c.generator, c.log)
	ucs.healthReportUC = usageUsecases.NewGenerateHealthReportUseCase(runner, repos.petRepo, repos.recommendRepo, c.generator, c.log)
	ucs.usageStatusUC = usageUsecases.NewGetUsageStatusUseCase(subjects, repos.recommendRepo, policy, c.log)
	ucs.historyUC = usageUsecases.NewListRecommendationHistoryUseCase(repos.recommendRepo, c.log)
	ucs.listPlansUC = usageUsecases.NewListPlansUseCase(repos.planRepo, markdown.NewRenderer(), c.log)
	ucs.resetStaleUsage = usageUsecases.NewResetStaleUsageUseCase(repos.ledgerRepo, c.log)

	ucs.createPetUC = petUsecases.NewCreatePetUseCase(tx, repos.petRepo, repos.profileRepo, repos.planRepo, c.log)
	ucs.listPetsUC = petUsecases.NewListPetsUseCase(repos.petRepo, c.log)
	ucs.wizard = petUsecases.NewWizardService(c.pendingStore, ucs.createPetUC, c.log)
	ucs.saveLocationUC = profileUsecases.NewSaveLocationUseCase(repos.profileRepo, c.log)

	activationTTL := time.Duration(cfg.Auth.Token.ActivationExpiresHours) * time.Hour
	ucs.registerUC = userUsecases.NewRegisterUseCase(
		tx, repos.userRepo, repos.profileRepo, c.hasher, c.tokens, c.emailSvc,
		ucs.attachReferralUC, ucs.wizard, activationTTL, c.log,
	)
	ucs.activateUC = userUsecases.NewActivateAccountUseCase(
		repos.userRepo, c.tokens, c.jwtSvc, ucs.activateReferralUC, ucs.wizard, c.log,
	)
	ucs.loginUC = userUsecases.NewLoginUseCase(repos.userRepo, c.hasher, c.jwtSvc, c.log)

	c.ucs = ucs
}
