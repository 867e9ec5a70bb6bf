package http

import (
	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/pet"
	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/infrastructure/repository"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	userRepo         user.Repository
	profileRepo      profile.Repository
	clinicRepo       clinic.ClinicRepository
	referralCodeRepo clinic.ReferralCodeRepository
	referredUserRepo clinic.ReferredUserRepository
	petRepo          pet.Repository
	planRepo         usage.PlanRepository
	ledgerRepo       usage.LedgerRepository
	recommendRepo    recommendation.Repository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:         repository.NewUserRepository(db, log),
		profileRepo:      repository.NewProfileRepository(db, log),
		clinicRepo:       repository.NewClinicRepository(db, log),
		referralCodeRepo: repository.NewReferralCodeRepository(db, log),
		referredUserRepo: repository.NewReferredUserRepository(db, log),
		petRepo:          repository.NewPetRepository(db, log),
		planRepo:         repository.NewSubscriptionPlanRepository(db, log),
		ledgerRepo:       repository.NewAIUsageRepository(db, log),
		recommendRepo:    repository.NewAIRecommendationRepository(db, log),
	}
}
