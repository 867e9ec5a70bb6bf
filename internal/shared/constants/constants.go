package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Table names
	TableUsers             = "users"
	TableProfiles          = "profiles"
	TablePets              = "pets"
	TableSubscriptionPlans = "subscription_plans"
	TableAIUsage           = "ai_usage"
	TableAIRecommendations = "ai_recommendations"
	TableClinics           = "clinics"
	TableReferralCodes     = "referral_codes"
	TableReferredUsers     = "referred_users"

	// Pending-state kinds, stored under fammo:pending:<kind>:<key>.
	PendingReferralVisit = "referral-visit"
	PendingReferral      = "pending-referral"
	PendingPetWizard     = "pet-wizard"
	PendingPet           = "pending-pet"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Authentication required"
)
