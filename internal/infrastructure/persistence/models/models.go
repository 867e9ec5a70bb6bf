package models

// All lists every persistence model, in dependency order. Used by the
// auto-migrate strategy and test databases.
func All() []any {
	return []any{
		&UserModel{},
		&SubscriptionPlanModel{},
		&ProfileModel{},
		&PetModel{},
		&AIUsageModel{},
		&AIRecommendationModel{},
		&ClinicModel{},
		&ReferralCodeModel{},
		&ReferredUserModel{},
	}
}
