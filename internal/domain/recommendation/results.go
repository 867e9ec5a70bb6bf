package recommendation

type NutrientTargets struct {
	ProteinPercent string `json:"protein_percent"`
	FatPercent     string `json:"fat_percent"`
	CarbsPercent   string `json:"carbs_percent"`
}

type MealSection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type MealOption struct {
	Name     string        `json:"name"`
	Overview string        `json:"overview"`
	Sections []MealSection `json:"sections"`
}

type FeedingTime struct {
	Time string `json:"time"`
	Note string `json:"note"`
}

// MealPlan is the structured one-day meal plan returned by the model.
type MealPlan struct {
	DERKcal         int             `json:"der_kcal"`
	NutrientTargets NutrientTargets `json:"nutrient_targets"`
	Options         []MealOption    `json:"options"`
	FeedingSchedule []FeedingTime   `json:"feeding_schedule"`
	SafetyNotes     []string        `json:"safety_notes"`
}

// HealthReport is the structured health insight report returned by the model.
type HealthReport struct {
	HealthSummary string   `json:"health_summary"`
	BreedRisks    []string `json:"breed_risks"`
	WeightAndDiet string   `json:"weight_and_diet"`
	FeedingTips   []string `json:"feeding_tips"`
	Activity      string   `json:"activity"`
	Alerts        []string `json:"alerts"`
}
