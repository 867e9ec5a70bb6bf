package usecases

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fammo-app/fammo/internal/domain/pet"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/utils"
)

// Step names, in the order the wizard asks them.
const (
	StepName       = "name"
	StepGender     = "gender"
	StepAge        = "age"
	StepNeutering  = "neutering"
	StepBreedKnown = "breed_known"
	StepBreed      = "breed"
	StepFood       = "food"
	StepBody       = "body"
	StepActivity   = "activity"
	StepHealth     = "health"
)

// youngPetDays is the age below which neutering is not asked.
const youngPetDays = 180

type step interface {
	name() string
	skipped(draft pet.Attributes) bool
	submit(raw []byte, draft *pet.Attributes) error
}

// typedStep decodes the raw payload into T, validates it and applies it
// to the draft.
type typedStep[T any] struct {
	stepName string
	apply    func(in T, draft *pet.Attributes) error
	skip     func(draft pet.Attributes) bool
}

func (s typedStep[T]) name() string { return s.stepName }

func (s typedStep[T]) skipped(draft pet.Attributes) bool {
	return s.skip != nil && s.skip(draft)
}

func (s typedStep[T]) submit(raw []byte, draft *pet.Attributes) error {
	var in T
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return errors.NewValidationError("Invalid step payload", err.Error())
	}
	if err := utils.ValidateStruct(&in); err != nil {
		return err
	}
	return s.apply(in, draft)
}

type nameInput struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Species string `json:"species" validate:"required,oneof=dog cat"`
}

type genderInput struct {
	Gender string `json:"gender" validate:"required,oneof=male female"`
}

type ageInput struct {
	Years  int `json:"age_years" validate:"gte=0,lte=30"`
	Months int `json:"age_months" validate:"gte=0,lte=11"`
	Weeks  int `json:"age_weeks" validate:"gte=0,lte=52"`
}

type neuteringInput struct {
	Neutered *bool `json:"neutered" validate:"required"`
}

type breedKnownInput struct {
	KnowsBreed *bool `json:"knows_breed" validate:"required"`
}

type breedInput struct {
	Breed string `json:"breed" validate:"required,max=100"`
}

type foodInput struct {
	FoodTypes      []string `json:"food_types" validate:"required,min=1,dive,required,max=50"`
	FoodFeeling    string   `json:"food_feeling" validate:"required,max=100"`
	FoodImportance string   `json:"food_importance" validate:"required,max=100"`
}

type bodyInput struct {
	BodyType string   `json:"body_type" validate:"required,max=100"`
	WeightKg *float64 `json:"weight_kg" validate:"omitempty,gt=0,lte=150"`
}

type activityInput struct {
	ActivityLevel  string `json:"activity_level" validate:"required,max=100"`
	TreatFrequency string `json:"treat_frequency" validate:"required,max=100"`
}

type healthInput struct {
	FoodAllergies    []string `json:"food_allergies" validate:"omitempty,dive,required,max=100"`
	FoodAllergyOther string   `json:"food_allergy_other" validate:"max=255"`
	HealthIssues     []string `json:"health_issues" validate:"omitempty,dive,required,max=100"`
}

var titleCaser = cases.Title(language.English)

// wizardSteps returns the onboarding questionnaire in order.
func wizardSteps() []step {
	return []step{
		typedStep[nameInput]{
			stepName: StepName,
			apply: func(in nameInput, d *pet.Attributes) error {
				name := strings.Join(strings.Fields(in.Name), " ")
				if name == "" {
					return errors.NewValidationError("Validation failed", "name is required")
				}
				d.Name = titleCaser.String(name)
				d.Species = in.Species
				return nil
			},
		},
		typedStep[genderInput]{
			stepName: StepGender,
			apply: func(in genderInput, d *pet.Attributes) error {
				d.Gender = in.Gender
				return nil
			},
		},
		typedStep[ageInput]{
			stepName: StepAge,
			apply: func(in ageInput, d *pet.Attributes) error {
				if in.Years == 0 && in.Months == 0 && in.Weeks == 0 {
					return errors.NewValidationError("Validation failed", "age must be greater than zero")
				}
				d.AgeYears, d.AgeMonths, d.AgeWeeks = in.Years, in.Months, in.Weeks
				if d.AgeInDays() < youngPetDays {
					d.Neutered = nil
				}
				return nil
			},
		},
		typedStep[neuteringInput]{
			stepName: StepNeutering,
			apply: func(in neuteringInput, d *pet.Attributes) error {
				d.Neutered = in.Neutered
				return nil
			},
			skip: func(d pet.Attributes) bool { return d.AgeInDays() < youngPetDays },
		},
		typedStep[breedKnownInput]{
			stepName: StepBreedKnown,
			apply: func(in breedKnownInput, d *pet.Attributes) error {
				d.UnknownBreed = !*in.KnowsBreed
				if d.UnknownBreed {
					d.Breed = ""
				}
				return nil
			},
		},
		typedStep[breedInput]{
			stepName: StepBreed,
			apply: func(in breedInput, d *pet.Attributes) error {
				d.Breed = strings.TrimSpace(in.Breed)
				return nil
			},
			skip: func(d pet.Attributes) bool { return d.UnknownBreed },
		},
		typedStep[foodInput]{
			stepName: StepFood,
			apply: func(in foodInput, d *pet.Attributes) error {
				d.FoodTypes = in.FoodTypes
				d.FoodFeeling = in.FoodFeeling
				d.FoodImportance = in.FoodImportance
				return nil
			},
		},
		typedStep[bodyInput]{
			stepName: StepBody,
			apply: func(in bodyInput, d *pet.Attributes) error {
				d.BodyType = in.BodyType
				d.WeightKg = in.WeightKg
				return nil
			},
		},
		typedStep[activityInput]{
			stepName: StepActivity,
			apply: func(in activityInput, d *pet.Attributes) error {
				d.ActivityLevel = in.ActivityLevel
				d.TreatFrequency = in.TreatFrequency
				return nil
			},
		},
		typedStep[healthInput]{
			stepName: StepHealth,
			apply: func(in healthInput, d *pet.Attributes) error {
				d.FoodAllergies = in.FoodAllergies
				d.FoodAllergyOther = strings.TrimSpace(in.FoodAllergyOther)
				d.HealthIssues = in.HealthIssues
				return nil
			},
		},
	}
}

// StepNames lists every step name in order.
func StepNames() []string {
	steps := wizardSteps()
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.name())
	}
	return names
}
