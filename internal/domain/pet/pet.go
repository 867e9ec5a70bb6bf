package pet

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrPetNotFound     = errors.New("pet not found")
	ErrPetLimitReached = errors.New("pet limit reached for plan")
	ErrNameRequired    = errors.New("pet name is required")
	ErrNotOwner        = errors.New("pet belongs to another user")
)

// Attributes is everything known about a pet. The onboarding wizard
// accumulates it step by step before the pet exists.
type Attributes struct {
	Name             string   `json:"name"`
	Species          string   `json:"species,omitempty"`
	Gender           string   `json:"gender,omitempty"`
	Neutered         *bool    `json:"neutered,omitempty"`
	AgeYears         int      `json:"age_years,omitempty"`
	AgeMonths        int      `json:"age_months,omitempty"`
	AgeWeeks         int      `json:"age_weeks,omitempty"`
	Breed            string   `json:"breed,omitempty"`
	UnknownBreed     bool     `json:"unknown_breed,omitempty"`
	FoodTypes        []string `json:"food_types,omitempty"`
	FoodFeeling      string   `json:"food_feeling,omitempty"`
	FoodImportance   string   `json:"food_importance,omitempty"`
	BodyType         string   `json:"body_type,omitempty"`
	WeightKg         *float64 `json:"weight_kg,omitempty"`
	ActivityLevel    string   `json:"activity_level,omitempty"`
	FoodAllergies    []string `json:"food_allergies,omitempty"`
	FoodAllergyOther string   `json:"food_allergy_other,omitempty"`
	HealthIssues     []string `json:"health_issues,omitempty"`
	TreatFrequency   string   `json:"treat_frequency,omitempty"`
}

// AgeInDays approximates age the same way the profile text does.
func (a Attributes) AgeInDays() int {
	return a.AgeYears*365 + a.AgeMonths*30 + a.AgeWeeks*7
}

type Pet struct {
	id        uint
	ownerID   uint
	attrs     Attributes
	createdAt time.Time
	updatedAt time.Time
}

func NewPet(ownerID uint, attrs Attributes) (*Pet, error) {
	if ownerID == 0 {
		return nil, errors.New("owner ID cannot be zero")
	}
	attrs.Name = strings.TrimSpace(attrs.Name)
	if attrs.Name == "" {
		return nil, ErrNameRequired
	}
	now := time.Now().UTC()
	return &Pet{ownerID: ownerID, attrs: attrs, createdAt: now, updatedAt: now}, nil
}

func ReconstructPet(id, ownerID uint, attrs Attributes, createdAt, updatedAt time.Time) *Pet {
	return &Pet{id: id, ownerID: ownerID, attrs: attrs, createdAt: createdAt, updatedAt: updatedAt}
}

func (p *Pet) ID() uint               { return p.id }
func (p *Pet) OwnerID() uint          { return p.ownerID }
func (p *Pet) Name() string           { return p.attrs.Name }
func (p *Pet) Attributes() Attributes { return p.attrs }
func (p *Pet) CreatedAt() time.Time   { return p.createdAt }
func (p *Pet) UpdatedAt() time.Time   { return p.updatedAt }

func (p *Pet) SetID(id uint) {
	p.id = id
}

func (p *Pet) IsOwnedBy(userID uint) bool {
	return p.ownerID == userID
}

// ProfileText renders the pet as the plain-text profile sent to the
// recommendation model.
func (p *Pet) ProfileText() string {
	a := p.attrs
	neutered := "No"
	if a.Neutered != nil && *a.Neutered {
		neutered = "Yes"
	}
	breed := orNA(a.Breed)
	if a.UnknownBreed {
		breed = "Unknown"
	}
	weight := "N/A"
	if a.WeightKg != nil {
		weight = fmt.Sprintf("%.2f", *a.WeightKg)
	}
	lines := []string{
		"Name: " + a.Name,
		"Species: " + orNA(a.Species),
		"Breed: " + breed,
		"Gender: " + orNA(a.Gender),
		"Neutered: " + neutered,
		fmt.Sprintf("Age: %d years, %d months, %d weeks", a.AgeYears, a.AgeMonths, a.AgeWeeks),
		"Weight: " + weight + " kg",
		"Body Type: " + orNA(a.BodyType),
		"Activity Level: " + orNA(a.ActivityLevel),
		"Food Types: " + joinOrNone(a.FoodTypes),
		"Food Feeling: " + orNA(a.FoodFeeling),
		"Food Importance: " + orNA(a.FoodImportance),
		"Treat Frequency: " + orNA(a.TreatFrequency),
		"Health Issues: " + joinOrNone(a.HealthIssues),
		"Food Allergies: " + joinOrNone(a.FoodAllergies),
		"Other Food Allergy: " + orNone(a.FoodAllergyOther),
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
