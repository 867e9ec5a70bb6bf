package usage

// ActionType is a metered AI action.
type ActionType string

const (
	ActionMeal   ActionType = "meal"
	ActionHealth ActionType = "health"
)

func (a ActionType) String() string {
	return string(a)
}

func (a ActionType) IsValid() bool {
	return a == ActionMeal || a == ActionHealth
}

// Label is the human name used in limit messages.
func (a ActionType) Label() string {
	switch a {
	case ActionMeal:
		return "meal plan"
	case ActionHealth:
		return "health report"
	default:
		return string(a)
	}
}
