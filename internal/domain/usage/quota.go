package usage

// Defaults apply to users without a plan.
type Defaults struct {
	MealLimit   int
	HealthLimit int
}

// DefaultLimits are the limits used when configuration leaves them unset.
var DefaultLimits = Defaults{MealLimit: 3, HealthLimit: 1}

// Decision is the outcome of a quota check.
type Decision struct {
	Bypass    bool
	Unlimited bool
	Used      int
	Limit     int
}

// Allowed reports whether the action may run.
func (d Decision) Allowed() bool {
	return d.Bypass || d.Unlimited || d.Used < d.Limit
}

// Remaining is the number of actions left this month, or -1 when not bounded.
func (d Decision) Remaining() int {
	if d.Bypass || d.Unlimited {
		return -1
	}
	if d.Used >= d.Limit {
		return 0
	}
	return d.Limit - d.Used
}

// Policy decides whether a metered action may run.
type Policy struct {
	defaults Defaults
}

func NewPolicy(defaults Defaults) *Policy {
	if defaults.MealLimit <= 0 && defaults.HealthLimit <= 0 {
		defaults = DefaultLimits
	}
	return &Policy{defaults: defaults}
}

// LimitFor resolves the ceiling for action under plan; a nil plan uses defaults.
func (p *Policy) LimitFor(action ActionType, plan *Plan) (limit int, unlimited bool) {
	if plan != nil {
		return plan.Limit(action)
	}
	switch action {
	case ActionMeal:
		return p.defaults.MealLimit, false
	case ActionHealth:
		return p.defaults.HealthLimit, false
	default:
		return 0, false
	}
}

// Evaluate computes the decision without rejecting.
func (p *Policy) Evaluate(action ActionType, plan *Plan, privileged bool, used int) Decision {
	if privileged {
		return Decision{Bypass: true, Used: used}
	}
	limit, unlimited := p.LimitFor(action, plan)
	return Decision{Unlimited: unlimited, Used: used, Limit: limit}
}

// Check is Evaluate that returns ErrUsageLimitExceeded when used >= limit.
func (p *Policy) Check(action ActionType, plan *Plan, privileged bool, used int) (Decision, error) {
	if !action.IsValid() {
		return Decision{}, ErrInvalidAction
	}
	d := p.Evaluate(action, plan, privileged, used)
	if !d.Allowed() {
		return d, ErrLimitExceeded(action, d.Used, d.Limit)
	}
	return d, nil
}
