package models

// PricingPlan is one entry of the static boost-plan catalog. Price is in
// meticais and is always taken from the catalog, never from client input.
type PricingPlan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int      `json:"price"`
	DurationDays int      `json:"durationDays"`
	Features     []string `json:"features"`
	IsPopular    bool     `json:"isPopular,omitempty"`
}

// IsFree reports whether the plan is a promotional plan with no payment step.
func (p PricingPlan) IsFree() bool {
	return p.Price == 0
}
