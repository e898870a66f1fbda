package services

import "github.com/anunciosmz/marketplace-backend/internal/models"

// DefaultPlans is the boost plan catalog shipped with the product. Prices are
// in meticais. The catalog is static configuration: the client renders it, but
// the decision engine always prices from its own copy.
func DefaultPlans(freePlan bool) []models.PricingPlan {
	plans := []models.PricingPlan{
		{
			ID:           "basic",
			Name:         "Rápido",
			Price:        50,
			DurationDays: 3,
			Features:     []string{"Destaque por 3 dias", "Selo de Destaque"},
		},
		{
			ID:           "standard",
			Name:         "Semanal",
			Price:        100,
			DurationDays: 7,
			Features:     []string{"Destaque por 7 dias", "Selo de Destaque", "Topo da Página"},
			IsPopular:    true,
		},
		{
			ID:           "premium",
			Name:         "Quinzenal",
			Price:        150,
			DurationDays: 14,
			Features:     []string{"Destaque por 14 dias", "Selo de Destaque", "Topo da Página", "Suporte Prioritário"},
		},
	}

	// Promotional variant: a no-payment plan that activates immediately.
	if freePlan {
		plans = append(plans, models.PricingPlan{
			ID:           "free",
			Name:         "Grátis",
			Price:        0,
			DurationDays: 1,
			Features:     []string{"Destaque por 1 dia"},
		})
	}

	return plans
}

// FindPlan looks up a plan by ID in a catalog. Returns nil when absent.
func FindPlan(plans []models.PricingPlan, id string) *models.PricingPlan {
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i]
		}
	}
	return nil
}
