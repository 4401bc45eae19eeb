// Pricing rule evaluation for freight shipments.
//
// The evaluator is deliberately free of any storage or HTTP concern: callers
// load candidate rules (usually from the pricing_rules collection, optionally
// through the Redis cache) and hand them in together with the shipment input.
package pricing

import (
	"sort"
	"strings"

	"github.com/freightflowhq/freightflowbackend/models"
)

// percentageBasePerKg is the notional base a percentage calculation is taken
// against ($5 per kg). Carried over unchanged from the original pricing
// contract pending product clarification.
const percentageBasePerKg = 5.0

// Input describes the shipment being priced. Volume, Commodity and
// CustomerType are optional; the zero value means "not supplied".
type Input struct {
	ServiceType  models.ServiceType
	Weight       float64
	Volume       float64
	Origin       string
	Destination  string
	Commodity    string
	CustomerType string
}

// AppliedRule records one matched rule and the amount it contributed.
type AppliedRule struct {
	Name   string          `json:"name"`
	Type   models.RuleType `json:"type"`
	Amount float64         `json:"amount"`
}

type Breakdown struct {
	BaseRate        float64 `json:"baseRate"`
	TotalSurcharges float64 `json:"totalSurcharges"`
	TotalDiscounts  float64 `json:"totalDiscounts"`
	FinalPrice      float64 `json:"finalPrice"`
}

// Quote is the result of one evaluation. When no rule matches, every total is
// zero and AppliedRules is empty; callers distinguish "priced at $0" from "no
// rules configured" by len(AppliedRules).
type Quote struct {
	BasePrice    float64       `json:"basePrice"`
	Surcharges   float64       `json:"surcharges"`
	Discounts    float64       `json:"discounts"`
	TotalPrice   float64       `json:"totalPrice"`
	AppliedRules []AppliedRule `json:"appliedRules"`
	Breakdown    Breakdown     `json:"breakdown"`
}

// CalculatePrice evaluates every active rule scoped to the shipment's service
// type, in priority order, and folds the matches into a total.
//
// Rule accumulation is order-sensitive on purpose: a minimum rule floors the
// running base at the point it is processed, so its position in the
// priority/createdAt ordering matters.
func CalculatePrice(rules []models.PricingRule, in Input) Quote {
	candidates := SortRules(FilterActive(rules, in.ServiceType))

	q := Quote{AppliedRules: []AppliedRule{}}

	for _, rule := range candidates {
		if !Matches(rule, in) {
			continue
		}

		amount := Amount(rule.Calculation, in)

		switch rule.RuleType {
		case models.RuleTypeBaseRate:
			q.BasePrice += amount
		case models.RuleTypeSurcharge:
			q.Surcharges += amount
		case models.RuleTypeDiscount:
			q.Discounts += amount
		case models.RuleTypeMinimum:
			if amount > q.BasePrice {
				q.BasePrice = amount
			}
		}

		q.AppliedRules = append(q.AppliedRules, AppliedRule{
			Name:   rule.Name,
			Type:   rule.RuleType,
			Amount: amount,
		})
	}

	total := q.BasePrice + q.Surcharges - q.Discounts
	if total < 0 {
		total = 0
	}
	q.TotalPrice = total
	q.Breakdown = Breakdown{
		BaseRate:        q.BasePrice,
		TotalSurcharges: q.Surcharges,
		TotalDiscounts:  q.Discounts,
		FinalPrice:      q.TotalPrice,
	}
	return q
}

// FilterActive keeps rules that are active and scoped to the given service
// type (directly or via "all"). The Mongo query applies the same filter;
// repeating it here keeps the evaluator correct for any caller.
func FilterActive(rules []models.PricingRule, serviceType models.ServiceType) []models.PricingRule {
	out := make([]models.PricingRule, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if r.ServiceType != serviceType && r.ServiceType != models.ServiceTypeAll {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortRules orders by descending priority, then descending createdAt. Stable,
// so equal rules keep their incoming order.
func SortRules(rules []models.PricingRule) []models.PricingRule {
	sorted := make([]models.PricingRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// Matches applies the rule's conditions conjunctively. A nil conditions
// object, or any unset member, never excludes a shipment.
func Matches(rule models.PricingRule, in Input) bool {
	c := rule.Conditions
	if c == nil {
		return true
	}
	if c.MinWeight != nil && in.Weight < *c.MinWeight {
		return false
	}
	if c.MaxWeight != nil && in.Weight > *c.MaxWeight {
		return false
	}
	if !containsAny(in.Origin, c.Origins) {
		return false
	}
	if !containsAny(in.Destination, c.Destinations) {
		return false
	}
	// Commodity and customer type are only checked when the shipment
	// actually supplies them.
	if in.Commodity != "" && !containsAny(in.Commodity, c.Commodities) {
		return false
	}
	if in.CustomerType != "" && !matchesExact(in.CustomerType, c.CustomerTypes) {
		return false
	}
	return true
}

// Amount turns a matched rule's calculation into a currency amount.
func Amount(calc models.RuleCalculation, in Input) float64 {
	switch calc.Type {
	case models.CalculationFixed:
		return calc.Value
	case models.CalculationPercentage:
		return (calc.Value / 100) * (in.Weight * percentageBasePerKg)
	case models.CalculationPerKg:
		return calc.Value * in.Weight
	case models.CalculationPerCbm:
		return calc.Value * in.Volume
	}
	return 0
}

// containsAny reports whether value contains (case-insensitively) any of the
// listed substrings. An empty list is no constraint.
func containsAny(value string, substrings []string) bool {
	if len(substrings) == 0 {
		return true
	}
	v := strings.ToLower(value)
	for _, s := range substrings {
		if s == "" {
			continue
		}
		if strings.Contains(v, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func matchesExact(value string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
