package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightflowhq/freightflowbackend/models"
)

func f64(v float64) *float64 { return &v }

func rule(name string, rt models.RuleType, calc models.RuleCalculation, opts ...func(*models.PricingRule)) models.PricingRule {
	r := models.PricingRule{
		Name:        name,
		ServiceType: models.ServiceTypeOcean,
		RuleType:    rt,
		Calculation: calc,
		IsActive:    true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func withConditions(c *models.RuleConditions) func(*models.PricingRule) {
	return func(r *models.PricingRule) { r.Conditions = c }
}

func withService(st models.ServiceType) func(*models.PricingRule) {
	return func(r *models.PricingRule) { r.ServiceType = st }
}

func withPriority(p int) func(*models.PricingRule) {
	return func(r *models.PricingRule) { r.Priority = p }
}

func withCreatedAt(t time.Time) func(*models.PricingRule) {
	return func(r *models.PricingRule) { r.CreatedAt = t }
}

func inactive() func(*models.PricingRule) {
	return func(r *models.PricingRule) { r.IsActive = false }
}

func perKg(v float64) models.RuleCalculation {
	return models.RuleCalculation{Type: models.CalculationPerKg, Value: v, Currency: "USD"}
}

func fixed(v float64) models.RuleCalculation {
	return models.RuleCalculation{Type: models.CalculationFixed, Value: v, Currency: "USD"}
}

var shanghaiLA = Input{
	ServiceType: models.ServiceTypeOcean,
	Weight:      1000,
	Origin:      "Shanghai",
	Destination: "Los Angeles",
}

func TestCalculatePrice_EndToEndOceanExample(t *testing.T) {
	rules := []models.PricingRule{
		rule("Ocean base", models.RuleTypeBaseRate, perKg(1.2)),
		rule("Port handling", models.RuleTypeSurcharge, fixed(50)),
	}

	q := CalculatePrice(rules, shanghaiLA)

	assert.Equal(t, 1200.0, q.BasePrice)
	assert.Equal(t, 50.0, q.Surcharges)
	assert.Equal(t, 0.0, q.Discounts)
	assert.Equal(t, 1250.0, q.TotalPrice)
	require.Len(t, q.AppliedRules, 2)
	assert.Equal(t, "Ocean base", q.AppliedRules[0].Name)
	assert.Equal(t, 1200.0, q.AppliedRules[0].Amount)
	assert.Equal(t, q.TotalPrice, q.Breakdown.FinalPrice)
}

func TestCalculatePrice_NoMatchesReturnsZeroes(t *testing.T) {
	q := CalculatePrice(nil, shanghaiLA)

	assert.Zero(t, q.TotalPrice)
	assert.Zero(t, q.BasePrice)
	assert.Empty(t, q.AppliedRules)
}

func TestMatches_Conjunctive(t *testing.T) {
	// Every condition set matches the shipment except the one under test.
	base := func() *models.RuleConditions {
		return &models.RuleConditions{
			MinWeight:     f64(500),
			MaxWeight:     f64(2000),
			Origins:       []string{"shanghai"},
			Destinations:  []string{"los angeles"},
			Commodities:   []string{"electronics"},
			CustomerTypes: []string{"enterprise"},
		}
	}

	in := shanghaiLA
	in.Commodity = "Consumer Electronics"
	in.CustomerType = "enterprise"

	require.True(t, Matches(rule("ok", models.RuleTypeBaseRate, fixed(1), withConditions(base())), in))

	tests := []struct {
		name   string
		mutate func(*models.RuleConditions)
	}{
		{"minWeight fails", func(c *models.RuleConditions) { c.MinWeight = f64(1500) }},
		{"maxWeight fails", func(c *models.RuleConditions) { c.MaxWeight = f64(900) }},
		{"origins fail", func(c *models.RuleConditions) { c.Origins = []string{"Rotterdam"} }},
		{"destinations fail", func(c *models.RuleConditions) { c.Destinations = []string{"Hamburg"} }},
		{"commodities fail", func(c *models.RuleConditions) { c.Commodities = []string{"perishables"} }},
		{"customerTypes fail", func(c *models.RuleConditions) { c.CustomerTypes = []string{"smb"} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(c)
			r := rule("r", models.RuleTypeBaseRate, fixed(1), withConditions(c))
			assert.False(t, Matches(r, in))

			q := CalculatePrice([]models.PricingRule{r}, in)
			assert.Empty(t, q.AppliedRules)
		})
	}
}

func TestMatches_UnsetConditionsNeverExclude(t *testing.T) {
	noConditions := rule("open", models.RuleTypeBaseRate, fixed(10))
	assert.True(t, Matches(noConditions, shanghaiLA))

	emptyLists := rule("empty", models.RuleTypeBaseRate, fixed(10),
		withConditions(&models.RuleConditions{Origins: []string{}, Destinations: []string{}}))
	assert.True(t, Matches(emptyLists, shanghaiLA))
}

func TestMatches_OptionalShipmentFieldsSkipChecks(t *testing.T) {
	r := rule("gated", models.RuleTypeBaseRate, fixed(10), withConditions(&models.RuleConditions{
		Commodities:   []string{"electronics"},
		CustomerTypes: []string{"enterprise"},
	}))

	// Shipment supplies neither commodity nor customer type: both checks skip.
	assert.True(t, Matches(r, shanghaiLA))
}

func TestMatches_SubstringCaseInsensitive(t *testing.T) {
	r := rule("cn-exports", models.RuleTypeBaseRate, fixed(10), withConditions(&models.RuleConditions{
		Origins: []string{"SHANGHAI", "ningbo"},
	}))

	in := shanghaiLA
	in.Origin = "Port of Shanghai, CN"
	assert.True(t, Matches(r, in))
}

func TestCalculatePrice_ServiceTypeScoping(t *testing.T) {
	airOnly := rule("air fuel", models.RuleTypeSurcharge, fixed(75), withService(models.ServiceTypeAir))
	allModes := rule("handling", models.RuleTypeSurcharge, fixed(10), withService(models.ServiceTypeAll))

	q := CalculatePrice([]models.PricingRule{airOnly, allModes}, shanghaiLA)

	require.Len(t, q.AppliedRules, 1)
	assert.Equal(t, "handling", q.AppliedRules[0].Name)
	assert.Equal(t, 10.0, q.Surcharges)
}

func TestCalculatePrice_InactiveRulesExcluded(t *testing.T) {
	q := CalculatePrice([]models.PricingRule{
		rule("off", models.RuleTypeBaseRate, fixed(100), inactive()),
	}, shanghaiLA)

	assert.Empty(t, q.AppliedRules)
	assert.Zero(t, q.TotalPrice)
}

func TestCalculatePrice_TotalFlooredAtZero(t *testing.T) {
	q := CalculatePrice([]models.PricingRule{
		rule("base", models.RuleTypeBaseRate, fixed(100)),
		rule("loyalty", models.RuleTypeDiscount, fixed(500)),
	}, shanghaiLA)

	assert.Equal(t, 100.0, q.BasePrice)
	assert.Equal(t, 500.0, q.Discounts)
	assert.Equal(t, 0.0, q.TotalPrice)
}

func TestAmount_CalculationSemantics(t *testing.T) {
	in := Input{Weight: 100, Volume: 12}

	tests := []struct {
		name string
		calc models.RuleCalculation
		want float64
	}{
		{"fixed", fixed(42), 42},
		{"per_kg", perKg(2), 200},
		{"per_cbm", models.RuleCalculation{Type: models.CalculationPerCbm, Value: 3}, 36},
		// percentage is taken against the notional $5/kg base
		{"percentage", models.RuleCalculation{Type: models.CalculationPercentage, Value: 10}, 50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Amount(tc.calc, in))
		})
	}
}

func TestAmount_PerCbmWithoutVolumeIsZero(t *testing.T) {
	got := Amount(models.RuleCalculation{Type: models.CalculationPerCbm, Value: 8}, Input{Weight: 100})
	assert.Zero(t, got)
}

func TestCalculatePrice_MinimumFloorOrdering(t *testing.T) {
	// base_rate 100 evaluates first (higher priority), minimum 150 second:
	// the floor lifts the base to 150.
	q := CalculatePrice([]models.PricingRule{
		rule("base", models.RuleTypeBaseRate, fixed(100), withPriority(10)),
		rule("floor", models.RuleTypeMinimum, fixed(150), withPriority(5)),
	}, shanghaiLA)

	assert.Equal(t, 150.0, q.BasePrice)
	assert.Equal(t, 150.0, q.TotalPrice)
	require.Len(t, q.AppliedRules, 2)
	assert.Equal(t, models.RuleTypeMinimum, q.AppliedRules[1].Type)
}

func TestCalculatePrice_MinimumBelowBaseLeavesBase(t *testing.T) {
	q := CalculatePrice([]models.PricingRule{
		rule("base", models.RuleTypeBaseRate, fixed(200), withPriority(10)),
		rule("floor", models.RuleTypeMinimum, fixed(150), withPriority(5)),
	}, shanghaiLA)

	assert.Equal(t, 200.0, q.BasePrice)
}

func TestSortRules_PriorityThenRecency(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rules := []models.PricingRule{
		rule("old-low", models.RuleTypeBaseRate, fixed(1), withPriority(1), withCreatedAt(t0)),
		rule("new-low", models.RuleTypeBaseRate, fixed(1), withPriority(1), withCreatedAt(t0.Add(time.Hour))),
		rule("high", models.RuleTypeBaseRate, fixed(1), withPriority(9), withCreatedAt(t0)),
	}

	sorted := SortRules(rules)

	require.Len(t, sorted, 3)
	assert.Equal(t, "high", sorted[0].Name)
	assert.Equal(t, "new-low", sorted[1].Name)
	assert.Equal(t, "old-low", sorted[2].Name)

	// Idempotent: sorting again (or sorting the sorted copy) changes nothing,
	// and the input slice is left untouched.
	again := SortRules(sorted)
	assert.Equal(t, sorted, again)
	assert.Equal(t, "old-low", rules[0].Name)
}

func TestCalculatePrice_AppliedRulesInEvaluationOrder(t *testing.T) {
	q := CalculatePrice([]models.PricingRule{
		rule("discount", models.RuleTypeDiscount, fixed(5), withPriority(1)),
		rule("surcharge", models.RuleTypeSurcharge, fixed(20), withPriority(5)),
		rule("base", models.RuleTypeBaseRate, fixed(100), withPriority(9)),
	}, shanghaiLA)

	require.Len(t, q.AppliedRules, 3)
	assert.Equal(t, "base", q.AppliedRules[0].Name)
	assert.Equal(t, "surcharge", q.AppliedRules[1].Name)
	assert.Equal(t, "discount", q.AppliedRules[2].Name)
	assert.Equal(t, 115.0, q.TotalPrice)
}
