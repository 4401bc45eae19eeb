package dto

import (
	"time"

	"github.com/freightflowhq/freightflowbackend/models"
)

type RuleConditionsDTO struct {
	MinWeight     *float64 `json:"minWeight"`
	MaxWeight     *float64 `json:"maxWeight"`
	Origins       []string `json:"origins"`
	Destinations  []string `json:"destinations"`
	Commodities   []string `json:"commodities"`
	CustomerTypes []string `json:"customerTypes"`
}

type RuleCalculationDTO struct {
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

type CreatePricingRuleDTO struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ServiceType string             `json:"serviceType"`
	RuleType    string             `json:"ruleType"`
	Conditions  *RuleConditionsDTO `json:"conditions"`
	Calculation RuleCalculationDTO `json:"calculation"`
	Priority    int                `json:"priority"`
	IsActive    *bool              `json:"isActive"`
	ValidFrom   *time.Time         `json:"validFrom"`
	ValidUntil  *time.Time         `json:"validUntil"`
}

func (d *CreatePricingRuleDTO) Validate() []string {
	var problems []string

	if d.Name == "" {
		problems = append(problems, "name is required")
	}
	if d.ServiceType == "" {
		problems = append(problems, "serviceType is required")
	} else if !models.IsShipmentServiceType(d.ServiceType) && d.ServiceType != string(models.ServiceTypeAll) {
		problems = append(problems, "serviceType must be one of ocean, air, ground, all")
	}
	if d.RuleType == "" {
		problems = append(problems, "ruleType is required")
	} else if !models.IsRuleType(d.RuleType) {
		problems = append(problems, "ruleType must be one of base_rate, surcharge, discount, minimum")
	}
	if d.Calculation.Type == "" {
		problems = append(problems, "calculation.type is required")
	} else if !models.IsCalculationType(d.Calculation.Type) {
		problems = append(problems, "calculation.type must be one of fixed, percentage, per_kg, per_cbm")
	}
	if d.Calculation.Value <= 0 {
		problems = append(problems, "calculation.value must be a positive number")
	}
	if d.Calculation.Currency == "" {
		problems = append(problems, "calculation.currency is required")
	}
	if c := d.Conditions; c != nil && c.MinWeight != nil && c.MaxWeight != nil && *c.MinWeight > *c.MaxWeight {
		problems = append(problems, "conditions.minWeight must not exceed conditions.maxWeight")
	}

	return problems
}

// Conditions maps the DTO onto the stored model, dropping an all-empty object
// so that "no conditions" round-trips as absent.
func (d *CreatePricingRuleDTO) ConditionsModel() *models.RuleConditions {
	c := d.Conditions
	if c == nil {
		return nil
	}
	if c.MinWeight == nil && c.MaxWeight == nil &&
		len(c.Origins) == 0 && len(c.Destinations) == 0 &&
		len(c.Commodities) == 0 && len(c.CustomerTypes) == 0 {
		return nil
	}
	return &models.RuleConditions{
		MinWeight:     c.MinWeight,
		MaxWeight:     c.MaxWeight,
		Origins:       c.Origins,
		Destinations:  c.Destinations,
		Commodities:   c.Commodities,
		CustomerTypes: c.CustomerTypes,
	}
}
