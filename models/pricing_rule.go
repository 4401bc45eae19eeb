package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ServiceType string

const (
	ServiceTypeOcean  ServiceType = "ocean"
	ServiceTypeAir    ServiceType = "air"
	ServiceTypeGround ServiceType = "ground"
	ServiceTypeAll    ServiceType = "all"
)

func IsShipmentServiceType(s string) bool {
	switch ServiceType(s) {
	case ServiceTypeOcean, ServiceTypeAir, ServiceTypeGround:
		return true
	}
	return false
}

type RuleType string

const (
	RuleTypeBaseRate  RuleType = "base_rate"
	RuleTypeSurcharge RuleType = "surcharge"
	RuleTypeDiscount  RuleType = "discount"
	RuleTypeMinimum   RuleType = "minimum"
)

func IsRuleType(s string) bool {
	switch RuleType(s) {
	case RuleTypeBaseRate, RuleTypeSurcharge, RuleTypeDiscount, RuleTypeMinimum:
		return true
	}
	return false
}

type CalculationType string

const (
	CalculationFixed      CalculationType = "fixed"
	CalculationPercentage CalculationType = "percentage"
	CalculationPerKg      CalculationType = "per_kg"
	CalculationPerCbm     CalculationType = "per_cbm"
)

func IsCalculationType(s string) bool {
	switch CalculationType(s) {
	case CalculationFixed, CalculationPercentage, CalculationPerKg, CalculationPerCbm:
		return true
	}
	return false
}

// RuleConditions are conjunctive: every member that is set must hold for the
// rule to apply. An absent member never excludes a shipment.
type RuleConditions struct {
	MinWeight     *float64 `bson:"minWeight,omitempty"     json:"minWeight,omitempty"`
	MaxWeight     *float64 `bson:"maxWeight,omitempty"     json:"maxWeight,omitempty"`
	Origins       []string `bson:"origins,omitempty"       json:"origins,omitempty"`
	Destinations  []string `bson:"destinations,omitempty"  json:"destinations,omitempty"`
	Commodities   []string `bson:"commodities,omitempty"   json:"commodities,omitempty"`
	CustomerTypes []string `bson:"customerTypes,omitempty" json:"customerTypes,omitempty"`
}

type RuleCalculation struct {
	Type     CalculationType `bson:"type"     json:"type"`
	Value    float64         `bson:"value"    json:"value"`
	Currency string          `bson:"currency" json:"currency"`
}

type PricingRule struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name"        json:"name"`
	Slug        string        `bson:"slug"        json:"slug"`
	Description string        `bson:"description" json:"description"`

	ServiceType ServiceType     `bson:"serviceType" json:"serviceType"`
	RuleType    RuleType        `bson:"ruleType"    json:"ruleType"`
	Conditions  *RuleConditions `bson:"conditions,omitempty" json:"conditions,omitempty"`
	Calculation RuleCalculation `bson:"calculation" json:"calculation"`

	Priority int  `bson:"priority" json:"priority"`
	IsActive bool `bson:"isActive" json:"isActive"`

	// Informational validity window. The evaluator gates on isActive only;
	// operators flip isActive from these dates.
	ValidFrom  *time.Time `bson:"validFrom,omitempty"  json:"validFrom,omitempty"`
	ValidUntil *time.Time `bson:"validUntil,omitempty" json:"validUntil,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
