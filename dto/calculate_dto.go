package dto

import "github.com/freightflowhq/freightflowbackend/models"

type CalculatePriceDTO struct {
	ServiceType  string  `json:"serviceType"`
	Weight       float64 `json:"weight"`
	Volume       float64 `json:"volume"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	Commodity    string  `json:"commodity"`
	CustomerType string  `json:"customerType"`
}

func (d *CalculatePriceDTO) Validate() []string {
	var problems []string
	if d.ServiceType == "" {
		problems = append(problems, "serviceType is required")
	} else if !models.IsShipmentServiceType(d.ServiceType) {
		problems = append(problems, "serviceType must be one of ocean, air, ground")
	}
	if d.Weight <= 0 {
		problems = append(problems, "weight must be a positive number")
	}
	if d.Volume < 0 {
		problems = append(problems, "volume must not be negative")
	}
	if d.Origin == "" {
		problems = append(problems, "origin is required")
	}
	if d.Destination == "" {
		problems = append(problems, "destination is required")
	}
	return problems
}
