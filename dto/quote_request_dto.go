package dto

import (
	"fmt"
	"time"

	"github.com/freightflowhq/freightflowbackend/models"
	"github.com/freightflowhq/freightflowbackend/utils"
)

type DimensionsDTO struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type CreateQuoteRequestDTO struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Company       string `json:"company"`
	CustomerType  string `json:"customerType"`

	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	ServiceType string `json:"serviceType"`
	PackageType string `json:"packageType"`

	Weight     float64       `json:"weight"`
	Dimensions DimensionsDTO `json:"dimensions"`
	Commodity  string        `json:"commodity"`
	Value      float64       `json:"value"`

	Urgency             string   `json:"urgency"`
	Incoterms           string   `json:"incoterms"`
	AdditionalServices  []string `json:"additionalServices"`
	SpecialRequirements string   `json:"specialRequirements"`
	Notes               string   `json:"notes"`
}

// Validate returns one problem string per missing/invalid field. The caller
// joins them into the single aggregate message the API returns on 400.
func (d *CreateQuoteRequestDTO) Validate() []string {
	var problems []string

	if d.CustomerName == "" {
		problems = append(problems, "customerName is required")
	}
	if d.CustomerEmail == "" {
		problems = append(problems, "customerEmail is required")
	} else if !utils.IsValidEmail(d.CustomerEmail) {
		problems = append(problems, "customerEmail is not a valid email address")
	}
	if d.Company == "" {
		problems = append(problems, "company is required")
	}
	if d.Origin == "" {
		problems = append(problems, "origin is required")
	}
	if d.Destination == "" {
		problems = append(problems, "destination is required")
	}
	if d.ServiceType == "" {
		problems = append(problems, "serviceType is required")
	} else if !models.IsShipmentServiceType(d.ServiceType) {
		problems = append(problems, "serviceType must be one of ocean, air, ground")
	}
	if d.PackageType == "" {
		problems = append(problems, "packageType is required")
	}
	if d.Weight <= 0 {
		problems = append(problems, "weight must be a positive number")
	}
	if d.Commodity == "" {
		problems = append(problems, "commodity is required")
	}
	if d.Value <= 0 {
		problems = append(problems, "value must be a positive number")
	}
	for _, dim := range []struct {
		name string
		v    float64
	}{
		{"dimensions.length", d.Dimensions.Length},
		{"dimensions.width", d.Dimensions.Width},
		{"dimensions.height", d.Dimensions.Height},
	} {
		if dim.v <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be a positive number", dim.name))
		}
	}
	if d.Urgency != "" && !models.IsUrgency(d.Urgency) {
		problems = append(problems, "urgency must be one of standard, express, urgent, critical")
	}
	if d.Incoterms != "" && !models.IsIncoterms(d.Incoterms) {
		problems = append(problems, "incoterms must be one of EXW, FOB, CIF, DDP")
	}

	return problems
}

type ProvideQuoteDTO struct {
	QuotedPrice float64    `json:"quotedPrice"`
	ValidUntil  *time.Time `json:"validUntil"`
	Notes       string     `json:"notes"`
}

func (d *ProvideQuoteDTO) Validate() []string {
	var problems []string
	if d.QuotedPrice <= 0 {
		problems = append(problems, "quotedPrice must be a positive number")
	}
	if d.ValidUntil == nil {
		problems = append(problems, "validUntil is required")
	}
	return problems
}

type UpdateQuoteStatusDTO struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type AddQuoteNoteDTO struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}
