package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateQuoteRequest() CreateQuoteRequestDTO {
	return CreateQuoteRequestDTO{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@acme.com",
		Company:       "Acme Logistics",
		Origin:        "Shanghai, China",
		Destination:   "Los Angeles, USA",
		ServiceType:   "ocean",
		PackageType:   "pallet",
		Weight:        1000,
		Dimensions:    DimensionsDTO{Length: 120, Width: 100, Height: 150},
		Commodity:     "electronics",
		Value:         25000,
	}
}

func TestCreateQuoteRequestValidateOK(t *testing.T) {
	d := validCreateQuoteRequest()
	assert.Empty(t, d.Validate())
}

func TestCreateQuoteRequestValidateCollectsAllProblems(t *testing.T) {
	var d CreateQuoteRequestDTO
	problems := d.Validate()

	// Every required field reported at once, not just the first.
	require.GreaterOrEqual(t, len(problems), 10)
	assert.Contains(t, problems, "customerName is required")
	assert.Contains(t, problems, "weight must be a positive number")
	assert.Contains(t, problems, "dimensions.height must be a positive number")
}

func TestCreateQuoteRequestValidateFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateQuoteRequestDTO)
		problem string
	}{
		{
			"bad email",
			func(d *CreateQuoteRequestDTO) { d.CustomerEmail = "not-an-email" },
			"customerEmail is not a valid email address",
		},
		{
			"unknown service type",
			func(d *CreateQuoteRequestDTO) { d.ServiceType = "rail" },
			"serviceType must be one of ocean, air, ground",
		},
		{
			"negative weight",
			func(d *CreateQuoteRequestDTO) { d.Weight = -5 },
			"weight must be a positive number",
		},
		{
			"zero value",
			func(d *CreateQuoteRequestDTO) { d.Value = 0 },
			"value must be a positive number",
		},
		{
			"zero width",
			func(d *CreateQuoteRequestDTO) { d.Dimensions.Width = 0 },
			"dimensions.width must be a positive number",
		},
		{
			"unknown urgency",
			func(d *CreateQuoteRequestDTO) { d.Urgency = "whenever" },
			"urgency must be one of standard, express, urgent, critical",
		},
		{
			"unknown incoterms",
			func(d *CreateQuoteRequestDTO) { d.Incoterms = "ABC" },
			"incoterms must be one of EXW, FOB, CIF, DDP",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validCreateQuoteRequest()
			tt.mutate(&d)
			problems := d.Validate()
			require.Len(t, problems, 1)
			assert.Equal(t, tt.problem, problems[0])
		})
	}
}

func TestCreateQuoteRequestOptionalFieldsAccepted(t *testing.T) {
	d := validCreateQuoteRequest()
	d.Urgency = "express"
	d.Incoterms = "FOB"
	d.CustomerType = "enterprise"
	d.AdditionalServices = []string{"insurance", "customs clearance"}
	assert.Empty(t, d.Validate())
}

func TestProvideQuoteValidate(t *testing.T) {
	until := time.Now().Add(14 * 24 * time.Hour)

	d := ProvideQuoteDTO{QuotedPrice: 1250, ValidUntil: &until}
	assert.Empty(t, d.Validate())

	d = ProvideQuoteDTO{}
	problems := d.Validate()
	require.Len(t, problems, 2)
	assert.Contains(t, problems, "quotedPrice must be a positive number")
	assert.Contains(t, problems, "validUntil is required")

	d = ProvideQuoteDTO{QuotedPrice: -1, ValidUntil: &until}
	problems = d.Validate()
	require.Len(t, problems, 1)
	assert.Equal(t, "quotedPrice must be a positive number", problems[0])
}

func TestCalculatePriceValidate(t *testing.T) {
	d := CalculatePriceDTO{
		ServiceType: "air",
		Weight:      500,
		Origin:      "Frankfurt, Germany",
		Destination: "Nairobi, Kenya",
	}
	assert.Empty(t, d.Validate())

	d.Weight = 0
	d.ServiceType = "all"
	problems := d.Validate()
	require.Len(t, problems, 2)
	assert.Contains(t, problems, "serviceType must be one of ocean, air, ground")
	assert.Contains(t, problems, "weight must be a positive number")
}
