package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusQuoted   QuoteStatus = "quoted"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// validQuoteTransitions is the enforced lifecycle. pending→quoted only happens
// through the provide-quote flow (it must set quotedPrice and validUntil
// together); accepted, rejected and expired are terminal.
var validQuoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusPending:  {QuoteStatusQuoted, QuoteStatusRejected},
	QuoteStatusQuoted:   {QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired},
	QuoteStatusAccepted: {},
	QuoteStatusRejected: {},
	QuoteStatusExpired:  {},
}

// CanTransitionQuote reports whether moving a quote request from current to
// next is a legal lifecycle step.
func CanTransitionQuote(current, next QuoteStatus) bool {
	allowed, ok := validQuoteTransitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

func IsQuoteStatus(s string) bool {
	_, ok := validQuoteTransitions[QuoteStatus(s)]
	return ok
}

type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	UrgencyExpress  Urgency = "express"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

func IsUrgency(s string) bool {
	switch Urgency(s) {
	case UrgencyStandard, UrgencyExpress, UrgencyUrgent, UrgencyCritical:
		return true
	}
	return false
}

func IsIncoterms(s string) bool {
	switch s {
	case "EXW", "FOB", "CIF", "DDP":
		return true
	}
	return false
}

type Dimensions struct {
	Length float64 `bson:"length" json:"length"`
	Width  float64 `bson:"width"  json:"width"`
	Height float64 `bson:"height" json:"height"`
}

// VolumeCbm converts centimetre dimensions to cubic metres.
func (d Dimensions) VolumeCbm() float64 {
	return d.Length * d.Width * d.Height / 1_000_000
}

type QuoteAttachment struct {
	PublicURL  string    `bson:"publicUrl"  json:"publicUrl"`
	ObjectName string    `bson:"objectName" json:"objectName"`
	MimeType   string    `bson:"mimeType"   json:"mimeType"`
	SizeBytes  int64     `bson:"sizeBytes"  json:"sizeBytes"`
	FileName   string    `bson:"fileName"   json:"fileName"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

type QuoteAdminNote struct {
	ID          bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	AuthorID    bson.ObjectID    `bson:"authorId"    json:"authorId"`
	AuthorEmail string           `bson:"authorEmail" json:"authorEmail"`
	Content     string           `bson:"content"     json:"content"`
	Attachment  *QuoteAttachment `bson:"attachment,omitempty" json:"attachment,omitempty"`
	CreatedAt   time.Time        `bson:"createdAt"   json:"createdAt"`
}

type QuoteRequest struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	CustomerName  string `bson:"customerName"  json:"customerName"`
	CustomerEmail string `bson:"customerEmail" json:"customerEmail"`
	CustomerPhone string `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	Company       string `bson:"company"       json:"company"`
	CustomerType  string `bson:"customerType,omitempty" json:"customerType,omitempty"`

	Origin      string      `bson:"origin"      json:"origin"`
	Destination string      `bson:"destination" json:"destination"`
	ServiceType ServiceType `bson:"serviceType" json:"serviceType"`
	PackageType string      `bson:"packageType" json:"packageType"`

	Weight     float64    `bson:"weight"     json:"weight"`
	Dimensions Dimensions `bson:"dimensions" json:"dimensions"`
	Volume     float64    `bson:"volume"     json:"volume"`
	Commodity  string     `bson:"commodity"  json:"commodity"`
	Value      float64    `bson:"value"      json:"value"`

	Urgency             Urgency  `bson:"urgency"   json:"urgency"`
	Incoterms           string   `bson:"incoterms" json:"incoterms"`
	AdditionalServices  []string `bson:"additionalServices,omitempty" json:"additionalServices,omitempty"`
	SpecialRequirements string   `bson:"specialRequirements,omitempty" json:"specialRequirements,omitempty"`
	Notes               string   `bson:"notes,omitempty" json:"notes,omitempty"`

	Status      QuoteStatus `bson:"status" json:"status"`
	QuotedPrice *float64    `bson:"quotedPrice,omitempty" json:"quotedPrice,omitempty"`
	ValidUntil  *time.Time  `bson:"validUntil,omitempty"  json:"validUntil,omitempty"`

	QuotePDF   *QuoteAttachment `bson:"quotePdf,omitempty" json:"quotePdf,omitempty"`
	AdminNotes []QuoteAdminNote `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
