package models

import (
	"time"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// PropertyType distinguishes sale from rental listings.
type PropertyType string

const (
	PropertyTypeSale PropertyType = "sale"
	PropertyTypeRent PropertyType = "rent"
)

// Residency is a property listed on the marketplace.
//
// ConsultantID is a weak reference: it points at a consultant account that
// may be absent or deleted independently, and nothing here owns or cascades
// into it. Deletion of a Residency itself must only ever happen through the
// residency service, which strips the ID from every user's embedded arrays
// before removing the document.
type Residency struct {
	Base         `bson:",inline"`
	Title        string                 `bson:"title" json:"title"`
	Description  string                 `bson:"description,omitempty" json:"description,omitempty"`
	Price        float64                `bson:"price" json:"price"`
	Address      string                 `bson:"address" json:"address"`
	City         string                 `bson:"city" json:"city"`
	Country      string                 `bson:"country" json:"country"`
	Images       []string               `bson:"images" json:"images"` // S3 keys
	PropertyType PropertyType           `bson:"property_type" json:"property_type"`
	Category     string                 `bson:"category,omitempty" json:"category,omitempty"`
	Facilities   map[string]interface{} `bson:"facilities,omitempty" json:"facilities,omitempty"`
	OwnerID      utils.SixID            `bson:"owner_id" json:"owner_id"`
	ConsultantID *utils.SixID           `bson:"consultant_id,omitempty" json:"consultant_id,omitempty"`
	CreatedAt    time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time              `bson:"updated_at" json:"updated_at"`
}
