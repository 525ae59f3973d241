package contracts

import "time"

// PropertyType is the Land Registry property type code
type PropertyType string

const (
	PropertyDetached     PropertyType = "D"
	PropertySemiDetached PropertyType = "S"
	PropertyTerraced     PropertyType = "T"
	PropertyFlat         PropertyType = "F" // flats and maisonettes
	PropertyOther        PropertyType = "O"
	PropertyUnknown      PropertyType = ""
)

// Description returns the human-readable name of the property type
func (p PropertyType) Description() string {
	switch p {
	case PropertyDetached:
		return "Detached"
	case PropertySemiDetached:
		return "Semi-detached"
	case PropertyTerraced:
		return "Terraced"
	case PropertyFlat:
		return "Flat"
	case PropertyOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// Tenure is the Land Registry "duration" code
type Tenure string

const (
	TenureFreehold  Tenure = "F"
	TenureLeasehold Tenure = "L"
	TenureUnknown   Tenure = "U"
)

// SaleRecord is one row of the Price Paid dataset
// ⭐ SSOT: S0 → S1 sale input
type SaleRecord struct {
	TransactionID string       `json:"transaction_id"`
	Price         float64      `json:"price"` // pounds
	Date          time.Time    `json:"date"`
	Postcode      string       `json:"postcode"` // as published, not normalized
	PropertyType  PropertyType `json:"property_type"`
	OldNew        string       `json:"old_new"` // Y = new build, N = established
	Tenure        Tenure       `json:"tenure"`  // unused in scoring
}
