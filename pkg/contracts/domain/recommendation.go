package domain

import (
	"github.com/shopspring/decimal"
)

// Category represents an Azure Advisor recommendation pillar.
// Unrecognized source values are preserved title-cased rather than
// coerced into one of the known pillars, so consumers must tolerate
// values outside this set.
type Category string

const (
	CategoryCost                  Category = "cost"
	CategorySecurity              Category = "security"
	CategoryReliability           Category = "reliability"
	CategoryOperationalExcellence Category = "operational_excellence"
	CategoryPerformance           Category = "performance"
)

// IsKnown reports whether the category is one of the five Advisor pillars.
func (c Category) IsKnown() bool {
	switch c {
	case CategoryCost, CategorySecurity, CategoryReliability,
		CategoryOperationalExcellence, CategoryPerformance:
		return true
	}
	return false
}

// BusinessImpact represents the declared impact level of a recommendation.
type BusinessImpact string

const (
	ImpactHigh   BusinessImpact = "high"
	ImpactMedium BusinessImpact = "medium"
	ImpactLow    BusinessImpact = "low"
)

// ReservationType classifies commitment-based savings recommendations.
type ReservationType string

const (
	ReservationTypeReservedInstance ReservationType = "reserved_instance"
	ReservationTypeSavingsPlan      ReservationType = "savings_plan"
	ReservationTypeReservedCapacity ReservationType = "reserved_capacity"
	ReservationTypeOther            ReservationType = "other"
)

// ManualRowNumber is the SourceRowNumber sentinel for records entered by
// hand rather than parsed from an uploaded file.
const ManualRowNumber = -1

// Recommendation is the normalized form of one Advisor recommendation row.
// All text fields have been sanitized against formula injection before a
// Recommendation is constructed; values are safe to re-export verbatim.
type Recommendation struct {
	Category           Category         `json:"category"`
	BusinessImpact     BusinessImpact   `json:"business_impact"`
	Recommendation     string           `json:"recommendation"`
	PotentialBenefits  string           `json:"potential_benefits"`
	SubscriptionID     string           `json:"subscription_id,omitempty"`
	SubscriptionName   string           `json:"subscription_name,omitempty"`
	ResourceGroup      string           `json:"resource_group,omitempty"`
	ResourceName       string           `json:"resource_name,omitempty"`
	ResourceType       string           `json:"resource_type,omitempty"`
	PotentialSavings   decimal.Decimal  `json:"potential_savings"`
	Currency           string           `json:"currency"`
	AdvisorScoreImpact *decimal.Decimal `json:"advisor_score_impact,omitempty"`
	SourceRowNumber    int              `json:"source_row_number"`

	// Reservation classification. Type and term are populated only when
	// IsReservation is true.
	IsReservation       bool            `json:"is_reservation"`
	ReservationType     ReservationType `json:"reservation_type,omitempty"`
	CommitmentTermYears int             `json:"commitment_term_years,omitempty"`
}

// CommitmentTotal returns the savings over the full commitment period,
// i.e. annual savings multiplied by the term. Zero for non-reservations.
func (r Recommendation) CommitmentTotal() decimal.Decimal {
	if !r.IsReservation || r.CommitmentTermYears <= 0 {
		return decimal.Zero
	}
	return r.PotentialSavings.Mul(decimal.NewFromInt(int64(r.CommitmentTermYears)))
}
