package domain

import (
	"github.com/shopspring/decimal"
)

// Statistics is the aggregate view over all recommendations of one upload.
// It is built by a single-pass reduction and stored downstream as a
// denormalized JSON blob, so every field must serialize to plain
// key/value structures.
type Statistics struct {
	TotalRecommendations int `json:"total_recommendations"`

	CategoryDistribution       map[Category]int       `json:"category_distribution"`
	CategoryPercentages        map[Category]float64   `json:"category_percentages"`
	BusinessImpactDistribution map[BusinessImpact]int `json:"business_impact_distribution"`
	BusinessImpactPercentages  map[BusinessImpact]float64 `json:"business_impact_percentages"`

	TotalPotentialSavings   decimal.Decimal `json:"total_potential_savings"`
	AveragePotentialSavings decimal.Decimal `json:"average_potential_savings"`
	Currency                string          `json:"currency"`

	// TopRecommendationsBySavings holds at most ten records, sorted by
	// descending savings with original row order breaking ties.
	TopRecommendationsBySavings []Recommendation `json:"top_recommendations_by_savings"`

	ReservationCount     int                `json:"reservation_count"`
	ReservationBreakdown []ReservationGroup `json:"reservation_breakdown"`
}

// ReservationGroup aggregates reservation recommendations sharing a
// (type, term) pair. CommitmentTotal is the derived multi-year figure;
// AnnualSavings remains the authoritative yearly number.
type ReservationGroup struct {
	Type            ReservationType `json:"type"`
	TermYears       int             `json:"term_years"`
	Count           int             `json:"count"`
	AnnualSavings   decimal.Decimal `json:"annual_savings"`
	CommitmentTotal decimal.Decimal `json:"commitment_total"`
}
