package ingest

import "strings"

// Canonical column keys. The structure validator maps whatever headers an
// export declares onto these keys; everything downstream addresses cells
// by key, never by position.
const (
	ColCategory           = "category"
	ColRecommendation     = "recommendation"
	ColBusinessImpact     = "business_impact"
	ColSubscriptionID     = "subscription_id"
	ColSubscriptionName   = "subscription_name"
	ColResourceGroup      = "resource_group"
	ColResourceName       = "resource_name"
	ColResourceType       = "resource_type"
	ColPotentialSavings   = "potential_savings"
	ColCurrency           = "currency"
	ColPotentialBenefits  = "potential_benefits"
	ColAdvisorScoreImpact = "advisor_score_impact"
)

// headerAliases maps normalized (lowercased, trimmed) header names onto
// canonical keys. Advisor exports have shifted header wording across
// portal versions; all known spellings are accepted.
var headerAliases = map[string]string{
	"category": ColCategory,

	"recommendation":             ColRecommendation,
	"recommendation description": ColRecommendation,
	"description":                ColRecommendation,

	"business impact": ColBusinessImpact,
	"impact":          ColBusinessImpact,

	"subscription id":   ColSubscriptionID,
	"subscription guid": ColSubscriptionID,
	"subscription name": ColSubscriptionName,
	"subscription":      ColSubscriptionName,

	"resource group":      ColResourceGroup,
	"resource group name": ColResourceGroup,

	"resource name":     ColResourceName,
	"impacted resource": ColResourceName,

	"resource type": ColResourceType,
	"impacted type": ColResourceType,

	"potential annual cost savings": ColPotentialSavings,
	"potential annual savings":      ColPotentialSavings,
	"potential savings":             ColPotentialSavings,
	"annual savings":                ColPotentialSavings,
	"savings":                       ColPotentialSavings,

	"currency":         ColCurrency,
	"savings currency": ColCurrency,

	"potential benefits": ColPotentialBenefits,
	"benefits":           ColPotentialBenefits,

	"advisor score impact": ColAdvisorScoreImpact,
	"score impact":         ColAdvisorScoreImpact,
}

// normalizeHeader prepares a raw header cell for alias lookup.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// canonicalColumn resolves a header to its canonical key, or "" when the
// header is not recognized.
func canonicalColumn(header string) string {
	return headerAliases[normalizeHeader(header)]
}
