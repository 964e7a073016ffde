package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisorcli/pkg/contracts/domain"
)

func savingsRecord(category domain.Category, impact domain.BusinessImpact, savings string) domain.Recommendation {
	return domain.Recommendation{
		Category:         category,
		BusinessImpact:   impact,
		PotentialSavings: decimal.RequireFromString(savings),
		Currency:         "USD",
	}
}

func TestAggregateEmpty(t *testing.T) {
	a := NewStatisticsAggregator(10, "USD", nil)

	stats := a.Aggregate(nil)

	assert.Equal(t, 0, stats.TotalRecommendations)
	assert.Empty(t, stats.CategoryDistribution)
	assert.Empty(t, stats.BusinessImpactDistribution)
	assert.True(t, stats.TotalPotentialSavings.IsZero())
	assert.True(t, stats.AveragePotentialSavings.IsZero())
	assert.Empty(t, stats.TopRecommendationsBySavings)
	assert.Empty(t, stats.ReservationBreakdown)
	assert.Equal(t, "USD", stats.Currency)
}

func TestAggregateDistributions(t *testing.T) {
	a := NewStatisticsAggregator(10, "USD", nil)

	records := []domain.Recommendation{
		savingsRecord(domain.CategoryCost, domain.ImpactHigh, "100"),
		savingsRecord(domain.CategoryCost, domain.ImpactMedium, "200"),
		savingsRecord(domain.CategorySecurity, domain.ImpactHigh, "0"),
		savingsRecord(domain.CategoryReliability, domain.ImpactLow, "50"),
	}

	stats := a.Aggregate(records)

	assert.Equal(t, 4, stats.TotalRecommendations)
	assert.Equal(t, 2, stats.CategoryDistribution[domain.CategoryCost])
	assert.Equal(t, 1, stats.CategoryDistribution[domain.CategorySecurity])
	assert.Equal(t, 1, stats.CategoryDistribution[domain.CategoryReliability])

	// Distribution counts partition the record set.
	sum := 0
	for _, count := range stats.CategoryDistribution {
		sum += count
	}
	assert.Equal(t, stats.TotalRecommendations, sum)

	var pctSum float64
	for _, pct := range stats.CategoryPercentages {
		pctSum += pct
	}
	assert.InDelta(t, 100.0, pctSum, 0.001)

	assert.InDelta(t, 50.0, stats.CategoryPercentages[domain.CategoryCost], 0.001)
	assert.Equal(t, 2, stats.BusinessImpactDistribution[domain.ImpactHigh])

	assert.Equal(t, "350", stats.TotalPotentialSavings.String())
	assert.Equal(t, "87.5", stats.AveragePotentialSavings.String())
}

func TestAggregateTopBySavings(t *testing.T) {
	a := NewStatisticsAggregator(3, "USD", nil)

	records := []domain.Recommendation{
		savingsRecord(domain.CategoryCost, domain.ImpactHigh, "10"),
		savingsRecord(domain.CategoryCost, domain.ImpactHigh, "500"),
		savingsRecord(domain.CategoryCost, domain.ImpactHigh, "250"),
		savingsRecord(domain.CategoryCost, domain.ImpactHigh, "500"),
		savingsRecord(domain.CategoryCost, domain.ImpactHigh, "90"),
	}
	for i := range records {
		records[i].SourceRowNumber = i + 1
	}

	stats := a.Aggregate(records)

	require.Len(t, stats.TopRecommendationsBySavings, 3)
	top := stats.TopRecommendationsBySavings
	assert.Equal(t, "500", top[0].PotentialSavings.String())
	assert.Equal(t, "500", top[1].PotentialSavings.String())
	assert.Equal(t, "250", top[2].PotentialSavings.String())
	// Stable sort: the tie keeps original row order.
	assert.Equal(t, 2, top[0].SourceRowNumber)
	assert.Equal(t, 4, top[1].SourceRowNumber)
}

func TestAggregateReservationBreakdown(t *testing.T) {
	a := NewStatisticsAggregator(10, "USD", nil)

	reservation := func(typ domain.ReservationType, term int, savings string) domain.Recommendation {
		rec := savingsRecord(domain.CategoryCost, domain.ImpactHigh, savings)
		rec.IsReservation = true
		rec.ReservationType = typ
		rec.CommitmentTermYears = term
		return rec
	}

	records := []domain.Recommendation{
		reservation(domain.ReservationTypeReservedInstance, 3, "2400.00"),
		reservation(domain.ReservationTypeReservedInstance, 3, "1200.00"),
		reservation(domain.ReservationTypeReservedInstance, 1, "600.00"),
		reservation(domain.ReservationTypeSavingsPlan, 3, "900.00"),
		savingsRecord(domain.CategoryCost, domain.ImpactLow, "100"),
	}

	stats := a.Aggregate(records)

	assert.Equal(t, 4, stats.ReservationCount)
	require.Len(t, stats.ReservationBreakdown, 3)

	byKey := make(map[domain.ReservationType]map[int]domain.ReservationGroup)
	for _, group := range stats.ReservationBreakdown {
		if byKey[group.Type] == nil {
			byKey[group.Type] = make(map[int]domain.ReservationGroup)
		}
		byKey[group.Type][group.TermYears] = group
	}

	ri3 := byKey[domain.ReservationTypeReservedInstance][3]
	assert.Equal(t, 2, ri3.Count)
	assert.Equal(t, "3600", ri3.AnnualSavings.String())
	assert.Equal(t, "10800", ri3.CommitmentTotal.String())

	ri1 := byKey[domain.ReservationTypeReservedInstance][1]
	assert.Equal(t, 1, ri1.Count)
	assert.Equal(t, "600", ri1.CommitmentTotal.String())

	sp3 := byKey[domain.ReservationTypeSavingsPlan][3]
	assert.Equal(t, "2700", sp3.CommitmentTotal.String())
}

func TestAggregateCommitmentTotal(t *testing.T) {
	a := NewStatisticsAggregator(10, "USD", nil)

	rec := savingsRecord(domain.CategoryCost, domain.ImpactHigh, "2400.00")
	rec.IsReservation = true
	rec.ReservationType = domain.ReservationTypeReservedInstance
	rec.CommitmentTermYears = 3

	stats := a.Aggregate([]domain.Recommendation{rec})

	require.Len(t, stats.ReservationBreakdown, 1)
	group := stats.ReservationBreakdown[0]
	assert.True(t, group.CommitmentTotal.Equal(decimal.RequireFromString("7200.00")),
		"3-year commitment on 2400/yr must total 7200, got %s", group.CommitmentTotal)
	assert.True(t, group.AnnualSavings.Equal(decimal.RequireFromString("2400.00")))
}
