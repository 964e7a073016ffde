package ingest

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisorcli/pkg/contracts/domain"
)

func gridFromCSV(t *testing.T, text string) *RawGrid {
	t.Helper()
	v := newTestStructureValidator(1000)
	grid, _, err := v.Validate(text)
	require.NoError(t, err)
	return grid
}

func TestNormalizeCategories(t *testing.T) {
	n := NewFieldNormalizer("USD", nil)

	tests := []struct {
		name string
		raw  string
		want domain.Category
	}{
		{name: "cost", raw: "Cost", want: domain.CategoryCost},
		{name: "lowercase cost", raw: "cost", want: domain.CategoryCost},
		{name: "security", raw: "SECURITY", want: domain.CategorySecurity},
		{name: "reliability", raw: "Reliability", want: domain.CategoryReliability},
		{name: "high availability synonym", raw: "High Availability", want: domain.CategoryReliability},
		{name: "operational excellence", raw: "Operational Excellence", want: domain.CategoryOperationalExcellence},
		{name: "operational excellence compact", raw: "OperationalExcellence", want: domain.CategoryOperationalExcellence},
		{name: "performance", raw: "performance", want: domain.CategoryPerformance},
		{name: "unknown passes through title-cased", raw: "compliance", want: domain.Category("Compliance")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := gridFromCSV(t, "Category,Recommendation\n"+tt.raw+",Do something\n")
			records := n.Normalize(grid)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].Category)
		})
	}
}

func TestNormalizeCategoryConcurrent(t *testing.T) {
	n := NewFieldNormalizer("USD", nil)

	grid := gridFromCSV(t, "Category,Recommendation\ncompliance,Do something\n")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records := n.Normalize(grid)
			if assert.Len(t, records, 1) {
				assert.Equal(t, domain.Category("Compliance"), records[0].Category)
			}
		}()
	}
	wg.Wait()
}

func TestNormalizeBusinessImpact(t *testing.T) {
	n := NewFieldNormalizer("USD", nil)

	tests := []struct {
		name string
		raw  string
		want domain.BusinessImpact
	}{
		{name: "high", raw: "High", want: domain.ImpactHigh},
		{name: "medium", raw: "medium", want: domain.ImpactMedium},
		{name: "low", raw: "LOW", want: domain.ImpactLow},
		{name: "unrecognized defaults to medium", raw: "critical", want: domain.ImpactMedium},
		{name: "blank defaults to medium", raw: "", want: domain.ImpactMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := gridFromCSV(t, "Category,Recommendation,Business Impact\nCost,Do it,"+tt.raw+"\n")
			records := n.Normalize(grid)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].BusinessImpact)
		})
	}
}

func TestNormalizeBusinessImpactColumnAbsent(t *testing.T) {
	n := NewFieldNormalizer("USD", nil)

	grid := gridFromCSV(t, "Category,Recommendation\nCost,Do it\n")
	records := n.Normalize(grid)
	require.Len(t, records, 1)
	assert.Equal(t, domain.ImpactMedium, records[0].BusinessImpact)
}

func TestNormalizeSavings(t *testing.T) {
	n := NewFieldNormalizer("USD", nil)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain number", raw: "1200.50", want: "1200.5"},
		{name: "dollar sign stripped", raw: "$2400.00", want: "2400"},
		{name: "thousands separators stripped", raw: "\"1,234,567.89\"", want: "1234567.89"},
		{name: "symbol and separators", raw: "\"$12,000\"", want: "12000"},
		{name: "euro stripped", raw: "€500", want: "500"},
		{name: "negative honored", raw: "-150.25", want: "-150.25"},
		{name: "blank is zero", raw: "", want: "0"},
		{name: "n/a is zero", raw: "N/A", want: "0"},
		{name: "not available is zero", raw: "Not Available", want: "0"},
		{name: "garbage is zero", raw: "twelve dollars", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := gridFromCSV(t, "Category,Recommendation,Potential Annual Cost Savings\nCost,Do it,"+tt.raw+"\n")
			records := n.Normalize(grid)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].PotentialSavings.String())
		})
	}
}

func TestNormalizeSavingsAfterSanitization(t *testing.T) {
	n := NewFieldNormalizer("USD", nil)
	s := NewCellSanitizer(10000, nil)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "negative survives guard prefix", raw: "-500.00", want: "-500"},
		{name: "plus sign survives guard prefix", raw: "+100.50", want: "100.5"},
		{name: "negative with symbol", raw: "-$250", want: "-250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := gridFromCSV(t, "Category,Recommendation,Potential Annual Cost Savings\nCost,Do it,"+tt.raw+"\n")
			_, err := s.SanitizeGrid(grid)
			require.NoError(t, err)
			require.Equal(t, "'"+tt.raw, grid.Cell(grid.Rows[0], ColPotentialSavings))

			records := n.Normalize(grid)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].PotentialSavings.String())
		})
	}
}

func TestNormalizeCurrencyDefault(t *testing.T) {
	n := NewFieldNormalizer("EUR", nil)

	grid := gridFromCSV(t, "Category,Recommendation\nCost,Do it\n")
	records := n.Normalize(grid)
	require.Len(t, records, 1)
	assert.Equal(t, "EUR", records[0].Currency)
}

func TestNormalizeRowCountInvariant(t *testing.T) {
	n := NewFieldNormalizer("USD", nil)

	text := "Category,Recommendation\n" +
		"Cost,First\n" +
		",\n" + // dropped
		"Security,Third\n" +
		" , \n" + // dropped
		"Cost,Fifth\n"

	grid := gridFromCSV(t, text)
	records := n.Normalize(grid)

	require.Len(t, records, 3)
	// Source row numbers index the pre-drop grid.
	assert.Equal(t, 1, records[0].SourceRowNumber)
	assert.Equal(t, 3, records[1].SourceRowNumber)
	assert.Equal(t, 5, records[2].SourceRowNumber)
}

func TestNormalizeAllFields(t *testing.T) {
	n := NewFieldNormalizer("USD", nil)

	text := "Category,Recommendation,Business Impact,Subscription ID,Subscription Name,Resource Group,Resource Name,Resource Type,Potential Annual Cost Savings,Currency,Potential Benefits,Advisor Score Impact\n" +
		"Cost,Right-size VM,High,sub-123,Production,rg-app,vm-web-01,Virtual Machine,\"$3,600\",USD,Lower monthly spend,1.5\n"

	grid := gridFromCSV(t, text)
	records := n.Normalize(grid)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, domain.CategoryCost, rec.Category)
	assert.Equal(t, "Right-size VM", rec.Recommendation)
	assert.Equal(t, domain.ImpactHigh, rec.BusinessImpact)
	assert.Equal(t, "sub-123", rec.SubscriptionID)
	assert.Equal(t, "Production", rec.SubscriptionName)
	assert.Equal(t, "rg-app", rec.ResourceGroup)
	assert.Equal(t, "vm-web-01", rec.ResourceName)
	assert.Equal(t, "Virtual Machine", rec.ResourceType)
	assert.True(t, rec.PotentialSavings.Equal(decimal.NewFromInt(3600)))
	assert.Equal(t, "USD", rec.Currency)
	assert.Equal(t, "Lower monthly spend", rec.PotentialBenefits)
	require.NotNil(t, rec.AdvisorScoreImpact)
	assert.True(t, rec.AdvisorScoreImpact.Equal(decimal.RequireFromString("1.5")))
}
