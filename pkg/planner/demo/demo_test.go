package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-outfit-planner-be/pkg/catalog"
)

const demoPrompt = "2 day trip to spain\n\nWant to walk around the city and for a nice dinner and casual outfit"

func TestMatches(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{demoPrompt, true},
		{"Trip to SPAIN, city sightseeing and a DINNER", true},
		{"trip to spain with a dinner", false},             // no walk/city
		{"walk around the city and dinner in rome", false}, // no spain
		{"walking tour of spain cities", false},            // no dinner
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.message), "message: %q", tt.message)
	}
}

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	g := NewGenerator(catalog.NewLoader(time.Minute, nil), "../../../assets/demo_catalog.csv", nil)
	g.Sleep = func(ctx context.Context, d time.Duration) {}
	return g
}

func TestGenerateDeterministicPlan(t *testing.T) {
	g := newTestGenerator(t)

	first, err := g.Generate(context.Background(), "sess-1")
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), "sess-1")
	require.NoError(t, err)

	require.True(t, first.IsDemoMode)
	require.Len(t, first.Outfits, 2)

	day1 := first.Outfits[1]
	assert.Equal(t, "005", day1.Outfit.Topwear.Sku)
	assert.Equal(t, "002", day1.Outfit.Bottomwear.Sku)
	assert.Equal(t, "006", day1.Outfit.Footwear.Sku)
	require.Len(t, day1.Outfit.Accessories, 4)

	day2 := first.Outfits[2]
	assert.Equal(t, "D002", day2.Outfit.Topwear.Sku)
	assert.Equal(t, "D009", day2.Outfit.Footwear.Sku)
	assert.Equal(t, "dress", day2.Outfit.Topwear.Category)
	// The dress occupies both clothing slots so the day keeps a full
	// slot set; it is still one catalog item.
	assert.Equal(t, day2.Outfit.Topwear, day2.Outfit.Bottomwear)

	for day := 1; day <= 2; day++ {
		var skus []string
		for _, acc := range first.Outfits[day].Outfit.Accessories {
			skus = append(skus, acc.Sku)
		}
		assert.Equal(t, []string{"D003", "D006", "D007", "D008"}, skus)
	}

	// Identical SKU structure on every invocation.
	for day := range first.Outfits {
		assert.Equal(t, first.Outfits[day].Outfit.Topwear.Sku, second.Outfits[day].Outfit.Topwear.Sku)
		assert.Equal(t, first.Outfits[day].Styling, second.Outfits[day].Styling)
	}
}

func TestGenerateReusability(t *testing.T) {
	g := newTestGenerator(t)
	data, err := g.Generate(context.Background(), "sess-1")
	require.NoError(t, err)

	analysis := data.ReusabilityAnalysis
	require.NotNil(t, analysis)
	// Nine distinct SKUs, the four accessories worn both days.
	assert.Equal(t, 9, analysis.TotalItems)
	assert.Equal(t, 4, analysis.ReusedItems)
	assert.Equal(t, 44, analysis.ReusabilityPercentage)
	for _, sku := range []string{"D003", "D006", "D007", "D008"} {
		assert.Equal(t, []int{1, 2}, analysis.ReusabilityMap[sku])
	}
}

func TestGenerateFailsOnMissingCatalog(t *testing.T) {
	g := NewGenerator(catalog.NewLoader(time.Minute, nil), "does-not-exist.csv", nil)
	g.Sleep = func(ctx context.Context, d time.Duration) {}
	_, err := g.Generate(context.Background(), "sess-1")
	require.Error(t, err)
}
