package respparse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-outfit-planner-be/pkg/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Item{
		{Sku: "001", Name: "White Oxford Shirt", Category: "topwear", Price: 49.9},
		{Sku: "002", Name: "Navy Chinos", Category: "bottomwear", Price: 59},
		{Sku: "003", Name: "Black Loafers", Category: "footwear", Price: 85},
		{Sku: "004", Name: "Wool Blazer", Category: "outerwear", Price: 120},
		{Sku: "005", Name: "Leather Belt", Category: "accessories", Price: 25},
	})
}

func dayJSON(day int) string {
	return `{
		"day": ` + fmt.Sprint(day) + `,
		"date": "` + fmt.Sprintf("2024-01-%02d", 14+day) + `",
		"occasion": "conference",
		"outfit": {
			"topwear": {"sku":"001","name":"White Oxford Shirt","category":"topwear","price":49.9},
			"bottomwear": {"sku":"002","name":"Navy Chinos","category":"bottomwear","price":59},
			"outerwear": null,
			"footwear": {"sku":"003","name":"Black Loafers","category":"footwear","price":85},
			"accessories": [{"sku":"005","name":"Leather Belt","category":"accessories","price":25}]
		},
		"styling": {
			"rationale": "clean business look",
			"weatherConsiderations": "indoor venue",
			"dresscodeCompliance": "business"
		}
	}`
}

func validResponse() string {
	return `{
		"tripId": "trip-1",
		"sessionId": "sess-1",
		"generatedAt": "2024-01-14T10:00:00Z",
		"tripDetails": {"duration": 2},
		"dailyOutfits": [` + dayJSON(1) + `,` + dayJSON(2) + `],
		"reusabilityAnalysis": {},
		"constraints": {}
	}`
}

func TestParseValidResponse(t *testing.T) {
	p := NewParser(testCatalog())
	result, err := p.Parse(validResponse(), 2)
	require.NoError(t, err)

	assert.False(t, result.Recovered)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "trip-1", result.TripId)
	require.Len(t, result.Outfits, 2)

	day1 := result.Outfits[1]
	assert.Equal(t, 1, day1.Day)
	assert.Equal(t, "001", day1.Outfit.Topwear.Sku)
	assert.Equal(t, 49.9, day1.Outfit.Topwear.Price)
	assert.Nil(t, day1.Outfit.Outerwear)
	require.Len(t, day1.Outfit.Accessories, 1)
	assert.Equal(t, "005", day1.Outfit.Accessories[0].Sku)
	assert.Equal(t, "clean business look", day1.Styling.Rationale)

	// Empty reusabilityAnalysis object is treated as absent so the
	// analyzer recomputes it.
	assert.Nil(t, result.Reusability)
}

func TestParseStripsFencesCommentsAndTrailingCommas(t *testing.T) {
	dirty := "Here is your plan:\n```json\n" + strings.Replace(validResponse(),
		`"constraints": {}`,
		`"constraints": {}, // end of plan
		/* block comment */`, 1) + "\n```\nEnjoy!"

	p := NewParser(testCatalog())
	result, err := p.Parse(dirty, 2)
	require.NoError(t, err)
	assert.False(t, result.Recovered, "sanitizing is not recovery")
	assert.Len(t, result.Outfits, 2)
}

func TestParseCoercesStringPrices(t *testing.T) {
	resp := strings.Replace(validResponse(), `"price":49.9`, `"price":"49.9"`, 1)
	p := NewParser(testCatalog())
	result, err := p.Parse(resp, 2)
	require.NoError(t, err)
	assert.Equal(t, 49.9, result.Outfits[1].Outfit.Topwear.Price)
}

func TestParseRejectsNegativePrice(t *testing.T) {
	resp := strings.Replace(validResponse(), `"price":49.9`, `"price":-1`, 1)
	p := NewParser(testCatalog())
	_, err := p.Parse(resp, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "negative price")
}

func TestParseRejectsUnknownSku(t *testing.T) {
	resp := strings.Replace(validResponse(), `"sku":"001"`, `"sku":"999"`, 1)
	p := NewParser(testCatalog())
	_, err := p.Parse(resp, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), `"999"`)
}

func TestParseRejectsMissingRequiredSlot(t *testing.T) {
	resp := strings.Replace(validResponse(),
		`"topwear": {"sku":"001","name":"White Oxford Shirt","category":"topwear","price":49.9},`, "", 2)
	p := NewParser(testCatalog())
	_, err := p.Parse(resp, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topwear is required")
}

func TestParseWarnsOnDurationMismatch(t *testing.T) {
	p := NewParser(testCatalog())
	result, err := p.Parse(validResponse(), 3)
	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "does not match trip duration 3")
}

func TestParseRenumbersDays(t *testing.T) {
	resp := strings.Replace(validResponse(), `"day": 2`, `"day": 7`, 1)
	p := NewParser(testCatalog())
	result, err := p.Parse(resp, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Outfits[2].Day)
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "corrected to position 2") {
			found = true
		}
	}
	assert.True(t, found, "warnings: %v", result.Warnings)
}

func TestParseRecoversSingleQuotedResponse(t *testing.T) {
	// Single quotes and unquoted keys: invalid JSON, recoverable once.
	resp := `{
		dailyOutfits: [{
			day: 1,
			occasion: 'dinner',
			outfit: {
				topwear: {sku: '001', name: 'White Oxford Shirt', category: 'topwear', price: 49.9},
				bottomwear: {sku: '002', name: 'Navy Chinos', category: 'bottomwear', price: 59},
				footwear: {sku: '003', name: 'Black Loafers', category: 'footwear', price: 85},
				accessories: []
			}
		}]
	}`
	p := NewParser(testCatalog())
	result, err := p.Parse(resp, 1)
	require.NoError(t, err)
	assert.True(t, result.Recovered)
	require.Len(t, result.Outfits, 1)
	assert.Equal(t, "001", result.Outfits[1].Outfit.Topwear.Sku)
}

func TestParseRecoveryStillEnforcesSkuFidelity(t *testing.T) {
	resp := `{dailyOutfits: [{day: 1, outfit: {
		topwear: {sku: 'GHOST', name: 'Phantom Shirt', category: 'topwear', price: 10},
		bottomwear: {sku: '002', name: 'Navy Chinos', category: 'bottomwear', price: 59},
		footwear: {sku: '003', name: 'Black Loafers', category: 'footwear', price: 85}
	}}]}`
	p := NewParser(testCatalog())
	_, err := p.Parse(resp, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseFailsWithoutJSON(t *testing.T) {
	p := NewParser(testCatalog())
	_, err := p.Parse("I could not generate a plan, sorry.", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseMissingTripDetailsOnlyPassesRelaxed(t *testing.T) {
	// Strict validation requires tripDetails; the bounded recovery pass
	// only requires dailyOutfits, so the response is accepted but
	// flagged as recovered.
	p := NewParser(testCatalog())

	noTrip := strings.Replace(validResponse(), `"tripDetails": {"duration": 2},`, "", 1)
	result, err := p.Parse(noTrip, 2)
	require.NoError(t, err)
	assert.True(t, result.Recovered)
	assert.Len(t, result.Outfits, 2)
}
