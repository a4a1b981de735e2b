package demo

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/pkg/logger"
	"ai-outfit-planner-be/pkg/catalog"
	"ai-outfit-planner-be/pkg/planner/reuse"
)

// Matches reports whether the original message triggers the demo
// short-circuit: the normalized text mentions spain, walking or the
// city, and a dinner. Keep this predicate narrow; it exists to give the
// pipeline one reproducible end-to-end path.
func Matches(message string) bool {
	normalized := strings.Join(strings.Fields(strings.ToLower(message)), " ")
	if !strings.Contains(normalized, "spain") {
		return false
	}
	if !strings.Contains(normalized, "walk") && !strings.Contains(normalized, "city") {
		return false
	}
	return strings.Contains(normalized, "dinner")
}

// Fixed SKU lists for the two demo days. Day one is a walking outfit
// from the main-catalog namespace plus demo accessories; day two is a
// dinner dress from the demo namespace with the same accessories.
//
// A dress fills both clothing slots: every daily outfit carries a
// complete topwear/bottomwear/footwear set, and the reuse analyzer
// de-duplicates by SKU so the dress still counts as one item.
var (
	dayOneSkus    = slotSkus{Topwear: "005", Bottomwear: "002", Footwear: "006"}
	dayTwoSkus    = slotSkus{Topwear: "D002", Bottomwear: "D002", Footwear: "D009"}
	accessorySkus = []string{"D003", "D006", "D007", "D008"}
	dayOneStyling = dto.Styling{
		Rationale:             "Comfortable casual layers for a full day of walking around the city.",
		WeatherConsiderations: "Breathable fabrics for mild Mediterranean daytime weather.",
		DresscodeCompliance:   "Relaxed casual, appropriate for sightseeing.",
	}
	dayTwoStyling = dto.Styling{
		Rationale:             "An elegant dress dressed up with the same accessories for the dinner.",
		WeatherConsiderations: "Light layers suit a warm evening out.",
		DresscodeCompliance:   "Smart casual, suitable for a nice dinner.",
	}
)

type slotSkus struct {
	Topwear    string
	Bottomwear string
	Footwear   string
}

// Generator builds the deterministic demo plan from the demo catalog.
type Generator struct {
	loader *catalog.Loader
	path   string
	log    logger.ILogger

	// Sleep is swapped out in tests. The artificial 2-4s delay mimics a
	// real generation round trip.
	Sleep func(ctx context.Context, d time.Duration)
}

func NewGenerator(loader *catalog.Loader, path string, log logger.ILogger) *Generator {
	return &Generator{
		loader: loader,
		path:   path,
		log:    log,
		Sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Generate returns the fixed two-day plan. The only failure mode is a
// broken demo catalog; that surfaces as DEMO_GENERATION_ERROR upstream.
func (g *Generator) Generate(ctx context.Context, sessionId string) (*dto.GenerationData, error) {
	cat, err := g.loader.Load(ctx, g.path)
	if err != nil {
		return nil, fmt.Errorf("load demo catalog: %w", err)
	}

	g.Sleep(ctx, time.Duration(2000+rand.Intn(2000))*time.Millisecond)

	accessories := make([]dto.OutfitItem, 0, len(accessorySkus))
	for _, sku := range accessorySkus {
		item, err := demoItem(cat, sku)
		if err != nil {
			return nil, err
		}
		accessories = append(accessories, *item)
	}

	dayOne, err := buildDay(cat, 1, "Walking around the city", dayOneSkus, accessories, dayOneStyling)
	if err != nil {
		return nil, err
	}
	dayTwo, err := buildDay(cat, 2, "Nice dinner", dayTwoSkus, accessories, dayTwoStyling)
	if err != nil {
		return nil, err
	}

	outfits := map[int]dto.DailyOutfit{1: *dayOne, 2: *dayTwo}
	if g.log != nil {
		g.log.Info("DemoGenerator", "Returning deterministic demo plan", map[string]interface{}{
			"session_id": sessionId,
		})
	}
	return &dto.GenerationData{
		Outfits:             outfits,
		ReusabilityAnalysis: reuse.Analyze(outfits),
		ContextSummary:      "Two-day Spain city trip: daytime walking and a nice dinner, casual dress code.",
		GeneratedAt:         time.Now().UTC(),
		IsDemoMode:          true,
	}, nil
}

func buildDay(cat *catalog.Catalog, day int, occasion string, skus slotSkus, accessories []dto.OutfitItem, styling dto.Styling) (*dto.DailyOutfit, error) {
	topwear, err := demoItem(cat, skus.Topwear)
	if err != nil {
		return nil, err
	}
	bottomwear, err := demoItem(cat, skus.Bottomwear)
	if err != nil {
		return nil, err
	}
	footwear, err := demoItem(cat, skus.Footwear)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &dto.DailyOutfit{
		Day:      day,
		Occasion: occasion,
		Outfit: dto.OutfitSlots{
			Topwear:     topwear,
			Bottomwear:  bottomwear,
			Footwear:    footwear,
			Accessories: accessories,
		},
		Styling:   styling,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func demoItem(cat *catalog.Catalog, sku string) (*dto.OutfitItem, error) {
	item, ok := cat.BySku[sku]
	if !ok {
		return nil, fmt.Errorf("demo catalog is missing sku %q", sku)
	}
	return &dto.OutfitItem{
		Sku:                item.Sku,
		Name:               item.Name,
		Category:           item.Category,
		Price:              item.Price,
		Colors:             item.Colors,
		WeatherSuitability: item.WeatherSuitability,
		Formality:          item.Formality,
		Notes:              item.Notes,
	}, nil
}
