package respparse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/pkg/catalog"
)

// ErrInvalid marks irrecoverable parse or validation failures. The
// controller maps it onto the PARSE_ERROR envelope.
var ErrInvalid = errors.New("invalid agent response")

// Result is the validated outcome of parsing one agent reply.
type Result struct {
	TripId      string
	SessionId   string
	GeneratedAt string
	Outfits     map[int]dto.DailyOutfit
	Reusability *dto.ReusabilityAnalysis
	Warnings    []string
	Recovered   bool
	Raw         string
}

// Parser validates agent replies against the catalog that produced the
// prompt. SKU fidelity is checked against exactly that merged view.
type Parser struct {
	catalog *catalog.Catalog
}

func NewParser(cat *catalog.Catalog) *Parser {
	return &Parser{catalog: cat}
}

// --- wire shapes ---

// flexNumber accepts JSON numbers and string numerals. The agent is
// told to emit numbers but does not always comply.
type flexNumber struct {
	value float64
	set   bool
}

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("numeric string expected, got %q", s)
		}
		f.value = v
		f.set = true
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.value = v
	f.set = true
	return nil
}

type wireItem struct {
	Sku                string     `json:"sku"`
	Name               string     `json:"name"`
	Category           string     `json:"category"`
	Price              flexNumber `json:"price"`
	Colors             string     `json:"colors"`
	WeatherSuitability string     `json:"weatherSuitability"`
	Formality          string     `json:"formality"`
	Notes              string     `json:"notes"`
}

type wireOutfit struct {
	Topwear     *wireItem  `json:"topwear"`
	Bottomwear  *wireItem  `json:"bottomwear"`
	Outerwear   *wireItem  `json:"outerwear"`
	Footwear    *wireItem  `json:"footwear"`
	Accessories []wireItem `json:"accessories"`
}

type wireStyling struct {
	Rationale             string `json:"rationale"`
	WeatherConsiderations string `json:"weatherConsiderations"`
	DresscodeCompliance   string `json:"dresscodeCompliance"`
}

type wireDay struct {
	Day      flexNumber   `json:"day"`
	Date     string       `json:"date"`
	Occasion string       `json:"occasion"`
	Outfit   *wireOutfit  `json:"outfit"`
	Styling  *wireStyling `json:"styling"`
}

type wireTripDetails struct {
	Duration flexNumber `json:"duration"`
}

type wireResponse struct {
	TripId              string           `json:"tripId"`
	SessionId           string           `json:"sessionId"`
	GeneratedAt         string           `json:"generatedAt"`
	TripDetails         *wireTripDetails `json:"tripDetails"`
	DailyOutfits        []wireDay        `json:"dailyOutfits"`
	ReusabilityAnalysis json.RawMessage  `json:"reusabilityAnalysis"`
}

// Parse extracts, validates and maps the agent reply. On a first
// failure it runs one bounded recovery pass with relaxed structural
// rules; results that needed it carry Recovered=true.
func (p *Parser) Parse(text string, duration int) (*Result, error) {
	jsonText, extractErr := ExtractJSON(text)

	if extractErr == nil {
		result, err := p.parseOnce(jsonText, duration, false)
		if err == nil {
			result.Raw = text
			return result, nil
		}
		// fall through to recovery with the original failure in hand
		extractErr = err
	}

	repaired := RepairJSON(jsonText)
	if repaired == "" {
		repaired = RepairJSON(text)
	}
	recoveredText, err := ExtractJSON(repaired)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, extractErr)
	}
	result, err := p.parseOnce(recoveredText, duration, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v (recovery also failed: %v)", ErrInvalid, extractErr, err)
	}
	result.Recovered = true
	result.Raw = text
	return result, nil
}

func (p *Parser) parseOnce(jsonText string, duration int, relaxed bool) (*Result, error) {
	var wire wireResponse
	if err := json.Unmarshal([]byte(jsonText), &wire); err != nil {
		return nil, fmt.Errorf("decode: %v", err)
	}
	return p.validate(&wire, duration, relaxed)
}

func (p *Parser) validate(wire *wireResponse, duration int, relaxed bool) (*Result, error) {
	if !relaxed {
		if wire.TripDetails == nil {
			return nil, fmt.Errorf("missing tripDetails")
		}
		if !wire.TripDetails.Duration.set || wire.TripDetails.Duration.value < 1 ||
			wire.TripDetails.Duration.value != float64(int(wire.TripDetails.Duration.value)) {
			return nil, fmt.Errorf("tripDetails.duration must be a positive integer")
		}
		if wire.ReusabilityAnalysis == nil {
			return nil, fmt.Errorf("missing reusabilityAnalysis")
		}
	}
	if len(wire.DailyOutfits) == 0 {
		return nil, fmt.Errorf("dailyOutfits must be a non-empty array")
	}

	result := &Result{
		TripId:      wire.TripId,
		SessionId:   wire.SessionId,
		GeneratedAt: wire.GeneratedAt,
		Outfits:     make(map[int]dto.DailyOutfit, len(wire.DailyOutfits)),
	}

	if duration > 0 && len(wire.DailyOutfits) != duration {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"daily outfit count %d does not match trip duration %d", len(wire.DailyOutfits), duration))
	}

	now := time.Now().UTC()
	for i, day := range wire.DailyOutfits {
		dayNumber := i + 1
		if day.Day.set && int(day.Day.value) != dayNumber {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"day number %d corrected to position %d", int(day.Day.value), dayNumber))
		}

		if day.Outfit == nil {
			return nil, fmt.Errorf("day %d: missing outfit", dayNumber)
		}

		topwear, err := p.mapItem(day.Outfit.Topwear, dayNumber, "topwear", true)
		if err != nil {
			return nil, err
		}
		bottomwear, err := p.mapItem(day.Outfit.Bottomwear, dayNumber, "bottomwear", true)
		if err != nil {
			return nil, err
		}
		footwear, err := p.mapItem(day.Outfit.Footwear, dayNumber, "footwear", true)
		if err != nil {
			return nil, err
		}
		outerwear, err := p.mapItem(day.Outfit.Outerwear, dayNumber, "outerwear", false)
		if err != nil {
			return nil, err
		}

		accessories := make([]dto.OutfitItem, 0, len(day.Outfit.Accessories))
		for j := range day.Outfit.Accessories {
			acc, err := p.mapItem(&day.Outfit.Accessories[j], dayNumber, fmt.Sprintf("accessories[%d]", j), true)
			if err != nil {
				return nil, err
			}
			accessories = append(accessories, *acc)
		}

		styling := dto.Styling{}
		if day.Styling != nil {
			styling = dto.Styling{
				Rationale:             day.Styling.Rationale,
				WeatherConsiderations: day.Styling.WeatherConsiderations,
				DresscodeCompliance:   day.Styling.DresscodeCompliance,
			}
		}
		if !relaxed {
			if styling.Rationale == "" || styling.WeatherConsiderations == "" || styling.DresscodeCompliance == "" {
				return nil, fmt.Errorf("day %d: styling fields must be non-empty", dayNumber)
			}
		}

		result.Outfits[dayNumber] = dto.DailyOutfit{
			Day:      dayNumber,
			Date:     day.Date,
			Occasion: day.Occasion,
			Outfit: dto.OutfitSlots{
				Topwear:     topwear,
				Bottomwear:  bottomwear,
				Outerwear:   outerwear,
				Footwear:    footwear,
				Accessories: accessories,
			},
			Styling:   styling,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	result.Reusability = p.mapReusability(wire.ReusabilityAnalysis)
	return result, nil
}

// mapItem validates one clothing slot. Required slots must exist with a
// non-empty sku and name, a category, and a non-negative numeric price;
// every sku must exist in the generation catalog.
func (p *Parser) mapItem(item *wireItem, day int, slot string, required bool) (*dto.OutfitItem, error) {
	if item == nil {
		if required {
			return nil, fmt.Errorf("day %d: %s is required", day, slot)
		}
		return nil, nil
	}
	if item.Sku == "" {
		return nil, fmt.Errorf("day %d: %s has an empty sku", day, slot)
	}
	if item.Name == "" {
		return nil, fmt.Errorf("day %d: %s (%s) has an empty name", day, slot, item.Sku)
	}
	if item.Category == "" {
		return nil, fmt.Errorf("day %d: %s (%s) has no category", day, slot, item.Sku)
	}
	if !item.Price.set {
		return nil, fmt.Errorf("day %d: %s (%s) has a non-numeric price", day, slot, item.Sku)
	}
	if item.Price.value < 0 {
		return nil, fmt.Errorf("day %d: %s (%s) has a negative price", day, slot, item.Sku)
	}
	if p.catalog != nil && !p.catalog.Has(item.Sku) {
		return nil, fmt.Errorf("day %d: %s references unknown sku %q", day, slot, item.Sku)
	}

	return &dto.OutfitItem{
		Sku:                item.Sku,
		Name:               item.Name,
		Category:           item.Category,
		Price:              item.Price.value,
		Colors:             item.Colors,
		WeatherSuitability: item.WeatherSuitability,
		Formality:          item.Formality,
		Notes:              item.Notes,
	}, nil
}

// mapReusability keeps an agent-supplied analysis only when it actually
// carries data; otherwise the analyzer recomputes it downstream.
func (p *Parser) mapReusability(raw json.RawMessage) *dto.ReusabilityAnalysis {
	if len(raw) == 0 {
		return nil
	}
	var analysis dto.ReusabilityAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil
	}
	if analysis.TotalItems == 0 {
		return nil
	}
	return &analysis
}
