package dto

import "time"

// EventDetails are the structured trip facts extracted from the user's
// free-form message, later confirmed or edited by the user.
type EventDetails struct {
	Occasion            string      `json:"occasion" validate:"required"`
	Location            string      `json:"location,omitempty"`
	StartDate           string      `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Duration            int         `json:"duration" validate:"omitempty,min=1,max=14"`
	DressCode           string      `json:"dressCode,omitempty" validate:"omitempty,oneof=casual smart-casual business formal black-tie"`
	Budget              *float64    `json:"budget,omitempty" validate:"omitempty,min=0"`
	SpecialRequirements []string    `json:"specialRequirements,omitempty"`
	DailyPlans          []DailyPlan `json:"dailyPlans,omitempty"`
}

type DailyPlan struct {
	Day       int    `json:"day"`
	Activity  string `json:"activity"`
	DressCode string `json:"dressCode,omitempty"`
}

// OutfitItem is a catalog-backed clothing piece referenced by a daily outfit.
type OutfitItem struct {
	Sku                string  `json:"sku"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Price              float64 `json:"price"`
	Colors             string  `json:"colors,omitempty"`
	WeatherSuitability string  `json:"weatherSuitability,omitempty"`
	Formality          string  `json:"formality,omitempty"`
	Notes              string  `json:"notes,omitempty"`
}

// OutfitSlots groups the items of one day. Topwear, bottomwear and
// footwear are required; outerwear is optional; either a dress may stand
// in for top+bottom when the agent says so, in which case topwear carries
// the dress item.
type OutfitSlots struct {
	Topwear     *OutfitItem  `json:"topwear"`
	Bottomwear  *OutfitItem  `json:"bottomwear"`
	Outerwear   *OutfitItem  `json:"outerwear,omitempty"`
	Footwear    *OutfitItem  `json:"footwear"`
	Accessories []OutfitItem `json:"accessories,omitempty"`
}

type Styling struct {
	Rationale             string `json:"rationale"`
	WeatherConsiderations string `json:"weatherConsiderations"`
	DresscodeCompliance   string `json:"dresscodeCompliance"`
}

type DailyOutfit struct {
	Day       int         `json:"day"`
	Date      string      `json:"date,omitempty"`
	Occasion  string      `json:"occasion,omitempty"`
	Outfit    OutfitSlots `json:"outfit"`
	Styling   Styling     `json:"styling"`
	CreatedAt time.Time   `json:"createdAt,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt,omitempty"`
}

// ReusabilityAnalysis summarizes item reuse across trip days.
// ReusabilityMap keeps only SKUs worn on two or more days, each mapped
// to sorted unique day numbers.
type ReusabilityAnalysis struct {
	TotalItems            int              `json:"totalItems"`
	ReusedItems           int              `json:"reusedItems"`
	ReusabilityPercentage int              `json:"reusabilityPercentage"`
	ReusabilityMap        map[string][]int `json:"reusabilityMap"`
}

// TripPlanData is the structured payload parsed out of the agent response.
type TripPlanData struct {
	TripId              string               `json:"tripId,omitempty"`
	SessionId           string               `json:"sessionId,omitempty"`
	GeneratedAt         string               `json:"generatedAt,omitempty"`
	TripDetails         TripDetails          `json:"tripDetails"`
	DailyOutfits        []DailyOutfit        `json:"dailyOutfits"`
	ReusabilityAnalysis *ReusabilityAnalysis `json:"reusabilityAnalysis,omitempty"`
	Constraints         map[string]any       `json:"constraints,omitempty"`
}

type TripDetails struct {
	Occasion  string `json:"occasion,omitempty"`
	Location  string `json:"location,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	Duration  int    `json:"duration"`
	DressCode string `json:"dressCode,omitempty"`
}
