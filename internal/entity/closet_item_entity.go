package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClosetItem is a catalog-shaped record the user marked as already
// owned. Closet items are merged ahead of the catalog at generation
// time and win SKU collisions.
type ClosetItem struct {
	Id                 uuid.UUID
	SessionId          string
	Sku                string
	Name               string
	Category           string
	Price              float64
	Colors             string
	WeatherSuitability string
	Formality          string
	Layering           string
	Tags               []string
	Notes              string
	Image              string
	ProductUrl         string
	CreatedAt          time.Time
}
