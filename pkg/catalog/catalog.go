package catalog

import (
	"encoding/csv"
	"strconv"
	"strings"

	"ai-outfit-planner-be/internal/constant"
)

// Item is one clothing catalog row, keyed by SKU.
type Item struct {
	Sku                string   `json:"sku"`
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	Colors             string   `json:"colors,omitempty"`
	WeatherSuitability string   `json:"weatherSuitability,omitempty"`
	Formality          string   `json:"formality,omitempty"`
	Layering           string   `json:"layering,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	Image              string   `json:"image,omitempty"`
	ProductUrl         string   `json:"productUrl,omitempty"`
}

// Catalog is an ordered item list with a SKU index. Order matters: the
// textual rendering used in prompts lists items in catalog order, so
// closet items merged ahead of the catalog appear first.
type Catalog struct {
	Items []Item
	BySku map[string]Item
}

func New(items []Item) *Catalog {
	c := &Catalog{Items: items, BySku: make(map[string]Item, len(items))}
	for _, it := range items {
		if _, dup := c.BySku[it.Sku]; !dup {
			c.BySku[it.Sku] = it
		}
	}
	return c
}

// Has reports whether a SKU exists in the catalog.
func (c *Catalog) Has(sku string) bool {
	_, ok := c.BySku[sku]
	return ok
}

// Merge places closet items ahead of the base catalog. On SKU collisions
// the closet item wins, both in the index and in the rendered text.
func Merge(closet []Item, base *Catalog) *Catalog {
	merged := make([]Item, 0, len(closet)+len(base.Items))
	seen := make(map[string]bool, len(closet))

	for _, it := range closet {
		if seen[it.Sku] {
			continue
		}
		seen[it.Sku] = true
		merged = append(merged, it)
	}
	for _, it := range base.Items {
		if seen[it.Sku] {
			continue
		}
		merged = append(merged, it)
	}
	return New(merged)
}

var csvHeader = []string{
	"sku", "name", "category", "price", "colors",
	"weatherSuitability", "formality", "layering", "tags", "notes",
}

// CSVText renders the catalog back into the CSV form embedded in prompts.
func (c *Catalog) CSVText() string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write(csvHeader)
	for _, it := range c.Items {
		w.Write([]string{
			it.Sku,
			it.Name,
			it.Category,
			strconv.FormatFloat(it.Price, 'f', -1, 64),
			it.Colors,
			it.WeatherSuitability,
			it.Formality,
			it.Layering,
			strings.Join(it.Tags, "|"),
			it.Notes,
		})
	}
	w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

// NormalizeCategory maps a free-form catalog label onto the canonical
// category set. Unknown labels become accessories.
func NormalizeCategory(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	switch key {
	case constant.CategoryTopwear, constant.CategoryBottomwear, constant.CategoryOuterwear,
		constant.CategoryFootwear, constant.CategoryAccessories, constant.CategoryDress:
		return key
	}
	if canonical, ok := constant.CategoryAliases[key]; ok {
		return canonical
	}
	return constant.CategoryAccessories
}
