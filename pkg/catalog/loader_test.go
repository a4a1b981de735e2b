package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleCsv = `sku,name,category,price,colors,weatherSuitability,formality,layering,tags,notes
001,White Oxford Shirt,Shirts,49.90,white,mild,business,base,classic|versatile,crisp staple
002,Navy Chinos,Trousers,59.00,navy,all,smart-casual,base,versatile,
003,Leather Belt,Belt,25.00,brown,all,business,none,,
004,Wool Blazer,Blazer,120.00,charcoal,cool,business,outer,layering,structured
005,Black Dress,Gown,89.00,black,mild,formal,base,evening,"elegant, with pockets"`

func TestParseMapsRowsByHeader(t *testing.T) {
	l := NewLoader(0, nil)
	items, err := l.Parse(sampleCsv)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}

	first := items[0]
	if first.Sku != "001" || first.Name != "White Oxford Shirt" {
		t.Errorf("unexpected first item: %+v", first)
	}
	if first.Category != "topwear" {
		t.Errorf("Shirts should normalize to topwear, got %q", first.Category)
	}
	if first.Price != 49.90 {
		t.Errorf("price = %v", first.Price)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "classic" {
		t.Errorf("tags = %v", first.Tags)
	}

	// Quoted cell with an embedded comma survives intact.
	if items[4].Notes != "elegant, with pockets" {
		t.Errorf("quoted notes = %q", items[4].Notes)
	}
	if items[4].Category != "dress" {
		t.Errorf("Gown should normalize to dress, got %q", items[4].Category)
	}
}

func TestParseSkipsRaggedRows(t *testing.T) {
	csvText := "sku,name,category\n001,Shirt,topwear\nbroken,row\n002,Chinos,bottomwear"
	l := NewLoader(0, nil)
	items, err := l.Parse(csvText)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected ragged row skipped, got %d items", len(items))
	}
}

func TestParseRejectsMissingHeader(t *testing.T) {
	l := NewLoader(0, nil)
	cases := []string{
		"",
		"sku,name,category",                 // header only
		"name,category\nShirt,topwear",      // no sku column
		"sku,name,category\n,NoSku,topwear", // only empty-sku rows
	}
	for _, c := range cases {
		if _, err := l.Parse(c); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) err = %v, want ErrMalformed", c, err)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Shirts", "topwear"},
		{"TROUSERS", "bottomwear"},
		{"Coat", "outerwear"},
		{"sneakers", "footwear"},
		{"Gown", "dress"},
		{"belt", "accessories"},
		{"holographic-cape", "accessories"}, // unknown falls through
		{"topwear", "topwear"},              // already canonical
	}
	for _, tt := range tests {
		if got := NormalizeCategory(tt.label); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestMergeClosetFirstAndWinsCollisions(t *testing.T) {
	base := New([]Item{
		{Sku: "001", Name: "Catalog Shirt", Category: "topwear", Price: 40},
		{Sku: "002", Name: "Catalog Chinos", Category: "bottomwear", Price: 60},
	})
	closet := []Item{
		{Sku: "002", Name: "My Chinos", Category: "bottomwear", Price: 0},
		{Sku: "C01", Name: "My Sneakers", Category: "footwear", Price: 0},
	}

	merged := Merge(closet, base)

	if merged.Items[0].Sku != "002" || merged.Items[1].Sku != "C01" {
		t.Errorf("closet items should lead, got %v", merged.Items)
	}
	if merged.BySku["002"].Name != "My Chinos" {
		t.Errorf("closet should win SKU collision, got %q", merged.BySku["002"].Name)
	}
	if len(merged.Items) != 3 {
		t.Errorf("expected 3 merged items, got %d", len(merged.Items))
	}

	text := merged.CSVText()
	closetIdx := strings.Index(text, "My Chinos")
	catalogIdx := strings.Index(text, "Catalog Shirt")
	if closetIdx == -1 || catalogIdx == -1 || closetIdx > catalogIdx {
		t.Errorf("CSV text should list closet items before catalog items:\n%s", text)
	}
}

func TestLoadCachesPerPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.csv")
	if err := os.WriteFile(path, []byte(sampleCsv), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(time.Minute, nil)
	ctx := context.Background()

	if _, err := l.Load(ctx, path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := l.Load(ctx, path); err != nil {
		t.Fatalf("Load (cached): %v", err)
	}

	stats := l.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit / 1 miss", stats)
	}
	if stats.Entries != 1 {
		t.Errorf("entries = %d", stats.Entries)
	}
}

func TestLoadCsvMissingFile(t *testing.T) {
	l := NewLoader(0, nil)
	if _, err := l.LoadCsv(context.Background(), filepath.Join(t.TempDir(), "nope.csv")); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
