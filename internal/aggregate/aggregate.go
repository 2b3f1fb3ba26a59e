// Package aggregate derives per-category totals from raw inventory records.
package aggregate

import (
	"strings"

	"reliefnet/internal/api"
)

// Totals sums resource quantities per category. Category labels are
// uppercase-normalized so "food" and "FOOD" land in one bucket. Accumulation
// is commutative: input order never changes the result, and no resource is
// dropped — a zero-quantity item still materializes its bucket.
func Totals(resources []api.Resource) map[string]int {
	totals := make(map[string]int, len(resources))
	for _, r := range resources {
		cat := strings.ToUpper(r.Category)
		totals[cat] += r.Quantity
	}
	return totals
}

// Meta is display metadata for one category card.
type Meta struct {
	Label string
	Glyph string
}

var categoryMeta = map[string]Meta{
	api.CategoryFood:      {Label: "Food Rations", Glyph: "📦"},
	api.CategoryMedical:   {Label: "Medical Kits", Glyph: "🛡"},
	api.CategoryShelter:   {Label: "Shelter Units", Glyph: "🏠"},
	api.CategoryTransport: {Label: "Vehicles", Glyph: "🚚"},
	api.CategoryTools:     {Label: "Rescue Tools", Glyph: "🔧"},
}

// MetaFor returns the card metadata for a category, falling back to the raw
// label for categories the client doesn't know.
func MetaFor(category string) Meta {
	if m, ok := categoryMeta[strings.ToUpper(category)]; ok {
		return m
	}
	return Meta{Label: category, Glyph: "📦"}
}
