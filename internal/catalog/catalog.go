// Package catalog holds the merged, queryable collection of unified records.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"pricemachine/internal/models"
)

// Catalog is an ordered collection of records. Insertion order is
// ingestion order until SortByUnitPrice reorders it.
type Catalog struct {
	records []models.UnifiedRecord
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Append adds records to the end of the catalog, preserving their order.
func (c *Catalog) Append(records ...models.UnifiedRecord) {
	c.records = append(c.records, records...)
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// IsEmpty reports whether the catalog has no records.
func (c *Catalog) IsEmpty() bool {
	return len(c.records) == 0
}

// Records returns a copy of the records in current order.
func (c *Catalog) Records() []models.UnifiedRecord {
	return slices.Clone(c.records)
}

// SortByUnitPrice reorders the catalog in place by ascending unit price.
// Records with equal unit prices keep their relative order.
func (c *Catalog) SortByUnitPrice() {
	slices.SortStableFunc(c.records, byUnitPrice)
}

// SortedByUnitPrice returns the records by ascending unit price without
// modifying the catalog. Ties keep insertion order.
func (c *Catalog) SortedByUnitPrice() []models.UnifiedRecord {
	sorted := slices.Clone(c.records)
	slices.SortStableFunc(sorted, byUnitPrice)

	return sorted
}

// FilterBySubstring returns records whose product name contains needle, in
// ascending unit-price order. An empty needle matches every record.
func (c *Catalog) FilterBySubstring(needle string, caseInsensitive bool) []models.UnifiedRecord {
	sorted := c.SortedByUnitPrice()
	if needle == "" {
		return sorted
	}

	match := strings.Contains
	if caseInsensitive {
		fold := cases.Fold()
		folded := fold.String(needle)
		match = func(name, _ string) bool {
			return strings.Contains(fold.String(name), folded)
		}
	}

	matches := make([]models.UnifiedRecord, 0, len(sorted))

	for _, r := range sorted {
		if match(r.ProductName, needle) {
			matches = append(matches, r)
		}
	}

	return matches
}

func byUnitPrice(a, b models.UnifiedRecord) int {
	return cmp.Compare(a.UnitPrice, b.UnitPrice)
}
