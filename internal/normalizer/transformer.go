package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"pricemachine/internal/models"
)

// Transformer turns raw rows into unified records.
type Transformer struct {
	numberPattern *regexp.Regexp
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{
		numberPattern: regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?$`),
	}
}

// ParseAmount coerces a cell to a non-negative finite real. Missing,
// non-numeric and negative values become 0.
func (t *Transformer) ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	s = normalizeDecimal(s)

	if !t.numberPattern.MatchString(s) {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}

	return v
}

// normalizeDecimal rewrites the decimal separator as a dot. When both a comma
// and a dot appear, the later one is the decimal point and the other groups
// thousands: "1,234.50" and "1.234,50" both become "1234.50".
func normalizeDecimal(s string) string {
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	switch {
	case comma < 0:
		return s
	case dot < 0:
		return strings.Replace(s, ",", ".", 1)
	case comma > dot:
		return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	default:
		return strings.ReplaceAll(s, ",", "")
	}
}

var defaultTransformer = NewTransformer()

// ParseAmount coerces a cell with the default transformer.
func ParseAmount(raw string) float64 {
	return defaultTransformer.ParseAmount(raw)
}

// UnitPrice is price per unit of weight, or 0 when weight is not positive.
func UnitPrice(price, weight float64) float64 {
	if weight <= 0 {
		return 0
	}

	u := price / weight
	if math.IsNaN(u) || math.IsInf(u, 0) || u < 0 {
		return 0
	}

	return u
}

// Transform emits one record per row of table using mapping, in row order.
func (t *Transformer) Transform(table *models.RawTable, mapping models.RoleMapping) []models.UnifiedRecord {
	records := make([]models.UnifiedRecord, 0, len(table.Rows))

	for r := range table.Rows {
		product, _ := table.Cell(r, mapping.Product.Index)
		rawPrice, _ := table.Cell(r, mapping.Price.Index)
		rawWeight, _ := table.Cell(r, mapping.Weight.Index)

		price := t.ParseAmount(rawPrice)
		weight := t.ParseAmount(rawWeight)

		records = append(records, models.UnifiedRecord{
			SourceFile:  table.Source,
			ProductName: product,
			Price:       price,
			Weight:      weight,
			UnitPrice:   UnitPrice(price, weight),
		})
	}

	return records
}
