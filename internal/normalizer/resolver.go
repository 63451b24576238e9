package normalizer

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"pricemachine/internal/models"
	"pricemachine/pkg/utils"
)

// Header spellings accepted for each role. The sets are disjoint.
var (
	productAliases = []string{"товар", "название", "наименование", "продукт"}
	priceAliases   = []string{"розница", "цена", "розничная цена", "стоимость"}
	weightAliases  = []string{"вес", "масса", "фасовка"}
)

var aliasIndex = buildAliasIndex(map[models.Role][]string{
	models.RoleProduct: productAliases,
	models.RolePrice:   priceAliases,
	models.RoleWeight:  weightAliases,
})

func buildAliasIndex(sets map[models.Role][]string) map[string]models.Role {
	index := make(map[string]models.Role)

	for role, aliases := range sets {
		for _, alias := range aliases {
			index[canonicalHeader(alias)] = role
		}
	}

	return index
}

// canonicalHeader folds a header label into the form used for alias lookup.
func canonicalHeader(label string) string {
	label = utils.NewStringHelper().NormalizeWhitespace(norm.NFKC.String(label))

	return cases.Fold().String(label)
}

// RoleOf returns the role a header label denotes, if any.
func RoleOf(label string) (models.Role, bool) {
	role, ok := aliasIndex[canonicalHeader(label)]

	return role, ok
}

// ResolveHeaders maps headers to roles. For each role the first header in
// column order whose folded label is a known alias wins.
func ResolveHeaders(headers []string) models.RoleMapping {
	mapping := models.RoleMapping{
		Product: models.Unresolved,
		Price:   models.Unresolved,
		Weight:  models.Unresolved,
	}

	for i, header := range headers {
		role, ok := RoleOf(header)
		if !ok {
			continue
		}

		col := models.Column{Label: header, Index: i}

		switch role {
		case models.RoleProduct:
			if !mapping.Product.Resolved() {
				mapping.Product = col
			}
		case models.RolePrice:
			if !mapping.Price.Resolved() {
				mapping.Price = col
			}
		case models.RoleWeight:
			if !mapping.Weight.Resolved() {
				mapping.Weight = col
			}
		}
	}

	return mapping
}
