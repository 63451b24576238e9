package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"pricemachine/internal/models"
)

// Validation errors.
var (
	ErrNilTable         = errors.New("table is nil")
	ErrNoHeaders        = errors.New("table has no header row")
	ErrSchemaUnresolved = errors.New("required columns not found")
)

// Validator checks that a table can be normalized.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate resolves the table's headers and fails with ErrSchemaUnresolved
// when any role is missing. The mapping is returned either way.
func (v *Validator) Validate(table *models.RawTable) (models.RoleMapping, error) {
	if table == nil {
		return models.RoleMapping{}, ErrNilTable
	}

	if len(table.Headers) == 0 {
		return models.RoleMapping{}, ErrNoHeaders
	}

	mapping := ResolveHeaders(table.Headers)

	if missing := mapping.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, role := range missing {
			names[i] = string(role)
		}

		return mapping, fmt.Errorf("%w: missing %s", ErrSchemaUnresolved, strings.Join(names, ", "))
	}

	return mapping, nil
}
