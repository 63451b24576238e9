// Package normalizer reconciles heterogeneous price tables into unified records.
package normalizer

import (
	"fmt"

	"pricemachine/internal/models"
)

// Processor resolves a table's schema and normalizes its rows.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

// Normalize returns one record per row of table. A table whose headers do not
// resolve every role yields no records and an error wrapping ErrSchemaUnresolved.
func (p *Processor) Normalize(table *models.RawTable) ([]models.UnifiedRecord, error) {
	mapping, err := p.validator.Validate(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourceOf(table), err)
	}

	return p.transformer.Transform(table, mapping), nil
}

func sourceOf(table *models.RawTable) string {
	if table == nil {
		return "<nil>"
	}

	return table.Source
}
