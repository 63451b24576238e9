package normalizer

import (
	"errors"
	"testing"

	"pricemachine/internal/models"
)

func TestNewProcessor(t *testing.T) {
	if p := NewProcessor(); p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Normalize(t *testing.T) {
	p := NewProcessor()

	table := &models.RawTable{
		Source:  "price_milk.csv",
		Headers: []string{"название", "цена", "вес"},
		Rows: [][]string{
			{"Молоко", "80", "1"},
			{"Сахар", "50", "0"},
			{"Мука", "120", "2"},
		},
	}

	records, err := p.Normalize(table)
	if err != nil {
		t.Fatalf("Normalize returned unexpected error: %v", err)
	}

	if len(records) != len(table.Rows) {
		t.Fatalf("expected one record per row, got %d", len(records))
	}

	expectedNames := []string{"Молоко", "Сахар", "Мука"}
	for i, name := range expectedNames {
		if records[i].ProductName != name {
			t.Errorf("record %d name = %q, want %q (row order)", i, records[i].ProductName, name)
		}
	}

	if records[0].UnitPrice != 80 {
		t.Errorf("Молоко unit price = %v, want 80", records[0].UnitPrice)
	}

	if records[1].UnitPrice != 0 {
		t.Errorf("zero-weight unit price = %v, want 0", records[1].UnitPrice)
	}

	if records[2].UnitPrice != 60 {
		t.Errorf("Мука unit price = %v, want 60", records[2].UnitPrice)
	}
}

func TestProcessor_Normalize_Unresolved(t *testing.T) {
	table := &models.RawTable{
		Source:  "price_bad.csv",
		Headers: []string{"x", "y", "z"},
		Rows:    [][]string{{"a", "1", "1"}},
	}

	records, err := NewProcessor().Normalize(table)
	if !errors.Is(err, ErrSchemaUnresolved) {
		t.Fatalf("expected ErrSchemaUnresolved, got %v", err)
	}

	if len(records) != 0 {
		t.Errorf("unresolved table should yield no records, got %d", len(records))
	}
}

func TestProcessor_Normalize_UnitPriceInvariant(t *testing.T) {
	table := &models.RawTable{
		Source:  "price_edge.csv",
		Headers: []string{"товар", "розница", "масса"},
		Rows: [][]string{
			{"a", "10", "0"},
			{"b", "-10", "2"},
			{"c", "10", "-2"},
			{"d", "oops", "1"},
			{"e", "1e308", "1e-308"},
		},
	}

	records, err := NewProcessor().Normalize(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range records {
		if r.UnitPrice < 0 {
			t.Errorf("%s: negative unit price %v", r.ProductName, r.UnitPrice)
		}

		if r.Weight == 0 && r.UnitPrice != 0 {
			t.Errorf("%s: zero weight must give zero unit price, got %v", r.ProductName, r.UnitPrice)
		}
	}

	if last := records[len(records)-1]; last.UnitPrice != 0 {
		t.Errorf("overflowing division should collapse to 0, got %v", last.UnitPrice)
	}
}
