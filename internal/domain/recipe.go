package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Quantity is the amount of one material a single production run consumes.
// Recipe files may give it either as a plain number or in the structured
// form {base, probability, batch}, which encodes invention-style inputs:
// base units per attempt, divided by the attempt success probability and
// the output batch size. All blueprints are assumed ME 0, so no material
// reduction is ever applied on top of this.
type Quantity struct {
	Base        decimal.Decimal
	Probability decimal.Decimal // 0 means "not probability-adjusted"
	Batch       decimal.Decimal // 0 means "single output"
}

// UnmarshalYAML accepts both the scalar and the structured form.
func (q *Quantity) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		d, err := decimal.NewFromString(value.Value)
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %w", value.Value, err)
		}
		q.Base = d
		return nil
	case yaml.MappingNode:
		var aux struct {
			Base        decimal.Decimal `yaml:"base"`
			Probability decimal.Decimal `yaml:"probability"`
			Batch       decimal.Decimal `yaml:"batch"`
		}
		if err := value.Decode(&aux); err != nil {
			return fmt.Errorf("invalid quantity mapping: %w", err)
		}
		q.Base = aux.Base
		q.Probability = aux.Probability
		q.Batch = aux.Batch
		return nil
	default:
		return fmt.Errorf("invalid quantity node kind %d", value.Kind)
	}
}

// Units returns the effective per-unit quantity: base / probability / batch.
func (q Quantity) Units() decimal.Decimal {
	units := q.Base
	if q.Probability.IsPositive() {
		units = units.Div(q.Probability)
	}
	if q.Batch.IsPositive() {
		units = units.Div(q.Batch)
	}
	return units
}

// QuantityOf is a convenience constructor for plain (non-adjusted) quantities.
func QuantityOf(base float64) Quantity {
	return Quantity{Base: decimal.NewFromFloat(base)}
}

// Recipe is one finished item and the materials a single run consumes.
// Recipes are loaded once per run from static dataset files and never
// mutated afterwards.
type Recipe struct {
	Product   string              `yaml:"product"`
	Materials map[string]Quantity `yaml:"materials"`
}
