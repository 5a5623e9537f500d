// Package recipes loads static recipe datasets. One parameterized engine
// runs every dataset; per-dataset files carry only data and optional
// multiplier overrides, never engine copies.
package recipes

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"indy_go/internal/domain"
)

// Dataset is one recipe table plus its report title and optional cost
// overrides. Recipe order is preserved from the file; the ranker's stable
// sort makes that order observable for equal-profit ties.
type Dataset struct {
	Title string `yaml:"title"`

	// Optional per-dataset multiplier overrides. Zero means inherit the
	// run-level configuration.
	MaterialDiscount decimal.Decimal `yaml:"material_discount_factor"`
	OverheadFactor   decimal.Decimal `yaml:"overhead_factor"`

	Recipes []domain.Recipe `yaml:"recipes"`
}

// Load reads one dataset file. A finished item defined twice is a data
// defect in the source table: the first definition wins and the duplicate
// is logged, instead of the silent last-wins of a plain map.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if ds.Title == "" {
		ds.Title = path
	}
	if len(ds.Recipes) == 0 {
		return nil, fmt.Errorf("dataset %s: no recipes", path)
	}

	seen := make(map[string]bool, len(ds.Recipes))
	kept := ds.Recipes[:0]
	for _, r := range ds.Recipes {
		if r.Product == "" {
			return nil, fmt.Errorf("dataset %s: recipe with empty product name", path)
		}
		if len(r.Materials) == 0 {
			return nil, fmt.Errorf("dataset %s: recipe %s has no materials", path, r.Product)
		}
		if seen[r.Product] {
			slog.Warn("duplicate recipe in dataset, keeping first definition",
				"dataset", path, "product", r.Product)
			continue
		}
		seen[r.Product] = true
		kept = append(kept, r)
	}
	ds.Recipes = kept

	return &ds, nil
}

// Names returns every unique item name a set of datasets references,
// sorted: finished items plus all materials. This is the input to the one
// identifier lookup call per run.
func Names(datasets []*Dataset) []string {
	set := make(map[string]bool)
	for _, ds := range datasets {
		for _, r := range ds.Recipes {
			set[r.Product] = true
			for mat := range r.Materials {
				set[mat] = true
			}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
