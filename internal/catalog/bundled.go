package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// models.yaml is a point-in-time mirror of the service catalog so the
// CLI can list models and estimate offline. Prices are strings to keep
// them exact through the YAML parser.
//
//go:embed models.yaml
var bundledTable []byte

type yamlTable struct {
	Models []yamlModel `yaml:"models"`
}

type yamlModel struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	Provider     string      `yaml:"provider"`
	Media        string      `yaml:"media"`
	SupportsEdit bool        `yaml:"supports_edit"`
	Seconds      []int       `yaml:"seconds"`
	Sizes        []string    `yaml:"sizes"`
	Pricing      yamlPricing `yaml:"pricing"`
}

type yamlPricing struct {
	Type   string            `yaml:"type"`
	Value  string            `yaml:"value"`
	Range  *yamlRange        `yaml:"range"`
	Matrix []yamlMatrixEntry `yaml:"matrix"`
}

type yamlRange struct {
	Min     string `yaml:"min"`
	Max     string `yaml:"max"`
	Average string `yaml:"average"`
}

type yamlMatrixEntry struct {
	Quality string `yaml:"quality"`
	Size    string `yaml:"size"`
	Min     string `yaml:"min"`
	Max     string `yaml:"max"`
	Average string `yaml:"average"`
}

// Bundled loads the embedded model table. Unlike ParseRaw, a bad entry
// here is a build defect, so any error fails the load.
func Bundled() (*Snapshot, error) {
	var table yamlTable
	if err := yaml.Unmarshal(bundledTable, &table); err != nil {
		return nil, fmt.Errorf("parsing bundled model table: %w", err)
	}

	models := make([]*ModelDescriptor, 0, len(table.Models))
	for _, ym := range table.Models {
		rm := ym.toRaw()
		m, err := rm.toDescriptor()
		if err != nil {
			return nil, fmt.Errorf("bundled model %q: %w", ym.ID, err)
		}
		models = append(models, m)
	}

	return NewSnapshot(models)
}

// toRaw maps the YAML entry onto the raw API shape so both tables share
// one pricing-rule construction path.
func (ym yamlModel) toRaw() rawModel {
	rm := rawModel{
		ID:       ym.ID,
		Name:     ym.Name,
		Provider: ym.Provider,
		Output:   []string{ym.Media},
		Seconds:  ym.Seconds,
		Sizes:    ym.Sizes,
		Pricing: rawPricing{
			Type:  ym.Pricing.Type,
			Value: json.Number(ym.Pricing.Value),
		},
	}
	rm.SupportedParams.Edit = ym.SupportsEdit

	if ym.Pricing.Range != nil {
		rm.Pricing.Range = &rawRange{
			Min:     json.Number(ym.Pricing.Range.Min),
			Max:     json.Number(ym.Pricing.Range.Max),
			Average: json.Number(ym.Pricing.Range.Average),
		}
	}
	for _, e := range ym.Pricing.Matrix {
		rm.Pricing.Matrix = append(rm.Pricing.Matrix, rawMatrixEntry{
			Quality: e.Quality,
			Size:    e.Size,
			Min:     json.Number(e.Min),
			Max:     json.Number(e.Max),
			Average: json.Number(e.Average),
		})
	}
	return rm
}
