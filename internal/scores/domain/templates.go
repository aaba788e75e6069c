package domain

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed factor_templates.yaml
var factorTemplatesYAML []byte

// FactorTemplate is a preset factor a client can prefill a score form with.
type FactorTemplate struct {
	Name        string  `yaml:"name" json:"name"`
	Weight      float64 `yaml:"weight" json:"weight"`
	Description string  `yaml:"description" json:"description"`
}

var loadTemplates = sync.OnceValues(func() (map[EntityType][]FactorTemplate, error) {
	return ParseFactorTemplates(factorTemplatesYAML)
})

// FactorTemplates returns the embedded preset factors for every entity type.
func FactorTemplates() (map[EntityType][]FactorTemplate, error) {
	return loadTemplates()
}

// ParseFactorTemplates decodes a template document keyed by entity type.
// Unknown types and out-of-range weights are rejected.
func ParseFactorTemplates(data []byte) (map[EntityType][]FactorTemplate, error) {
	var raw map[string][]FactorTemplate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse factor templates: %w", err)
	}

	templates := make(map[EntityType][]FactorTemplate, len(raw))
	for key, items := range raw {
		t, ok := ParseEntityType(key)
		if !ok {
			return nil, fmt.Errorf("parse factor templates: unknown entity type %q", key)
		}
		for _, item := range items {
			if item.Name == "" {
				return nil, fmt.Errorf("parse factor templates: %s template without name", t)
			}
			if item.Weight < MinWeight || item.Weight > MaxWeight {
				return nil, fmt.Errorf("parse factor templates: %s.%s weight %g out of range", t, item.Name, item.Weight)
			}
		}
		templates[t] = items
	}
	return templates, nil
}
