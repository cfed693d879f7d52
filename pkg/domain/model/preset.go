package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// ViewPreset is a named, saved filter combination offered by the dashboard
type ViewPreset struct {
	ID           string `yaml:"id" json:"id"`                                   // Unique identifier (e.g., "partner_channel")
	Name         string `yaml:"name" json:"name"`                               // Display name
	ProductGroup string `yaml:"product_group,omitempty" json:"product_group"`   // Product group filter ("All" or empty for wildcard)
	Channel      string `yaml:"channel,omitempty" json:"channel"`               // Channel filter
	Team         string `yaml:"team,omitempty" json:"team"`                     // Award team rollup filter
}

// FilterSet converts the preset into a normalized FilterSet
func (p *ViewPreset) FilterSet() FilterSet {
	return NewFilterSet(p.ProductGroup, p.Channel, p.Team)
}

// PresetsConfig holds the view presets loaded from configuration
type PresetsConfig struct {
	Presets []ViewPreset `yaml:"presets" json:"presets"`
}

// Validate validates the presets configuration
func (c *PresetsConfig) Validate() error {
	seen := make(map[string]bool, len(c.Presets))
	for i, p := range c.Presets {
		if p.ID == "" {
			return goerr.New("preset ID is required", goerr.V("index", i))
		}
		if p.Name == "" {
			return goerr.New("preset name is required", goerr.V("id", p.ID))
		}
		if seen[p.ID] {
			return goerr.New("duplicate preset ID", goerr.V("id", p.ID))
		}
		seen[p.ID] = true
	}
	return nil
}

// DefaultPresetsConfig returns an empty presets configuration
func DefaultPresetsConfig() *PresetsConfig {
	return &PresetsConfig{}
}
