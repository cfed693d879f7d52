package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Presets holds view preset configuration
type Presets struct {
	Path string
}

// Flags returns CLI flags for Presets configuration
func (p *Presets) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "presets",
			Usage:       "Path to a YAML file of saved filter presets",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("CHURNSCOPE_PRESETS"),
			Destination: &p.Path,
		},
	}
}

// Load reads the presets file when configured, or returns an empty config
func (p *Presets) Load() (*model.PresetsConfig, error) {
	if p.Path == "" {
		return model.DefaultPresetsConfig(), nil
	}
	return LoadPresetsFromFile(p.Path)
}

// LoadPresetsFromFile loads view presets from a YAML file
func LoadPresetsFromFile(path string) (*model.PresetsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "presets file not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read presets file", goerr.V("path", path))
	}

	var config model.PresetsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse presets YAML", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid presets configuration", goerr.V("path", path))
	}

	return &config, nil
}
