package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/roshan-abady/churnscope/pkg/cli/config"
)

func TestLoadPresetsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	data := `presets:
  - id: payroll_direct
    name: Payroll via Direct
    product_group: Payroll
    channel: Direct
  - id: partners
    name: All Partners
    channel: Partner
`
	gt.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := config.LoadPresetsFromFile(path)
	gt.NoError(t, err)
	gt.Equal(t, len(cfg.Presets), 2)
	gt.Equal(t, cfg.Presets[0].ID, "payroll_direct")
	gt.Equal(t, cfg.Presets[1].FilterSet().Channel, "Partner")
}

func TestLoadPresetsFromFileMissing(t *testing.T) {
	_, err := config.LoadPresetsFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	gt.Error(t, err)
}

func TestLoadPresetsFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	data := `presets:
  - id: dup
    name: A
  - id: dup
    name: B
`
	gt.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := config.LoadPresetsFromFile(path)
	gt.Error(t, err)
}

func TestPresetsLoadDefault(t *testing.T) {
	var p config.Presets
	cfg, err := p.Load()
	gt.NoError(t, err)
	gt.Equal(t, len(cfg.Presets), 0)
}
