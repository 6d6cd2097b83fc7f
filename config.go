// Branch configuration.
//
// Branch roots, the eligibility threshold, and the cowolf/cow feature
// toggles are not a process-global singleton: they live in a Config value
// threaded explicitly into every
// facade call. The on-disk form is JSONC (JSON with comments and trailing
// commas, via tailscale/hujson) so an operator can hand-edit it, decoded
// with goccy/go-json for speed and written back atomically with
// natefinch/atomic so a crash mid-save never leaves a torn config file.
package cowolf

import (
	"bytes"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Branch is one layer of the union: a filesystem root plus whether it is
// the writable upper branch or a read-only lower branch.
type Branch struct {
	Path     string `json:"path"`
	ReadOnly bool   `json:"read_only,omitempty"`
}

// Config holds the settings that govern cowolf eligibility and behavior
// across a branch set. The zero value is invalid; use DefaultConfig or
// LoadConfig, both of which apply defaults to zero-valued fields.
type Config struct {
	Branches      []Branch `json:"branches"`
	COWEnabled    bool     `json:"cow_enabled"`
	COWOLFEnabled bool     `json:"cowolf_enabled"`
	ThresholdBytes int64   `json:"threshold_bytes,omitempty"`
}

// DefaultThresholdBytes is the file size at or above which a copied file
// becomes eligible for cowolf instead of a full upper-branch copy.
const DefaultThresholdBytes = 16 * 1024 * 1024

// applyDefaults fills zero-valued fields with their defaults.
func applyDefaults(c Config) Config {
	if c.ThresholdBytes == 0 {
		c.ThresholdBytes = DefaultThresholdBytes
	}
	return c
}

// DefaultConfig returns a Config with cow and cowolf both enabled and the
// default threshold, and no configured branches.
func DefaultConfig() Config {
	return applyDefaults(Config{COWEnabled: true, COWOLFEnabled: true})
}

// LoadConfig reads and decodes a JSONC config file at path. Comments and
// trailing commas are accepted; hujson.Standardize strips them before the
// strict JSON decode.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cowolf: read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("cowolf: parse config %s: %w", path, err)
	}

	var c Config
	if err := json.Unmarshal(standardized, &c); err != nil {
		return Config{}, fmt.Errorf("cowolf: decode config %s: %w", path, err)
	}

	return applyDefaults(c), nil
}

// SaveConfig writes c to path as indented JSON, atomically: the new
// content lands in a temp file in the same directory and is renamed over
// path, so a reader never observes a partially-written config.
func SaveConfig(path string, c Config) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("cowolf: encode config: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("cowolf: write config %s: %w", path, err)
	}
	return nil
}

// Eligible reports whether a file of the given size qualifies for cowolf
// handling rather than a full upper-branch copy: both feature toggles
// must be on and the size must meet the threshold.
func (c Config) Eligible(fileSize int64) bool {
	if !c.COWEnabled || !c.COWOLFEnabled {
		return false
	}
	return fileSize >= c.ThresholdBytes
}

// UpperBranch returns the writable branch, which by convention is
// Branches[0]. ok is false if no branches are configured.
func (c Config) UpperBranch() (Branch, bool) {
	if len(c.Branches) == 0 {
		return Branch{}, false
	}
	return c.Branches[0], true
}

// LowerBranches returns every branch after the first, in priority order.
func (c Config) LowerBranches() []Branch {
	if len(c.Branches) < 2 {
		return nil
	}
	return c.Branches[1:]
}
