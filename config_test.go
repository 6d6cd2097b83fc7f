// Config tests.
//
// These verify default application, the JSONC round-trip (comments and
// trailing commas included), atomic save, and the eligibility gate.
package cowolf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigAppliesThreshold(t *testing.T) {
	c := DefaultConfig()
	if c.ThresholdBytes != DefaultThresholdBytes {
		t.Errorf("ThresholdBytes = %d, want %d", c.ThresholdBytes, DefaultThresholdBytes)
	}
	if !c.COWEnabled || !c.COWOLFEnabled {
		t.Error("DefaultConfig should enable both cow and cowolf")
	}
}

// TestLoadConfigAcceptsJSONC verifies that comments and a trailing comma
// are accepted, since the config file is meant to be hand-edited.
func TestLoadConfigAcceptsJSONC(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cowolf.jsonc")
	content := `{
  // upper branch is always index 0
  "branches": [
    {"path": "/srv/upper"},
    {"path": "/srv/lower", "read_only": true},
  ],
  "cow_enabled": true,
  "cowolf_enabled": true,
  "threshold_bytes": 1048576,
}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(c.Branches) != 2 {
		t.Fatalf("Branches = %v, want 2 entries", c.Branches)
	}
	if c.Branches[0].Path != "/srv/upper" || c.Branches[0].ReadOnly {
		t.Errorf("upper branch = %+v", c.Branches[0])
	}
	if c.Branches[1].Path != "/srv/lower" || !c.Branches[1].ReadOnly {
		t.Errorf("lower branch = %+v", c.Branches[1])
	}
	if c.ThresholdBytes != 1048576 {
		t.Errorf("ThresholdBytes = %d, want 1048576", c.ThresholdBytes)
	}
}

// TestLoadConfigZeroThresholdGetsDefault verifies that an omitted
// threshold_bytes field falls back to DefaultThresholdBytes rather than
// zero (which would make every file eligible).
func TestLoadConfigZeroThresholdGetsDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cowolf.jsonc")
	if err := os.WriteFile(path, []byte(`{"cow_enabled": true, "cowolf_enabled": true}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.ThresholdBytes != DefaultThresholdBytes {
		t.Errorf("ThresholdBytes = %d, want default %d", c.ThresholdBytes, DefaultThresholdBytes)
	}
}

// TestSaveConfigThenLoadRoundTrips verifies SaveConfig/LoadConfig agree.
func TestSaveConfigThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cowolf.jsonc")

	want := Config{
		Branches: []Branch{
			{Path: "/srv/upper"},
			{Path: "/srv/lower", ReadOnly: true},
		},
		COWEnabled:     true,
		COWOLFEnabled:  true,
		ThresholdBytes: 2048,
	}
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.ThresholdBytes != want.ThresholdBytes || len(got.Branches) != len(want.Branches) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name string
		c    Config
		size int64
		want bool
	}{
		{"below threshold", Config{COWEnabled: true, COWOLFEnabled: true, ThresholdBytes: 1000}, 999, false},
		{"at threshold", Config{COWEnabled: true, COWOLFEnabled: true, ThresholdBytes: 1000}, 1000, true},
		{"cow disabled", Config{COWEnabled: false, COWOLFEnabled: true, ThresholdBytes: 1000}, 5000, false},
		{"cowolf disabled", Config{COWEnabled: true, COWOLFEnabled: false, ThresholdBytes: 1000}, 5000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Eligible(tt.size); got != tt.want {
				t.Errorf("Eligible(%d) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}

func TestUpperAndLowerBranches(t *testing.T) {
	c := Config{Branches: []Branch{{Path: "/up"}, {Path: "/low1"}, {Path: "/low2"}}}

	upper, ok := c.UpperBranch()
	if !ok || upper.Path != "/up" {
		t.Errorf("UpperBranch = %+v, %v", upper, ok)
	}

	lowers := c.LowerBranches()
	if len(lowers) != 2 || lowers[0].Path != "/low1" || lowers[1].Path != "/low2" {
		t.Errorf("LowerBranches = %+v", lowers)
	}
}

func TestUpperBranchEmptyConfig(t *testing.T) {
	var c Config
	if _, ok := c.UpperBranch(); ok {
		t.Error("UpperBranch on empty config should report ok=false")
	}
	if lowers := c.LowerBranches(); lowers != nil {
		t.Errorf("LowerBranches on empty config = %v, want nil", lowers)
	}
}
