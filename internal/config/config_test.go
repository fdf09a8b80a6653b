package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/demandlab/price-optimizer/internal/pricing"
	"github.com/demandlab/price-optimizer/pkg/constants"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	conf, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}

	if conf.Server.Address != constants.DefaultServerAddress {
		t.Errorf("Address = %q, want %q", conf.Server.Address, constants.DefaultServerAddress)
	}
	if conf.Server.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Errorf("BodySizeBytes = %d, want %d", conf.Server.BodySizeBytes(), constants.DefaultMaxBodySizeBytes)
	}
	if conf.Model != nil {
		t.Error("expected no model parameters by default")
	}
}

func TestLoadConfigurationMissingFileYieldsDefaults(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	if conf.Server.Address != constants.DefaultServerAddress {
		t.Errorf("Address = %q, want %q", conf.Server.Address, constants.DefaultServerAddress)
	}
}

func TestLoadConfigurationFromFile(t *testing.T) {
	content := `server:
  address: ":9090"
  maxBodySize: 1M
  allowedOrigins:
    - http://127.0.0.1:8000
    - http://localhost:8000
logging:
  level: debug
  format: console
output:
  format: csv
model:
  alpha: 1000
  beta: 2
  c: 50
  f: 2000
  pmin: 0
  pmax: 1000
observations:
  - price: 180
    quantity: 220
  - price: 200
    quantity: 190
`

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}

	if conf.Server.Address != ":9090" {
		t.Errorf("Address = %q, want :9090", conf.Server.Address)
	}
	if conf.Server.BodySizeBytes() != 1024*1024 {
		t.Errorf("BodySizeBytes = %d, want %d", conf.Server.BodySizeBytes(), 1024*1024)
	}
	if len(conf.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 entries", conf.Server.AllowedOrigins)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want debug/console", conf.Logging)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("Output.Format = %q, want csv", conf.Output.Format)
	}

	if conf.Model == nil {
		t.Fatal("expected model parameters")
	}
	if conf.Model.Alpha != 1000 || conf.Model.Beta != 2 || conf.Model.C != 50 ||
		conf.Model.F != 2000 || conf.Model.PMin != 0 || conf.Model.PMax != 1000 {
		t.Errorf("Model = %+v, want the configured parameters", conf.Model)
	}

	if len(conf.Observations) != 2 {
		t.Fatalf("Observations = %v, want 2 entries", conf.Observations)
	}
	if conf.Observations[0].Price != 180 || conf.Observations[0].Quantity != 220 {
		t.Errorf("Observations[0] = %+v, want {180 220}", conf.Observations[0])
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  int64
		expectErr bool
	}{
		{
			name:     "Plain bytes",
			value:    "512",
			expected: 512,
		},
		{
			name:     "Kilobytes",
			value:    "256K",
			expected: 256 * 1024,
		},
		{
			name:     "Megabytes with suffix",
			value:    "10MB",
			expected: 10 * 1024 * 1024,
		},
		{
			name:     "Gigabytes",
			value:    "1G",
			expected: 1024 * 1024 * 1024,
		},
		{
			name:     "Empty falls back to default",
			value:    "",
			expected: constants.DefaultMaxBodySizeBytes,
		},
		{
			name:      "Garbage",
			value:     "abc",
			expectErr: true,
		},
		{
			name:      "Unsupported unit",
			value:     "10T",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.value)
			if tt.expectErr {
				if err == nil {
					t.Errorf("ParseSize(%q) succeeded, want error", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) failed: %v", tt.value, err)
			}
			if got != tt.expected {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.value, got, tt.expected)
			}
		})
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	conf := Default()
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings for defaults, got %v", warnings)
	}

	conf.Model = &pricing.Parameters{
		Alpha: 0,
		Beta:  0,
		PMin:  50,
		PMax:  0,
	}
	conf.Observations = []pricing.Observation{{Price: 100, Quantity: 5}}

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 5 {
		t.Fatalf("expected 5 warnings, got %d: %v", len(warnings), warnings)
	}
	for _, fragment := range []string{"alpha", "pMax is 0", "beta", "pMin exceeds", "single observation"} {
		found := false
		for _, warning := range warnings {
			if strings.Contains(warning, fragment) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no warning mentioning %q in %v", fragment, warnings)
		}
	}
}
