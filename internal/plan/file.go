package plan

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// planFile is the on-disk YAML shape of a plan definition.
type planFile struct {
	Title     string     `yaml:"title"`
	Regime    string     `yaml:"regime"`
	Mode      string     `yaml:"mode"`
	Boundary  string     `yaml:"boundary"`
	Context   string     `yaml:"context"`
	Steps     []string   `yaml:"steps"`
	Documents []Document `yaml:"documents"`
}

// boundaryLayouts are the accepted boundary timestamp formats, tried in order.
var boundaryLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// LoadFile reads a plan definition from a YAML file. The returned plan has a
// fresh ID and is not yet activated.
func LoadFile(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Parse(data)
}

// Parse reads a plan definition from YAML bytes.
func Parse(data []byte) (Plan, error) {
	var f planFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Plan{}, fmt.Errorf("failed to parse plan file: %w", err)
	}

	regime, err := ParseRegime(f.Regime)
	if err != nil {
		return Plan{}, err
	}

	mode := ModeAutomatic
	if f.Mode != "" {
		mode, err = ParseMode(f.Mode)
		if err != nil {
			return Plan{}, err
		}
	}

	p := New(f.Title, regime, mode)
	p.ContextText = f.Context
	p.Steps = f.Steps
	p.Documents = f.Documents

	if f.Boundary != "" {
		boundary, err := parseBoundary(f.Boundary)
		if err != nil {
			return Plan{}, err
		}
		p.Boundary = boundary
	}

	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func parseBoundary(s string) (time.Time, error) {
	for _, layout := range boundaryLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid boundary timestamp: %q", s)
}
