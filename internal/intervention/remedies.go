package intervention

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/GuardianAI1/triaia/internal/plan"
	"github.com/GuardianAI1/triaia/internal/scoring"
)

//go:embed remedies.yaml
var embeddedRemedies string

// Remedy is one corrective option offered alongside a violation.
type Remedy struct {
	Title  string `yaml:"title"`
	Detail string `yaml:"detail"`
}

// Catalog maps an intervention action and regime to the remedies to present.
type Catalog struct {
	Actions       map[string]map[string][]Remedy `yaml:"actions"`
	ManualConfirm Remedy                         `yaml:"manual_confirm"`
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog parses the embedded catalog once and reuses it. The embedded
// YAML is validated by tests, so a parse failure here is a build defect and
// panics rather than being threaded through every caller.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := ParseCatalog([]byte(embeddedRemedies))
		if err != nil {
			panic(fmt.Sprintf("embedded remedy catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// ParseCatalog reads a remedy catalog from YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse remedy catalog: %w", err)
	}
	if len(c.Actions) == 0 {
		return nil, fmt.Errorf("remedy catalog defines no actions")
	}
	return &c, nil
}

// RemediesFor returns the remedies to present for the given action and
// regime. In manual structural mode a confirmation affordance is appended;
// the remedy arithmetic itself is identical in both modes.
func (c *Catalog) RemediesFor(action scoring.Intervention, regime plan.Regime, mode plan.StructuralMode) []Remedy {
	byRegime, ok := c.Actions[string(action)]
	if !ok {
		return nil
	}

	remedies := byRegime[string(regime)]
	if len(remedies) == 0 {
		remedies = byRegime["default"]
	}

	out := make([]Remedy, len(remedies))
	copy(out, remedies)

	if mode == plan.ModeManual && len(out) > 0 {
		out = append(out, c.ManualConfirm)
	}
	return out
}
