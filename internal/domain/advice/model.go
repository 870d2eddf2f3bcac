package advice

import (
	"fmt"

	"github.com/yanqian/growth-monitor/internal/domain/growth"
)

// ClassificationVector is the minimal input of the rule engine. It may come
// from the z-score classifier or from an external predictive model.
type ClassificationVector struct {
	WeightClass growth.WeightClass `json:"weightClass"`
	HeightClass growth.HeightClass `json:"heightClass"`
	Acute       bool               `json:"acute"`
}

// Validate rejects ordinals outside the defined classes.
func (v ClassificationVector) Validate() error {
	if !v.WeightClass.Valid() {
		return fmt.Errorf("weightClass %d out of range 0-4", v.WeightClass)
	}
	if !v.HeightClass.Valid() {
		return fmt.Errorf("heightClass %d out of range 0-2", v.HeightClass)
	}
	return nil
}

// Tier orders advice severity.
type Tier int

const (
	TierNormal Tier = iota
	TierMildRisk
	TierWarning
	TierCritical
)

var tierNames = [...]string{"normal", "mild_risk", "warning", "critical"}

func (t Tier) String() string {
	if t < TierNormal || t > TierCritical {
		return "unknown"
	}
	return tierNames[t]
}

// MarshalText renders the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a tier name.
func (t *Tier) UnmarshalText(text []byte) error {
	for i, name := range tierNames {
		if name == string(text) {
			*t = Tier(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", text)
}

// Branch names the decision-table row that produced a result.
type Branch string

const (
	BranchAcute          Branch = "acute"
	BranchUndernutrition Branch = "undernutrition"
	BranchOverweight     Branch = "overweight"
	BranchNormal         Branch = "normal"
)

// MenuItem is a food suggestion tagged for filtering.
type MenuItem struct {
	Name     string
	FatDense bool
}

// Result is produced fresh per call.
type Result struct {
	Status string   `json:"status"`
	Tier   Tier     `json:"tier"`
	Branch Branch   `json:"branch"`
	Tips   []string `json:"tips"`
	Menu   []string `json:"menu"`
}
