package growth

import (
	"fmt"
	"strings"
)

// Gender is the canonical sex used to select reference tables.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts only the canonical tokens. Other spellings are a caller
// mapping concern.
func ParseGender(raw string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(raw))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("unrecognized gender %q", raw)
	}
}

// Metric identifies one LMS growth axis.
type Metric string

const (
	MetricWeightForAge Metric = "wfa"
	MetricHeightForAge Metric = "hfa"
	MetricBMIForAge    Metric = "bfa"
)

// Segment is the age span a table covers.
type Segment string

const (
	SegmentAll       Segment = ""
	SegmentInfant    Segment = "0_24"
	SegmentPreschool Segment = "24_60"
)

// TableKey identifies one reference table.
type TableKey struct {
	Gender  Gender  `json:"gender"`
	Metric  Metric  `json:"metric"`
	Segment Segment `json:"segment,omitempty"`
}

func (k TableKey) String() string {
	if k.Segment == SegmentAll {
		return fmt.Sprintf("%s_%s", k.Metric, k.Gender)
	}
	return fmt.Sprintf("%s_%s_%s", k.Metric, k.Gender, k.Segment)
}

// RequiredTables lists every table the engine needs to operate.
func RequiredTables() []TableKey {
	keys := make([]TableKey, 0, 10)
	for _, g := range []Gender{GenderMale, GenderFemale} {
		keys = append(keys, TableKey{Gender: g, Metric: MetricWeightForAge})
		for _, m := range []Metric{MetricHeightForAge, MetricBMIForAge} {
			keys = append(keys,
				TableKey{Gender: g, Metric: m, Segment: SegmentInfant},
				TableKey{Gender: g, Metric: m, Segment: SegmentPreschool},
			)
		}
	}
	return keys
}

// LMSRow is one age row of a WHO LMS table.
type LMSRow struct {
	AgeMonths float64 `json:"ageMonths"`
	L         float64 `json:"l"`
	M         float64 `json:"m"`
	S         float64 `json:"s"`
}

// TableSummary describes a loaded table.
type TableSummary struct {
	Key    TableKey `json:"key"`
	Name   string   `json:"name"`
	Rows   int      `json:"rows"`
	MinAge float64  `json:"minAge"`
	MaxAge float64  `json:"maxAge"`
}
