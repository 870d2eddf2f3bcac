package reference

import (
	"fmt"

	"github.com/yanqian/growth-monitor/internal/domain/growth"
)

// File naming follows the WHO download convention (boys/girls, 0_2/2_5);
// the mapping to canonical keys lives only here.
var (
	genderStems = map[growth.Gender]string{
		growth.GenderMale:   "boys",
		growth.GenderFemale: "girls",
	}
	segmentStems = map[growth.Segment]string{
		growth.SegmentInfant:    "0_2",
		growth.SegmentPreschool: "2_5",
	}
)

// Stem returns the file stem for a table, e.g. "hfa_girls_0_2".
func Stem(key growth.TableKey) string {
	stem := fmt.Sprintf("%s_%s", key.Metric, genderStems[key.Gender])
	if seg, ok := segmentStems[key.Segment]; ok {
		stem += "_" + seg
	}
	return stem
}
