package growth

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
)

// SegmentBoundaryMonths is the last month served by the 0-24 segment.
const SegmentBoundaryMonths = 24

// ReferenceStore holds the WHO LMS tables. It is immutable after construction
// and safe for concurrent readers.
type ReferenceStore struct {
	tables      map[TableKey][]LMSRow
	fingerprint string
}

// NewReferenceStore copies, sorts and de-duplicates the given rows. When two
// rows share an age, the one appearing first in the input wins.
func NewReferenceStore(tables map[TableKey][]LMSRow) (*ReferenceStore, error) {
	store := &ReferenceStore{tables: make(map[TableKey][]LMSRow, len(tables))}
	for key, rows := range tables {
		normalized, err := normalizeRows(rows)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", key, err)
		}
		store.tables[key] = normalized
	}
	store.fingerprint = store.computeFingerprint()
	return store, nil
}

func normalizeRows(rows []LMSRow) ([]LMSRow, error) {
	sorted := make([]LMSRow, 0, len(rows))
	for _, row := range rows {
		if !isFinite(row.AgeMonths) || !isFinite(row.L) || !isFinite(row.M) || !isFinite(row.S) {
			return nil, fmt.Errorf("non-finite value at month %v", row.AgeMonths)
		}
		sorted = append(sorted, row)
	}
	if len(sorted) == 0 {
		return nil, ErrEmptyTable
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AgeMonths < sorted[j].AgeMonths
	})
	out := sorted[:1]
	for _, row := range sorted[1:] {
		if row.AgeMonths == out[len(out)-1].AgeMonths {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SelectTable routes a lookup to its table. Height and BMI tables are split
// at 24 months (inclusive on the infant side); weight-for-age is unsegmented.
func SelectTable(gender Gender, metric Metric, ageMonths float64) (TableKey, error) {
	switch metric {
	case MetricWeightForAge:
		return TableKey{Gender: gender, Metric: metric}, nil
	case MetricHeightForAge, MetricBMIForAge:
		segment := SegmentPreschool
		if ageMonths <= SegmentBoundaryMonths {
			segment = SegmentInfant
		}
		return TableKey{Gender: gender, Metric: metric, Segment: segment}, nil
	default:
		return TableKey{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
}

// LookupLMS returns the row nearest to ageMonths. Equidistant rows resolve to
// the lower age.
func (s *ReferenceStore) LookupLMS(key TableKey, ageMonths float64) (LMSRow, error) {
	rows, ok := s.tables[key]
	if !ok {
		return LMSRow{}, fmt.Errorf("%w: %s", ErrTableNotFound, key)
	}
	if len(rows) == 0 {
		return LMSRow{}, fmt.Errorf("%w: %s", ErrEmptyTable, key)
	}
	idx := sort.Search(len(rows), func(i int) bool {
		return rows[i].AgeMonths >= ageMonths
	})
	switch {
	case idx == 0:
		return rows[0], nil
	case idx == len(rows):
		return rows[len(rows)-1], nil
	}
	lower, upper := rows[idx-1], rows[idx]
	if upper.AgeMonths-ageMonths < ageMonths-lower.AgeMonths {
		return upper, nil
	}
	return lower, nil
}

// Has reports whether the store holds the table.
func (s *ReferenceStore) Has(key TableKey) bool {
	_, ok := s.tables[key]
	return ok
}

// Fingerprint is a stable digest of every row held by the store.
func (s *ReferenceStore) Fingerprint() string {
	return s.fingerprint
}

// Summaries lists the loaded tables ordered by name.
func (s *ReferenceStore) Summaries() []TableSummary {
	out := make([]TableSummary, 0, len(s.tables))
	for key, rows := range s.tables {
		out = append(out, TableSummary{
			Key:    key,
			Name:   key.String(),
			Rows:   len(rows),
			MinAge: rows[0].AgeMonths,
			MaxAge: rows[len(rows)-1].AgeMonths,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *ReferenceStore) computeFingerprint() string {
	names := make([]string, 0, len(s.tables))
	byName := make(map[string]TableKey, len(s.tables))
	for key := range s.tables {
		names = append(names, key.String())
		byName[key.String()] = key
	}
	sort.Strings(names)

	h := sha256.New()
	var buf [8]byte
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
		for _, row := range s.tables[byName[name]] {
			for _, v := range [...]float64{row.AgeMonths, row.L, row.M, row.S} {
				binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
				h.Write(buf[:])
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
