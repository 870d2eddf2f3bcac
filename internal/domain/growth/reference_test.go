package growth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var wfaFemale = TableKey{Gender: GenderFemale, Metric: MetricWeightForAge}

func TestLookupLMSExactAndNearest(t *testing.T) {
	store, err := NewReferenceStore(map[TableKey][]LMSRow{
		wfaFemale: {
			{AgeMonths: 25, L: 0.2, M: 12.0, S: 0.12},
			{AgeMonths: 20, L: 0.1, M: 10.0, S: 0.11},
			{AgeMonths: 23, L: 0.3, M: 11.0, S: 0.13},
		},
	})
	require.NoError(t, err)

	row, err := store.LookupLMS(wfaFemale, 23)
	require.NoError(t, err)
	require.Equal(t, 11.0, row.M)

	row, err = store.LookupLMS(wfaFemale, 24)
	require.NoError(t, err)
	require.Equal(t, 23.0, row.AgeMonths, "tie resolves toward the lower age")

	row, err = store.LookupLMS(wfaFemale, 24.6)
	require.NoError(t, err)
	require.Equal(t, 25.0, row.AgeMonths)

	row, err = store.LookupLMS(wfaFemale, 21)
	require.NoError(t, err)
	require.Equal(t, 20.0, row.AgeMonths)
}

func TestLookupLMSOutsideRangeClampsToEdges(t *testing.T) {
	store, err := NewReferenceStore(map[TableKey][]LMSRow{
		wfaFemale: {{AgeMonths: 0, L: 1, M: 3, S: 0.1}, {AgeMonths: 60, L: 1, M: 18, S: 0.1}},
	})
	require.NoError(t, err)

	row, err := store.LookupLMS(wfaFemale, -5)
	require.NoError(t, err)
	require.Equal(t, 0.0, row.AgeMonths)

	row, err = store.LookupLMS(wfaFemale, 75)
	require.NoError(t, err)
	require.Equal(t, 60.0, row.AgeMonths)
}

func TestLookupLMSMissingTable(t *testing.T) {
	store, err := NewReferenceStore(map[TableKey][]LMSRow{})
	require.NoError(t, err)

	_, err = store.LookupLMS(wfaFemale, 12)
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestNewReferenceStoreDuplicateAgesKeepFirst(t *testing.T) {
	store, err := NewReferenceStore(map[TableKey][]LMSRow{
		wfaFemale: {
			{AgeMonths: 24, L: 0.1, M: 11.5, S: 0.12},
			{AgeMonths: 24, L: 0.9, M: 99, S: 0.9},
			{AgeMonths: 12, L: 0.2, M: 9.0, S: 0.11},
		},
	})
	require.NoError(t, err)

	row, err := store.LookupLMS(wfaFemale, 24)
	require.NoError(t, err)
	require.Equal(t, 11.5, row.M)

	summaries := store.Summaries()
	require.Len(t, summaries, 1)
	require.Equal(t, 2, summaries[0].Rows)
	require.Equal(t, 12.0, summaries[0].MinAge)
	require.Equal(t, 24.0, summaries[0].MaxAge)
	require.Equal(t, "wfa_female", summaries[0].Name)
}

func TestNewReferenceStoreRejectsEmptyTable(t *testing.T) {
	_, err := NewReferenceStore(map[TableKey][]LMSRow{wfaFemale: nil})
	require.ErrorIs(t, err, ErrEmptyTable)
}

func TestNewReferenceStoreDoesNotAliasInput(t *testing.T) {
	rows := []LMSRow{{AgeMonths: 1, L: 1, M: 4, S: 0.1}}
	store, err := NewReferenceStore(map[TableKey][]LMSRow{wfaFemale: rows})
	require.NoError(t, err)

	rows[0].M = 100
	row, err := store.LookupLMS(wfaFemale, 1)
	require.NoError(t, err)
	require.Equal(t, 4.0, row.M)
}

func TestFingerprintStable(t *testing.T) {
	tables := map[TableKey][]LMSRow{
		wfaFemale: {{AgeMonths: 1, L: 1, M: 4, S: 0.1}},
		{Gender: GenderMale, Metric: MetricWeightForAge}: {{AgeMonths: 1, L: 1, M: 4.2, S: 0.1}},
	}
	a, err := NewReferenceStore(tables)
	require.NoError(t, err)
	b, err := NewReferenceStore(tables)
	require.NoError(t, err)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	tables[wfaFemale] = []LMSRow{{AgeMonths: 1, L: 1, M: 4.01, S: 0.1}}
	c, err := NewReferenceStore(tables)
	require.NoError(t, err)
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestSelectTable(t *testing.T) {
	cases := []struct {
		metric Metric
		age    float64
		want   TableKey
	}{
		{MetricWeightForAge, 50, TableKey{Gender: GenderMale, Metric: MetricWeightForAge}},
		{MetricHeightForAge, 24, TableKey{Gender: GenderMale, Metric: MetricHeightForAge, Segment: SegmentInfant}},
		{MetricHeightForAge, 25, TableKey{Gender: GenderMale, Metric: MetricHeightForAge, Segment: SegmentPreschool}},
		{MetricBMIForAge, 0, TableKey{Gender: GenderMale, Metric: MetricBMIForAge, Segment: SegmentInfant}},
		{MetricBMIForAge, 60, TableKey{Gender: GenderMale, Metric: MetricBMIForAge, Segment: SegmentPreschool}},
	}
	for _, tc := range cases {
		got, err := SelectTable(GenderMale, tc.metric, tc.age)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}

	_, err := SelectTable(GenderMale, Metric("wfh"), 10)
	require.ErrorIs(t, err, ErrUnknownMetric)
}

func TestRequiredTables(t *testing.T) {
	keys := RequiredTables()
	require.Len(t, keys, 10)
	names := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		names[key.String()] = struct{}{}
	}
	require.Contains(t, names, "wfa_male")
	require.Contains(t, names, "hfa_female_0_24")
	require.Contains(t, names, "bfa_male_24_60")
}

func TestParseGender(t *testing.T) {
	g, err := ParseGender(" Female ")
	require.NoError(t, err)
	require.Equal(t, GenderFemale, g)

	_, err = ParseGender("girls")
	require.Error(t, err)
}
