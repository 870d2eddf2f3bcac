package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/growth-monitor/internal/domain/advice"
	"github.com/yanqian/growth-monitor/internal/domain/growth"
	apperrors "github.com/yanqian/growth-monitor/pkg/errors"
)

func key(g growth.Gender, m growth.Metric, seg growth.Segment) growth.TableKey {
	return growth.TableKey{Gender: g, Metric: m, Segment: seg}
}

// syntheticTables covers every required table with two rows per segment.
// The 24_60 segments carry a distinct month 24 row so routing is observable.
func syntheticTables() map[growth.TableKey][]growth.LMSRow {
	tables := make(map[growth.TableKey][]growth.LMSRow)
	for _, g := range []growth.Gender{growth.GenderMale, growth.GenderFemale} {
		tables[key(g, growth.MetricWeightForAge, growth.SegmentAll)] = []growth.LMSRow{
			{AgeMonths: 12, L: 0.2, M: 9.0, S: 0.12},
			{AgeMonths: 24, L: 0.1, M: 11.5, S: 0.12},
			{AgeMonths: 36, L: 0, M: 13.9, S: 0.13},
		}
		tables[key(g, growth.MetricHeightForAge, growth.SegmentInfant)] = []growth.LMSRow{
			{AgeMonths: 12, L: 1, M: 74.0, S: 0.036},
			{AgeMonths: 24, L: 1, M: 85.7, S: 0.037},
		}
		tables[key(g, growth.MetricHeightForAge, growth.SegmentPreschool)] = []growth.LMSRow{
			{AgeMonths: 24, L: 1, M: 84.9, S: 0.038},
			{AgeMonths: 36, L: 1, M: 95.1, S: 0.039},
		}
		tables[key(g, growth.MetricBMIForAge, growth.SegmentInfant)] = []growth.LMSRow{
			{AgeMonths: 12, L: -0.5, M: 16.6, S: 0.083},
			{AgeMonths: 24, L: -0.6, M: 16.0, S: 0.085},
		}
		tables[key(g, growth.MetricBMIForAge, growth.SegmentPreschool)] = []growth.LMSRow{
			{AgeMonths: 24, L: -0.7, M: 16.2, S: 0.081},
			{AgeMonths: 36, L: -0.8, M: 15.7, S: 0.080},
		}
	}
	return tables
}

func newTestService(t *testing.T, cache Cache) *service {
	t.Helper()
	store, err := growth.NewReferenceStore(syntheticTables())
	require.NoError(t, err)
	return NewService(Config{CacheTTL: time.Minute, BatchConcurrency: 3, MaxBatchSize: 10}, store, cache, newTestLogger()).(*service)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func lmsZ(measured float64, row growth.LMSRow) float64 {
	if row.L == 0 {
		return math.Log(measured/row.M) / row.S
	}
	return (math.Pow(measured/row.M, row.L) - 1) / (row.L * row.S)
}

func TestAssessEndToEndFemale24Months(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Assess(context.Background(), Profile{
		Name:      "Sari",
		Gender:    "female",
		AgeMonths: intPtr(24),
		WeightKg:  8.0,
		HeightCm:  78,
	})
	require.NoError(t, err)

	require.InDelta(t, 13.15, res.BMI, 0.005)
	require.Equal(t, "wfa_female", res.WeightForAge.Table)
	require.Equal(t, "hfa_female_0_24", res.HeightForAge.Table)
	require.Equal(t, "bfa_female_0_24", res.BMIForAge.Table)

	wantWFA := lmsZ(8.0, growth.LMSRow{L: 0.1, M: 11.5, S: 0.12})
	wantHFA := lmsZ(78, growth.LMSRow{L: 1, M: 85.7, S: 0.037})
	wantBFA := lmsZ(res.BMI, growth.LMSRow{L: -0.6, M: 16.0, S: 0.085})
	require.InDelta(t, wantWFA, res.WeightForAge.ZScore, 1e-12)
	require.InDelta(t, wantHFA, res.HeightForAge.ZScore, 1e-12)
	require.InDelta(t, wantBFA, res.BMIForAge.ZScore, 1e-12)

	require.Equal(t, growth.WeightThin, res.WeightClass)
	require.Equal(t, growth.HeightShort, res.HeightClass)
	require.Equal(t, growth.SeverityModerate, res.WeightForAge.Label)
	require.False(t, res.Classification.Acute)
	require.Nil(t, res.MUAC)

	require.InDelta(t, 102*8.0*1.20, res.DailyCalorieNeedKcal, 1e-9)
	require.Equal(t, advice.BranchUndernutrition, res.Advice.Branch)
	require.Equal(t, "Nutrition risk: underweight and stunted", res.Advice.Status)
}

func TestAssessPreschoolSegmentAfter24Months(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Assess(context.Background(), Profile{
		Name: "Budi", Gender: "male", AgeMonths: intPtr(25), WeightKg: 12, HeightCm: 86,
	})
	require.NoError(t, err)
	require.Equal(t, "hfa_male_24_60", res.HeightForAge.Table)
	require.Equal(t, 24.0, res.HeightForAge.LMS.AgeMonths)
	require.Equal(t, 84.9, res.HeightForAge.LMS.M)
}

func TestAssessMUACDangerRaisesAcute(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Assess(context.Background(), Profile{
		Name: "Ayu", Gender: "female", AgeMonths: intPtr(24), WeightKg: 11.5, HeightCm: 85.7, MUACCm: floatPtr(11.2),
	})
	require.NoError(t, err)
	require.NotNil(t, res.MUAC)
	require.Equal(t, growth.MUACDanger, res.MUAC.Band)
	require.True(t, res.Classification.Acute)
	require.Equal(t, advice.TierCritical, res.Advice.Tier)
	require.Equal(t, 1.0, growth.CatchUpMultiplier(res.WeightForAge.ZScore), "calorie multiplier follows weight-for-age only")
}

func TestAssessMUACCautionDoesNotRaiseAcute(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Assess(context.Background(), Profile{
		Name: "Ayu", Gender: "female", AgeMonths: intPtr(24), WeightKg: 11.5, HeightCm: 85.7, MUACCm: floatPtr(12.0),
	})
	require.NoError(t, err)
	require.Equal(t, growth.MUACCaution, res.MUAC.Band)
	require.False(t, res.Classification.Acute)
	require.Equal(t, advice.BranchNormal, res.Advice.Branch)
}

func TestAssessValidation(t *testing.T) {
	svc := newTestService(t, nil)
	valid := func() Profile {
		return Profile{Name: "Rina", Gender: "female", AgeMonths: intPtr(12), WeightKg: 9, HeightCm: 74}
	}

	cases := []struct {
		name   string
		mutate func(p *Profile)
		msg    string
	}{
		{name: "age above range", mutate: func(p *Profile) { p.AgeMonths = intPtr(61) }, msg: "ageMonths must be at most 60"},
		{name: "negative age", mutate: func(p *Profile) { p.AgeMonths = intPtr(-1) }, msg: "ageMonths must be at least 0"},
		{name: "missing age", mutate: func(p *Profile) { p.AgeMonths = nil }, msg: "ageMonths is required"},
		{name: "zero weight", mutate: func(p *Profile) { p.WeightKg = 0 }, msg: "weightKg must be greater than 0"},
		{name: "negative height", mutate: func(p *Profile) { p.HeightCm = -70 }, msg: "heightCm must be greater than 0"},
		{name: "zero muac", mutate: func(p *Profile) { p.MUACCm = floatPtr(0) }, msg: "muacCm must be greater than 0"},
		{name: "blank name", mutate: func(p *Profile) { p.Name = "   " }, msg: "name cannot be empty"},
		{name: "localized gender", mutate: func(p *Profile) { p.Gender = "Perempuan" }, msg: "gender must be male or female"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid()
			tc.mutate(&p)
			_, err := svc.Assess(context.Background(), p)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
			require.Contains(t, err.Error(), tc.msg)
		})
	}

	_, err := svc.Assess(context.Background(), valid())
	require.NoError(t, err)
}

func TestAssessAgeZeroIsValid(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Assess(context.Background(), Profile{Name: "Bayi", Gender: "male", AgeMonths: intPtr(0), WeightKg: 3.3, HeightCm: 50})
	require.NoError(t, err)
}

func TestAssessLookupErrorIsDistinct(t *testing.T) {
	tables := syntheticTables()
	delete(tables, key(growth.GenderMale, growth.MetricBMIForAge, growth.SegmentInfant))
	store, err := growth.NewReferenceStore(tables)
	require.NoError(t, err)
	svc := NewService(Config{}, store, nil, newTestLogger())

	_, err = svc.Assess(context.Background(), Profile{Name: "Dodi", Gender: "male", AgeMonths: intPtr(12), WeightKg: 9, HeightCm: 74})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLookup))
	require.False(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.ErrorIs(t, err, growth.ErrTableNotFound)
}

func TestAssessIdempotent(t *testing.T) {
	svc := newTestService(t, nil)
	p := Profile{Name: "Sari", Gender: "female", AgeMonths: intPtr(24), WeightKg: 8.0, HeightCm: 78, MUACCm: floatPtr(12.1)}

	first, err := svc.Assess(context.Background(), p)
	require.NoError(t, err)
	second, err := svc.Assess(context.Background(), p)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("assessment drifted (-first +second):\n%s", diff)
	}
}

func TestAssessUsesCache(t *testing.T) {
	cache := newStubCache()
	svc := newTestService(t, cache)
	p := Profile{Name: "Sari", Gender: "female", AgeMonths: intPtr(24), WeightKg: 8.0, HeightCm: 78}

	first, err := svc.Assess(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)
	require.Equal(t, time.Minute, cache.lastTTL)

	second, err := svc.Assess(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)
	require.Equal(t, 1, cache.hits)
	require.Equal(t, first, second)
}

func TestAssessCacheFailureIsBypassed(t *testing.T) {
	cache := newStubCache()
	cache.err = errors.New("connection refused")
	svc := newTestService(t, cache)

	res, err := svc.Assess(context.Background(), Profile{Name: "Sari", Gender: "female", AgeMonths: intPtr(24), WeightKg: 8.0, HeightCm: 78})
	require.NoError(t, err)
	require.Equal(t, "Sari", res.Name)
}

func TestCacheKeyChangesWithFingerprint(t *testing.T) {
	in := input{name: "A", gender: growth.GenderMale, ageMonths: 10, weightKg: 8, heightCm: 70}
	require.Equal(t, cacheKey("f1", in), cacheKey("f1", in))
	require.NotEqual(t, cacheKey("f1", in), cacheKey("f2", in))

	withMUAC := in
	withMUAC.muacCm = floatPtr(13)
	require.NotEqual(t, cacheKey("f1", in), cacheKey("f1", withMUAC))
}

func boolPtr(v bool) *bool { return &v }

func TestAdviseExternalVector(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Advise(context.Background(), AdviceRequest{
		AgeMonths:   intPtr(30),
		WeightClass: intPtr(int(growth.WeightObese)),
		HeightClass: intPtr(int(growth.HeightNormal)),
		Acute:       boolPtr(true),
	})
	require.NoError(t, err)
	require.Equal(t, advice.TierCritical, res.Tier)

	_, err = svc.Advise(context.Background(), AdviceRequest{
		AgeMonths:   intPtr(30),
		WeightClass: intPtr(7),
		HeightClass: intPtr(0),
		Acute:       boolPtr(false),
	})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Advise(context.Background(), AdviceRequest{
		WeightClass: intPtr(int(growth.WeightNormal)),
		HeightClass: intPtr(int(growth.HeightNormal)),
		Acute:       boolPtr(false),
	})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestAdviseRejectsMissingClasses(t *testing.T) {
	svc := newTestService(t, nil)

	var req AdviceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"ageMonths":24}`), &req))

	_, err := svc.Advise(context.Background(), req)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Contains(t, err.Error(), "weightClass is required")
	require.Contains(t, err.Error(), "heightClass is required")
}

func TestAdviseAcceptsZeroOrdinals(t *testing.T) {
	svc := newTestService(t, nil)

	var req AdviceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"ageMonths":24,"weightClass":0,"heightClass":0,"acute":false}`), &req))

	res, err := svc.Advise(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, growth.WeightSeverelyThin, req.Vector().WeightClass)
	require.NotEqual(t, advice.TierNormal, res.Tier)
}

func TestReferenceInfo(t *testing.T) {
	svc := newTestService(t, nil)
	info := svc.Reference(context.Background())
	require.Len(t, info.Tables, 10)
	require.NotEmpty(t, info.Fingerprint)
	require.Equal(t, "bfa_female_0_24", info.Tables[0].Name)
}

type stubCache struct {
	mu      sync.Mutex
	entries map[string]Result
	err     error
	hits    int
	sets    int
	lastTTL time.Duration
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]Result)}
}

func (c *stubCache) Get(_ context.Context, key string) (Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return Result{}, false, c.err
	}
	res, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return res, ok, nil
}

func (c *stubCache) Set(_ context.Context, key string, res Result, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[key] = res
	c.sets++
	c.lastTTL = ttl
	return nil
}
