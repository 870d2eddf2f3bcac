package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yanqian/growth-monitor/internal/domain/advice"
	"github.com/yanqian/growth-monitor/internal/domain/growth"
	apperrors "github.com/yanqian/growth-monitor/pkg/errors"
)

const (
	defaultBatchConcurrency = 4
	defaultMaxBatchSize     = 500
)

// Service exposes the growth assessment engine.
type Service interface {
	Assess(ctx context.Context, p Profile) (Result, error)
	AssessBatch(ctx context.Context, profiles []Profile) ([]BatchItem, error)
	Advise(ctx context.Context, req AdviceRequest) (advice.Result, error)
	Reference(ctx context.Context) ReferenceInfo
}

type service struct {
	cfg    Config
	store  *growth.ReferenceStore
	cache  Cache
	logger *slog.Logger
}

// NewService wires up the assessment domain. The store must be fully loaded.
func NewService(cfg Config, store *growth.ReferenceStore, cache Cache, logger *slog.Logger) Service {
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = defaultBatchConcurrency
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = defaultMaxBatchSize
	}
	return &service{
		cfg:    cfg,
		store:  store,
		cache:  cache,
		logger: logger.With("component", "assessment.service"),
	}
}

type input struct {
	name      string
	gender    growth.Gender
	ageMonths int
	weightKg  float64
	heightCm  float64
	muacCm    *float64
}

func (s *service) Assess(ctx context.Context, p Profile) (Result, error) {
	in, err := parseProfile(p)
	if err != nil {
		return Result{}, err
	}

	key := ""
	if s.cache != nil {
		key = cacheKey(s.store.Fingerprint(), in)
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("assessment cache lookup failed", "code", apperrors.CodeOf(err), "error", err)
		} else if ok {
			s.logger.Debug("assessment cache hit", "key", key)
			return cached, nil
		}
	}

	res, err := s.assess(in)
	if err != nil {
		return Result{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, res, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("assessment cache store failed", "code", apperrors.CodeOf(err), "error", err)
		}
	}
	s.logger.Info("child assessed",
		"age_months", in.ageMonths,
		"gender", in.gender,
		"wfa_z", res.WeightForAge.ZScore,
		"hfa_z", res.HeightForAge.ZScore,
		"tier", res.Advice.Tier.String(),
	)
	return res, nil
}

func parseProfile(p Profile) (input, error) {
	if err := validateStruct(p); err != nil {
		return input{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid child profile", err)
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return input{}, apperrors.Wrap(apperrors.CodeInvalidInput, "name cannot be empty", nil)
	}
	gender, err := growth.ParseGender(p.Gender)
	if err != nil {
		return input{}, apperrors.Wrap(apperrors.CodeInvalidInput, "gender must be male or female", err)
	}
	in := input{
		name:      name,
		gender:    gender,
		ageMonths: *p.AgeMonths,
		weightKg:  p.WeightKg,
		heightCm:  p.HeightCm,
	}
	if p.MUACCm != nil {
		muac := *p.MUACCm
		in.muacCm = &muac
	}
	return in, nil
}

func (s *service) assess(in input) (Result, error) {
	age := float64(in.ageMonths)
	bmi := growth.BMI(in.weightKg, in.heightCm)

	wfa, err := s.axis(in.gender, growth.MetricWeightForAge, age, in.weightKg)
	if err != nil {
		return Result{}, err
	}
	hfa, err := s.axis(in.gender, growth.MetricHeightForAge, age, in.heightCm)
	if err != nil {
		return Result{}, err
	}
	bfa, err := s.axis(in.gender, growth.MetricBMIForAge, age, bmi)
	if err != nil {
		return Result{}, err
	}

	acute := growth.SevereWasting(bfa.ZScore)
	var muac *MUACResult
	if in.muacCm != nil {
		muac = &MUACResult{Cm: *in.muacCm, Band: growth.ClassifyMUAC(*in.muacCm)}
		if muac.Band == growth.MUACDanger {
			acute = true
		}
	}

	vector := advice.ClassificationVector{
		WeightClass: growth.ClassifyWeight(wfa.ZScore),
		HeightClass: growth.ClassifyHeight(hfa.ZScore),
		Acute:       acute,
	}

	return Result{
		Name:                 in.name,
		Gender:               in.gender,
		AgeMonths:            in.ageMonths,
		WeightKg:             in.weightKg,
		HeightCm:             in.heightCm,
		BMI:                  bmi,
		WeightForAge:         wfa,
		HeightForAge:         hfa,
		BMIForAge:            bfa,
		MUAC:                 muac,
		WeightClass:          vector.WeightClass,
		HeightClass:          vector.HeightClass,
		Classification:       vector,
		DailyCalorieNeedKcal: growth.CalorieNeed(in.ageMonths, in.weightKg, wfa.ZScore),
		Advice:               advice.Advise(in.ageMonths, vector),
	}, nil
}

func (s *service) axis(gender growth.Gender, metric growth.Metric, age, measured float64) (Axis, error) {
	key, err := growth.SelectTable(gender, metric, age)
	if err != nil {
		return Axis{}, apperrors.Wrap(apperrors.CodeLookup, "reference table selection failed", err)
	}
	lms, err := s.store.LookupLMS(key, age)
	if err != nil {
		return Axis{}, apperrors.Wrap(apperrors.CodeLookup, "reference lookup failed", err)
	}
	z, err := growth.ZScore(measured, lms)
	if err != nil {
		return Axis{}, apperrors.Wrap(apperrors.CodeLookup, fmt.Sprintf("reference row unusable in %s", key), err)
	}
	return Axis{
		Table:    key.String(),
		LMS:      lms,
		Measured: measured,
		ZScore:   z,
		Label:    growth.ClassifySimple(z),
	}, nil
}

func (s *service) AssessBatch(ctx context.Context, profiles []Profile) ([]BatchItem, error) {
	if len(profiles) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "batch cannot be empty", nil)
	}
	if len(profiles) > s.cfg.MaxBatchSize {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("batch exceeds %d children", s.cfg.MaxBatchSize), nil)
	}

	items := make([]BatchItem, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)
	for i, p := range profiles {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			id = uuid.NewString()
		}
		items[i].ID = id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Assess(gctx, p)
			if err != nil {
				items[i].Error = toItemError(err)
				return nil
			}
			items[i].Result = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, item := range items {
		if item.Error != nil {
			failed++
		}
	}
	s.logger.Info("batch assessed", "children", len(items), "failed", failed)
	return items, nil
}

func toItemError(err error) *ItemError {
	code := apperrors.CodeOf(err)
	if code == "" {
		code = "internal_error"
	}
	return &ItemError{Code: code, Message: err.Error()}
}

func (s *service) Advise(_ context.Context, req AdviceRequest) (advice.Result, error) {
	if err := req.Validate(); err != nil {
		return advice.Result{}, err
	}
	return advice.Advise(*req.AgeMonths, req.Vector()), nil
}

func (s *service) Reference(_ context.Context) ReferenceInfo {
	return ReferenceInfo{
		Fingerprint: s.store.Fingerprint(),
		Tables:      s.store.Summaries(),
	}
}
