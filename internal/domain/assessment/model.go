package assessment

import (
	"time"

	"github.com/yanqian/growth-monitor/internal/domain/advice"
	"github.com/yanqian/growth-monitor/internal/domain/growth"
	apperrors "github.com/yanqian/growth-monitor/pkg/errors"
)

// Profile is the raw child measurement accepted by Assess.
type Profile struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name" validate:"required"`
	Gender    string   `json:"gender" validate:"required"`
	AgeMonths *int     `json:"ageMonths" validate:"required,min=0,max=60"`
	WeightKg  float64  `json:"weightKg" validate:"gt=0"`
	HeightCm  float64  `json:"heightCm" validate:"gt=0"`
	MUACCm    *float64 `json:"muacCm,omitempty" validate:"omitempty,gt=0"`
}

// Axis holds one LMS axis of an assessment.
type Axis struct {
	Table    string          `json:"table"`
	LMS      growth.LMSRow   `json:"lms"`
	Measured float64         `json:"measured"`
	ZScore   float64         `json:"zScore"`
	Label    growth.Severity `json:"label"`
}

// MUACResult reports the arm circumference band when a reading was supplied.
type MUACResult struct {
	Cm   float64         `json:"cm"`
	Band growth.MUACBand `json:"band"`
}

// Result is the full assessment of one child.
type Result struct {
	Name                 string                      `json:"name"`
	Gender               growth.Gender               `json:"gender"`
	AgeMonths            int                         `json:"ageMonths"`
	WeightKg             float64                     `json:"weightKg"`
	HeightCm             float64                     `json:"heightCm"`
	BMI                  float64                     `json:"bmi"`
	WeightForAge         Axis                        `json:"weightForAge"`
	HeightForAge         Axis                        `json:"heightForAge"`
	BMIForAge            Axis                        `json:"bmiForAge"`
	MUAC                 *MUACResult                 `json:"muac,omitempty"`
	WeightClass          growth.WeightClass          `json:"weightClass"`
	HeightClass          growth.HeightClass          `json:"heightClass"`
	Classification       advice.ClassificationVector `json:"classification"`
	DailyCalorieNeedKcal float64                     `json:"dailyCalorieNeedKcal"`
	Advice               advice.Result               `json:"advice"`
}

// AdviceRequest feeds the rule engine directly, typically from an external
// predictive classifier. Every field is required; an absent class must not
// read as ordinal 0.
type AdviceRequest struct {
	AgeMonths   *int  `json:"ageMonths" validate:"required,min=0,max=60"`
	WeightClass *int  `json:"weightClass" validate:"required,min=0,max=4"`
	HeightClass *int  `json:"heightClass" validate:"required,min=0,max=2"`
	Acute       *bool `json:"acute" validate:"required"`
}

// Validate reports missing or out-of-range fields as CodeInvalidInput.
func (r AdviceRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid advice request", err)
	}
	if err := r.Vector().Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid classification vector", err)
	}
	return nil
}

// Vector converts a validated request into the rule engine input.
func (r AdviceRequest) Vector() advice.ClassificationVector {
	return advice.ClassificationVector{
		WeightClass: growth.WeightClass(*r.WeightClass),
		HeightClass: growth.HeightClass(*r.HeightClass),
		Acute:       *r.Acute,
	}
}

// BatchItem pairs one batch input with its outcome.
type BatchItem struct {
	ID     string     `json:"id"`
	Result *Result    `json:"result,omitempty"`
	Error  *ItemError `json:"error,omitempty"`
}

// ItemError is the structured failure of a single batch item.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReferenceInfo describes the loaded reference data.
type ReferenceInfo struct {
	Fingerprint string                `json:"fingerprint"`
	Tables      []growth.TableSummary `json:"tables"`
}

// Config holds runtime knobs for the assessment service.
type Config struct {
	CacheTTL         time.Duration
	BatchConcurrency int
	MaxBatchSize     int
}
