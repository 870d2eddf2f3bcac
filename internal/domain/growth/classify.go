package growth

// Severity is the four level single-axis label.
type Severity string

const (
	SeveritySevere   Severity = "severely_malnourished"
	SeverityModerate Severity = "moderately_malnourished"
	SeverityMild     Severity = "mild_risk"
	SeverityNormal   Severity = "normal"
)

// WeightClass is the five level weight ordinal consumed by the advice rules.
type WeightClass int

const (
	WeightSeverelyThin WeightClass = iota
	WeightThin
	WeightNormal
	WeightOverweight
	WeightObese
)

var weightClassNames = [...]string{"severely_thin", "thin", "normal", "overweight", "obese"}

func (c WeightClass) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return weightClassNames[c]
}

// Valid reports whether c is one of the five defined classes.
func (c WeightClass) Valid() bool {
	return c >= WeightSeverelyThin && c <= WeightObese
}

// HeightClass is the three level height ordinal consumed by the advice rules.
type HeightClass int

const (
	HeightSeverelyShort HeightClass = iota
	HeightShort
	HeightNormal
)

var heightClassNames = [...]string{"severely_short", "short", "normal"}

func (c HeightClass) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return heightClassNames[c]
}

// Valid reports whether c is one of the three defined classes.
func (c HeightClass) Valid() bool {
	return c >= HeightSeverelyShort && c <= HeightNormal
}

// MUACBand is the acute malnutrition band read from arm circumference.
type MUACBand string

const (
	MUACNormal  MUACBand = "normal"
	MUACCaution MUACBand = "caution"
	MUACDanger  MUACBand = "danger"
)

const (
	severeZ   = -3.0
	moderateZ = -2.0
	mildZ     = -1.0
	overZ     = 2.0
	obeseZ    = 3.0

	// MUACCautionCm and MUACDangerCm are the raw centimetre cutoffs; a reading
	// strictly below a cutoff falls in its band.
	MUACCautionCm = 12.5
	MUACDangerCm  = 11.5
)

// ClassifySimple maps a z-score onto the four level scheme.
func ClassifySimple(z float64) Severity {
	switch {
	case z < severeZ:
		return SeveritySevere
	case z < moderateZ:
		return SeverityModerate
	case z < mildZ:
		return SeverityMild
	default:
		return SeverityNormal
	}
}

// ClassifyWeight maps a weight-for-age z-score onto the five level scheme.
func ClassifyWeight(z float64) WeightClass {
	switch {
	case z < severeZ:
		return WeightSeverelyThin
	case z < moderateZ:
		return WeightThin
	case z > obeseZ:
		return WeightObese
	case z > overZ:
		return WeightOverweight
	default:
		return WeightNormal
	}
}

// ClassifyHeight maps a height-for-age z-score onto the three lower bands.
func ClassifyHeight(z float64) HeightClass {
	switch {
	case z < severeZ:
		return HeightSeverelyShort
	case z < moderateZ:
		return HeightShort
	default:
		return HeightNormal
	}
}

// ClassifyMUAC bands a raw arm circumference in centimetres.
func ClassifyMUAC(muacCm float64) MUACBand {
	switch {
	case muacCm < MUACDangerCm:
		return MUACDanger
	case muacCm < MUACCautionCm:
		return MUACCaution
	default:
		return MUACNormal
	}
}

// SevereWasting reports whether a BMI-for-age z-score signals acute
// malnutrition on the weight/height axis.
func SevereWasting(bmiZ float64) bool {
	return bmiZ < severeZ
}
