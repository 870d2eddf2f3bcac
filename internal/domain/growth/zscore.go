package growth

import "math"

// ZScore applies the WHO LMS transform. L == 0 selects the log-normal form.
func ZScore(measured float64, lms LMSRow) (float64, error) {
	if !(measured > 0) || !(lms.M > 0) || !(lms.S > 0) {
		return 0, ErrInvalidMeasurement
	}
	if lms.L == 0 {
		return math.Log(measured/lms.M) / lms.S, nil
	}
	return (math.Pow(measured/lms.M, lms.L) - 1) / (lms.L * lms.S), nil
}

// BMI returns body mass index from kilograms and centimetres.
func BMI(weightKg, heightCm float64) float64 {
	meters := heightCm / 100
	return weightKg / (meters * meters)
}
