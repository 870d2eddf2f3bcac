package growth

type energyBand struct {
	maxAgeMonths int
	kcalPerKg    float64
}

// Upper bounds are inclusive.
var energyBands = []energyBand{
	{maxAgeMonths: 3, kcalPerKg: 115},
	{maxAgeMonths: 6, kcalPerKg: 110},
	{maxAgeMonths: 12, kcalPerKg: 100},
	{maxAgeMonths: 36, kcalPerKg: 102},
	{maxAgeMonths: 60, kcalPerKg: 94},
}

const olderKcalPerKg = 70

// EnergyFactor returns the baseline kcal per kg per day for an age.
func EnergyFactor(ageMonths int) float64 {
	for _, band := range energyBands {
		if ageMonths <= band.maxAgeMonths {
			return band.kcalPerKg
		}
	}
	return olderKcalPerKg
}

// CatchUpMultiplier scales energy by weight-for-age severity only.
func CatchUpMultiplier(weightZ float64) float64 {
	switch {
	case weightZ < severeZ:
		return 1.40
	case weightZ < moderateZ:
		return 1.20
	default:
		return 1.00
	}
}

// CalorieNeed is the daily kcal requirement including catch-up growth.
func CalorieNeed(ageMonths int, weightKg, weightZ float64) float64 {
	return EnergyFactor(ageMonths) * weightKg * CatchUpMultiplier(weightZ)
}
