package advice

var (
	infantMenu = []MenuItem{
		{Name: "Exclusive breastfeeding on demand, at least 8 feeds a day"},
	}
	complementaryMenu = []MenuItem{
		{Name: "Rice porridge with mashed egg yolk and spinach"},
		{Name: "Minced chicken and tofu porridge"},
		{Name: "Pumpkin puree cooked in coconut milk", FatDense: true},
		{Name: "Mashed banana or papaya"},
	}
	familyMenu = []MenuItem{
		{Name: "Rice with steamed fish, tempeh and stir-fried vegetables"},
		{Name: "Chicken curry in coconut milk with rice", FatDense: true},
		{Name: "Vegetable omelette with soft rice"},
		{Name: "Fresh fruit slices"},
	}

	weightGainMenu = []MenuItem{
		{Name: "Extra snack: avocado blended with milk", FatDense: true},
		{Name: "Extra snack: boiled egg or fish balls"},
	}
	linearGrowthMenu = []MenuItem{
		{Name: "Daily milk, yogurt or cheese serving"},
		{Name: "Anchovies or small fish eaten with bones"},
	}
)

// baseMenu picks the age-banded suggestions: exclusive breastfeeding below 6
// months, complementary soft foods from 6 to 12 months, family food above 12.
func baseMenu(ageMonths int) []MenuItem {
	switch {
	case ageMonths < 6:
		return infantMenu
	case ageMonths <= 12:
		return complementaryMenu
	default:
		return familyMenu
	}
}

func menuNames(items []MenuItem, dropFatDense bool) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if dropFatDense && item.FatDense {
			continue
		}
		out = append(out, item.Name)
	}
	return out
}
