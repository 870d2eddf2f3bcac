package advice

import (
	"strings"

	"github.com/yanqian/growth-monitor/internal/domain/growth"
)

var (
	acuteTips = []string{
		"Refer the child to the nearest health facility today for treatment of acute malnutrition.",
		"Therapeutic feeding must be supervised by health workers; home feeding alone is not enough.",
		"Keep offering breast milk or small frequent feeds while the referral is arranged.",
	}
	underweightTips = []string{
		"Boost calorie density: add a teaspoon of vegetable oil, butter or coconut oil to each meal.",
		"Double the animal protein portion (egg, fish, chicken, meat) in every main meal.",
		"Offer two to three nutrient dense snacks between meals.",
	}
	stuntingTips = []string{
		"Give calcium rich foods every day such as milk, yogurt, cheese or small fish with bones.",
		"Add zinc sources such as red meat, liver, shellfish or legumes.",
		"Make sure the child sleeps 11 to 14 hours a day.",
	}
	overweightTips = []string{
		"Cut sugary drinks, sweets and added sugar.",
		"Increase active play to at least an hour every day and limit screen time.",
		"Serve fruit and vegetables instead of fried or fatty snacks.",
	}
	maintenanceTips = []string{
		"Keep a balanced plate of staple food, animal and plant protein, vegetables and fruit.",
		"Keep up regular sleep and daily play.",
		"Continue monthly weight and height monitoring.",
	}
)

const (
	statusAcute      = "Critical: acute malnutrition"
	statusRiskPrefix = "Nutrition risk: "
	statusOverweight = "Overweight risk"
	statusNormal     = "Good nutrition: growth within the normal range"
)

// Advise evaluates the decision table in strict priority order; only the
// first matching row contributes status and tips.
func Advise(ageMonths int, v ClassificationVector) Result {
	base := baseMenu(ageMonths)

	if v.Acute {
		return Result{
			Status: statusAcute,
			Tier:   TierCritical,
			Branch: BranchAcute,
			Tips:   cloneStrings(acuteTips),
			Menu:   menuNames(base, false),
		}
	}

	underweight := v.WeightClass == growth.WeightSeverelyThin || v.WeightClass == growth.WeightThin
	stunted := v.HeightClass == growth.HeightSeverelyShort || v.HeightClass == growth.HeightShort
	if underweight || stunted {
		var (
			conditions []string
			tips       []string
			menu       = menuNames(base, false)
		)
		offerFood := ageMonths >= 6
		if underweight {
			conditions = append(conditions, "underweight")
			tips = append(tips, underweightTips...)
			if offerFood {
				menu = append(menu, menuNames(weightGainMenu, false)...)
			}
		}
		if stunted {
			conditions = append(conditions, "stunted")
			tips = append(tips, stuntingTips...)
			if offerFood {
				menu = append(menu, menuNames(linearGrowthMenu, false)...)
			}
		}
		return Result{
			Status: statusRiskPrefix + strings.Join(conditions, " and "),
			Tier:   TierWarning,
			Branch: BranchUndernutrition,
			Tips:   tips,
			Menu:   menu,
		}
	}

	if v.WeightClass == growth.WeightOverweight || v.WeightClass == growth.WeightObese {
		return Result{
			Status: statusOverweight,
			Tier:   TierMildRisk,
			Branch: BranchOverweight,
			Tips:   cloneStrings(overweightTips),
			Menu:   menuNames(base, true),
		}
	}

	return Result{
		Status: statusNormal,
		Tier:   TierNormal,
		Branch: BranchNormal,
		Tips:   cloneStrings(maintenanceTips),
		Menu:   menuNames(base, false),
	}
}

func cloneStrings(in []string) []string {
	return append([]string(nil), in...)
}
