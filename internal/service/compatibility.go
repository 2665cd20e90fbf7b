package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

// Compatibility weights; they sum to 100.
const (
	weightBudget       = 30.0
	weightUsage        = 20.0
	weightFamily       = 20.0
	weightFuel         = 15.0
	weightLocation     = 10.0
	weightTransmission = 5.0
)

// Pro / con strings.
const (
	ProBudgetFit      = "Fits your budget perfectly"
	ProBudgetStretch  = "Slightly above/at your budget"
	ConOverBudget     = "Significantly above your budget"
	ProCityDriving    = "Excellent for city driving"
	ProHighwayDriving = "Great for long highway trips"
	ConUsageMismatch  = "May not be ideal for your primary usage"
	ProSpaciousFamily = "Spacious enough for your family"
	ConTightForFamily = "Might be tight for a larger family"
	ProLocatedNearby  = "Located in your city"
)

// largeFamilyMinSize is the family size from which a spacious body type is required.
const largeFamilyMinSize = 5

var usageBodyTypes = map[string][]string{
	"city":    {"Hatchback", "Sedan"},
	"highway": {"SUV", "Sedan"},
}

var spaciousBodyTypes = []string{"SUV", "Van"}

// ScoreCompatibility rates how well car fits prefs on a 0–100 scale. Unset
// preferences and missing listing fields are neutral: they never fail.
func ScoreCompatibility(car models.Car, prefs models.Preferences) models.Compatibility {
	var score float64
	pros, cons := []string{}, []string{}

	if prefs.MaxPrice > 0 {
		ratio := float64(car.Price) / float64(prefs.MaxPrice)
		switch {
		case ratio <= 0.9:
			score += weightBudget
			pros = append(pros, ProBudgetFit)
		case ratio <= 1.1:
			score += weightBudget * 0.7
			pros = append(pros, ProBudgetStretch)
		default:
			cons = append(cons, ConOverBudget)
		}
	}

	if prefs.Usage != "" {
		usage := strings.ToLower(prefs.Usage)
		switch {
		case usage == "city" && oneOf(car.BodyType, usageBodyTypes["city"]):
			score += weightUsage
			pros = append(pros, ProCityDriving)
		case usage == "highway" && oneOf(car.BodyType, usageBodyTypes["highway"]):
			score += weightUsage
			pros = append(pros, ProHighwayDriving)
		default:
			cons = append(cons, ConUsageMismatch)
		}
	}

	if prefs.FamilySize > 0 {
		switch {
		case prefs.FamilySize >= largeFamilyMinSize && oneOf(car.BodyType, spaciousBodyTypes):
			score += weightFamily
			pros = append(pros, ProSpaciousFamily)
		case prefs.FamilySize < largeFamilyMinSize:
			score += weightFamily
		default:
			cons = append(cons, ConTightForFamily)
		}
	}

	if prefs.FuelType != "" && car.FuelType != "" {
		if strings.EqualFold(prefs.FuelType, car.FuelType) {
			score += weightFuel
			pros = append(pros, fmt.Sprintf("Matching fuel type: %s", car.FuelType))
		}
	} else {
		score += weightFuel * 0.5
	}

	if prefs.Location != "" && car.Location != "" &&
		strings.Contains(strings.ToLower(car.Location), strings.ToLower(prefs.Location)) {
		score += weightLocation
		pros = append(pros, ProLocatedNearby)
	}

	if prefs.Transmission != "" && car.Transmission != "" && strings.EqualFold(prefs.Transmission, car.Transmission) {
		score += weightTransmission
		pros = append(pros, fmt.Sprintf("%s transmission as preferred", car.Transmission))
	}

	return models.Compatibility{
		Score: int(math.Max(0, math.Min(100, math.Round(score)))),
		Pros:  pros,
		Cons:  cons,
	}
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
