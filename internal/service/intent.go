package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

// Keyword lists are checked in order; the first hit wins.
var (
	intentMakes     = []string{"toyota", "honda", "suzuki", "kia", "hyundai", "mg", "changan", "audi", "bmw", "mercedes"}
	intentModels    = []string{"civic", "corolla", "city", "cultus", "alto", "mehran", "sportage", "tucson", "swift", "vitz", "yaris", "fortuner", "prado", "land cruiser"}
	intentBodyTypes = []string{"suv", "sedan", "hatchback"}

	yearPattern  = regexp.MustCompile(`\b(20\d{2})\b`)
	pricePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(lakh|lac|million|m)`)
)

const (
	lakh    = 100_000
	million = 1_000_000
)

// ParseIntent pulls make, model, body type, year and price hints out of free
// text without calling a model. Status is always "active".
func ParseIntent(text string) models.Intent {
	in := models.Intent{Status: models.StatusActive}
	q := strings.ToLower(text)
	if strings.TrimSpace(q) == "" {
		return in
	}

	in.Make = firstContained(q, intentMakes)
	in.Title = firstContained(q, intentModels)
	in.BodyType = firstContained(q, intentBodyTypes)
	in.Year = parseYears(q)
	in.Price = parsePrice(q)
	return in
}

func firstContained(q string, words []string) string {
	for _, w := range words {
		if strings.Contains(q, w) {
			return w
		}
	}
	return ""
}

// parseYears returns the span of every 20xx token, padded by a year on each
// side when only one distinct year was mentioned.
func parseYears(q string) *models.YearRange {
	matches := yearPattern.FindAllString(q, -1)
	if len(matches) == 0 {
		return nil
	}
	lo, hi := 0, 0
	for i, m := range matches {
		y, _ := strconv.Atoi(m)
		if i == 0 || y < lo {
			lo = y
		}
		if i == 0 || y > hi {
			hi = y
		}
	}
	if lo == hi {
		return &models.YearRange{Min: lo - 1, Max: hi + 1}
	}
	return &models.YearRange{Min: lo, Max: hi}
}

// parsePrice reads the first "<number> <unit>" amount and turns it into a bound
// using the direction words present anywhere in the text.
func parsePrice(q string) *models.PriceRange {
	m := pricePattern.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	amount := value * million
	if strings.HasPrefix(m[2], "l") {
		amount = value * lakh
	}

	switch {
	case containsAny(q, "under", "below", "less"):
		return &models.PriceRange{Max: &amount}
	case containsAny(q, "above", "more", "over"):
		return &models.PriceRange{Min: &amount}
	default:
		lo, hi := amount*0.8, amount*1.2
		return &models.PriceRange{Min: &lo, Max: &hi}
	}
}

func containsAny(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}
