package dataset

import (
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

// KnownMakes are matched case-insensitively inside listing titles.
var KnownMakes = []string{
	"Toyota", "Honda", "Suzuki", "Daihatsu", "Nissan", "Mitsubishi", "Hyundai", "Kia",
	"Mercedes", "BMW", "Audi", "Ford", "Tesla", "Changan", "MG", "Proton", "FAW", "Mazda",
}

// FuelTypes are the values recognised in a listing's feature list.
var FuelTypes = []string{"Petrol", "Diesel", "Hybrid", "Electric", "CNG"}

// Cities are the registration cities recognised inside a seller location.
var Cities = []string{
	"Karachi", "Lahore", "Islamabad", "Rawalpindi", "Peshawar", "Faisalabad", "Multan",
	"Quetta", "Sialkot", "Gujranwala", "Hyderabad", "Bahawalpur", "Abbottabad",
}

const defaultFuel = "Petrol"

var titleYear = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Backfill derives the missing filterable fields of car from its title, features
// and location. It returns only the fields it could fill; an empty result means
// nothing to update. The derivation is deterministic.
func Backfill(car models.Car) bson.D {
	var set bson.D
	words := strings.Fields(car.Title)

	if car.Year == 0 {
		if m := titleYear.FindString(car.Title); m != "" {
			year, _ := strconv.Atoi(m)
			set = append(set, bson.E{Key: "year", Value: year})
		}
	}

	if strings.TrimSpace(car.Make) == "" {
		if mk := knownIn(car.Title, KnownMakes); mk != "" {
			set = append(set, bson.E{Key: "make", Value: mk})
		} else if len(words) > 0 {
			set = append(set, bson.E{Key: "make", Value: words[0]})
		}
	}

	if strings.TrimSpace(car.Model) == "" && len(words) > 1 {
		set = append(set, bson.E{Key: "model", Value: words[1]})
	}

	if strings.TrimSpace(car.FuelType) == "" {
		fuel := defaultFuel
		for _, f := range car.Features {
			if v := exact(f, FuelTypes); v != "" {
				fuel = v
				break
			}
		}
		set = append(set, bson.E{Key: "fuelType", Value: fuel})
	}

	if rc := strings.TrimSpace(car.RegistrationCity); rc == "" || rc == "undefined" {
		if city := knownIn(car.Location, Cities); city != "" {
			set = append(set, bson.E{Key: "registrationCity", Value: city})
		}
	}

	return set
}

// knownIn returns the first candidate contained in text, in the candidate's casing.
// Short candidates must appear as a whole word.
func knownIn(text string, candidates []string) string {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if len(lc) <= 3 {
			for _, w := range words {
				if w == lc {
					return c
				}
			}
			continue
		}
		if strings.Contains(lower, lc) {
			return c
		}
	}
	return ""
}

func exact(v string, candidates []string) string {
	v = strings.TrimSpace(v)
	for _, c := range candidates {
		if strings.EqualFold(v, c) {
			return c
		}
	}
	return ""
}
