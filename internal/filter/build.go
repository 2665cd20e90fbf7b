package filter

import (
	"math"
	"strings"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

var (
	searchFields = []string{"title", "description", "make", "model"}
	colorFields  = []string{"color", "exteriorColor"}
)

// FromQuery builds the GET /cars filter. Every recognised parameter contributes at
// most one clause. Categorical multi-selects are anchored exact matches; search,
// color and location are substring matches.
func FromQuery(q models.CarQuery) Filter {
	return New(
		Equals("status", q.Status),
		AnyFieldContains(searchFields, single(q.Search)),
		AnyOf("make", split(q.Make), true),
		AnyOf("model", split(q.Model), true),
		AnyOf("bodyType", split(q.BodyType), true),
		AnyOf("fuelType", split(q.FuelType), true),
		AnyOf("transmission", split(q.Transmission), true),
		AnyOf("registrationCity", split(q.RegistrationCity), true),
		AnyFieldContains(colorFields, split(q.Color)),
		AnyOf("location", split(q.Location), false),
		Range("price", q.MinPrice, q.MaxPrice),
		Range("year", q.MinYear, q.MaxYear),
		EngineCC(q.MinEngineCC, q.MaxEngineCC),
		Owner(q.User),
		Equals("type", q.Type),
	)
}

// FromCriteria builds the assistant's search_cars filter. Only active listings are
// searched and names are matched as substrings.
func FromCriteria(c models.SearchCriteria) Filter {
	return New(
		Equals("status", models.StatusActive),
		AnyOf("make", single(c.Make), false),
		AnyOf("model", single(c.Model), false),
		AnyOf("bodyType", single(c.BodyType), false),
		AnyOf("transmission", single(c.Transmission), false),
		AnyOf("fuelType", single(c.FuelType), false),
		AnyOf("location", single(c.Location), false),
		Range("price", c.MinPrice, c.MaxPrice),
		Range("year", c.MinYear, c.MaxYear),
	)
}

// FromIntent builds the filter for a rule-parsed free-text query.
func FromIntent(in models.Intent) Filter {
	f := New(
		Equals("status", in.Status),
		AnyOf("make", single(in.Make), false),
		AnyOf("title", single(in.Title), false),
		AnyOf("bodyType", single(in.BodyType), false),
	)
	if in.Year != nil {
		lo, hi := int64(in.Year.Min), int64(in.Year.Max)
		f = f.And(Range("year", &lo, &hi))
	}
	if in.Price != nil {
		f = f.And(Range("price", roundPtr(in.Price.Min), roundPtr(in.Price.Max)))
	}
	return f
}

func split(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func roundPtr(v *float64) *int64 {
	if v == nil {
		return nil
	}
	n := int64(math.Round(*v))
	return &n
}
