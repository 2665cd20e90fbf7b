package models

// CarQuery carries the recognised GET /cars query parameters.
// Multi-valued parameters hold the raw comma-separated string; numeric bounds are
// nil when absent or unparseable.
type CarQuery struct {
	Status           string
	Search           string
	Make             string
	Model            string
	BodyType         string
	FuelType         string
	Transmission     string
	Color            string
	RegistrationCity string
	Location         string
	User             string
	Type             string

	MinPrice    *int64
	MaxPrice    *int64
	MinYear     *int64
	MaxYear     *int64
	MinEngineCC *int64
	MaxEngineCC *int64

	Random bool
	Page   int
	Limit  int
}

// Pagination defaults and bounds for GET /cars.
const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// Normalize fills in page and limit defaults and caps the limit at MaxLimit.
func (q CarQuery) Normalize() CarQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// RandomSample reports whether the query asks for a random sample instead of a page.
// Sampling is disabled as soon as any of search, make or model narrows the query.
func (q CarQuery) RandomSample() bool {
	return q.Random && q.Search == "" && q.Make == "" && q.Model == ""
}

// SearchCriteria is the loosely-typed filter object the assistant passes to search_cars.
type SearchCriteria struct {
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	BodyType     string `json:"bodyType,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	FuelType     string `json:"fuelType,omitempty"`
	Location     string `json:"location,omitempty"`
	MinPrice     *int64 `json:"minPrice,omitempty"`
	MaxPrice     *int64 `json:"maxPrice,omitempty"`
	MinYear      *int64 `json:"minYear,omitempty"`
	MaxYear      *int64 `json:"maxYear,omitempty"`
}

// Intent is the result of the rule-based parser: hints pulled out of free text.
// Fields that were not detected stay empty / nil.
type Intent struct {
	Make     string      `json:"make,omitempty"`
	Title    string      `json:"title,omitempty"` // model name, matched against the listing title
	BodyType string      `json:"bodyType,omitempty"`
	Year     *YearRange  `json:"year,omitempty"`
	Price    *PriceRange `json:"price,omitempty"`
	Status   string      `json:"status"`
}

// YearRange is an inclusive year interval.
type YearRange struct {
	Min int `json:"$gte"`
	Max int `json:"$lte"`
}

// PriceRange is an inclusive price interval; either side may be open.
type PriceRange struct {
	Min *float64 `json:"$gte,omitempty"`
	Max *float64 `json:"$lte,omitempty"`
}
