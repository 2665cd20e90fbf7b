package filter

import (
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

// ---- exact match -----------------------------------------------------------

type equals struct {
	field string
	value string
}

// Equals matches listings whose field is exactly value. An empty value yields no clause.
func Equals(field, value string) Clause {
	if value == "" {
		return nil
	}
	return equals{field: field, value: value}
}

func (c equals) Doc() bson.D { return bson.D{{Key: c.field, Value: c.value}} }

func (c equals) Matches(car *models.Car) bool {
	v, ok := stringField(car, c.field)
	return ok && v == c.value
}

// ---- owner -----------------------------------------------------------------

type owner struct{ id string }

// Owner matches listings belonging to the user id. Legacy documents store the
// owner as an ObjectId, newer ones as a string, so both forms are accepted.
func Owner(id string) Clause {
	if id == "" {
		return nil
	}
	return owner{id: id}
}

func (c owner) Doc() bson.D {
	if oid, err := primitive.ObjectIDFromHex(c.id); err == nil {
		return bson.D{{Key: "user", Value: bson.D{{Key: "$in", Value: bson.A{oid, c.id}}}}}
	}
	return bson.D{{Key: "user", Value: c.id}}
}

// Matches mirrors Doc: an exact string match, or the ObjectId form, which
// decodes to lower-case hex.
func (c owner) Matches(car *models.Car) bool {
	if car.User == "" {
		return false
	}
	if car.User == c.id {
		return true
	}
	oid, err := primitive.ObjectIDFromHex(c.id)
	return err == nil && car.User == oid.Hex()
}

// ---- case-insensitive "any of" on one field --------------------------------

type anyOf struct {
	field    string
	patterns []string
	compiled []*regexp.Regexp
}

// AnyOf matches when the field matches any of values, case-insensitively.
// With anchored set the whole field must equal a value; otherwise containing it
// is enough. Values are taken literally. Empty values are dropped and no clause
// is returned when none remain.
func AnyOf(field string, values []string, anchored bool) Clause {
	patterns := literalPatterns(values, anchored)
	if len(patterns) == 0 {
		return nil
	}
	return anyOf{field: field, patterns: patterns, compiled: compileAll(patterns)}
}

func (c anyOf) Doc() bson.D {
	return bson.D{{Key: c.field, Value: bson.D{{Key: "$in", Value: regexArray(c.patterns)}}}}
}

func (c anyOf) Matches(car *models.Car) bool {
	v, ok := stringField(car, c.field)
	return ok && matchAny(c.compiled, v)
}

// ---- OR group across several fields ----------------------------------------

type anyFieldContains struct {
	fields   []string
	patterns []string
	compiled []*regexp.Regexp
}

// AnyFieldContains is an OR group: it matches when any of the fields contains any
// of the values, case-insensitively. It renders as its own $or and is never
// merged with another group.
func AnyFieldContains(fields []string, values []string) Clause {
	patterns := literalPatterns(values, false)
	if len(patterns) == 0 || len(fields) == 0 {
		return nil
	}
	return anyFieldContains{fields: fields, patterns: patterns, compiled: compileAll(patterns)}
}

func (c anyFieldContains) Doc() bson.D {
	alts := make(bson.A, 0, len(c.fields))
	for _, f := range c.fields {
		alts = append(alts, bson.D{{Key: f, Value: bson.D{{Key: "$in", Value: regexArray(c.patterns)}}}})
	}
	return bson.D{{Key: "$or", Value: alts}}
}

func (c anyFieldContains) Matches(car *models.Car) bool {
	for _, f := range c.fields {
		if v, ok := stringField(car, f); ok && matchAny(c.compiled, v) {
			return true
		}
	}
	return false
}

// ---- numeric range ---------------------------------------------------------

type numberRange struct {
	field    string
	min, max *int64
}

// Range is an inclusive numeric range on a stored number. Either bound may be nil;
// when both are nil no clause is returned.
func Range(field string, min, max *int64) Clause {
	if min == nil && max == nil {
		return nil
	}
	return numberRange{field: field, min: min, max: max}
}

func (c numberRange) Doc() bson.D {
	return bson.D{{Key: c.field, Value: bounds(c.min, c.max)}}
}

func (c numberRange) Matches(car *models.Car) bool {
	v, ok := numberField(car, c.field)
	return ok && within(v, c.min, c.max)
}

// ---- engine displacement ---------------------------------------------------

var firstDigits = regexp.MustCompile(`\d+`)

type engineCC struct {
	min, max *int64
}

// EngineCC bounds the displacement parsed from the free-text engineDisplacement
// field ("1300 cc" → 1300, first run of digits). Listings whose text holds no
// number never match.
func EngineCC(min, max *int64) Clause {
	if min == nil && max == nil {
		return nil
	}
	return engineCC{min: min, max: max}
}

// ParseEngineCC extracts the first run of digits from an engine displacement string.
func ParseEngineCC(text string) (int64, bool) {
	digits := firstDigits.FindString(text)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c engineCC) Doc() bson.D {
	// {$convert: {input: {$getField: {field: "match", input: {$regexFind: ...}}}, to: "long"}}
	// yields null when there is no digit run; the $ne guard keeps those out
	// because null sorts below every number in aggregation comparisons.
	cc := bson.D{{Key: "$convert", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$getField", Value: bson.D{
			{Key: "field", Value: "match"},
			{Key: "input", Value: bson.D{{Key: "$regexFind", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{
					bson.D{{Key: "$toString", Value: "$engineDisplacement"}}, "",
				}}}},
				{Key: "regex", Value: `\d+`},
			}}}},
		}}}},
		{Key: "to", Value: "long"},
		{Key: "onError", Value: nil},
		{Key: "onNull", Value: nil},
	}}}

	conds := bson.A{bson.D{{Key: "$ne", Value: bson.A{cc, nil}}}}
	if c.min != nil {
		conds = append(conds, bson.D{{Key: "$gte", Value: bson.A{cc, *c.min}}})
	}
	if c.max != nil {
		conds = append(conds, bson.D{{Key: "$lte", Value: bson.A{cc, *c.max}}})
	}
	return bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: conds}}}}
}

func (c engineCC) Matches(car *models.Car) bool {
	v, ok := ParseEngineCC(car.EngineDisplacement)
	return ok && within(v, c.min, c.max)
}

// ---- helpers ---------------------------------------------------------------

func literalPatterns(values []string, anchored bool) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		p := regexp.QuoteMeta(v)
		if anchored {
			p = "^" + p + "$"
		}
		out = append(out, p)
	}
	return out
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile("(?i)" + p)
	}
	return out
}

func regexArray(patterns []string) bson.A {
	out := make(bson.A, len(patterns))
	for i, p := range patterns {
		out[i] = primitive.Regex{Pattern: p, Options: "i"}
	}
	return out
}

func matchAny(res []*regexp.Regexp, v string) bool {
	for _, re := range res {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

func bounds(min, max *int64) bson.D {
	d := bson.D{}
	if min != nil {
		d = append(d, bson.E{Key: "$gte", Value: *min})
	}
	if max != nil {
		d = append(d, bson.E{Key: "$lte", Value: *max})
	}
	return d
}

func within(v int64, min, max *int64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

// stringField reads a text field by its stored name. Empty strings count as absent.
func stringField(car *models.Car, field string) (string, bool) {
	var v string
	switch field {
	case "title":
		v = car.Title
	case "description":
		v = car.Description
	case "make":
		v = car.Make
	case "model":
		v = car.Model
	case "bodyType":
		v = car.BodyType
	case "fuelType":
		v = car.FuelType
	case "transmission":
		v = car.Transmission
	case "color":
		v = car.Color
	case "exteriorColor":
		v = car.ExteriorColor
	case "registrationCity":
		v = car.RegistrationCity
	case "location":
		v = car.Location
	case "status":
		v = car.Status
	case "type":
		v = car.Type
	case "user":
		v = car.User
	}
	return v, v != ""
}

// numberField reads a numeric field. A zero year is treated as absent.
func numberField(car *models.Car, field string) (int64, bool) {
	switch field {
	case "price":
		return car.Price, true
	case "year":
		return int64(car.Year), car.Year != 0
	}
	return 0, false
}
