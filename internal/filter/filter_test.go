package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

func i64(v int64) *int64 { return &v }

func sampleCars() []models.Car {
	return []models.Car{
		{Title: "Toyota Corolla GLi 2018", Make: "Toyota", Model: "Corolla", BodyType: "Sedan", Price: 3_500_000, Year: 2018, Color: "White", EngineDisplacement: "1300 cc", Location: "Lahore, Punjab", Status: "active", Type: "buy-now"},
		{Title: "Toyota Land Cruiser Prado", Make: "Toyota", Model: "Land Cruiser Prado", BodyType: "SUV", Price: 15_000_000, Year: 2015, ExteriorColor: "Black", EngineDisplacement: "2700 cc", Location: "Islamabad", Status: "active", Type: "auction"},
		{Title: "Toyota Land Cruiser", Make: "Toyota", Model: "Land Cruiser", BodyType: "SUV", Price: 25_000_000, Year: 2020, Color: "white", EngineDisplacement: "4600cc", Status: "active"},
		{Title: "Suzuki Alto VXR", Make: "Suzuki", Model: "Alto", BodyType: "Hatchback", Price: 1_900_000, Year: 2021, Color: "Silver", EngineDisplacement: "660 cc", Location: "Karachi", Status: "active"},
		{Title: "Honda City", Make: "Honda", Model: "City", BodyType: "Sedan", Price: 2_800_000, Color: "White", EngineDisplacement: "999 cc", Status: "sold"},
		{Title: "Unknown hybrid", Make: "Honda", Price: 4_000_000, Year: 2019, EngineDisplacement: "Hybrid", Status: "active"},
	}
}

func titles(f Filter, cars []models.Car) []string {
	var out []string
	for i := range cars {
		if f.Matches(&cars[i]) {
			out = append(out, cars[i].Title)
		}
	}
	return out
}

func TestEmptyQueryMatchesEverything(t *testing.T) {
	f := FromQuery(models.CarQuery{})
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, bson.D{}, f.Doc())
	assert.Len(t, titles(f, sampleCars()), len(sampleCars()))
}

func TestConjunctionSoundness(t *testing.T) {
	queries := []models.CarQuery{
		{Make: "toyota", MaxPrice: i64(20_000_000)},
		{Status: "active", BodyType: "suv,sedan", MinYear: i64(2016)},
		{Color: "white", MinEngineCC: i64(1000)},
		{Search: "toyota", Color: "black", Type: "auction"},
		{Location: "lahore,karachi", MaxPrice: i64(2_000_000)},
	}
	cars := sampleCars()
	for _, q := range queries {
		f := FromQuery(q)
		for i := range cars {
			if !f.Matches(&cars[i]) {
				continue
			}
			for _, c := range f.Clauses() {
				assert.Truef(t, c.Matches(&cars[i]), "%q violates a clause of %+v", cars[i].Title, q)
			}
		}
	}
}

func TestSearchAndColorStayIndependent(t *testing.T) {
	f := FromQuery(models.CarQuery{Search: "land cruiser", Color: "white"})

	assert.Equal(t, []string{"Toyota Land Cruiser"}, titles(f, sampleCars()))

	doc := f.Doc()
	require.Len(t, doc, 1)
	assert.Equal(t, "$and", doc[0].Key)
	parts := doc[0].Value.(bson.A)
	require.Len(t, parts, 2)
	for _, p := range parts {
		d := p.(bson.D)
		require.Len(t, d, 1)
		assert.Equal(t, "$or", d[0].Key)
	}
	assert.Len(t, parts[0].(bson.D)[0].Value.(bson.A), 4, "search spans title/description/make/model")
	assert.Len(t, parts[1].(bson.D)[0].Value.(bson.A), 2, "color spans color/exteriorColor")
}

func TestEngineCCRange(t *testing.T) {
	f := FromQuery(models.CarQuery{MinEngineCC: i64(1000), MaxEngineCC: i64(1500)})

	cases := map[string]bool{
		"1300 cc": true,
		"1000":    true,
		"1500cc":  true,
		"999 cc":  false,
		"Hybrid":  false,
		"":        false,
	}
	for text, want := range cases {
		car := models.Car{Title: "x", Price: 1, EngineDisplacement: text}
		assert.Equalf(t, want, f.Matches(&car), "engine %q", text)
	}
}

func TestEngineCCDocGuardsNull(t *testing.T) {
	doc := EngineCC(i64(1000), nil).Doc()
	require.Equal(t, "$expr", doc[0].Key)
	conds := doc[0].Value.(bson.D)[0].Value.(bson.A)
	require.Len(t, conds, 2)
	assert.Equal(t, "$ne", conds[0].(bson.D)[0].Key)
	assert.Equal(t, "$gte", conds[1].(bson.D)[0].Key)
}

func TestParseEngineCC(t *testing.T) {
	n, ok := ParseEngineCC("approx 1,300 cc")
	assert.True(t, ok)
	assert.Equal(t, int64(1), n)

	n, ok = ParseEngineCC("2700cc")
	assert.True(t, ok)
	assert.Equal(t, int64(2700), n)

	_, ok = ParseEngineCC("electric")
	assert.False(t, ok)
}

func TestOneSidedRanges(t *testing.T) {
	min := FromQuery(models.CarQuery{MinPrice: i64(4_000_000)})
	assert.ElementsMatch(t, []string{"Toyota Land Cruiser Prado", "Toyota Land Cruiser", "Unknown hybrid"}, titles(min, sampleCars()))
	assert.Equal(t, bson.D{{Key: "price", Value: bson.D{{Key: "$gte", Value: int64(4_000_000)}}}}, min.Doc())

	max := FromQuery(models.CarQuery{MaxYear: i64(2018)})
	assert.ElementsMatch(t, []string{"Toyota Corolla GLi 2018", "Toyota Land Cruiser Prado"}, titles(max, sampleCars()))
}

func TestCategoricalMatchIsAnchored(t *testing.T) {
	f := FromQuery(models.CarQuery{Model: "land cruiser"})
	assert.Equal(t, []string{"Toyota Land Cruiser"}, titles(f, sampleCars()))

	doc := f.Doc()
	in := doc[0].Value.(bson.D)[0].Value.(bson.A)
	assert.Equal(t, primitive.Regex{Pattern: "^land cruiser$", Options: "i"}, in[0])
}

func TestMultiSelectIsOr(t *testing.T) {
	f := FromQuery(models.CarQuery{Make: "suzuki, honda ,"})
	assert.ElementsMatch(t, []string{"Suzuki Alto VXR", "Honda City", "Unknown hybrid"}, titles(f, sampleCars()))
}

func TestValuesAreEscaped(t *testing.T) {
	f := FromQuery(models.CarQuery{Search: "c.ty"})
	assert.Empty(t, titles(f, sampleCars()))
}

func TestLocationIsSubstring(t *testing.T) {
	f := FromQuery(models.CarQuery{Location: "punjab"})
	assert.Equal(t, []string{"Toyota Corolla GLi 2018"}, titles(f, sampleCars()))
}

func TestOwnerAcceptsObjectIDAndString(t *testing.T) {
	id := primitive.NewObjectID()
	doc := Owner(id.Hex()).Doc()
	assert.Equal(t, bson.D{{Key: "user", Value: bson.D{{Key: "$in", Value: bson.A{id, id.Hex()}}}}}, doc)

	assert.Equal(t, bson.D{{Key: "user", Value: "auth0|42"}}, Owner("auth0|42").Doc())
}

func TestOwnerMatchesLikeMongo(t *testing.T) {
	id := primitive.NewObjectID()
	upper := strings.ToUpper(id.Hex())

	assert.True(t, Owner("Seller-7").Matches(&models.Car{User: "Seller-7"}))
	assert.False(t, Owner("Seller-7").Matches(&models.Car{User: "seller-7"}), "string owners are case-sensitive")
	assert.True(t, Owner(upper).Matches(&models.Car{User: id.Hex()}), "legacy ObjectId owner decodes as lower-case hex")
	assert.Nil(t, Owner(""))
	assert.False(t, Owner("x").Matches(&models.Car{}))
}

func TestAndDoesNotMutate(t *testing.T) {
	base := New(Equals("status", "active"))
	more := base.And(Equals("type", "auction"), nil)
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, more.Len())
}

func TestFromCriteriaRestrictsToActive(t *testing.T) {
	f := FromCriteria(models.SearchCriteria{Make: "hon"})
	assert.Equal(t, []string{"Unknown hybrid"}, titles(f, sampleCars()))
}

func TestFromIntent(t *testing.T) {
	hi := 2_000_000.0
	f := FromIntent(models.Intent{
		Make:   "suzuki",
		Title:  "alto",
		Year:   &models.YearRange{Min: 2020, Max: 2022},
		Price:  &models.PriceRange{Max: &hi},
		Status: models.StatusActive,
	})
	assert.Equal(t, []string{"Suzuki Alto VXR"}, titles(f, sampleCars()))
}
