package handler

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

func TestListParsesQuery(t *testing.T) {
	listings := &fakeListings{}
	app := newTestApp(testDeps{listings: listings})

	resp, body := doJSON(t, app, "GET", "/api/cars?make=toyota,honda&minPrice=1000000&maxYear=abc&minEngineCC=1000&random=true&page=2&limit=6", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, body, "cars")

	q := listings.lastQuery
	assert.Equal(t, "toyota,honda", q.Make)
	require.NotNil(t, q.MinPrice)
	assert.Equal(t, int64(1_000_000), *q.MinPrice)
	assert.Nil(t, q.MaxYear, "unparseable numerics are ignored")
	require.NotNil(t, q.MinEngineCC)
	assert.True(t, q.Random)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 6, q.Limit)
}

func TestListIgnoresNonFiniteNumbers(t *testing.T) {
	tests := []struct {
		raw  string
		want *int64
	}{
		{raw: "NaN"},
		{raw: "Inf"},
		{raw: "-Inf"},
		{raw: "1e30"},
		{raw: "cheap"},
		{raw: "2500000.9", want: ptr(2_500_000)},
		{raw: "3000000", want: ptr(3_000_000)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			listings := &fakeListings{}
			app := newTestApp(testDeps{listings: listings})

			resp, _ := doJSON(t, app, "GET", "/api/cars?maxPrice="+url.QueryEscape(tt.raw), nil)
			require.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, tt.want, listings.lastQuery.MaxPrice)
		})
	}
}

func ptr(v int64) *int64 { return &v }

func TestListServiceFailure(t *testing.T) {
	app := newTestApp(testDeps{listings: &fakeListings{err: errors.New("mongo down")}})

	resp, body := doJSON(t, app, "GET", "/api/cars", nil)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", body["message"])
}

func TestGetCar(t *testing.T) {
	listings := &fakeListings{cars: map[string]models.Car{"abc": {Title: "Civic"}}}
	app := newTestApp(testDeps{listings: listings})

	resp, body := doJSON(t, app, "GET", "/api/cars/abc", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Civic", body["title"])

	resp, body = doJSON(t, app, "GET", "/api/cars/missing", nil)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "Car not found", body["message"])
}

func TestCreateCar(t *testing.T) {
	listings := &fakeListings{}
	app := newTestApp(testDeps{listings: listings})

	resp, body := doJSON(t, app, "POST", "/api/cars", map[string]any{"title": "Alto", "price": 1_900_000})
	require.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "Alto", body["title"])
	assert.Empty(t, listings.lastOwner)

	resp, body = doJSON(t, app, "POST", "/api/cars", map[string]any{"price": 10})
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, body["message"], "title is required")

	req := httptest.NewRequest("POST", "/api/cars", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, _ = do(t, app, req)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCreateCarStampsOwner(t *testing.T) {
	listings := &fakeListings{}
	app := newTestApp(testDeps{listings: listings, secret: "k"})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "seller-9"}).SignedString([]byte("k"))
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/cars", jsonBody(t, map[string]any{"title": "City", "price": 1}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, body := do(t, app, req)
	require.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "seller-9", body["user"])

	req = httptest.NewRequest("POST", "/api/cars", jsonBody(t, map[string]any{"title": "City", "price": 1}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer nope")
	resp, _ = do(t, app, req)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestCompatibilityEndpoint(t *testing.T) {
	listings := &fakeListings{cars: map[string]models.Car{
		"c1": {Title: "Corolla", Price: 3_000_000, FuelType: "Petrol", Transmission: "Automatic"},
	}}
	app := newTestApp(testDeps{listings: listings})

	resp, body := doJSON(t, app, "POST", "/api/cars/c1/compatibility", models.Preferences{MaxPrice: 4_000_000, Transmission: "automatic"})
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, body, "score")
	assert.Contains(t, body, "pros")

	resp, _ = doJSON(t, app, "POST", "/api/cars/zz/compatibility", models.Preferences{})
	assert.Equal(t, 404, resp.StatusCode)
}
