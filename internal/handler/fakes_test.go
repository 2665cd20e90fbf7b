package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/repository"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/service"
)

type fakeListings struct {
	cars      map[string]models.Car
	lastQuery models.CarQuery
	lastOwner string
	err       error
}

func (f *fakeListings) List(_ context.Context, q models.CarQuery) (models.CarPage, error) {
	f.lastQuery = q
	if f.err != nil {
		return models.CarPage{}, f.err
	}
	return models.CarPage{Cars: []models.Car{}, CurrentPage: 1, TotalPages: 0}, nil
}

func (f *fakeListings) Get(_ context.Context, id string) (models.Car, error) {
	car, ok := f.cars[id]
	if !ok {
		return models.Car{}, repository.ErrNotFound
	}
	return car, nil
}

func (f *fakeListings) Create(_ context.Context, car models.Car, owner string) (models.Car, error) {
	if car.Title == "" {
		return models.Car{}, errors.Join(service.ErrValidation, errors.New("title is required"))
	}
	f.lastOwner = owner
	car.User = owner
	return car, nil
}

func (f *fakeListings) SearchForAssistant(context.Context, models.SearchCriteria) ([]models.Car, error) {
	return []models.Car{}, nil
}

func (f *fakeListings) MarketStats(context.Context) (models.MarketStats, error) {
	return models.MarketStats{}, nil
}

func (f *fakeListings) Compatibility(ctx context.Context, id string, prefs models.Preferences) (models.Compatibility, error) {
	car, err := f.Get(ctx, id)
	if err != nil {
		return models.Compatibility{}, err
	}
	return service.ScoreCompatibility(car, prefs), nil
}

func (f *fakeListings) QuickSearch(_ context.Context, text string) (models.QuickSearchResult, error) {
	return models.QuickSearchResult{Filters: service.ParseIntent(text), Cars: []models.Car{}}, nil
}

type fakeChat struct {
	reply models.ChatReply
	err   error
}

func (f fakeChat) Reply(context.Context, []models.ChatMessage, string) (models.ChatReply, error) {
	return f.reply, f.err
}

type fakeVoice struct {
	text string
	err  error
	got  []byte
}

func (f *fakeVoice) Transcribe(_ context.Context, audio io.Reader) (string, error) {
	f.got, _ = io.ReadAll(audio)
	return f.text, f.err
}

type testDeps struct {
	listings *fakeListings
	chat     fakeChat
	voice    *fakeVoice
	secret   string
}

func newTestApp(d testDeps) *fiber.App {
	if d.listings == nil {
		d.listings = &fakeListings{}
	}
	if d.voice == nil {
		d.voice = &fakeVoice{}
	}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, d.listings, d.chat, d.voice, d.secret)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, int((5 * time.Second).Milliseconds()))
	require.NoError(t, err)
	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}
