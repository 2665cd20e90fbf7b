package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/cache"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/filter"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/repository"
)

// ---- in-memory car repository ---------------------------------------------

type fakeRepo struct {
	cars     []models.Car
	err      error
	inserted []models.Car
	counts   int
}

func newFakeRepo(cars ...models.Car) *fakeRepo {
	for i := range cars {
		if cars[i].ID.IsZero() {
			cars[i].ID = primitive.NewObjectID()
		}
	}
	return &fakeRepo{cars: cars}
}

func (r *fakeRepo) match(f filter.Filter) []models.Car {
	var out []models.Car
	for i := range r.cars {
		if f.Matches(&r.cars[i]) {
			out = append(out, r.cars[i])
		}
	}
	return out
}

func (r *fakeRepo) Find(_ context.Context, f filter.Filter, skip, limit int64) ([]models.Car, error) {
	if r.err != nil {
		return nil, r.err
	}
	if skip < 0 || limit < 0 {
		return nil, fmt.Errorf("invalid skip %d / limit %d", skip, limit)
	}
	all := r.match(f)
	if skip >= int64(len(all)) {
		return []models.Car{}, nil
	}
	end := skip + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[skip:end], nil
}

func (r *fakeRepo) Count(_ context.Context, f filter.Filter) (int64, error) {
	r.counts++
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.match(f))), nil
}

func (r *fakeRepo) Sample(_ context.Context, f filter.Filter, size int64) ([]models.Car, error) {
	all := r.match(f)
	if int64(len(all)) > size {
		all = all[:size]
	}
	return all, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (models.Car, error) {
	for _, c := range r.cars {
		if c.ID.Hex() == id {
			return c, nil
		}
	}
	return models.Car{}, repository.ErrNotFound
}

func (r *fakeRepo) Insert(_ context.Context, car models.Car) (models.Car, error) {
	if r.err != nil {
		return models.Car{}, r.err
	}
	car.ID = primitive.NewObjectID()
	r.inserted = append(r.inserted, car)
	r.cars = append(r.cars, car)
	return car, nil
}

func (r *fakeRepo) Distinct(_ context.Context, field string) ([]string, error) {
	set := map[string]bool{}
	for _, c := range r.cars {
		switch field {
		case "make":
			set[c.Make] = true
		case "bodyType":
			set[c.BodyType] = true
		}
	}
	out := []string{}
	for v := range set {
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ---- memory cache ----------------------------------------------------------

type memCache struct {
	data map[string][]byte
	sets int
	fail bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.fail {
		return nil, errors.New("cache down")
	}
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.fail {
		return errors.New("cache down")
	}
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error { delete(c.data, key); return nil }
func (c *memCache) Ping(context.Context) error                 { return nil }
func (c *memCache) Close() error                               { return nil }

// ---- scripted language model ----------------------------------------------

// fakeModel replies with scripted tool calls on the first turn and, on the
// second turn, describes only the cars present in the tool results.
type fakeModel struct {
	name    string
	err     error
	calls   []ToolCall
	text    string
	started int

	gotSystem  string
	gotHistory []Turn
	gotResults []ToolResult
}

func (m *fakeModel) Name() string { return m.name }

func (m *fakeModel) StartChat(system string, _ []ToolSpec, history []Turn) ChatSession {
	m.started++
	m.gotSystem = system
	m.gotHistory = history
	return &fakeSession{m: m}
}

type fakeSession struct{ m *fakeModel }

func (s *fakeSession) Send(context.Context, string) (ModelReply, error) {
	if s.m.err != nil {
		return ModelReply{}, s.m.err
	}
	if len(s.m.calls) > 0 {
		return ModelReply{Calls: s.m.calls}, nil
	}
	return ModelReply{Text: s.m.text}, nil
}

func (s *fakeSession) SendToolResults(_ context.Context, results []ToolResult) (ModelReply, error) {
	s.m.gotResults = results
	var titles []string
	for _, r := range results {
		cars, _ := r.Response["cars"].([]any)
		for _, c := range cars {
			titles = append(titles, fmt.Sprint(c.(map[string]any)["title"]))
		}
	}
	if len(titles) == 0 {
		return ModelReply{Text: "Sorry, nothing matched. Try a wider budget."}, nil
	}
	return ModelReply{Text: "Found: " + strings.Join(titles, "; ")}, nil
}
