package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/cache"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/filter"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

// ---- Repository contract ---------------------------------------------------

// CarRepository is the listing store used by the service layer.
type CarRepository interface {
	Find(ctx context.Context, f filter.Filter, skip, limit int64) ([]models.Car, error)
	Count(ctx context.Context, f filter.Filter) (int64, error)
	Sample(ctx context.Context, f filter.Filter, size int64) ([]models.Car, error)
	FindByID(ctx context.Context, id string) (models.Car, error)
	Insert(ctx context.Context, car models.Car) (models.Car, error)
	Distinct(ctx context.Context, field string) ([]string, error)
}

// ---- Service interface + implementation ------------------------------------

// ListingService answers listing queries for the HTTP API and the chat assistant.
type ListingService interface {
	List(ctx context.Context, q models.CarQuery) (models.CarPage, error)
	Get(ctx context.Context, id string) (models.Car, error)
	Create(ctx context.Context, car models.Car, owner string) (models.Car, error)
	SearchForAssistant(ctx context.Context, c models.SearchCriteria) ([]models.Car, error)
	MarketStats(ctx context.Context) (models.MarketStats, error)
	Compatibility(ctx context.Context, id string, prefs models.Preferences) (models.Compatibility, error)
	QuickSearch(ctx context.Context, text string) (models.QuickSearchResult, error)
}

// ListingOptions tunes the assistant-facing queries.
type ListingOptions struct {
	AISearchLimit int
	StatsCacheTTL time.Duration
	PopularMakes  int
}

type listingService struct {
	repo  CarRepository
	cache cache.Client
	opts  ListingOptions
}

const statsCacheKey = "market-stats"

// NewListingService wires the repository and cache. A nil cache disables caching.
func NewListingService(repo CarRepository, c cache.Client, opts ListingOptions) ListingService {
	if c == nil {
		c = cache.Noop{}
	}
	if opts.AISearchLimit <= 0 {
		opts.AISearchLimit = 10
	}
	if opts.PopularMakes <= 0 {
		opts.PopularMakes = 10
	}
	if opts.StatsCacheTTL <= 0 {
		opts.StatsCacheTTL = 5 * time.Minute
	}
	return &listingService{repo: repo, cache: c, opts: opts}
}

// List returns one page of listings, or a random sample when the query asks for it.
func (s *listingService) List(ctx context.Context, q models.CarQuery) (models.CarPage, error) {
	q = q.Normalize()
	f := filter.FromQuery(q)

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return models.CarPage{}, err
	}

	if q.RandomSample() {
		cars, err := s.repo.Sample(ctx, f, int64(q.Limit))
		if err != nil {
			return models.CarPage{}, err
		}
		return models.CarPage{Cars: nonNil(cars), CurrentPage: 1, TotalPages: 1, TotalCars: total}, nil
	}

	limit := int64(q.Limit)
	page := models.CarPage{
		Cars:        []models.Car{},
		CurrentPage: q.Page,
		TotalPages:  int(total / limit),
		TotalCars:   total,
	}
	if total%limit != 0 {
		page.TotalPages++
	}

	// A skip that would overflow is past any real collection.
	if int64(q.Page-1) > math.MaxInt64/limit {
		return page, nil
	}
	cars, err := s.repo.Find(ctx, f, int64(q.Page-1)*limit, limit)
	if err != nil {
		return models.CarPage{}, err
	}
	page.Cars = nonNil(cars)
	return page, nil
}

// Get returns one listing by id.
func (s *listingService) Get(ctx context.Context, id string) (models.Car, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates and stores a new listing, applying defaults.
func (s *listingService) Create(ctx context.Context, car models.Car, owner string) (models.Car, error) {
	car.Title = strings.TrimSpace(car.Title)
	if car.Title == "" {
		return models.Car{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if car.Price <= 0 {
		return models.Car{}, fmt.Errorf("%w: price must be a positive number", ErrValidation)
	}
	switch car.Type {
	case "":
		car.Type = models.TypeBuyNow
	case models.TypeBuyNow, models.TypeAuction:
	default:
		return models.Car{}, fmt.Errorf("%w: type must be %q or %q", ErrValidation, models.TypeBuyNow, models.TypeAuction)
	}
	if car.Status == "" {
		car.Status = models.StatusActive
	}
	if car.Currency == "" {
		car.Currency = "PKR"
	}
	if owner != "" {
		car.User = owner
	}
	car.CreatedAt = time.Now().UTC()

	return s.repo.Insert(ctx, car)
}

// SearchForAssistant runs the search_cars tool: active listings only, capped.
func (s *listingService) SearchForAssistant(ctx context.Context, c models.SearchCriteria) ([]models.Car, error) {
	cars, err := s.repo.Find(ctx, filter.FromCriteria(c), 0, int64(s.opts.AISearchLimit))
	if err != nil {
		return nil, err
	}
	return nonNil(cars), nil
}

// MarketStats summarises the inventory. Results are cached; cache errors are logged and bypassed.
func (s *listingService) MarketStats(ctx context.Context) (models.MarketStats, error) {
	logger := log.With().Str("component", "listing").Logger()

	if raw, err := s.cache.Get(ctx, statsCacheKey); err == nil {
		var stats models.MarketStats
		if err := json.Unmarshal(raw, &stats); err == nil {
			return stats, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn().Err(err).Msg("stats cache read failed")
	}

	total, err := s.repo.Count(ctx, filter.New(filter.Equals("status", models.StatusActive)))
	if err != nil {
		return models.MarketStats{}, err
	}
	makes, err := s.repo.Distinct(ctx, "make")
	if err != nil {
		return models.MarketStats{}, err
	}
	bodyTypes, err := s.repo.Distinct(ctx, "bodyType")
	if err != nil {
		return models.MarketStats{}, err
	}
	if len(makes) > s.opts.PopularMakes {
		makes = makes[:s.opts.PopularMakes]
	}

	stats := models.MarketStats{TotalCars: total, PopularMakes: makes, AvailableBodyTypes: bodyTypes}
	if raw, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, statsCacheKey, raw, s.opts.StatsCacheTTL); err != nil {
			logger.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}

// Compatibility scores one listing against the buyer's preferences.
func (s *listingService) Compatibility(ctx context.Context, id string, prefs models.Preferences) (models.Compatibility, error) {
	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Compatibility{}, err
	}
	return ScoreCompatibility(car, prefs), nil
}

// QuickSearch parses free text with the rule-based parser and runs the result.
func (s *listingService) QuickSearch(ctx context.Context, text string) (models.QuickSearchResult, error) {
	intent := ParseIntent(text)
	cars, err := s.repo.Find(ctx, filter.FromIntent(intent), 0, int64(s.opts.AISearchLimit))
	if err != nil {
		return models.QuickSearchResult{}, err
	}
	return models.QuickSearchResult{Filters: intent, Cars: nonNil(cars)}, nil
}

func nonNil(cars []models.Car) []models.Car {
	if cars == nil {
		return []models.Car{}
	}
	return cars
}
