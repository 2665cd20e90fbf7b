package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/cache"
)

type HealthHandler struct {
	mainDB *mongo.Client
	cache  cache.Client
}

// NewHealthHandler takes the main Mongo client and the stats cache; either may be nil.
func NewHealthHandler(mainDB *mongo.Client, c cache.Client) *HealthHandler {
	return &HealthHandler{
		mainDB: mainDB,
		cache:  c,
	}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.Map{
		"status": "ok",
		"dbs": fiber.Map{
			"main": h.checkDB(ctx),
		},
		"cache": h.checkCache(ctx),
	}

	return c.JSON(status)
}

func (h *HealthHandler) checkDB(ctx context.Context) string {
	if h.mainDB == nil {
		return "not_configured"
	}
	if err := h.mainDB.Ping(ctx, nil); err != nil {
		return "error"
	}
	return "connected"
}

func (h *HealthHandler) checkCache(ctx context.Context) string {
	if h.cache == nil {
		return "not_configured"
	}
	if err := h.cache.Ping(ctx); err != nil {
		return "error"
	}
	return "connected"
}
