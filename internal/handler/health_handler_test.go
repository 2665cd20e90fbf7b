package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/cache"
)

type downCache struct{ cache.Noop }

func (downCache) Ping(context.Context) error { return errors.New("refused") }

func TestHealth(t *testing.T) {
	tests := []struct {
		name      string
		cache     cache.Client
		wantCache string
	}{
		{name: "no cache", wantCache: "not_configured"},
		{name: "cache up", cache: cache.Noop{}, wantCache: "connected"},
		{name: "cache down", cache: downCache{}, wantCache: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandler(nil, tt.cache).Register(app)

			resp, body := doJSON(t, app, "GET", "/health", nil)
			require.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, "ok", body["status"])
			assert.Equal(t, map[string]any{"main": "not_configured"}, body["dbs"])
			assert.Equal(t, tt.wantCache, body["cache"])
		})
	}
}
