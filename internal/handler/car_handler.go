package handler

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/middleware"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/repository"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/service"
)

// CarHandler wires HTTP → ListingService.
type CarHandler struct {
	svc  service.ListingService
	auth fiber.Handler
}

// NewCarHandler returns a handler instance. auth runs in front of listing creation.
func NewCarHandler(svc service.ListingService, auth fiber.Handler) *CarHandler {
	if auth == nil {
		auth = func(c *fiber.Ctx) error { return c.Next() }
	}
	return &CarHandler{svc: svc, auth: auth}
}

// Register mounts the /cars endpoints on the given router group.
func (h *CarHandler) Register(r fiber.Router) {
	r.Get("/cars", h.list)
	r.Post("/cars", h.auth, h.create)
	r.Get("/cars/:id", h.get)
	r.Post("/cars/:id/compatibility", h.compatibility)
}

// list handles GET /cars?make=toyota,honda&minPrice=1000000&page=2
func (h *CarHandler) list(c *fiber.Ctx) error {
	page, err := h.svc.List(c.UserContext(), parseCarQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// get handles GET /cars/:id
func (h *CarHandler) get(c *fiber.Ctx) error {
	car, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Car not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(car)
}

// create handles POST /cars with a listing payload.
func (h *CarHandler) create(c *fiber.Ctx) error {
	var car models.Car
	if err := c.BodyParser(&car); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	created, err := h.svc.Create(c.UserContext(), car, middleware.OwnerID(c))
	if errors.Is(err, service.ErrValidation) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// compatibility handles POST /cars/:id/compatibility with buyer preferences.
func (h *CarHandler) compatibility(c *fiber.Ctx) error {
	var prefs models.Preferences
	if err := c.BodyParser(&prefs); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	res, err := h.svc.Compatibility(c.UserContext(), c.Params("id"), prefs)
	if errors.Is(err, repository.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Car not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func parseCarQuery(c *fiber.Ctx) models.CarQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	return models.CarQuery{
		Status:           c.Query("status"),
		Search:           c.Query("search"),
		Make:             c.Query("make"),
		Model:            c.Query("model"),
		BodyType:         c.Query("bodyType"),
		FuelType:         c.Query("fuelType"),
		Transmission:     c.Query("transmission"),
		Color:            c.Query("color"),
		RegistrationCity: c.Query("registrationCity"),
		Location:         c.Query("location"),
		User:             c.Query("user"),
		Type:             c.Query("type"),
		MinPrice:         queryInt(c, "minPrice"),
		MaxPrice:         queryInt(c, "maxPrice"),
		MinYear:          queryInt(c, "minYear"),
		MaxYear:          queryInt(c, "maxYear"),
		MinEngineCC:      queryInt(c, "minEngineCC"),
		MaxEngineCC:      queryInt(c, "maxEngineCC"),
		Random:           c.Query("random") == "true",
		Page:             page,
		Limit:            limit,
	}
}

// queryInt returns nil for absent or unparseable values so they add no clause.
func queryInt(c *fiber.Ctx, key string) *int64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
			return nil
		}
		n = int64(f)
	}
	return &n
}
