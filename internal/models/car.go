package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing types.
const (
	TypeBuyNow  = "buy-now"
	TypeAuction = "auction"
)

// StatusActive is the status of a listing that is visible to buyers.
const StatusActive = "active"

// Car is a vehicle-for-sale listing stored in the "cars" collection.
// Only Title and Price are guaranteed; every other descriptive field may be empty.
type Car struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"                json:"_id"`
	URL                string             `bson:"url,omitempty"                json:"url,omitempty"`
	Title              string             `bson:"title"                        json:"title"`
	Description        string             `bson:"description,omitempty"        json:"description,omitempty"`
	Image              string             `bson:"image,omitempty"              json:"image,omitempty"`
	Transmission       string             `bson:"transmission,omitempty"       json:"transmission,omitempty"`
	Color              string             `bson:"color,omitempty"              json:"color,omitempty"`
	BodyType           string             `bson:"bodyType,omitempty"           json:"bodyType,omitempty"`
	EngineDisplacement string             `bson:"engineDisplacement,omitempty" json:"engineDisplacement,omitempty"`
	Mileage            string             `bson:"mileage,omitempty"            json:"mileage,omitempty"`
	Location           string             `bson:"location,omitempty"           json:"location,omitempty"`
	RegistrationCity   string             `bson:"registrationCity,omitempty"   json:"registrationCity,omitempty"`
	Price              int64              `bson:"price"                        json:"price"`
	Currency           string             `bson:"currency,omitempty"           json:"currency,omitempty"`
	Status             string             `bson:"status,omitempty"             json:"status,omitempty"`
	Views              int                `bson:"views"                        json:"views"`
	Inquiries          int                `bson:"inquiries"                    json:"inquiries"`
	Type               string             `bson:"type,omitempty"               json:"type,omitempty"`
	Make               string             `bson:"make,omitempty"               json:"make,omitempty"`
	Model              string             `bson:"model,omitempty"              json:"model,omitempty"`
	Year               int                `bson:"year,omitempty"               json:"year,omitempty"`
	FuelType           string             `bson:"fuelType,omitempty"           json:"fuelType,omitempty"`
	VIN                string             `bson:"vin,omitempty"                json:"vin,omitempty"`
	ExteriorColor      string             `bson:"exteriorColor,omitempty"      json:"exteriorColor,omitempty"`
	InteriorColor      string             `bson:"interiorColor,omitempty"      json:"interiorColor,omitempty"`
	User               string             `bson:"user,omitempty"               json:"user,omitempty"` // owner id; legacy documents store an ObjectId, decoded as hex
	Features           []string           `bson:"features,omitempty"           json:"features,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt"                    json:"createdAt"`
}

// CarPage is the response of GET /cars.
type CarPage struct {
	Cars        []Car `json:"cars"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCars   int64 `json:"totalCars"`
}

// MarketStats summarises the inventory for the assistant's get_market_stats tool.
type MarketStats struct {
	TotalCars          int64    `json:"totalCars"`
	PopularMakes       []string `json:"popularMakes"`
	AvailableBodyTypes []string `json:"availableBodyTypes"`
}
