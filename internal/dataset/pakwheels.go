// Package dataset maps the PakWheels "usedCars" export onto listings and derives
// the filterable fields that the raw export leaves empty.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

// Record is one entry of the PakWheels export.
type Record struct {
	URL                 string   `json:"url"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Image               string   `json:"image"`
	VehicleTransmission string   `json:"vehicleTransmission"`
	Color               string   `json:"color"`
	BodyType            string   `json:"bodyType"`
	VehicleEngine       *engine  `json:"vehicleEngine"`
	MileageFromOdometer string   `json:"mileageFromOdometer"`
	SellerLocation      string   `json:"sellerLocation"`
	Price               Price    `json:"price"`
	PriceCurrency       string   `json:"priceCurrency"`
	Features            []string `json:"features"`
}

type engine struct {
	EngineDisplacement string `json:"engineDisplacement"`
}

// Price accepts the export's numeric prices as well as quoted ones ("1,850,000").
type Price int64

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*p = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" {
			*p = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("price %q: %w", s, err)
	}
	*p = Price(math.Round(f))
	return nil
}

// Load decodes a `{"usedCars": [...]}` document.
func Load(r io.Reader) ([]Record, error) {
	var doc struct {
		UsedCars []Record `json:"usedCars"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return doc.UsedCars, nil
}

// ToCar maps a record to a new active buy-now listing.
func (r Record) ToCar(now time.Time) models.Car {
	car := models.Car{
		URL:          r.URL,
		Title:        strings.TrimSpace(r.Name),
		Description:  r.Description,
		Image:        r.Image,
		Transmission: strings.TrimSpace(r.VehicleTransmission),
		Color:        strings.TrimSpace(r.Color),
		BodyType:     strings.TrimSpace(r.BodyType),
		Mileage:      r.MileageFromOdometer,
		Location:     strings.TrimSpace(r.SellerLocation),
		Price:        int64(r.Price),
		Currency:     r.PriceCurrency,
		Features:     r.Features,
		Status:       models.StatusActive,
		Type:         models.TypeBuyNow,
		CreatedAt:    now,
	}
	if r.VehicleEngine != nil {
		car.EngineDisplacement = strings.TrimSpace(r.VehicleEngine.EngineDisplacement)
	}
	if car.Currency == "" {
		car.Currency = "PKR"
	}
	return car
}
