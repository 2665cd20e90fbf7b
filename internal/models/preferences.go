package models

// Preferences describes what a buyer is looking for. Zero values mean "no preference".
type Preferences struct {
	MaxPrice     int64  `json:"maxPrice"`
	Usage        string `json:"usage"` // "city" | "highway"
	FamilySize   int    `json:"familySize"`
	FuelType     string `json:"fuelType"`
	Location     string `json:"location"`
	Transmission string `json:"transmission"`
}

// Compatibility is the 0–100 fit of one listing against a buyer's preferences.
type Compatibility struct {
	Score int      `json:"score"`
	Pros  []string `json:"pros"`
	Cons  []string `json:"cons"`
}
