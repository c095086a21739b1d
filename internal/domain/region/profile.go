package region

import (
	"errors"
	"math"
	"strings"
)

var ErrInvalidProfile = errors.New("invalid region profile")

type Variability string

const (
	VariabilityMedium   Variability = "medium"
	VariabilityHigh     Variability = "high"
	VariabilityVeryHigh Variability = "very_high"
)

type EventType string

const (
	EventDrought   EventType = "drought"
	EventHeavyRain EventType = "heavy_rain"
	EventHeatwave  EventType = "heatwave"
	EventFrost     EventType = "frost"
	EventColdSnap  EventType = "cold_snap"
)

type Profile struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Climate   string  `json:"climate"`
	SoilType  string  `json:"soil_type"`
}

type Characteristics struct {
	AvgTemp         float64     `json:"avg_temp"`
	AvgRainMM       float64     `json:"avg_rain"`
	RainVariability Variability `json:"rain_variability"`
	EventPool       []EventType `json:"typical_events"`
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.Join(ErrInvalidProfile, errors.New("name is required"))
	}
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) ||
		p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return errors.Join(ErrInvalidProfile, errors.New("coordinates out of range"))
	}
	if strings.TrimSpace(p.SoilType) == "" {
		return errors.Join(ErrInvalidProfile, errors.New("soil type is required"))
	}
	return nil
}

// Characteristics classifies on keywords of the lower-cased climate label.
// Subtropical is checked first because its label also contains "tropical".
func (p Profile) Characteristics() Characteristics {
	c := strings.ToLower(p.Climate)
	switch {
	case strings.Contains(c, "subtropical"):
		return Characteristics{AvgTemp: 20, AvgRainMM: 100, RainVariability: VariabilityMedium, EventPool: []EventType{EventHeavyRain, EventDrought}}
	case strings.Contains(c, "tropical"):
		return Characteristics{AvgTemp: 26, AvgRainMM: 150, RainVariability: VariabilityHigh, EventPool: []EventType{EventHeavyRain, EventDrought}}
	case isArid(c):
		return Characteristics{AvgTemp: 32, AvgRainMM: 50, RainVariability: VariabilityVeryHigh, EventPool: []EventType{EventDrought, EventHeatwave}}
	case isTemperate(c):
		return Characteristics{AvgTemp: 15, AvgRainMM: 80, RainVariability: VariabilityMedium, EventPool: []EventType{EventFrost, EventColdSnap}}
	default:
		return Characteristics{AvgTemp: 22, AvgRainMM: 100, RainVariability: VariabilityMedium, EventPool: []EventType{EventDrought}}
	}
}

func (p Profile) RecommendedCrops() []string {
	c := strings.ToLower(p.Climate)
	switch {
	case strings.Contains(c, "monsoon"):
		return []string{"rice", "maize"}
	case strings.Contains(c, "tropical") || strings.Contains(c, "humid"):
		return []string{"maize", "sorghum"}
	case isArid(c):
		return []string{"sorghum", "maize"}
	case isTemperate(c):
		return []string{"wheat", "maize"}
	default:
		return []string{"maize"}
	}
}

func (p Profile) IsArid() bool {
	return isArid(strings.ToLower(p.Climate))
}

func (p Profile) IsTropical() bool {
	return strings.Contains(strings.ToLower(p.Climate), "tropical")
}

// RegionalAverageYield is the coarse t/ha benchmark the final score compares against.
func RegionalAverageYield(climate string) float64 {
	c := strings.ToLower(climate)
	switch {
	case strings.Contains(c, "tropical"):
		return 5.2
	case isArid(c):
		return 3.8
	case strings.Contains(c, "continental"):
		return 6.5
	default:
		return 5.5
	}
}

// Advisory is the climate-specific end-of-season tip, empty when none applies.
func (p Profile) Advisory() string {
	switch {
	case p.IsTropical():
		return "Tip for " + p.Name + ": drainage is crucial in the rainy season to avoid nutrient leaching."
	case p.IsArid():
		return "Tip for " + p.Name + ": water reserves are essential. Plan a strict irrigation schedule."
	default:
		return ""
	}
}

// EstimateClimate labels a custom location from its latitude band.
func EstimateClimate(lat float64) string {
	a := math.Abs(lat)
	switch {
	case a < 10:
		return "Tropical equatorial"
	case a < 23.5:
		return "Tropical savanna"
	case a < 35:
		return "Subtropical"
	case a < 50:
		return "Continental temperate"
	default:
		return "Continental cold"
	}
}

func EstimateSoil(climate string) string {
	c := strings.ToLower(climate)
	switch {
	case strings.Contains(c, "tropical"):
		return "clay"
	case isArid(c):
		return "sandy"
	default:
		return "loam"
	}
}

const earthRadiusKM = 6371.0

// DistanceKM is the haversine great-circle distance.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func isArid(lower string) bool {
	return strings.Contains(lower, "sahel") || strings.Contains(lower, "arid")
}

func isTemperate(lower string) bool {
	return strings.Contains(lower, "continental") ||
		strings.Contains(lower, "temperate") ||
		strings.Contains(lower, "oceanic")
}
