package agronomy

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParameters = errors.New("invalid agronomy parameters")

type Tolerance string

const (
	ToleranceLow    Tolerance = "low"
	ToleranceMedium Tolerance = "medium"
	ToleranceHigh   Tolerance = "high"
)

func (t Tolerance) Valid() bool {
	switch t {
	case ToleranceLow, ToleranceMedium, ToleranceHigh:
		return true
	default:
		return false
	}
}

type CropParameters struct {
	Key               string     `json:"key"`
	Name              string     `json:"name"`
	OptimalTemp       float64    `json:"optimal_temp"`
	OptimalMoisture   float64    `json:"optimal_moisture"`
	WaterNeed         float64    `json:"water_need"`
	NitrogenNeed      float64    `json:"nitrogen_need"`
	GrowthRate        float64    `json:"growth_rate"`
	InitialNDVI       float64    `json:"initial_ndvi"`
	MaxNDVI           float64    `json:"max_ndvi"`
	DroughtTolerance  Tolerance  `json:"drought_tolerance"`
	WaterlogTolerance Tolerance  `json:"waterlog_tolerance"`
	NitrogenCurve     [4]float64 `json:"nitrogen_curve"`
	PricePerTon       float64    `json:"price_per_ton"`
}

func (p CropParameters) Validate() error {
	for name, v := range map[string]float64{
		"optimal_temp":     p.OptimalTemp,
		"optimal_moisture": p.OptimalMoisture,
		"water_need":       p.WaterNeed,
		"nitrogen_need":    p.NitrogenNeed,
		"growth_rate":      p.GrowthRate,
		"initial_ndvi":     p.InitialNDVI,
		"max_ndvi":         p.MaxNDVI,
		"price_per_ton":    p.PricePerTon,
	} {
		if !finite(v) {
			return fmt.Errorf("%w: crop %q %s is not finite", ErrInvalidParameters, p.Key, name)
		}
	}
	if p.GrowthRate < 0 || p.NitrogenNeed < 0 || p.WaterNeed < 0 || p.PricePerTon < 0 {
		return fmt.Errorf("%w: crop %q rates and prices must be non-negative", ErrInvalidParameters, p.Key)
	}
	if p.MaxNDVI <= 0 || p.MaxNDVI > 1 {
		return fmt.Errorf("%w: crop %q max_ndvi %v", ErrInvalidParameters, p.Key, p.MaxNDVI)
	}
	if p.InitialNDVI < NDVIFloor || p.InitialNDVI > p.MaxNDVI {
		return fmt.Errorf("%w: crop %q initial_ndvi %v", ErrInvalidParameters, p.Key, p.InitialNDVI)
	}
	if p.OptimalMoisture <= 0 || p.OptimalMoisture >= 100 {
		return fmt.Errorf("%w: crop %q optimal_moisture %v", ErrInvalidParameters, p.Key, p.OptimalMoisture)
	}
	if !p.DroughtTolerance.Valid() || !p.WaterlogTolerance.Valid() {
		return fmt.Errorf("%w: crop %q tolerance %q/%q", ErrInvalidParameters, p.Key, p.DroughtTolerance, p.WaterlogTolerance)
	}
	sum := 0.0
	for _, f := range p.NitrogenCurve {
		if !finite(f) || f < 0 {
			return fmt.Errorf("%w: crop %q invalid nitrogen curve fraction", ErrInvalidParameters, p.Key)
		}
		sum += f
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: crop %q nitrogen curve sums to %v", ErrInvalidParameters, p.Key, sum)
	}
	return nil
}

type SoilParameters struct {
	Key               string  `json:"key"`
	Name              string  `json:"name"`
	FieldCapacity     float64 `json:"field_capacity"`
	WiltingPoint      float64 `json:"wilting_point"`
	DrainageRate      float64 `json:"drainage_rate"`
	NitrogenRetention float64 `json:"nitrogen_retention"`
}

func (p SoilParameters) Validate() error {
	if !finite(p.FieldCapacity) || !finite(p.WiltingPoint) || !finite(p.DrainageRate) || !finite(p.NitrogenRetention) {
		return fmt.Errorf("%w: soil %q has a non-finite parameter", ErrInvalidParameters, p.Key)
	}
	if p.WiltingPoint < 0 || p.FieldCapacity <= p.WiltingPoint || p.FieldCapacity > 100 {
		return fmt.Errorf("%w: soil %q capacity/wilting %v/%v", ErrInvalidParameters, p.Key, p.FieldCapacity, p.WiltingPoint)
	}
	if p.DrainageRate < 0 || p.DrainageRate > 1 || p.NitrogenRetention < 0 || p.NitrogenRetention > 1 {
		return fmt.Errorf("%w: soil %q coefficients out of range", ErrInvalidParameters, p.Key)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type WeeklyWeather struct {
	PrecipitationMM float64 `json:"precipitation_mm"`
	TemperatureC    float64 `json:"temperature_c"`
	ReferenceETMM   float64 `json:"reference_et_mm"`
}

// FallbackWeather is used for any week the injected series does not cover.
var FallbackWeather = WeeklyWeather{PrecipitationMM: 10, TemperatureC: 25, ReferenceETMM: 25}

type MoistureStatus string

const (
	MoistureOptimal  MoistureStatus = "optimal"
	MoistureAdequate MoistureStatus = "adequate"
	MoistureLow      MoistureStatus = "low"
	MoistureCritical MoistureStatus = "critical"
)

type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthStressed Health = "stressed"
	HealthCritical Health = "critical"
)

type Stage struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Weeks int    `json:"weeks"`
}

var Stages = [4]Stage{
	{Index: 0, Name: "Germination", Weeks: 3},
	{Index: 1, Name: "Vegetative", Weeks: 4},
	{Index: 2, Name: "Flowering", Weeks: 3},
	{Index: 3, Name: "Maturation", Weeks: 2},
}
