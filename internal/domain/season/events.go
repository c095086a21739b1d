package season

import (
	"fmt"

	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

// RandomSource is satisfied by *rand.Rand from math/rand/v2.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// drawEvent fires with probability p and then picks uniformly from the pool.
func drawEvent(rng RandomSource, p float64, pool []region.EventType, weather agronomy.WeeklyWeather) *Event {
	if rng == nil || len(pool) == 0 || p <= 0 {
		return nil
	}
	if rng.Float64() >= p {
		return nil
	}
	ev := DescribeEvent(pool[rng.IntN(len(pool))], weather)
	return &ev
}

func DescribeEvent(t region.EventType, weather agronomy.WeeklyWeather) Event {
	switch t {
	case region.EventDrought:
		return Event{Type: t, Name: "Drought", Description: "No rain in the forecast. Soil moisture is critical.", Effect: "Urgent irrigation needed"}
	case region.EventHeavyRain:
		return Event{Type: t, Name: "Heavy rain", Description: "Torrential rain! Nutrients may leach out.", Effect: "Heavy soil drainage"}
	case region.EventHeatwave:
		return Event{Type: t, Name: "Heatwave", Description: fmt.Sprintf("Extreme temperature %.0f°C!", weather.TemperatureC), Effect: "High thermal stress"}
	case region.EventFrost:
		return Event{Type: t, Name: "Late frost", Description: fmt.Sprintf("Frost alert! Temperature %.0f°C", weather.TemperatureC), Effect: "Possible crop damage"}
	case region.EventColdSnap:
		return Event{Type: t, Name: "Cold snap", Description: "Prolonged low temperatures", Effect: "Slower growth"}
	default:
		return Event{Type: t, Name: string(t)}
	}
}
