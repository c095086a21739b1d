package staticcatalog

import (
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

var defaultCurve = [4]float64{0.20, 0.50, 0.25, 0.05}

func builtinCrops() []agronomy.CropParameters {
	return []agronomy.CropParameters{
		{
			Key: "maize", Name: "Maize",
			OptimalTemp: 25, OptimalMoisture: 60, WaterNeed: 500, NitrogenNeed: 150,
			GrowthRate: 0.08, InitialNDVI: 0.15, MaxNDVI: 0.85,
			DroughtTolerance: agronomy.ToleranceMedium, WaterlogTolerance: agronomy.ToleranceLow,
			NitrogenCurve: defaultCurve, PricePerTon: 250,
		},
		{
			Key: "sorghum", Name: "Sorghum",
			OptimalTemp: 28, OptimalMoisture: 50, WaterNeed: 400, NitrogenNeed: 100,
			GrowthRate: 0.07, InitialNDVI: 0.12, MaxNDVI: 0.80,
			DroughtTolerance: agronomy.ToleranceHigh, WaterlogTolerance: agronomy.ToleranceLow,
			NitrogenCurve: [4]float64{0.25, 0.45, 0.25, 0.05}, PricePerTon: 220,
		},
		{
			Key: "wheat", Name: "Wheat",
			OptimalTemp: 18, OptimalMoisture: 55, WaterNeed: 450, NitrogenNeed: 120,
			GrowthRate: 0.075, InitialNDVI: 0.14, MaxNDVI: 0.82,
			DroughtTolerance: agronomy.ToleranceMedium, WaterlogTolerance: agronomy.ToleranceMedium,
			NitrogenCurve: [4]float64{0.25, 0.45, 0.25, 0.05}, PricePerTon: 280,
		},
		{
			Key: "rice", Name: "Rice",
			OptimalTemp: 28, OptimalMoisture: 75, WaterNeed: 700, NitrogenNeed: 130,
			GrowthRate: 0.07, InitialNDVI: 0.12, MaxNDVI: 0.85,
			DroughtTolerance: agronomy.ToleranceLow, WaterlogTolerance: agronomy.ToleranceHigh,
			NitrogenCurve: [4]float64{0.20, 0.45, 0.30, 0.05}, PricePerTon: 300,
		},
	}
}

func builtinSoils() []agronomy.SoilParameters {
	return []agronomy.SoilParameters{
		{Key: "loam", Name: "Loam", FieldCapacity: 70, WiltingPoint: 25, DrainageRate: 0.15, NitrogenRetention: 0.85},
		{Key: "sandy", Name: "Sandy", FieldCapacity: 50, WiltingPoint: 15, DrainageRate: 0.30, NitrogenRetention: 0.65},
		{Key: "clay", Name: "Clay", FieldCapacity: 85, WiltingPoint: 35, DrainageRate: 0.08, NitrogenRetention: 0.95},
	}
}

// builtinRegions are the popular starting locations. Dominant soil follows
// the climate estimate.
func builtinRegions() []region.Profile {
	raw := []region.Profile{
		{Key: "yaounde", Name: "Yaounde, Cameroon", Latitude: 3.87, Longitude: 11.52, Climate: "Tropical savanna"},
		{Key: "maroua", Name: "Maroua, Cameroon", Latitude: 10.6, Longitude: 14.3, Climate: "Sahel semi-arid"},
		{Key: "douala", Name: "Douala, Cameroon", Latitude: 4.05, Longitude: 9.7, Climate: "Tropical humid"},
		{Key: "montreal", Name: "Montreal, Canada", Latitude: 45.5, Longitude: -73.6, Climate: "Continental humid"},
		{Key: "nairobi", Name: "Nairobi, Kenya", Latitude: -1.28, Longitude: 36.82, Climate: "Subtropical highland"},
		{Key: "kano", Name: "Kano, Nigeria", Latitude: 12.0, Longitude: 8.52, Climate: "Sahel"},
		{Key: "addis", Name: "Addis Ababa, Ethiopia", Latitude: 9.03, Longitude: 38.74, Climate: "Subtropical highland"},
		{Key: "punjab", Name: "Punjab, India", Latitude: 30.73, Longitude: 76.78, Climate: "Semi-arid hot"},
		{Key: "saopaulo", Name: "Sao Paulo, Brazil", Latitude: -23.55, Longitude: -46.63, Climate: "Subtropical humid"},
		{Key: "iowa", Name: "Iowa, USA", Latitude: 41.88, Longitude: -93.1, Climate: "Continental humid"},
		{Key: "beauce", Name: "Beauce, France", Latitude: 48.44, Longitude: 1.48, Climate: "Oceanic temperate"},
		{Key: "dhaka", Name: "Dhaka, Bangladesh", Latitude: 23.81, Longitude: 90.41, Climate: "Tropical monsoon"},
		{Key: "pampas", Name: "Pampas, Argentina", Latitude: -34.6, Longitude: -58.38, Climate: "Subtropical humid"},
		{Key: "prairies", Name: "Prairies, Canada", Latitude: 50.45, Longitude: -104.62, Climate: "Continental semi-arid"},
		{Key: "garoua", Name: "Garoua, Cameroon", Latitude: 9.3, Longitude: 13.4, Climate: "Sahel"},
	}
	for i := range raw {
		raw[i].SoilType = region.EstimateSoil(raw[i].Climate)
	}
	return raw
}
