package ports

import (
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

type Catalog interface {
	Crop(key string) (agronomy.CropParameters, error)
	Soil(key string) (agronomy.SoilParameters, error)
	Region(key string) (region.Profile, error)
	Crops() []agronomy.CropParameters
	Soils() []agronomy.SoilParameters
	Regions() []region.Profile
	// Nearest returns the closest catalog region and its distance in km.
	Nearest(lat, lon float64) (region.Profile, float64, error)
}
