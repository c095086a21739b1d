package staticcatalog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

const maxSuggestions = 3

// Catalog serves crop, soil and region tables from memory. Loading overrides
// must finish before the catalog is shared between goroutines.
type Catalog struct {
	crops   map[string]agronomy.CropParameters
	soils   map[string]agronomy.SoilParameters
	regions map[string]region.Profile

	cropOrder   []string
	soilOrder   []string
	regionOrder []string
}

func New() *Catalog {
	c := &Catalog{
		crops:   map[string]agronomy.CropParameters{},
		soils:   map[string]agronomy.SoilParameters{},
		regions: map[string]region.Profile{},
	}
	for _, p := range builtinCrops() {
		c.putCrop(p)
	}
	for _, p := range builtinSoils() {
		c.putSoil(p)
	}
	for _, p := range builtinRegions() {
		c.putRegion(p)
	}
	return c
}

func (c *Catalog) Crop(key string) (agronomy.CropParameters, error) {
	k := normalizeKey(key)
	if p, ok := c.crops[k]; ok {
		return p, nil
	}
	return agronomy.CropParameters{}, c.unknown("crop", key, c.cropOrder)
}

func (c *Catalog) Soil(key string) (agronomy.SoilParameters, error) {
	k := normalizeKey(key)
	if p, ok := c.soils[k]; ok {
		return p, nil
	}
	return agronomy.SoilParameters{}, c.unknown("soil", key, c.soilOrder)
}

func (c *Catalog) Region(key string) (region.Profile, error) {
	k := normalizeKey(key)
	if p, ok := c.regions[k]; ok {
		return p, nil
	}
	return region.Profile{}, c.unknown("region", key, c.regionOrder)
}

func (c *Catalog) Crops() []agronomy.CropParameters {
	out := make([]agronomy.CropParameters, 0, len(c.cropOrder))
	for _, k := range c.cropOrder {
		out = append(out, c.crops[k])
	}
	return out
}

func (c *Catalog) Soils() []agronomy.SoilParameters {
	out := make([]agronomy.SoilParameters, 0, len(c.soilOrder))
	for _, k := range c.soilOrder {
		out = append(out, c.soils[k])
	}
	return out
}

func (c *Catalog) Regions() []region.Profile {
	out := make([]region.Profile, 0, len(c.regionOrder))
	for _, k := range c.regionOrder {
		out = append(out, c.regions[k])
	}
	return out
}

func (c *Catalog) Nearest(lat, lon float64) (region.Profile, float64, error) {
	if len(c.regionOrder) == 0 {
		return region.Profile{}, 0, ports.ErrNotFound
	}
	best := ""
	bestDist := math.Inf(1)
	for _, k := range c.regionOrder {
		p := c.regions[k]
		d := region.DistanceKM(lat, lon, p.Latitude, p.Longitude)
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	return c.regions[best], bestDist, nil
}

func (c *Catalog) putCrop(p agronomy.CropParameters) {
	p.Key = normalizeKey(p.Key)
	if _, ok := c.crops[p.Key]; !ok {
		c.cropOrder = append(c.cropOrder, p.Key)
	}
	c.crops[p.Key] = p
}

func (c *Catalog) putSoil(p agronomy.SoilParameters) {
	p.Key = normalizeKey(p.Key)
	if _, ok := c.soils[p.Key]; !ok {
		c.soilOrder = append(c.soilOrder, p.Key)
	}
	c.soils[p.Key] = p
}

func (c *Catalog) putRegion(p region.Profile) {
	p.Key = normalizeKey(p.Key)
	if _, ok := c.regions[p.Key]; !ok {
		c.regionOrder = append(c.regionOrder, p.Key)
	}
	c.regions[p.Key] = p
}

func (c *Catalog) unknown(kind, key string, known []string) error {
	return &ports.UnknownKeyError{Kind: kind, Key: key, Suggestions: suggest(normalizeKey(key), known)}
}

type candidate struct {
	key  string
	dist int
}

func suggest(key string, known []string) []string {
	if key == "" {
		return nil
	}
	cands := make([]candidate, 0)
	for _, k := range known {
		dist := levenshtein.ComputeDistance(key, k)
		if dist > levenshteinLimit(len(k)) && !strings.HasPrefix(k, key) {
			continue
		}
		cands = append(cands, candidate{key: k, dist: dist})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].key < cands[j].key
	})
	out := make([]string, 0, maxSuggestions)
	for _, cand := range cands {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, cand.key)
	}
	return out
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func (c *Catalog) String() string {
	return fmt.Sprintf("catalog(crops=%d soils=%d regions=%d)", len(c.cropOrder), len(c.soilOrder), len(c.regionOrder))
}
