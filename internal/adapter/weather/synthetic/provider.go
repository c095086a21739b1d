package synthetic

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"

	opensimplex "github.com/ojrac/opensimplex-go"

	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

const (
	// weekStep spaces consecutive weeks along the noise x axis.
	weekStep = 0.35
	octaves  = 3
)

// Provider derives a weekly series from the region's climate
// characteristics and coherent noise. The same seed and region always
// yield the same series.
type Provider struct {
	Seed int64
}

func (p Provider) WeeklySeries(ctx context.Context, r region.Profile, weeks int) ([]agronomy.WeeklyWeather, error) {
	if weeks <= 0 {
		return []agronomy.WeeklyWeather{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := p.Seed ^ regionSeed(r)
	rainNoise := opensimplex.NewNormalized(seed)
	tempNoise := opensimplex.NewNormalized(seed + 1)

	c := r.Characteristics()
	rainAmp, tempSwing := amplitude(c.RainVariability)
	weeklyRain := c.AvgRainMM / 4
	y := r.Latitude*0.1 + r.Longitude*0.01

	out := make([]agronomy.WeeklyWeather, 0, weeks)
	for w := 0; w < weeks; w++ {
		x := float64(w) * weekStep
		rn := octaveNoise(rainNoise, x, y, octaves, 1.0, 0.5)
		tn := octaveNoise(tempNoise, x, y, octaves, 1.0, 0.5)

		rain := math.Max(0, weeklyRain*(1+rainAmp*(2*rn-1)))
		temp := c.AvgTemp + tempSwing*(2*tn-1)
		out = append(out, agronomy.WeeklyWeather{
			PrecipitationMM: round1(rain),
			TemperatureC:    round1(temp),
			ReferenceETMM:   round1(weeklyET(temp)),
		})
	}
	return out, nil
}

// weeklyET is a temperature-only reference evapotranspiration estimate.
func weeklyET(temp float64) float64 {
	return 7 * math.Max(0.5, 1.5+0.12*temp)
}

func amplitude(v region.Variability) (rain, temp float64) {
	switch v {
	case region.VariabilityVeryHigh:
		return 1.2, 5
	case region.VariabilityHigh:
		return 0.9, 4
	default:
		return 0.6, 3
	}
}

func regionSeed(r region.Profile) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(r.Key))
	_, _ = h.Write([]byte(strconv.FormatFloat(r.Latitude, 'f', 3, 64)))
	_, _ = h.Write([]byte(strconv.FormatFloat(r.Longitude, 'f', 3, 64)))
	return int64(h.Sum64() >> 1)
}

// octaveNoise layers several frequencies of normalized noise; the result
// stays in [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
