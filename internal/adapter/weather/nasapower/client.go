// Package nasapower reads daily point data from the NASA POWER agroclimatology
// API and folds it into weekly weather records.
package nasapower

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

const (
	DefaultBaseURL  = "https://power.larc.nasa.gov/api/temporal/daily/point"
	DefaultCacheTTL = time.Hour

	// POWER marks missing samples with this value.
	fillValue = -999.0

	defaultTemp     = 25.0
	defaultPrecip   = 0.0
	defaultHumidity = 50.0
)

// Client is safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	CacheTTL   time.Duration
	Now        func() time.Time
	// Fallback serves the series when the API call fails. Nil surfaces the error.
	Fallback ports.WeatherProvider
	Logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	series   []agronomy.WeeklyWeather
	cachedAt time.Time
}

type Day struct {
	Date         string
	TemperatureC float64
	PrecipMM     float64
	HumidityPct  float64
	EvapotransMM float64
}

func NewClient(fallback ports.WeatherProvider) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		CacheTTL:   DefaultCacheTTL,
		Fallback:   fallback,
	}
}

func (c *Client) WeeklySeries(ctx context.Context, r region.Profile, weeks int) ([]agronomy.WeeklyWeather, error) {
	if weeks <= 0 {
		return []agronomy.WeeklyWeather{}, nil
	}
	key := fmt.Sprintf("%.4f_%.4f_%d", r.Latitude, r.Longitude, weeks)
	now := c.now()

	c.mu.Lock()
	if e, ok := c.cache[key]; ok && now.Sub(e.cachedAt) < c.ttl() {
		c.mu.Unlock()
		return cloneSeries(e.series), nil
	}
	c.mu.Unlock()

	days, err := c.Daily(ctx, r.Latitude, r.Longitude, now.AddDate(0, 0, -weeks*7), now)
	if err != nil {
		if c.Fallback != nil {
			c.logger().Warn("nasa power unavailable, using fallback weather", "region", r.Key, "err", err)
			return c.Fallback.WeeklySeries(ctx, r, weeks)
		}
		return nil, err
	}
	series := Weekly(days, weeks)

	c.mu.Lock()
	if c.cache == nil {
		c.cache = map[string]cacheEntry{}
	}
	c.cache[key] = cacheEntry{series: series, cachedAt: now}
	c.mu.Unlock()

	c.logger().Debug("nasa power series fetched", "region", r.Key, "days", len(days), "weeks", len(series))
	return cloneSeries(series), nil
}

// Daily fetches T2M, PRECTOTCORR and RH2M for the inclusive date range.
func (c *Client) Daily(ctx context.Context, lat, lon float64, start, end time.Time) ([]Day, error) {
	q := url.Values{}
	q.Set("parameters", "T2M,PRECTOTCORR,RH2M")
	q.Set("community", "AG")
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("start", start.Format("20060102"))
	q.Set("end", end.Format("20060102"))
	q.Set("format", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build nasa power request: %w", err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("nasa power call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read nasa power response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nasa power error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return ParseDaily(body)
}

func ParseDaily(body []byte) ([]Day, error) {
	var payload struct {
		Properties struct {
			Parameter map[string]map[string]float64 `json:"parameter"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse nasa power: %w", err)
	}
	params := payload.Properties.Parameter
	temps := params["T2M"]
	if len(temps) == 0 {
		return nil, fmt.Errorf("parse nasa power: response has no T2M series")
	}
	precip := params["PRECTOTCORR"]
	humidity := params["RH2M"]

	dates := make([]string, 0, len(temps))
	for d := range temps {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]Day, 0, len(dates))
	for _, d := range dates {
		t := sample(temps, d, defaultTemp)
		h := sample(humidity, d, defaultHumidity)
		out = append(out, Day{
			Date:         d,
			TemperatureC: t,
			PrecipMM:     math.Max(0, sample(precip, d, defaultPrecip)),
			HumidityPct:  h,
			EvapotransMM: DailyET(t, h),
		})
	}
	return out, nil
}

// Weekly folds consecutive 7-day blocks: precipitation and ET are summed,
// temperature is averaged. A trailing partial block still counts as a week.
func Weekly(days []Day, weeks int) []agronomy.WeeklyWeather {
	out := make([]agronomy.WeeklyWeather, 0, weeks)
	for i := 0; i < len(days) && len(out) < weeks; i += 7 {
		end := min(i+7, len(days))
		block := days[i:end]
		var temp, rain, et float64
		for _, d := range block {
			temp += d.TemperatureC
			rain += d.PrecipMM
			et += d.EvapotransMM
		}
		out = append(out, agronomy.WeeklyWeather{
			PrecipitationMM: round1(rain),
			TemperatureC:    round1(temp / float64(len(block))),
			ReferenceETMM:   round1(et),
		})
	}
	return out
}

// DailyET is a simplified Hargreaves-style estimate from temperature and
// relative humidity, in mm/day.
func DailyET(temp, humidity float64) float64 {
	return math.Max(0, 0.0023*(temp+17.8)*(100-humidity)/10)
}

func sample(series map[string]float64, date string, fallback float64) float64 {
	v, ok := series[date]
	if !ok || v <= fillValue {
		return fallback
	}
	return v
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Client) ttl() time.Duration {
	if c.CacheTTL > 0 {
		return c.CacheTTL
	}
	return DefaultCacheTTL
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func cloneSeries(in []agronomy.WeeklyWeather) []agronomy.WeeklyWeather {
	return append([]agronomy.WeeklyWeather(nil), in...)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
