package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"terragrow/internal/app/ports"
	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

var ErrInvalidScenarioPath = errors.New("invalid scenario filepath")

// File is one recorded season stored as <Root>/<region key>.json.
type File struct {
	RegionKey   string                   `json:"region_key"`
	Season      string                   `json:"season"`
	Description string                   `json:"description,omitempty"`
	Weeks       []agronomy.WeeklyWeather `json:"weeks"`
}

// Provider replays historical seasons from disk. Regions without a file are
// delegated to Fallback when one is set.
type Provider struct {
	Root     string
	Fallback ports.WeatherProvider
}

func (p Provider) WeeklySeries(ctx context.Context, r region.Profile, weeks int) ([]agronomy.WeeklyWeather, error) {
	f, err := p.Load(ctx, r.Key)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) && p.Fallback != nil {
			return p.Fallback.WeeklySeries(ctx, r, weeks)
		}
		return nil, err
	}
	if weeks <= 0 {
		return []agronomy.WeeklyWeather{}, nil
	}
	if weeks < len(f.Weeks) {
		return f.Weeks[:weeks], nil
	}
	return f.Weeks, nil
}

func (p Provider) Load(_ context.Context, key string) (File, error) {
	safePath, err := secureJoin(p.Root, strings.ToLower(strings.TrimSpace(key))+".json")
	if err != nil {
		return File{}, err
	}
	b, err := os.ReadFile(safePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return File{}, ports.ErrNotFound
		}
		return File{}, err
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("decode scenario %s: %w", key, err)
	}
	for i, w := range f.Weeks {
		if w.PrecipitationMM < 0 || w.ReferenceETMM < 0 {
			return File{}, fmt.Errorf("scenario %s week %d: negative water values", key, i+1)
		}
	}
	return f, nil
}

// Scenarios summarizes every recorded season under Root. A missing Root
// means no scenarios.
func (p Provider) Scenarios(ctx context.Context) ([]ports.ScenarioSummary, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ports.ScenarioSummary{}, nil
		}
		return nil, err
	}
	out := make([]ports.ScenarioSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		key := strings.TrimSuffix(e.Name(), ".json")
		f, err := p.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		regionKey := f.RegionKey
		if regionKey == "" {
			regionKey = key
		}
		out = append(out, ports.ScenarioSummary{
			RegionKey:   regionKey,
			Season:      f.Season,
			Description: f.Description,
			Weeks:       len(f.Weeks),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegionKey < out[j].RegionKey })
	return out, nil
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || rel == ".json" {
		return "", ErrInvalidScenarioPath
	}
	if filepath.IsAbs(rel) {
		return "", ErrInvalidScenarioPath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	prefix := rootAbs + string(filepath.Separator)
	if target != rootAbs && !strings.HasPrefix(target, prefix) {
		return "", ErrInvalidScenarioPath
	}
	return target, nil
}
