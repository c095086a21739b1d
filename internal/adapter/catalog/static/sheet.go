package staticcatalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

var ErrInvalidSheet = errors.New("invalid catalog sheet")

const (
	sheetCrops   = "crops"
	sheetSoils   = "soils"
	sheetRegions = "regions"
)

// LoadFile merges overrides into the catalog. An .xlsx workbook may carry
// "crops", "soils" and "regions" sheets; a .csv file is applied to the table
// named by its base name (crops.csv, soils.csv, regions.csv). Cells left
// blank keep the current value for an existing key.
func (c *Catalog) LoadFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return c.loadWorkbook(path)
	case ".csv":
		kind := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		rows, err := readCSV(path)
		if err != nil {
			return err
		}
		return c.applyRows(kind, rows)
	default:
		return fmt.Errorf("%w: unsupported extension %q", ErrInvalidSheet, filepath.Ext(path))
	}
}

func (c *Catalog) loadWorkbook(path string) error {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer x.Close()

	applied := 0
	for _, sheet := range x.GetSheetList() {
		kind := strings.ToLower(strings.TrimSpace(sheet))
		if kind != sheetCrops && kind != sheetSoils && kind != sheetRegions {
			continue
		}
		rows, err := x.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if err := c.applyRows(kind, rows); err != nil {
			return err
		}
		applied++
	}
	if applied == 0 {
		return fmt.Errorf("%w: no crops, soils or regions sheet in %s", ErrInvalidSheet, filepath.Base(path))
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func (c *Catalog) applyRows(kind string, rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s sheet is empty", ErrInvalidSheet, kind)
	}
	t := newTable(rows[0])
	if t.col("key") == -1 {
		return fmt.Errorf("%w: %s sheet needs a key column, found %v", ErrInvalidSheet, kind, rows[0])
	}
	for i, rec := range rows[1:] {
		r := row{t: t, rec: rec}
		key := normalizeKey(r.str("key"))
		if key == "" {
			continue
		}
		var err error
		switch kind {
		case sheetCrops:
			err = c.applyCrop(key, r)
		case sheetSoils:
			err = c.applySoil(key, r)
		case sheetRegions:
			err = c.applyRegion(key, r)
		default:
			return fmt.Errorf("%w: unknown table %q", ErrInvalidSheet, kind)
		}
		if err != nil {
			return fmt.Errorf("%s row %d: %w", kind, i+2, err)
		}
	}
	return nil
}

func (c *Catalog) applyCrop(key string, r row) error {
	p, ok := c.crops[key]
	if !ok {
		p = agronomy.CropParameters{
			Key: key, DroughtTolerance: agronomy.ToleranceMedium, WaterlogTolerance: agronomy.ToleranceMedium,
			NitrogenCurve: defaultCurve, PricePerTon: 250,
		}
	}
	r.setString("name", &p.Name)
	for _, f := range []struct {
		col string
		dst *float64
	}{
		{"optimal_temp", &p.OptimalTemp},
		{"optimal_moisture", &p.OptimalMoisture},
		{"water_need", &p.WaterNeed},
		{"nitrogen_need", &p.NitrogenNeed},
		{"growth_rate", &p.GrowthRate},
		{"initial_ndvi", &p.InitialNDVI},
		{"max_ndvi", &p.MaxNDVI},
		{"price_per_ton", &p.PricePerTon},
	} {
		if err := r.setFloat(f.col, f.dst); err != nil {
			return err
		}
	}
	if v := r.str("drought_tolerance"); v != "" {
		p.DroughtTolerance = agronomy.Tolerance(strings.ToLower(v))
	}
	if v := r.str("waterlog_tolerance"); v != "" {
		p.WaterlogTolerance = agronomy.Tolerance(strings.ToLower(v))
	}
	if v := r.str("nitrogen_curve"); v != "" {
		curve, err := parseCurve(v)
		if err != nil {
			return err
		}
		p.NitrogenCurve = curve
	}
	if p.Name == "" {
		p.Name = key
	}
	if err := p.Validate(); err != nil {
		return err
	}
	c.putCrop(p)
	return nil
}

func (c *Catalog) applySoil(key string, r row) error {
	p, ok := c.soils[key]
	if !ok {
		p = agronomy.SoilParameters{Key: key}
	}
	r.setString("name", &p.Name)
	for _, f := range []struct {
		col string
		dst *float64
	}{
		{"field_capacity", &p.FieldCapacity},
		{"wilting_point", &p.WiltingPoint},
		{"drainage_rate", &p.DrainageRate},
		{"nitrogen_retention", &p.NitrogenRetention},
	} {
		if err := r.setFloat(f.col, f.dst); err != nil {
			return err
		}
	}
	if p.Name == "" {
		p.Name = key
	}
	if err := p.Validate(); err != nil {
		return err
	}
	c.putSoil(p)
	return nil
}

func (c *Catalog) applyRegion(key string, r row) error {
	p, ok := c.regions[key]
	if !ok {
		p = region.Profile{Key: key}
	}
	r.setString("name", &p.Name)
	r.setString("climate", &p.Climate)
	r.setString("soil_type", &p.SoilType)
	if err := r.setFloat("lat", &p.Latitude); err != nil {
		return err
	}
	if err := r.setFloat("lon", &p.Longitude); err != nil {
		return err
	}
	if p.SoilType == "" {
		p.SoilType = region.EstimateSoil(p.Climate)
	}
	if _, known := c.soils[normalizeKey(p.SoilType)]; !known {
		return fmt.Errorf("%w: region %q references unknown soil %q", ErrInvalidSheet, key, p.SoilType)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	c.putRegion(p)
	return nil
}

// parseCurve accepts four fractions separated by ";", "|" or spaces.
func parseCurve(v string) ([4]float64, error) {
	var out [4]float64
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == ';' || r == '|' || r == ' ' || r == '/' })
	if len(parts) != 4 {
		return out, fmt.Errorf("%w: nitrogen_curve needs 4 fractions, got %q", ErrInvalidSheet, v)
	}
	for i, s := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return out, fmt.Errorf("%w: nitrogen_curve %q: %v", ErrInvalidSheet, v, err)
		}
		out[i] = f
	}
	return out, nil
}

type table struct {
	idx map[string]int
}

var headerAliases = map[string][]string{
	"key":                {"key", "id", "code"},
	"name":               {"name", "label"},
	"optimal_temp":       {"optimal_temp", "optimaltemperature", "temp"},
	"optimal_moisture":   {"optimal_moisture", "moisture"},
	"water_need":         {"water_need", "waterneedmm"},
	"nitrogen_need":      {"nitrogen_need", "nitrogenneedkg"},
	"growth_rate":        {"growth_rate"},
	"initial_ndvi":       {"initial_ndvi"},
	"max_ndvi":           {"max_ndvi"},
	"drought_tolerance":  {"drought_tolerance", "drought"},
	"waterlog_tolerance": {"waterlog_tolerance", "waterlog"},
	"nitrogen_curve":     {"nitrogen_curve", "ncurve"},
	"price_per_ton":      {"price_per_ton", "price"},
	"field_capacity":     {"field_capacity", "fc"},
	"wilting_point":      {"wilting_point", "wp"},
	"drainage_rate":      {"drainage_rate", "drainage"},
	"nitrogen_retention": {"nitrogen_retention", "retention"},
	"lat":                {"lat", "latitude"},
	"lon":                {"lon", "lng", "longitude"},
	"climate":            {"climate"},
	"soil_type":          {"soil_type", "soil"},
}

func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func newTable(head []string) table {
	raw := map[string]int{}
	for i, h := range head {
		raw[normHeader(h)] = i
	}
	t := table{idx: map[string]int{}}
	for canonical, aliases := range headerAliases {
		for _, a := range aliases {
			if i, ok := raw[normHeader(a)]; ok {
				t.idx[canonical] = i
				break
			}
		}
	}
	return t
}

func (t table) col(name string) int {
	if i, ok := t.idx[name]; ok {
		return i
	}
	return -1
}

type row struct {
	t   table
	rec []string
}

func (r row) str(name string) string {
	i := r.t.col(name)
	if i < 0 || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r row) setString(name string, dst *string) {
	if v := r.str(name); v != "" {
		*dst = v
	}
}

func (r row) setFloat(name string, dst *float64) error {
	v := r.str(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: column %s value %q", ErrInvalidSheet, name, v)
	}
	*dst = f
	return nil
}
