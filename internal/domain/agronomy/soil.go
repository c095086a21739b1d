package agronomy

type SoilState struct {
	Moisture float64 `json:"moisture"`
	Nitrogen float64 `json:"nitrogen"`
}

// NitrogenLedger tracks every kg/ha entering and leaving the pool.
// Initial + Applied == pool + Leached + Uptake + Overflow.
type NitrogenLedger struct {
	Initial  float64 `json:"initial"`
	Applied  float64 `json:"applied"`
	Overflow float64 `json:"overflow"`
	Leached  float64 `json:"leached"`
	Uptake   float64 `json:"uptake"`
}

type Soil struct {
	Params SoilParameters `json:"params"`
	State  SoilState      `json:"state"`
	Ledger NitrogenLedger `json:"ledger"`
}

type MoistureUpdate struct {
	Moisture        float64        `json:"moisture"`
	WaterIn         float64        `json:"water_in"`
	WaterOut        float64        `json:"water_out"`
	Drainage        float64        `json:"drainage"`
	NitrogenLeached float64        `json:"nitrogen_leached"`
	Status          MoistureStatus `json:"status"`
}

type FertilizerApplication struct {
	Nitrogen float64 `json:"nitrogen"`
	Added    float64 `json:"added"`
}

type SoilSnapshot struct {
	Type           string         `json:"type"`
	Name           string         `json:"name"`
	Moisture       float64        `json:"moisture"`
	Nitrogen       float64        `json:"nitrogen"`
	Status         MoistureStatus `json:"status"`
	AvailableWater float64        `json:"available_water"`
}

func NewSoil(params SoilParameters) Soil {
	return NewSoilWithState(params, SoilState{Moisture: DefaultInitialMoisture, Nitrogen: DefaultInitialNitrogen})
}

func NewSoilWithState(params SoilParameters, state SoilState) Soil {
	return Soil{
		Params: params,
		State:  state,
		Ledger: NitrogenLedger{Initial: state.Nitrogen},
	}
}

// UpdateMoisture applies one week of water balance. Rain and irrigation in mm
// count 1:1 as moisture percentage points.
func (s *Soil) UpdateMoisture(rain, irrigation, et float64) MoistureUpdate {
	waterIn := rain + irrigation
	raw := s.State.Moisture + waterIn - et

	drainage := 0.0
	if raw > s.Params.FieldCapacity {
		drainage = (raw - s.Params.FieldCapacity) * s.Params.DrainageRate
		raw -= drainage
	}
	raw = clamp(raw, s.Params.WiltingPoint, MaxMoisture)

	leached := drainage * (1 - s.Params.NitrogenRetention) * LeachingFactor
	removed := minFloat(leached, s.State.Nitrogen)
	s.State.Nitrogen -= removed
	s.Ledger.Leached += removed
	s.State.Moisture = raw

	return MoistureUpdate{
		Moisture:        s.State.Moisture,
		WaterIn:         waterIn,
		WaterOut:        et,
		Drainage:        drainage,
		NitrogenLeached: leached,
		Status:          s.Status(),
	}
}

func (s *Soil) AddFertilizer(nitrogenKG float64) FertilizerApplication {
	added := nitrogenKG * FertilizerEfficiency
	next := s.State.Nitrogen + added
	s.Ledger.Applied += added
	if next > MaxNitrogen {
		s.Ledger.Overflow += next - MaxNitrogen
		next = MaxNitrogen
	}
	s.State.Nitrogen = next
	return FertilizerApplication{Nitrogen: s.State.Nitrogen, Added: added}
}

func (s *Soil) ExtractNutrients(uptakeKG float64) {
	removed := minFloat(uptakeKG, s.State.Nitrogen)
	if removed < 0 {
		removed = 0
	}
	s.State.Nitrogen -= removed
	s.Ledger.Uptake += removed
}

func (s Soil) AvailableWater() float64 {
	return maxFloat(0, s.State.Moisture-s.Params.WiltingPoint)
}

func (s Soil) Status() MoistureStatus {
	switch m := s.State.Moisture; {
	case m >= s.Params.FieldCapacity*OptimalStatusFCRatio:
		return MoistureOptimal
	case m >= s.Params.WiltingPoint*AdequateStatusWPRatio:
		return MoistureAdequate
	case m >= s.Params.WiltingPoint*LowStatusWPRatio:
		return MoistureLow
	default:
		return MoistureCritical
	}
}

func (s Soil) Snapshot() SoilSnapshot {
	return SoilSnapshot{
		Type:           s.Params.Key,
		Name:           s.Params.Name,
		Moisture:       s.State.Moisture,
		Nitrogen:       s.State.Nitrogen,
		Status:         s.Status(),
		AvailableWater: s.AvailableWater(),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
