package agronomy

import "math"

type CropState struct {
	NDVI                   float64 `json:"ndvi"`
	AgeWeeks               int     `json:"age_weeks"`
	ConsecutiveStressWeeks int     `json:"consecutive_stress_weeks"`
	CumulativeStress       float64 `json:"cumulative_stress"`
}

type Crop struct {
	Params CropParameters `json:"params"`
	State  CropState      `json:"state"`
}

type GrowthReport struct {
	NDVI                float64 `json:"ndvi"`
	Growth              float64 `json:"growth"`
	Decline             float64 `json:"decline"`
	WaterStress         float64 `json:"water_stress"`
	NutrientStress      float64 `json:"nutrient_stress"`
	ThermalStress       float64 `json:"thermal_stress"`
	OverallStress       float64 `json:"overall_stress"`
	Health              Health  `json:"health"`
	Stage               string  `json:"stage"`
	StageIndex          int     `json:"stage_idx"`
	ConsecutiveStress   int     `json:"consecutive_stress"`
	NitrogenRequirement float64 `json:"nitrogen_requirement"`
}

type CropSnapshot struct {
	Type                string  `json:"type"`
	Name                string  `json:"name"`
	NDVI                float64 `json:"ndvi"`
	AgeWeeks            int     `json:"age_weeks"`
	Health              Health  `json:"health"`
	Stage               string  `json:"stage"`
	StageIndex          int     `json:"stage_idx"`
	NitrogenRequirement float64 `json:"nitrogen_requirement"`
}

func NewCrop(params CropParameters) Crop {
	return Crop{
		Params: params,
		State:  CropState{NDVI: params.InitialNDVI},
	}
}

// StageForAge never fails: ages past the schedule stay in Maturation.
func StageForAge(ageWeeks int) Stage {
	cumulative := 0
	for _, st := range Stages {
		cumulative += st.Weeks
		if ageWeeks < cumulative {
			return st
		}
	}
	return Stages[len(Stages)-1]
}

func (c Crop) GrowthStage() Stage {
	return StageForAge(c.State.AgeWeeks)
}

// NitrogenRequirement is the weekly need (kg N/ha) for the current stage.
func (c Crop) NitrogenRequirement() float64 {
	st := c.GrowthStage()
	return c.Params.NitrogenNeed * c.Params.NitrogenCurve[st.Index] / float64(st.Weeks)
}

func (c *Crop) CalculateGrowth(moisture, nitrogen, temperature float64) GrowthReport {
	water := c.WaterStress(moisture)
	nutrient := c.NutrientStress(nitrogen)
	thermal := c.ThermalStress(temperature)
	overall := water * nutrient * thermal

	if overall < StressMemoryCutoff {
		c.State.ConsecutiveStressWeeks++
		c.State.CumulativeStress += StressMemoryCutoff - overall
	} else if c.State.ConsecutiveStressWeeks > 0 {
		c.State.ConsecutiveStressWeeks--
	}

	growth := c.Params.GrowthRate * overall
	next := math.Min(c.State.NDVI+growth, c.Params.MaxNDVI)

	decline := 0.0
	switch {
	case overall < AcuteStressCutoff:
		decline = AcuteDecline
	case overall < SevereStressCutoff:
		decline = SevereDecline
	}
	if n := c.State.ConsecutiveStressWeeks; n >= ChronicStressWeeks {
		decline += math.Min(float64(n-2)*ChronicDeclineStep, ChronicDeclineCap)
	}
	// Decline replaces the growth result instead of subtracting from it, so a
	// stressed week can drop NDVI below where growth alone would have left it.
	if decline > 0 {
		next = math.Max(NDVIFloor, c.State.NDVI-decline)
	}

	c.State.NDVI = next
	c.State.AgeWeeks++

	st := c.GrowthStage()
	return GrowthReport{
		NDVI:                c.State.NDVI,
		Growth:              growth,
		Decline:             decline,
		WaterStress:         water,
		NutrientStress:      nutrient,
		ThermalStress:       thermal,
		OverallStress:       overall,
		Health:              c.Health(),
		Stage:               st.Name,
		StageIndex:          st.Index,
		ConsecutiveStress:   c.State.ConsecutiveStressWeeks,
		NitrogenRequirement: c.NitrogenRequirement(),
	}
}

func (c Crop) WaterStress(moisture float64) float64 {
	optimalMin := c.Params.OptimalMoisture * (1 - toleranceWidth[c.Params.DroughtTolerance])
	optimalMax := c.Params.OptimalMoisture * (1 + toleranceWidth[c.Params.WaterlogTolerance])

	switch {
	case moisture >= optimalMin && moisture <= optimalMax:
		return 1.0
	case moisture < optimalMin:
		if moisture < WiltingThreshold {
			return 0
		}
		deficit := (optimalMin - moisture) / optimalMin
		curve := droughtCurves[c.Params.DroughtTolerance]
		return math.Max(curve.floor, 1-deficit*curve.penalty)
	default:
		if optimalMax >= MaxMoisture {
			return 1.0
		}
		excess := (moisture - optimalMax) / (MaxMoisture - optimalMax)
		curve := waterlogCurves[c.Params.WaterlogTolerance]
		return math.Max(curve.floor, 1-excess*curve.penalty)
	}
}

func (c Crop) NutrientStress(nitrogen float64) float64 {
	need := c.NitrogenRequirement()
	switch {
	case nitrogen <= 0:
		return 0
	case need <= 0 || nitrogen >= need*1.5:
		return 1.0
	case nitrogen >= need:
		return 0.95
	case nitrogen >= need*0.5:
		return 0.5 + nitrogen/need*0.45
	default:
		return nitrogen / need * 0.5
	}
}

func (c Crop) ThermalStress(temperature float64) float64 {
	diff := math.Abs(temperature - c.Params.OptimalTemp)
	for _, band := range thermalBands {
		if diff <= band.maxDiff {
			return band.stress
		}
	}
	return thermalStressFloor
}

func (c Crop) Health() Health {
	return HealthForNDVI(c.State.NDVI)
}

func HealthForNDVI(ndvi float64) Health {
	switch {
	case ndvi >= HealthyNDVI:
		return HealthHealthy
	case ndvi >= StressedNDVI:
		return HealthStressed
	default:
		return HealthCritical
	}
}

// Yield is in t/ha, linear in the share of max NDVI reached.
func (c Crop) Yield() float64 {
	if c.Params.MaxNDVI <= 0 {
		return 0
	}
	return MaxYieldTonsPerHa * c.State.NDVI / c.Params.MaxNDVI
}

func (c Crop) Revenue() float64 {
	return c.Yield() * c.Params.PricePerTon
}

func (c Crop) Snapshot() CropSnapshot {
	st := c.GrowthStage()
	return CropSnapshot{
		Type:                c.Params.Key,
		Name:                c.Params.Name,
		NDVI:                c.State.NDVI,
		AgeWeeks:            c.State.AgeWeeks,
		Health:              c.Health(),
		Stage:               st.Name,
		StageIndex:          st.Index,
		NitrogenRequirement: c.NitrogenRequirement(),
	}
}
