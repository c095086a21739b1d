package agronomy

const (
	DefaultInitialMoisture = 50.0
	DefaultInitialNitrogen = 80.0
	MaxNitrogen            = 200.0
	MaxMoisture            = 100.0

	FertilizerEfficiency = 0.8
	// Gameplay constant; no physical derivation.
	LeachingFactor = 0.5

	OptimalStatusFCRatio   = 0.8
	AdequateStatusWPRatio  = 1.5
	LowStatusWPRatio       = 1.2
	LeachingWarnDrainageMM = 10.0

	NDVIFloor          = 0.05
	MaxYieldTonsPerHa  = 8.0
	WiltingThreshold   = 25.0
	StressMemoryCutoff = 0.5

	AcuteDecline       = 0.06
	AcuteStressCutoff  = 0.2
	SevereDecline      = 0.03
	SevereStressCutoff = 0.4
	ChronicStressWeeks = 3
	ChronicDeclineStep = 0.015
	ChronicDeclineCap  = 0.08

	HealthyNDVI  = 0.6
	StressedNDVI = 0.4
)

var toleranceWidth = map[Tolerance]float64{
	ToleranceLow:    0.15,
	ToleranceMedium: 0.25,
	ToleranceHigh:   0.35,
}

type stressCurve struct {
	floor   float64
	penalty float64
}

var droughtCurves = map[Tolerance]stressCurve{
	ToleranceHigh:   {floor: 0.3, penalty: 0.8},
	ToleranceMedium: {floor: 0.2, penalty: 1.2},
	ToleranceLow:    {floor: 0.1, penalty: 1.5},
}

var waterlogCurves = map[Tolerance]stressCurve{
	ToleranceHigh:   {floor: 0.7, penalty: 0.3},
	ToleranceMedium: {floor: 0.4, penalty: 0.6},
	ToleranceLow:    {floor: 0.2, penalty: 0.9},
}

type thermalBand struct {
	maxDiff float64
	stress  float64
}

var thermalBands = []thermalBand{
	{maxDiff: 3, stress: 1.0},
	{maxDiff: 6, stress: 0.85},
	{maxDiff: 10, stress: 0.6},
	{maxDiff: 15, stress: 0.3},
}

const thermalStressFloor = 0.1
