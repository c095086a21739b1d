package season

import (
	"errors"
	"strings"
	"time"

	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

// Session is the aggregate root for one game. It is not safe for concurrent
// use; stores hand out clones and reject stale writes by Version.
type Session struct {
	ID                string                   `json:"session_id"`
	Region            region.Profile           `json:"region"`
	Crop              agronomy.Crop            `json:"crop"`
	Soil              agronomy.Soil            `json:"soil"`
	Economics         Economics                `json:"economics"`
	CurrentWeek       int                      `json:"week"`
	MaxWeeks          int                      `json:"max_weeks"`
	InitialBudget     float64                  `json:"initial_budget"`
	Budget            float64                  `json:"budget"`
	TotalWaterUsed    float64                  `json:"total_water_used"`
	TotalNitrogenUsed float64                  `json:"total_nitrogen_used"`
	NDVIHistory       []float64                `json:"ndvi_history"`
	MoistureHistory   []float64                `json:"moisture_history"`
	Events            []EventRecord            `json:"events"`
	Loan              LoanState                `json:"loan"`
	Weather           []agronomy.WeeklyWeather `json:"weather"`
	Weeks             []WeekLog                `json:"weeks"`
	Version           int64                    `json:"version"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

func NewSession(cfg SessionConfig) (*Session, error) {
	if strings.TrimSpace(cfg.ID) == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("session id is required"))
	}
	if err := cfg.Region.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.Crop.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.Soil.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.Economics.Validate(); err != nil {
		return nil, err
	}

	crop := agronomy.NewCrop(cfg.Crop)
	soil := agronomy.NewSoil(cfg.Soil)
	weather := make([]agronomy.WeeklyWeather, len(cfg.Weather))
	copy(weather, cfg.Weather)

	return &Session{
		ID:              cfg.ID,
		Region:          cfg.Region,
		Crop:            crop,
		Soil:            soil,
		Economics:       cfg.Economics,
		CurrentWeek:     1,
		MaxWeeks:        cfg.Economics.SeasonWeeks,
		InitialBudget:   cfg.Economics.InitialBudget,
		Budget:          cfg.Economics.InitialBudget,
		NDVIHistory:     []float64{crop.State.NDVI},
		MoistureHistory: []float64{soil.State.Moisture},
		Events:          []EventRecord{},
		Weather:         weather,
		Weeks:           []WeekLog{},
		CreatedAt:       cfg.Now,
		UpdatedAt:       cfg.Now,
	}, nil
}

func (s *Session) Phase() Phase {
	if s.CurrentWeek > s.MaxWeeks {
		return PhaseComplete
	}
	return PhaseActive
}

func (s *Session) WeatherForWeek(week int) agronomy.WeeklyWeather {
	if week < 1 || week > len(s.Weather) {
		return agronomy.FallbackWeather
	}
	return s.Weather[week-1]
}

func (s *Session) CurrentWeather() agronomy.WeeklyWeather {
	return s.WeatherForWeek(s.CurrentWeek)
}

func (s *Session) LoanAvailable() bool {
	return !s.Loan.Taken && s.Phase() == PhaseActive && s.CurrentWeek >= s.Economics.LoanEligibleWeek
}

func (s *Session) CostOf(in StepInput) Costs {
	irrigation := in.IrrigationMM * s.Economics.IrrigationCostPerMM
	fertilizer := in.FertilizerKG * s.Economics.FertilizerCostPerKg
	return Costs{Irrigation: irrigation, Fertilizer: fertilizer, Total: irrigation + fertilizer}
}

// Step advances the season by exactly one week. Every rejection leaves the
// session unchanged.
func (s *Session) Step(in StepInput, weather agronomy.WeeklyWeather, rng RandomSource) (WeekResult, error) {
	if s.Phase() == PhaseComplete {
		return WeekResult{}, ErrSessionComplete
	}
	if in.IrrigationMM < 0 || in.FertilizerKG < 0 {
		return WeekResult{}, ErrInvalidInput
	}

	costs := s.CostOf(in)
	if costs.Total > s.Budget {
		rejection := &InsufficientBudgetError{Required: costs.Total, Available: s.Budget}
		if s.LoanAvailable() {
			offer := s.Economics.Offer()
			rejection.Offer = &offer
		}
		return WeekResult{}, rejection
	}

	s.Budget -= costs.Total
	s.TotalWaterUsed += in.IrrigationMM
	s.TotalNitrogenUsed += in.FertilizerKG

	s.Soil.AddFertilizer(in.FertilizerKG)
	moisture := s.Soil.UpdateMoisture(weather.PrecipitationMM, in.IrrigationMM, weather.ReferenceETMM)
	s.Soil.ExtractNutrients(s.Crop.NitrogenRequirement())
	growth := s.Crop.CalculateGrowth(s.Soil.State.Moisture, s.Soil.State.Nitrogen, weather.TemperatureC)

	event := drawEvent(rng, s.Economics.EventProbability, s.Region.Characteristics().EventPool, weather)
	if event != nil {
		s.Events = append(s.Events, EventRecord{Week: s.CurrentWeek, Event: *event})
	}

	s.NDVIHistory = append(s.NDVIHistory, s.Crop.State.NDVI)
	s.MoistureHistory = append(s.MoistureHistory, s.Soil.State.Moisture)

	weekPlayed := s.CurrentWeek
	s.CurrentWeek++

	s.Weeks = append(s.Weeks, WeekLog{
		Week:          weekPlayed,
		Input:         in,
		Costs:         costs,
		Weather:       weather,
		NDVI:          s.Crop.State.NDVI,
		Moisture:      s.Soil.State.Moisture,
		Nitrogen:      s.Soil.State.Nitrogen,
		Drainage:      moisture.Drainage,
		OverallStress: growth.OverallStress,
		Health:        growth.Health,
		Stage:         growth.Stage,
		BudgetAfter:   s.Budget,
		Event:         event,
	})

	return WeekResult{
		WeekPlayed: weekPlayed,
		Week:       s.CurrentWeek,
		Budget:     s.Budget,
		Crop:       s.Crop.Snapshot(),
		Soil:       s.Soil.Snapshot(),
		Growth:     growth,
		Moisture:   moisture,
		Costs:      costs,
		Weather:    weather,
		Event:      event,
		Messages:   s.feedback(weekPlayed, growth, moisture, event),
		IsComplete: weekPlayed == s.MaxWeeks,
	}, nil
}

func (s *Session) AcceptLoan() (LoanResult, error) {
	switch {
	case s.Loan.Taken:
		return LoanResult{}, ErrLoanAlreadyTaken
	case s.Phase() == PhaseComplete:
		return LoanResult{}, ErrSessionComplete
	case s.CurrentWeek < s.Economics.LoanEligibleWeek:
		return LoanResult{}, ErrLoanNotEligible
	}

	offer := s.Economics.Offer()
	s.Budget += offer.Amount
	s.Loan = LoanState{Taken: true, Amount: offer.Amount, Week: s.CurrentWeek}
	return LoanResult{
		Success:   true,
		Offer:     offer,
		NewBudget: s.Budget,
		Week:      s.CurrentWeek,
		Message:   "Loan of " + Money(offer.Amount) + " granted. Repay " + Money(offer.Repayment) + " at harvest.",
	}, nil
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:                s.ID,
		Region:            s.Region,
		Crop:              s.Crop.Snapshot(),
		Soil:              s.Soil.Snapshot(),
		Week:              s.CurrentWeek,
		MaxWeeks:          s.MaxWeeks,
		Phase:             s.Phase(),
		Budget:            s.Budget,
		InitialBudget:     s.InitialBudget,
		TotalWaterUsed:    s.TotalWaterUsed,
		TotalNitrogenUsed: s.TotalNitrogenUsed,
		NDVIHistory:       append([]float64(nil), s.NDVIHistory...),
		MoistureHistory:   append([]float64(nil), s.MoistureHistory...),
		Events:            append([]EventRecord{}, s.Events...),
		Loan:              s.Loan,
		LoanAvailable:     s.LoanAvailable(),
		Version:           s.Version,
	}
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.NDVIHistory = append([]float64(nil), s.NDVIHistory...)
	c.MoistureHistory = append([]float64(nil), s.MoistureHistory...)
	c.Events = append([]EventRecord(nil), s.Events...)
	c.Weather = append([]agronomy.WeeklyWeather(nil), s.Weather...)
	c.Weeks = make([]WeekLog, len(s.Weeks))
	for i, w := range s.Weeks {
		if w.Event != nil {
			ev := *w.Event
			w.Event = &ev
		}
		c.Weeks[i] = w
	}
	return &c
}
