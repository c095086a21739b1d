package season

import (
	"errors"
	"time"

	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

type Phase string

const (
	PhaseActive   Phase = "active"
	PhaseComplete Phase = "complete"
)

// Economics holds the per-deployment money and calendar knobs injected at
// session creation.
type Economics struct {
	IrrigationCostPerMM float64 `json:"irrigation_cost_per_mm"`
	FertilizerCostPerKg float64 `json:"fertilizer_cost_per_kg"`
	InitialBudget       float64 `json:"initial_budget"`
	SeasonWeeks         int     `json:"season_weeks"`
	LoanAmount          float64 `json:"loan_amount"`
	LoanInterestRate    float64 `json:"loan_interest_rate"`
	LoanEligibleWeek    int     `json:"loan_eligible_week"`
	EventProbability    float64 `json:"event_probability"`
}

func DefaultEconomics() Economics {
	return Economics{
		IrrigationCostPerMM: 3.5,
		FertilizerCostPerKg: 1.2,
		InitialBudget:       2000,
		SeasonWeeks:         12,
		LoanAmount:          500,
		LoanInterestRate:    0.20,
		LoanEligibleWeek:    8,
		EventProbability:    0.15,
	}
}

func (e Economics) Validate() error {
	switch {
	case e.IrrigationCostPerMM < 0 || e.FertilizerCostPerKg < 0:
		return errors.Join(ErrInvalidConfig, errors.New("unit costs must be non-negative"))
	case e.InitialBudget <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("initial budget must be positive"))
	case e.SeasonWeeks <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("season weeks must be positive"))
	case e.LoanAmount < 0 || e.LoanInterestRate < 0:
		return errors.Join(ErrInvalidConfig, errors.New("loan terms must be non-negative"))
	case e.EventProbability < 0 || e.EventProbability > 1:
		return errors.Join(ErrInvalidConfig, errors.New("event probability must be within [0,1]"))
	}
	return nil
}

func (e Economics) Offer() LoanOffer {
	return LoanOffer{
		Amount:       e.LoanAmount,
		InterestRate: e.LoanInterestRate,
		Repayment:    e.LoanAmount * (1 + e.LoanInterestRate),
	}
}

type LoanOffer struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	Repayment    float64 `json:"repayment"`
}

type LoanState struct {
	Taken  bool    `json:"taken"`
	Amount float64 `json:"amount"`
	Week   int     `json:"week"`
}

type LoanResult struct {
	Success   bool      `json:"success"`
	Offer     LoanOffer `json:"loan_option"`
	NewBudget float64   `json:"new_budget"`
	Week      int       `json:"week"`
	Message   string    `json:"message"`
}

type Event struct {
	Type        region.EventType `json:"type"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Effect      string           `json:"effect"`
}

type EventRecord struct {
	Week  int   `json:"week"`
	Event Event `json:"event"`
}

type MessageType string

const (
	MessageSuccess MessageType = "success"
	MessageWarning MessageType = "warning"
	MessageDanger  MessageType = "danger"
	MessageInfo    MessageType = "info"
	MessageEvent   MessageType = "event"
)

type Message struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

type StepInput struct {
	IrrigationMM float64 `json:"irrigation_mm"`
	FertilizerKG float64 `json:"fertilizer_kg"`
}

type Costs struct {
	Irrigation float64 `json:"irrigation"`
	Fertilizer float64 `json:"fertilizer"`
	Total      float64 `json:"total"`
}

type WeekResult struct {
	WeekPlayed int                     `json:"week_played"`
	Week       int                     `json:"week"`
	Budget     float64                 `json:"budget"`
	Crop       agronomy.CropSnapshot   `json:"crop"`
	Soil       agronomy.SoilSnapshot   `json:"soil"`
	Growth     agronomy.GrowthReport   `json:"growth"`
	Moisture   agronomy.MoistureUpdate `json:"moisture"`
	Costs      Costs                   `json:"costs"`
	Weather    agronomy.WeeklyWeather  `json:"weather"`
	Event      *Event                  `json:"event,omitempty"`
	Messages   []Message               `json:"messages"`
	IsComplete bool                    `json:"is_complete"`
}

// WeekLog is the compact per-week record kept for replay.
type WeekLog struct {
	Week          int                    `json:"week"`
	Input         StepInput              `json:"input"`
	Costs         Costs                  `json:"costs"`
	Weather       agronomy.WeeklyWeather `json:"weather"`
	NDVI          float64                `json:"ndvi"`
	Moisture      float64                `json:"moisture"`
	Nitrogen      float64                `json:"nitrogen"`
	Drainage      float64                `json:"drainage"`
	OverallStress float64                `json:"overall_stress"`
	Health        agronomy.Health        `json:"health"`
	Stage         string                 `json:"stage"`
	BudgetAfter   float64                `json:"budget_after"`
	Event         *Event                 `json:"event,omitempty"`
}

type SessionConfig struct {
	ID        string
	Region    region.Profile
	Crop      agronomy.CropParameters
	Soil      agronomy.SoilParameters
	Economics Economics
	Weather   []agronomy.WeeklyWeather
	Now       time.Time
}

type Snapshot struct {
	ID                string                `json:"session_id"`
	Region            region.Profile        `json:"region"`
	Crop              agronomy.CropSnapshot `json:"crop"`
	Soil              agronomy.SoilSnapshot `json:"soil"`
	Week              int                   `json:"week"`
	MaxWeeks          int                   `json:"max_weeks"`
	Phase             Phase                 `json:"phase"`
	Budget            float64               `json:"budget"`
	InitialBudget     float64               `json:"initial_budget"`
	TotalWaterUsed    float64               `json:"total_water_used"`
	TotalNitrogenUsed float64               `json:"total_nitrogen_used"`
	NDVIHistory       []float64             `json:"ndvi_history"`
	MoistureHistory   []float64             `json:"moisture_history"`
	Events            []EventRecord         `json:"events"`
	Loan              LoanState             `json:"loan"`
	LoanAvailable     bool                  `json:"loan_available"`
	Version           int64                 `json:"version"`
}
