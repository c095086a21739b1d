package season

import (
	"fmt"
	"math"

	"terragrow/internal/domain/agronomy"
	"terragrow/internal/domain/region"
)

type ScoreReport struct {
	Yield              float64   `json:"yield"`
	YieldUnit          string    `json:"yield_unit"`
	Revenue            float64   `json:"revenue"`
	TotalCosts         float64   `json:"total_costs"`
	LoanTaken          bool      `json:"loan_taken"`
	LoanRepayment      float64   `json:"loan_repayment"`
	Profit             float64   `json:"profit"`
	WaterEfficiency    float64   `json:"water_efficiency"`
	NitrogenEfficiency float64   `json:"nitrogen_efficiency"`
	Sustainability     float64   `json:"sustainability_score"`
	Stars              int       `json:"stars"`
	RegionalAvg        float64   `json:"regional_avg"`
	YieldDiff          float64   `json:"yield_diff"`
	BudgetRemaining    float64   `json:"budget_remaining"`
	Recommendations    []Message `json:"recommendations"`
	NDVIHistory        []float64 `json:"ndvi_history"`
	MoistureHistory    []float64 `json:"moisture_history"`
}

const (
	goodAvgNDVI      = 0.65
	poorAvgNDVI      = 0.5
	frugalWaterMM    = 300.0
	excessiveWaterMM = 600.0
)

func Finalize(s *Session) (ScoreReport, error) {
	if s.Phase() != PhaseComplete {
		return ScoreReport{}, ErrSessionNotComplete
	}

	yield := s.Crop.Yield()
	revenue := s.Crop.Revenue()
	totalCosts := s.InitialBudget - s.Budget
	repayment := 0.0
	if s.Loan.Taken {
		repayment = s.Loan.Amount * (1 + s.Economics.LoanInterestRate)
	}

	waterEff := 0.0
	if s.TotalWaterUsed > 0 {
		waterEff = yield / (s.TotalWaterUsed / 100)
	}
	nitrogenEff := 0.0
	if s.TotalNitrogenUsed > 0 {
		nitrogenEff = math.Min(100, yield/s.TotalNitrogenUsed*50)
	}
	budgetShare := 0.0
	if s.InitialBudget > 0 {
		budgetShare = s.Budget / s.InitialBudget * 100
	}
	sustainability := nitrogenEff*0.4 + math.Min(100, waterEff*20)*0.4 + budgetShare*0.2

	regional := region.RegionalAverageYield(s.Region.Climate)

	return ScoreReport{
		Yield:              yield,
		YieldUnit:          "t/ha",
		Revenue:            revenue,
		TotalCosts:         totalCosts,
		LoanTaken:          s.Loan.Taken,
		LoanRepayment:      repayment,
		Profit:             revenue - totalCosts - repayment,
		WaterEfficiency:    waterEff,
		NitrogenEfficiency: nitrogenEff,
		Sustainability:     sustainability,
		Stars:              Stars(yield, sustainability),
		RegionalAvg:        regional,
		YieldDiff:          (yield/regional - 1) * 100,
		BudgetRemaining:    s.Budget,
		Recommendations:    s.recommendations(),
		NDVIHistory:        append([]float64(nil), s.NDVIHistory...),
		MoistureHistory:    append([]float64(nil), s.MoistureHistory...),
	}, nil
}

func Stars(yield, sustainability float64) int {
	combined := yield/agronomy.MaxYieldTonsPerHa*50 + sustainability/100*50
	switch {
	case combined >= 80:
		return 5
	case combined >= 65:
		return 4
	case combined >= 50:
		return 3
	case combined >= 35:
		return 2
	default:
		return 1
	}
}

func (s *Session) recommendations() []Message {
	recs := []Message{}

	if len(s.NDVIHistory) > 0 {
		sum := 0.0
		for _, v := range s.NDVIHistory {
			sum += v
		}
		avg := sum / float64(len(s.NDVIHistory))
		switch {
		case avg >= goodAvgNDVI:
			recs = append(recs, Message{Type: MessageSuccess, Text: fmt.Sprintf("Excellent: average NDVI held at %.2f!", avg)})
		case avg < poorAvgNDVI:
			recs = append(recs, Message{Type: MessageWarning, Text: fmt.Sprintf("Low average NDVI %.2f. Increase irrigation and fertilization.", avg)})
		}
	}

	switch {
	case s.TotalWaterUsed < frugalWaterMM:
		recs = append(recs, Message{Type: MessageInfo, Text: fmt.Sprintf("Frugal water use (%.0fmm). Good for sustainability!", s.TotalWaterUsed)})
	case s.TotalWaterUsed > excessiveWaterMM:
		recs = append(recs, Message{Type: MessageWarning, Text: fmt.Sprintf("High water use (%.0fmm). Optimize irrigation.", s.TotalWaterUsed)})
	}

	if tip := s.Region.Advisory(); tip != "" {
		recs = append(recs, Message{Type: MessageInfo, Text: tip})
	}
	return recs
}
