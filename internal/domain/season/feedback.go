package season

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"terragrow/internal/domain/agronomy"
)

const (
	budgetCriticalRatio = 0.15
	loanReminderRatio   = 0.25
	aridTipLastWeek     = 3
	nitrogenTipFirst    = 4
	nitrogenTipLast     = 7
)

func Money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func (s *Session) feedback(weekPlayed int, growth agronomy.GrowthReport, moisture agronomy.MoistureUpdate, event *Event) []Message {
	var msgs []Message

	switch growth.Health {
	case agronomy.HealthHealthy:
		msgs = append(msgs, Message{Type: MessageSuccess, Text: fmt.Sprintf("Healthy crop! NDVI %.2f", growth.NDVI)})
	case agronomy.HealthStressed:
		msgs = append(msgs, Message{Type: MessageWarning, Text: fmt.Sprintf("Crop under stress. NDVI %.2f", growth.NDVI)})
	default:
		msgs = append(msgs, Message{Type: MessageDanger, Text: fmt.Sprintf("Critical crop condition! NDVI %.2f", growth.NDVI)})
	}

	switch moisture.Status {
	case agronomy.MoistureCritical:
		msgs = append(msgs, Message{Type: MessageDanger, Text: fmt.Sprintf("Critical soil moisture %.1f%%! Irrigate now", moisture.Moisture)})
	case agronomy.MoistureLow:
		msgs = append(msgs, Message{Type: MessageWarning, Text: fmt.Sprintf("Low soil moisture %.1f%%", moisture.Moisture)})
	}

	if moisture.Drainage > agronomy.LeachingWarnDrainageMM {
		msgs = append(msgs, Message{Type: MessageInfo, Text: fmt.Sprintf("Nutrient leaching: %.1f kg N/ha", moisture.NitrogenLeached)})
	}

	if event != nil {
		msgs = append(msgs, Message{Type: MessageEvent, Text: event.Name + ": " + event.Description})
	}

	if weekPlayed <= aridTipLastWeek && s.Region.IsArid() {
		msgs = append(msgs, Message{Type: MessageInfo, Text: "Arid climate: irrigate early so the crop establishes before the heat."})
	}
	if weekPlayed >= nitrogenTipFirst && weekPlayed <= nitrogenTipLast {
		msgs = append(msgs, Message{Type: MessageInfo, Text: fmt.Sprintf("Vegetative peak: the crop needs %.1f kg N/ha this week.", growth.NitrogenRequirement)})
	}

	if s.Budget < s.InitialBudget*budgetCriticalRatio {
		msgs = append(msgs, Message{Type: MessageDanger, Text: "Budget critical: " + Money(s.Budget) + " left"})
	}
	if s.LoanAvailable() && s.Budget < s.InitialBudget*loanReminderRatio {
		offer := s.Economics.Offer()
		msgs = append(msgs, Message{Type: MessageInfo, Text: fmt.Sprintf("Emergency loan available: %s at %.0f%% interest", Money(offer.Amount), offer.InterestRate*100)})
	}

	if growth.ConsecutiveStress >= agronomy.ChronicStressWeeks {
		msgs = append(msgs, Message{Type: MessageDanger, Text: fmt.Sprintf("Crop stressed for %d consecutive weeks. Damage is accumulating.", growth.ConsecutiveStress)})
	}
	return msgs
}
