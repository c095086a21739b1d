package season

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid session config")
	ErrInvalidInput       = errors.New("invalid step input")
	ErrSessionComplete    = errors.New("session complete")
	ErrSessionNotComplete = errors.New("session not complete")
	ErrInsufficientBudget = errors.New("insufficient budget")
	ErrLoanAlreadyTaken   = errors.New("loan already taken")
	ErrLoanNotEligible    = errors.New("loan not eligible")
)

// InsufficientBudgetError leaves the session untouched. Offer is set when the
// caller may accept a loan and retry the same step.
type InsufficientBudgetError struct {
	Required  float64
	Available float64
	Offer     *LoanOffer
}

func (e *InsufficientBudgetError) Error() string {
	return ErrInsufficientBudget.Error()
}

func (e *InsufficientBudgetError) Unwrap() error {
	return ErrInsufficientBudget
}
