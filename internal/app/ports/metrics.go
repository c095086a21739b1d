package ports

import "terragrow/internal/domain/season"

type StepMetrics interface {
	RecordStep(result season.WeekResult)
	RecordRejected(kind string)
	RecordFailure()
}

// LoanMetrics counts loan requests apart from weekly steps.
type LoanMetrics interface {
	RecordLoanGranted()
	RecordLoanRejected(reason string)
}
