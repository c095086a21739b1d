package inmemory

import (
	"sync"

	"terragrow/internal/domain/season"
)

type Snapshot struct {
	StepTotal       uint64            `json:"step_total"`
	StepSuccess     uint64            `json:"step_success"`
	StepRejected    uint64            `json:"step_rejected"`
	StepFailure     uint64            `json:"step_failure"`
	Completed       uint64            `json:"seasons_completed"`
	EventsFired     uint64            `json:"events_fired"`
	LoansGranted    uint64            `json:"loans_granted"`
	LoansRejected   uint64            `json:"loans_rejected"`
	ByHealth        map[string]uint64 `json:"by_health"`
	ByRejection     map[string]uint64 `json:"by_rejection"`
	ByEvent         map[string]uint64 `json:"by_event"`
	ByLoanRejection map[string]uint64 `json:"by_loan_rejection"`
}

type Recorder struct {
	mu              sync.Mutex
	success         uint64
	rejected        uint64
	failure         uint64
	completed       uint64
	events          uint64
	loansGranted    uint64
	loansRejected   uint64
	byHealth        map[string]uint64
	byRejection     map[string]uint64
	byEvent         map[string]uint64
	byLoanRejection map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byHealth:        map[string]uint64{},
		byRejection:     map[string]uint64{},
		byEvent:         map[string]uint64{},
		byLoanRejection: map[string]uint64{},
	}
}

func (r *Recorder) RecordStep(result season.WeekResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.byHealth[string(result.Growth.Health)]++
	if result.Event != nil {
		r.events++
		r.byEvent[string(result.Event.Type)]++
	}
	if result.IsComplete {
		r.completed++
	}
}

func (r *Recorder) RecordRejected(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.byRejection[kind]++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) RecordLoanGranted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loansGranted++
}

func (r *Recorder) RecordLoanRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loansRejected++
	r.byLoanRejection[reason]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		StepSuccess:     r.success,
		StepRejected:    r.rejected,
		StepFailure:     r.failure,
		StepTotal:       r.success + r.rejected + r.failure,
		Completed:       r.completed,
		EventsFired:     r.events,
		LoansGranted:    r.loansGranted,
		LoansRejected:   r.loansRejected,
		ByHealth:        copyCounts(r.byHealth),
		ByRejection:     copyCounts(r.byRejection),
		ByEvent:         copyCounts(r.byEvent),
		ByLoanRejection: copyCounts(r.byLoanRejection),
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
