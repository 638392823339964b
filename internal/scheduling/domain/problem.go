package domain

import "errors"

// ErrInvalidProblem is returned when a ScheduleProblem fails the shape
// invariants required by a solver backend.
var ErrInvalidProblem = errors.New("invalid schedule problem")

// ScheduleProblem is the materialized input to a solver backend for a
// single day: employees, the period grid, availability, rates, staffing
// floors, locks, and minor-marking metadata.
type ScheduleProblem struct {
	Date         string // ISO YYYY-MM-DD
	Employees    []string
	PeriodCount  int
	Availability map[string][]bool // emp -> bool[T], already minor/rest pre-filtered
	Rate         map[string]float64
	MinStaff     []int // len T
	Locked       map[string]map[Period]bool
	Minor        map[string]bool
	CurfewPeriod *Period // nil if curfew boundary lies outside the day
	EarliestPeriod *Period

	ShiftMinHours map[string]float64
	ShiftMaxHours map[string]float64

	MealBreakEnabled         bool
	MealBreakAfterHours      float64
	MealBreakDurationMinutes int
}

// Validate checks the ScheduleProblem shape invariants named in the data
// model: availability and min-staff vectors must have length T for every
// employee.
func (p *ScheduleProblem) Validate() error {
	if p.PeriodCount <= 0 {
		return errors.Join(ErrInvalidProblem, errors.New("period count must be positive"))
	}
	if len(p.MinStaff) != p.PeriodCount {
		return errors.Join(ErrInvalidProblem, errors.New("min_staff length must equal period count"))
	}
	for _, e := range p.Employees {
		if len(p.Availability[e]) != p.PeriodCount {
			return errors.Join(ErrInvalidProblem, errors.New("availability length must equal period count for employee "+e))
		}
	}
	return nil
}

// SolverStatus is the status a backend reports for a solve attempt.
type SolverStatus int

const (
	StatusOptimal SolverStatus = iota
	StatusSuboptimal
	StatusInfeasible
	StatusError
)

func (s SolverStatus) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusSuboptimal:
		return "suboptimal"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "error"
	}
}

// SolverConfig parameterizes a single solve call: backend selector, time
// limit, and cost weights.
type SolverConfig struct {
	TimeLimitSeconds  float64
	DummyCost         float64
	ShortShiftPenalty float64
	MinShiftHours     float64
}

// SolverResult is the raw output of a solver backend, only meaningful when
// Status is optimal or suboptimal.
type SolverResult struct {
	Status     SolverStatus
	Objective  float64
	Assign     map[string][]bool // emp -> bool[T]
	Dummy      []float64         // len T
	ShortShift map[string]float64
	Break      map[string]map[Period]bool
	SolveTime  float64 // seconds
}
