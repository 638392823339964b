package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidEmployee is returned when an employee record fails its own
// invariants (negative rate, end <= start availability slot, and so on).
var ErrInvalidEmployee = errors.New("invalid employee record")

// AvailabilitySlot is a single [start,end) wall-clock window during which an
// employee is available on a given day of week. A period is available to an
// employee iff it lies entirely within some slot for that day.
type AvailabilitySlot struct {
	DayOfWeek  DayOfWeek
	StartMin   int // minutes since midnight
	EndMin     int // minutes since midnight
}

func (s AvailabilitySlot) covers(periodStartMin, periodEndMin int) bool {
	return periodStartMin >= s.StartMin && periodEndMin <= s.EndMin
}

// Employee is the scheduling unit: a named worker with a pay rate, shift
// length bounds, and a weekly availability calendar. Name is the stable
// identity within a run.
type Employee struct {
	ID              uuid.UUID
	Name            string
	HourlyRate      float64
	WeeklyMinHours  float64
	ShiftMinHours   float64
	ShiftMaxHours   float64
	DateOfBirth     *time.Time
	ExplicitMinor   bool
	Availability    []AvailabilitySlot
}

// NewEmployee validates and constructs an Employee.
func NewEmployee(name string, hourlyRate, weeklyMinHours, shiftMinHours, shiftMaxHours float64, dob *time.Time, explicitMinor bool, availability []AvailabilitySlot) (*Employee, error) {
	if name == "" {
		return nil, errors.Join(ErrInvalidEmployee, errors.New("name must not be empty"))
	}
	if hourlyRate < 0 {
		return nil, errors.Join(ErrInvalidEmployee, errors.New("hourly rate must be >= 0"))
	}
	for _, slot := range availability {
		if slot.EndMin <= slot.StartMin {
			return nil, errors.Join(ErrInvalidEmployee, errors.New("availability slot end must be after start"))
		}
	}
	return &Employee{
		ID:             uuid.New(),
		Name:           name,
		HourlyRate:     hourlyRate,
		WeeklyMinHours: weeklyMinHours,
		ShiftMinHours:  shiftMinHours,
		ShiftMaxHours:  shiftMaxHours,
		DateOfBirth:    dob,
		ExplicitMinor:  explicitMinor,
		Availability:   availability,
	}, nil
}

// IsMinor derives minor status from date of birth against the jurisdiction's
// age threshold, unless explicitly overridden true.
func (e *Employee) IsMinor(asOf time.Time, ageThreshold int) bool {
	if e.ExplicitMinor {
		return true
	}
	if e.DateOfBirth == nil {
		return false
	}
	age := asOf.Year() - e.DateOfBirth.Year()
	if asOf.YearDay() < e.DateOfBirth.YearDay() {
		age--
	}
	return age < ageThreshold
}

// AvailableAt reports whether period p (length PeriodMinutes, starting at
// openMinutes + p*PeriodMinutes) lies entirely within one of the employee's
// slots for the given day of week.
func (e *Employee) AvailableAt(day DayOfWeek, openMinutes int, p Period) bool {
	startMin := (openMinutes + int(p)*PeriodMinutes) % (24 * 60)
	endMin := startMin + PeriodMinutes
	for _, slot := range e.Availability {
		if slot.DayOfWeek != day {
			continue
		}
		if slot.covers(startMin, endMin) {
			return true
		}
	}
	return false
}
