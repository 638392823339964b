// Package compliance implements the Availability Mask Builder and the
// Compliance Validation Engine: the pre-filter that narrows each employee's
// raw availability down to what a solver backend may legally assign, and
// the post-validator that inspects a composed WeeklyResult for anything the
// pre-filter couldn't catch (weekly aggregates, predictive-notice timing).
package compliance

import (
	"time"

	"github.com/retailops/shiftsched/internal/scheduling/domain"
)

// Mode controls how the compliance engine reacts to a violation it finds.
type Mode int

const (
	// ModeOff skips both the pre-filter and the post-validators entirely;
	// only raw availability constrains the solver.
	ModeOff Mode = iota
	// ModeWarn runs pre-filter and validators but never flips IsCompliant
	// to false; every finding is recorded at warning severity.
	ModeWarn
	// ModeEnforce runs pre-filter and validators at full severity; any
	// error-severity violation flips IsCompliant to false.
	ModeEnforce
)

// BuildAvailabilityMask narrows an employee's raw per-period availability
// down to the periods a solver backend may legally assign, applying first
// the minor filter (curfew + earliest-start) and then the rest filter
// (periods too close to the employee's previous scheduled shift end). The
// ordering matters: rest exclusion is computed against the already
// minor-filtered calendar, matching the pipeline's raw -> minor -> rest
// narrowing order.
func BuildAvailabilityMask(raw []bool, openMinutes int, isMinor bool, rules domain.ComplianceRules, previousShiftEnd *time.Time, asOf time.Time, mode Mode) []bool {
	mask := make([]bool, len(raw))
	copy(mask, raw)

	if mode == ModeOff {
		return mask
	}

	if isMinor {
		applyMinorFilter(mask, openMinutes, rules)
	}

	if previousShiftEnd != nil {
		applyRestFilter(mask, openMinutes, asOf, rules, *previousShiftEnd)
	}

	return mask
}

// applyMinorFilter clears periods that start before the jurisdiction's
// earliest-start boundary or at/after the curfew boundary.
func applyMinorFilter(mask []bool, openMinutes int, rules domain.ComplianceRules) {
	for p := range mask {
		start := (openMinutes + p*domain.PeriodMinutes) % (24 * 60)
		if start < rules.MinorEarliestMin {
			mask[p] = false
		}
		if start >= rules.MinorCurfewEndMin {
			mask[p] = false
		}
	}
}

// applyRestFilter clears periods that would start less than MinRestHours
// after the end of the employee's previous scheduled shift.
func applyRestFilter(mask []bool, openMinutes int, day time.Time, rules domain.ComplianceRules, previousShiftEnd time.Time) {
	restCutoff := previousShiftEnd.Add(time.Duration(rules.MinRestHours * float64(time.Hour)))
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	for p := range mask {
		periodStart := dayStart.Add(time.Duration(openMinutes+p*domain.PeriodMinutes) * time.Minute)
		if periodStart.Before(restCutoff) {
			mask[p] = false
		}
	}
}
