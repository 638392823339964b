package domain

import (
	sharedDomain "github.com/retailops/shiftsched/internal/shared/domain"
	"github.com/google/uuid"
)

// WeeklyResultGenerated is published once a WeeklyResult has been fully
// assembled, for external collaborators (persistence, reporting) to
// consume.
type WeeklyResultGenerated struct {
	sharedDomain.BaseEvent
	StartDate string
	EndDate   string
	Store     string
}

// NewWeeklyResultGenerated constructs the event for a completed run.
func NewWeeklyResultGenerated(runID uuid.UUID, result *WeeklyResult) WeeklyResultGenerated {
	return WeeklyResultGenerated{
		BaseEvent: sharedDomain.NewBaseEvent(runID, "WeeklyResult", "scheduling.weekly_result.generated"),
		StartDate: result.StartDate,
		EndDate:   result.EndDate,
		Store:     result.Store,
	}
}

// ComplianceConflictRaised is published when compliance_mode=enforce and the
// validators emitted one or more error-severity violations.
type ComplianceConflictRaised struct {
	sharedDomain.BaseEvent
	ViolationCount int
}

// NewComplianceConflictRaised constructs the event for a run whose
// compliance engine flipped is_compliant to false.
func NewComplianceConflictRaised(runID uuid.UUID, errorViolations int) ComplianceConflictRaised {
	return ComplianceConflictRaised{
		BaseEvent:      sharedDomain.NewBaseEvent(runID, "WeeklyResult", "scheduling.compliance_conflict.raised"),
		ViolationCount: errorViolations,
	}
}
