package builtin

import (
	"fmt"
	"os"
	"strings"

	"github.com/retailops/shiftsched/internal/scheduling/domain"
)

// writeTextModel renders a human-readable dump of a ScheduleProblem, used by
// backends that have no native MILP model file to export.
func writeTextModel(path string, problem *domain.ScheduleProblem) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "date: %s\n", problem.Date)
	fmt.Fprintf(&sb, "periods: %d\n", problem.PeriodCount)
	fmt.Fprintf(&sb, "employees: %d\n", len(problem.Employees))
	fmt.Fprintln(&sb, "min_staff:")
	for t, n := range problem.MinStaff {
		fmt.Fprintf(&sb, "  t=%d min=%d\n", t, n)
	}
	fmt.Fprintln(&sb, "employees:")
	for _, e := range problem.Employees {
		fmt.Fprintf(&sb, "  %s rate=%.2f min_hours=%.2f max_hours=%.2f minor=%v\n",
			e, problem.Rate[e], problem.ShiftMinHours[e], problem.ShiftMaxHours[e], problem.Minor[e])
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// writeIISReport renders the set of periods that no combination of
// employees can staff to the required floor, regardless of shift placement.
func writeIISReport(path string, uncoverable []domain.Period) error {
	var sb strings.Builder
	fmt.Fprintln(&sb, "irreducibly inconsistent periods:")
	if len(uncoverable) == 0 {
		fmt.Fprintln(&sb, "  none")
	}
	for _, p := range uncoverable {
		fmt.Fprintf(&sb, "  t=%d\n", int(p))
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}
