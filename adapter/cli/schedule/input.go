// Package schedule provides the "run" command that drives the weekly
// schedule generation pipeline from a JSON input file: the roster, the
// store's operating calendar, staffing requirements, and any manager-placed
// locked assignments.
package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/retailops/shiftsched/internal/scheduling/application"
	"github.com/retailops/shiftsched/internal/scheduling/domain"
	"github.com/retailops/shiftsched/internal/shared/infrastructure/security"
)

// inputFile is the on-disk JSON shape schedgen run reads. Its field types
// are plain strings and numbers so a scheduling coordinator can hand-author
// or script one without depending on the domain package's Go types.
type inputFile struct {
	StartDate    string              `json:"start_date"`
	EndDate      string              `json:"end_date"`
	Store        string              `json:"store"`
	PublishedAt  string              `json:"published_at"`
	Jurisdiction string              `json:"jurisdiction"`
	Days         []storeDayInput     `json:"days"`
	Requirements []requirementInput  `json:"staffing_requirements"`
	Employees    []employeeInput     `json:"employees"`
	Locked       []lockedInput       `json:"locked_assignments"`
}

type storeDayInput struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	OpenTime  string `json:"open_time"`  // "HH:MM"
	CloseTime string `json:"close_time"` // "HH:MM"
}

type requirementInput struct {
	DayType      string `json:"day_type"` // "weekday" or "weekend"
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	MinimumStaff int    `json:"minimum_staff"`
}

type employeeInput struct {
	Name           string              `json:"name"`
	HourlyRate     float64             `json:"hourly_rate"`
	WeeklyMinHours float64             `json:"weekly_min_hours"`
	ShiftMinHours  float64             `json:"shift_min_hours"`
	ShiftMaxHours  float64             `json:"shift_max_hours"`
	DateOfBirth    string              `json:"date_of_birth"` // "YYYY-MM-DD", optional
	ExplicitMinor  bool                `json:"explicit_minor"`
	Availability   []availabilityInput `json:"availability"`
}

type availabilityInput struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type lockedInput struct {
	Employee string         `json:"employee"`
	Date     string         `json:"date"`
	Periods  []int          `json:"periods"`
}

// loadWeekInput reads and converts an input file into the application
// layer's WeekInput, resolving wall-clock strings against each store day's
// period grid.
func loadWeekInput(path string) (application.WeekInput, error) {
	raw, err := security.SafeReadFile(path)
	if err != nil {
		return application.WeekInput{}, fmt.Errorf("reading input file: %w", err)
	}

	var f inputFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return application.WeekInput{}, fmt.Errorf("parsing input file: %w", err)
	}

	days := make(map[string]domain.StoreDay, len(f.Days))
	for _, d := range f.Days {
		dow, err := parseDayOfWeek(d.DayOfWeek)
		if err != nil {
			return application.WeekInput{}, err
		}
		openMin, err := domain.ParseClock(d.OpenTime)
		if err != nil {
			return application.WeekInput{}, fmt.Errorf("store day %s: %w", d.Date, err)
		}
		closeMin, err := domain.ParseClock(d.CloseTime)
		if err != nil {
			return application.WeekInput{}, fmt.Errorf("store day %s: %w", d.Date, err)
		}
		jurisdiction := f.Jurisdiction
		storeDay, err := domain.NewStoreDay(dow, openMin, closeMin, jurisdiction)
		if err != nil {
			return application.WeekInput{}, fmt.Errorf("store day %s: %w", d.Date, err)
		}
		days[d.Date] = *storeDay
	}

	requirements := make(map[domain.DayType][]domain.StaffingRequirement)
	for _, r := range f.Requirements {
		dayType := domain.Weekday
		if strings.EqualFold(r.DayType, "weekend") {
			dayType = domain.Weekend
		}
		startMin, err := domain.ParseClock(r.StartTime)
		if err != nil {
			return application.WeekInput{}, err
		}
		endMin, err := domain.ParseClock(r.EndTime)
		if err != nil {
			return application.WeekInput{}, err
		}
		requirements[dayType] = append(requirements[dayType], domain.StaffingRequirement{
			DayType:      dayType,
			StartMin:     startMin,
			EndMin:       endMin,
			MinimumStaff: r.MinimumStaff,
		})
	}

	employees := make([]domain.Employee, 0, len(f.Employees))
	for _, e := range f.Employees {
		var dob *time.Time
		if e.DateOfBirth != "" {
			parsed, err := time.Parse("2006-01-02", e.DateOfBirth)
			if err != nil {
				return application.WeekInput{}, fmt.Errorf("employee %s date_of_birth: %w", e.Name, err)
			}
			dob = &parsed
		}

		slots := make([]domain.AvailabilitySlot, 0, len(e.Availability))
		for _, a := range e.Availability {
			dow, err := parseDayOfWeek(a.DayOfWeek)
			if err != nil {
				return application.WeekInput{}, fmt.Errorf("employee %s availability: %w", e.Name, err)
			}
			startMin, err := domain.ParseClock(a.StartTime)
			if err != nil {
				return application.WeekInput{}, err
			}
			endMin, err := domain.ParseClock(a.EndTime)
			if err != nil {
				return application.WeekInput{}, err
			}
			slots = append(slots, domain.AvailabilitySlot{DayOfWeek: dow, StartMin: startMin, EndMin: endMin})
		}

		emp, err := domain.NewEmployee(e.Name, e.HourlyRate, e.WeeklyMinHours, e.ShiftMinHours, e.ShiftMaxHours, dob, e.ExplicitMinor, slots)
		if err != nil {
			return application.WeekInput{}, fmt.Errorf("employee %s: %w", e.Name, err)
		}
		employees = append(employees, *emp)
	}

	locked := make([]domain.LockedAssignment, 0, len(f.Locked))
	for _, l := range f.Locked {
		periods := make(map[domain.Period]bool, len(l.Periods))
		for _, p := range l.Periods {
			periods[domain.Period(p)] = true
		}
		locked = append(locked, domain.LockedAssignment{EmployeeName: l.Employee, Date: l.Date, Periods: periods})
	}

	publishedAt := time.Now()
	if f.PublishedAt != "" {
		parsed, err := time.Parse("2006-01-02", f.PublishedAt)
		if err != nil {
			return application.WeekInput{}, fmt.Errorf("published_at: %w", err)
		}
		publishedAt = parsed
	}

	return application.WeekInput{
		StartDate:    f.StartDate,
		EndDate:      f.EndDate,
		Store:        f.Store,
		Days:         days,
		Requirements: requirements,
		Employees:    employees,
		Locked:       locked,
		PublishedAt:  publishedAt,
	}, nil
}

func parseDayOfWeek(s string) (domain.DayOfWeek, error) {
	switch strings.ToLower(s) {
	case "monday":
		return domain.Monday, nil
	case "tuesday":
		return domain.Tuesday, nil
	case "wednesday":
		return domain.Wednesday, nil
	case "thursday":
		return domain.Thursday, nil
	case "friday":
		return domain.Friday, nil
	case "saturday":
		return domain.Saturday, nil
	case "sunday":
		return domain.Sunday, nil
	default:
		return 0, fmt.Errorf("invalid day of week %q", s)
	}
}
