// Package infrastructure adapts the scheduling pipeline to durable storage.
// Today that means an encrypted-at-rest roster cache; a WeeklyResult
// repository is a known gap (see DESIGN.md).
package infrastructure

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/retailops/shiftsched/internal/scheduling/domain"
	"github.com/retailops/shiftsched/internal/shared/infrastructure/crypto"
	"github.com/retailops/shiftsched/internal/shared/infrastructure/security"
)

// RosterCache persists a parsed employee roster to disk and reads it back.
// Load rebuilds each employee through domain.NewEmployee, so cached records
// are validated again on every load. Employee records carry PII (date of
// birth, pay rate), so the cache is encrypted at rest whenever an
// Encrypter is configured.
type RosterCache struct {
	encrypter crypto.Encrypter
}

// NewRosterCache constructs a RosterCache. A nil encrypter writes the cache
// as plain JSON, which is only appropriate for local development.
func NewRosterCache(encrypter crypto.Encrypter) *RosterCache {
	return &RosterCache{encrypter: encrypter}
}

type cachedSlot struct {
	DayOfWeek domain.DayOfWeek `json:"day_of_week"`
	StartMin  int              `json:"start_min"`
	EndMin    int              `json:"end_min"`
}

type cachedEmployee struct {
	Name           string       `json:"name"`
	HourlyRate     float64      `json:"hourly_rate"`
	WeeklyMinHours float64      `json:"weekly_min_hours"`
	ShiftMinHours  float64      `json:"shift_min_hours"`
	ShiftMaxHours  float64      `json:"shift_max_hours"`
	DateOfBirth    string       `json:"date_of_birth,omitempty"`
	ExplicitMinor  bool         `json:"explicit_minor"`
	Availability   []cachedSlot `json:"availability"`
}

type cachedRoster struct {
	CachedAt  time.Time        `json:"cached_at"`
	Employees []cachedEmployee `json:"employees"`
}

// Save writes employees to path, AES-GCM encrypting the JSON payload when
// the cache has an Encrypter configured.
func (c *RosterCache) Save(path string, employees []domain.Employee) error {
	cleanPath, err := security.ValidateFilePath(path)
	if err != nil {
		return fmt.Errorf("roster cache path: %w", err)
	}

	roster := cachedRoster{CachedAt: time.Now(), Employees: make([]cachedEmployee, 0, len(employees))}
	for _, e := range employees {
		ce := cachedEmployee{
			Name:           e.Name,
			HourlyRate:     e.HourlyRate,
			WeeklyMinHours: e.WeeklyMinHours,
			ShiftMinHours:  e.ShiftMinHours,
			ShiftMaxHours:  e.ShiftMaxHours,
			ExplicitMinor:  e.ExplicitMinor,
		}
		if e.DateOfBirth != nil {
			ce.DateOfBirth = e.DateOfBirth.Format("2006-01-02")
		}
		for _, slot := range e.Availability {
			ce.Availability = append(ce.Availability, cachedSlot{
				DayOfWeek: slot.DayOfWeek,
				StartMin:  slot.StartMin,
				EndMin:    slot.EndMin,
			})
		}
		roster.Employees = append(roster.Employees, ce)
	}

	payload, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("encoding roster cache: %w", err)
	}

	if c.encrypter != nil {
		payload, err = c.encrypter.Encrypt(payload)
		if err != nil {
			return fmt.Errorf("encrypting roster cache: %w", err)
		}
	}

	return os.WriteFile(cleanPath, payload, 0o600)
}

// Load reads and, if the cache has an Encrypter configured, decrypts a
// roster previously written by Save.
func (c *RosterCache) Load(path string) ([]domain.Employee, error) {
	raw, err := security.SafeReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster cache: %w", err)
	}

	if c.encrypter != nil {
		raw, err = c.encrypter.Decrypt(raw)
		if err != nil {
			return nil, fmt.Errorf("decrypting roster cache: %w", err)
		}
	}

	var roster cachedRoster
	if err := json.Unmarshal(raw, &roster); err != nil {
		return nil, fmt.Errorf("decoding roster cache: %w", err)
	}

	employees := make([]domain.Employee, 0, len(roster.Employees))
	for _, ce := range roster.Employees {
		var dob *time.Time
		if ce.DateOfBirth != "" {
			parsed, err := time.Parse("2006-01-02", ce.DateOfBirth)
			if err != nil {
				return nil, fmt.Errorf("roster cache employee %s: %w", ce.Name, err)
			}
			dob = &parsed
		}

		slots := make([]domain.AvailabilitySlot, 0, len(ce.Availability))
		for _, s := range ce.Availability {
			slots = append(slots, domain.AvailabilitySlot{DayOfWeek: s.DayOfWeek, StartMin: s.StartMin, EndMin: s.EndMin})
		}

		emp, err := domain.NewEmployee(ce.Name, ce.HourlyRate, ce.WeeklyMinHours, ce.ShiftMinHours, ce.ShiftMaxHours, dob, ce.ExplicitMinor, slots)
		if err != nil {
			return nil, fmt.Errorf("roster cache employee %s: %w", ce.Name, err)
		}
		employees = append(employees, *emp)
	}
	return employees, nil
}
