package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/retailops/shiftsched/internal/scheduling/application"
	"github.com/retailops/shiftsched/internal/scheduling/compliance"
	"github.com/retailops/shiftsched/internal/scheduling/domain"
	schedinfra "github.com/retailops/shiftsched/internal/scheduling/infrastructure"
	"github.com/retailops/shiftsched/internal/shared/infrastructure/crypto"
	"github.com/retailops/shiftsched/internal/shared/infrastructure/eventbus"
	"github.com/retailops/shiftsched/internal/solver/builtin"
	"github.com/retailops/shiftsched/internal/solver/registry"
	"github.com/retailops/shiftsched/internal/solver/sdk"
	"github.com/spf13/cobra"
)

var (
	inputPath        string
	outputPath       string
	backendFlag      string
	complianceFlag   string
	timeLimitSeconds float64
	dummyCost        float64
	shortShiftWeight float64
	minShiftHours    float64
	rosterCacheOut   string
	rosterCacheKey   string
)

// Cmd is the "run" command: solve, compose, and validate one week's
// schedule from an input file.
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a compliance-validated weekly schedule",
	RunE:  runSchedule,
}

func init() {
	Cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the week input JSON file (required)")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "path to write the resulting schedule JSON (default: stdout)")
	Cmd.Flags().StringVar(&backendFlag, "backend", "greedy", "solver backend to use: greedy, localsearch, or exact")
	Cmd.Flags().StringVar(&complianceFlag, "compliance-mode", "enforce", "compliance mode: off, warn, or enforce")
	Cmd.Flags().Float64Var(&timeLimitSeconds, "time-limit", 30, "solver time limit in seconds")
	Cmd.Flags().Float64Var(&dummyCost, "dummy-cost", 1000, "objective cost per unfilled period")
	Cmd.Flags().Float64Var(&shortShiftWeight, "short-shift-penalty", 50, "objective cost weight per hour below the minimum shift length")
	Cmd.Flags().Float64Var(&minShiftHours, "min-shift-hours", 3, "minimum shift length before the short-shift penalty applies")
	Cmd.Flags().StringVar(&rosterCacheOut, "roster-cache-out", "", "optional path to write an at-rest roster snapshot after this run")
	Cmd.Flags().StringVar(&rosterCacheKey, "roster-cache-key", "", "base64 32-byte AES-GCM key encrypting --roster-cache-out (plaintext if empty)")
	_ = Cmd.MarkFlagRequired("input")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()

	mode, err := parseComplianceMode(complianceFlag)
	if err != nil {
		return err
	}

	input, err := loadWeekInput(inputPath)
	if err != nil {
		return err
	}

	if rosterCacheOut != "" {
		if err := cacheRoster(rosterCacheOut, rosterCacheKey, input.Employees); err != nil {
			return fmt.Errorf("writing roster cache: %w", err)
		}
	}

	reg := registry.NewRegistry(logger)
	if err := reg.RegisterBuiltin(builtin.NewGreedyBackend()); err != nil {
		return fmt.Errorf("registering greedy backend: %w", err)
	}
	if err := reg.RegisterBuiltin(builtin.NewLocalSearchBackend()); err != nil {
		return fmt.Errorf("registering local search backend: %w", err)
	}
	if err := reg.RegisterBuiltin(builtin.NewExactBackend()); err != nil {
		return fmt.Errorf("registering exact backend: %w", err)
	}

	backendID := backendIDFor(backendFlag)
	backend, err := reg.Get(ctx, backendID)
	if err != nil {
		return fmt.Errorf("solver backend %q: %w", backendFlag, err)
	}
	if err := backend.Initialize(ctx, sdk.NewBackendConfig(backendID, nil)); err != nil {
		return fmt.Errorf("initializing solver backend: %w", err)
	}

	solverConfig := domain.SolverConfig{
		TimeLimitSeconds:  timeLimitSeconds,
		DummyCost:         dummyCost,
		ShortShiftPenalty: shortShiftWeight,
		MinShiftHours:     minShiftHours,
	}

	assembler := application.NewWeeklyAssembler(backend, solverConfig, domain.DefaultComplianceRules(), mode)
	result, err := assembler.RunAndPublish(ctx, input, eventbus.NewNoopPublisher(logger))
	if err != nil {
		return fmt.Errorf("generating schedule: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	out = append(out, '\n')

	if outputPath == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(outputPath, out, 0o644)
}

func parseComplianceMode(s string) (compliance.Mode, error) {
	switch s {
	case "off":
		return compliance.ModeOff, nil
	case "warn":
		return compliance.ModeWarn, nil
	case "enforce":
		return compliance.ModeEnforce, nil
	default:
		return 0, fmt.Errorf("invalid compliance mode %q: want off, warn, or enforce", s)
	}
}

// cacheRoster writes employees to an at-rest snapshot, AES-GCM encrypted
// when key is a base64 32-byte key and left in plaintext otherwise.
func cacheRoster(path, key string, employees []domain.Employee) error {
	var encrypter crypto.Encrypter
	if key != "" {
		aead, err := crypto.NewAESGCMFromBase64Key(key)
		if err != nil {
			return fmt.Errorf("roster cache key: %w", err)
		}
		encrypter = aead
	}
	return schedinfra.NewRosterCache(encrypter).Save(path, employees)
}

func backendIDFor(name string) string {
	switch name {
	case "localsearch":
		return "shiftsched.solver.localsearch"
	case "exact":
		return "shiftsched.solver.exact"
	default:
		return "shiftsched.solver.greedy"
	}
}
