package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/scrollguard/internal/harness"
	"github.com/roach88/scrollguard/internal/wheel"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
	Trace  bool   // print every trace line
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string          `json:"name"`
	Pass   bool            `json:"pass"`
	Errors []string        `json:"errors,omitempty"`
	Result *harness.Result `json:"result,omitempty"`
}

// SimulateResult holds the overall simulation result.
type SimulateResult struct {
	Timings   harness.TimingsMS `json:"timings"`
	Scenarios []ScenarioResult  `json:"scenarios"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Total     int               `json:"total"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <scenario-file|scenarios-dir>",
		Short: "Replay scripted wheel events through the debouncer",
		Long: `Replay scripted wheel events through the debouncer.

Each scenario is a YAML file listing timestamped input events and,
optionally, the wheel directions that should come out. No device is
opened. Timings come from the config file unless a scenario overrides
them.

When a golden file exists next to the scenarios directory
(../golden/<name>.golden) the rendered trace must match it.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, config)

Examples:
  scrollguard simulate ./scenarios
  scrollguard simulate ./scenarios/bounce.yaml --trace
  scrollguard simulate ./scenarios --filter "hires*"
  scrollguard simulate ./scenarios --update
  scrollguard simulate ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print the decision trace of every scenario")

	return cmd
}

func runSimulate(opts *SimulateOptions, path string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	base := cfg.Debounce()

	files, err := harness.FindScenarios(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "find scenarios", err)
	}
	files, err = filterScenarios(files, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "filter scenarios", err)
	}

	result := SimulateResult{
		Timings:   harness.TimingsMS{Window: base.Window.Milliseconds(), HWindow: base.HWindow.Milliseconds(), Timeout: base.ScrollTimeout.Milliseconds()},
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	if len(files) == 0 {
		if opts.Format == "json" {
			return outputSimulateJSON(cmd, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	for _, file := range files {
		sr := runScenarioFile(file, base, opts, cmd)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputSimulateJSON(cmd, result)
	}
	return outputSimulateText(cmd, result)
}

// filterScenarios keeps files whose base name without extension matches
// the glob pattern.
func filterScenarios(files []string, pattern string) ([]string, error) {
	if pattern == "" {
		return files, nil
	}
	var kept []string
	for _, f := range files {
		matched, err := filepath.Match(pattern, scenarioName(f))
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if matched {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// runScenarioFile loads, replays and checks one scenario file.
func runScenarioFile(file string, base wheel.Config, opts *SimulateOptions, cmd *cobra.Command) ScenarioResult {
	w := cmd.OutOrStdout()
	text := opts.Format != "json"

	fail := func(name string, errs ...string) ScenarioResult {
		if text {
			fmt.Fprintf(w, "✗ %s\n", name)
			for _, e := range errs {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
		return ScenarioResult{Name: name, Pass: false, Errors: errs}
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return fail(scenarioName(file), fmt.Sprintf("load error: %v", err))
	}

	result, err := harness.Run(scenario, base)
	if err != nil {
		return fail(scenario.Name, fmt.Sprintf("execution error: %v", err))
	}
	if text && opts.Trace {
		fmt.Fprint(w, result.Render())
	}

	goldenPath := goldenFilePath(file)
	if opts.Update {
		if err := writeGolden(goldenPath, result); err != nil {
			return fail(scenario.Name, fmt.Sprintf("golden update error: %v", err))
		}
		if text {
			fmt.Fprintf(w, "✓ %s (golden updated)\n", scenario.Name)
		}
		return ScenarioResult{Name: scenario.Name, Pass: result.Pass, Errors: result.Errors, Result: result}
	}

	golden, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		// No golden file, expectations and assertions decide.
	case err != nil:
		return fail(scenario.Name, fmt.Sprintf("golden comparison error: %v", err))
	case string(golden) != result.Render():
		result.AddError("trace does not match golden file (run with --update to regenerate)")
	}

	if !result.Pass {
		sr := fail(scenario.Name, result.Errors...)
		sr.Result = result
		return sr
	}
	if text {
		fmt.Fprintf(w, "✓ %s\n", scenario.Name)
	}
	return ScenarioResult{Name: scenario.Name, Pass: true, Result: result}
}

func scenarioName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// goldenFilePath returns the golden file for a scenario: a "golden"
// directory beside the one holding the scenario.
func goldenFilePath(scenarioFile string) string {
	parent := filepath.Dir(filepath.Dir(scenarioFile))
	return filepath.Join(parent, "golden", scenarioName(scenarioFile)+".golden")
}

func writeGolden(path string, result *harness.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(result.Render()), 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// outputSimulateJSON outputs the simulation result as JSON.
func outputSimulateJSON(cmd *cobra.Command, result SimulateResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "SIMULATION_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		err := NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
		err.Reported = true
		return err
	}
	return nil
}

// outputSimulateText outputs the simulation summary as text.
func outputSimulateText(cmd *cobra.Command, result SimulateResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Simulation Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		err := NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
		err.Reported = true
		return err
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
