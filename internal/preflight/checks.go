// Package preflight provides startup validation checks.
package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/aalekseevx/bwe-report/internal/eventlog"
)

// Check represents the result of a single preflight check.
type Check struct {
	Name     string // Name of the check
	Required int    // Required value (if applicable)
	Actual   int    // Actual value found
	Passed   bool   // Whether the check passed
	Warning  bool   // True if it's a warning (non-fatal)
	Message  string // Additional context
}

// Result holds the results of all preflight checks.
type Result struct {
	Checks []Check
	Passed bool
}

// String returns a human-readable summary of the check.
func (c Check) String() string {
	status := "✓"
	if !c.Passed {
		status = "✗"
	} else if c.Warning {
		status = "⚠"
	}

	if c.Required > 0 {
		return fmt.Sprintf("  %s %s: %d available (need %d)", status, c.Name, c.Actual, c.Required)
	}
	return fmt.Sprintf("  %s %s: %s", status, c.Name, c.Message)
}

// RunAll executes all preflight checks.
func RunAll(experimentsDir, outputDir, configPath string, workers int) *Result {
	result := &Result{
		Checks: make([]Check, 0, 4),
		Passed: true,
	}

	dirCheck := checkExperimentsDir(experimentsDir)
	result.Checks = append(result.Checks, dirCheck)
	if !dirCheck.Passed {
		result.Passed = false
	}

	outCheck := checkOutputDir(outputDir)
	result.Checks = append(result.Checks, outCheck)
	if !outCheck.Passed {
		result.Passed = false
	}

	if configPath != "" {
		cfgCheck := checkSuiteConfig(configPath)
		result.Checks = append(result.Checks, cfgCheck)
		if !cfgCheck.Passed {
			result.Passed = false
		}
	}

	// FD check is a warning only; the worker pool bounds open files.
	result.Checks = append(result.Checks, checkFileDescriptors(workers))

	return result
}

// checkExperimentsDir verifies the input directory is readable and holds
// at least one experiment with recognizable logs.
func checkExperimentsDir(dir string) Check {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Check{
			Name:    "experiments_dir",
			Passed:  false,
			Message: fmt.Sprintf("cannot read %s: %v", dir, err),
		}
	}

	experiments := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		logs, err := eventlog.Discover(filepath.Join(dir, entry.Name()))
		if err == nil && len(logs) > 0 {
			experiments++
		}
	}

	if experiments == 0 {
		return Check{
			Name:    "experiments_dir",
			Passed:  false,
			Message: fmt.Sprintf("%s contains no experiment directories with log files", dir),
		}
	}
	return Check{
		Name:    "experiments_dir",
		Passed:  true,
		Message: fmt.Sprintf("%d experiments in %s", experiments, dir),
	}
}

// checkOutputDir verifies the report directory can be created and
// written to.
func checkOutputDir(dir string) Check {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Check{
			Name:    "output_dir",
			Passed:  false,
			Message: fmt.Sprintf("cannot create %s: %v", dir, err),
		}
	}

	probe, err := os.CreateTemp(dir, ".preflight-*")
	if err != nil {
		return Check{
			Name:    "output_dir",
			Passed:  false,
			Message: fmt.Sprintf("cannot write to %s: %v", dir, err),
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return Check{
		Name:    "output_dir",
		Passed:  true,
		Message: fmt.Sprintf("%s is writable", dir),
	}
}

// checkSuiteConfig verifies the suite YAML exists and is readable. The
// content is parsed later; this only catches path typos early.
func checkSuiteConfig(path string) Check {
	info, err := os.Stat(path)
	if err != nil {
		return Check{
			Name:    "suite_config",
			Passed:  false,
			Message: fmt.Sprintf("cannot stat %s: %v", path, err),
		}
	}
	if info.IsDir() {
		return Check{
			Name:    "suite_config",
			Passed:  false,
			Message: fmt.Sprintf("%s is a directory", path),
		}
	}
	return Check{
		Name:    "suite_config",
		Passed:  true,
		Message: path,
	}
}

// getrlimit is stubbed in tests to exercise the failure path.
var getrlimit = syscall.Getrlimit

// checkFileDescriptors verifies sufficient file descriptors for the
// worker pool. Each worker holds up to five log files open at once.
func checkFileDescriptors(workers int) Check {
	required := workers*5 + 20

	var limit syscall.Rlimit
	if err := getrlimit(syscall.RLIMIT_NOFILE, &limit); err != nil {
		return Check{
			Name:    "file_descriptors",
			Passed:  true,
			Warning: true,
			Message: fmt.Sprintf("cannot read RLIMIT_NOFILE: %v (need %d for %d workers)", err, required, workers),
		}
	}
	actual := int(limit.Cur)

	return Check{
		Name:     "file_descriptors",
		Required: required,
		Actual:   actual,
		Passed:   true,
		Warning:  actual < required,
		Message:  fmt.Sprintf("ulimit -n %d (need %d for %d workers)", actual, required, workers),
	}
}

// PrintResults prints the preflight check results to stdout.
func PrintResults(result *Result) {
	fmt.Println("Preflight checks:")
	for _, check := range result.Checks {
		fmt.Println(check.String())
	}
	fmt.Println()
}
