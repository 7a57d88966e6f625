package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
)

// SuiteResult summarizes a directory of scenarios.
type SuiteResult struct {
	TotalScenarios int               `json:"total_scenarios"`
	Passed         int               `json:"passed"`
	Failed         int               `json:"failed"`
	Failures       []ScenarioFailure `json:"failures,omitempty"`
}

// ScenarioFailure represents a scenario that could not be loaded or failed.
type ScenarioFailure struct {
	ScenarioPath string `json:"scenario_path"`
	Error        string `json:"error"`
}

// ScenarioPaths lists the *.yaml files of dir in name order.
func ScenarioPaths(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// RunDir loads and runs every scenario in dir. Golden files are not
// compared here; that needs a *testing.T (see RunWithGolden).
//
// For each scenario file:
// 1. Load and validate it
// 2. Run it with h
// 3. Collect failures
func (h *Harness) RunDir(ctx context.Context, dir string) (*SuiteResult, error) {
	paths, err := ScenarioPaths(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", dir)
	}

	result := &SuiteResult{}
	fail := func(path, msg string) {
		result.Failed++
		result.Failures = append(result.Failures, ScenarioFailure{ScenarioPath: path, Error: msg})
	}

	for _, path := range paths {
		result.TotalScenarios++

		scenario, err := LoadScenario(path)
		if err != nil {
			fail(path, fmt.Sprintf("failed to load scenario: %v", err))
			continue
		}

		runResult, err := h.Run(ctx, scenario)
		if err != nil {
			fail(path, fmt.Sprintf("scenario execution failed: %v", err))
			continue
		}

		if !runResult.Pass {
			fail(path, fmt.Sprintf("scenario assertions failed: %v", runResult.Errors))
			continue
		}

		result.Passed++
	}

	return result, nil
}
