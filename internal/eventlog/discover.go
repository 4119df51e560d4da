package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// analyzedFlow is the only flow whose logs are read. Multi-flow test
// cases log flows 1..n to separate files, but the analysis pipeline is
// scoped to the primary flow.
const analyzedFlow = 0

// Discover locates the flow-0 log files in an experiment directory and
// classifies them by role. Files with malformed names or unknown role
// labels are ignored; an experiment with no recognizable logs yields an
// empty map, not an error.
func Discover(dir string) (map[Role]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read experiment dir: %w", err)
	}

	logs := make(map[Role]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		role, ok := classify(entry.Name())
		if !ok {
			continue
		}
		logs[role] = filepath.Join(dir, entry.Name())
	}
	return logs, nil
}

// classify splits "<flow>_<role>.<ext>" and returns the role when the
// name is well formed, the flow is the analyzed one and the role is known.
func classify(name string) (Role, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	flowPart, rolePart, ok := strings.Cut(stem, "_")
	if !ok {
		return "", false
	}
	flow, err := strconv.Atoi(flowPart)
	if err != nil || flow != analyzedFlow {
		return "", false
	}
	role := Role(rolePart)
	if !knownRoles[role] {
		return "", false
	}
	return role, true
}
