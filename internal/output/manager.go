// Package output prints scan results and persists a run-history log
// under ~/.portscan/runs, the way the teacher persisted its own run
// records under ~/.netcrate/runs.
package output

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/netcrate/portscan/internal/logging"
)

var openColor = color.New(color.FgMagenta, color.Bold)

// Summary is the persisted, printable shape of one completed scan.
type Summary struct {
	RunID     string              `json:"run_id"`
	StartTime time.Time           `json:"start_time"`
	Duration  float64             `json:"duration_seconds"`
	Hosts     map[string][]uint16 `json:"hosts"`
	ErrorsLen int                 `json:"errors_recorded"`
}

// PrintOpenLine prints a single "Open ip:port" line, highlighted in
// normal mode and undecorated in accessible mode. It prints nothing in
// greppable mode, where only the final grouped summary is emitted.
func PrintOpenLine(addr netip.Addr, port uint16, mode logging.Mode) {
	line := fmt.Sprintf("Open %s", netip.AddrPortFrom(addr, port))
	switch mode {
	case logging.ModeGreppable:
		return
	case logging.ModeAccessible:
		fmt.Println(line)
	default:
		fmt.Println(openColor.Sprint(line))
	}
}

// PrintGrouped prints the final per-host summary: IPs sorted, each
// IP's ports already sorted ascending by the aggregator.
func PrintGrouped(grouped map[netip.Addr][]uint16) {
	addrs := make([]netip.Addr, 0, len(grouped))
	for a := range grouped {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Compare(addrs[j]) < 0 })

	for _, a := range addrs {
		ports := grouped[a]
		if len(ports) == 0 {
			fmt.Printf("%s: no open ports\n", a)
			continue
		}
		fmt.Printf("%s: %v\n", a, ports)
	}
}

// runsDir returns ~/.portscan/runs, creating it if necessary.
func runsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("output: resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".portscan", "runs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("output: creating run history directory: %w", err)
	}
	return dir, nil
}

// SaveRun persists a run's summary as <runsDir>/<run-id>/result.json.
func SaveRun(summary Summary) error {
	dir, err := runsDir()
	if err != nil {
		return err
	}
	runDir := filepath.Join(dir, summary.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("output: creating run directory: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshaling run summary: %w", err)
	}

	path := filepath.Join(runDir, "result.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("output: writing %s: %w", path, err)
	}
	return nil
}

// ListRuns returns every saved run, newest first.
func ListRuns() ([]Summary, error) {
	dir, err := runsDir()
	if err != nil {
		return nil, err
	}

	var runs []Summary
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Name() != "result.json" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logging.Warnf("skipping unreadable run file %s: %v", path, err)
			return nil
		}
		var s Summary
		if err := json.Unmarshal(data, &s); err != nil {
			logging.Warnf("skipping malformed run file %s: %v", path, err)
			return nil
		}
		runs = append(runs, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("output: scanning run history: %w", err)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].StartTime.After(runs[j].StartTime) })
	return runs, nil
}

// GetRunByID finds a specific run by its ID.
func GetRunByID(runID string) (*Summary, error) {
	runs, err := ListRuns()
	if err != nil {
		return nil, err
	}
	for _, r := range runs {
		if r.RunID == runID {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("output: run %q not found", runID)
}
