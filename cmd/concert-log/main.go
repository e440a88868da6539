// Command concert-log is a tool for viewing and analyzing device event
// log files.
//
// Event logs are created by running concert-sim with the -events flag.
//
// Usage:
//
//	concert-log <command> [flags] <file.clog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	concert-log view beamline.clog
//
//	# View only state transitions of one device
//	concert-log view -device axis-x -category state beamline.clog
//
//	# Export to JSONL
//	concert-log export beamline.clog
//
//	# Show statistics
//	concert-log stats beamline.clog
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/concert-control/concert-go/pkg/log"
)

const usage = `concert-log - Device Event Log Analyzer

Usage:
  concert-log <command> [flags] <file.clog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL
  stats    Show statistics about the log file

Use "concert-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func filterFlags(fs *flag.FlagSet) (device, category, parameter *string) {
	device = fs.String("device", "", "Filter by device name")
	category = fs.String("category", "", "Filter by category (parameter, state, warning, error)")
	parameter = fs.String("parameter", "", "Filter by parameter name")
	return
}

func buildFilter(device, category, parameter string) (*log.Filter, error) {
	f := &log.Filter{Device: device, Parameter: parameter}
	switch category {
	case "":
	case "parameter":
		c := log.CategoryParameter
		f.Category = &c
	case "state":
		c := log.CategoryState
		f.Category = &c
	case "warning":
		c := log.CategoryWarning
		f.Category = &c
	case "error":
		c := log.CategoryError
		f.Category = &c
	default:
		return nil, fmt.Errorf("unknown category: %s", category)
	}
	return f, nil
}

func readEvents(fs *flag.FlagSet, device, category, parameter string) []log.Event {
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	filter, err := buildFilter(device, category, parameter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	r, err := log.OpenFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	events, err := r.ReadAll(filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", fs.Arg(0), err)
		os.Exit(1)
	}
	return events
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	device, category, parameter := filterFlags(fs)
	fs.Parse(args)

	for _, e := range readEvents(fs, *device, *category, *parameter) {
		ts := e.Timestamp.Format("15:04:05.000000")
		switch e.Category {
		case log.CategoryParameter:
			fmt.Printf("%s  %-9s %s.%s = %g %s\n", ts, e.Category, e.Device, e.Parameter, e.Value, e.Unit)
		case log.CategoryState:
			fmt.Printf("%s  %-9s %s: %s -> %s\n", ts, e.Category, e.Device, e.OldState, e.NewState)
		default:
			fmt.Printf("%s  %-9s %s: %s\n", ts, e.Category, e.Device, e.Message)
		}
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	device, category, parameter := filterFlags(fs)
	fs.Parse(args)

	enc := json.NewEncoder(os.Stdout)
	for _, e := range readEvents(fs, *device, *category, *parameter) {
		if err := enc.Encode(exported(e)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// exportedEvent is the JSONL shape; the CBOR integer keys are replaced
// by readable field names.
type exportedEvent struct {
	Timestamp string  `json:"timestamp"`
	Device    string  `json:"device"`
	Category  string  `json:"category"`
	Parameter string  `json:"parameter,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	OldState  string  `json:"old_state,omitempty"`
	NewState  string  `json:"new_state,omitempty"`
	Message   string  `json:"message,omitempty"`
}

func exported(e log.Event) exportedEvent {
	return exportedEvent{
		Timestamp: e.Timestamp.Format("2006-01-02T15:04:05.000000Z07:00"),
		Device:    e.Device,
		Category:  e.Category.String(),
		Parameter: e.Parameter,
		Value:     e.Value,
		Unit:      e.Unit,
		OldState:  e.OldState,
		NewState:  e.NewState,
		Message:   e.Message,
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	device, category, parameter := filterFlags(fs)
	fs.Parse(args)

	events := readEvents(fs, *device, *category, *parameter)
	if len(events) == 0 {
		fmt.Println("No events")
		return
	}

	byDevice := make(map[string]int)
	byCategory := make(map[string]int)
	for _, e := range events {
		byDevice[e.Device]++
		byCategory[e.Category.String()]++
	}

	first := events[0].Timestamp
	last := events[len(events)-1].Timestamp
	fmt.Printf("Events:   %d\n", len(events))
	fmt.Printf("Span:     %s, %s .. %s\n", last.Sub(first).Round(1e6),
		first.Format("15:04:05"), last.Format("15:04:05"))

	fmt.Println("By device:")
	for _, name := range sortedKeys(byDevice) {
		fmt.Printf("  %-16s %d\n", name, byDevice[name])
	}
	fmt.Println("By category:")
	for _, name := range sortedKeys(byCategory) {
		fmt.Printf("  %-16s %d\n", name, byCategory[name])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
