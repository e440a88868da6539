package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/concert-control/concert-go/pkg/log"
	"github.com/concert-control/concert-go/pkg/task"
	"github.com/concert-control/concert-go/pkg/unit"
)

// Shell is the interactive command loop over a rig.
type Shell struct {
	rig      *Rig
	rl       *readline.Instance
	eventLog log.Logger

	mu      sync.Mutex
	pending map[string]string // task ID -> description
}

// NewShell creates the interactive handler. Failed background tasks are
// recorded in the event log, tagged with their task ID.
func NewShell(rig *Rig, eventLog log.Logger) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "concert> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	if eventLog == nil {
		eventLog = log.NoopLogger{}
	}
	return &Shell{rig: rig, rl: rl, eventLog: eventLog, pending: make(map[string]string)}, nil
}

// Run starts the command loop and blocks until the user exits.
func (s *Shell) Run() {
	defer s.rl.Close()

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "list", "l":
			s.cmdList()

		case "get", "g":
			s.cmdGet(args)

		case "set":
			s.cmdSet(args)

		case "move", "m":
			s.cmdMove(args)

		case "home":
			s.cmdHome(args)

		case "state":
			s.cmdState(args)

		case "open":
			s.cmdShutter(args, true)

		case "close":
			s.cmdShutter(args, false)

		case "focus", "f":
			s.cmdFocus(args)

		case "tasks", "t":
			s.cmdTasks()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Commands:
  list                      - List devices and their parameters
  get <device> <param>      - Read a parameter value
  set <device> <param> <v>  - Write a parameter value (mm, mm/s, keV)
  move <motor> <delta-mm>   - Move a motor relative to its position
  home <motor>              - Home a motor
  state <device>            - Show the device state
  open <shutter>            - Open a shutter
  close <shutter>           - Close a shutter
  focus [step-mm]           - Run the focusing routine (default step 10 mm)
  tasks                     - Show background tasks
  exit                      - Quit`)
}

func (s *Shell) cmdList() {
	out := s.rl.Stdout()
	for _, name := range s.rig.Names() {
		d, _ := s.rig.Device(name)
		fmt.Fprintf(out, "%s (state: %s)\n", name, d.State())
		for _, pname := range d.Names() {
			p, err := d.Param(pname)
			if err != nil {
				continue
			}
			value := "?"
			if v, err := p.Get(); err == nil {
				value = formatValue(v)
			}
			access := "rw"
			if !p.Writable() {
				access = "ro"
			}
			fmt.Fprintf(out, "  %-12s %-10s [%s] %s\n", pname, value, access, p.Description())
		}
	}
}

func (s *Shell) cmdGet(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: get <device> <param>")
		return
	}
	d, ok := s.rig.Device(args[0])
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown device: %s\n", args[0])
		return
	}
	v, err := d.Get(args[1])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), formatValue(v))
}

func (s *Shell) cmdSet(args []string) {
	if len(args) != 3 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: set <device> <param> <value>")
		return
	}
	d, ok := s.rig.Device(args[0])
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown device: %s\n", args[0])
		return
	}
	p, err := d.Param(args[1])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	v, err := parseValue(args[2], p.Dim())
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	s.track(args[0], fmt.Sprintf("set %s.%s = %s", args[0], args[1], formatValue(v)),
		d.SetAsync(args[1], v))
}

func (s *Shell) cmdMove(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: move <motor> <delta-mm>")
		return
	}
	m, ok := s.rig.Motors[args[0]]
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown motor: %s\n", args[0])
		return
	}
	delta, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid delta: %s\n", args[1])
		return
	}
	s.track(args[0], fmt.Sprintf("move %s by %g mm", args[0], delta),
		m.Move(unit.Millimeters(delta)))
}

func (s *Shell) cmdHome(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: home <motor>")
		return
	}
	m, ok := s.rig.Motors[args[0]]
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown motor: %s\n", args[0])
		return
	}
	s.track(args[0], fmt.Sprintf("home %s", args[0]), m.Home())
}

func (s *Shell) cmdState(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: state <device>")
		return
	}
	d, ok := s.rig.Device(args[0])
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown device: %s\n", args[0])
		return
	}
	fmt.Fprintln(s.rl.Stdout(), d.State())
}

func (s *Shell) cmdShutter(args []string, open bool) {
	verb := "close"
	if open {
		verb = "open"
	}
	if len(args) != 1 {
		fmt.Fprintf(s.rl.Stdout(), "Usage: %s <shutter>\n", verb)
		return
	}
	sh, ok := s.rig.Shutters[args[0]]
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown shutter: %s\n", args[0])
		return
	}
	var t *task.Task
	if open {
		t = sh.Open()
	} else {
		t = sh.Close()
	}
	s.track(args[0], fmt.Sprintf("%s %s", verb, args[0]), t)
}

func (s *Shell) cmdFocus(args []string) {
	if s.rig.Focuser == nil {
		fmt.Fprintln(s.rl.Stdout(), "No focuser configured")
		return
	}
	step := 10.0
	if len(args) > 0 {
		var err error
		if step, err = strconv.ParseFloat(args[0], 64); err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid step: %s\n", args[0])
			return
		}
	}
	s.track(s.rig.FocusMotor, fmt.Sprintf("focus with %g mm step", step),
		s.rig.Focuser.Focus(unit.Millimeters(step)))
}

func (s *Shell) cmdTasks() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := s.rl.Stdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "No running tasks")
	}
	for _, id := range ids {
		fmt.Fprintf(out, "%s  %s\n", id[:8], s.pending[id])
	}
	s.mu.Unlock()
}

// track registers a background task and reports its result on the
// readline-coordinated writer once it finishes. Failures also go into
// the event log under the device that ran the task.
func (s *Shell) track(device, desc string, t *task.Task) {
	s.mu.Lock()
	s.pending[t.ID()] = desc
	s.mu.Unlock()

	fmt.Fprintf(s.rl.Stdout(), "[%s] started: %s\n", t.ID()[:8], desc)

	go func() {
		err := t.Wait()

		s.mu.Lock()
		delete(s.pending, t.ID())
		s.mu.Unlock()

		if err != nil {
			s.eventLog.Log(log.ErrorEvent(device, err).WithTask(t.ID()))
			fmt.Fprintf(s.rl.Stdout(), "[%s] failed: %s: %v\n", t.ID()[:8], desc, err)
		} else {
			fmt.Fprintf(s.rl.Stdout(), "[%s] done: %s\n", t.ID()[:8], desc)
		}
	}()
}

// formatValue renders a value in display units: millimetres for
// lengths, keV for energies.
func formatValue(v unit.Value) string {
	switch v.Dim() {
	case unit.Length:
		return fmt.Sprintf("%g mm", v.Millimeters())
	case unit.Velocity:
		return fmt.Sprintf("%g mm/s", v.Magnitude()*1e3)
	case unit.Energy:
		return fmt.Sprintf("%g keV", v.Magnitude()/1e3)
	case unit.Time:
		return fmt.Sprintf("%g s", v.Magnitude())
	default:
		return fmt.Sprintf("%g", v.Magnitude())
	}
}

func parseValue(s string, dim unit.Dim) (unit.Value, error) {
	mag, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return unit.Value{}, fmt.Errorf("invalid value: %s", s)
	}
	switch dim {
	case unit.Length:
		return unit.Millimeters(mag), nil
	case unit.Velocity:
		return unit.MetersPerSecond(mag * 1e-3), nil
	case unit.Energy:
		return unit.KiloElectronVolts(mag), nil
	case unit.Time:
		return unit.Seconds(mag), nil
	default:
		return unit.Scalar(mag), nil
	}
}
