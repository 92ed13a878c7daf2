// Command ic10vm is an interactive IC10 chip debugger: load a script,
// single-step or free-run it against a coordinator-owned chip, and
// inspect register and status state between steps. Grounded on the
// teacher's emul/main.go (flag parsing, raw-terminal setup/teardown
// around an interactive run loop) with single-keystroke command input
// adapted from SchawnnDev-awesomeVM's cmd/lc3 and state-dump tables
// from sarchlab-zeonica's core/util.go PrintState.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/eiannone/keyboard"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/Ryex/ic10emu-sub001/object"
	"github.com/Ryex/ic10emu-sub001/vm"
)

var (
	maxSteps    = flag.Uint64("max-steps", 0, "Stop after N step/run commands (0 = unlimited)")
	showVersion = flag.Bool("version", false, "Show version and exit")
)

const version = "0.1.0"

var savedTermState *term.State

// setupTerminal puts stdin in raw mode so single keystrokes reach the
// debugger without waiting on Enter.
func setupTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	state, err := term.GetState(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to get terminal state: %v", err)
	}
	savedTermState = state
	if _, err := term.MakeRaw(int(os.Stdin.Fd())); err != nil {
		return fmt.Errorf("failed to set raw mode: %v", err)
	}
	return nil
}

func restoreTerminal() {
	if savedTermState != nil && term.IsTerminal(int(os.Stdin.Fd())) {
		term.Restore(int(os.Stdin.Fd()), savedTermState)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <script.ic10>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("ic10vm v%s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 1 {
		usage()
		os.Exit(1)
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
		os.Exit(1)
	}

	coord := vm.New(1)
	chipObj := &object.Object{ID: coord.AllocID(), IC: object.NewIntegratedCircuit()}
	coord.AddObject(chipObj)
	chip := coord.Chips[chipObj.ID]
	chip.SetSource(string(source))

	if err := setupTerminal(); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up terminal: %v\n", err)
		os.Exit(1)
	}
	defer restoreTerminal()
	atexit.Register(restoreTerminal)

	if err := keyboard.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening keyboard: %v\n", err)
		atexit.Exit(1)
	}
	defer keyboard.Close()

	fmt.Fprintf(os.Stderr, "loaded %s (%d lines)\n", args[0], len(chip.IC.Program.Instructions))
	printHelp()
	dumpState(chipObj.ID, coord)

	runDebugger(coord, chipObj.ID)
	atexit.Exit(0)
}

func printHelp() {
	fmt.Fprintln(os.Stderr, "commands: s=step  r=run  d=dump  q=quit")
}

func runDebugger(coord *vm.Coordinator, chip object.ID) {
	var steps uint64
	for {
		ch, key, err := keyboard.GetSingleKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "keyboard read error: %v\n", err)
			return
		}
		if key == keyboard.KeyCtrlC || ch == 'q' {
			return
		}

		switch ch {
		case 's':
			if err := coord.StepChip(chip); err != nil {
				fmt.Fprintf(os.Stderr, "\r\nstep error: %v\r\n", err)
			}
			steps++
			dumpState(chip, coord)
		case 'r':
			if err := coord.RunChip(chip); err != nil {
				fmt.Fprintf(os.Stderr, "\r\nrun error: %v\r\n", err)
			}
			steps++
			dumpState(chip, coord)
		case 'd':
			dumpState(chip, coord)
		default:
			continue
		}

		if *maxSteps > 0 && steps >= *maxSteps {
			fmt.Fprintf(os.Stderr, "\r\nmax steps reached (%d)\r\n", *maxSteps)
			return
		}
	}
}

// dumpState renders registers, IP and chip state in a pair of tables,
// following the register/status table split of the teacher's PrintState.
func dumpState(id object.ID, coord *vm.Coordinator) {
	ic := coord.Chips[id].IC

	regTable := table.NewWriter()
	regTable.SetOutputMirror(os.Stderr)
	regTable.SetTitle("Registers")
	regTable.AppendHeader(table.Row{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8"})
	row := make(table.Row, 9)
	for i := 0; i < 9; i++ {
		row[i] = ic.Registers[i]
	}
	regTable.AppendRow(row)
	regTable.AppendHeader(table.Row{"r9", "r10", "r11", "r12", "r13", "r14", "r15", "sp", "ra"})
	row2 := make(table.Row, 9)
	for i := 0; i < 9; i++ {
		row2[i] = ic.Registers[9+i]
	}
	regTable.AppendRow(row2)
	regTable.Render()
	fmt.Fprintln(os.Stderr, "\r")

	statusTable := table.NewWriter()
	statusTable.SetOutputMirror(os.Stderr)
	statusTable.SetTitle("Status")
	statusTable.AppendHeader(table.Row{"IP", "State", "ICCount", "Error"})
	errStr := ""
	if ic.Error != nil {
		errStr = fmt.Sprintf("line %d: %v", ic.Error.Line, ic.Error.Err)
	}
	statusTable.AppendRow(table.Row{ic.IP, ic.State, ic.ICCount, errStr})
	statusTable.Render()
	fmt.Fprintln(os.Stderr, "\r")
}
