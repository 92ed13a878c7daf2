package object

import "github.com/Ryex/ic10emu-sub001/compiler"

// ChipState is the IntegratedCircuit state machine (spec.md §3 "Chip
// state machine"): Start -> Running <-> {Yield, Sleep} -> ... ->
// {Error, HasCaughtFire}.
type ChipState uint8

const (
	StateStart ChipState = iota
	StateRunning
	StateYield
	StateSleep
	StateError
	StateHasCaughtFire
)

func (s ChipState) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateRunning:
		return "Running"
	case StateYield:
		return "Yield"
	case StateSleep:
		return "Sleep"
	case StateError:
		return "Error"
	case StateHasCaughtFire:
		return "HasCaughtFire"
	}
	return "Unknown"
}

// StackPointerIndex and ReturnAddressIndex are R16 and R17 (spec.md §4.3
// "Calling convention").
const (
	StackPointerIndex = 16
	ReturnAddressIndex = 17
	RegisterCount      = 18
	MemorySize         = 512
)

// LineError pairs a chip fault with the line it occurred on, the
// absorbing payload of ChipState Error (spec.md §3).
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return e.Err.Error()
}

// IntegratedCircuit is the IntegratedCircuit capability: the full
// runtime state of one IC10 chip (spec.md §4.3 "State").
type IntegratedCircuit struct {
	Registers [RegisterCount]float64
	Memory    [MemorySize]float64
	IP        uint32
	ICCount   uint16

	Defines map[string]float64
	Aliases map[string]AliasTarget

	Pins    [6]ID
	HasPin  [6]bool

	State ChipState
	Error *LineError

	// SleepSince/SleepSeconds describe the Sleep(since, secs) deadline;
	// the host decides when to call back (spec.md §5 "Suspension points").
	SleepSince   int64
	SleepSeconds float64

	CircuitHolder   ID
	HasCircuitHolder bool

	SourceCode string
	Program    *compiler.Program
	NextIP     uint32
	HasNextIP  bool
}

// AliasKind tags whether an alias re-expands to a register or a device.
type AliasKind uint8

const (
	AliasRegister AliasKind = iota
	AliasDevice
)

// AliasTarget is the re-expansion target of an `alias` definition
// (spec.md §4.3 "Identifier -> ... an alias").
type AliasTarget struct {
	Kind           AliasKind
	RegIndirection uint32
	RegTarget      uint32
	DevConnIdx     int // pin/connection index for device aliases
}

// NewIntegratedCircuit returns a freshly reset chip (spec.md §4.3
// "reset").
func NewIntegratedCircuit() *IntegratedCircuit {
	ic := &IntegratedCircuit{
		Defines: make(map[string]float64),
		Aliases: make(map[string]AliasTarget),
		State:   StateStart,
	}
	return ic
}

// Reset restores a chip to its Start state, clearing registers, memory,
// and symbol tables but preserving its compiled program and source text
// (spec.md §3 "Chip state machine"; grounded on ic10emu's
// IntegratedCircuit::reset).
func (ic *IntegratedCircuit) Reset() {
	ic.Registers = [RegisterCount]float64{}
	ic.Memory = [MemorySize]float64{}
	ic.IP = 0
	ic.ICCount = 0
	ic.Defines = make(map[string]float64)
	ic.Aliases = make(map[string]AliasTarget)
	ic.State = StateStart
	ic.Error = nil
	ic.HasNextIP = false
}

// SetNextInstruction sets the absolute line the next step will execute
// (spec.md §4.3 "j/jal/jr" and the branch families' taken-target).
func (ic *IntegratedCircuit) SetNextInstruction(line float64) {
	ic.NextIP = uint32(line)
	ic.HasNextIP = true
}

// SetNextInstructionRelative sets the next IP relative to the
// currently-executing line (the `br...` branch family).
func (ic *IntegratedCircuit) SetNextInstructionRelative(offset float64) {
	ic.NextIP = uint32(int64(ic.IP) + int64(offset))
	ic.HasNextIP = true
}

// SetLinkRegister implements the "al" suffix: R17 = IP + 1 (spec.md §4.3
// "Link register").
func (ic *IntegratedCircuit) SetLinkRegister() {
	ic.Registers[ReturnAddressIndex] = float64(ic.IP + 1)
}
