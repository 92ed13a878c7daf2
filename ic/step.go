package ic

import (
	"github.com/Ryex/ic10emu-sub001/object"
)

// runBudget is the maximum number of successful steps a single Run call
// executes before yielding control back to the host (spec.md §5 "Step /
// run drivers"; mirrors the game's per-tick instruction budget).
const runBudget = 128

// Step executes exactly one instruction and advances the instruction
// pointer, implementing the fetch-decode-execute cycle ic10emu drives
// from step_ic, carried in shape from the teacher's emul/cpu.go Run loop.
func (c *Chip) Step(h Host) error {
	if c.IC.State == object.StateError || c.IC.State == object.StateHasCaughtFire {
		return fault("ChipHalted", "chip is in state %s", c.IC.State)
	}
	c.IC.State = object.StateRunning

	in, lineErr := c.IC.Program.Line(c.IC.IP)
	if lineErr != nil {
		err := fault("InstructionPointerOutOfRange", "instruction pointer %d out of range", c.IC.IP)
		c.IC.State = object.StateError
		c.IC.Error = &object.LineError{Line: int(c.IC.IP), Err: err}
		return err
	}

	c.IC.HasNextIP = false
	if execErr := c.Execute(h, in); execErr != nil {
		c.IC.State = object.StateError
		c.IC.Error = &object.LineError{Line: int(c.IC.IP), Err: execErr}
		return execErr
	}

	if c.IC.HasNextIP {
		c.IC.IP = c.IC.NextIP
	} else {
		c.IC.IP++
	}
	// No wraparound: an IP that has run past the last line (or that a
	// jal/branch/SetNextInstruction pointed out of range) faults on the
	// next Step's fetch above, per the InstructionPointerOutOfRange fault
	// kind (spec.md §7) rather than silently restarting the program.
	c.IC.ICCount++
	h.MarkModified(c.Self)
	return nil
}

// Run steps the chip until it yields, sleeps, errors, catches fire, or
// the per-call budget is exhausted (spec.md §5 "at most 128 successful
// steps per run invocation").
func (c *Chip) Run(h Host) error {
	if c.IC.Program == nil {
		return fault("NoProgram", "chip has no compiled program")
	}
	c.IC.ICCount = 0
	for i := 0; i < runBudget; i++ {
		if err := c.Step(h); err != nil {
			return err
		}
		switch c.IC.State {
		case object.StateYield, object.StateSleep, object.StateError, object.StateHasCaughtFire:
			return nil
		}
	}
	c.IC.State = object.StateYield
	return nil
}
