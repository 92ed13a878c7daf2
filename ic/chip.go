// Package ic implements the IC10 chip runtime: register/memory state,
// operand resolution, and the fetch-execute-step loop. Grounded on
// ic10emu's IntegratedCircuit/interpreter split (lib.rs's step_ic/run_ic
// and interpreter/instructions.rs's per-opcode semantics), with the
// execution-loop shape (fetch -> decode -> execute) carried from the
// teacher's emul/cpu.go Run/fetch/execute. There is no trace hook.
package ic

import (
	"fmt"

	"github.com/Ryex/ic10emu-sub001/compiler"
	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/object"
	"github.com/Ryex/ic10emu-sub001/operand"
)

// Host is the coordinator-side capability a Chip needs to reach other
// objects and networks; implemented by vm.Coordinator (spec.md §4.3,
// §4.6). All device/network access from inside the instruction set goes
// through this interface -- a Chip never holds a direct object handle.
type Host interface {
	// ResolvePin returns the object a chip's pin index currently targets.
	ResolvePin(chip object.ID, pin int) (object.ID, bool, error)
	// CircuitHolder returns the id of the chip's own holder (Db device spec).
	CircuitHolder(chip object.ID) (object.ID, bool, error)

	ReadLogic(self, target object.ID, field enums.LogicType) (float64, error)
	WriteLogic(self, target object.ID, field enums.LogicType, value float64, force bool) error
	ReadSlotLogic(target object.ID, slot uint32, field enums.LogicSlotType) (float64, error)
	WriteSlotLogic(target object.ID, slot uint32, field enums.LogicSlotType, value float64, force bool) error
	ReadMemory(target object.ID, addr int) (float64, error)
	WriteMemory(target object.ID, addr int, value float64) error
	ClearMemory(target object.ID) error
	ReadReagent(target object.ID, mode enums.LogicReagentMode, hash float64) (float64, error)

	BatchRead(self object.ID, prefabHash float64, nameHash float64, hasName bool, field enums.LogicType, method enums.LogicBatchMethod) (float64, error)
	BatchWrite(self object.ID, prefabHash float64, nameHash float64, hasName bool, field enums.LogicType, value float64) error
	BatchSlotRead(self object.ID, prefabHash, nameHash float64, hasName bool, slot uint32, field enums.LogicSlotType, method enums.LogicBatchMethod) (float64, error)
	BatchWriteSlot(self object.ID, prefabHash float64, slot uint32, field enums.LogicSlotType, value float64) error

	HaltAndCatchFire(chip object.ID) error
	Rand() float64

	// MarkModified appends an id to the coordinator's change feed
	// (spec.md §4.6 "Step / run drivers").
	MarkModified(id object.ID)
}

// Chip is the IntegratedCircuit capability's runtime behavior, operating
// on the state held in object.IntegratedCircuit.
type Chip struct {
	Self object.ID
	IC   *object.IntegratedCircuit
}

// New wraps an object.IntegratedCircuit for execution.
func New(self object.ID, state *object.IntegratedCircuit) *Chip {
	return &Chip{Self: self, IC: state}
}

// SetSource compiles new source in lenient mode, mirroring
// ic10emu's SourceCode::set_source_code_with_invalid (spec.md §4.2).
func (c *Chip) SetSource(source string) {
	c.IC.SourceCode = source
	c.IC.Program = compiler.CompileWithInvalid(source)
}

// SetSourceStrict compiles new source in strict mode, returning the
// first compile error if any (ic10emu's SourceCode::set_source_code).
func (c *Chip) SetSourceStrict(source string) error {
	p, err := compiler.Compile(source)
	if err != nil {
		return err
	}
	c.IC.SourceCode = source
	c.IC.Program = p
	return nil
}

// Fault is an execution failure tagged with the non-exhaustive fault
// kind list from spec.md §4.3.
type Fault struct {
	Kind string
	Msg  string
}

func (f *Fault) Error() string { return fmt.Sprintf("%s: %s", f.Kind, f.Msg) }

func fault(kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// resolveRegisterIndex walks the indirection chain (spec.md §4.3
// "Operand resolution at use site").
func (c *Chip) resolveRegisterIndex(spec operand.RegisterSpec) (int, error) {
	t := spec.Target
	for i := uint32(0); i < spec.Indirection; i++ {
		if t > 17 {
			return 0, fault("RegisterIndexOutOfRange", "register r%d out of range", t)
		}
		t = uint32(int64(c.IC.Registers[t]))
	}
	if t > 17 {
		return 0, fault("RegisterIndexOutOfRange", "register r%d out of range", t)
	}
	return int(t), nil
}

func (c *Chip) getRegister(spec operand.RegisterSpec) (float64, error) {
	idx, err := c.resolveRegisterIndex(spec)
	if err != nil {
		return 0, err
	}
	return c.IC.Registers[idx], nil
}

func (c *Chip) setRegister(spec operand.RegisterSpec, val float64) error {
	idx, err := c.resolveRegisterIndex(spec)
	if err != nil {
		return err
	}
	c.IC.Registers[idx] = val
	return nil
}

// resolveDevice resolves a DeviceSpec to a target object, per spec.md
// §4.3 "DeviceSpec{device} resolves to a (ObjectID, connection?) pair".
func (c *Chip) resolveDevice(h Host, spec operand.Device) (object.ID, bool, error) {
	switch spec.Kind {
	case operand.DeviceDb:
		id, ok, err := h.CircuitHolder(c.Self)
		return id, ok, err
	case operand.DeviceNumbered:
		if spec.Number > 5 {
			return 0, false, fault("PinIndexOutOfRange", "pin %d out of range", spec.Number)
		}
		return h.ResolvePin(c.Self, int(spec.Number))
	case operand.DeviceIndirect:
		idx, err := c.resolveRegisterIndex(operand.RegisterSpec{Indirection: spec.Indirection, Target: spec.Target})
		if err != nil {
			return 0, false, err
		}
		pin := int(c.IC.Registers[idx])
		if pin < 0 || pin > 5 {
			return 0, false, fault("PinIndexOutOfRange", "pin %d out of range", pin)
		}
		return h.ResolvePin(c.Self, pin)
	}
	return 0, false, fault("DeviceNotSet", "unknown device spec kind")
}

// resolveIdentifier resolves a bare name: define > alias > label, per
// spec.md §4.3 "Identifier -> ... Order: defines > aliases > labels".
func (c *Chip) resolveIdentifier(name string) (float64, bool, error) {
	if v, ok := c.IC.Defines[name]; ok {
		return v, true, nil
	}
	if _, ok := c.IC.Aliases[name]; ok {
		return 0, false, nil // caller re-resolves through the alias target
	}
	if p := c.IC.Program; p != nil {
		if line, ok := p.Labels[name]; ok {
			return float64(line), true, nil
		}
	}
	return 0, false, fault("UnknownIdentifier", "unknown identifier '%s'", name)
}

// Value resolves any operand to its runtime f64 value (spec.md §4.3).
func (c *Chip) Value(h Host, op operand.Operand) (float64, error) {
	switch op.Kind {
	case operand.KindNumber:
		return op.Number.Value(), nil
	case operand.KindRegister:
		return c.getRegister(op.Register)
	case operand.KindDevice:
		return 0, fault("IncorrectOperandType", "device operand used where a value was expected")
	case operand.KindIdentifier:
		name := op.Identifier.Name
		v, ok, err := c.resolveIdentifier(name)
		if err != nil {
			return 0, err
		}
		if ok {
			return v, nil
		}
		if alias, ok := c.IC.Aliases[name]; ok {
			return c.valueFromAlias(h, alias)
		}
		return 0, fault("UnknownIdentifier", "unknown identifier '%s'", name)
	case operand.KindType:
		return 0, fault("IncorrectOperandType", "type operand used where a value was expected")
	}
	return 0, fault("IncorrectOperandType", "unknown operand kind")
}

func (c *Chip) valueFromAlias(h Host, alias object.AliasTarget) (float64, error) {
	switch alias.Kind {
	case object.AliasRegister:
		return c.getRegister(operand.RegisterSpec{Indirection: alias.RegIndirection, Target: alias.RegTarget})
	case object.AliasDevice:
		id, ok, err := h.ResolvePin(c.Self, alias.DevConnIdx)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fault("DeviceNotSet", "aliased device pin is not connected")
		}
		return float64(id), nil
	}
	return 0, fault("UnknownIdentifier", "unresolvable alias")
}

// ValueI64 resolves an operand for a bitwise opcode (spec.md §4.3
// "Bitwise").
func (c *Chip) ValueI64(h Host, op operand.Operand, signed bool) (int64, error) {
	if op.Kind == operand.KindNumber {
		return op.Number.ValueI64(signed), nil
	}
	v, err := c.Value(h, op)
	if err != nil {
		return 0, err
	}
	return operand.F64ToI64(v, signed), nil
}

// Device resolves a DeviceSpec operand to a target object id, honoring
// aliases that re-expand to a device (spec.md §4.3).
func (c *Chip) Device(h Host, op operand.Operand) (object.ID, bool, error) {
	switch op.Kind {
	case operand.KindDevice:
		return c.resolveDevice(h, op.DeviceSpec.Device)
	case operand.KindIdentifier:
		if alias, ok := c.IC.Aliases[op.Identifier.Name]; ok && alias.Kind == object.AliasDevice {
			return h.ResolvePin(c.Self, alias.DevConnIdx)
		}
	}
	return 0, false, fault("IncorrectOperandType", "expected a device operand")
}

// SetValue writes to a register operand, resolving aliases that
// re-expand to a register.
func (c *Chip) SetValue(op operand.Operand, val float64) error {
	switch op.Kind {
	case operand.KindRegister:
		return c.setRegister(op.Register, val)
	case operand.KindIdentifier:
		if alias, ok := c.IC.Aliases[op.Identifier.Name]; ok && alias.Kind == object.AliasRegister {
			return c.setRegister(operand.RegisterSpec{Indirection: alias.RegIndirection, Target: alias.RegTarget}, val)
		}
	}
	return fault("IncorrectOperandType", "expected a writable register operand")
}

// LineNumber reads the field synthetic on CircuitHolder (spec.md §4.4):
// a chip reading its OWN LineNumber through itself is the one tolerated
// borrow conflict -- reads return 0.0, writes are no-ops. Host is
// responsible for detecting that self-reference before calling a
// device's generic logic accessor; Chip exposes its own IP for the
// non-reentrant case.
func (c *Chip) LineNumber() float64 { return float64(c.IC.IP) }
