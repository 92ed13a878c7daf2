package ic

import (
	"github.com/Ryex/ic10emu-sub001/object"
	"github.com/Ryex/ic10emu-sub001/operand"
)

// branchDir tags whether a branch/jump target is absolute or IP-relative.
type branchDir int

const (
	branchAbs branchDir = iota
	branchRel
)

func (c *Chip) takeBranch(dir branchDir, target float64, link bool) {
	if link {
		c.IC.SetLinkRegister()
	}
	if dir == branchAbs {
		c.IC.SetNextInstruction(target)
	} else {
		c.IC.SetNextInstructionRelative(target)
	}
}

// writeResult stores val into ops[dst], the common tail of every
// arithmetic/logic instruction form (spec.md §4.3 "dest <- result").
func (c *Chip) writeResult(h Host, ops []operand.Operand, dst int, val float64) error {
	return c.SetValue(ops[dst], val)
}

func (c *Chip) unaryMath(h Host, ops []operand.Operand, fn func(float64) float64) error {
	a, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, fn(a))
}

func (c *Chip) binaryMath(h Host, ops []operand.Operand, fn func(a, b float64) float64) error {
	a, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	b, err := c.Value(h, ops[2])
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, fn(a, b))
}

func (c *Chip) unaryBitwise(h Host, ops []operand.Operand) error {
	a, err := c.ValueI64(h, ops[1], true)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, float64(^a))
}

func (c *Chip) binaryBitwise(h Host, ops []operand.Operand, fn func(a, b int64) int64) error {
	a, err := c.ValueI64(h, ops[1], true)
	if err != nil {
		return err
	}
	b, err := c.ValueI64(h, ops[2], true)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, float64(fn(a, b)))
}

// shift implements sll/sla/srl/sra: the shift count is masked to 6 bits,
// mirroring a 64-bit barrel shifter (spec.md §4.3 "Bitwise").
func (c *Chip) shift(h Host, ops []operand.Operand, fn func(a int64, n uint) int64, signed bool) error {
	a, err := c.ValueI64(h, ops[1], signed)
	if err != nil {
		return err
	}
	n, err := c.ValueI64(h, ops[2], false)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, float64(fn(a, uint(n)&63)))
}

// select implements `select dst cond a b` (spec.md §4.3).
func (c *Chip) selectOp(h Host, ops []operand.Operand) error {
	cond, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	idx := 2
	if cond == 0 {
		idx = 3
	}
	v, err := c.Value(h, ops[idx])
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, v)
}

func (c *Chip) setcc3(h Host, ops []operand.Operand, pred func(a, b, c float64) bool) error {
	a, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	b, err := c.Value(h, ops[2])
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, boolF(pred(a, b, 0.00001)))
}

func (c *Chip) setcc2(h Host, ops []operand.Operand, pred func(a, c float64) bool) error {
	a, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, boolF(pred(a, 0.00001)))
}

// setcc4 implements sap/sna: dst, a, b, tolerance.
func (c *Chip) setcc4(h Host, ops []operand.Operand, pred func(a, b, c float64) bool) error {
	a, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	b, err := c.Value(h, ops[2])
	if err != nil {
		return err
	}
	tol, err := c.Value(h, ops[3])
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, boolF(pred(a, b, tol)))
}

// setcc3tol implements sapz/snaz: dst, a, tolerance (compared against 0).
func (c *Chip) setcc3tol(h Host, ops []operand.Operand, pred func(a, c float64) bool) error {
	a, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	tol, err := c.Value(h, ops[2])
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, boolF(pred(a, tol)))
}

func (c *Chip) setccUnary(h Host, ops []operand.Operand, pred func(a float64) bool) error {
	a, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, boolF(pred(a)))
}

func (c *Chip) setccDevice(h Host, ops []operand.Operand, wantSet bool) error {
	_, ok, err := c.Device(h, ops[1])
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, boolF(ok == wantSet))
}

func boolF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (c *Chip) branch3(h Host, ops []operand.Operand, pred func(a, b, c float64) bool, dir branchDir, link bool) error {
	a, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	b, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	if pred(a, b, 0.00001) {
		target, err := c.Value(h, ops[2])
		if err != nil {
			return err
		}
		c.takeBranch(dir, target, link)
	}
	return nil
}

func (c *Chip) branch2(h Host, ops []operand.Operand, pred func(a, c float64) bool, dir branchDir, link bool) error {
	a, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	if pred(a, 0.00001) {
		target, err := c.Value(h, ops[1])
		if err != nil {
			return err
		}
		c.takeBranch(dir, target, link)
	}
	return nil
}

// branch4 implements the 4-operand approx-compare branch forms (bap/bna):
// a b tolerance target.
func (c *Chip) branch4(h Host, ops []operand.Operand, pred func(a, b, c float64) bool, dir branchDir, link bool) error {
	a, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	b, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	tol, err := c.Value(h, ops[2])
	if err != nil {
		return err
	}
	if pred(a, b, tol) {
		target, err := c.Value(h, ops[3])
		if err != nil {
			return err
		}
		c.takeBranch(dir, target, link)
	}
	return nil
}

// branch3z implements the 3-operand approx-zero-compare branch forms
// (bapz/bnaz): a tolerance target. The corrected semantics branch when
// the condition holds true, matching the bap/bna family (see DESIGN.md
// for the upstream discrepancy this deviates from).
func (c *Chip) branch3z(h Host, ops []operand.Operand, pred func(a, c float64) bool, dir branchDir, link bool) error {
	a, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	tol, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	if pred(a, tol) {
		target, err := c.Value(h, ops[2])
		if err != nil {
			return err
		}
		c.takeBranch(dir, target, link)
	}
	return nil
}

func (c *Chip) branchDevice(h Host, ops []operand.Operand, wantSet bool, dir branchDir, link bool) error {
	_, ok, err := c.Device(h, ops[0])
	if err != nil {
		return err
	}
	if ok == wantSet {
		target, err := c.Value(h, ops[1])
		if err != nil {
			return err
		}
		c.takeBranch(dir, target, link)
	}
	return nil
}

// jump implements j/jal (absolute line) and jr (offset relative to IP).
func (c *Chip) jump(h Host, ops []operand.Operand, dir branchDir, link bool) error {
	target, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	c.takeBranch(dir, target, link)
	return nil
}

// define/alias mutate the chip's symbol tables (spec.md §4.3 "define"/
// "alias"); a second `define` of an already-defined name faults with
// DuplicateDefine when it executes, while `alias` may legally rebind.
func (c *Chip) define(h Host, ops []operand.Operand) error {
	name := ops[0].Identifier.Name
	v, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	if _, exists := c.IC.Defines[name]; exists {
		return fault("DuplicateDefine", "'%s' already defined", name)
	}
	c.IC.Defines[name] = v
	return nil
}

func (c *Chip) alias(h Host, ops []operand.Operand) error {
	name := ops[0].Identifier.Name
	switch ops[1].Kind {
	case operand.KindRegister:
		c.IC.Aliases[name] = object.AliasTarget{
			Kind:           object.AliasRegister,
			RegIndirection: ops[1].Register.Indirection,
			RegTarget:      ops[1].Register.Target,
		}
		return nil
	case operand.KindDevice:
		d := ops[1].DeviceSpec.Device
		if d.Kind != operand.DeviceNumbered {
			return fault("IncorrectOperandType", "alias device target must be a pin number")
		}
		c.IC.Aliases[name] = object.AliasTarget{Kind: object.AliasDevice, DevConnIdx: int(d.Number)}
		return nil
	}
	return fault("IncorrectOperandType", "alias target must be a register or device")
}

func (c *Chip) sleep(h Host, ops []operand.Operand) error {
	secs, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	c.IC.SleepSeconds = secs
	c.IC.State = object.StateSleep
	return nil
}

func yieldState() object.ChipState { return object.StateYield }

// --- stack ---

func (c *Chip) push(h Host, ops []operand.Operand) error {
	v, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	sp := int(c.IC.Registers[object.StackPointerIndex])
	if sp < 0 || sp >= object.MemorySize {
		return fault("StackOverflow", "stack pointer %d out of range", sp)
	}
	c.IC.Memory[sp] = v
	c.IC.Registers[object.StackPointerIndex] = float64(sp + 1)
	return nil
}

func (c *Chip) pop(h Host, ops []operand.Operand) error {
	sp := int(c.IC.Registers[object.StackPointerIndex]) - 1
	if sp < 0 || sp >= object.MemorySize {
		return fault("StackUnderflow", "stack pointer %d out of range", sp)
	}
	c.IC.Registers[object.StackPointerIndex] = float64(sp)
	return c.writeResult(h, ops, 0, c.IC.Memory[sp])
}

func (c *Chip) peek(h Host, ops []operand.Operand) error {
	sp := int(c.IC.Registers[object.StackPointerIndex]) - 1
	if sp < 0 || sp >= object.MemorySize {
		return fault("StackUnderflow", "stack pointer %d out of range", sp)
	}
	return c.writeResult(h, ops, 0, c.IC.Memory[sp])
}

func (c *Chip) poke(h Host, ops []operand.Operand) error {
	addr, err := c.intValue(h, ops[0])
	if err != nil {
		return err
	}
	v, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	if addr < 0 || addr >= object.MemorySize {
		return fault("MemoryIndexOutOfRange", "address %d out of range", addr)
	}
	c.IC.Memory[addr] = v
	return nil
}

// --- device I/O ---

func (c *Chip) load(h Host, ops []operand.Operand) error {
	target, ok, err := c.Device(h, ops[1])
	if err != nil {
		return err
	}
	if !ok {
		return fault("DeviceNotSet", "device pin not connected")
	}
	field, err := c.logicType(h, ops[2])
	if err != nil {
		return err
	}
	v, err := h.ReadLogic(c.Self, target, field)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, v)
}

func (c *Chip) store(h Host, ops []operand.Operand) error {
	target, ok, err := c.Device(h, ops[0])
	if err != nil {
		return err
	}
	if !ok {
		return fault("DeviceNotSet", "device pin not connected")
	}
	field, err := c.logicType(h, ops[1])
	if err != nil {
		return err
	}
	v, err := c.Value(h, ops[2])
	if err != nil {
		return err
	}
	return h.WriteLogic(c.Self, target, field, v, true)
}

func (c *Chip) loadByID(h Host, ops []operand.Operand) error {
	idf, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	field, err := c.logicType(h, ops[2])
	if err != nil {
		return err
	}
	v, err := h.ReadLogic(c.Self, object.ID(idf), field)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, v)
}

func (c *Chip) storeByID(h Host, ops []operand.Operand) error {
	idf, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	field, err := c.logicType(h, ops[1])
	if err != nil {
		return err
	}
	v, err := c.Value(h, ops[2])
	if err != nil {
		return err
	}
	return h.WriteLogic(c.Self, object.ID(idf), field, v, true)
}

func (c *Chip) loadSlot(h Host, ops []operand.Operand) error {
	target, ok, err := c.Device(h, ops[1])
	if err != nil {
		return err
	}
	if !ok {
		return fault("DeviceNotSet", "device pin not connected")
	}
	slot, err := c.intValue(h, ops[2])
	if err != nil {
		return err
	}
	field, err := c.slotLogicType(h, ops[3])
	if err != nil {
		return err
	}
	v, err := h.ReadSlotLogic(target, uint32(slot), field)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, v)
}

func (c *Chip) storeSlot(h Host, ops []operand.Operand) error {
	target, ok, err := c.Device(h, ops[0])
	if err != nil {
		return err
	}
	if !ok {
		return fault("DeviceNotSet", "device pin not connected")
	}
	slot, err := c.intValue(h, ops[1])
	if err != nil {
		return err
	}
	field, err := c.slotLogicType(h, ops[2])
	if err != nil {
		return err
	}
	v, err := c.Value(h, ops[3])
	if err != nil {
		return err
	}
	return h.WriteSlotLogic(target, uint32(slot), field, v, true)
}

func (c *Chip) loadReagent(h Host, ops []operand.Operand) error {
	target, ok, err := c.Device(h, ops[1])
	if err != nil {
		return err
	}
	if !ok {
		return fault("DeviceNotSet", "device pin not connected")
	}
	mode, err := c.reagentMode(h, ops[2])
	if err != nil {
		return err
	}
	hash, err := c.Value(h, ops[3])
	if err != nil {
		return err
	}
	v, err := h.ReadReagent(target, mode, hash)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, v)
}

func (c *Chip) getMem(h Host, ops []operand.Operand) error {
	target, ok, err := c.Device(h, ops[1])
	if err != nil {
		return err
	}
	if !ok {
		return fault("DeviceNotSet", "device pin not connected")
	}
	addr, err := c.intValue(h, ops[2])
	if err != nil {
		return err
	}
	v, err := h.ReadMemory(target, addr)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, v)
}

func (c *Chip) putMem(h Host, ops []operand.Operand) error {
	target, ok, err := c.Device(h, ops[0])
	if err != nil {
		return err
	}
	if !ok {
		return fault("DeviceNotSet", "device pin not connected")
	}
	addr, err := c.intValue(h, ops[1])
	if err != nil {
		return err
	}
	v, err := c.Value(h, ops[2])
	if err != nil {
		return err
	}
	return h.WriteMemory(target, addr, v)
}

func (c *Chip) getMemByID(h Host, ops []operand.Operand) error {
	idf, err := c.Value(h, ops[1])
	if err != nil {
		return err
	}
	addr, err := c.intValue(h, ops[2])
	if err != nil {
		return err
	}
	v, err := h.ReadMemory(object.ID(idf), addr)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, v)
}

func (c *Chip) putMemByID(h Host, ops []operand.Operand) error {
	idf, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	addr, err := c.intValue(h, ops[1])
	if err != nil {
		return err
	}
	v, err := c.Value(h, ops[2])
	if err != nil {
		return err
	}
	return h.WriteMemory(object.ID(idf), addr, v)
}

func (c *Chip) clrMem(h Host, ops []operand.Operand) error {
	target, ok, err := c.Device(h, ops[0])
	if err != nil {
		return err
	}
	if !ok {
		return fault("DeviceNotSet", "device pin not connected")
	}
	return h.ClearMemory(target)
}

func (c *Chip) clrMemByID(h Host, ops []operand.Operand) error {
	idf, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	return h.ClearMemory(object.ID(idf))
}

// --- batch ---

// batchNameHash extracts the optional nth-operand name hash for the
// `lbn`/`sbn`/`lbns` name-filtered batch forms.
func (c *Chip) batchNameHash(h Host, op operand.Operand) (float64, error) {
	return c.Value(h, op)
}

func (c *Chip) batchLoad(h Host, ops []operand.Operand, named bool) error {
	idx := 1
	prefab, err := c.Value(h, ops[idx])
	if err != nil {
		return err
	}
	idx++
	var nameHash float64
	if named {
		nameHash, err = c.batchNameHash(h, ops[idx])
		if err != nil {
			return err
		}
		idx++
	}
	field, err := c.logicType(h, ops[idx])
	idx++
	if err != nil {
		return err
	}
	method, err := c.batchMethod(h, ops[idx])
	if err != nil {
		return err
	}
	v, err := h.BatchRead(c.Self, prefab, nameHash, named, field, method)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, v)
}

func (c *Chip) batchStore(h Host, ops []operand.Operand, named bool) error {
	idx := 0
	prefab, err := c.Value(h, ops[idx])
	if err != nil {
		return err
	}
	idx++
	var nameHash float64
	if named {
		nameHash, err = c.batchNameHash(h, ops[idx])
		if err != nil {
			return err
		}
		idx++
	}
	field, err := c.logicType(h, ops[idx])
	idx++
	if err != nil {
		return err
	}
	v, err := c.Value(h, ops[idx])
	if err != nil {
		return err
	}
	return h.BatchWrite(c.Self, prefab, nameHash, named, field, v)
}

func (c *Chip) batchLoadSlot(h Host, ops []operand.Operand, named bool) error {
	idx := 1
	prefab, err := c.Value(h, ops[idx])
	if err != nil {
		return err
	}
	idx++
	var nameHash float64
	if named {
		nameHash, err = c.batchNameHash(h, ops[idx])
		if err != nil {
			return err
		}
		idx++
	}
	slot, err := c.intValue(h, ops[idx])
	idx++
	if err != nil {
		return err
	}
	field, err := c.slotLogicType(h, ops[idx])
	idx++
	if err != nil {
		return err
	}
	method, err := c.batchMethod(h, ops[idx])
	if err != nil {
		return err
	}
	v, err := h.BatchSlotRead(c.Self, prefab, nameHash, named, uint32(slot), field, method)
	if err != nil {
		return err
	}
	return c.writeResult(h, ops, 0, v)
}

func (c *Chip) batchStoreSlot(h Host, ops []operand.Operand) error {
	prefab, err := c.Value(h, ops[0])
	if err != nil {
		return err
	}
	slot, err := c.intValue(h, ops[1])
	if err != nil {
		return err
	}
	field, err := c.slotLogicType(h, ops[2])
	if err != nil {
		return err
	}
	v, err := c.Value(h, ops[3])
	if err != nil {
		return err
	}
	return h.BatchWriteSlot(c.Self, prefab, uint32(slot), field, v)
}
