package vm

import (
	"math"
	"sort"

	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/object"
)

// Coordinator implements ic.Host; every method here is the single path
// an executing Chip has to reach another object or a network (spec.md
// §3 Ownership).

func (c *Coordinator) obj(id object.ID) (*object.Object, error) {
	o, ok := c.Objects[id]
	if !ok {
		return nil, fault("ObjectNotFound", "no object with id %d", id)
	}
	return o, nil
}

func (c *Coordinator) ResolvePin(chip object.ID, pin int) (object.ID, bool, error) {
	o, err := c.obj(chip)
	if err != nil {
		return 0, false, err
	}
	if o.IC == nil {
		return 0, false, fault("NotAnIntegratedCircuit", "object %d has no pins", chip)
	}
	if pin < 0 || pin >= len(o.IC.Pins) {
		return 0, false, fault("PinIndexOutOfRange", "pin %d out of range", pin)
	}
	return o.IC.Pins[pin], o.IC.HasPin[pin], nil
}

func (c *Coordinator) CircuitHolder(chip object.ID) (object.ID, bool, error) {
	o, err := c.obj(chip)
	if err != nil {
		return 0, false, err
	}
	if o.IC == nil {
		return 0, false, fault("NotAnIntegratedCircuit", "object %d has no circuit holder", chip)
	}
	return o.IC.CircuitHolder, o.IC.HasCircuitHolder, nil
}

func (c *Coordinator) ReadLogic(self, target object.ID, field enums.LogicType) (float64, error) {
	o, err := c.obj(target)
	if err != nil {
		return 0, err
	}
	switch field {
	case fieldReferenceId:
		return float64(target), nil
	case fieldPrefabHash:
		return float64(o.Prefab.Hash), nil
	case fieldNameHash:
		return float64(o.DisplayNameHash), nil
	case fieldLineNumber:
		if o.IC == nil {
			return 0, fault("IncorrectOperandType", "object %d is not an IntegratedCircuit", target)
		}
		if target == self {
			// A chip reading its own LineNumber mid-step is the one
			// tolerated re-entrant borrow (spec.md §4.4, §5): read-0.
			return 0, nil
		}
		return float64(o.IC.IP), nil
	case fieldOn:
		if o.Device == nil {
			return 0, fault("IncorrectOperandType", "object %d is not a Device", target)
		}
		return boolToFloat(o.Device.On), nil
	case fieldPower:
		if o.Device == nil {
			return 0, fault("IncorrectOperandType", "object %d is not a Device", target)
		}
		return boolToFloat(c.hasPower(target)), nil
	}
	return o.GetLogic(field)
}

func (c *Coordinator) WriteLogic(self, target object.ID, field enums.LogicType, value float64, force bool) error {
	o, err := c.obj(target)
	if err != nil {
		return err
	}
	switch field {
	case fieldReferenceId, fieldPrefabHash, fieldNameHash:
		return fault("IncorrectOperandType", "field %s is read-only", field)
	case fieldLineNumber:
		if o.IC == nil {
			return fault("IncorrectOperandType", "object %d is not an IntegratedCircuit", target)
		}
		if target == self {
			// Write-noop counterpart of the ReadLogic self-borrow above.
			return nil
		}
		o.IC.SetNextInstruction(value)
		return nil
	case fieldPower:
		return fault("IncorrectOperandType", "field %s is read-only", field)
	case fieldOn:
		if o.Device == nil {
			return fault("IncorrectOperandType", "object %d is not a Device", target)
		}
		o.Device.On = value != 0
		return nil
	}
	return o.SetLogic(field, value, force)
}

// hasPower reports whether target is a member of any network's power-set
// (spec.md §4.4 "Power ... depend[s] on ... network-power membership").
func (c *Coordinator) hasPower(target object.ID) bool {
	for _, n := range c.Networks {
		if n.ContainsPower(target) {
			return true
		}
	}
	return false
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (c *Coordinator) ReadSlotLogic(target object.ID, slot uint32, field enums.LogicSlotType) (float64, error) {
	o, err := c.obj(target)
	if err != nil {
		return 0, err
	}
	return o.GetSlotLogic(slot, field)
}

func (c *Coordinator) WriteSlotLogic(target object.ID, slot uint32, field enums.LogicSlotType, value float64, force bool) error {
	o, err := c.obj(target)
	if err != nil {
		return err
	}
	return o.SetSlotLogic(slot, field, value)
}

func (c *Coordinator) ReadMemory(target object.ID, addr int) (float64, error) {
	o, err := c.obj(target)
	if err != nil {
		return 0, err
	}
	return o.ReadMemory(addr)
}

func (c *Coordinator) WriteMemory(target object.ID, addr int, value float64) error {
	o, err := c.obj(target)
	if err != nil {
		return err
	}
	return o.WriteMemory(addr, value)
}

func (c *Coordinator) ClearMemory(target object.ID) error {
	o, err := c.obj(target)
	if err != nil {
		return err
	}
	return o.ClearMemory()
}

// ReadReagent always reports an empty mixture: no ObjectTemplate in this
// port carries reagent inventories, so there is nothing for lr to read
// (spec.md Non-goals leave the full chemistry model out of scope).
func (c *Coordinator) ReadReagent(target object.ID, mode enums.LogicReagentMode, hash float64) (float64, error) {
	if _, err := c.obj(target); err != nil {
		return 0, err
	}
	return 0, nil
}

// matchingDevices returns the data-network-visible objects (from self's
// perspective) whose prefab hash matches, optionally filtered by
// display-name hash, sorted by id for deterministic aggregation order
// (spec.md §4.6 "batch_device").
func (c *Coordinator) matchingDevices(self object.ID, prefabHash, nameHash float64, hasName bool) []object.ID {
	seen := make(map[object.ID]bool)
	var candidates []object.ID
	for _, n := range c.Networks {
		if !n.ContainsData(self) {
			continue
		}
		for _, id := range n.DataVisible(self) {
			if seen[id] {
				continue
			}
			seen[id] = true
			o, ok := c.Objects[id]
			if !ok {
				continue
			}
			if float64(o.Prefab.Hash) != prefabHash {
				continue
			}
			if hasName && float64(o.DisplayNameHash) != nameHash {
				continue
			}
			candidates = append(candidates, id)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	return candidates
}

// aggregate folds a batch read's sampled values per spec.md §4.6 "Batch
// operations": values is already NaN-filtered by the caller, and an empty
// match set (or one left empty after filtering) defaults to +Inf for
// Minimum and -Inf for Maximum (an empty cohort can never lower a minimum
// or raise a maximum), 0 for Sum and Average.
func aggregate(method enums.LogicBatchMethod, values []float64) float64 {
	if len(values) == 0 {
		switch method {
		case enums.BatchMinimum:
			return math.Inf(1)
		case enums.BatchMaximum:
			return math.Inf(-1)
		default:
			return 0
		}
	}
	switch method {
	case enums.BatchSum:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum
	case enums.BatchMinimum:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case enums.BatchMaximum:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	default: // BatchAverage
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	}
}

func (c *Coordinator) BatchRead(self object.ID, prefabHash, nameHash float64, hasName bool, field enums.LogicType, method enums.LogicBatchMethod) (float64, error) {
	ids := c.matchingDevices(self, prefabHash, nameHash, hasName)
	values := make([]float64, 0, len(ids))
	for _, id := range ids {
		v, err := c.ReadLogic(self, id, field)
		if err != nil || math.IsNaN(v) {
			continue
		}
		values = append(values, v)
	}
	return aggregate(method, values), nil
}

func (c *Coordinator) BatchWrite(self object.ID, prefabHash, nameHash float64, hasName bool, field enums.LogicType, value float64) error {
	for _, id := range c.matchingDevices(self, prefabHash, nameHash, hasName) {
		_ = c.WriteLogic(self, id, field, value, true)
	}
	return nil
}

func (c *Coordinator) BatchSlotRead(self object.ID, prefabHash, nameHash float64, hasName bool, slot uint32, field enums.LogicSlotType, method enums.LogicBatchMethod) (float64, error) {
	ids := c.matchingDevices(self, prefabHash, nameHash, hasName)
	values := make([]float64, 0, len(ids))
	for _, id := range ids {
		v, err := c.ReadSlotLogic(id, slot, field)
		if err != nil || math.IsNaN(v) {
			continue
		}
		values = append(values, v)
	}
	return aggregate(method, values), nil
}

func (c *Coordinator) BatchWriteSlot(self object.ID, prefabHash float64, slot uint32, field enums.LogicSlotType, value float64) error {
	for _, id := range c.matchingDevices(self, prefabHash, 0, false) {
		_ = c.WriteSlotLogic(id, slot, field, value, true)
	}
	return nil
}

func (c *Coordinator) HaltAndCatchFire(chip object.ID) error {
	if _, err := c.obj(chip); err != nil {
		return err
	}
	c.MarkModified(chip)
	return nil
}

func (c *Coordinator) Rand() float64 { return c.rng.Float64() }

func (c *Coordinator) MarkModified(id object.ID) {
	c.modified = append(c.modified, id)
}
