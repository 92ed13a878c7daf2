package ic

import (
	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/operand"
)

// logicType extracts a LogicType from a Type or numeric Enum/Number
// operand (spec.md §4.3 "Type{...} -> whichever category the opcode
// requires at that position").
func (c *Chip) logicType(h Host, op operand.Operand) (enums.LogicType, error) {
	if op.Kind == operand.KindType && op.Type.HasLogicType {
		lt, _ := enums.LogicTypeFromName(op.Type.Identifier.Name)
		return lt, nil
	}
	v, err := c.Value(h, op)
	if err != nil {
		return 0, err
	}
	lt, ok := enums.LogicTypeFromValue(v)
	if !ok {
		return 0, fault("IncorrectOperandType", "value %v is not a known logic type", v)
	}
	return lt, nil
}

func (c *Chip) slotLogicType(h Host, op operand.Operand) (enums.LogicSlotType, error) {
	if op.Kind == operand.KindType && op.Type.HasSlotType {
		slt, _ := enums.LogicSlotTypeFromName(op.Type.Identifier.Name)
		return slt, nil
	}
	v, err := c.Value(h, op)
	if err != nil {
		return 0, err
	}
	slt, ok := enums.LogicSlotTypeFromValue(v)
	if !ok {
		return 0, fault("IncorrectOperandType", "value %v is not a known slot logic type", v)
	}
	return slt, nil
}

func (c *Chip) batchMethod(h Host, op operand.Operand) (enums.LogicBatchMethod, error) {
	if op.Kind == operand.KindType && op.Type.HasBatchMode {
		bm, _ := enums.LogicBatchMethodFromName(op.Type.Identifier.Name)
		return bm, nil
	}
	v, err := c.Value(h, op)
	if err != nil {
		return 0, err
	}
	bm, ok := enums.LogicBatchMethodFromValue(v)
	if !ok {
		return 0, fault("IncorrectOperandType", "value %v is not a known batch method", v)
	}
	return bm, nil
}

func (c *Chip) reagentMode(h Host, op operand.Operand) (enums.LogicReagentMode, error) {
	if op.Kind == operand.KindType && op.Type.HasReagentMode {
		rm, _ := enums.LogicReagentModeFromName(op.Type.Identifier.Name)
		return rm, nil
	}
	v, err := c.Value(h, op)
	if err != nil {
		return 0, err
	}
	rm, ok := enums.LogicReagentModeFromValue(v)
	if !ok {
		return 0, fault("IncorrectOperandType", "value %v is not a known reagent mode", v)
	}
	return rm, nil
}

func (c *Chip) intValue(h Host, op operand.Operand) (int, error) {
	v, err := c.Value(h, op)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
