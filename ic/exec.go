package ic

import (
	"math"

	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/lexer"
	"github.com/Ryex/ic10emu-sub001/object"
)

// approxEqual implements the tolerance relation from spec.md §4.3
// ("approximate equal"): |a-b| <= max(c*max(|a|,|b|), 8*epsilon).
func approxEqual(a, b, c float64) bool {
	return math.Abs(a-b) <= math.Max(c*math.Max(math.Abs(a), math.Abs(b)), 8*math.Nextafter(1, 2)-8)
}

// Execute runs a single decoded instruction, mutating the chip's state
// (spec.md §4.3 "Step semantics"). A taken branch or jump records its
// target via SetNextInstruction; Execute itself returns only an error.
// It does not itself advance IC-counter or enforce the run budget --
// that belongs to Chip.Step/Run.
func (c *Chip) Execute(h Host, in lexer.Instruction) error {
	ops := in.Operands
	switch in.Op {
	case enums.OpNop, enums.OpLabel:
		return nil

	// --- unary math ---
	case enums.OpAbs:
		return c.unaryMath(h, ops, math.Abs)
	case enums.OpAcos:
		return c.unaryMath(h, ops, math.Acos)
	case enums.OpAsin:
		return c.unaryMath(h, ops, math.Asin)
	case enums.OpAtan:
		return c.unaryMath(h, ops, math.Atan)
	case enums.OpCeil:
		return c.unaryMath(h, ops, math.Ceil)
	case enums.OpCos:
		return c.unaryMath(h, ops, math.Cos)
	case enums.OpFloor:
		return c.unaryMath(h, ops, math.Floor)
	case enums.OpRound:
		return c.unaryMath(h, ops, math.Round)
	case enums.OpSin:
		return c.unaryMath(h, ops, math.Sin)
	case enums.OpSqrt:
		return c.unaryMath(h, ops, math.Sqrt)
	case enums.OpTan:
		return c.unaryMath(h, ops, math.Tan)
	case enums.OpTrunc:
		return c.unaryMath(h, ops, math.Trunc)
	case enums.OpLog:
		return c.unaryMath(h, ops, math.Log)
	case enums.OpExp:
		return c.unaryMath(h, ops, math.Exp)
	case enums.OpNot:
		return c.unaryBitwise(h, ops)

	// --- binary math ---
	case enums.OpAdd:
		return c.binaryMath(h, ops, func(a, b float64) float64 { return a + b })
	case enums.OpSub:
		return c.binaryMath(h, ops, func(a, b float64) float64 { return a - b })
	case enums.OpMul:
		return c.binaryMath(h, ops, func(a, b float64) float64 { return a * b })
	case enums.OpDiv:
		return c.binaryMath(h, ops, func(a, b float64) float64 { return a / b })
	case enums.OpMod:
		return c.binaryMath(h, ops, mathMod)
	case enums.OpMax:
		return c.binaryMath(h, ops, math.Max)
	case enums.OpMin:
		return c.binaryMath(h, ops, math.Min)
	case enums.OpAtan2:
		return c.binaryMath(h, ops, math.Atan2)
	case enums.OpRand:
		return c.writeResult(h, ops, 0, h.Rand())

	// --- bitwise binary ---
	case enums.OpAnd:
		return c.binaryBitwise(h, ops, func(a, b int64) int64 { return a & b })
	case enums.OpOr:
		return c.binaryBitwise(h, ops, func(a, b int64) int64 { return a | b })
	case enums.OpXor:
		return c.binaryBitwise(h, ops, func(a, b int64) int64 { return a ^ b })
	case enums.OpNor:
		return c.binaryBitwise(h, ops, func(a, b int64) int64 { return ^(a | b) })
	case enums.OpSll:
		return c.shift(h, ops, func(a int64, n uint) int64 { return a << n }, true)
	case enums.OpSla:
		return c.shift(h, ops, func(a int64, n uint) int64 { return a << n }, true)
	case enums.OpSrl:
		return c.shift(h, ops, func(a int64, n uint) int64 { return int64(uint64(a) >> n) }, false)
	case enums.OpSra:
		return c.shift(h, ops, func(a int64, n uint) int64 { return a >> n }, true)

	// --- move / stack / memory ---
	case enums.OpMove:
		v, err := c.Value(h, ops[1])
		if err != nil {
			return err
		}
		return c.SetValue(ops[0], v)
	case enums.OpPush:
		return c.push(h, ops)
	case enums.OpPop:
		return c.pop(h, ops)
	case enums.OpPeek:
		return c.peek(h, ops)
	case enums.OpPoke:
		return c.poke(h, ops)

	// --- select / set-cc ---
	case enums.OpSelect:
		return c.selectOp(h, ops)
	case enums.OpSeq:
		return c.setcc3(h, ops, func(a, b, _ float64) bool { return a == b })
	case enums.OpSeqz:
		return c.setcc2(h, ops, func(a, _ float64) bool { return a == 0 })
	case enums.OpSne:
		return c.setcc3(h, ops, func(a, b, _ float64) bool { return a != b })
	case enums.OpSnez:
		return c.setcc2(h, ops, func(a, _ float64) bool { return a != 0 })
	case enums.OpSgt:
		return c.setcc3(h, ops, func(a, b, _ float64) bool { return a > b })
	case enums.OpSgtz:
		return c.setcc2(h, ops, func(a, _ float64) bool { return a > 0 })
	case enums.OpSge:
		return c.setcc3(h, ops, func(a, b, _ float64) bool { return a >= b })
	case enums.OpSgez:
		return c.setcc2(h, ops, func(a, _ float64) bool { return a >= 0 })
	case enums.OpSlt:
		return c.setcc3(h, ops, func(a, b, _ float64) bool { return a < b })
	case enums.OpSltz:
		return c.setcc2(h, ops, func(a, _ float64) bool { return a < 0 })
	case enums.OpSle:
		return c.setcc3(h, ops, func(a, b, _ float64) bool { return a <= b })
	case enums.OpSlez:
		return c.setcc2(h, ops, func(a, _ float64) bool { return a <= 0 })
	case enums.OpSap:
		return c.setcc4(h, ops, approxEqual)
	case enums.OpSapz:
		return c.setcc3tol(h, ops, func(a, c2 float64) bool { return approxEqual(a, 0, c2) })
	case enums.OpSna:
		return c.setcc4(h, ops, func(a, b, c2 float64) bool { return !approxEqual(a, b, c2) })
	case enums.OpSnaz:
		return c.setcc3tol(h, ops, func(a, c2 float64) bool { return !approxEqual(a, 0, c2) })
	case enums.OpSnan:
		return c.setccUnary(h, ops, func(a float64) bool { return math.IsNaN(a) })
	case enums.OpSnanz:
		return c.setccUnary(h, ops, func(a float64) bool { return !math.IsNaN(a) })
	case enums.OpSdse:
		return c.setccDevice(h, ops, true)
	case enums.OpSdns:
		return c.setccDevice(h, ops, false)

	// --- branches ---
	case enums.OpBeq:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a == b }, branchAbs, false)
	case enums.OpBeqal:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a == b }, branchAbs, true)
	case enums.OpBeqz:
		return c.branch2(h, ops, func(a, _ float64) bool { return a == 0 }, branchAbs, false)
	case enums.OpBeqzal:
		return c.branch2(h, ops, func(a, _ float64) bool { return a == 0 }, branchAbs, true)
	case enums.OpBreq:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a == b }, branchRel, false)
	case enums.OpBreqz:
		return c.branch2(h, ops, func(a, _ float64) bool { return a == 0 }, branchRel, false)
	case enums.OpBne:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a != b }, branchAbs, false)
	case enums.OpBneal:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a != b }, branchAbs, true)
	case enums.OpBnez:
		return c.branch2(h, ops, func(a, _ float64) bool { return a != 0 }, branchAbs, false)
	case enums.OpBnezal:
		return c.branch2(h, ops, func(a, _ float64) bool { return a != 0 }, branchAbs, true)
	case enums.OpBrne:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a != b }, branchRel, false)
	case enums.OpBrnez:
		return c.branch2(h, ops, func(a, _ float64) bool { return a != 0 }, branchRel, false)
	case enums.OpBgt:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a > b }, branchAbs, false)
	case enums.OpBgtal:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a > b }, branchAbs, true)
	case enums.OpBgtz:
		return c.branch2(h, ops, func(a, _ float64) bool { return a > 0 }, branchAbs, false)
	case enums.OpBgtzal:
		return c.branch2(h, ops, func(a, _ float64) bool { return a > 0 }, branchAbs, true)
	case enums.OpBrgt:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a > b }, branchRel, false)
	case enums.OpBrgtz:
		return c.branch2(h, ops, func(a, _ float64) bool { return a > 0 }, branchRel, false)
	case enums.OpBge:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a >= b }, branchAbs, false)
	case enums.OpBgeal:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a >= b }, branchAbs, true)
	case enums.OpBgez:
		return c.branch2(h, ops, func(a, _ float64) bool { return a >= 0 }, branchAbs, false)
	case enums.OpBgezal:
		return c.branch2(h, ops, func(a, _ float64) bool { return a >= 0 }, branchAbs, true)
	case enums.OpBrge:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a >= b }, branchRel, false)
	case enums.OpBrgez:
		return c.branch2(h, ops, func(a, _ float64) bool { return a >= 0 }, branchRel, false)
	case enums.OpBlt:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a < b }, branchAbs, false)
	case enums.OpBltal:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a < b }, branchAbs, true)
	case enums.OpBltz:
		return c.branch2(h, ops, func(a, _ float64) bool { return a < 0 }, branchAbs, false)
	case enums.OpBltzal:
		return c.branch2(h, ops, func(a, _ float64) bool { return a < 0 }, branchAbs, true)
	case enums.OpBrlt:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a < b }, branchRel, false)
	case enums.OpBrltz:
		return c.branch2(h, ops, func(a, _ float64) bool { return a < 0 }, branchRel, false)
	case enums.OpBle:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a <= b }, branchAbs, false)
	case enums.OpBleal:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a <= b }, branchAbs, true)
	case enums.OpBlez:
		return c.branch2(h, ops, func(a, _ float64) bool { return a <= 0 }, branchAbs, false)
	case enums.OpBlezal:
		return c.branch2(h, ops, func(a, _ float64) bool { return a <= 0 }, branchAbs, true)
	case enums.OpBrle:
		return c.branch3(h, ops, func(a, b, _ float64) bool { return a <= b }, branchRel, false)
	case enums.OpBrlez:
		return c.branch2(h, ops, func(a, _ float64) bool { return a <= 0 }, branchRel, false)
	case enums.OpBap:
		return c.branch4(h, ops, approxEqual, branchAbs, false)
	case enums.OpBapal:
		return c.branch4(h, ops, approxEqual, branchAbs, true)
	case enums.OpBapz:
		return c.branch3z(h, ops, func(a, c2 float64) bool { return approxEqual(a, 0, c2) }, branchAbs, false)
	case enums.OpBapzal:
		return c.branch3z(h, ops, func(a, c2 float64) bool { return approxEqual(a, 0, c2) }, branchAbs, true)
	case enums.OpBrap:
		return c.branch4(h, ops, approxEqual, branchRel, false)
	case enums.OpBrapz:
		return c.branch3z(h, ops, func(a, c2 float64) bool { return approxEqual(a, 0, c2) }, branchRel, false)
	case enums.OpBna:
		return c.branch4(h, ops, func(a, b, c2 float64) bool { return !approxEqual(a, b, c2) }, branchAbs, false)
	case enums.OpBnaal:
		return c.branch4(h, ops, func(a, b, c2 float64) bool { return !approxEqual(a, b, c2) }, branchAbs, true)
	case enums.OpBnaz:
		return c.branch3z(h, ops, func(a, c2 float64) bool { return !approxEqual(a, 0, c2) }, branchAbs, false)
	case enums.OpBnazal:
		return c.branch3z(h, ops, func(a, c2 float64) bool { return !approxEqual(a, 0, c2) }, branchAbs, true)
	case enums.OpBrna:
		return c.branch4(h, ops, func(a, b, c2 float64) bool { return !approxEqual(a, b, c2) }, branchRel, false)
	case enums.OpBrnaz:
		return c.branch3z(h, ops, func(a, c2 float64) bool { return !approxEqual(a, 0, c2) }, branchRel, false)
	case enums.OpBnan:
		return c.branch2(h, ops, func(a, _ float64) bool { return math.IsNaN(a) }, branchAbs, false)
	case enums.OpBrnan:
		return c.branch2(h, ops, func(a, _ float64) bool { return math.IsNaN(a) }, branchRel, false)
	case enums.OpBdse:
		return c.branchDevice(h, ops, true, branchAbs, false)
	case enums.OpBdseal:
		return c.branchDevice(h, ops, true, branchAbs, true)
	case enums.OpBrdse:
		return c.branchDevice(h, ops, true, branchRel, false)
	case enums.OpBdns:
		return c.branchDevice(h, ops, false, branchAbs, false)
	case enums.OpBdnsal:
		return c.branchDevice(h, ops, false, branchAbs, true)
	case enums.OpBrdns:
		return c.branchDevice(h, ops, false, branchRel, false)

	// --- control flow ---
	case enums.OpDefine:
		return c.define(h, ops)
	case enums.OpAlias:
		return c.alias(h, ops)
	case enums.OpJ:
		return c.jump(h, ops, branchAbs, false)
	case enums.OpJal:
		return c.jump(h, ops, branchAbs, true)
	case enums.OpJr:
		return c.jump(h, ops, branchRel, false)
	case enums.OpYield:
		c.IC.State = yieldState()
		return nil
	case enums.OpSleep:
		return c.sleep(h, ops)
	case enums.OpHcf:
		if err := h.HaltAndCatchFire(c.Self); err != nil {
			return err
		}
		c.IC.State = object.StateHasCaughtFire
		return nil

	// --- device I/O ---
	case enums.OpL:
		return c.load(h, ops)
	case enums.OpS:
		return c.store(h, ops)
	case enums.OpLs:
		return c.loadSlot(h, ops)
	case enums.OpSs:
		return c.storeSlot(h, ops)
	case enums.OpLd:
		return c.loadByID(h, ops)
	case enums.OpSd:
		return c.storeByID(h, ops)
	case enums.OpLr:
		return c.loadReagent(h, ops)
	case enums.OpGet:
		return c.getMem(h, ops)
	case enums.OpPut:
		return c.putMem(h, ops)
	case enums.OpGetd:
		return c.getMemByID(h, ops)
	case enums.OpPutd:
		return c.putMemByID(h, ops)
	case enums.OpClr:
		return c.clrMem(h, ops)
	case enums.OpClrd:
		return c.clrMemByID(h, ops)

	// --- batch ---
	case enums.OpLb:
		return c.batchLoad(h, ops, false)
	case enums.OpLbn:
		return c.batchLoad(h, ops, true)
	case enums.OpLbs:
		return c.batchLoadSlot(h, ops, false)
	case enums.OpLbns:
		return c.batchLoadSlot(h, ops, true)
	case enums.OpSb:
		return c.batchStore(h, ops, false)
	case enums.OpSbn:
		return c.batchStore(h, ops, true)
	case enums.OpSbs:
		return c.batchStoreSlot(h, ops)
	}
	return fault("UnknownInstruction", "opcode %s has no execution handler", in.Op)
}

func mathMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}
