package operand

import "github.com/Ryex/ic10emu-sub001/enums"

// Value resolves a Number to its f64 runtime value (spec.md §4.3, §8
// property 3 for Number.String).
func (n Number) Value() float64 {
	switch n.Kind {
	case NumFloat, NumConstant, NumEnum:
		return n.F
	case NumHexadecimal, NumBinary:
		return float64(n.I)
	case NumString:
		return enums.HashString(n.S)
	}
	return 0
}

// ValueI64 resolves a Number to an i64 for bitwise opcodes (spec.md
// §4.3 "Bitwise"). Hex/Binary literals already carry an exact integer;
// Float/Constant/Enum values go through a saturating f64→i64 conversion.
func (n Number) ValueI64(signed bool) int64 {
	switch n.Kind {
	case NumHexadecimal, NumBinary:
		return n.I
	case NumString:
		return int64(int32(enums.HashString(n.S)))
	default:
		return F64ToI64(n.F, signed)
	}
}

// F64ToI64 performs the saturating, signedness-aware conversion the
// bitwise opcodes use to turn a register value into an integer operand.
func F64ToI64(v float64, signed bool) int64 {
	if v != v { // NaN
		return 0
	}
	if signed {
		const maxI64 = float64(1<<63 - 1)
		const minI64 = -float64(1 << 63)
		switch {
		case v >= maxI64:
			return 1<<63 - 1
		case v <= minI64:
			return -1 << 63
		default:
			return int64(v)
		}
	}
	const maxU64 = float64(1<<64 - 1)
	switch {
	case v <= 0:
		return 0
	case v >= maxU64:
		u := uint64(1<<64 - 1)
		return int64(u)
	default:
		return int64(uint64(v))
	}
}
