package operand

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ryex/ic10emu-sub001/enums"
)

// String renders an Operand back to IC10 source text. Round-tripping
// Parse(op.String()) must reproduce op (spec.md §8 property 2), except
// that Identifier/Type tokens which happen to also be valid numbers are
// never produced by Parse in the first place.
func (o Operand) String() string {
	switch o.Kind {
	case KindRegister:
		return o.Register.String()
	case KindDevice:
		return o.DeviceSpec.String()
	case KindNumber:
		return o.Number.String()
	case KindIdentifier:
		return o.Identifier.Name
	case KindType:
		return o.Type.Identifier.Name
	}
	return ""
}

func (r RegisterSpec) String() string {
	var b strings.Builder
	for i := uint32(0); i < r.Indirection; i++ {
		b.WriteByte('r')
	}
	if r.Indirection == 0 {
		switch r.Target {
		case 16:
			return "sp"
		case 17:
			return "ra"
		}
	}
	fmt.Fprintf(&b, "r%d", r.Target)
	return b.String()
}

func (d DeviceSpec) String() string {
	var b strings.Builder
	b.WriteString(d.Device.String())
	if d.Connection != nil {
		fmt.Fprintf(&b, ":%d", *d.Connection)
	}
	return b.String()
}

func (d Device) String() string {
	switch d.Kind {
	case DeviceDb:
		return "db"
	case DeviceNumbered:
		return fmt.Sprintf("d%d", d.Number)
	case DeviceIndirect:
		var b strings.Builder
		b.WriteByte('d')
		for i := uint32(0); i <= d.Indirection; i++ {
			b.WriteByte('r')
		}
		fmt.Fprintf(&b, "%d", d.Target)
		return b.String()
	}
	return ""
}

func (n Number) String() string {
	switch n.Kind {
	case NumFloat:
		return formatFloat(n.F)
	case NumHexadecimal:
		if n.I < 0 {
			return "$" + strconv.FormatUint(uint64(n.I), 16)
		}
		return "$" + strconv.FormatInt(n.I, 16)
	case NumBinary:
		if n.I < 0 {
			return "%" + strconv.FormatUint(uint64(n.I), 2)
		}
		return "%" + strconv.FormatInt(n.I, 2)
	case NumConstant:
		for name, v := range enums.NamedConstants {
			if v == n.F || (v != v && n.F != n.F) {
				return name
			}
		}
		return formatFloat(n.F)
	case NumEnum:
		return formatFloat(n.F)
	case NumString:
		return fmt.Sprintf(`HASH("%s")`, n.S)
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
