package operand

import (
	"testing"
)

// TestParseRegister covers the register spec family, including indirect
// forms and the sp/ra aliases (spec.md §6 worked examples).
func TestParseRegister(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		indirection uint32
		target      uint32
	}{
		{"direct", "r0", 0, 0},
		{"direct high", "r15", 0, 15},
		{"one indirect", "rr4", 1, 4},
		{"triple indirect", "rrrr4", 3, 4},
		{"indirect through sp", "rr16", 1, 16},
		{"indirect through ra", "rr17", 1, 17},
		{"stack pointer alias", "sp", 0, 16},
		{"return address alias", "ra", 0, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q): unexpected error: %v", tt.src, err)
			}
			if op.Kind != KindRegister {
				t.Fatalf("Parse(%q): Kind = %v, want KindRegister", tt.src, op.Kind)
			}
			if op.Register.Indirection != tt.indirection || op.Register.Target != tt.target {
				t.Errorf("Parse(%q) = %+v, want indirection=%d target=%d", tt.src, op.Register, tt.indirection, tt.target)
			}
			if got := op.String(); got != tt.src {
				t.Errorf("round-trip: Parse(%q).String() = %q", tt.src, got)
			}
		})
	}
}

// TestParseRegisterFallback checks strings that merely look register-like
// but have no valid digit suffix fall back to identifiers rather than
// erroring (spec.md §4.1 last bullet).
func TestParseRegisterFallback(t *testing.T) {
	for _, src := range []string{"rsp", "rra"} {
		op, err := Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", src, err)
		}
		if op.Kind != KindIdentifier {
			t.Errorf("Parse(%q): Kind = %v, want KindIdentifier", src, op.Kind)
		}
	}
}

func TestParseDevice(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind DeviceKind
	}{
		{"db alias", "db", DeviceDb},
		{"numbered", "d0", DeviceNumbered},
		{"indirect zero", "drr0", DeviceIndirect},
		{"indirect direct", "dr0", DeviceIndirect},
		{"numbered with connection", "d0:1", DeviceNumbered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q): unexpected error: %v", tt.src, err)
			}
			if op.Kind != KindDevice {
				t.Fatalf("Parse(%q): Kind = %v, want KindDevice", tt.src, op.Kind)
			}
			if op.DeviceSpec.Device.Kind != tt.kind {
				t.Errorf("Parse(%q): device kind = %v, want %v", tt.src, op.DeviceSpec.Device.Kind, tt.kind)
			}
			if got := op.String(); got != tt.src {
				t.Errorf("round-trip: Parse(%q).String() = %q", tt.src, got)
			}
		})
	}
}

func TestParseNumberLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind NumberKind
	}{
		{"integer", "42", NumFloat},
		{"decimal", "1.2345", NumFloat},
		{"negative decimal", "-1.2345", NumFloat},
		{"pi constant", "pi", NumConstant},
		{"positive infinity", "pinf", NumConstant},
		{"negative infinity", "ninf", NumConstant},
		{"not a number", "nan", NumConstant},
		{"hex literal", "$abcd", NumHexadecimal},
		{"binary literal", "%1001", NumBinary},
		{"hashed string", `HASH("StructureFurnace")`, NumString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q): unexpected error: %v", tt.src, err)
			}
			if op.Kind != KindNumber {
				t.Fatalf("Parse(%q): Kind = %v, want KindNumber", tt.src, op.Kind)
			}
			if op.Number.Kind != tt.kind {
				t.Errorf("Parse(%q): number kind = %v, want %v", tt.src, op.Number.Kind, tt.kind)
			}
		})
	}
}

func TestNumberRoundTrip(t *testing.T) {
	for _, src := range []string{"42", "1.2345", "-1.2345", "pi", "pinf", "ninf", "nan", `HASH("StructureFurnace")`, "$abcd", "%1001"} {
		op, err := Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", src, err)
		}
		if got := op.String(); got != src {
			t.Errorf("round-trip: Parse(%q).String() = %q", src, got)
		}
	}
}

func TestHashStringValue(t *testing.T) {
	op, err := Parse(`HASH("StructureFurnace")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := op.Number.Value()
	if got == 0 {
		t.Fatalf("HASH value resolved to 0, want a nonzero CRC32-derived hash")
	}
	// Parsing the same string twice must be deterministic.
	op2, _ := Parse(`HASH("StructureFurnace")`)
	if op2.Number.Value() != got {
		t.Errorf("HASH(...) is not deterministic across parses")
	}
}

func TestParseIdentifierAndType(t *testing.T) {
	op, err := Parse("mydefine")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != KindIdentifier {
		t.Errorf("Parse(\"mydefine\"): Kind = %v, want KindIdentifier", op.Kind)
	}

	op, err = Parse("Setting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Kind != KindType || !op.Type.HasLogicType {
		t.Errorf("Parse(\"Setting\"): want KindType with HasLogicType set, got %+v", op)
	}
}

func TestParseInvalidOperands(t *testing.T) {
	for _, src := range []string{"1.", "1.2.3", "$xyz", "%210", `HASH("unterminated`} {
		if _, err := Parse(src); err == nil {
			t.Errorf("Parse(%q): expected error, got none", src)
		}
	}
}
