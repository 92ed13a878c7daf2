package compiler

import (
	"testing"

	"github.com/Ryex/ic10emu-sub001/enums"
)

func TestCompileLineCount(t *testing.T) {
	src := "move r0 10\nloop:\nadd r0 r0 1\n# comment only\n"
	p, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile: unexpected error: %v", err)
	}
	wantLines := 5 // split on trailing '\n' yields a trailing empty line
	if len(p.Instructions) != wantLines {
		t.Errorf("len(Instructions) = %d, want %d (one per source line)", len(p.Instructions), wantLines)
	}
}

func TestCompileLabels(t *testing.T) {
	src := "loop:\nadd r0 r0 1\nj loop\n"
	p, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile: unexpected error: %v", err)
	}
	line, ok := p.Labels["loop"]
	if !ok || line != 0 {
		t.Errorf("Labels[\"loop\"] = (%d, %v), want (0, true)", line, ok)
	}
	if p.Instructions[0].Op != enums.OpNop {
		t.Errorf("label line compiled to %v, want Nop", p.Instructions[0].Op)
	}
}

func TestCompileDuplicateLabelStrict(t *testing.T) {
	src := "loop:\nloop:\nadd r0 r0 1\n"
	if _, err := Compile(src); err == nil {
		t.Errorf("Compile: expected duplicate-label error, got none")
	}
}

func TestCompileStrictAbortsOnFirstError(t *testing.T) {
	src := "move r0 10\nfrobnicate r1\nadd r0 r0 1\n"
	p, err := Compile(src)
	if err == nil {
		t.Fatalf("Compile: expected error, got none")
	}
	if p != nil {
		t.Errorf("Compile: strict mode must not return a usable Program alongside the error")
	}
}

func TestCompileWithInvalidCollectsErrors(t *testing.T) {
	src := "move r0 10\nfrobnicate r1\nadd r0 r0 1\n"
	p := CompileWithInvalid(src)
	if len(p.Errors) != 1 {
		t.Fatalf("CompileWithInvalid: got %d errors, want 1", len(p.Errors))
	}
	if len(p.Instructions) != 4 {
		t.Fatalf("CompileWithInvalid: len(Instructions) = %d, want 4", len(p.Instructions))
	}
	if p.Instructions[1].Op != enums.OpNop {
		t.Errorf("invalid line compiled to %v, want Nop placeholder", p.Instructions[1].Op)
	}
	if p.Instructions[0].Op != enums.OpMove || p.Instructions[2].Op != enums.OpAdd {
		t.Errorf("valid lines around the error were not compiled: %+v", p.Instructions)
	}
}

func TestCompileMismatchOperandCount(t *testing.T) {
	src := "add r0 r1\n"
	_, err := Compile(src)
	if err == nil {
		t.Fatalf("Compile: expected a MismatchOperandCount error, got none")
	}
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("Compile: error is %T, want *CompileError", err)
	}
	if ce.Kind != "MismatchOperandCount" {
		t.Errorf("CompileError.Kind = %q, want MismatchOperandCount", ce.Kind)
	}
}

func TestProgramLineOutOfRange(t *testing.T) {
	p, _ := Compile("nop\n")
	if _, err := p.Line(10); err == nil {
		t.Errorf("Line(10): expected out-of-range error, got none")
	}
}
