// Package compiler turns IC10 source text into a Program: a line-indexed
// instruction array plus a label table, grounded on ic10emu's Program
// try_from_code/from_code_with_invalid and generalized from the teacher's
// asm/assembler.go two-pass (label-then-resolve) structure.
package compiler

import (
	"fmt"
	"strings"

	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/lexer"
	"github.com/Ryex/ic10emu-sub001/operand"
)

// CompileError is a source line's compile failure, surfaced either as a
// hard error (strict mode) or collected into Program.Errors (lenient mode).
// Kind carries the fault-kind name the lexer tagged the failure with
// ("MismatchOperandCount" is the only one it sets); it is empty for every
// other error, duplicate labels included.
type CompileError struct {
	Line int
	Msg  string
	Kind string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line+1, e.Msg)
}

// Program is a compiled IC10 source listing: one Instruction per source
// line (blank lines and label definitions become Nop placeholders so
// len(Instructions) always equals the source's line count), plus the
// label-to-line-number table (spec.md §4.2 "Program").
type Program struct {
	Source       string
	Instructions []lexer.Instruction
	Labels       map[string]uint32
	Errors       []*CompileError
}

var nopInstruction = lexer.Instruction{Op: enums.OpNop}

// Compile compiles source in strict mode: the first line error aborts
// compilation and is returned directly (spec.md §4.2, ic10emu's
// try_from_code).
func Compile(source string) (*Program, error) {
	p := compileLines(source, true)
	if len(p.Errors) > 0 {
		return nil, p.Errors[0]
	}
	return p, nil
}

// CompileWithInvalid compiles source in lenient mode: every line compiles
// to something (a Nop placeholder on error) and all failures are
// collected into Program.Errors rather than aborting (spec.md §4.2,
// ic10emu's from_code_with_invalid; this is the mode a running VM uses so
// a single bad line doesn't block every other line from executing).
func CompileWithInvalid(source string) *Program {
	return compileLines(source, false)
}

func compileLines(source string, strict bool) *Program {
	lines := strings.Split(source, "\n")
	p := &Program{
		Source:       source,
		Instructions: make([]lexer.Instruction, len(lines)),
		Labels:       make(map[string]uint32),
	}
	labelsSeen := make(map[string]bool)

	for lineNum, raw := range lines {
		code, _, _ := lexer.SplitLine(raw)
		if code == "" {
			p.Instructions[lineNum] = nopInstruction
			continue
		}

		if name, isLabel := lexer.SplitLabel(code); isLabel {
			p.Instructions[lineNum] = nopInstruction
			if labelsSeen[name] {
				p.Errors = append(p.Errors, &CompileError{Line: lineNum, Msg: fmt.Sprintf("Duplicate Label: %s", name)})
				if strict {
					return p
				}
				continue
			}
			labelsSeen[name] = true
			p.Labels[name] = uint32(lineNum)
			continue
		}

		inst, err := lexer.ParseInstruction(code)
		if err != nil {
			msg := err.Error()
			var kind string
			if pe, ok := err.(*operand.ParseError); ok {
				msg = pe.Msg
				kind = pe.Kind
			}
			p.Instructions[lineNum] = nopInstruction
			p.Errors = append(p.Errors, &CompileError{Line: lineNum, Msg: msg, Kind: kind})
			if strict {
				return p
			}
			continue
		}
		p.Instructions[lineNum] = inst
	}
	return p
}

// Line returns the instruction at the given 0-indexed program line, or an
// error if it is out of range (spec.md §4.2 "get_line").
func (p *Program) Line(n uint32) (lexer.Instruction, error) {
	if int(n) >= len(p.Instructions) {
		return lexer.Instruction{}, fmt.Errorf("instruction pointer out of range: %d", n)
	}
	return p.Instructions[n], nil
}
