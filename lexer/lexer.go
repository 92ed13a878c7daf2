// Package lexer splits a line of IC10 source into whitespace-delimited
// tokens and assembles them into an Instruction or Label, mirroring the
// teacher's asm/lexer.go column-tracking tokenizer generalized to the
// HASH("...") token-joining rule from grammar.rs's get_operand_tokens.
package lexer

import (
	"fmt"
	"strings"

	"github.com/Ryex/ic10emu-sub001/enums"
	"github.com/Ryex/ic10emu-sub001/operand"
)

// Token is a column-tagged whitespace-delimited substring of a source line.
type Token struct {
	Text string
	Col  int
}

// TokenizeLine splits a comment- and label-colon-free code fragment into
// whitespace-run-delimited tokens, joining any `HASH("...")` literal that
// was split on an embedded space back into one token (spec.md §4.1).
func TokenizeLine(s string) []Token {
	tokens := make([]Token, 0, 8)
	i, n := 0, len(s)
	for i < n {
		for i < n && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		tokens = append(tokens, Token{Text: s[start:i], Col: start})
	}
	return joinHashTokens(s, tokens)
}

// joinHashTokens re-merges a `HASH("a b c")` literal that TokenizeLine
// split on its internal spaces, by scanning forward from any token that
// opens `HASH("` until one that closes `")`.
func joinHashTokens(s string, tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		if strings.HasPrefix(tokens[i].Text, `HASH("`) && !strings.HasSuffix(tokens[i].Text, `")`) {
			start := tokens[i].Col
			j := i
			for j < len(tokens) && !strings.HasSuffix(tokens[j].Text, `")`) {
				j++
			}
			if j < len(tokens) {
				end := tokens[j].Col + len(tokens[j].Text)
				out = append(out, Token{Text: s[start:end], Col: start})
				i = j + 1
				continue
			}
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

// Instruction is one parsed, uncompiled line of code: an opcode plus its
// operand list (spec.md §3).
type Instruction struct {
	Op       enums.InstructionOp
	Operands []operand.Operand
}

// ParseInstruction parses a code fragment (comment already stripped,
// trailing label colon already stripped) into an Instruction. All
// returned *operand.ParseError have Line=0; the compiler records the
// source line on its CompileError instead.
func ParseInstruction(s string) (Instruction, error) {
	tokens := TokenizeLine(s)
	if len(tokens) == 0 {
		return Instruction{}, &operand.ParseError{Msg: "Missing instruction"}
	}
	opTok := tokens[0]
	op, ok := enums.OpcodeFromName(opTok.Text)
	if !ok {
		return Instruction{}, &operand.ParseError{
			Span: operand.Span{Start: opTok.Col, End: opTok.Col + len(opTok.Text)},
			Msg:  fmt.Sprintf("unknown instruction '%s'", opTok.Text),
		}
	}

	operands := make([]operand.Operand, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		o, err := operand.Parse(tok.Text)
		if err != nil {
			if pe, ok := err.(*operand.ParseError); ok {
				return Instruction{}, pe.Offset(tok.Col)
			}
			return Instruction{}, err
		}
		operands = append(operands, o)
	}

	if want, ok := enums.OperandCount(op); ok && len(operands) != want {
		return Instruction{}, &operand.ParseError{
			Span: operand.Span{Start: opTok.Col, End: opTok.Col + len(opTok.Text)},
			Kind: "MismatchOperandCount",
			Msg:  fmt.Sprintf("%s takes %d operand(s), got %d", opTok.Text, want, len(operands)),
		}
	}

	return Instruction{Op: op, Operands: operands}, nil
}

// String renders an Instruction back to source text (spec.md §8 property 2).
func (in Instruction) String() string {
	var b strings.Builder
	b.WriteString(in.Op.String())
	for _, o := range in.Operands {
		b.WriteByte(' ')
		b.WriteString(o.String())
	}
	return b.String()
}

// SplitLine separates a raw source line into its code fragment and
// trailing comment on the first '#' (spec.md §3, §4.1; IC10 comments run
// from '#' to end of line, unlike the teacher's ';'). The split is
// purely lexical, same as grammar.rs's splitn(2, '#'): a '#' inside a
// HASH("...") string literal still ends the code fragment there.
func SplitLine(raw string) (code string, comment string, hasComment bool) {
	idx := strings.IndexByte(raw, '#')
	if idx < 0 {
		return strings.TrimRight(raw, " \t\r"), "", false
	}
	return strings.TrimRight(raw[:idx], " \t\r"), raw[idx+1:], true
}

// SplitLabel reports whether a code fragment is a label definition
// (trailing ':') and returns the label name if so.
func SplitLabel(code string) (name string, isLabel bool) {
	if code == "" || code[len(code)-1] != ':' {
		return "", false
	}
	return code[:len(code)-1], true
}
