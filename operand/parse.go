package operand

import (
	"strconv"
	"strings"

	"github.com/Ryex/ic10emu-sub001/enums"
)

// Parse parses a single already-whitespace-trimmed operand token
// (spec.md §4.1 "Operand dispatch"). The returned ParseError has Line=0;
// the compiler records the true source line on its CompileError instead.
func Parse(s string) (Operand, error) {
	switch {
	case s == "sp":
		return RegisterOperand(RegisterSpec{Indirection: 0, Target: 16}), nil
	case s == "ra":
		return RegisterOperand(RegisterSpec{Indirection: 0, Target: 17}), nil
	}

	if strings.HasPrefix(s, "r") {
		if op, ok, err := parseRegister(s); ok || err != nil {
			return op, err
		}
	}

	if strings.HasPrefix(s, "d") {
		if op, ok, err := parseDevice(s); ok || err != nil {
			return op, err
		}
	}

	if strings.HasPrefix(s, `HASH("`) {
		return parseHashString(s)
	}

	if strings.HasPrefix(s, "$") {
		rest := s[1:]
		if rest == "" || !allHex(rest) {
			return Operand{}, &ParseError{Msg: "Invalid Hexadecimal Number"}
		}
		v, err := enums.ParseHexLiteral(rest)
		if err != nil {
			return Operand{}, &ParseError{Msg: "Invalid Hexadecimal Number"}
		}
		return NumberOperand(Number{Kind: NumHexadecimal, I: v}), nil
	}

	if strings.HasPrefix(s, "%") {
		rest := s[1:]
		if rest == "" || !allBinary(rest) {
			return Operand{}, &ParseError{Msg: "Invalid Binary Number"}
		}
		v, err := enums.ParseBinLiteral(rest)
		if err != nil {
			return Operand{}, &ParseError{Msg: "Invalid Binary Number"}
		}
		return NumberOperand(Number{Kind: NumBinary, I: v}), nil
	}

	if op, ok, err := parseFloat(s); ok || err != nil {
		return op, err
	}

	return parseSymbolic(s)
}

func allHex(s string) bool {
	for _, c := range s {
		if !isHexDigit(byte(c)) {
			return false
		}
	}
	return true
}

func allBinary(s string) bool {
	for _, c := range s {
		if c != '0' && c != '1' {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// scanIndirectRegister reads the "r...r<digits>" shape shared by rN
// register operands and drN indirect device operands: a run of indirection
// 'r's followed by a run of digits. It returns the indirection count, the
// digit run, and whatever text in s follows them unconsumed.
func scanIndirectRegister(s string) (indirection int, digits, rest string) {
	i := 0
	for i < len(s) && s[i] == 'r' {
		indirection++
		i++
	}
	digitsStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return indirection, s[digitsStart:i], s[i:]
}

// parseRegister handles the "r..." family: sp/ra are handled by the
// caller before this is reached. Returns ok=false (no error) when s
// should fall through to identifier parsing.
func parseRegister(s string) (Operand, bool, error) {
	indirection, digits, rest := scanIndirectRegister(s[1:])
	if digits == "" {
		// no digits at all -- not a register, let identifier parsing try it
		return Operand{}, false, nil
	}
	if rest != "" {
		return Operand{}, true, &ParseError{Msg: "Invalid register specifier"}
	}
	target, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return Operand{}, true, &ParseError{Msg: "Invalid register specifier"}
	}
	return RegisterOperand(RegisterSpec{Indirection: uint32(indirection), Target: uint32(target)}), true, nil
}

// parseDevice handles the "d..." family.
func parseDevice(s string) (Operand, bool, error) {
	rest := s[1:]
	if rest == "b" {
		return DeviceOperand(DeviceSpec{Device: Device{Kind: DeviceDb}}), true, nil
	}
	if strings.HasPrefix(rest, "b:") {
		chan_ := rest[2:]
		if chan_ == "" || !allDigits(chan_) {
			return Operand{}, true, &ParseError{Msg: "Invalid device connection specifier"}
		}
		n, _ := strconv.Atoi(chan_)
		return DeviceOperand(DeviceSpec{Device: Device{Kind: DeviceDb}, Connection: &n}), true, nil
	}
	if strings.HasPrefix(rest, "r") {
		indirection, digits, tail := scanIndirectRegister(rest[1:])
		if digits == "" {
			return Operand{}, false, nil // fall through to identifier
		}
		target, err := strconv.ParseUint(digits, 10, 32)
		if err != nil {
			return Operand{}, true, &ParseError{Msg: "Invalid register specifier"}
		}
		conn, connErr, consumed := parseOptionalConnection(tail)
		if connErr != nil {
			return Operand{}, true, connErr
		}
		if !consumed {
			return Operand{}, true, &ParseError{Msg: "Invalid register specifier"}
		}
		return DeviceOperand(DeviceSpec{
			Device:     Device{Kind: DeviceIndirect, Indirection: uint32(indirection), Target: uint32(target)},
			Connection: conn,
		}), true, nil
	}
	// Numbered(n)[:conn]
	i := 0
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}
	digits := rest[:i]
	if digits == "" {
		return Operand{}, false, nil // fall through to identifier
	}
	target, _ := strconv.ParseUint(digits, 10, 32)
	conn, connErr, consumed := parseOptionalConnection(rest[i:])
	if connErr != nil {
		return Operand{}, true, connErr
	}
	if !consumed {
		return Operand{}, true, &ParseError{Msg: "Invalid device specifier"}
	}
	return DeviceOperand(DeviceSpec{Device: Device{Kind: DeviceNumbered, Number: uint32(target)}, Connection: conn}), true, nil
}

// parseOptionalConnection parses an optional ":<digits>" suffix. Returns
// consumed=false if trailing garbage remains after it.
func parseOptionalConnection(s string) (*int, error, bool) {
	if s == "" {
		return nil, nil, true
	}
	if s[0] != ':' {
		return nil, nil, false
	}
	rest := s[1:]
	i := 0
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}
	digits := rest[:i]
	if digits == "" || i != len(rest) {
		return nil, &ParseError{Msg: "Invalid device connection specifier"}, true
	}
	n, _ := strconv.Atoi(digits)
	return &n, nil, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func parseHashString(s string) (Operand, error) {
	if !strings.HasSuffix(s, `")`) {
		return Operand{}, &ParseError{Msg: `Unterminated HASH("...") literal`}
	}
	inner := s[len(`HASH("`) : len(s)-len(`")`)]
	if strings.ContainsAny(inner, "\"\n") {
		return Operand{}, &ParseError{Msg: `Invalid hash string: Can not contain '"'`}
	}
	return NumberOperand(Number{Kind: NumString, S: inner}), nil
}

// parseFloat handles optional leading '-', digits, optional '.' digits.
func parseFloat(s string) (Operand, bool, error) {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	digitsStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == digitsStart {
		return Operand{}, false, nil
	}
	if i < len(s) && s[i] == '.' {
		i++
		fracStart := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == fracStart {
			return Operand{}, true, &ParseError{Msg: "Invalid Decimal Number"}
		}
		if i != len(s) {
			return Operand{}, true, &ParseError{Msg: "Invalid Number"}
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Operand{}, true, &ParseError{Msg: "Invalid Number"}
		}
		return NumberOperand(Number{Kind: NumFloat, F: v}), true, nil
	}
	if i != len(s) {
		return Operand{}, true, &ParseError{Msg: "Invalid Integer Number"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Operand{}, true, &ParseError{Msg: "Invalid Number"}
	}
	return NumberOperand(Number{Kind: NumFloat, F: v}), true, nil
}

// parseSymbolic resolves named constants, basic enum "Family.Member"
// tokens, script-enum bare names, or falls back to an Identifier
// (spec.md §4.1, last bullet).
func parseSymbolic(s string) (Operand, error) {
	if v, ok := enums.NamedConstants[s]; ok {
		return NumberOperand(Number{Kind: NumConstant, F: v}), nil
	}
	if v, ok := enums.ParseBasicEnum(s); ok {
		return NumberOperand(Number{Kind: NumEnum, F: v}), nil
	}

	ident, err := parseIdentifier(s)
	if err != nil {
		return Operand{}, err
	}

	_, hasLT := enums.LogicTypeFromName(s)
	_, hasSLT := enums.LogicSlotTypeFromName(s)
	_, hasBM := enums.LogicBatchMethodFromName(s)
	_, hasRM := enums.LogicReagentModeFromName(s)
	if hasLT || hasSLT || hasBM || hasRM {
		return TypeOperand(Type{
			Identifier:     ident,
			HasLogicType:   hasLT,
			HasSlotType:    hasSLT,
			HasBatchMode:   hasBM,
			HasReagentMode: hasRM,
		}), nil
	}
	return IdentOperand(ident), nil
}

func parseIdentifier(s string) (Identifier, error) {
	if s == "" {
		return Identifier{}, &ParseError{Msg: "Empty Identifier"}
	}
	c := s[0]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '.') {
		return Identifier{}, &ParseError{Msg: "Invalid character to start an identifier"}
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.'
		if !ok {
			return Identifier{}, &ParseError{Span: Span{Start: i, End: i}, Msg: "Invalid character in identifier"}
		}
	}
	return Identifier{Name: s}, nil
}
