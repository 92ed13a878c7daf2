package lexer

import "testing"

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		code       string
		comment    string
		hasComment bool
	}{
		{"plain", "move r0 10", "move r0 10", "", false},
		{"trailing comment", "move r0 10 # set counter", "move r0 10", " set counter", true},
		{"comment only", "# full line comment", "", " full line comment", true},
		{"trims trailing space before comment", "move r0 10   # note", "move r0 10", " note", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, comment, hasComment := SplitLine(tt.raw)
			if code != tt.code || comment != tt.comment || hasComment != tt.hasComment {
				t.Errorf("SplitLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.raw, code, comment, hasComment, tt.code, tt.comment, tt.hasComment)
			}
		})
	}
}

func TestSplitLabel(t *testing.T) {
	name, ok := SplitLabel("loop:")
	if !ok || name != "loop" {
		t.Errorf("SplitLabel(\"loop:\") = (%q, %v), want (\"loop\", true)", name, ok)
	}
	if _, ok := SplitLabel("move r0 10"); ok {
		t.Errorf("SplitLabel(\"move r0 10\") reported a label")
	}
}

func TestTokenizeLineJoinsHashLiteral(t *testing.T) {
	tokens := TokenizeLine(`move r0 HASH("Structure Furnace")`)
	if len(tokens) != 3 {
		t.Fatalf("TokenizeLine: got %d tokens, want 3: %+v", len(tokens), tokens)
	}
	if tokens[2].Text != `HASH("Structure Furnace")` {
		t.Errorf("TokenizeLine: joined token = %q", tokens[2].Text)
	}
}

func TestParseInstructionRoundTrip(t *testing.T) {
	tests := []string{
		"move r0 10",
		"add r1 r2 r3",
		`move r0 HASH("StructureFurnace")`,
		"s db Setting 1",
	}
	for _, src := range tests {
		in, err := ParseInstruction(src)
		if err != nil {
			t.Fatalf("ParseInstruction(%q): unexpected error: %v", src, err)
		}
		if got := in.String(); got != src {
			t.Errorf("round-trip: ParseInstruction(%q).String() = %q", src, got)
		}
	}
}

func TestParseInstructionUnknownOpcode(t *testing.T) {
	if _, err := ParseInstruction("frobnicate r0"); err == nil {
		t.Errorf("ParseInstruction(\"frobnicate r0\"): expected error, got none")
	}
}

func TestParseInstructionMissingOpcode(t *testing.T) {
	if _, err := ParseInstruction(""); err == nil {
		t.Errorf("ParseInstruction(\"\"): expected error, got none")
	}
}
