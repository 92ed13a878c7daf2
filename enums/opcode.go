package enums

import "strings"

// InstructionOp is an IC10 opcode mnemonic. The full 144-member registry
// from the upstream instruction set (ic10emu's InstructionOp enum) is
// carried here; the ic package dispatch table has one case per member.
type InstructionOp int

const (
	OpNop InstructionOp = iota
	OpAbs
	OpAcos
	OpAdd
	OpAlias
	OpAnd
	OpAsin
	OpAtan
	OpAtan2
	OpBap
	OpBapal
	OpBapz
	OpBapzal
	OpBdns
	OpBdnsal
	OpBdse
	OpBdseal
	OpBeq
	OpBeqal
	OpBeqz
	OpBeqzal
	OpBge
	OpBgeal
	OpBgez
	OpBgezal
	OpBgt
	OpBgtal
	OpBgtz
	OpBgtzal
	OpBle
	OpBleal
	OpBlez
	OpBlezal
	OpBlt
	OpBltal
	OpBltz
	OpBltzal
	OpBna
	OpBnaal
	OpBnan
	OpBnaz
	OpBnazal
	OpBne
	OpBneal
	OpBnez
	OpBnezal
	OpBrap
	OpBrapz
	OpBrdns
	OpBrdse
	OpBreq
	OpBreqz
	OpBrge
	OpBrgez
	OpBrgt
	OpBrgtz
	OpBrle
	OpBrlez
	OpBrlt
	OpBrltz
	OpBrna
	OpBrnan
	OpBrnaz
	OpBrne
	OpBrnez
	OpCeil
	OpClr
	OpClrd
	OpCos
	OpDefine
	OpDiv
	OpExp
	OpFloor
	OpGet
	OpGetd
	OpHcf
	OpJ
	OpJal
	OpJr
	OpL
	OpLabel
	OpLb
	OpLbn
	OpLbns
	OpLbs
	OpLd
	OpLog
	OpLr
	OpLs
	OpMax
	OpMin
	OpMod
	OpMove
	OpMul
	OpNor
	OpNot
	OpOr
	OpPeek
	OpPoke
	OpPop
	OpPush
	OpPut
	OpPutd
	OpRand
	OpRound
	OpS
	OpSap
	OpSapz
	OpSb
	OpSbn
	OpSbs
	OpSd
	OpSdns
	OpSdse
	OpSelect
	OpSeq
	OpSeqz
	OpSge
	OpSgez
	OpSgt
	OpSgtz
	OpSin
	OpSla
	OpSle
	OpSleep
	OpSlez
	OpSll
	OpSlt
	OpSltz
	OpSna
	OpSnan
	OpSnanz
	OpSnaz
	OpSne
	OpSnez
	OpSqrt
	OpSra
	OpSrl
	OpSs
	OpSub
	OpTan
	OpTrunc
	OpXor
	OpYield
	opcodeCount
)

var opcodeNames = []string{
	"nop", "abs", "acos", "add", "alias", "and", "asin", "atan",
	"atan2", "bap", "bapal", "bapz", "bapzal", "bdns", "bdnsal", "bdse",
	"bdseal", "beq", "beqal", "beqz", "beqzal", "bge", "bgeal", "bgez",
	"bgezal", "bgt", "bgtal", "bgtz", "bgtzal", "ble", "bleal", "blez",
	"blezal", "blt", "bltal", "bltz", "bltzal", "bna", "bnaal", "bnan",
	"bnaz", "bnazal", "bne", "bneal", "bnez", "bnezal", "brap", "brapz",
	"brdns", "brdse", "breq", "breqz", "brge", "brgez", "brgt", "brgtz",
	"brle", "brlez", "brlt", "brltz", "brna", "brnan", "brnaz", "brne",
	"brnez", "ceil", "clr", "clrd", "cos", "define", "div", "exp",
	"floor", "get", "getd", "hcf", "j", "jal", "jr", "l",
	"label", "lb", "lbn", "lbns", "lbs", "ld", "log", "lr",
	"ls", "max", "min", "mod", "move", "mul", "nor", "not",
	"or", "peek", "poke", "pop", "push", "put", "putd", "rand",
	"round", "s", "sap", "sapz", "sb", "sbn", "sbs", "sd",
	"sdns", "sdse", "select", "seq", "seqz", "sge", "sgez", "sgt",
	"sgtz", "sin", "sla", "sle", "sleep", "slez", "sll", "slt",
	"sltz", "sna", "snan", "snanz", "snaz", "sne", "snez", "sqrt",
	"sra", "srl", "ss", "sub", "tan", "trunc", "xor", "yield",
}

var opcodeByName map[string]InstructionOp

func init() {
	if len(opcodeNames) != int(opcodeCount) {
		panic("enums: opcodeNames table out of sync with InstructionOp constants")
	}
	opcodeByName = make(map[string]InstructionOp, len(opcodeNames))
	for i, n := range opcodeNames {
		opcodeByName[n] = InstructionOp(i)
	}
}

func (op InstructionOp) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "unknown"
}

// OpcodeFromName resolves an opcode mnemonic case-insensitively, per
// spec.md §4.1.
func OpcodeFromName(name string) (InstructionOp, bool) {
	op, ok := opcodeByName[strings.ToLower(name)]
	return op, ok
}

