package enums

// operandCounts gives the exact operand count the ic package's dispatch
// helpers require for each opcode (spec.md §7 "MismatchOperandCount").
// Every IC10 instruction takes a fixed number of operands; there is no
// variadic form in this registry.
var operandCounts = map[InstructionOp]int{
	OpNop:   0,
	OpLabel: 0,

	OpAbs: 2, OpAcos: 2, OpAsin: 2, OpAtan: 2, OpCeil: 2, OpCos: 2,
	OpFloor: 2, OpRound: 2, OpSin: 2, OpSqrt: 2, OpTan: 2, OpTrunc: 2,
	OpLog: 2, OpExp: 2, OpNot: 2,

	OpAdd: 3, OpSub: 3, OpMul: 3, OpDiv: 3, OpMod: 3, OpMax: 3, OpMin: 3,
	OpAtan2: 3, OpAnd: 3, OpOr: 3, OpXor: 3, OpNor: 3,
	OpSll: 3, OpSla: 3, OpSrl: 3, OpSra: 3,

	OpRand: 1,

	OpMove: 2,
	OpPush: 1, OpPop: 1, OpPeek: 1, OpPoke: 2,

	OpSelect: 4,
	OpSeq: 3, OpSne: 3, OpSgt: 3, OpSge: 3, OpSlt: 3, OpSle: 3,
	OpSeqz: 2, OpSnez: 2, OpSgtz: 2, OpSgez: 2, OpSltz: 2, OpSlez: 2,
	OpSap: 4, OpSna: 4,
	OpSapz: 3, OpSnaz: 3,
	OpSnan: 2, OpSnanz: 2,
	OpSdse: 2, OpSdns: 2,

	OpBeq: 3, OpBeqal: 3, OpBne: 3, OpBneal: 3,
	OpBgt: 3, OpBgtal: 3, OpBge: 3, OpBgeal: 3,
	OpBlt: 3, OpBltal: 3, OpBle: 3, OpBleal: 3,
	OpBreq: 3, OpBrne: 3, OpBrgt: 3, OpBrge: 3, OpBrlt: 3, OpBrle: 3,

	OpBeqz: 2, OpBeqzal: 2, OpBnez: 2, OpBnezal: 2,
	OpBgtz: 2, OpBgtzal: 2, OpBgez: 2, OpBgezal: 2,
	OpBltz: 2, OpBltzal: 2, OpBlez: 2, OpBlezal: 2,
	OpBreqz: 2, OpBrnez: 2, OpBrgtz: 2, OpBrgez: 2, OpBrltz: 2, OpBrlez: 2,
	OpBnan: 2, OpBrnan: 2,

	OpBap: 4, OpBapal: 4, OpBna: 4, OpBnaal: 4, OpBrap: 4, OpBrna: 4,
	OpBapz: 3, OpBapzal: 3, OpBnaz: 3, OpBnazal: 3, OpBrapz: 3, OpBrnaz: 3,

	OpBdse: 2, OpBdseal: 2, OpBrdse: 2, OpBdns: 2, OpBdnsal: 2, OpBrdns: 2,

	OpDefine: 2, OpAlias: 2,
	OpJ: 1, OpJal: 1, OpJr: 1,
	OpYield: 0, OpSleep: 1, OpHcf: 0,

	OpL: 3, OpS: 3,
	OpLs: 4, OpSs: 4,
	OpLd: 3, OpSd: 3,
	OpLr: 4,
	OpGet: 3, OpPut: 3, OpGetd: 3, OpPutd: 3,
	OpClr: 1, OpClrd: 1,

	OpLb: 4, OpLbn: 5, OpLbs: 5, OpLbns: 6,
	OpSb: 3, OpSbn: 4, OpSbs: 4,
}

// OperandCount returns the exact number of operands op requires and
// whether op is a recognized opcode at all.
func OperandCount(op InstructionOp) (int, bool) {
	n, ok := operandCounts[op]
	return n, ok
}
