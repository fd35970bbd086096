package dcpu

import (
	"fmt"
	"strings"
)

// BasicOp is a two operand opcode, stored in the low 5 bits of a word.
type BasicOp uint16

const (
	OP_SET = BasicOp(0x01) // SET
	OP_ADD = BasicOp(0x02) // ADD
	OP_SUB = BasicOp(0x03) // SUB
	OP_MUL = BasicOp(0x04) // MUL
	OP_MLI = BasicOp(0x05) // MLI
	OP_DIV = BasicOp(0x06) // DIV
	OP_DVI = BasicOp(0x07) // DVI
	OP_MOD = BasicOp(0x08) // MOD
	OP_MDI = BasicOp(0x09) // MDI
	OP_AND = BasicOp(0x0a) // AND
	OP_BOR = BasicOp(0x0b) // BOR
	OP_XOR = BasicOp(0x0c) // XOR
	OP_SHR = BasicOp(0x0d) // SHR
	OP_ASR = BasicOp(0x0e) // ASR
	OP_SHL = BasicOp(0x0f) // SHL
	OP_IFB = BasicOp(0x10) // IFB
	OP_IFC = BasicOp(0x11) // IFC
	OP_IFE = BasicOp(0x12) // IFE
	OP_IFN = BasicOp(0x13) // IFN
	OP_IFG = BasicOp(0x14) // IFG
	OP_IFA = BasicOp(0x15) // IFA
	OP_IFL = BasicOp(0x16) // IFL
	OP_IFU = BasicOp(0x17) // IFU
	OP_ADX = BasicOp(0x1a) // ADX
	OP_SBX = BasicOp(0x1b) // SBX
	OP_STI = BasicOp(0x1e) // STI
	OP_STD = BasicOp(0x1f) // STD
)

// SpecialOp is a one operand opcode, stored in bits 5-9 of a word whose
// low 5 bits are zero.
type SpecialOp uint16

const (
	SOP_JSR = SpecialOp(0x01) // JSR
	SOP_INT = SpecialOp(0x08) // INT
	SOP_IAG = SpecialOp(0x09) // IAG
	SOP_IAS = SpecialOp(0x0a) // IAS
	SOP_RFI = SpecialOp(0x0b) // RFI
	SOP_IAQ = SpecialOp(0x0c) // IAQ
	SOP_HWN = SpecialOp(0x10) // HWN
	SOP_HWQ = SpecialOp(0x11) // HWQ
	SOP_HWI = SpecialOp(0x12) // HWI
)

// Basic maps basic opcode mnemonics to opcodes.
var Basic = map[string]BasicOp{
	"SET": OP_SET, "ADD": OP_ADD, "SUB": OP_SUB, "MUL": OP_MUL,
	"MLI": OP_MLI, "DIV": OP_DIV, "DVI": OP_DVI, "MOD": OP_MOD,
	"MDI": OP_MDI, "AND": OP_AND, "BOR": OP_BOR, "XOR": OP_XOR,
	"SHR": OP_SHR, "ASR": OP_ASR, "SHL": OP_SHL, "IFB": OP_IFB,
	"IFC": OP_IFC, "IFE": OP_IFE, "IFN": OP_IFN, "IFG": OP_IFG,
	"IFA": OP_IFA, "IFL": OP_IFL, "IFU": OP_IFU, "ADX": OP_ADX,
	"SBX": OP_SBX, "STI": OP_STI, "STD": OP_STD,
}

// Special maps special opcode mnemonics to opcodes.
var Special = map[string]SpecialOp{
	"JSR": SOP_JSR, "INT": SOP_INT, "IAG": SOP_IAG, "IAS": SOP_IAS,
	"RFI": SOP_RFI, "IAQ": SOP_IAQ, "HWN": SOP_HWN, "HWQ": SOP_HWQ,
	"HWI": SOP_HWI,
}

// Aliases are basic opcode shorthands with an implied B operand.
var Aliases = map[string]BasicOp{
	"JMP": OP_SET,
}

var basicNames = invert(Basic)
var specialNames = invert(Special)

func invert[K comparable](m map[string]K) map[K]string {
	out := make(map[K]string, len(m))
	for name, op := range m {
		out[op] = name
	}
	return out
}

func (op BasicOp) String() string {
	name, ok := basicNames[op]
	if !ok {
		return fmt.Sprintf("BasicOp(0x%02x)", uint16(op))
	}
	return name
}

func (op SpecialOp) String() string {
	name, ok := specialNames[op]
	if !ok {
		return fmt.Sprintf("SpecialOp(0x%02x)", uint16(op))
	}
	return name
}

// Value is an operand value code: 5 bits in the B field, 6 in the A field.
type Value uint16

const (
	VAL_REG          = Value(0x00) // register, plus register index
	VAL_REG_IND      = Value(0x08) // [register]
	VAL_REG_IND_NEXT = Value(0x10) // [register + next word]
	VAL_PUSH_POP     = Value(0x18) // PUSH (b) / POP (a)
	VAL_PEEK         = Value(0x19) // PEEK, [SP]
	VAL_PICK         = Value(0x1a) // PICK n, [SP + next word]
	VAL_SP           = Value(0x1b) // SP
	VAL_PC           = Value(0x1c) // PC
	VAL_EX           = Value(0x1d) // EX
	VAL_IND_NEXT     = Value(0x1e) // [next word]
	VAL_NEXT         = Value(0x1f) // next word literal
	VAL_SHORT        = Value(0x21) // short literal, plus value
)

const (
	SHORT_MIN = 0  // Smallest short form literal.
	SHORT_MAX = 30 // Largest short form literal.
)

// Register is a general purpose register index.
type Register uint16

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A = Register(0) // A
	REG_B = Register(1) // B
	REG_C = Register(2) // C
	REG_X = Register(3) // X
	REG_Y = Register(4) // Y
	REG_Z = Register(5) // Z
	REG_I = Register(6) // I
	REG_J = Register(7) // J
)

// Registers maps register names to the value code when used directly.
var Registers = map[string]Value{
	"A": VAL_REG + Value(REG_A), "B": VAL_REG + Value(REG_B),
	"C": VAL_REG + Value(REG_C), "X": VAL_REG + Value(REG_X),
	"Y": VAL_REG + Value(REG_Y), "Z": VAL_REG + Value(REG_Z),
	"I": VAL_REG + Value(REG_I), "J": VAL_REG + Value(REG_J),
	"SP": VAL_SP, "PC": VAL_PC, "EX": VAL_EX,
}

// General returns the register index if the value code names a general
// purpose register.
func (v Value) General() (reg Register, ok bool) {
	if v < VAL_REG_IND {
		return Register(v), true
	}
	return 0, false
}

// Short returns the short form literal code for n.
func Short(n int) (v Value, ok bool) {
	if n < SHORT_MIN || n > SHORT_MAX {
		return 0, false
	}
	return VAL_SHORT + Value(n), true
}

// NextWord returns true if the value code consumes a trailing word.
func (v Value) NextWord() bool {
	switch {
	case v >= VAL_REG_IND_NEXT && v < VAL_PUSH_POP:
		return true
	case v == VAL_PICK, v == VAL_IND_NEXT, v == VAL_NEXT:
		return true
	}
	return false
}

// Format renders the value code, using next for any trailing word.
func (v Value) Format(next uint16, isA bool) string {
	switch {
	case v < VAL_REG_IND:
		return Register(v).String()
	case v < VAL_REG_IND_NEXT:
		return fmt.Sprintf("[%v]", Register(v-VAL_REG_IND))
	case v < VAL_PUSH_POP:
		return fmt.Sprintf("[%v+0x%04x]", Register(v-VAL_REG_IND_NEXT), next)
	case v == VAL_PUSH_POP:
		if isA {
			return "POP"
		}
		return "PUSH"
	case v == VAL_PEEK:
		return "PEEK"
	case v == VAL_PICK:
		return fmt.Sprintf("PICK 0x%04x", next)
	case v == VAL_SP:
		return "SP"
	case v == VAL_PC:
		return "PC"
	case v == VAL_EX:
		return "EX"
	case v == VAL_IND_NEXT:
		return fmt.Sprintf("[0x%04x]", next)
	case v == VAL_NEXT:
		return fmt.Sprintf("0x%04x", next)
	default:
		return fmt.Sprintf("%d", int(v)-int(VAL_SHORT))
	}
}

// MakeBasic creates a basic opcode word.
func MakeBasic(op BasicOp, b, a Value) uint16 {
	return uint16(op)&0x1f | (uint16(b)&0x1f)<<5 | (uint16(a)&0x3f)<<10
}

// MakeSpecial creates a special opcode word.
func MakeSpecial(op SpecialOp, a Value) uint16 {
	return (uint16(op)&0x1f)<<5 | (uint16(a)&0x3f)<<10
}

// Code is a decoded instruction and its trailing words.
type Code struct {
	Word       uint16
	Immediates []uint16
}

// IsSpecial returns true if the opcode word holds a special opcode.
func (code Code) IsSpecial() bool {
	return code.Word&0x1f == 0
}

// BasicDecode decodes the fields of a basic opcode word.
func (code Code) BasicDecode() (op BasicOp, b, a Value) {
	op = BasicOp(code.Word & 0x1f)
	b = Value((code.Word >> 5) & 0x1f)
	a = Value((code.Word >> 10) & 0x3f)
	return
}

// SpecialDecode decodes the fields of a special opcode word.
func (code Code) SpecialDecode() (op SpecialOp, a Value) {
	op = SpecialOp((code.Word >> 5) & 0x1f)
	a = Value((code.Word >> 10) & 0x3f)
	return
}

// ImmediateNeed returns the number of trailing words this opcode consumes.
func (code Code) ImmediateNeed() (need int) {
	if code.IsSpecial() {
		_, a := code.SpecialDecode()
		if a.NextWord() {
			need++
		}
		return
	}

	_, b, a := code.BasicDecode()
	if a.NextWord() {
		need++
	}
	if b.NextWord() {
		need++
	}
	return
}

// Decode reads one instruction from the front of words.
func Decode(words []uint16) (code Code, ok bool) {
	if len(words) == 0 {
		return
	}
	code.Word = words[0]
	need := code.ImmediateNeed()
	if len(words) < 1+need {
		return
	}
	code.Immediates = words[1 : 1+need]
	ok = true
	return
}

// String returns the assembly language representation of this instruction.
// The A operand's trailing word precedes the B operand's.
func (code Code) String() string {
	imm := func(n int) uint16 {
		if n < len(code.Immediates) {
			return code.Immediates[n]
		}
		return 0
	}

	if code.IsSpecial() {
		op, a := code.SpecialDecode()
		return fmt.Sprintf("%v %v", op, a.Format(imm(0), true))
	}

	op, b, a := code.BasicDecode()
	n := 0
	var aText string
	if a.NextWord() {
		aText = a.Format(imm(n), true)
		n++
	} else {
		aText = a.Format(0, true)
	}
	bText := b.Format(imm(n), false)

	return strings.Join([]string{op.String(), " ", bText, ", ", aText}, "")
}
