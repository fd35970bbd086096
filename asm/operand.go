package asm

import (
	"fmt"
	"strings"

	"github.com/ezrec/devcpu/dcpu"
	"github.com/ezrec/devcpu/expr"
	"github.com/ezrec/devcpu/lexer"
)

// operand is the parsed form of an instruction operand.
type operand struct {
	value dcpu.Value
	expr  []lexer.Token // Trailing word expression, nil if there is no trailing word.
}

// instruction is an instruction line's opcode and operands.
type instruction struct {
	special bool
	basic   dcpu.BasicOp
	op      dcpu.SpecialOp
	b       *operand // nil for special opcodes.
	a       *operand
}

// size returns the number of words the instruction encodes to.
func (code *instruction) size() (size int) {
	size = 1
	if code.a.expr != nil {
		size++
	}
	if code.b != nil && code.b.expr != nil {
		size++
	}
	return
}

// encode returns the opcode word and its trailing words, A's first.
func (code *instruction) encode() (words []uint16, err error) {
	if code.special {
		words = append(words, dcpu.MakeSpecial(code.op, code.a.value))
	} else {
		words = append(words, dcpu.MakeBasic(code.basic, code.b.value, code.a.value))
	}

	for _, arg := range []*operand{code.a, code.b} {
		if arg == nil || arg.expr == nil {
			continue
		}
		var n int
		n, err = evaluate(arg.expr)
		if err != nil {
			return
		}
		words = append(words, uint16(n))
	}

	return
}

// tokenText returns the source text a token run was lexed from.
func tokenText(text string, tokens []lexer.Token) string {
	if len(tokens) == 0 {
		return ""
	}
	return strings.TrimSpace(text[tokens[0].Start:tokens[len(tokens)-1].End])
}

// split separates operand token runs at separators.
func split(tokens []lexer.Token) (groups [][]lexer.Token) {
	if len(tokens) == 0 {
		return
	}

	var group []lexer.Token
	for _, tok := range tokens {
		if tok.Kind == lexer.TOKEN_SEPARATOR {
			groups = append(groups, group)
			group = nil
			continue
		}
		group = append(group, tok)
	}
	groups = append(groups, group)

	return
}

// parseInstruction parses the opcode and operands of a line. Lines
// without an opcode return a nil instruction.
func parseInstruction(line *Line) (code *instruction, err error) {
	tokens := line.Significant()
	for len(tokens) > 0 && tokens[0].Kind == lexer.TOKEN_LABEL_DEF {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return
	}

	opcode := tokens[0]
	name := strings.ToUpper(opcode.Text)
	groups := split(tokens[1:])

	want := 2
	code = &instruction{}
	switch opcode.Kind {
	case lexer.TOKEN_OPCODE_BASIC:
		if alias, ok := dcpu.Aliases[name]; ok {
			code.basic = alias
			code.b = &operand{value: dcpu.VAL_PC}
			want = 1
		} else {
			code.basic = dcpu.Basic[name]
		}
	case lexer.TOKEN_OPCODE_SPECIAL:
		code.special = true
		code.op = dcpu.Special[name]
		want = 1
	default:
		code = nil
		err = &ErrOperand{Text: opcode.Text, Err: ErrOperandForm}
		return
	}

	switch {
	case len(groups) < want:
		err = &ErrOperand{Text: tokenText(line.Text, tokens), Err: ErrOperandMissing}
	case len(groups) > want:
		err = &ErrOperand{Text: tokenText(line.Text, tokens), Err: ErrOperandExtra}
	case want == 2:
		code.b, err = parseOperand(line.Text, groups[0], false)
		if err == nil {
			code.a, err = parseOperand(line.Text, groups[1], true)
		}
	default:
		code.a, err = parseOperand(line.Text, groups[0], true)
	}
	if err != nil {
		code = nil
	}

	return
}

// parseOperand classifies the form of an operand.
func parseOperand(text string, tokens []lexer.Token, isA bool) (arg *operand, err error) {
	defer func() {
		if err != nil {
			arg = nil
			err = &ErrOperand{Text: tokenText(text, tokens), Err: err}
		}
	}()

	if len(tokens) == 0 {
		err = ErrOperandMissing
		return
	}

	first := tokens[0]
	last := tokens[len(tokens)-1]
	word := strings.ToUpper(first.Text)

	switch {
	case len(tokens) == 1 && first.Kind == lexer.TOKEN_REGISTER:
		arg = &operand{value: dcpu.Registers[word]}
	case len(tokens) == 1 && first.Kind == lexer.TOKEN_STACK_ACCESS:
		switch {
		case word == "PEEK":
			arg = &operand{value: dcpu.VAL_PEEK}
		case (word == "POP") == isA:
			arg = &operand{value: dcpu.VAL_PUSH_POP}
		default:
			err = ErrOperandStack
		}
	case first.Kind == lexer.TOKEN_PICK_START:
		if last.Kind != lexer.TOKEN_PICK_END {
			err = ErrOperandForm
			return
		}
		arg = &operand{value: dcpu.VAL_PICK, expr: tokens[1 : len(tokens)-1]}
		err = checkExpression(arg.expr)
	case first.Kind == lexer.TOKEN_ADDRESS_START && enclosed(tokens):
		arg, err = parseAddress(tokens[1 : len(tokens)-1])
	default:
		err = checkExpression(tokens)
		if err != nil {
			return
		}
		if isA && len(tokens) == 1 && first.Kind == lexer.TOKEN_LITERAL {
			n, _ := first.Value.Get()
			if short, ok := dcpu.Short(n); ok {
				arg = &operand{value: short}
				return
			}
		}
		arg = &operand{value: dcpu.VAL_NEXT, expr: tokens}
	}

	return
}

// enclosed returns true if the first address bracket closes at the end.
func enclosed(tokens []lexer.Token) bool {
	depth := 0
	for n, tok := range tokens {
		switch tok.Kind {
		case lexer.TOKEN_ADDRESS_START:
			depth++
		case lexer.TOKEN_ADDRESS_END:
			depth--
			if depth == 0 {
				return n == len(tokens)-1
			}
		}
	}
	return false
}

// parseAddress classifies the contents of an address operand.
func parseAddress(inner []lexer.Token) (arg *operand, err error) {
	var regs []int
	for n, tok := range inner {
		if tok.Kind == lexer.TOKEN_REGISTER {
			regs = append(regs, n)
		}
	}

	switch len(regs) {
	case 0:
		arg = &operand{value: dcpu.VAL_IND_NEXT, expr: inner}
		err = checkExpression(inner)
		return
	case 1:
	default:
		err = ErrOperandRegister
		return
	}

	at := regs[0]
	value := dcpu.Registers[strings.ToUpper(inner[at].Text)]
	reg, general := value.General()

	if len(inner) == 1 {
		switch {
		case general:
			arg = &operand{value: dcpu.VAL_REG_IND + dcpu.Value(reg)}
		case value == dcpu.VAL_SP:
			arg = &operand{value: dcpu.VAL_PEEK}
		default:
			err = ErrOperandRegister
		}
		return
	}

	var offset []lexer.Token
	switch {
	case at == 0 && inner[1].Kind == lexer.TOKEN_OPERATOR && inner[1].Text == "+":
		offset = inner[2:]
	case at == 0 && inner[1].Kind == lexer.TOKEN_OPERATOR && inner[1].Text == "-":
		offset = negate(inner[2:])
	case at == len(inner)-1 && inner[at-1].Kind == lexer.TOKEN_OPERATOR && inner[at-1].Text == "+":
		offset = inner[:at-1]
	default:
		err = ErrOperandForm
		return
	}
	if len(offset) == 0 {
		err = ErrOperandMissing
		return
	}
	err = checkExpression(offset)
	if err != nil {
		return
	}

	switch {
	case general:
		arg = &operand{value: dcpu.VAL_REG_IND_NEXT + dcpu.Value(reg), expr: offset}
	case value == dcpu.VAL_SP:
		arg = &operand{value: dcpu.VAL_PICK, expr: offset}
	default:
		err = ErrOperandRegister
	}

	return
}

// negate wraps an offset expression as -(offset).
func negate(tokens []lexer.Token) (negated []lexer.Token) {
	if len(tokens) == 0 {
		return
	}
	negated = append(negated,
		lexer.Token{Kind: lexer.TOKEN_UNARY_OPERATOR, Text: "-"},
		lexer.Token{Kind: lexer.TOKEN_GROUP_START, Text: "("})
	negated = append(negated, tokens...)
	negated = append(negated, lexer.Token{Kind: lexer.TOKEN_GROUP_END, Text: ")"})
	return
}

// checkExpression verifies that tokens only hold arithmetic.
func checkExpression(tokens []lexer.Token) (err error) {
	if len(tokens) == 0 {
		return ErrOperandMissing
	}
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.TOKEN_LITERAL, lexer.TOKEN_LABEL,
			lexer.TOKEN_OPERATOR, lexer.TOKEN_UNARY_OPERATOR,
			lexer.TOKEN_GROUP_START, lexer.TOKEN_GROUP_END:
		case lexer.TOKEN_STRING:
			return ErrOperandString
		case lexer.TOKEN_REGISTER, lexer.TOKEN_STACK_ACCESS:
			return ErrOperandRegister
		default:
			return ErrOperandForm
		}
	}
	return
}

// evaluate computes the value of an expression whose labels are resolved.
func evaluate(tokens []lexer.Token) (n int, err error) {
	if len(tokens) == 1 {
		tok := tokens[0]
		if value, ok := tok.Value.Get(); ok {
			return value, nil
		}
		if tok.Kind == lexer.TOKEN_LABEL {
			return 0, ErrLabelMissing(tok.Text)
		}
	}

	var text strings.Builder
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.TOKEN_LITERAL, lexer.TOKEN_LABEL:
			value, ok := tok.Value.Get()
			if !ok {
				err = ErrLabelMissing(tok.Text)
				return
			}
			fmt.Fprintf(&text, "%d ", value)
		case lexer.TOKEN_OPERATOR, lexer.TOKEN_UNARY_OPERATOR,
			lexer.TOKEN_GROUP_START, lexer.TOKEN_GROUP_END:
			text.WriteString(tok.Text)
			text.WriteByte(' ')
		case lexer.TOKEN_STRING:
			err = ErrOperandString
			return
		default:
			err = ErrOperandForm
			return
		}
	}

	return expr.Evaluate(text.String())
}
