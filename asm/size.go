package asm

import (
	"unicode/utf8"

	"github.com/ezrec/devcpu/expr"
	"github.com/ezrec/devcpu/lexer"
)

// evaluate computes the parameter expression of a layout directive.
func (dir *Directive) evaluate() (n int, err error) {
	n, err = expr.Evaluate(dir.Params)
	if err != nil {
		err = &ErrDirectiveExpression{Directive: dir, Err: err}
	}
	return
}

// dataValues returns the token runs of each value of a data line.
func dataValues(line *Line) (values [][]lexer.Token, err error) {
	var value []lexer.Token
	open := false
	for _, tok := range line.Significant() {
		switch tok.Kind {
		case lexer.TOKEN_DATA_START:
			open = true
			value = nil
		case lexer.TOKEN_DATA_END:
			open = false
			if len(value) == 0 {
				err = &ErrOperand{Text: line.Directive.Params, Err: ErrOperandEmpty}
				return
			}
			values = append(values, value)
		default:
			if open {
				value = append(value, tok)
			}
		}
	}
	return
}

// dataSize returns the number of words a data value encodes to.
func dataSize(value []lexer.Token) int {
	if len(value) == 1 && value[0].Kind == lexer.TOKEN_STRING {
		return utf8.RuneCountInString(value[0].Unquoted)
	}
	return 1
}

// sizeLine computes the word size of a line placed at offset o.
func sizeLine(line *Line, o int) (size int, err error) {
	dir := line.Directive
	if dir == nil {
		var code *instruction
		code, err = parseInstruction(line)
		if err != nil || code == nil {
			return
		}
		line.code = code
		size = code.size()
		return
	}

	switch dir.Kind {
	case DIRECTIVE_ORIGIN, DIRECTIVE_ALIGN:
		var target int
		target, err = dir.evaluate()
		if err != nil {
			return
		}
		if target < o {
			err = &ErrOriginBacktrack{Directive: dir, Offset: o, Target: target}
			return
		}
		size = target - o
	case DIRECTIVE_RESERVE:
		var count int
		count, err = dir.evaluate()
		if err != nil {
			return
		}
		if count < 0 {
			err = &ErrOriginBacktrack{Directive: dir, Offset: o, Target: o + count}
			return
		}
		size = count
	case DIRECTIVE_DATA:
		var values [][]lexer.Token
		values, err = dataValues(line)
		if err != nil {
			return
		}
		for _, value := range values {
			size += dataSize(value)
		}
	}

	return
}

// sizeAndLocate assigns every line its offset and word size, in order.
func (assembly *Assembly) sizeAndLocate() (err error) {
	o := 0
	for _, line := range assembly.Lines {
		line.Offset = o
		line.Size, err = sizeLine(line, o)
		if err != nil {
			err = line.wrap(err)
			return
		}
		o += line.Size
		assembly.logger.Debug("sized", "line", line.String(), "offset", line.Offset, "size", line.Size, "text", line.Text)
	}
	return
}
