package asm

import (
	"errors"

	"github.com/ezrec/devcpu/dcpu"
	"github.com/ezrec/devcpu/lexer"
)

// encode returns the words a sized line places in the image.
func (line *Line) encode() (words []uint16, err error) {
	dir := line.Directive
	switch {
	case dir != nil && dir.Kind == DIRECTIVE_DATA:
		return encodeData(line)
	case dir != nil && dir.Kind.Layout():
		words = make([]uint16, line.Size)
	case line.code != nil:
		words, err = line.code.encode()
	}
	return
}

// encodeData encodes data values in order, strings one word per character.
func encodeData(line *Line) (words []uint16, err error) {
	values, err := dataValues(line)
	if err != nil {
		return
	}

	for _, value := range values {
		if len(value) == 1 && value[0].Kind == lexer.TOKEN_STRING {
			for _, r := range value[0].Unquoted {
				words = append(words, uint16(r))
			}
			continue
		}
		var n int
		n, err = evaluate(value)
		if err != nil {
			err = &ErrOperand{Text: tokenText(line.Text, value), Err: err}
			return
		}
		words = append(words, uint16(n))
	}

	return
}

// Assemble zero fills img and writes the assembled program into it. An
// assembly with lex errors is not encoded; the errors are returned instead.
func (assembly *Assembly) Assemble(img *dcpu.Image) (err error) {
	if len(assembly.LexErrors) > 0 {
		err = errors.Join(assembly.LexErrors...)
		return
	}

	img.Zero()

	for _, line := range assembly.Lines {
		var words []uint16
		words, err = line.encode()
		if err != nil {
			err = line.wrap(err)
			return
		}
		for n, word := range words {
			addr := line.Offset + n
			if addr >= img.Len() {
				err = line.wrap(ErrImageOverflow(addr))
				return
			}
			img.Words[addr] = word
		}
	}

	return
}
