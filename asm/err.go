package asm

import (
	"errors"

	"github.com/ezrec/devcpu/translate"
)

var f = translate.From

var (
	// Operand errors
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrOperandRegister = errors.New(f("register not addressable"))
	ErrOperandStack    = errors.New(f("stack access direction invalid"))
	ErrOperandString   = errors.New(f("string in expression"))
	ErrOperandForm     = errors.New(f("operand form invalid"))
	ErrOperandEmpty    = errors.New(f("empty value"))

	// Source errors
	ErrSourceMissing = errors.New(f("no source provider"))
)

// ErrSyntax wraps an error with the source line it was found on.
type ErrSyntax struct {
	Document string
	LineNo   int
	Line     string
	Err      error
}

func (err ErrSyntax) Error() string {
	return f("%v:%d '%v' %v", err.Document, err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrLex reports text that matches no token form. It does not stop reading.
type ErrLex struct {
	Document string
	LineNo   int
	Column   int
	Text     string
}

func (err ErrLex) Error() string {
	return f("%v:%d:%d '%v' not recognised", err.Document, err.LineNo, err.Column+1, err.Text)
}

// ErrDuplicateLabel carries both definitions of a label.
type ErrDuplicateLabel struct {
	Existing *Label
	New      *Label
}

func (err ErrDuplicateLabel) Error() string {
	return f("label %v duplicated, first defined at %v:%d",
		err.New.Name, err.Existing.Line.Document.Name, err.Existing.Line.LineNo)
}

type ErrIncludeNotFound string

func (err ErrIncludeNotFound) Error() string {
	return f("include '%v' not found", string(err))
}

type ErrRecursiveInclusion string

func (err ErrRecursiveInclusion) Error() string {
	return f("include '%v' is already being read", string(err))
}

type ErrDefineFormat string

func (err ErrDefineFormat) Error() string {
	return f("'%v' is not a valid define", string(err))
}

type ErrDefineDuplicate string

func (err ErrDefineDuplicate) Error() string {
	return f("define %v duplicated", string(err))
}

type ErrRecursiveDefinition string

func (err ErrRecursiveDefinition) Error() string {
	return f("define expansion of '%v' does not terminate", string(err))
}

// ErrOriginBacktrack reports a layout directive that would move the
// program counter backwards.
type ErrOriginBacktrack struct {
	Directive *Directive
	Offset    int
	Target    int
}

func (err ErrOriginBacktrack) Error() string {
	return f("%v target 0x%04x is behind 0x%04x", err.Directive.Keyword, err.Target, err.Offset)
}

// ErrDirectiveExpression reports a directive whose parameters do not evaluate.
type ErrDirectiveExpression struct {
	Directive *Directive
	Err       error
}

func (err ErrDirectiveExpression) Error() string {
	return f("%v '%v' %v", err.Directive.Keyword, err.Directive.Params, err.Err)
}

func (err ErrDirectiveExpression) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOperand reports an instruction or data operand that has no encoding.
type ErrOperand struct {
	Text string
	Err  error
}

func (err ErrOperand) Error() string {
	return f("operand '%v' %v", err.Text, err.Err)
}

func (err ErrOperand) Unwrap() error {
	return err.Err
}

type ErrImageOverflow int

func (err ErrImageOverflow) Error() string {
	return f("address 0x%x is outside the image", int(err))
}
