package asm

import (
	"fmt"

	"github.com/ezrec/devcpu/lexer"
)

// DirectiveKind is the action of a directive.
type DirectiveKind int

//go:generate go tool stringer -linecomment -type=DirectiveKind
const (
	DIRECTIVE_ORIGIN  = DirectiveKind(0) // origin
	DIRECTIVE_ALIGN   = DirectiveKind(1) // align
	DIRECTIVE_RESERVE = DirectiveKind(2) // reserve
	DIRECTIVE_INCLUDE = DirectiveKind(3) // include
	DIRECTIVE_DEFINE  = DirectiveKind(4) // define
	DIRECTIVE_DATA    = DirectiveKind(5) // data
)

var directiveKinds = map[string]DirectiveKind{
	"org":     DIRECTIVE_ORIGIN,
	"origin":  DIRECTIVE_ORIGIN,
	"align":   DIRECTIVE_ALIGN,
	"reserve": DIRECTIVE_RESERVE,
	"res":     DIRECTIVE_RESERVE,
	"include": DIRECTIVE_INCLUDE,
	"define":  DIRECTIVE_DEFINE,
	"dat":     DIRECTIVE_DATA,
	"dw":      DIRECTIVE_DATA,
	"data":    DIRECTIVE_DATA,
}

// Layout returns true for directives that move the program counter
// without emitting code.
func (kind DirectiveKind) Layout() bool {
	switch kind {
	case DIRECTIVE_ORIGIN, DIRECTIVE_ALIGN, DIRECTIVE_RESERVE:
		return true
	}
	return false
}

// Directive is a parsed directive and its raw parameter text.
type Directive struct {
	Kind    DirectiveKind
	Keyword string // Keyword as written.
	Params  string // Parameter text, without comment or trailing space.
	Line    *Line
}

// Line is one source line of a document.
type Line struct {
	Document *Document
	LineNo   int    // 1-based.
	Raw      string // Text as read.
	Text     string // Text after define substitution.
	Tokens   []lexer.Token

	Directive *Directive // Directive of the line, if any.

	Offset int // Word address, assigned when sized.
	Size   int // Word count, assigned when sized.

	code *instruction // Operands of an instruction line, once sized.
}

func (line *Line) String() string {
	return fmt.Sprintf("%v:%d", line.Document.Name, line.LineNo)
}

// Significant returns the tokens that carry assembly meaning.
func (line *Line) Significant() (tokens []lexer.Token) {
	for _, tok := range line.Tokens {
		if tok.Kind.Significant() {
			tokens = append(tokens, tok)
		}
	}
	return
}

// wrap attaches the line to err.
func (line *Line) wrap(err error) error {
	return &ErrSyntax{
		Document: line.Document.Name,
		LineNo:   line.LineNo,
		Line:     line.Raw,
		Err:      err,
	}
}

// parseDirective finds the directive of a token sequence.
func parseDirective(tokens []lexer.Token) (dir *Directive) {
	for n, tok := range tokens {
		if tok.Kind != lexer.TOKEN_DIRECTIVE {
			continue
		}
		kind, ok := directiveKinds[lexer.DirectiveKeyword(tok.Text)]
		if !ok {
			return nil
		}
		dir = &Directive{
			Kind:    kind,
			Keyword: tok.Text,
		}
		for _, param := range tokens[n+1:] {
			if param.Kind == lexer.TOKEN_DIRECTIVE_PARAM {
				dir.Params = param.Text
				break
			}
		}
		return
	}
	return nil
}

// Document is one source resource and the documents it includes.
type Document struct {
	Name     string
	Parent   *Document
	Lines    []*Line
	Includes map[*Directive]*Document
}

// Ancestor returns the document, or one of its parents, named name.
func (doc *Document) Ancestor(name string) (found *Document, ok bool) {
	for at := doc; at != nil; at = at.Parent {
		if at.Name == name {
			return at, true
		}
	}
	return
}
