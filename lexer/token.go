package lexer

import (
	"fmt"
)

// Kind is the type of a lexed token.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	TOKEN_OPCODE_BASIC    = Kind(0)  // opcode-basic
	TOKEN_OPCODE_SPECIAL  = Kind(1)  // opcode-special
	TOKEN_REGISTER        = Kind(2)  // register
	TOKEN_STACK_ACCESS    = Kind(3)  // stack-access
	TOKEN_LITERAL         = Kind(4)  // literal
	TOKEN_LABEL           = Kind(5)  // label-use
	TOKEN_LABEL_DEF       = Kind(6)  // label-definition
	TOKEN_DIRECTIVE       = Kind(7)  // directive
	TOKEN_DIRECTIVE_PARAM = Kind(8)  // directive-parameters
	TOKEN_GROUP_START     = Kind(9)  // group-start
	TOKEN_GROUP_END       = Kind(10) // group-end
	TOKEN_ADDRESS_START   = Kind(11) // address-start
	TOKEN_ADDRESS_END     = Kind(12) // address-end
	TOKEN_DATA_START      = Kind(13) // data-value-start
	TOKEN_DATA_END        = Kind(14) // data-value-end
	TOKEN_PICK_START      = Kind(15) // pick-value-start
	TOKEN_PICK_END        = Kind(16) // pick-value-end
	TOKEN_STRING          = Kind(17) // string
	TOKEN_OPERATOR        = Kind(18) // operator
	TOKEN_UNARY_OPERATOR  = Kind(19) // unary-operator
	TOKEN_SEPARATOR       = Kind(20) // separator
	TOKEN_ERROR           = Kind(21) // error
	TOKEN_WHITESPACE      = Kind(22) // whitespace
	TOKEN_EOF             = Kind(23) // EOF
	TOKEN_OTHER           = Kind(24) // other
)

// Significant returns false for tokens that carry no assembly meaning.
func (kind Kind) Significant() bool {
	switch kind {
	case TOKEN_WHITESPACE, TOKEN_OTHER, TOKEN_EOF:
		return false
	}
	return true
}

// Value is a numeric cell that starts pending and is resolved once.
type Value struct {
	n        int
	resolved bool
}

// Resolved returns a cell already holding n.
func Resolved(n int) *Value {
	return &Value{n: n, resolved: true}
}

// Resolve stores n in the cell.
func (v *Value) Resolve(n int) {
	v.n = n
	v.resolved = true
}

// Get returns the cell contents, and whether it has been resolved.
func (v *Value) Get() (n int, ok bool) {
	if v == nil {
		return
	}
	return v.n, v.resolved
}

// Token is a single lexed element of a line. Start and End are byte offsets
// into the lexed text.
type Token struct {
	Kind  Kind
	Start int
	End   int
	Text  string
	Mode  Mode

	Value    *Value // Literal value, or label address once resolved.
	Local    bool   // Label definition or use with the local marker.
	Unquoted string // Decoded contents of a string.
}

func (tok Token) String() string {
	return fmt.Sprintf("%v(%q)@%d", tok.Kind, tok.Text, tok.Start)
}

// Name returns the label name of a label definition or use, without markers.
func (tok Token) Name() string {
	switch tok.Kind {
	case TOKEN_LABEL, TOKEN_LABEL_DEF:
	default:
		return ""
	}
	name := tok.Text
	if len(name) > 0 && name[0] == ':' {
		name = name[1:]
	}
	if len(name) > 0 && name[len(name)-1] == ':' {
		name = name[:len(name)-1]
	}
	return name
}
