// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ezrec/devcpu/dcpu"
)

// Mode records whether a token sequence was lexed from the raw source text
// or from text rewritten by define substitution. The grammar is identical;
// only the meaning of token spans differs.
type Mode int

const (
	MODE_INITIAL   = Mode(0) // initial
	MODE_REPROCESS = Mode(1) // reprocess
)

// directives maps directive keywords to true if the directive is followed by
// data values rather than free parameter text.
var directives = map[string]bool{
	"include": false,
	"define":  false,
	"org":     false,
	"origin":  false,
	"align":   false,
	"reserve": false,
	"res":     false,
	"dat":     true,
	"dw":      true,
	"data":    true,
}

// stackAccess are the operand shorthands for the stack.
var stackAccess = map[string]bool{
	"PUSH": true,
	"POP":  true,
	"PEEK": true,
}

// DirectiveKeyword returns the lower case directive keyword of a directive
// token's text, without its marker.
func DirectiveKeyword(text string) string {
	return strings.ToLower(strings.TrimLeft(text, "#."))
}

type state int

const (
	stateLine     state = iota // Before the mnemonic.
	stateOperands              // Instruction operands.
	stateData                  // Data values.
	stateDone                  // After directive parameters.
)

type scanner struct {
	text   string
	mode   Mode
	pos    int
	tokens []Token

	state     state
	depth     int  // Bracket nesting depth.
	pick      bool // PICK operand open.
	pickDepth int  // Bracket depth the PICK was opened at.
	data      bool // Data value open.
	trailing  bool // Data separator not yet followed by a value.
}

// Lex converts one line of text into tokens. The tokens cover the whole line
// without gaps and end with a TOKEN_EOF; unrecognised input becomes
// TOKEN_ERROR tokens and lexing continues after them.
func Lex(text string, mode Mode) []Token {
	s := &scanner{text: text, mode: mode}

	for s.pos < len(s.text) {
		s.next()
	}
	s.closeValue()
	s.emit(TOKEN_EOF, s.pos)

	return s.tokens
}

// Errors returns the error tokens of a token sequence.
func Errors(tokens []Token) (errs []Token) {
	for _, tok := range tokens {
		if tok.Kind == TOKEN_ERROR {
			errs = append(errs, tok)
		}
	}
	return
}

func (s *scanner) emit(kind Kind, start int) *Token {
	s.tokens = append(s.tokens, Token{
		Kind:  kind,
		Start: start,
		End:   s.pos,
		Text:  s.text[start:s.pos],
		Mode:  s.mode,
	})
	return &s.tokens[len(s.tokens)-1]
}

func (s *scanner) next() {
	c := s.text[s.pos]
	start := s.pos

	switch {
	case isSpace(c):
		for s.pos < len(s.text) && isSpace(s.text[s.pos]) {
			s.pos++
		}
		s.emit(TOKEN_WHITESPACE, start)
	case c == ';':
		s.closeValue()
		s.pos = len(s.text)
		s.emit(TOKEN_OTHER, start)
	case s.state == stateLine:
		s.lineStart(c)
	default:
		s.operand(c)
	}
}

// closeValue ends any open PICK operand or data value. A data line ending
// in a separator gets an empty value.
func (s *scanner) closeValue() {
	if s.pick {
		s.pick = false
		s.emit(TOKEN_PICK_END, s.pos)
	}
	if s.trailing {
		s.trailing = false
		s.emit(TOKEN_DATA_START, s.pos)
		s.data = true
	}
	if s.data {
		s.data = false
		s.emit(TOKEN_DATA_END, s.pos)
	}
}

func (s *scanner) lineStart(c byte) {
	start := s.pos

	switch {
	case (c == '#' || c == '.') && s.directive():
	case c == ':':
		end := scanIdent(s.text, s.pos+1)
		if end == s.pos+1 {
			s.errorRun()
			return
		}
		s.pos = end
		s.emitLabelDef(start)
	case isIdentStart(c):
		end := scanIdent(s.text, s.pos)
		if end == s.pos {
			s.errorRun()
			return
		}
		if end < len(s.text) && s.text[end] == ':' {
			s.pos = end + 1
			s.emitLabelDef(start)
			return
		}
		word := strings.ToUpper(s.text[s.pos:end])
		s.pos = end
		_, basic := dcpu.Basic[word]
		_, alias := dcpu.Aliases[word]
		_, special := dcpu.Special[word]
		switch {
		case basic || alias:
			s.emit(TOKEN_OPCODE_BASIC, start)
			s.state = stateOperands
		case special:
			s.emit(TOKEN_OPCODE_SPECIAL, start)
			s.state = stateOperands
		case directives[strings.ToLower(word)]:
			s.emit(TOKEN_DIRECTIVE, start)
			s.state = stateData
		default:
			s.emit(TOKEN_ERROR, start)
			s.state = stateOperands
		}
	default:
		s.errorRun()
		s.state = stateOperands
	}
}

// directive lexes a marked directive and its parameters, if the text at the
// cursor is one.
func (s *scanner) directive() bool {
	start := s.pos
	end := s.pos + 1
	for end < len(s.text) && isLetter(s.text[end]) {
		end++
	}
	if end < len(s.text) && (s.text[end] == ':' || isIdentPart(s.text[end])) {
		return false
	}

	data, ok := directives[DirectiveKeyword(s.text[start:end])]
	if !ok {
		return false
	}

	s.pos = end
	s.emit(TOKEN_DIRECTIVE, start)
	if data {
		s.state = stateData
		return true
	}

	s.state = stateDone
	ws := s.pos
	for s.pos < len(s.text) && isSpace(s.text[s.pos]) {
		s.pos++
	}
	if s.pos > ws {
		s.emit(TOKEN_WHITESPACE, ws)
	}

	params := s.pos
	end = params
	quote := byte(0)
	for end < len(s.text) {
		c := s.text[end]
		if quote != 0 {
			if c == '\\' {
				end++
			} else if c == quote {
				quote = 0
			}
		} else if c == '"' || c == '\'' {
			quote = c
		} else if c == ';' {
			break
		}
		end++
	}
	end = min(end, len(s.text))
	for end > params && isSpace(s.text[end-1]) {
		end--
	}
	if end > params {
		s.pos = end
		s.emit(TOKEN_DIRECTIVE_PARAM, params)
	}

	return true
}

func (s *scanner) emitLabelDef(start int) {
	tok := s.emit(TOKEN_LABEL_DEF, start)
	tok.Local = strings.HasPrefix(tok.Name(), ".")
}

// valueEnded returns true if the last significant token ends a value, so a
// following sign is a binary operator.
func (s *scanner) valueEnded() bool {
	for n := len(s.tokens) - 1; n >= 0; n-- {
		switch s.tokens[n].Kind {
		case TOKEN_WHITESPACE, TOKEN_DATA_START:
			continue
		case TOKEN_LITERAL, TOKEN_LABEL, TOKEN_REGISTER, TOKEN_STACK_ACCESS,
			TOKEN_ADDRESS_END, TOKEN_GROUP_END, TOKEN_STRING:
			return true
		}
		return false
	}
	return false
}

func (s *scanner) operand(c byte) {
	start := s.pos

	if c == ',' {
		if s.pick && s.depth == s.pickDepth {
			s.pick = false
			s.emit(TOKEN_PICK_END, s.pos)
		}
		if s.state == stateData && s.depth == 0 {
			if !s.data {
				s.emit(TOKEN_DATA_START, s.pos)
			}
			s.data = false
			s.emit(TOKEN_DATA_END, s.pos)
			s.trailing = true
		}
		s.pos++
		s.emit(TOKEN_SEPARATOR, start)
		return
	}

	if s.state == stateData && !s.data {
		s.data = true
		s.trailing = false
		s.emit(TOKEN_DATA_START, s.pos)
	}

	switch {
	case c == '[':
		s.pos++
		s.depth++
		s.emit(TOKEN_ADDRESS_START, start)
	case c == ']':
		s.pos++
		s.depth--
		s.emit(TOKEN_ADDRESS_END, start)
	case c == '(':
		s.pos++
		s.depth++
		s.emit(TOKEN_GROUP_START, start)
	case c == ')':
		s.pos++
		s.depth--
		s.emit(TOKEN_GROUP_END, start)
	case isDigit(c):
		s.number()
	case c == '\'':
		s.character()
	case c == '"':
		s.quoted()
	case isIdentStart(c):
		end := scanIdent(s.text, s.pos)
		if end == s.pos {
			s.errorRun()
			return
		}
		word := strings.ToUpper(s.text[s.pos:end])
		s.pos = end
		_, register := dcpu.Registers[word]
		switch {
		case register:
			s.emit(TOKEN_REGISTER, start)
		case stackAccess[word]:
			s.emit(TOKEN_STACK_ACCESS, start)
		case word == "PICK":
			s.emit(TOKEN_PICK_START, start)
			s.pick = true
			s.pickDepth = s.depth
		default:
			tok := s.emit(TOKEN_LABEL, start)
			tok.Local = c == '.'
			tok.Value = &Value{}
		}
	case c == '<' || c == '>':
		if s.pos+1 < len(s.text) && s.text[s.pos+1] == c {
			s.pos += 2
			s.emit(TOKEN_OPERATOR, start)
			return
		}
		s.errorRun()
	case c == '~':
		s.pos++
		s.emit(TOKEN_UNARY_OPERATOR, start)
	case c == '+' || c == '-':
		unary := !s.valueEnded()
		s.pos++
		if unary {
			s.emit(TOKEN_UNARY_OPERATOR, start)
		} else {
			s.emit(TOKEN_OPERATOR, start)
		}
	case strings.IndexByte("*/%&|^", c) >= 0:
		s.pos++
		s.emit(TOKEN_OPERATOR, start)
	default:
		s.errorRun()
	}
}

// ParseNumber parses a decimal, 0x hexadecimal or 0b binary literal.
func ParseNumber(text string) (n int, err error) {
	base := 10
	digits := text
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			base = 16
			digits = text[2:]
		case 'b', 'B':
			base = 2
			digits = text[2:]
		}
	}

	v64, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return
	}
	n = int(v64)
	return
}

func (s *scanner) number() {
	start := s.pos
	for s.pos < len(s.text) && isIdentPart(s.text[s.pos]) {
		s.pos++
	}

	n, err := ParseNumber(s.text[start:s.pos])
	if err != nil {
		s.emit(TOKEN_ERROR, start)
		return
	}
	tok := s.emit(TOKEN_LITERAL, start)
	tok.Value = Resolved(n)
}

// unescape decodes the escape at text[pos], which follows a backslash.
func unescape(text string, pos int) (r rune, size int, ok bool) {
	if pos >= len(text) {
		return
	}
	switch text[pos] {
	case 'n':
		r = '\n'
	case 'r':
		r = '\r'
	case 't':
		r = '\t'
	case '0':
		r = 0
	case 'e':
		r = 0x1b
	case '\\', '\'', '"':
		r = rune(text[pos])
	default:
		return
	}
	return r, 1, true
}

func (s *scanner) character() {
	start := s.pos
	pos := s.pos + 1

	var r rune
	var size int
	ok := pos < len(s.text)
	if ok && s.text[pos] == '\\' {
		r, size, ok = unescape(s.text, pos+1)
		size++
	} else if ok {
		r, size = utf8.DecodeRuneInString(s.text[pos:])
		ok = r != '\'' && r != utf8.RuneError
	}
	pos += size

	if !ok || pos >= len(s.text) || s.text[pos] != '\'' {
		s.errorRun()
		return
	}

	s.pos = pos + 1
	tok := s.emit(TOKEN_LITERAL, start)
	tok.Value = Resolved(int(r))
}

func (s *scanner) quoted() {
	start := s.pos
	pos := s.pos + 1

	var str strings.Builder
	for pos < len(s.text) && s.text[pos] != '"' {
		if s.text[pos] == '\\' {
			r, size, ok := unescape(s.text, pos+1)
			if !ok {
				s.pos = len(s.text)
				s.emit(TOKEN_ERROR, start)
				return
			}
			str.WriteRune(r)
			pos += 1 + size
			continue
		}
		r, size := utf8.DecodeRuneInString(s.text[pos:])
		str.WriteRune(r)
		pos += size
	}

	if pos >= len(s.text) {
		s.pos = len(s.text)
		s.emit(TOKEN_ERROR, start)
		return
	}

	s.pos = pos + 1
	tok := s.emit(TOKEN_STRING, start)
	tok.Unquoted = str.String()
}

// errorRun consumes unrecognised text up to the next delimiter.
func (s *scanner) errorRun() {
	start := s.pos
	s.pos++
	for s.pos < len(s.text) && !isSpace(s.text[s.pos]) && strings.IndexByte(",;[]()", s.text[s.pos]) < 0 {
		s.pos++
	}
	s.emit(TOKEN_ERROR, start)
}

// IsIdentifier returns true if text is a single label or define identifier.
func IsIdentifier(text string) bool {
	return len(text) > 0 && scanIdent(text, 0) == len(text)
}

// scanIdent returns the end of the identifier starting at pos, or pos if
// there is none. A leading '.' marks a local label.
func scanIdent(text string, pos int) int {
	end := pos
	if end < len(text) && text[end] == '.' {
		end++
	}
	if end >= len(text) || !(isLetter(text[end]) || text[end] == '_') {
		return pos
	}
	for end < len(text) && isIdentPart(text[end]) {
		end++
	}
	return end
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_' || c == '.'
}

func isIdentPart(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
