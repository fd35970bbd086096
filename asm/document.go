package asm

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/ezrec/devcpu/lexer"
)

// reader reads documents into an assembly. The global label scope is
// threaded through the reading functions rather than kept here.
type reader struct {
	assembly *Assembly
	source   Provider
	logger   *slog.Logger
}

// readLines reads the lines of doc from input, and those of every document
// it includes, in order. scope is the global label scope at the start of
// the document; the scope at its end is returned.
func (rd *reader) readLines(doc *Document, input io.Reader, scope string) (next string, err error) {
	next = scope

	scanner := bufio.NewScanner(input)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := &Line{
			Document: doc,
			LineNo:   lineno,
			Raw:      scanner.Text(),
		}
		line.Text = line.Raw
		doc.Lines = append(doc.Lines, line)
		rd.assembly.Lines = append(rd.assembly.Lines, line)

		rd.logger.Debug("read", "document", doc.Name, "line", lineno, "text", line.Raw)

		next, err = rd.readLine(line, next)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	return
}

// readLine lexes a line, applies defines, and registers its labels.
func (rd *reader) readLine(line *Line, scope string) (next string, err error) {
	next = scope

	line.Tokens = lexer.Lex(line.Text, lexer.MODE_INITIAL)
	dir := parseDirective(line.Tokens)

	switch {
	case dir != nil && dir.Kind == DIRECTIVE_DEFINE:
		dir, err = rd.define(line, dir)
	case dir != nil && dir.Kind == DIRECTIVE_INCLUDE:
	default:
		var text string
		var changed bool
		text, changed, err = rd.assembly.Defines.Expand(line.Text)
		if err == nil && changed {
			line.Text = text
			line.Tokens = lexer.Lex(text, lexer.MODE_REPROCESS)
			dir = parseDirective(line.Tokens)
		}
	}
	if err != nil {
		err = line.wrap(err)
		return
	}

	if dir != nil {
		dir.Line = line
		line.Directive = dir
	}

	for _, tok := range lexer.Errors(line.Tokens) {
		lexErr := &ErrLex{
			Document: line.Document.Name,
			LineNo:   line.LineNo,
			Column:   tok.Start,
			Text:     tok.Text,
		}
		rd.logger.Warn("lex", "error", lexErr)
		rd.assembly.LexErrors = append(rd.assembly.LexErrors, lexErr)
	}

	next, err = rd.labels(line, next)
	if err != nil {
		return
	}

	if dir != nil && dir.Kind == DIRECTIVE_INCLUDE {
		next, err = rd.include(line, dir, next)
	}

	return
}

// labels registers the label definitions and uses of a line.
func (rd *reader) labels(line *Line, scope string) (next string, err error) {
	next = scope
	symbols := rd.assembly.Symbols

	for _, tok := range line.Tokens {
		switch tok.Kind {
		case lexer.TOKEN_LABEL_DEF:
			var name string
			name, next = Qualify(next, tok)
			err = symbols.Define(&Label{Name: name, Local: tok.Local, Line: line})
			if err != nil {
				err = line.wrap(err)
				return
			}
		case lexer.TOKEN_LABEL:
			name, _ := Qualify(next, tok)
			symbols.Use(&LabelUse{Name: name, Line: line, Value: tok.Value})
		}
	}

	return
}

// define registers the define of a line. Known defines are applied to the
// replacement text first; the key is never substituted.
func (rd *reader) define(line *Line, dir *Directive) (updated *Directive, err error) {
	updated = dir

	key, start, end, err := parseDefine(dir.Params)
	if err != nil {
		return
	}

	value, changed, err := rd.assembly.Defines.Expand(dir.Params[start:end])
	if err != nil {
		return
	}

	if changed {
		base := 0
		for _, tok := range line.Tokens {
			if tok.Kind == lexer.TOKEN_DIRECTIVE_PARAM {
				base = tok.Start
				break
			}
		}
		line.Text = line.Text[:base+start] + value + line.Text[base+end:]
		line.Tokens = lexer.Lex(line.Text, lexer.MODE_REPROCESS)
		updated = parseDirective(line.Tokens)
	}

	def, err := NewDefine(key, value)
	if err != nil {
		return
	}
	def.Line = line

	err = rd.assembly.Defines.Add(def)
	if err != nil {
		return
	}

	rd.logger.Debug("define", "key", def.Key, "value", def.Value)
	return
}

// includePath removes the quoting from an include parameter.
func includePath(params string) string {
	file := strings.TrimSpace(params)
	if len(file) >= 2 {
		switch {
		case file[0] == '"' && file[len(file)-1] == '"',
			file[0] == '<' && file[len(file)-1] == '>':
			file = file[1 : len(file)-1]
		}
	}
	return file
}

// include reads the document an include directive refers to as a child of
// the line's document.
func (rd *reader) include(line *Line, dir *Directive, scope string) (next string, err error) {
	next = scope
	parent := line.Document
	file := includePath(dir.Params)

	if rd.source == nil {
		err = line.wrap(ErrIncludeNotFound(file))
		return
	}

	name, ok := rd.source.Resolve(parent.Name, file)
	if !ok {
		err = line.wrap(ErrIncludeNotFound(file))
		return
	}

	if _, ok := parent.Ancestor(name); ok {
		err = line.wrap(ErrRecursiveInclusion(name))
		return
	}

	rc, err := rd.source.Open(name)
	if err != nil {
		err = line.wrap(err)
		return
	}
	defer rc.Close()

	child := &Document{
		Name:   name,
		Parent: parent,
	}
	if parent.Includes == nil {
		parent.Includes = make(map[*Directive]*Document)
	}
	parent.Includes[dir] = child

	rd.logger.Debug("include", "document", parent.Name, "file", name)

	return rd.readLines(child, rc, next)
}
