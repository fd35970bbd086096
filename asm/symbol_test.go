package asm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/devcpu/lexer"
)

func TestQualify(t *testing.T) {
	assert := assert.New(t)

	scope := ""
	table := []struct {
		text  string
		name  string
		scope string
	}{
		{":.early", ".early", ""},
		{":main", "main", "main"},
		{":.loop", "main.loop", "main"},
		{"SET PC, .loop", "main.loop", "main"},
		{"SET PC, other", "other", "main"},
		{"other:", "other", "other"},
		{".loop:", "other.loop", "other"},
	}

	for _, entry := range table {
		tokens := lexer.Lex(entry.text, lexer.MODE_INITIAL)
		var tok lexer.Token
		for _, tok = range tokens {
			if tok.Kind == lexer.TOKEN_LABEL || tok.Kind == lexer.TOKEN_LABEL_DEF {
				break
			}
		}
		var name string
		name, scope = Qualify(scope, tok)
		assert.Equal(entry.name, name, entry.text)
		assert.Equal(entry.scope, scope, entry.text)
	}
}

func TestSymbolTable(t *testing.T) {
	assert := assert.New(t)

	doc := &Document{Name: "main.dasm"}
	first := &Line{Document: doc, LineNo: 1, Offset: 4}
	second := &Line{Document: doc, LineNo: 7, Offset: 9}

	st := &SymbolTable{}
	assert.NoError(st.Define(&Label{Name: "main", Line: first}))
	assert.NoError(st.Define(&Label{Name: "Main", Line: second}))

	err := st.Define(&Label{Name: "main", Line: second})
	var dup *ErrDuplicateLabel
	if assert.True(errors.As(err, &dup)) {
		assert.Equal(first, dup.Existing.Line)
		assert.Equal(second, dup.New.Line)
	}

	use := &LabelUse{Name: "Main", Line: first, Value: &lexer.Value{}}
	st.Use(use)
	st.Use(&LabelUse{Name: "Main", Line: second, Value: &lexer.Value{}})
	assert.Equal(2, len(st.Uses("Main")))
	assert.Equal(0, len(st.Uses("main")))

	assert.NoError(st.Resolve())
	n, ok := use.Value.Get()
	assert.True(ok)
	assert.Equal(9, n)

	st.Use(&LabelUse{Name: "nowhere", Line: second, Value: &lexer.Value{}})
	err = st.Resolve()
	var lm ErrLabelMissing
	if assert.True(errors.As(err, &lm)) {
		assert.Equal("nowhere", string(lm))
	}

	folded := &SymbolTable{CaseFold: true}
	assert.NoError(folded.Define(&Label{Name: "Straße", Line: first}))
	err = folded.Define(&Label{Name: "STRASSE", Line: second})
	assert.True(errors.As(err, &dup))
	label, ok := folded.Lookup("strasse")
	if assert.True(ok) {
		assert.Equal("Straße", label.Name)
	}
	assert.Equal(1, len(folded.Labels()))
}
