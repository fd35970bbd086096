package asm

import (
	"golang.org/x/text/cases"

	"github.com/ezrec/devcpu/lexer"
)

// Label is a label definition.
type Label struct {
	Name  string // Scope qualified name.
	Local bool
	Line  *Line
}

// Offset returns the address of the label, once the line is sized.
func (label *Label) Offset() int {
	return label.Line.Offset
}

// LabelUse is a reference to a label, back-patched when resolved.
type LabelUse struct {
	Name  string // Scope qualified name.
	Line  *Line
	Value *lexer.Value
}

// SymbolTable collects the label definitions and uses of an assembly.
type SymbolTable struct {
	CaseFold bool // If set, names compare case insensitively.

	defs  map[string]*Label
	order []*Label
	uses  map[string][]*LabelUse
	names []string // Use names, in first use order.
}

// Qualify returns the scope qualified name of a label token, and the
// global label scope that follows it. Local names are prefixed with the
// current global label.
func Qualify(scope string, tok lexer.Token) (name string, next string) {
	name = tok.Name()
	next = scope
	switch {
	case tok.Local:
		name = scope + name
	case tok.Kind == lexer.TOKEN_LABEL_DEF:
		next = name
	}
	return
}

func (st *SymbolTable) key(name string) string {
	if st.CaseFold {
		return cases.Fold().String(name)
	}
	return name
}

// Define registers a label definition.
func (st *SymbolTable) Define(label *Label) (err error) {
	if st.defs == nil {
		st.defs = make(map[string]*Label)
	}

	key := st.key(label.Name)
	existing, ok := st.defs[key]
	if ok {
		err = &ErrDuplicateLabel{Existing: existing, New: label}
		return
	}

	st.defs[key] = label
	st.order = append(st.order, label)
	return
}

// Use registers a label use.
func (st *SymbolTable) Use(use *LabelUse) {
	if st.uses == nil {
		st.uses = make(map[string][]*LabelUse)
	}

	key := st.key(use.Name)
	list, ok := st.uses[key]
	if !ok {
		st.names = append(st.names, key)
	}
	st.uses[key] = append(list, use)
}

// Lookup finds a label definition by name.
func (st *SymbolTable) Lookup(name string) (label *Label, ok bool) {
	label, ok = st.defs[st.key(name)]
	return
}

// Labels returns the label definitions in definition order.
func (st *SymbolTable) Labels() []*Label {
	return st.order
}

// Uses returns the uses of a label name.
func (st *SymbolTable) Uses(name string) []*LabelUse {
	return st.uses[st.key(name)]
}

// Resolve back-patches every label use with its definition's offset.
func (st *SymbolTable) Resolve() (err error) {
	for _, key := range st.names {
		uses := st.uses[key]
		label, ok := st.defs[key]
		if !ok {
			use := uses[0]
			err = use.Line.wrap(ErrLabelMissing(use.Name))
			return
		}
		for _, use := range uses {
			use.Value.Resolve(label.Offset())
		}
	}
	return
}
