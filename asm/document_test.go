package asm

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/devcpu/lexer"
)

func TestDefine_Substitution(t *testing.T) {
	assert := assert.New(t)

	defined, _, err := build(lines("#define WIDTH 10", "SET A, WIDTH"))
	assert.NoError(err)
	literal, _, err := build("SET A, 10")
	assert.NoError(err)
	assert.Equal(literal, defined)
	assert.Equal([]uint16{0xac01}, defined)

	table := []struct {
		text  string
		words []uint16
	}{
		// Defines that reference earlier defines.
		{lines("#define BASE 0x100", "#define TOP BASE+2", "SET A, TOP"), []uint16{0x7c01, 0x102}},
		// Not applied to earlier lines.
		{lines(":W", "SET B, W", "#define W 3", "SET C, W"), []uint16{0x7c21, 0, 0x9041}},
		// Word boundaries only.
		{lines("#define W 3", ":WW SET A, WW"), []uint16{0x7c01, 0}},
		// Directive parameters are substituted.
		{lines("#define START 4", ".org START", "DAT START ; START"), []uint16{0, 0, 0, 0, 4}},
		// Comments on define lines are not part of the value.
		{lines("#define N 2 ; two", "SET A, N"), []uint16{0x8c01}},
		// Empty values remove the key.
		{lines("#define NOTHING", "SET A, 1 NOTHING"), []uint16{0x8801}},
	}

	for _, entry := range table {
		words, _, err := build(entry.text)
		if assert.NoError(err, entry.text) {
			assert.Equal(entry.words, words, entry.text)
		}
	}
}

func TestDefine_Relex(t *testing.T) {
	assert := assert.New(t)

	_, assembly, err := build(lines("#define BASE 0x100", "#define TOP BASE+2", "SET A, TOP"))
	if !assert.NoError(err) {
		return
	}

	def := assembly.Lines[1]
	assert.Equal("#define TOP BASE+2", def.Raw)
	assert.Equal("#define TOP 0x100+2", def.Text)
	assert.Equal(lexer.MODE_REPROCESS, def.Tokens[0].Mode)

	set := assembly.Lines[2]
	assert.Equal("SET A, 0x100+2", set.Text)
	assert.Equal(lexer.MODE_REPROCESS, set.Tokens[0].Mode)

	first := assembly.Lines[0]
	assert.Equal(lexer.MODE_INITIAL, first.Tokens[0].Mode)

	def1, ok := assembly.Defines.Lookup("TOP")
	if assert.True(ok) {
		assert.Equal("0x100+2", def1.Value)
		assert.Equal(def, def1.Line)
	}
	assert.Equal(2, len(assembly.Defines.All()))
}

func TestDefine_Errors(t *testing.T) {
	assert := assert.New(t)

	_, _, err := build(lines("#define W 1", "#define W 2"))
	var dd ErrDefineDuplicate
	if assert.True(errors.As(err, &dd)) {
		assert.Equal("W", string(dd))
	}

	for _, text := range []string{"#define", "#define 1X 2", "#define +"} {
		_, _, err = build(text)
		var df ErrDefineFormat
		assert.True(errors.As(err, &df), text)
	}

	_, _, err = build(lines("#define N N+1", "SET A, N"))
	var rd ErrRecursiveDefinition
	if assert.True(errors.As(err, &rd)) {
		assert.Equal("SET A, N", string(rd))
	}
	var se *ErrSyntax
	if assert.True(errors.As(err, &se)) {
		assert.Equal(2, se.LineNo)
	}

	asm := newAssembler(fstest.MapFS{"main.dasm": {Data: []byte(lines("#define N N+1", "SET A, N"))}})
	asm.DefineLimit = 2
	_, _, err = assemble(asm, "main.dasm")
	assert.True(errors.As(err, &rd))
}

func TestDefine_Predefine(t *testing.T) {
	assert := assert.New(t)

	asm := newAssembler(fstest.MapFS{"main.dasm": {Data: []byte("SET A, SIZE")}})
	asm.Predefine("SIZE", "4")
	words, assembly, err := assemble(asm, "main.dasm")
	if assert.NoError(err) {
		assert.Equal([]uint16{0x9401}, words)
		def, ok := assembly.Defines.Lookup("SIZE")
		if assert.True(ok) {
			assert.Nil(def.Line)
		}
	}

	asm.Predefine("SIZE", "5")
	words, _, err = assemble(asm, "main.dasm")
	if assert.NoError(err) {
		assert.Equal([]uint16{0x9801}, words)
	}

	asm.Predefine("bad key", "1")
	_, _, err = assemble(asm, "main.dasm")
	var df ErrDefineFormat
	assert.True(errors.As(err, &df))

	// A source define may not replace a predefine.
	asm = newAssembler(fstest.MapFS{"main.dasm": {Data: []byte("#define SIZE 2")}})
	asm.Predefine("SIZE", "4")
	_, _, err = assemble(asm, "main.dasm")
	var dd ErrDefineDuplicate
	assert.True(errors.As(err, &dd))
}

func TestInclude(t *testing.T) {
	assert := assert.New(t)

	files := fstest.MapFS{
		"src/main.dasm": {Data: []byte(lines(
			"#define COUNT 3",
			":main JSR lib_init",
			"#include \"util.dasm\"",
			"#include \"lib/lib.dasm\"",
			"  SET A, COUNT",
		))},
		"src/util.dasm": {Data: []byte(lines(
			".util: SET B, COUNT",
		))},
		"lib/lib.dasm": {Data: []byte(lines(
			":lib_init SET PC, POP",
		))},
	}

	asm := newAssembler(files)
	words, assembly, err := assemble(asm, "src/main.dasm")
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]uint16{
		0x7c20, 3, // JSR lib_init
		0x9021, // SET B, COUNT
		0x6381, // SET PC, POP
		0x9001, // SET A, COUNT
	}, words)

	names := []string{}
	for _, line := range assembly.Lines {
		names = append(names, line.Document.Name)
	}
	assert.Equal([]string{
		"src/main.dasm", "src/main.dasm", "src/main.dasm",
		"src/util.dasm",
		"src/main.dasm",
		"lib/lib.dasm",
		"src/main.dasm",
	}, names)

	root := assembly.Root
	assert.Equal("src/main.dasm", root.Name)
	assert.Nil(root.Parent)
	assert.Equal(5, len(root.Lines))
	assert.Equal(2, len(root.Includes))

	util := root.Includes[root.Lines[2].Directive]
	if assert.NotNil(util) {
		assert.Equal("src/util.dasm", util.Name)
		assert.Equal(root, util.Parent)
	}

	// Local labels continue the scope of the including document.
	_, ok := assembly.Symbols.Lookup("main.util")
	assert.True(ok)
}

func TestInclude_Errors(t *testing.T) {
	assert := assert.New(t)

	files := fstest.MapFS{
		"a.dasm":    {Data: []byte(lines("SET A, 1", "#include \"b.dasm\""))},
		"b.dasm":    {Data: []byte(lines("SET B, 1", "#include \"a.dasm\""))},
		"self.dasm": {Data: []byte("#include \"self.dasm\"")},
		"deep.dasm": {Data: []byte("#include \"c.dasm\"")},
		"c.dasm":    {Data: []byte("#include \"d.dasm\"")},
		"d.dasm":    {Data: []byte("#include \"deep.dasm\"")},
		"lost.dasm": {Data: []byte("#include \"missing.dasm\"")},
		"dup.dasm":  {Data: []byte(lines(":twice", "#include \"dup2.dasm\""))},
		"dup2.dasm": {Data: []byte(lines("SET A, 1", ":twice"))},
		"twice.dasm": {Data: []byte(lines(
			"#include \"leaf.dasm\"",
			"#include \"leaf.dasm\"",
		))},
		"leaf.dasm": {Data: []byte("SET A, 1")},
	}

	asm := newAssembler(files)

	for _, name := range []string{"a.dasm", "b.dasm", "self.dasm", "deep.dasm"} {
		assembly, err := asm.Load(name)
		assert.Nil(assembly, name)
		var ri ErrRecursiveInclusion
		if assert.True(errors.As(err, &ri), name) {
			assert.Equal(name, string(ri), name)
		}
	}

	// The root document name is cleaned like include names.
	input, err := files.Open("a.dasm")
	if assert.NoError(err) {
		defer input.Close()
		_, err = asm.Parse("./a.dasm", input)
		var ri ErrRecursiveInclusion
		if assert.True(errors.As(err, &ri)) {
			assert.Equal("a.dasm", string(ri))
		}
		var se *ErrSyntax
		if assert.True(errors.As(err, &se)) {
			assert.Equal("b.dasm", se.Document)
		}
	}

	assembly, err := asm.Parse("./sub/../leaf.dasm", strings.NewReader("SET A, 1"))
	if assert.NoError(err) {
		assert.Equal("leaf.dasm", assembly.Root.Name)
	}

	_, err = asm.Load("lost.dasm")
	var nf ErrIncludeNotFound
	if assert.True(errors.As(err, &nf)) {
		assert.Equal("missing.dasm", string(nf))
	}

	_, err = asm.Load("dup.dasm")
	var dup *ErrDuplicateLabel
	if assert.True(errors.As(err, &dup)) {
		assert.Equal("dup.dasm", dup.Existing.Line.Document.Name)
		assert.Equal("dup2.dasm", dup.New.Line.Document.Name)
		assert.Equal(2, dup.New.Line.LineNo)
	}

	// Including the same file twice from one document is not a cycle.
	words, _, err := assemble(asm, "twice.dasm")
	if assert.NoError(err) {
		assert.Equal([]uint16{0x8801, 0x8801}, words)
	}

	// Without a provider, nothing can be included.
	bare := &Assembler{Logger: asm.Logger}
	_, err = bare.Parse("main.dasm", strings.NewReader("#include \"leaf.dasm\""))
	assert.True(errors.As(err, &nf))

	_, err = bare.Load("main.dasm")
	assert.ErrorIs(err, ErrSourceMissing)
}
