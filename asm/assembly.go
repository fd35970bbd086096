// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/ezrec/devcpu/dcpu"
)

// Assembler is a two pass assembler for the DCPU-16.
type Assembler struct {
	Logger      *slog.Logger // Logger for assembler actions, slog.Default() if nil.
	Source      Provider     // Source of included documents.
	CaseFold    bool         // If set, label names compare case insensitively.
	DefineLimit int          // Define substitution passes per line, DEFINE_LIMIT if zero.

	predefine map[string]string // Predefines
}

// Predefine defines a key before any source is read.
func (asm *Assembler) Predefine(key string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{key: value}
	} else {
		asm.predefine[key] = value
	}
}

// Assembly is a read, sized and label resolved program.
type Assembly struct {
	Root      *Document
	Lines     []*Line // All lines, in order with includes expanded.
	Defines   *Defines
	Symbols   *SymbolTable
	LexErrors []error

	logger *slog.Logger
}

// Load reads the named document from the assembler's source.
func (asm *Assembler) Load(name string) (assembly *Assembly, err error) {
	if asm.Source == nil {
		err = ErrSourceMissing
		return
	}

	rc, err := asm.Source.Open(path.Clean(name))
	if err != nil {
		return
	}
	defer rc.Close()

	return asm.Parse(name, rc)
}

// Parse reads a root document from input, sizes every line, and resolves
// label uses. If any line failed to lex, the assembly is returned with the
// joined lex errors and is not sized.
func (asm *Assembler) Parse(name string, input io.Reader) (assembly *Assembly, err error) {
	name = path.Clean(name)

	logger := asm.Logger
	if logger == nil {
		logger = slog.Default()
	}

	work := &Assembly{
		Root:    &Document{Name: name},
		Defines: &Defines{Limit: asm.DefineLimit},
		Symbols: &SymbolTable{CaseFold: asm.CaseFold},
		logger:  logger,
	}

	keys := make([]string, 0, len(asm.predefine))
	for key := range asm.predefine {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		var def *Define
		def, err = NewDefine(key, asm.predefine[key])
		if err != nil {
			return
		}
		err = work.Defines.Add(def)
		if err != nil {
			return
		}
	}

	rd := &reader{
		assembly: work,
		source:   asm.Source,
		logger:   logger,
	}
	_, err = rd.readLines(work.Root, input, "")
	if err != nil {
		return
	}

	if len(work.LexErrors) > 0 {
		assembly = work
		err = errors.Join(work.LexErrors...)
		return
	}

	err = work.sizeAndLocate()
	if err != nil {
		return
	}

	err = work.Symbols.Resolve()
	if err != nil {
		return
	}

	assembly = work
	return
}

// Size returns the first address after the program.
func (assembly *Assembly) Size() (size int) {
	for _, line := range assembly.Lines {
		size = max(size, line.Offset+line.Size)
	}
	return
}

// LineAt returns the line whose words include addr.
func (assembly *Assembly) LineAt(addr int) (line *Line, ok bool) {
	for _, line := range assembly.Lines {
		if addr >= line.Offset && addr < line.Offset+line.Size {
			return line, true
		}
	}
	return
}

// Labels iterates over the defined labels and their addresses.
func (assembly *Assembly) Labels() iter.Seq2[string, int] {
	return func(yield func(name string, offset int) bool) {
		for _, label := range assembly.Symbols.Labels() {
			if !yield(label.Name, label.Offset()) {
				return
			}
		}
	}
}

// Listing writes the address, words and source of every line, with the
// disassembly of instruction lines. img must hold the assembled program.
func (assembly *Assembly) Listing(w io.Writer, img *dcpu.Image) (err error) {
	for _, line := range assembly.Lines {
		var words []uint16
		var text string

		from := min(line.Offset, img.Len())
		to := min(line.Offset+line.Size, img.Len())
		switch {
		case line.code != nil:
			words = img.Words[from:to]
			code, _ := dcpu.Decode(words)
			text = code.String()
		case line.Directive != nil && line.Directive.Kind == DIRECTIVE_DATA:
			words = img.Words[from:to]
		}

		hex := make([]string, 0, 3)
		for n, word := range words {
			if n == 3 {
				hex = append(hex, "...")
				break
			}
			hex = append(hex, fmt.Sprintf("%04x", word))
		}

		_, err = fmt.Fprintf(w, "%04x: %-14s %-24s ; %s\n",
			line.Offset, strings.Join(hex, " "), text, strings.TrimSpace(line.Raw))
		if err != nil {
			return
		}
	}
	return
}
