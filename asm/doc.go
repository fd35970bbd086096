// Package asm assembles DCPU-16 source documents into memory images.
//
// Assembly runs as a series of complete passes over the lines of the
// program. Documents are read line by line, with includes read in place
// and defines applied to the lines that follow them. Label definitions and
// uses are collected as lines are read. Every line is then sized from the
// form of its operands and given an address, label uses are resolved, and
// finally the lines are encoded into a dcpu.Image.
//
//	asm := &asm.Assembler{Source: &asm.FS{FS: os.DirFS(".")}}
//	assembly, err := asm.Load("main.dasm")
//	...
//	img := dcpu.NewImage(dcpu.RAM_WORDS)
//	err = assembly.Assemble(img)
package asm
