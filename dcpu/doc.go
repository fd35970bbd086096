// Package dcpu describes the DCPU-16 instruction encoding targeted by the
// assembler.
//
// Instructions are 16-bit words. A basic opcode word packs the opcode in bits
// 0-4, the B operand in bits 5-9 and the A operand in bits 10-15. A special
// opcode word has zero in bits 0-4, the opcode in bits 5-9 and the A operand
// in bits 10-15. Operands may consume a trailing word; the A operand's trailing
// word comes first.
package dcpu
