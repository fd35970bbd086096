// Package lexer splits DCPU-16 assembly source lines into tokens.
//
// Lexing is per line and context free across lines. Every byte of a line is
// covered by exactly one token, whitespace and comments included, so token
// spans can be mapped back onto the source text. Zero width tokens delimit
// data values and PICK operands.
package lexer
