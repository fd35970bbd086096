package dcpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeBasic(t *testing.T) {
	assert := assert.New(t)

	// SET A, 0x1f-literal
	assert.Equal(uint16(0x7c01), MakeBasic(OP_SET, VAL_REG+Value(REG_A), VAL_NEXT))
	// ADD B, C
	assert.Equal(uint16(0x0822), MakeBasic(OP_ADD, VAL_REG+Value(REG_B), VAL_REG+Value(REG_C)))
	// SET PC, POP
	assert.Equal(uint16(0x6381), MakeBasic(OP_SET, VAL_PC, VAL_PUSH_POP))
}

func TestMakeSpecial(t *testing.T) {
	assert := assert.New(t)

	// JSR next word
	assert.Equal(uint16(0x7c20), MakeSpecial(SOP_JSR, VAL_NEXT))
	// INT 3
	short, ok := Short(3)
	assert.True(ok)
	assert.Equal(uint16(0x9100), MakeSpecial(SOP_INT, short))
}

func TestShort(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		n     int
		ok    bool
		value Value
	}{
		{0, true, 0x21},
		{30, true, 0x3f},
		{31, false, 0},
		{-1, false, 0},
		{0xffff, false, 0},
	}

	for _, entry := range table {
		value, ok := Short(entry.n)
		assert.Equal(entry.ok, ok, entry.n)
		assert.Equal(entry.value, value, entry.n)
	}
}

func TestValue_NextWord(t *testing.T) {
	assert := assert.New(t)

	for v := VAL_REG; v < VAL_REG_IND_NEXT; v++ {
		assert.False(v.NextWord(), v)
	}
	for v := VAL_REG_IND_NEXT; v < VAL_PUSH_POP; v++ {
		assert.True(v.NextWord(), v)
	}
	assert.False(VAL_PUSH_POP.NextWord())
	assert.False(VAL_PEEK.NextWord())
	assert.True(VAL_PICK.NextWord())
	assert.False(VAL_SP.NextWord())
	assert.True(VAL_IND_NEXT.NextWord())
	assert.True(VAL_NEXT.NextWord())
	assert.False(VAL_SHORT.NextWord())
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		words []uint16
		text  string
	}{
		{[]uint16{0x7c01, 0x0030}, "SET A, 0x0030"},
		{[]uint16{0x7fc1, 0x0020, 0x1000}, "SET [0x1000], 0x0020"},
		{[]uint16{0x7803, 0x1000}, "SUB A, [0x1000]"},
		{[]uint16{0xc00d}, "SHR A, 15"},
		{[]uint16{0x6381}, "SET PC, POP"},
		{[]uint16{0x7c20, 0x0017}, "JSR 0x0017"},
		{[]uint16{0x22c1, 0x2000}, "SET [I+0x2000], [A]"},
		{[]uint16{0x8001}, "SET A, -1"},
	}

	for _, entry := range table {
		code, ok := Decode(entry.words)
		assert.True(ok, entry.text)
		assert.Equal(len(entry.words)-1, code.ImmediateNeed(), entry.text)
		assert.Equal(entry.text, code.String())
	}
}

func TestDecode_Short(t *testing.T) {
	assert := assert.New(t)

	_, ok := Decode(nil)
	assert.False(ok)

	_, ok = Decode([]uint16{0x7c01})
	assert.False(ok)
}

func TestRegister_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("A", REG_A.String())
	assert.Equal("J", REG_J.String())
	assert.Equal("Register(8)", Register(8).String())
}
