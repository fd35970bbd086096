package dcpu

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImage_Save(t *testing.T) {
	assert := assert.New(t)

	img := NewImage(4)
	img.Words[0] = 0x7c01
	img.Words[1] = 0x0190

	var buf bytes.Buffer
	n, err := img.Save(&buf, binary.BigEndian)
	assert.NoError(err)
	assert.Equal(int64(8), n)
	assert.Equal([]byte{0x7c, 0x01, 0x01, 0x90, 0, 0, 0, 0}, buf.Bytes())

	buf.Reset()
	_, err = img.Save(&buf, binary.LittleEndian)
	assert.NoError(err)
	assert.Equal([]byte{0x01, 0x7c, 0x90, 0x01, 0, 0, 0, 0}, buf.Bytes())
}

func TestImage_Load(t *testing.T) {
	assert := assert.New(t)

	img := NewImage(4)
	img.Words[3] = 0xffff

	n, err := img.Load(bytes.NewReader([]byte{0x7c, 0x01, 0x01, 0x90}), binary.BigEndian)
	assert.NoError(err)
	assert.Equal(int64(4), n)
	assert.Equal([]uint16{0x7c01, 0x0190, 0, 0}, img.Words)
}

func TestImage_Codes(t *testing.T) {
	assert := assert.New(t)

	img := NewImage(RAM_WORDS)
	copy(img.Words, []uint16{0x7c01, 0x0030, 0x7fc1, 0x0020, 0x1000, 0x6381})

	var addrs []int
	var texts []string
	for addr, code := range img.Codes(0, 6) {
		addrs = append(addrs, addr)
		texts = append(texts, code.String())
	}

	assert.Equal([]int{0, 2, 5}, addrs)
	assert.Equal([]string{"SET A, 0x0030", "SET [0x1000], 0x0020", "SET PC, POP"}, texts)
}

func TestImage_Zero(t *testing.T) {
	assert := assert.New(t)

	img := NewImage(FLOPPY_WORDS)
	img.Words[FLOPPY_WORDS-1] = 1
	img.Zero()
	assert.Equal(FLOPPY_WORDS, img.Len())
	assert.Equal(uint16(0), img.Words[FLOPPY_WORDS-1])
}
