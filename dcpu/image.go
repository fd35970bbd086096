package dcpu

import (
	"encoding/binary"
	"io"
	"iter"
)

const (
	RAM_WORDS    = 0x10000    // DCPU main memory.
	FLOPPY_WORDS = 1440 * 512 // M35FD floppy disk.
)

// Image is a word addressed memory image.
type Image struct {
	Words []uint16
}

// NewImage creates a zeroed image of size words.
func NewImage(size int) *Image {
	return &Image{Words: make([]uint16, size)}
}

// Zero clears the image.
func (img *Image) Zero() {
	clear(img.Words)
}

// Len returns the image size in words.
func (img *Image) Len() int {
	return len(img.Words)
}

// Codes iterates over the instructions decoded from [from, to).
func (img *Image) Codes(from, to int) iter.Seq2[int, Code] {
	return func(yield func(addr int, code Code) bool) {
		to = min(to, len(img.Words))
		for addr := from; addr < to; {
			code, ok := Decode(img.Words[addr:to])
			if !ok {
				return
			}
			if !yield(addr, code) {
				return
			}
			addr += 1 + len(code.Immediates)
		}
	}
}

// Save writes the image words in the given byte order.
func (img *Image) Save(w io.Writer, order binary.ByteOrder) (n int64, err error) {
	buf := make([]byte, 2*len(img.Words))
	for i, word := range img.Words {
		order.PutUint16(buf[2*i:], word)
	}
	written, err := w.Write(buf)
	n = int64(written)
	return
}

// Load fills the image from r in the given byte order. A short input
// leaves the remaining words zeroed.
func (img *Image) Load(r io.Reader, order binary.ByteOrder) (n int64, err error) {
	img.Zero()
	buf := make([]byte, 2*len(img.Words))
	read, err := io.ReadFull(r, buf)
	n = int64(read)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}
	for i := range read / 2 {
		img.Words[i] = order.Uint16(buf[2*i:])
	}
	return
}
