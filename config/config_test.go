package config

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/devcpu/dcpu"
)

func TestParse(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Parse("empty.cue", []byte(""))
	assert.NoError(err)
	assert.Equal(Default(), cfg)
	assert.Equal(binary.BigEndian, cfg.Order())

	cfg, err = Parse("devasm.cue", []byte(`
labelsCaseSensitive: false
projectRoot:         "src"
imageWords:          1024
byteOrder:           "little"
defines: {
	SCREEN: "0x8000"
	WIDTH:  "32"
}
`))
	if !assert.NoError(err) {
		return
	}
	assert.False(cfg.LabelsCaseSensitive)
	assert.Equal("src", cfg.ProjectRoot)
	assert.Equal(".", cfg.WorkspaceRoot)
	assert.Equal(1024, cfg.ImageWords)
	assert.Equal(binary.LittleEndian, cfg.Order())
	assert.Equal(32, cfg.DefineLimit)
	assert.Equal(map[string]string{"SCREEN": "0x8000", "WIDTH": "32"}, cfg.Defines)
}

func TestParse_Errors(t *testing.T) {
	assert := assert.New(t)

	table := []string{
		`unknown: 1`,
		`byteOrder: "middle"`,
		`imageWords: 0`,
		`defineLimit: "many"`,
		`defines: { A: 1 }`,
		`projectRoot: `,
	}

	for _, text := range table {
		_, err := Parse("bad.cue", []byte(text))
		assert.Error(err, text)
	}
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, FILENAME)
	err := os.WriteFile(path, []byte(`imageWords: 737280`), 0o644)
	if !assert.NoError(err) {
		return
	}

	cfg, err := Load(path)
	if assert.NoError(err) {
		assert.Equal(dcpu.FLOPPY_WORDS, cfg.ImageWords)
		assert.True(cfg.LabelsCaseSensitive)
	}

	_, err = Load(filepath.Join(dir, "missing.cue"))
	assert.True(os.IsNotExist(err))
}
