// Package config loads devasm project files.
//
// A project file is CUE, checked against a closed schema, so unknown
// fields are reported rather than ignored:
//
//	labelsCaseSensitive: false
//	projectRoot:         "src"
//	byteOrder:           "little"
//	defines: {
//		SCREEN: "0x8000"
//	}
package config

import (
	"encoding/binary"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/ezrec/devcpu/asm"
	"github.com/ezrec/devcpu/dcpu"
)

// FILENAME is the project file looked for when none is named.
const FILENAME = "devasm.cue"

const schemaSrc = `
labelsCaseSensitive?: bool
projectRoot?:         string
workspaceRoot?:       string
imageWords?:          int & >0
byteOrder?:           "big" | "little"
defineLimit?:         int & >0
defines?: [string]:   string
`

// Config is the assembler configuration of a project.
type Config struct {
	LabelsCaseSensitive bool
	ProjectRoot         string
	WorkspaceRoot       string
	ImageWords          int
	ByteOrder           string
	DefineLimit         int
	Defines             map[string]string
}

// file is the decoded project file. Absent fields are nil.
type file struct {
	LabelsCaseSensitive *bool             `json:"labelsCaseSensitive"`
	ProjectRoot         *string           `json:"projectRoot"`
	WorkspaceRoot       *string           `json:"workspaceRoot"`
	ImageWords          *int              `json:"imageWords"`
	ByteOrder           *string           `json:"byteOrder"`
	DefineLimit         *int              `json:"defineLimit"`
	Defines             map[string]string `json:"defines"`
}

// Default returns the configuration used without a project file.
func Default() Config {
	return Config{
		LabelsCaseSensitive: true,
		ProjectRoot:         ".",
		WorkspaceRoot:       ".",
		ImageWords:          dcpu.RAM_WORDS,
		ByteOrder:           "big",
		DefineLimit:         asm.DEFINE_LIMIT,
		Defines:             map[string]string{},
	}
}

// Parse decodes a project file over the default configuration.
func Parse(name string, data []byte) (cfg Config, err error) {
	cfg = Default()

	ctx := cuecontext.New()
	schema := ctx.CompileString("close({" + schemaSrc + "})")
	if err = schema.Err(); err != nil {
		return
	}

	value := ctx.CompileBytes(data, cue.Filename(name))
	if err = value.Err(); err != nil {
		return
	}

	unified := schema.Unify(value)
	if err = unified.Validate(cue.Concrete(true)); err != nil {
		return
	}

	var proj file
	if err = unified.Decode(&proj); err != nil {
		return
	}

	if proj.LabelsCaseSensitive != nil {
		cfg.LabelsCaseSensitive = *proj.LabelsCaseSensitive
	}
	if proj.ProjectRoot != nil {
		cfg.ProjectRoot = *proj.ProjectRoot
	}
	if proj.WorkspaceRoot != nil {
		cfg.WorkspaceRoot = *proj.WorkspaceRoot
	}
	if proj.ImageWords != nil {
		cfg.ImageWords = *proj.ImageWords
	}
	if proj.ByteOrder != nil {
		cfg.ByteOrder = *proj.ByteOrder
	}
	if proj.DefineLimit != nil {
		cfg.DefineLimit = *proj.DefineLimit
	}
	for key, value := range proj.Defines {
		cfg.Defines[key] = value
	}

	return
}

// Load reads and decodes a project file.
func Load(path string) (cfg Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	return Parse(path, data)
}

// Order returns the byte order images are written in.
func (cfg Config) Order() binary.ByteOrder {
	if cfg.ByteOrder == "little" {
		return binary.LittleEndian
	}
	return binary.BigEndian
}
