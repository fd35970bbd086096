package asm

import (
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestFS_Resolve(t *testing.T) {
	assert := assert.New(t)

	src := &FS{
		FS: fstest.MapFS{
			"ws/proj/src/main.dasm": {Data: []byte("")},
			"ws/proj/src/near.dasm": {Data: []byte("near")},
			"ws/proj/near.dasm":     {Data: []byte("project near")},
			"ws/proj/lib.dasm":      {Data: []byte("project")},
			"ws/lib.dasm":           {Data: []byte("workspace lib")},
			"ws/common.dasm":        {Data: []byte("workspace")},
			"ws/proj/dir/x.dasm":    {Data: []byte("")},
		},
		ProjectRoot:   "ws/proj",
		WorkspaceRoot: "ws",
	}

	table := []struct {
		file string
		name string
		ok   bool
	}{
		{"near.dasm", "ws/proj/src/near.dasm", true},
		{"lib.dasm", "ws/proj/lib.dasm", true},
		{"common.dasm", "ws/common.dasm", true},
		{"/common.dasm", "ws/common.dasm", true},
		{"../near.dasm", "ws/proj/near.dasm", true},
		{"./near.dasm", "ws/proj/src/near.dasm", true},
		{"dir", "", false},
		{"missing.dasm", "", false},
		{"", "", false},
	}

	for _, entry := range table {
		name, ok := src.Resolve("ws/proj/src/main.dasm", entry.file)
		assert.Equal(entry.ok, ok, entry.file)
		assert.Equal(entry.name, name, entry.file)
	}

	assert.Equal([]string{"ws/proj/src/a.dasm", "ws/proj/a.dasm", "ws/a.dasm"},
		src.Candidates("ws/proj/src/main.dasm", "a.dasm"))

	rc, err := src.Open("ws/proj/./lib.dasm")
	if assert.NoError(err) {
		data, err := io.ReadAll(rc)
		assert.NoError(err)
		assert.Equal("project", string(data))
		assert.NoError(rc.Close())
	}

	_, err = src.Open("nowhere.dasm")
	assert.Error(err)
}
