package asm

import (
	"io"
	"io/fs"
	"path"
	"strings"
)

// Provider locates and opens source documents.
type Provider interface {
	// Resolve returns the identity of the resource an include of file from
	// the document named from refers to, or false if there is none.
	Resolve(from string, file string) (name string, ok bool)
	// Open opens a resolved resource for reading.
	Open(name string) (rc io.ReadCloser, err error)
}

// FS is a Provider over an io/fs file system. Includes are searched
// relative to the including document, then the project root, then the
// workspace root.
type FS struct {
	FS            fs.FS
	ProjectRoot   string // Project root, relative to the file system.
	WorkspaceRoot string // Workspace root, relative to the file system.
}

var _ Provider = (*FS)(nil)

// Candidates returns the include search paths for file, in order.
func (src *FS) Candidates(from string, file string) []string {
	file = strings.TrimPrefix(file, "/")
	return []string{
		path.Join(path.Dir(from), file),
		path.Join(src.ProjectRoot, file),
		path.Join(src.WorkspaceRoot, file),
	}
}

func (src *FS) Resolve(from string, file string) (name string, ok bool) {
	if len(file) == 0 {
		return
	}

	for _, candidate := range src.Candidates(from, file) {
		if !fs.ValidPath(candidate) {
			continue
		}
		info, err := fs.Stat(src.FS, candidate)
		if err != nil || info.IsDir() {
			continue
		}
		return candidate, true
	}

	return
}

func (src *FS) Open(name string) (rc io.ReadCloser, err error) {
	return src.FS.Open(path.Clean(name))
}
