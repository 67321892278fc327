package tools

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Workspace is the project root the file tools operate on. Reads go through
// fs.FS; writes require the optional interfaces below, which
// github.com/psanford/memfs implements for tests and [DirWorkspace] adapts to
// the host filesystem.
type Workspace interface {
	fs.FS
}

type writerFS interface {
	WriteFile(path string, data []byte, perm os.FileMode) error
}

type mkdirAllFS interface {
	MkdirAll(path string, perm os.FileMode) error
}

// DirWorkspace returns a workspace rooted at a directory on the host
// filesystem.
func DirWorkspace(root string) Workspace {
	return &dirWorkspace{FS: os.DirFS(root), root: root}
}

type dirWorkspace struct {
	fs.FS
	root string
}

func (w *dirWorkspace) WriteFile(name string, data []byte, perm os.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}
	return os.WriteFile(filepath.Join(w.root, filepath.FromSlash(name)), data, perm)
}

func (w *dirWorkspace) MkdirAll(name string, perm os.FileMode) error {
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrInvalid}
	}
	return os.MkdirAll(filepath.Join(w.root, filepath.FromSlash(name)), perm)
}

// cleanPath converts a project path like "/src/main.go" to fs.FS form.
// Traversal is ultimately prevented by the fs.ValidPath checks at the point
// of use, but clean up the path here too.
func cleanPath(p string) string {
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

// projectPath renders an fs.FS path back in the project's
// leading-slash form.
func projectPath(p string) string {
	if p == "." {
		return "/"
	}
	return "/" + p
}
