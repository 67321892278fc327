package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// FileEntry is one entry in a list_files_in_folder result.
type FileEntry struct {
	Name string `json:"name"`
	Type string `json:"type"` // "file" or "directory"
	Path string `json:"path"`
}

// WriteOutcome reports a completed file mutation.
type WriteOutcome struct {
	Path string `json:"path"`
	Ok   bool   `json:"ok"`
}

type pathArgs struct {
	PathInProject string `json:"pathInProject"`
}

type pathTextArgs struct {
	PathInProject string `json:"pathInProject"`
	Text          string `json:"text"`
}

// GetFileTextByPath reads a file's text contents from the workspace.
type GetFileTextByPath struct {
	ws Workspace
}

func NewGetFileTextByPath(ws Workspace) *GetFileTextByPath {
	return &GetFileTextByPath{ws: ws}
}

func (t *GetFileTextByPath) Name() string { return nameOf(t) }

func (t *GetFileTextByPath) Description() string {
	return "Read the text contents of a file by its path relative to the project root"
}

func (t *GetFileTextByPath) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"pathInProject": stringProp("File path relative to the project root"),
	}, "pathInProject")
}

func (t *GetFileTextByPath) Call(_ context.Context, args json.RawMessage) (any, error) {
	var req pathArgs
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}

	name := cleanPath(req.PathInProject)
	data, err := fs.ReadFile(t.ws, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.PathInProject, err)
	}
	return string(data), nil
}

// CreateNewFileWithText creates a file (and any missing parent directories)
// with the given text. Fails if the file already exists.
type CreateNewFileWithText struct {
	ws Workspace
}

func NewCreateNewFileWithText(ws Workspace) *CreateNewFileWithText {
	return &CreateNewFileWithText{ws: ws}
}

func (t *CreateNewFileWithText) Name() string { return nameOf(t) }

func (t *CreateNewFileWithText) Description() string {
	return "Create a new file with the given text, creating parent directories as needed"
}

func (t *CreateNewFileWithText) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"pathInProject": stringProp("File path relative to the project root"),
		"text":          stringProp("Contents for the new file"),
	}, "pathInProject", "text")
}

func (t *CreateNewFileWithText) Call(_ context.Context, args json.RawMessage) (any, error) {
	var req pathTextArgs
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}

	name := cleanPath(req.PathInProject)
	if _, err := fs.Stat(t.ws, name); err == nil {
		return nil, fmt.Errorf("file %s already exists", req.PathInProject)
	}

	if err := writeWorkspaceFile(t.ws, name, req.Text); err != nil {
		return nil, err
	}
	return WriteOutcome{Path: projectPath(name), Ok: true}, nil
}

// ReplaceFileTextByPath overwrites an existing file's contents.
type ReplaceFileTextByPath struct {
	ws Workspace
}

func NewReplaceFileTextByPath(ws Workspace) *ReplaceFileTextByPath {
	return &ReplaceFileTextByPath{ws: ws}
}

func (t *ReplaceFileTextByPath) Name() string { return nameOf(t) }

func (t *ReplaceFileTextByPath) Description() string {
	return "Replace the entire text contents of an existing file"
}

func (t *ReplaceFileTextByPath) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"pathInProject": stringProp("File path relative to the project root"),
		"text":          stringProp("Replacement contents"),
	}, "pathInProject", "text")
}

func (t *ReplaceFileTextByPath) Call(_ context.Context, args json.RawMessage) (any, error) {
	var req pathTextArgs
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}

	name := cleanPath(req.PathInProject)
	if _, err := fs.Stat(t.ws, name); err != nil {
		return nil, fmt.Errorf("replace %s: %w", req.PathInProject, err)
	}

	if err := writeWorkspaceFile(t.ws, name, req.Text); err != nil {
		return nil, err
	}
	return WriteOutcome{Path: projectPath(name), Ok: true}, nil
}

// ListFilesInFolder lists the immediate entries of a workspace directory.
type ListFilesInFolder struct {
	ws Workspace
}

func NewListFilesInFolder(ws Workspace) *ListFilesInFolder {
	return &ListFilesInFolder{ws: ws}
}

func (t *ListFilesInFolder) Name() string { return nameOf(t) }

func (t *ListFilesInFolder) Description() string {
	return "List the files and directories directly inside a project folder"
}

func (t *ListFilesInFolder) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"pathInProject": stringProp("Folder path relative to the project root; / is the root itself"),
	}, "pathInProject")
}

func (t *ListFilesInFolder) Call(_ context.Context, args json.RawMessage) (any, error) {
	var req pathArgs
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}

	dir := cleanPath(req.PathInProject)
	entries, err := fs.ReadDir(t.ws, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", req.PathInProject, err)
	}

	files := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		entryType := "file"
		if entry.IsDir() {
			entryType = "directory"
		}
		files = append(files, FileEntry{
			Name: entry.Name(),
			Type: entryType,
			Path: projectPath(path.Join(dir, entry.Name())),
		})
	}
	return files, nil
}

// FindFilesByNameSubstring walks the workspace and returns the paths of files
// whose name contains the given substring, case-insensitively.
type FindFilesByNameSubstring struct {
	ws Workspace
}

func NewFindFilesByNameSubstring(ws Workspace) *FindFilesByNameSubstring {
	return &FindFilesByNameSubstring{ws: ws}
}

func (t *FindFilesByNameSubstring) Name() string { return nameOf(t) }

func (t *FindFilesByNameSubstring) Description() string {
	return "Find project files whose name contains the given substring (case-insensitive)"
}

func (t *FindFilesByNameSubstring) InputSchema() *jsonschema.Schema {
	return objectSchema(map[string]*jsonschema.Schema{
		"nameSubstring": stringProp("Substring to look for in file names"),
	}, "nameSubstring")
}

func (t *FindFilesByNameSubstring) Call(_ context.Context, args json.RawMessage) (any, error) {
	var req struct {
		NameSubstring string `json:"nameSubstring"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	if req.NameSubstring == "" {
		return nil, fmt.Errorf("nameSubstring must not be empty")
	}

	needle := strings.ToLower(req.NameSubstring)
	matches := []string{}
	err := fs.WalkDir(t.ws, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.Contains(strings.ToLower(d.Name()), needle) {
			matches = append(matches, projectPath(p))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", req.NameSubstring, err)
	}
	return matches, nil
}

func writeWorkspaceFile(ws Workspace, name, text string) error {
	if dir := path.Dir(name); dir != "." {
		if m, ok := ws.(mkdirAllFS); ok {
			if err := m.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", dir, err)
			}
		}
	}

	w, ok := ws.(writerFS)
	if !ok {
		return fmt.Errorf("workspace is read-only")
	}
	if err := w.WriteFile(name, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
