package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// EditorState is the bridge's view of the embedding editor's live state. The
// bridge only reads it; the editor owns mutation and any serialization it
// needs. The booleans report whether a document is open at all, which the
// tools surface as tool-level failures rather than empty strings.
type EditorState interface {
	// ActiveFilePath returns the project path of the focused document.
	ActiveFilePath() (string, bool)
	// ActiveFileText returns the full text of the focused document.
	ActiveFileText() (string, bool)
	// SelectedText returns the current selection in the focused document.
	SelectedText() (string, bool)
	// OpenFilePaths returns the project paths of all open documents.
	OpenFilePaths() []string
}

// StaticEditorState is a snapshot implementation of [EditorState], used by
// the standalone binary and by tests. Safe for concurrent use.
type StaticEditorState struct {
	mu        sync.RWMutex
	path      string
	text      string
	selection string
	hasFile   bool
	hasSel    bool
	open      []string
}

func NewStaticEditorState() *StaticEditorState {
	return &StaticEditorState{}
}

// SetActiveFile records the focused document.
func (s *StaticEditorState) SetActiveFile(path, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.text = text
	s.hasFile = true
}

// SetSelection records the current selection.
func (s *StaticEditorState) SetSelection(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = text
	s.hasSel = true
}

// SetOpenFiles records the open-tab paths.
func (s *StaticEditorState) SetOpenFiles(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = append([]string(nil), paths...)
}

func (s *StaticEditorState) ActiveFilePath() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path, s.hasFile
}

func (s *StaticEditorState) ActiveFileText() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text, s.hasFile
}

func (s *StaticEditorState) SelectedText() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection, s.hasSel
}

func (s *StaticEditorState) OpenFilePaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.open...)
}

var _ EditorState = (*StaticEditorState)(nil)

// GetOpenInEditorFilePath reports the path of the focused document.
type GetOpenInEditorFilePath struct {
	state EditorState
}

func NewGetOpenInEditorFilePath(state EditorState) *GetOpenInEditorFilePath {
	return &GetOpenInEditorFilePath{state: state}
}

func (t *GetOpenInEditorFilePath) Name() string { return nameOf(t) }

func (t *GetOpenInEditorFilePath) Description() string {
	return "Get the project path of the file currently focused in the editor"
}

func (t *GetOpenInEditorFilePath) InputSchema() *jsonschema.Schema {
	return objectSchema(nil)
}

func (t *GetOpenInEditorFilePath) Call(_ context.Context, _ json.RawMessage) (any, error) {
	path, ok := t.state.ActiveFilePath()
	if !ok {
		return nil, fmt.Errorf("no file open in editor")
	}
	return path, nil
}

// GetOpenInEditorFileText reports the full text of the focused document.
type GetOpenInEditorFileText struct {
	state EditorState
}

func NewGetOpenInEditorFileText(state EditorState) *GetOpenInEditorFileText {
	return &GetOpenInEditorFileText{state: state}
}

func (t *GetOpenInEditorFileText) Name() string { return nameOf(t) }

func (t *GetOpenInEditorFileText) Description() string {
	return "Get the full text of the file currently focused in the editor"
}

func (t *GetOpenInEditorFileText) InputSchema() *jsonschema.Schema {
	return objectSchema(nil)
}

func (t *GetOpenInEditorFileText) Call(_ context.Context, _ json.RawMessage) (any, error) {
	text, ok := t.state.ActiveFileText()
	if !ok {
		return nil, fmt.Errorf("no file open in editor")
	}
	return text, nil
}

// GetSelectedInEditorText reports the current selection.
type GetSelectedInEditorText struct {
	state EditorState
}

func NewGetSelectedInEditorText(state EditorState) *GetSelectedInEditorText {
	return &GetSelectedInEditorText{state: state}
}

func (t *GetSelectedInEditorText) Name() string { return nameOf(t) }

func (t *GetSelectedInEditorText) Description() string {
	return "Get the text currently selected in the editor"
}

func (t *GetSelectedInEditorText) InputSchema() *jsonschema.Schema {
	return objectSchema(nil)
}

func (t *GetSelectedInEditorText) Call(_ context.Context, _ json.RawMessage) (any, error) {
	text, ok := t.state.SelectedText()
	if !ok {
		return nil, fmt.Errorf("no text selected in editor")
	}
	return text, nil
}

// GetAllOpenFilePaths reports every open document path.
type GetAllOpenFilePaths struct {
	state EditorState
}

func NewGetAllOpenFilePaths(state EditorState) *GetAllOpenFilePaths {
	return &GetAllOpenFilePaths{state: state}
}

func (t *GetAllOpenFilePaths) Name() string { return nameOf(t) }

func (t *GetAllOpenFilePaths) Description() string {
	return "Get the project paths of all files open in the editor"
}

func (t *GetAllOpenFilePaths) InputSchema() *jsonschema.Schema {
	return objectSchema(nil)
}

func (t *GetAllOpenFilePaths) Call(_ context.Context, _ json.RawMessage) (any, error) {
	paths := t.state.OpenFilePaths()
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}
