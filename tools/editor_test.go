package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOpenInEditorFilePath(t *testing.T) {
	state := NewStaticEditorState()
	tool := NewGetOpenInEditorFilePath(state)
	assert.Equal(t, "get_open_in_editor_file_path", tool.Name())

	_, err := tool.Call(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no file open in editor")

	state.SetActiveFile("/src/main.ts", "export {}\n")
	got, err := tool.Call(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "/src/main.ts", got)
}

func TestGetOpenInEditorFileText(t *testing.T) {
	state := NewStaticEditorState()
	tool := NewGetOpenInEditorFileText(state)
	assert.Equal(t, "get_open_in_editor_file_text", tool.Name())

	_, err := tool.Call(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no file open in editor")

	state.SetActiveFile("/src/main.ts", "export {}\n")
	got, err := tool.Call(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "export {}\n", got)
}

func TestGetSelectedInEditorText(t *testing.T) {
	state := NewStaticEditorState()
	tool := NewGetSelectedInEditorText(state)
	assert.Equal(t, "get_selected_in_editor_text", tool.Name())

	_, err := tool.Call(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text selected in editor")

	state.SetSelection("const x")
	got, err := tool.Call(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "const x", got)

	// An empty selection is still a selection; only never-set reports failure.
	state.SetSelection("")
	got, err = tool.Call(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestGetAllOpenFilePaths(t *testing.T) {
	state := NewStaticEditorState()
	tool := NewGetAllOpenFilePaths(state)
	assert.Equal(t, "get_all_open_file_paths", tool.Name())

	got, err := tool.Call(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	// No open documents renders as [], not null.
	assert.Equal(t, []string{}, got)

	state.SetOpenFiles("/a.ts", "/b.ts")
	got, err = tool.Call(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.ts", "/b.ts"}, got)
}

func TestStaticEditorStateCopiesOpenFiles(t *testing.T) {
	state := NewStaticEditorState()
	paths := []string{"/a.ts"}
	state.SetOpenFiles(paths...)
	paths[0] = "/mutated.ts"

	assert.Equal(t, []string{"/a.ts"}, state.OpenFilePaths())
}
