package tools

import (
	"testing"

	"github.com/psanford/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/editor-bridge/mcp"
)

func TestNameOf(t *testing.T) {
	assert.Equal(t, "get_file_text_by_path", nameOf(GetFileTextByPath{}))
	assert.Equal(t, "get_file_text_by_path", nameOf(&GetFileTextByPath{}))
	assert.Equal(t, "get_project_vcs_status", nameOf(&GetProjectVcsStatus{}))
}

func TestRegisterAll(t *testing.T) {
	registry := mcp.NewRegistry()
	require.NoError(t, RegisterAll(registry, memfs.New(), NewStaticEditorState(), t.TempDir()))

	defs := registry.Definitions()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{
		"get_file_text_by_path",
		"create_new_file_with_text",
		"replace_file_text_by_path",
		"list_files_in_folder",
		"find_files_by_name_substring",
		"get_open_in_editor_file_path",
		"get_open_in_editor_file_text",
		"get_selected_in_editor_text",
		"get_all_open_file_paths",
		"get_project_vcs_status",
	}, names)

	for _, def := range defs {
		assert.NotEmpty(t, def.Description, "tool %s has no description", def.Name)
		require.NotNil(t, def.InputSchema, "tool %s has no schema", def.Name)
	}
}

func TestRegisterAllTwiceFails(t *testing.T) {
	registry := mcp.NewRegistry()
	require.NoError(t, RegisterAll(registry, memfs.New(), NewStaticEditorState(), t.TempDir()))

	err := RegisterAll(registry, memfs.New(), NewStaticEditorState(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, mcp.ErrDuplicateTool)
}
