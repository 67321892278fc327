// Package tools implements the editor-introspection and editor-mutation
// operations exposed through the bridge: reading and writing workspace files,
// reporting the editor's open-file and selection state, and summarizing
// version-control status.
//
// Each tool is a small struct implementing [mcp.Tool]. Wire names are derived
// from the Go type name (GetFileTextByPath becomes get_file_text_by_path), so
// the registry, the legacy paths and tools/list can never disagree about what
// a tool is called.
package tools

import (
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/iancoleman/strcase"

	"github.com/bpowers/editor-bridge/mcp"
)

// nameOf derives a tool's wire name from its Go type name.
func nameOf(tool any) string {
	t := reflect.TypeOf(tool)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strcase.ToSnake(t.Name())
}

func objectSchema(props map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	if props == nil {
		props = map[string]*jsonschema.Schema{}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func stringProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

// RegisterAll registers the standard bridge tool set. The order here is the
// order tools/list and the legacy listing report.
func RegisterAll(registry *mcp.Registry, ws Workspace, state EditorState, projectDir string) error {
	all := []mcp.Tool{
		NewGetFileTextByPath(ws),
		NewCreateNewFileWithText(ws),
		NewReplaceFileTextByPath(ws),
		NewListFilesInFolder(ws),
		NewFindFilesByNameSubstring(ws),
		NewGetOpenInEditorFilePath(state),
		NewGetOpenInEditorFileText(state),
		NewGetSelectedInEditorText(state),
		NewGetAllOpenFilePaths(state),
		NewGetProjectVcsStatus(projectDir),
	}
	for _, tool := range all {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}
