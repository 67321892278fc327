package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// GitRunner executes a git subcommand in dir and returns its stdout.
type GitRunner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// VcsChange is one changed path in a get_project_vcs_status result.
type VcsChange struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// GetProjectVcsStatus reports the project's uncommitted changes via
// `git status --porcelain`.
type GetProjectVcsStatus struct {
	dir string
	run GitRunner
}

func NewGetProjectVcsStatus(dir string) *GetProjectVcsStatus {
	return &GetProjectVcsStatus{dir: dir, run: runGit}
}

func (t *GetProjectVcsStatus) Name() string { return nameOf(t) }

func (t *GetProjectVcsStatus) Description() string {
	return "Get the version control status of the project: changed, added and untracked files"
}

func (t *GetProjectVcsStatus) InputSchema() *jsonschema.Schema {
	return objectSchema(nil)
}

func (t *GetProjectVcsStatus) Call(ctx context.Context, _ json.RawMessage) (any, error) {
	out, err := t.run(ctx, t.dir, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("vcs status: %w", err)
	}
	return parsePorcelain(string(out)), nil
}

// parsePorcelain converts `git status --porcelain` output into changes. Each
// line is "XY path"; rename lines keep their "old -> new" form in Path.
func parsePorcelain(out string) []VcsChange {
	changes := []VcsChange{}
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		changes = append(changes, VcsChange{
			Status: strings.TrimSpace(line[:2]),
			Path:   line[3:],
		})
	}
	return changes
}

func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}
