// Command editor-bridge exposes editor introspection and mutation tools over
// a loopback HTTP endpoint, serving the legacy per-tool API and the JSON-RPC
// 2.0 (MCP) surface from one tool registry.
//
// Usage:
//
//	editor-bridge [-root DIR] [-port-start N] [-port-end N] [-port N] [-debug]
//
// The listening port is selected first-fit from [port-start, port-end]
// (default 9960-9990) unless -port pins one, so several instances can share
// the range and clients can discover them by scanning it. The environment
// variables EDITOR_BRIDGE_PORT_START, EDITOR_BRIDGE_PORT_END,
// EDITOR_BRIDGE_PORT and EDITOR_BRIDGE_DEBUG provide defaults for the
// corresponding flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/bpowers/editor-bridge/internal/logging"
	"github.com/bpowers/editor-bridge/mcp"
	"github.com/bpowers/editor-bridge/tools"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := flag.String("root", ".", "project root directory")
	portStart := flag.Int("port-start", envInt("EDITOR_BRIDGE_PORT_START", 9960), "first candidate listening port")
	portEnd := flag.Int("port-end", envInt("EDITOR_BRIDGE_PORT_END", 9990), "last candidate listening port")
	port := flag.Int("port", envInt("EDITOR_BRIDGE_PORT", 0), "fixed listening port, overriding the range")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		logging.SetLogLevel(slog.LevelDebug)
	}

	absRoot, err := filepath.Abs(*root)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	registry := mcp.NewRegistry()
	state := tools.NewStaticEditorState()
	if err := tools.RegisterAll(registry, tools.DirWorkspace(absRoot), state, absRoot); err != nil {
		return fmt.Errorf("registering tools: %w", err)
	}

	server, err := mcp.NewServer(registry, mcp.Config{
		Range:     mcp.PortRange{Start: *portStart, End: *portEnd},
		FixedPort: *port,
		Info:      mcp.Implementation{Name: "editor-bridge", Version: version},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Listen(ctx); err != nil {
		return err
	}
	fmt.Printf("editor-bridge listening on 127.0.0.1:%d (root %s)\n", server.Port(), absRoot)
	return server.Serve(ctx)
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
