// Package runtimepath locates the per-user files the daemon shares with its
// clients.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the per-user runtime directory. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/stackwm-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/stackwm-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path. STACKWM_SOCKET overrides it.
func SocketPath() (string, error) {
	if p := os.Getenv("STACKWM_SOCKET"); p != "" {
		return p, nil
	}
	return inDir("stackwm.sock")
}

// SessionPath returns where the daemon keeps window assignments between
// restarts.
func SessionPath() (string, error) {
	return inDir("stackwm-session.json")
}

func inDir(name string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, name), nil
}
