package backend

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Resolver locates the backend executable for a logical name. Resolution
// order: the explicit Override path, then the bundled resource directory,
// then the executable search path.
type Resolver struct {
	// Override is an explicit executable path that wins over all lookups.
	Override string

	// ResourceDir is where bundled executables live. Empty means
	// "resources" next to the running host binary.
	ResourceDir string
}

// Resolve returns the path to execute for name. Failure wraps
// ErrBackendNotFound.
func (r Resolver) Resolve(name string) (string, error) {
	if r.Override != "" {
		info, err := os.Stat(r.Override)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w: configured path %s", ErrBackendNotFound, r.Override)
		}
		return r.Override, nil
	}

	dir := r.ResourceDir
	if dir == "" {
		if exe, err := os.Executable(); err == nil {
			dir = filepath.Join(filepath.Dir(exe), "resources")
		}
	}
	if dir != "" {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w: %s", ErrBackendNotFound, name)
}
