package backend

import (
	"os"
	"strings"
)

// FixupDirs is the ordered list of well-known executable directories that
// must be present on the child's search path. GUI-launched processes on
// macOS inherit a minimal environment that misses the package-manager
// directories the backend's tooling lives in.
var FixupDirs = []string{
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"/usr/bin",
	"/bin",
}

const pathVar = "PATH="

// RepairPath returns a copy of environ with the PATH variable repaired:
// any member of FixupDirs that is absent is prepended, in FixupDirs order,
// while every pre-existing entry keeps its original position. Entries are
// de-duplicated only against FixupDirs; duplicates already present in the
// base path are left alone. If environ has no PATH variable, one holding
// exactly FixupDirs is appended.
func RepairPath(environ []string) []string {
	out := make([]string, 0, len(environ)+1)

	repaired := false
	for _, kv := range environ {
		if !repaired && strings.HasPrefix(kv, pathVar) {
			out = append(out, pathVar+repairList(kv[len(pathVar):]))
			repaired = true
			continue
		}
		out = append(out, kv)
	}

	if !repaired {
		out = append(out, pathVar+repairList(""))
	}

	return out
}

// repairList repairs a single PATH-style list value.
func repairList(path string) string {
	sep := string(os.PathListSeparator)

	var existing []string
	if path != "" {
		existing = strings.Split(path, sep)
	}

	present := make(map[string]bool, len(existing))
	for _, dir := range existing {
		present[dir] = true
	}

	merged := make([]string, 0, len(FixupDirs)+len(existing))
	for _, dir := range FixupDirs {
		if !present[dir] {
			merged = append(merged, dir)
		}
	}
	merged = append(merged, existing...)

	return strings.Join(merged, sep)
}
