package backend

import (
	"strings"
	"testing"
)

func pathValue(t *testing.T, environ []string) string {
	t.Helper()
	for _, kv := range environ {
		if strings.HasPrefix(kv, "PATH=") {
			return kv[len("PATH="):]
		}
	}
	t.Fatalf("no PATH in %v", environ)
	return ""
}

func TestRepairPathPrependsMissingFixupDirs(t *testing.T) {
	// Two of the four fixed directories missing.
	env := RepairPath([]string{"PATH=/usr/bin:/bin"})

	got := pathValue(t, env)
	want := "/opt/homebrew/bin:/usr/local/bin:/usr/bin:/bin"
	if got != want {
		t.Errorf("PATH = %q, want %q", got, want)
	}
}

func TestRepairPathKeepsExistingEntriesInOrder(t *testing.T) {
	env := RepairPath([]string{"PATH=/home/me/bin:/usr/bin:/sbin:/bin"})

	got := pathValue(t, env)
	want := "/opt/homebrew/bin:/usr/local/bin:/home/me/bin:/usr/bin:/sbin:/bin"
	if got != want {
		t.Errorf("PATH = %q, want %q", got, want)
	}
}

func TestRepairPathFixedDirsAppearExactlyOnce(t *testing.T) {
	env := RepairPath([]string{"PATH=/usr/local/bin:/usr/bin:/bin:/opt/homebrew/bin"})

	got := pathValue(t, env)
	for _, dir := range FixupDirs {
		n := 0
		for _, entry := range strings.Split(got, ":") {
			if entry == dir {
				n++
			}
		}
		if n != 1 {
			t.Errorf("%s appears %d times in %q, want 1", dir, n, got)
		}
	}
	// Already-present entries stay where they were.
	if got != "/usr/local/bin:/usr/bin:/bin:/opt/homebrew/bin" {
		t.Errorf("PATH = %q; pre-existing entries must keep their order", got)
	}
}

func TestRepairPathDoesNotDedupeNonFixedEntries(t *testing.T) {
	env := RepairPath([]string{"PATH=/extra:/usr/bin:/extra:/bin"})

	got := pathValue(t, env)
	if n := strings.Count(got+":", "/extra:"); n != 2 {
		t.Errorf("/extra appears %d times in %q, want 2 (only fixed dirs are de-duplicated)", n, got)
	}
}

func TestRepairPathEmptyValue(t *testing.T) {
	env := RepairPath([]string{"PATH="})

	got := pathValue(t, env)
	want := strings.Join(FixupDirs, ":")
	if got != want {
		t.Errorf("PATH = %q, want %q", got, want)
	}
}

func TestRepairPathAddsVariableWhenAbsent(t *testing.T) {
	env := RepairPath([]string{"HOME=/home/me", "LANG=C"})

	got := pathValue(t, env)
	want := strings.Join(FixupDirs, ":")
	if got != want {
		t.Errorf("PATH = %q, want %q", got, want)
	}
	if env[0] != "HOME=/home/me" || env[1] != "LANG=C" {
		t.Errorf("other variables disturbed: %v", env)
	}
}

func TestRepairPathLeavesOtherVariablesAlone(t *testing.T) {
	env := RepairPath([]string{"HOME=/home/me", "PATH=/bin", "TERM=xterm"})

	if env[0] != "HOME=/home/me" {
		t.Errorf("env[0] = %q", env[0])
	}
	if env[2] != "TERM=xterm" {
		t.Errorf("env[2] = %q", env[2])
	}
	if got := pathValue(t, env); !strings.HasSuffix(got, ":/bin") {
		t.Errorf("PATH = %q, want original entry retained at the end", got)
	}
}
