package hooks

import (
	"os"
	"path/filepath"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hooks.lua")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingScriptReturnsNilRunner(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "absent.lua"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r != nil {
		t.Error("expected nil runner for a missing script")
	}
}

func TestLoadBadScript(t *testing.T) {
	path := writeScript(t, "this is not lua (")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unparseable script")
	}
}

func TestNilRunnerIsSafe(t *testing.T) {
	var r *Runner
	if err := r.OnBackendStart(1); err != nil {
		t.Errorf("OnBackendStart on nil runner: %v", err)
	}
	if err := r.OnBackendExit(0, true); err != nil {
		t.Errorf("OnBackendExit on nil runner: %v", err)
	}
	r.Close()
}

func TestOnBackendStartCallsHook(t *testing.T) {
	path := writeScript(t, `
seen_pid = 0
function on_backend_start(pid)
  seen_pid = pid
end
`)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer r.Close()

	if err := r.OnBackendStart(4242); err != nil {
		t.Fatalf("OnBackendStart: %v", err)
	}

	got := r.Global("seen_pid")
	if n, ok := got.(lua.LNumber); !ok || int(n) != 4242 {
		t.Errorf("seen_pid = %v, want 4242", got)
	}
}

func TestOnBackendExitPassesCode(t *testing.T) {
	path := writeScript(t, `
seen_code = "unset"
function on_backend_exit(code)
  if code == nil then
    seen_code = "nil"
  else
    seen_code = code
  end
end
`)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer r.Close()

	if err := r.OnBackendExit(3, true); err != nil {
		t.Fatalf("OnBackendExit: %v", err)
	}
	if n, ok := r.Global("seen_code").(lua.LNumber); !ok || int(n) != 3 {
		t.Errorf("seen_code = %v, want 3", r.Global("seen_code"))
	}

	if err := r.OnBackendExit(0, false); err != nil {
		t.Fatalf("OnBackendExit unknown: %v", err)
	}
	if s, ok := r.Global("seen_code").(lua.LString); !ok || string(s) != "nil" {
		t.Errorf("seen_code = %v, want \"nil\" for unknown exit", r.Global("seen_code"))
	}
}

func TestUndefinedHookIsNoOp(t *testing.T) {
	path := writeScript(t, `x = 1`)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer r.Close()

	if err := r.OnBackendStart(1); err != nil {
		t.Errorf("OnBackendStart with no hook defined: %v", err)
	}
}

func TestHookErrorIsReported(t *testing.T) {
	path := writeScript(t, `
function on_backend_start(pid)
  error("boom")
end
`)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer r.Close()

	if err := r.OnBackendStart(1); err == nil {
		t.Error("expected the hook error to propagate")
	}
}

func TestNonFunctionHookIsReported(t *testing.T) {
	path := writeScript(t, `on_backend_start = "not a function"`)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer r.Close()

	if err := r.OnBackendStart(1); err == nil {
		t.Error("expected an error for a non-function hook")
	}
}

func TestSandboxClosesEscapeHatches(t *testing.T) {
	path := writeScript(t, `
has_io = io ~= nil
has_os = os ~= nil
has_dofile = dofile ~= nil
has_load = load ~= nil
`)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer r.Close()

	for _, name := range []string{"has_io", "has_os", "has_dofile", "has_load"} {
		if r.Global(name) != lua.LFalse {
			t.Errorf("%s = %v, want false", name, r.Global(name))
		}
	}
}

func TestCallAfterCloseIsNoOp(t *testing.T) {
	path := writeScript(t, `function on_backend_start(pid) end`)
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r.Close()

	if err := r.OnBackendStart(1); err != nil {
		t.Errorf("OnBackendStart after Close: %v", err)
	}
	r.Close()
}
