// Package hooks runs user-provided Lua lifecycle hooks. A hook script may
// define on_backend_start(pid) and on_backend_exit(code) globals; murmur
// calls them as the backend comes and goes. Scripts run in a restricted
// interpreter with no file system or process access.
package hooks

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Hook function names the script may define.
const (
	fnBackendStart = "on_backend_start"
	fnBackendExit  = "on_backend_exit"
)

// Runner owns a single Lua state and serializes all calls into it. A nil
// Runner is valid and every method on it is a no-op, so callers need not
// special-case a missing hook script.
type Runner struct {
	mu     sync.Mutex
	state  *lua.LState
	closed bool
}

// Load reads and executes the hook script at path, returning a runner for
// its hook functions. A missing script is not an error: Load returns a nil
// runner. A script that fails to parse or whose top level errors is.
func Load(path string) (*Runner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading hook script %s: %w", path, err)
	}

	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(state)
	sandbox(state)

	r := &Runner{state: state}
	if err := state.DoString(string(data)); err != nil {
		state.Close()
		return nil, fmt.Errorf("hook script %s: %w", path, err)
	}
	return r, nil
}

// openSafeLibraries opens base, table, string and math. io, os, debug and
// package stay closed: hooks observe lifecycle, they do not touch the
// system.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes the base-library escape hatches that survive a selective
// open.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// OnBackendStart reports a freshly spawned backend to the script.
func (r *Runner) OnBackendStart(pid int) error {
	return r.call(fnBackendStart, lua.LNumber(pid))
}

// OnBackendExit reports an observed backend termination. An unknown exit
// code is passed as nil.
func (r *Runner) OnBackendExit(code int, known bool) error {
	if !known {
		return r.call(fnBackendExit, lua.LNil)
	}
	return r.call(fnBackendExit, lua.LNumber(code))
}

// call invokes the named global if the script defined it. An undefined
// hook is a silent no-op.
func (r *Runner) call(name string, args ...lua.LValue) (err error) {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	fn := r.state.GetGlobal(name)
	if fn == lua.LNil {
		return nil
	}
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("hook %q is not a function (got %s)", name, fn.Type())
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("hook %q panic: %v", name, p)
		}
	}()

	if err := r.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		return fmt.Errorf("hook %q: %w", name, err)
	}
	return nil
}

// Global returns a global from the hook state, for inspection. Returns
// lua.LNil on a nil or closed runner.
func (r *Runner) Global(name string) lua.LValue {
	if r == nil {
		return lua.LNil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return lua.LNil
	}
	return r.state.GetGlobal(name)
}

// Close tears down the Lua state. Safe on nil and after Close.
func (r *Runner) Close() {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.state.Close()
}
