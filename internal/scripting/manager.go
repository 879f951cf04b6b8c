package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mudproxy/internal/game/session"
)

// HookOnLine is called with every game line after it has been parsed. It may
// return false to hide the line from the player or a string to replace it.
const HookOnLine = "on_line"

// Host is the per-session surface scripts interact with.
type Host struct {
	// Session is read through snapshots and its flag registry.
	Session *session.Session
	// Send writes a command to the game. nil makes mud.send a no-op.
	Send func(command string) error
	// Notify shows a message to the player. nil makes mud.notify a no-op.
	Notify func(message string) error
}

type vm struct {
	mu sync.Mutex
	L  *lua.LState
}

// Manager owns one sandboxed VM per attached session and dispatches hooks.
// All methods are safe for concurrent use; calls into the same VM are
// serialized.
type Manager struct {
	scriptDir string
	limit     int
	logger    *zap.Logger

	mu  sync.RWMutex
	vms map[string]*vm
}

// NewManager creates a Manager that loads every *.lua file in scriptDir into
// each attached session.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 uses the default).
// Postcondition: Returns a non-nil Manager with no attached sessions.
func NewManager(scriptDir string, instLimit int, logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		scriptDir: scriptDir,
		limit:     instLimit,
		logger:    logger,
		vms:       make(map[string]*vm),
	}
}

// Attach creates a VM for the host's session, registers the mud.* modules
// and executes the scripts in lexicographic order. Attaching an ID twice
// replaces the earlier VM.
//
// Precondition: host.Session must be non-nil; the script dir must be readable.
// Postcondition: the session's VM is registered, or an error is returned and
// nothing is registered.
func (m *Manager) Attach(host Host) error {
	id := host.Session.ID().String()
	files, err := m.scriptFiles()
	if err != nil {
		return err
	}

	L := NewSandboxedState()
	m.RegisterModules(L, host)
	for _, path := range files {
		if err := RunLimited(L, m.limit, func() error { return L.DoFile(path) }); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for session %s: %w", path, id, err)
		}
	}

	m.mu.Lock()
	old := m.vms[id]
	m.vms[id] = &vm{L: L}
	m.mu.Unlock()
	if old != nil {
		old.close()
	}
	m.logger.Debug("scripts attached", zap.String("session_id", id), zap.Int("files", len(files)))
	return nil
}

func (m *Manager) scriptFiles() ([]string, error) {
	entries, err := os.ReadDir(m.scriptDir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", m.scriptDir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(m.scriptDir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Detach closes and forgets the VM for id. Unknown IDs are ignored.
func (m *Manager) Detach(id string) {
	m.mu.Lock()
	v := m.vms[id]
	delete(m.vms, id)
	m.mu.Unlock()
	if v != nil {
		v.close()
	}
}

// Close detaches every session.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.close()
	}
}

func (v *vm) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.L.Close()
}

// CallHook calls the named Lua global function in the VM for id. Returns
// (LNil, nil) if the session has no VM or the hook is not defined. Lua
// runtime errors, including an exhausted instruction budget, are logged at
// Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(id, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v := m.vms[id]
	m.mu.RUnlock()
	if v == nil {
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	err := RunLimited(v.L, m.limit, func() error {
		return v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("session_id", id),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// OnLine runs the on_line hook for line and returns what the player should
// see: the line itself, a replacement, or ok=false when a script hid it.
func (m *Manager) OnLine(id, line string) (shown string, ok bool) {
	ret, _ := m.CallHook(id, HookOnLine, lua.LString(line))
	switch r := ret.(type) {
	case lua.LBool:
		if !bool(r) {
			return "", false
		}
	case lua.LString:
		return string(r), true
	}
	return line, true
}

// Attached reports whether id has a VM.
func (m *Manager) Attached(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[id]
	return ok
}
