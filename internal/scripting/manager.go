package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/undercroft-game/undercroft/internal/game/chance"
)

// Roller is the slice of the chance package's roller API the engine.*
// modules expose to scripts. Satisfied by *chance.Roller and
// *chance.LoggedRoller.
type Roller interface {
	RollExpr(expr string) (chance.Result, error)
	Percent(p float64) bool
	Between(low, high int) int
}

// UseEnv is the snapshot of the using player's context passed to an item-use
// hook as its single table argument.
type UseEnv struct {
	ItemID   string
	CharName string
	RoomID   string
}

// UseResult is what an item-use hook reports back: whether the item was
// consumed by the use, and a message to show the player.
type UseResult struct {
	Consumed bool
	Message  string
}

// Manager owns one sandboxed LState holding every loaded item-use script and
// exposes hook dispatch. Item definitions name their hook via their on_use
// field; the hook is a Lua global function taking an env table and returning
// a table with optional "consumed" and "message" fields.
//
// The single LState is serialized by the mutex; hooks from different
// sessions run one at a time.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel context.CancelFunc
	roller Roller
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	Broadcast func(roomID, msg string)
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scripts loaded.
func NewManager(roller Roller, logger *zap.Logger) *Manager {
	return &Manager{
		roller: roller,
		logger: logger,
	}
}

// Load creates the sandboxed VM, registers all engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order. Calling
// Load again replaces the previous VM.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: The VM is ready for Use calls; returns error on Lua load failure.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
	}
	m.state = L
	m.cancel = cancel
	m.mu.Unlock()
	return nil
}

// Close releases the VM. Further Use calls report nothing-happened.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
		m.state = nil
		m.cancel = nil
	}
}

// Use calls the named Lua hook with env. Returns (result, true) when the
// hook ran and produced a result. Returns (zero, false) when no VM is
// loaded or the hook is not defined. Lua runtime errors are logged at Warn
// level and reported as not-run, never propagated.
//
// Precondition: hook must be non-empty.
func (m *Manager) Use(hook string, env UseEnv) (UseResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L := m.state
	if L == nil {
		m.logger.Info("scripting: no VM loaded",
			zap.String("hook", hook),
		)
		return UseResult{}, false
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return UseResult{}, false
	}

	envTable := L.NewTable()
	L.SetField(envTable, "item_id", lua.LString(env.ItemID))
	L.SetField(envTable, "char_name", lua.LString(env.CharName))
	L.SetField(envTable, "room_id", lua.LString(env.RoomID))

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, envTable); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return UseResult{}, false
	}

	ret := L.Get(-1)
	L.Pop(1)

	result := UseResult{}
	if tbl, ok := ret.(*lua.LTable); ok {
		if consumed, ok := L.GetField(tbl, "consumed").(lua.LBool); ok {
			result.Consumed = bool(consumed)
		}
		if msg, ok := L.GetField(tbl, "message").(lua.LString); ok {
			result.Message = string(msg)
		}
	}
	return result, true
}
