package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua functions into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L with roll, percent, between,
// broadcast, and log entries.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	// engine.roll("2d6+1") -> total. A malformed expression raises a Lua
	// error in the calling script.
	L.SetField(engine, "roll", L.NewFunction(func(ls *lua.LState) int {
		expr := ls.CheckString(1)
		res, err := m.roller.RollExpr(expr)
		if err != nil {
			ls.RaiseError("engine.roll: %v", err)
			return 0
		}
		ls.Push(lua.LNumber(res.Total()))
		return 1
	}))

	// engine.percent(p) -> bool, p in [0, 1].
	L.SetField(engine, "percent", L.NewFunction(func(ls *lua.LState) int {
		p := float64(ls.CheckNumber(1))
		ls.Push(lua.LBool(m.roller.Percent(p)))
		return 1
	}))

	// engine.between(low, high) -> int, inclusive bounds.
	L.SetField(engine, "between", L.NewFunction(func(ls *lua.LState) int {
		low := ls.CheckInt(1)
		high := ls.CheckInt(2)
		ls.Push(lua.LNumber(m.roller.Between(low, high)))
		return 1
	}))

	// engine.broadcast(room_id, msg). No-op when no Broadcast is injected.
	L.SetField(engine, "broadcast", L.NewFunction(func(ls *lua.LState) int {
		roomID := ls.CheckString(1)
		msg := ls.CheckString(2)
		if m.Broadcast != nil {
			m.Broadcast(roomID, msg)
		}
		return 0
	}))

	// engine.log(msg) logs at debug level under the script's name.
	L.SetField(engine, "log", L.NewFunction(func(ls *lua.LState) int {
		msg := ls.CheckString(1)
		m.logger.Debug("scripting: engine.log", zap.String("msg", msg))
		return 0
	}))

	L.SetGlobal("engine", engine)
}
