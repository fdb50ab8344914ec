package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/undercroft-game/undercroft/internal/game/chance"
	"github.com/undercroft-game/undercroft/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := chance.NewRoller(chance.NewSeededSource(1))
	return scripting.NewManager(roller, logger), logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func TestManager_Load_UseHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function use_torch(env)
			return { consumed = true, message = "The " .. env.item_id .. " sputters to life." }
		end
	`)
	require.NoError(t, mgr.Load(dir, 0))

	res, ran := mgr.Use("use_torch", scripting.UseEnv{ItemID: "torch", CharName: "Alice", RoomID: "gate_hall"})
	require.True(t, ran)
	assert.True(t, res.Consumed)
	assert.Equal(t, "The torch sputters to life.", res.Message)
}

func TestManager_Use_EnvFieldsVisible(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function inspect(env)
			return { message = env.char_name .. "@" .. env.room_id }
		end
	`)
	require.NoError(t, mgr.Load(dir, 0))

	res, ran := mgr.Use("inspect", scripting.UseEnv{ItemID: "torch", CharName: "Alice", RoomID: "gate_hall"})
	require.True(t, ran)
	assert.Equal(t, "Alice@gate_hall", res.Message)
}

func TestManager_Use_MissingHook_NotRun(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `local noop = 1`)
	require.NoError(t, mgr.Load(dir, 0))

	_, ran := mgr.Use("no_such_hook", scripting.UseEnv{})
	assert.False(t, ran)
}

func TestManager_Use_NoVM_NotRun(t *testing.T) {
	mgr, logs := newTestManager(t)
	_, ran := mgr.Use("anything", scripting.UseEnv{})
	assert.False(t, ran)
	assert.Equal(t, 1, logs.FilterMessage("scripting: no VM loaded").Len())
}

func TestManager_Use_RuntimeErrorLoggedNotPropagated(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function explode(env)
			error("boom")
		end
	`)
	require.NoError(t, mgr.Load(dir, 0))

	_, ran := mgr.Use("explode", scripting.UseEnv{})
	assert.False(t, ran)
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestManager_Use_NonTableReturnIsZeroResult(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function odd(env)
			return 42
		end
	`)
	require.NoError(t, mgr.Load(dir, 0))

	res, ran := mgr.Use("odd", scripting.UseEnv{})
	require.True(t, ran)
	assert.False(t, res.Consumed)
	assert.Empty(t, res.Message)
}

func TestManager_Load_BadLuaFails(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "broken.lua", `function unterminated(`)
	assert.Error(t, mgr.Load(dir, 0))
}

func TestManager_Load_MissingDirFails(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.Load(filepath.Join(t.TempDir(), "nope"), 0))
}

func TestManager_Load_ReplacesVM(t *testing.T) {
	mgr, _ := newTestManager(t)
	dirA := writeTempLua(t, "a.lua", `function hook(env) return { message = "a" } end`)
	dirB := writeTempLua(t, "b.lua", `function hook(env) return { message = "b" } end`)

	require.NoError(t, mgr.Load(dirA, 0))
	require.NoError(t, mgr.Load(dirB, 0))

	res, ran := mgr.Use("hook", scripting.UseEnv{})
	require.True(t, ran)
	assert.Equal(t, "b", res.Message)
}

func TestManager_Close_UseReportsNotRun(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `function hook(env) return {} end`)
	require.NoError(t, mgr.Load(dir, 0))

	mgr.Close()
	_, ran := mgr.Use("hook", scripting.UseEnv{})
	assert.False(t, ran)
}

func TestManager_Load_LexicographicOrder(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	// 20_late.lua overrides the hook defined in 10_early.lua.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10_early.lua"),
		[]byte(`function hook(env) return { message = "early" } end`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20_late.lua"),
		[]byte(`function hook(env) return { message = "late" } end`), 0644))

	require.NoError(t, mgr.Load(dir, 0))
	res, ran := mgr.Use("hook", scripting.UseEnv{})
	require.True(t, ran)
	assert.Equal(t, "late", res.Message)
}
