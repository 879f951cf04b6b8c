package scripting_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/mudproxy/internal/game/character"
	"github.com/cory-johannsen/mudproxy/internal/game/markup"
	"github.com/cory-johannsen/mudproxy/internal/game/session"
	"github.com/cory-johannsen/mudproxy/internal/scripting"
)

// call attaches src to sess with host callbacks and invokes hook.
func call(t *testing.T, host scripting.Host, src, hook string, args ...lua.LValue) (lua.LValue, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(writeTempLua(t, "mod.lua", src), 0, zap.New(core))
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.Attach(host))
	ret, err := mgr.CallHook(host.Session.ID().String(), hook, args...)
	require.NoError(t, err)
	return ret, logs
}

func TestMudLog_AllLevels(t *testing.T) {
	_, logs := call(t, scripting.Host{Session: session.New(session.Options{})}, `
		function do_all_logs()
			mud.log.debug("d")
			mud.log.info("i")
			mud.log.warn("w")
			mud.log.error("e")
		end
	`, "do_all_logs")

	levels := map[string]bool{}
	for _, e := range logs.All() {
		if e.ContextMap()["source"] == "lua" {
			levels[e.Level.String()] = true
		}
	}
	assert.Equal(t, map[string]bool{"debug": true, "info": true, "warn": true, "error": true}, levels)
}

func TestMudSend_UsesHostCallback(t *testing.T) {
	var sent []string
	host := scripting.Host{
		Session: session.New(session.Options{}),
		Send: func(cmd string) error {
			sent = append(sent, cmd)
			return nil
		},
	}
	ret, _ := call(t, host, `function go() return mud.send("stance offensive") end`, "go")
	assert.Equal(t, lua.LTrue, ret)
	assert.Equal(t, []string{"stance offensive"}, sent)
}

func TestMudSend_ErrorReturnsNilAndMessage(t *testing.T) {
	host := scripting.Host{
		Session: session.New(session.Options{}),
		Send:    func(string) error { return errors.New("game connection closed") },
	}
	ret, _ := call(t, host, `
		function go()
			local ok, err = mud.send("look")
			if ok == nil then return err end
			return "sent"
		end
	`, "go")
	assert.Equal(t, lua.LString("game connection closed"), ret)
}

func TestMudNotify_NilCallbackIsNoOp(t *testing.T) {
	ret, _ := call(t, scripting.Host{Session: session.New(session.Options{})}, `
		function go() mud.notify("hi") return "done" end
	`, "go")
	assert.Equal(t, lua.LString("done"), ret)
}

func TestMudStrip(t *testing.T) {
	ret, _ := call(t, scripting.Host{Session: session.New(session.Options{})}, `
		function go(s) return mud.strip(s) end
	`, "go", lua.LString("<pushBold/>a goblin<popBold/>"))
	assert.Equal(t, lua.LString("a goblin"), ret)
}

func TestMudFlags_RegisterEvaluateGet(t *testing.T) {
	sess := session.New(session.Options{})
	src := `
		function setup()
			return mud.flags.register("hidden", "^You blend in")
		end
		function check() return mud.flags.get("hidden") end
		function missing() return mud.flags.get("nope") end
		function clear() mud.flags.reset("hidden") return mud.flags.get("hidden") end
	`
	core, _ := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(writeTempLua(t, "flags.lua", src), 0, zap.New(core))
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.Attach(scripting.Host{Session: sess}))
	id := sess.ID().String()

	ret, err := mgr.CallHook(id, "setup")
	require.NoError(t, err)
	assert.Equal(t, lua.LTrue, ret)

	sess.Flags().Evaluate("You blend in with your surroundings.")
	ret, _ = mgr.CallHook(id, "check")
	assert.Equal(t, lua.LTrue, ret)

	ret, _ = mgr.CallHook(id, "missing")
	assert.Equal(t, lua.LNil, ret)

	ret, _ = mgr.CallHook(id, "clear")
	assert.Equal(t, lua.LFalse, ret)
}

func TestMudFlags_MatchReturnsGroups(t *testing.T) {
	sess := session.New(session.Options{})
	require.NoError(t, sess.Flags().Register("roundtime", `Roundtime: (\d+) sec`))
	sess.Flags().Evaluate("Roundtime: 4 sec.")

	ret, _ := call(t, scripting.Host{Session: sess}, `
		function go() return mud.flags.match("roundtime")[2] end
	`, "go")
	assert.Equal(t, lua.LString("4"), ret)
}

func TestMudSkills(t *testing.T) {
	sess := session.New(session.Options{})
	require.NoError(t, sess.Update(func(e *session.Entities) error {
		e.Abilities.AddSpell("Ease Burden")
		return e.Skills.Update("Evasion", 120, 7, 25)
	}))

	ret, _ := call(t, scripting.Host{Session: sess}, `
		function go()
			local r = mud.skills.get("evasion")
			if r.skillset ~= "Survival" then error("skillset " .. r.skillset) end
			if not mud.skills.knows("Ease Burden") then error("spell not known") end
			local missing, err = mud.skills.value("Forging", "rank")
			if missing ~= nil or err == nil then error("expected untracked skill error") end
			return r.mindstate + mud.skills.value("Evasion", "rank") + mud.skills.value("Evasion", "current")
		end
	`, "go")
	assert.InDelta(t, 7+120+120.25, float64(ret.(lua.LNumber)), 0.001)
}

func TestMudSkills_BadFieldRaises(t *testing.T) {
	sess := session.New(session.Options{})
	ret, logs := call(t, scripting.Host{Session: sess}, `
		function go() return mud.skills.value("Evasion", "speed") end
	`, "go")
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestMudRoom(t *testing.T) {
	src := markup.NewStatic()
	src.SetRoom("[Crossing, Hodierna Way]", "A busy street.", []string{"north", "east"})
	src.SetIndicator("IconKNEELING", true)
	sess := session.New(session.Options{Markup: src})
	require.NoError(t, sess.Update(func(e *session.Entities) error {
		e.Room.SetObjects("You also see <pushBold/>a goblin<popBold/>, <pushBold/>a goblin<popBold/> and a rock.")
		e.Room.AddGroupMember("Friend")
		return nil
	}))

	ret, _ := call(t, scripting.Host{Session: sess}, `
		function go()
			local r = mud.room.get()
			if r.title ~= "[Crossing, Hodierna Way]" then error("title") end
			if #r.exits ~= 2 then error("exits") end
			if r.group[1] ~= "Friend" then error("group") end
			if not mud.room.indicator("IconKNEELING") then error("indicator") end
			return r.npcs[2]
		end
	`, "go")
	assert.Equal(t, lua.LString("second goblin"), ret)
}

func TestMudStats(t *testing.T) {
	sess := session.New(session.Options{})
	require.NoError(t, sess.Update(func(e *session.Entities) error {
		e.Character.Name = "Mahtra"
		e.Character.Guild = character.GuildMoonMage
		e.Character.Abilities[character.Wisdom] = 42
		return nil
	}))

	ret, _ := call(t, scripting.Host{Session: sess}, `
		function go()
			local s = mud.stats.get()
			if s.name ~= "Mahtra" or s.guild ~= "Moon Mage" or s.mana_type ~= "lunar" then
				error("identity")
			end
			if s.balance ~= "solidly" then error("balance " .. s.balance) end
			return s.wisdom + mud.stats.score("Wisdom")
		end
	`, "go")
	assert.Equal(t, lua.LNumber(84), ret)
}
