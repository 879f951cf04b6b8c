package scripting

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mudproxy/internal/game/character"
	"github.com/cory-johannsen/mudproxy/internal/game/skill"
	"github.com/cory-johannsen/mudproxy/internal/game/text"
)

// RegisterModules defines the global mud table and its log, flags, skills,
// room and stats modules in L, bound to host.
//
// Precondition: L must be from NewSandboxedState; host.Session must be non-nil.
// Postcondition: the mud global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, host Host) {
	mud := L.NewTable()
	L.SetField(mud, "log", m.newLogModule(L, host))
	L.SetField(mud, "flags", newFlagsModule(L, host))
	L.SetField(mud, "skills", newSkillsModule(L, host))
	L.SetField(mud, "room", newRoomModule(L, host))
	L.SetField(mud, "stats", newStatsModule(L, host))

	L.SetField(mud, "send", L.NewFunction(func(L *lua.LState) int {
		cmd := L.CheckString(1)
		if host.Send == nil {
			return 0
		}
		return pushResult(L, host.Send(cmd))
	}))
	L.SetField(mud, "notify", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if host.Notify == nil {
			return 0
		}
		return pushResult(L, host.Notify(msg))
	}))
	L.SetField(mud, "strip", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(text.Clean(L.CheckString(1))))
		return 1
	}))
	L.SetGlobal("mud", mud)
}

// pushResult follows the Lua convention: true on success, nil plus a message
// on failure.
func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func stringList(L *lua.LState, items []string) *lua.LTable {
	t := L.CreateTable(len(items), 0)
	for _, s := range items {
		t.Append(lua.LString(s))
	}
	return t
}

func (m *Manager) newLogModule(L *lua.LState, host Host) *lua.LTable {
	logger := m.logger.With(zap.String("session_id", host.Session.ID().String()))
	levels := map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
		"error": logger.Error,
	}
	mod := L.NewTable()
	for name, fn := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func newFlagsModule(L *lua.LState, host Host) *lua.LTable {
	reg := host.Session.Flags()
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			v, ok := reg.Get(L.CheckString(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LBool(v))
			return 1
		},
		"set": func(L *lua.LState) int {
			L.Push(lua.LBool(reg.Set(L.CheckString(1), L.ToBool(2))))
			return 1
		},
		"reset": func(L *lua.LState) int {
			L.Push(lua.LBool(reg.Reset(L.CheckString(1))))
			return 1
		},
		"register": func(L *lua.LState) int {
			key := L.CheckString(1)
			var patterns []string
			for i := 2; i <= L.GetTop(); i++ {
				patterns = append(patterns, L.CheckString(i))
			}
			return pushResult(L, reg.Register(key, patterns...))
		},
		"unregister": func(L *lua.LState) int {
			reg.Unregister(L.CheckString(1))
			return 0
		},
		"match": func(L *lua.LState) int {
			groups := reg.Match(L.CheckString(1))
			if groups == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(stringList(L, groups))
			return 1
		},
		"keys": func(L *lua.LState) int {
			L.Push(stringList(L, reg.Keys()))
			return 1
		},
	})
}

func recordTable(L *lua.LState, rec skill.Record) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(rec.Name))
	L.SetField(t, "skillset", lua.LString(string(rec.Skillset)))
	L.SetField(t, "rank", lua.LNumber(rec.Rank))
	L.SetField(t, "mindstate", lua.LNumber(rec.Mindstate))
	L.SetField(t, "percent", lua.LNumber(rec.Percent))
	L.SetField(t, "current", lua.LNumber(rec.Current))
	L.SetField(t, "baseline", lua.LNumber(rec.Baseline))
	return t
}

func newSkillsModule(L *lua.LState, host Host) *lua.LTable {
	sess := host.Session
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			name := L.CheckString(1)
			for _, rec := range sess.Snapshot().Skills {
				if strings.EqualFold(rec.Name, name) {
					L.Push(recordTable(L, rec))
					return 1
				}
			}
			L.Push(lua.LNil)
			return 1
		},
		"value": func(L *lua.LState) int {
			f, err := skill.ParseField(L.OptString(2, "rank"))
			if err != nil {
				L.ArgError(2, err.Error())
				return 0
			}
			v, err := sess.SkillValue(L.CheckString(1), f)
			if err != nil {
				L.Push(lua.LNil)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LNumber(v))
			return 1
		},
		"names": func(L *lua.LState) int {
			recs := sess.Snapshot().Skills
			names := make([]string, 0, len(recs))
			for _, r := range recs {
				names = append(names, r.Name)
			}
			L.Push(stringList(L, names))
			return 1
		},
		"knows": func(L *lua.LState) int {
			L.Push(lua.LBool(sess.Knows(L.CheckString(1))))
			return 1
		},
	})
}

func newRoomModule(L *lua.LState, host Host) *lua.LTable {
	sess := host.Session
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			st := sess.Snapshot()
			t := L.NewTable()
			L.SetField(t, "title", lua.LString(st.Markup.Title))
			L.SetField(t, "description", lua.LString(st.Markup.Description))
			L.SetField(t, "exits", stringList(L, st.Markup.Exits))
			L.SetField(t, "npcs", stringList(L, st.Room.NPCs))
			L.SetField(t, "dead_npcs", stringList(L, st.Room.DeadNPCs))
			L.SetField(t, "pcs", stringList(L, st.Room.PCs))
			L.SetField(t, "prone_pcs", stringList(L, st.Room.PronePCs))
			L.SetField(t, "sitting_pcs", stringList(L, st.Room.SittingPCs))
			L.SetField(t, "objects", stringList(L, st.Room.Objects))
			L.SetField(t, "group", stringList(L, st.Room.Group))
			L.Push(t)
			return 1
		},
		"indicator": func(L *lua.LState) int {
			L.Push(lua.LBool(sess.Markup().Indicator(L.CheckString(1))))
			return 1
		},
	})
}

func newStatsModule(L *lua.LState, host Host) *lua.LTable {
	sess := host.Session
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			c := sess.Snapshot().Character
			t := L.NewTable()
			L.SetField(t, "name", lua.LString(c.Name))
			L.SetField(t, "account", lua.LString(c.Account))
			L.SetField(t, "race", lua.LString(c.Race))
			L.SetField(t, "guild", lua.LString(c.Guild.String()))
			L.SetField(t, "mana_type", lua.LString(c.Guild.ManaType()))
			L.SetField(t, "gender", lua.LString(c.Gender))
			L.SetField(t, "age", lua.LNumber(c.Age))
			L.SetField(t, "circle", lua.LNumber(c.Circle))
			L.SetField(t, "favors", lua.LNumber(c.Favors))
			L.SetField(t, "tdps", lua.LNumber(c.TDPs))
			L.SetField(t, "luck", lua.LNumber(c.Luck))
			L.SetField(t, "encumbrance", lua.LString(c.Encumbrance))
			L.SetField(t, "balance", lua.LString(c.BalanceName()))
			L.SetField(t, "max_concentration", lua.LNumber(c.MaxConcentration))
			for _, s := range character.Stats() {
				L.SetField(t, strings.ToLower(s.String()), lua.LNumber(c.Abilities.Get(s)))
			}
			L.Push(t)
			return 1
		},
		"score": func(L *lua.LState) int {
			stat, err := character.ParseStat(L.CheckString(1))
			if err != nil {
				L.ArgError(1, err.Error())
				return 0
			}
			L.Push(lua.LNumber(sess.Snapshot().Character.Abilities.Get(stat)))
			return 1
		},
	})
}
