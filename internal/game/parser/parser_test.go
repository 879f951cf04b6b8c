package parser

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mudproxy/internal/game/ability"
	"github.com/cory-johannsen/mudproxy/internal/game/character"
	"github.com/cory-johannsen/mudproxy/internal/game/session"
)

func newObservedParser(t *testing.T, opts session.Options, policy CapturePolicy) (*Parser, *observer.ObservedLogs, *[]string) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	var notices []string
	p := New(session.New(opts), Options{
		Logger: zap.New(core),
		Notifier: NotifierFunc(func(msg string) error {
			notices = append(notices, msg)
			return nil
		}),
		Policy: policy,
	})
	return p, logs, &notices
}

func feed(p *Parser, lines ...string) {
	for _, l := range lines {
		p.Parse(l)
	}
}

func TestClassify_EachClassification(t *testing.T) {
	cases := map[Classification]string{
		NameRaceGuild:           "Name: Foo Barson   Race: Human   Guild: Ranger",
		GenderAgeCircle:         "Gender: Male   Age: 1,042   Circle: 50",
		StatValue:               "      Strength : 30             Reflex : 32",
		ConcentrationValue:      "Concentration : 300    Max : 320",
		Favors:                  "         Favors : 7",
		TDPs:                    "You have 55 TDPs.",
		Luck:                    "           Luck : -1",
		Encumbrance:             "    Encumbrance : Light Burden",
		Balance:                 "You are nimbly balanced.",
		AccountName:             "Account Info for FOOBAR:",
		LastLogoff:              "    Logoff :  Sun Mar  9 14:05:00 ET 2025",
		RestedExp:               "Rested EXP Stored: 4:59 hours  Usable This Cycle: 38 minutes  Cycle Refreshes: 1 hour",
		RoomPlayersEmpty:        "<component id='room players'></component>",
		RoomPlayers:             "<component id='room players'>Also here: Foo.</component>",
		RoomObjsEmpty:           "<component id='room objs'></component>",
		RoomObjs:                "<component id='room objs'>You also see a rock.</component>",
		GroupMembersEmpty:       "You are not currently in a group.",
		GroupMember:             `<pushStream id="group"/>  Foo: is your group leader.`,
		ExpClearMindstate:       "<component id='exp Evasion'></component>",
		BriefExpOn:              "<component id='exp Evasion'><preset id='whisper'>Evasion:  290 34% [ 5/34]</preset></component>",
		BriefExpOff:             "<component id='exp Evasion'><preset id='whisper'>         Evasion:  290 34% dabbling</preset></component>",
		ExpColumns:              "          Evasion:  290 34% dabbling           Athletics:  100 05% clear",
		ExpModsStart:            "The following skills are currently under the influence of a modifier:",
		SpellbookFormat:         "You will now see column-formatted output for the SPELLS verb.",
		KnownSpellsStart:        "You recall the spells you have learned from your training.",
		BarbarianAbilitiesStart: "You know the Berserks: Avalanche, Famine.",
		ThiefKhriStart:          "From the Subtlety tree, you know the following khri: Darken (Aug)",
	}
	require.Len(t, cases, int(numClassifications))
	for want, line := range cases {
		got, ok := Classify(line)
		require.True(t, ok, "%s: %q not classified", want, line)
		assert.Equal(t, want, got, "line %q", line)
	}
}

func TestClassify_Unmatched(t *testing.T) {
	_, ok := Classify("A goblin swings a club at you.")
	assert.False(t, ok)
}

func TestClassification_String(t *testing.T) {
	assert.Equal(t, "ThiefKhriStart", ThiefKhriStart.String())
	assert.Equal(t, "Classification(99)", Classification(99).String())
}

func TestParse_ReturnsLineUnchanged(t *testing.T) {
	p := New(session.New(session.Options{}), Options{Logger: zaptest.NewLogger(t)})
	line := "You are nimbly balanced."
	assert.Equal(t, line, p.Parse(line))
}

func TestParse_EvaluatesFlags(t *testing.T) {
	p := New(session.New(session.Options{}), Options{})
	require.NoError(t, p.Session().Flags().Register("stunned", "you are stunned"))
	p.Parse("You are stunned!")
	v, _ := p.Session().Flags().Get("stunned")
	assert.True(t, v)
}

func TestParse_InfoBlock(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		"Name: Foo Barson   Race: Elothean   Guild: Moon Mage",
		"Gender: Female   Age: 1,042   Circle: 50",
		"      Strength : 30             Reflex : 32",
		"       Agility : 31           Charisma : 33",
		"    Discipline : 34             Wisdom : 35",
		"  Intelligence : 36            Stamina : 37",
		"Concentration : 300    Max : 320",
		"         Favors : 7",
		"           TDPs : 1234",
		"           Luck : -1",
		"    Encumbrance : Light Burden",
		"Account Info for FOOBAR:",
	)
	require.Zero(t, logs.Len())

	c := p.Session().Snapshot().Character
	assert.Equal(t, "Foo Barson", c.Name)
	assert.Equal(t, "Elothean", c.Race)
	assert.Equal(t, character.GuildMoonMage, c.Guild)
	assert.Equal(t, "Female", c.Gender)
	assert.Equal(t, 1042, c.Age)
	assert.Equal(t, 50, c.Circle)
	assert.Equal(t, 30, c.Abilities.Get(character.Strength))
	assert.Equal(t, 32, c.Abilities.Get(character.Reflex))
	assert.Equal(t, 36, c.Abilities.Get(character.Intelligence))
	assert.Equal(t, 37, c.Abilities.Get(character.Stamina))
	assert.Equal(t, 300, c.Abilities.Get(character.Concentration))
	assert.Equal(t, 320, c.MaxConcentration)
	assert.Equal(t, 7, c.Favors)
	assert.Equal(t, 1234, c.TDPs)
	assert.Equal(t, -1, c.Luck)
	assert.Equal(t, "Light Burden", c.Encumbrance)
	assert.Equal(t, "FOOBAR", c.Account)

	p.Parse("You have 55 TDPs.")
	assert.Equal(t, 55, p.Session().Snapshot().Character.TDPs)
}

func TestParse_UnknownGuildIsError(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	p.Parse("Name: Foo   Race: Human   Guild: Pirate")
	assert.Equal(t, 1, logs.Len())
	assert.Empty(t, p.Session().Snapshot().Character.Name)
}

func TestParse_Balance(t *testing.T) {
	p, _, _ := newObservedParser(t, session.Options{}, KeepArmed)
	p.Parse("You are somewhat off balance.")
	assert.Equal(t, "somewhat off", p.Session().Snapshot().Character.BalanceName())
	p.Parse("[You're incredibly balanced and...]")
	assert.Equal(t, len(character.BalanceDescriptors)-1, p.Session().Snapshot().Character.Balance)
}

func TestParse_MalformedLineResilience(t *testing.T) {
	p, logs, notices := newObservedParser(t, session.Options{}, KeepArmed)
	p.Parse("You are wildly balanced.")
	p.Parse("You are nimbly balanced.")

	require.Equal(t, 1, logs.Len(), "exactly one diagnostic entry per failed line")
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "You are wildly balanced.", fields["line"])
	assert.Contains(t, fields["error"], "unknown balance descriptor")
	assert.NotEmpty(t, fields["stacktrace"])
	assert.Len(t, *notices, 1)

	assert.Equal(t, "nimbly", p.Session().Snapshot().Character.BalanceName())
}

func TestParse_PanicIsRecovered(t *testing.T) {
	orig := dispatchTable
	t.Cleanup(func() { dispatchTable = orig })
	boom := rule{NameRaceGuild, reExpModsStart, func(*Parser, *session.Entities, []string, string) error {
		var m map[string]int
		m["x"] = 1
		return nil
	}}
	dispatchTable = append([]rule{boom}, orig...)

	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	p.Parse("The following skills are currently under the influence of a modifier:")
	p.Parse("You are nimbly balanced.")

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "panic")
	assert.Equal(t, "nimbly", p.Session().Snapshot().Character.BalanceName())
}

func TestParse_ClosedSessionIsIgnored(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	require.NoError(t, p.Session().Close())
	p.Parse("You are wildly balanced.")
	assert.Zero(t, logs.Len())
}

func TestParse_LastLogoff(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	p.Parse("    Logoff :  Sun Mar  9 14:05:00 ET 2025")
	require.Zero(t, logs.Len())
	got := p.Session().Snapshot().Character.LastLogoff
	assert.True(t, got.Equal(time.Date(2025, 3, 9, 18, 5, 0, 0, time.UTC)), "got %v", got)

	p.Parse("    Logoff :  Sat Mar  8 14:05:00 ET 2025")
	got = p.Session().Snapshot().Character.LastLogoff
	assert.True(t, got.Equal(time.Date(2025, 3, 8, 19, 5, 0, 0, time.UTC)), "got %v", got)
}

func TestIsDaylightTime(t *testing.T) {
	cases := []struct {
		month   time.Month
		day     int
		weekday int
		want    bool
	}{
		{time.January, 15, 3, false},
		{time.March, 8, 6, false},
		{time.March, 9, 0, true},
		{time.March, 14, 5, true},
		{time.July, 4, 5, true},
		{time.November, 1, 6, true},
		{time.November, 2, 0, false},
		{time.December, 25, 4, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, isDaylightTime(c.month, c.day, c.weekday), "%s %d (wd %d)", c.month, c.day, c.weekday)
	}
}

func TestParse_RestedExp(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	p.Parse("Rested EXP Stored: 4:59 hours  Usable This Cycle: 38 minutes  Cycle Refreshes: 1 hour")
	require.Zero(t, logs.Len())
	r := p.Session().Snapshot().Character.Rested
	assert.Equal(t, 4*time.Hour+59*time.Minute, r.Stored)
	assert.Equal(t, 38*time.Minute, r.UsableThisCycle)
	assert.Equal(t, time.Hour, r.CycleRefresh)

	p.Parse("Rested EXP Stored: none  Usable This Cycle: none  Cycle Refreshes: soonish")
	assert.Equal(t, 1, logs.Len())
}

func TestParse_RoomReplaceSemantics(t *testing.T) {
	p, _, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		"<component id='room objs'>You also see <pushBold/>a goblin<popBold/>, <pushBold/>a goblin<popBold/>, <pushBold/>a rat<popBold/> which appears dead and a rock.</component>",
		"<component id='room players'>Also here: Foo who is sitting and Bar.</component>",
	)
	room := p.Session().Snapshot().Room
	assert.Equal(t, []string{"goblin", "second goblin"}, room.NPCs)
	assert.Equal(t, []string{"rat"}, room.DeadNPCs)
	assert.Equal(t, []string{"rock"}, room.Objects)
	assert.Equal(t, []string{"Foo", "Bar"}, room.PCs)
	assert.Equal(t, []string{"Foo"}, room.SittingPCs)

	p.Parse("<component id='room objs'>You also see a bucket.</component>")
	room = p.Session().Snapshot().Room
	assert.Empty(t, room.NPCs)
	assert.Empty(t, room.DeadNPCs)
	assert.Equal(t, []string{"bucket"}, room.Objects)

	feed(p, "<component id='room objs'></component>", "<component id='room players'></component>")
	room = p.Session().Snapshot().Room
	assert.Empty(t, room.NPCs)
	assert.Empty(t, room.Objects)
	assert.Empty(t, room.PCs)
}

func TestParse_GroupMembers(t *testing.T) {
	p, _, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		`<pushStream id="group"/>  Foo: is your group leader.`,
		`<pushStream id="group"/>  Bar: is following you.`,
	)
	assert.Equal(t, []string{"Foo", "Bar"}, p.Session().Snapshot().Room.Group)
	p.Parse("You are not currently in a group.")
	assert.Empty(t, p.Session().Snapshot().Room.Group)
}

func TestParse_ExpColumns(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	p.Parse("          Evasion:  290 34% dabbling           Athletics:  100 05% very focused (21/34)")
	require.Zero(t, logs.Len())

	snap := p.Session().Snapshot()
	require.Len(t, snap.Skills, 2)
	ev, _ := snap.Skill("Evasion")
	assert.Equal(t, 290, ev.Rank)
	assert.Equal(t, 34, ev.Percent)
	assert.Equal(t, 1, ev.Mindstate)
	ath, _ := snap.Skill("Athletics")
	assert.Equal(t, 5, ath.Percent)
	assert.Equal(t, 21, ath.Mindstate)
}

func TestParse_ExpColumnsArcanaAndInstinct(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		"Arcana:  120 10% clear   Evasion:  290 34% dabbling",
		"Instinct:   50 05% clear",
	)
	require.Zero(t, logs.Len())

	snap := p.Session().Snapshot()
	for _, name := range []string{"Arcana", "Evasion", "Instinct"} {
		_, ok := snap.Skill(name)
		assert.True(t, ok, name)
	}
	arc, _ := snap.Skill("Arcana")
	assert.Equal(t, 120, arc.Rank)
}

func TestParse_ExpColumnsBadColumnKeepsTheRest(t *testing.T) {
	p, logs, notices := newObservedParser(t, session.Options{}, KeepArmed)
	p.Parse("Evasion:  290 34% bogus   Athletics:  100 05% clear   Basket Weaving:  3 00% clear")

	assert.Equal(t, 1, logs.Len(), "the line is still reported once")
	assert.Len(t, *notices, 1)
	snap := p.Session().Snapshot()
	_, ok := snap.Skill("Evasion")
	assert.False(t, ok)
	ath, ok := snap.Skill("Athletics")
	require.True(t, ok)
	assert.Equal(t, 100, ath.Rank)
	bw, ok := snap.Skill("Basket Weaving")
	require.True(t, ok, "skills outside the tables are still tracked")
	assert.Empty(t, bw.Skillset)
}

func TestParse_BriefExpAndGains(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{EchoGains: true}, KeepArmed)
	feed(p,
		"<component id='exp Evasion'><preset id='whisper'>Evasion:  290 34% [ 5/34]</preset></component>",
		"<component id='exp Evasion'><preset id='whisper'>Evasion:  290 40% [ 8/34]</preset></component>",
		"<component id='exp Stealth'><preset id='whisper'>       Stealth:  12 00% perusing</preset></component>",
	)
	require.Zero(t, logs.Len())

	snap := p.Session().Snapshot()
	require.Len(t, snap.Gains, 1)
	assert.Equal(t, "Evasion", snap.Gains[0].Skill)
	assert.Equal(t, 3, snap.Gains[0].Delta)
	st, _ := snap.Skill("Stealth")
	assert.Equal(t, 2, st.Mindstate)

	p.Parse("<component id='exp Evasion'></component>")
	ev, _ := p.Session().Snapshot().Skill("Evasion")
	assert.Equal(t, 0, ev.Mindstate)
}

func TestParse_GuildAliasOnExp(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		"Name: Foo   Race: Human   Guild: Cleric",
		"  Primary Magic:  100 10% clear",
	)
	require.Zero(t, logs.Len())
	_, ok := p.Session().Snapshot().Skill("Holy Magic")
	assert.True(t, ok)
}

func TestParse_ExpModifiers(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		"+2 Evasion",
		"The following skills are currently under the influence of a modifier:",
		`<preset id="speech">+10</preset> Evasion`,
		"-5 Stealth",
		`<output class=""/>`,
		"+3 Athletics",
	)
	require.Zero(t, logs.Len())
	assert.Equal(t, map[string]int{"Evasion": 10, "Stealth": -5}, p.Session().Snapshot().Modifiers)
	assert.False(t, p.expMods)

	feed(p, "The following skills are currently under the influence of a modifier:", `<output class=""/>`)
	assert.Empty(t, p.Session().Snapshot().Modifiers)
}

func TestParse_KnownSpellsNonColumn(t *testing.T) {
	p, logs, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		`In the chapter entitled "Early", you have notes on the Stale [st] spell.`,
		"You recall the spells you have learned from your training.",
		`In the chapter entitled "Healing", you have notes on the Heal Wounds [hw], Heal Scars [hs] and Vitality Healing [vh] spells.`,
		"You have temporarily memorized the Shadows [shadows] spell.",
		"From your apprenticeship you remember practicing with the Gauge Flow spell.",
		"You recall proficiency with the magic feats of Raw Channeling, Magic Theory and Augmentation Mastery.",
		"You can use SPELL STANCE [HELP] to view or adjust your casting style.",
		`In the chapter entitled "Late", you have notes on the Ignored [ig] spell.`,
	)
	require.Zero(t, logs.Len())

	snap := p.Session().Snapshot()
	assert.Equal(t, []string{"Gauge Flow", "Heal Scars", "Heal Wounds", "Shadows", "Vitality Healing"}, snap.Spells)
	assert.Equal(t, []string{"Augmentation Mastery", "Magic Theory", "Raw Channeling"}, snap.Feats)
	require.NoError(t, p.Session().Update(func(e *session.Entities) error {
		assert.False(t, e.Abilities.Capturing(ability.CaptureSpells))
		return nil
	}))
}

func TestParse_KnownSpellsRequestStartsEmpty(t *testing.T) {
	p, _, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		"You recall the spells you have learned from your training.",
		"You have temporarily memorized the Stale spell.",
		"You have 3 spell slots available.",
		"You recall the spells you have learned from your training.",
		"You have temporarily memorized the Fresh spell.",
	)
	assert.Equal(t, []string{"Fresh"}, p.Session().Snapshot().Spells)
}

func TestParse_KnownSpellsColumn(t *testing.T) {
	p, _, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		"You will now see column-formatted output for the SPELLS verb.",
		fmt.Sprintf("%-10s%-32s%s", "hw", "Heal Wounds", "Slot(s): 1  Min Prep: 1  Max Prep: 50"),
		fmt.Sprintf("%-10s%-32s%s", "vh", "Vitality Healing", "Slot(s): 2  Min Prep: 5  Max Prep: 100"),
		"You really shouldn't be loitering here.",
		fmt.Sprintf("%-10s%-32s%s", "hs", "Heal Scars", "Slot(s): 1  Min Prep: 1  Max Prep: 50"),
	)
	snap := p.Session().Snapshot()
	assert.Equal(t, "column", snap.Layout)
	assert.Equal(t, []string{"Heal Wounds", "Vitality Healing"}, snap.Spells)
}

func TestParse_BarbarianAbilities(t *testing.T) {
	p, _, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		"You know the Berserks: Avalanche, Famine, Flashflood.",
		"You know the Forms: Bear, Eagle.",
		"You know the Masteries: Juggernaut, Powerhouse.",
		"You have 3 training sessions remaining.",
	)
	snap := p.Session().Snapshot()
	assert.Equal(t, []string{"Avalanche", "Bear", "Eagle", "Famine", "Flashflood"}, snap.Spells)
	assert.Equal(t, []string{"Juggernaut", "Powerhouse"}, snap.Feats)
}

func TestParse_BarbarianRestartClears(t *testing.T) {
	p, _, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		"You know the Berserks: Avalanche.",
		"You have 3 training sessions remaining.",
		"You know the Forms: Bear.",
		"You have 3 training sessions remaining.",
	)
	assert.Equal(t, []string{"Bear"}, p.Session().Snapshot().Spells)
}

func TestParse_ThiefKhri(t *testing.T) {
	p, _, _ := newObservedParser(t, session.Options{}, KeepArmed)
	feed(p,
		"From the Subtlety tree, you know the following khri: Darken (Aug), Dampen (Aug), Silence (Aug)",
		"From the Finesse tree, you know the following khri: Hasten (Aug)",
		"You have 2 available slots.",
	)
	assert.Equal(t, []string{"Dampen", "Darken", "Hasten", "Silence"}, p.Session().Snapshot().Spells)
}

func TestParse_ListingWindowIsolation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[A-Z][a-z]{3,9}`), 0, 10, func(s string) string { return s }).Draw(t, "names")
		p := New(session.New(session.Options{}), Options{})

		p.Parse("You have temporarily memorized the Early spell.")
		p.Parse("You recall the spells you have learned from your training.")
		for _, n := range names {
			p.Parse(fmt.Sprintf("You have temporarily memorized the %s spell.", n))
		}
		p.Parse("You can use SPELL STANCE [HELP] to view or adjust your casting style.")

		snap := p.Session().Snapshot()
		if len(snap.Spells) != len(names) {
			t.Fatalf("captured %d spells, want %d: %v", len(snap.Spells), len(names), snap.Spells)
		}
		_ = p.Session().Update(func(e *session.Entities) error {
			if e.Abilities.Capturing(ability.CaptureSpells) {
				t.Fatalf("capture still armed after end line")
			}
			return nil
		})
	})
}

func TestParse_CapturePolicy(t *testing.T) {
	for _, tc := range []struct {
		policy    CapturePolicy
		wantArmed bool
	}{
		{KeepArmed, true},
		{ResetOnError, false},
	} {
		t.Run(tc.policy.String(), func(t *testing.T) {
			p, logs, _ := newObservedParser(t, session.Options{}, tc.policy)
			feed(p,
				"You recall the spells you have learned from your training.",
				"The following skills are currently under the influence of a modifier:",
				"You are wildly balanced.",
			)
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tc.wantArmed, p.expMods)
			require.NoError(t, p.Session().Update(func(e *session.Entities) error {
				assert.Equal(t, tc.wantArmed, e.Abilities.Capturing(ability.CaptureSpells))
				return nil
			}))
		})
	}
}

func TestParseCapturePolicy(t *testing.T) {
	got, err := ParseCapturePolicy("reset_on_error")
	require.NoError(t, err)
	assert.Equal(t, ResetOnError, got)
	got, err = ParseCapturePolicy("")
	require.NoError(t, err)
	assert.Equal(t, KeepArmed, got)
	_, err = ParseCapturePolicy("sometimes")
	assert.Error(t, err)
}

func TestParse_NotifierFailureIsIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := New(session.New(session.Options{}), Options{
		Logger:   zap.New(core),
		Notifier: NotifierFunc(func(string) error { return errors.New("closed") }),
	})
	p.Parse("You are wildly balanced.")
	assert.Equal(t, 1, logs.Len())
}

func TestPropertyParse_NeverAltersLine(t *testing.T) {
	p := New(session.New(session.Options{}), Options{})
	rapid.Check(t, func(t *rapid.T) {
		line := rapid.String().Draw(t, "line")
		if got := p.Parse(line); got != line {
			t.Fatalf("Parse(%q) = %q", line, got)
		}
	})
}
