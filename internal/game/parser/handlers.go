package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cory-johannsen/mudproxy/internal/game/ability"
	"github.com/cory-johannsen/mudproxy/internal/game/character"
	"github.com/cory-johannsen/mudproxy/internal/game/session"
)

func atoi(re *regexp.Regexp, m []string, name string) (int, error) {
	raw := strings.ReplaceAll(group(re, m, name), ",", "")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", name, raw, err)
	}
	return n, nil
}

func handleNameRaceGuild(_ *Parser, e *session.Entities, m []string, _ string) error {
	g, err := character.ParseGuild(group(reNameRaceGuild, m, "guild"))
	if err != nil {
		return err
	}
	e.Character.Name = group(reNameRaceGuild, m, "name")
	e.Character.Race = group(reNameRaceGuild, m, "race")
	e.Character.Guild = g
	e.Skills.SetGuild(g)
	return nil
}

func handleGenderAgeCircle(_ *Parser, e *session.Entities, m []string, _ string) error {
	age, err := atoi(reGenderAgeCircle, m, "age")
	if err != nil {
		return err
	}
	circle, err := atoi(reGenderAgeCircle, m, "circle")
	if err != nil {
		return err
	}
	e.Character.Gender = group(reGenderAgeCircle, m, "gender")
	e.Character.Age = age
	e.Character.Circle = circle
	return nil
}

func handleStatValue(_ *Parser, e *session.Entities, _ []string, line string) error {
	for _, pair := range reStatPair.FindAllStringSubmatch(line, -1) {
		stat, err := character.ParseStat(pair[1])
		if err != nil {
			return err
		}
		v, err := strconv.Atoi(pair[2])
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", stat, pair[2], err)
		}
		e.Character.Abilities[stat] = v
	}
	return nil
}

func handleConcentration(_ *Parser, e *session.Entities, m []string, _ string) error {
	v, err := atoi(reConcentration, m, "value")
	if err != nil {
		return err
	}
	maxConc, err := atoi(reConcentration, m, "max")
	if err != nil {
		return err
	}
	e.Character.Abilities[character.Concentration] = v
	e.Character.MaxConcentration = maxConc
	return nil
}

func handleFavors(_ *Parser, e *session.Entities, m []string, _ string) error {
	v, err := atoi(reFavors, m, "favors")
	if err != nil {
		return err
	}
	e.Character.Favors = v
	return nil
}

func handleTDPs(_ *Parser, e *session.Entities, m []string, _ string) error {
	name := "info"
	if group(reTDPs, m, name) == "" {
		name = "count"
	}
	v, err := atoi(reTDPs, m, name)
	if err != nil {
		return err
	}
	e.Character.TDPs = v
	return nil
}

func handleLuck(_ *Parser, e *session.Entities, m []string, _ string) error {
	v, err := atoi(reLuck, m, "luck")
	if err != nil {
		return err
	}
	e.Character.Luck = v
	return nil
}

func handleEncumbrance(_ *Parser, e *session.Entities, m []string, _ string) error {
	e.Character.Encumbrance = group(reEncumbrance, m, "encumbrance")
	return nil
}

func handleBalance(_ *Parser, e *session.Entities, m []string, _ string) error {
	return e.Character.SetBalance(group(reBalance, m, "balance"))
}

func handleAccountName(_ *Parser, e *session.Entities, m []string, _ string) error {
	e.Character.Account = strings.TrimSpace(group(reAccountName, m, "account"))
	return nil
}

func handleLastLogoff(_ *Parser, e *session.Entities, m []string, _ string) error {
	t, err := parseLogoff(reLastLogoff, m)
	if err != nil {
		return err
	}
	e.Character.LastLogoff = t
	return nil
}

var (
	reHoursMinutes = regexp.MustCompile(`^(\d+):(\d{2}) hours?$`)
	reHours        = regexp.MustCompile(`^(\d+) hours?$`)
	reMinutes      = regexp.MustCompile(`^(\d+) minutes?$`)
)

// parseRestedDuration converts a rested-experience timer such as "4:59 hours",
// "38 minutes" or "none" to a duration.
func parseRestedDuration(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "none", "less than a minute":
		return 0, nil
	}
	if m := reHoursMinutes.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return time.Duration(h)*time.Hour + time.Duration(mins)*time.Minute, nil
	}
	if m := reHours.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		return time.Duration(h) * time.Hour, nil
	}
	if m := reMinutes.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		return time.Duration(mins) * time.Minute, nil
	}
	return 0, fmt.Errorf("unrecognized rested exp duration %q", s)
}

func handleRestedExp(_ *Parser, e *session.Entities, m []string, _ string) error {
	var out [3]time.Duration
	for i, name := range []string{"stored", "usable", "refresh"} {
		d, err := parseRestedDuration(group(reRestedExp, m, name))
		if err != nil {
			return err
		}
		out[i] = d
	}
	e.Character.Rested = character.RestedExp{Stored: out[0], UsableThisCycle: out[1], CycleRefresh: out[2]}
	return nil
}

func handleRoomPlayersEmpty(_ *Parser, e *session.Entities, _ []string, _ string) error {
	e.Room.ClearPlayers()
	return nil
}

func handleRoomPlayers(_ *Parser, e *session.Entities, m []string, _ string) error {
	e.Room.SetPlayers(group(reRoomPlayers, m, "players"))
	return nil
}

func handleRoomObjsEmpty(_ *Parser, e *session.Entities, _ []string, _ string) error {
	e.Room.ClearObjects()
	return nil
}

func handleRoomObjs(_ *Parser, e *session.Entities, m []string, _ string) error {
	e.Room.SetObjects(group(reRoomObjs, m, "objs"))
	return nil
}

func handleGroupMembersEmpty(_ *Parser, e *session.Entities, _ []string, _ string) error {
	e.Room.ClearGroup()
	return nil
}

func handleGroupMember(_ *Parser, e *session.Entities, m []string, _ string) error {
	e.Room.AddGroupMember(group(reGroupMember, m, "member"))
	return nil
}

func handleExpClearMindstate(_ *Parser, e *session.Entities, m []string, _ string) error {
	e.Skills.ClearMindstate(group(reExpClearMindstate, m, "skill"))
	return nil
}

func updateSkill(e *session.Entities, re *regexp.Regexp, m []string, mindstate int) error {
	rank, err := atoi(re, m, "rank")
	if err != nil {
		return err
	}
	pct, err := atoi(re, m, "percent")
	if err != nil {
		return err
	}
	return e.Skills.Update(strings.TrimSpace(group(re, m, "skill")), rank, mindstate, pct)
}

func handleBriefExpOn(_ *Parser, e *session.Entities, m []string, _ string) error {
	ms, err := atoi(reBriefExpOn, m, "rate")
	if err != nil {
		return err
	}
	return updateSkill(e, reBriefExpOn, m, ms)
}

func handleBriefExpOff(_ *Parser, e *session.Entities, m []string, _ string) error {
	ms, err := e.Skills.Tables().LearningRate(group(reBriefExpOff, m, "rate"))
	if err != nil {
		return err
	}
	return updateSkill(e, reBriefExpOff, m, ms)
}

// handleExpColumns updates every skill on a columnar EXP line. A bad column
// does not stop the others; its error is reported after the line is done.
func handleExpColumns(_ *Parser, e *session.Entities, _ []string, line string) error {
	var errs []error
	for _, m := range reExpColumn.FindAllStringSubmatch(line, -1) {
		if err := updateColumn(e, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func updateColumn(e *session.Entities, m []string) error {
	var ms int
	var err error
	if group(reExpColumn, m, "num") != "" {
		ms, err = atoi(reExpColumn, m, "num")
	} else {
		ms, err = e.Skills.Tables().LearningRate(group(reExpColumn, m, "rate"))
	}
	if err != nil {
		return err
	}
	return updateSkill(e, reExpColumn, m, ms)
}

func handleExpModsStart(p *Parser, e *session.Entities, _ []string, _ string) error {
	if !p.expMods {
		e.Skills.ClearModifiers()
		p.expMods = true
	}
	return nil
}

func handleSpellbookFormat(_ *Parser, e *session.Entities, m []string, _ string) error {
	if group(reSpellbookFormat, m, "format") == "column" {
		e.Abilities.SetLayout(ability.LayoutColumn)
		e.Abilities.Restart(ability.CaptureSpells)
		return nil
	}
	e.Abilities.SetLayout(ability.LayoutNonColumn)
	return nil
}

func handleKnownSpellsStart(_ *Parser, e *session.Entities, _ []string, _ string) error {
	e.Abilities.Restart(ability.CaptureSpells)
	return nil
}

func handleBarbarianStart(_ *Parser, e *session.Entities, _ []string, _ string) error {
	e.Abilities.Start(ability.CaptureBarbarian)
	return nil
}

func handleThiefKhriStart(_ *Parser, e *session.Entities, _ []string, _ string) error {
	e.Abilities.Start(ability.CaptureKhri)
	return nil
}
