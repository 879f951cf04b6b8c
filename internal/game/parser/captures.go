package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cory-johannsen/mudproxy/internal/game/ability"
	"github.com/cory-johannsen/mudproxy/internal/game/session"
	"github.com/cory-johannsen/mudproxy/internal/game/text"
)

// Column spellbook lines carry the spell name in a fixed-width field.
const (
	columnNameStart = 10
	columnNameEnd   = 42
)

// runCaptures feeds line to every open listing window. A window that sees
// its end line closes and extracts nothing from it.
func (p *Parser) runCaptures(e *session.Entities, line string) error {
	if p.expMods {
		if err := p.captureExpMods(e, line); err != nil {
			return err
		}
	}
	if e.Abilities.Capturing(ability.CaptureSpells) {
		captureSpells(e.Abilities, line)
	}
	if e.Abilities.Capturing(ability.CaptureBarbarian) {
		captureBarbarian(e.Abilities, line)
	}
	if e.Abilities.Capturing(ability.CaptureKhri) {
		captureKhri(e.Abilities, line)
	}
	return nil
}

func (p *Parser) captureExpMods(e *session.Entities, line string) error {
	if reExpModsEnd.MatchString(line) {
		p.expMods = false
		return nil
	}
	m := reExpModifier.FindStringSubmatch(text.Clean(line))
	if m == nil {
		return nil
	}
	v, err := atoi(reExpModifier, m, "value")
	if err != nil {
		return err
	}
	if group(reExpModifier, m, "sign") == "-" {
		v = -v
	}
	skill := group(reExpModifier, m, "skill")
	if _, ok := e.Skills.Tables().SkillsetOf(e.Skills.Resolve(skill)); !ok {
		return fmt.Errorf("modifier for unknown skill %q", skill)
	}
	e.Skills.SetModifier(skill, v)
	return nil
}

func captureSpells(k *ability.Knowledge, line string) {
	plain := text.StripMarkup(line)
	if reSpellsEnd.MatchString(plain) {
		k.Stop(ability.CaptureSpells)
		return
	}
	if m := reFeats.FindStringSubmatch(plain); m != nil {
		for _, f := range splitList(group(reFeats, m, "list")) {
			k.AddFeat(f)
		}
		return
	}
	if k.Layout() == ability.LayoutColumn {
		if reColumnSpell.MatchString(plain) {
			k.AddSpell(columnSpellName(plain))
		}
		return
	}
	for _, re := range []*regexp.Regexp{reChapterSpells, reMemorized, reApprentice} {
		if m := re.FindStringSubmatch(plain); m != nil {
			for _, s := range splitList(group(re, m, "list")) {
				k.AddSpell(s)
			}
			return
		}
	}
}

func columnSpellName(line string) string {
	if len(line) <= columnNameStart {
		return ""
	}
	end := columnNameEnd
	if len(line) < end {
		end = len(line)
	}
	name := line[columnNameStart:end]
	if idx := strings.Index(name, "Slot(s):"); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

// splitList splits a sentence list on commas and "and", dropping bracketed
// abbreviations.
func splitList(list string) []string {
	list = reBracketed.ReplaceAllString(list, "")
	var out []string
	for _, part := range reListSplit.Split(list, -1) {
		part = strings.TrimSpace(strings.TrimRight(part, ". "))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitCommas(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(part), "."))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func captureBarbarian(k *ability.Knowledge, line string) {
	plain := text.StripMarkup(line)
	if reBarbarianEnd.MatchString(plain) {
		k.Stop(ability.CaptureBarbarian)
		return
	}
	m := reBarbarianList.FindStringSubmatch(plain)
	if m == nil {
		return
	}
	add := k.AddSpell
	if group(reBarbarianList, m, "kind") == "Masteries" {
		add = k.AddFeat
	}
	for _, name := range splitCommas(group(reBarbarianList, m, "list")) {
		add(name)
	}
}

func captureKhri(k *ability.Knowledge, line string) {
	plain := text.StripMarkup(line)
	if reKhriEnd.MatchString(plain) {
		k.Stop(ability.CaptureKhri)
		return
	}
	m := reKhriList.FindStringSubmatch(plain)
	if m == nil {
		return
	}
	list := reParenthetical.ReplaceAllString(group(reKhriList, m, "list"), "")
	for _, name := range splitCommas(list) {
		k.AddSpell(name)
	}
}
