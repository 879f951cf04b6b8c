package parser

import "regexp"

// Dispatch patterns, one per Classification.
var (
	reNameRaceGuild     = regexp.MustCompile(`^Name:\s*(?P<name>.+?)\s+Race:\s*(?P<race>.+?)\s+Guild:\s*(?P<guild>.+?)\s*$`)
	reGenderAgeCircle   = regexp.MustCompile(`^Gender:\s*(?P<gender>\w+)\s+Age:\s*(?P<age>[\d,]+)\s+Circle:\s*(?P<circle>\d+)`)
	reStatValue         = regexp.MustCompile(`^\s*(?:Strength|Agility|Discipline|Intelligence|Reflex|Charisma|Wisdom|Stamina)\s*:\s*\d+`)
	reConcentration     = regexp.MustCompile(`^\s*Concentration\s*:\s*(?P<value>\d+)\s+Max\s*:\s*(?P<max>\d+)`)
	reFavors            = regexp.MustCompile(`^\s*Favors\s*:\s*(?P<favors>\d+)`)
	reTDPs              = regexp.MustCompile(`^\s*TDPs\s*:\s*(?P<info>\d+)|^You have (?P<count>\d+) TDPs\.`)
	reLuck              = regexp.MustCompile(`^\s*Luck\s*:\s*(?P<luck>-?\d+)`)
	reEncumbrance       = regexp.MustCompile(`^\s*Encumbrance\s*:\s*(?P<encumbrance>.+?)\s*$`)
	reBalance           = regexp.MustCompile(`^(?:You are|\[You're) (?P<balance>[a-z]+(?: [a-z]+)?) (?:im)?balanced?\b`)
	reAccountName       = regexp.MustCompile(`^Account Info for (?P<account>[^:]+):`)
	reLastLogoff        = regexp.MustCompile(`^\s*Logoff\s*:\s*(?P<weekday>\w{3}) (?P<month>\w{3})\s+(?P<day>\d{1,2}) (?P<hour>\d{2}):(?P<minute>\d{2}):(?P<second>\d{2}) ET (?P<year>\d{4})`)
	reRestedExp         = regexp.MustCompile(`Rested EXP Stored:\s*(?P<stored>.+?)\s+Usable This Cycle:\s*(?P<usable>.+?)\s+Cycle Refreshes:\s*(?P<refresh>.+?)\s*$`)
	reRoomPlayersEmpty  = regexp.MustCompile(`<component id='room players'></component>`)
	reRoomPlayers       = regexp.MustCompile(`<component id='room players'>(?P<players>.*?)</component>`)
	reRoomObjsEmpty     = regexp.MustCompile(`<component id='room objs'></component>`)
	reRoomObjs          = regexp.MustCompile(`<component id='room objs'>(?P<objs>.*?)</component>`)
	reGroupMembersEmpty = regexp.MustCompile(`^You are not currently in a group`)
	reGroupMember       = regexp.MustCompile(`<pushStream id="group"/>\s+(?P<member>\w+):`)
	reExpClearMindstate = regexp.MustCompile(`<component id='exp (?P<skill>[^']+)'></component>`)
	reBriefExpOn        = regexp.MustCompile(`<component id='exp (?P<skill>[^']+)'>.*?:\s+(?P<rank>\d+)\s+(?P<percent>\d+)%\s*\[\s*(?P<rate>\d+)/34\].*?</component>`)
	reBriefExpOff       = regexp.MustCompile(`<component id='exp (?P<skill>[^']+)'>.*?:\s+(?P<rank>\d+)\s+(?P<percent>\d+)%\s+(?P<rate>[a-zA-Z][a-zA-Z ]*?)\s*(?:<[^>]*>\s*)*</component>`)
	reExpColumns        = regexp.MustCompile(`^\s*[A-Za-z][A-Za-z ]*:\s+\d+\s+\d+%\s+[a-z]`)
	reExpModsStart      = regexp.MustCompile(`^The following skills are currently under the influence of a modifier`)
	reSpellbookFormat   = regexp.MustCompile(`^You will now (?:see|get) (?P<format>column|non-column)-formatted output for the SPELLS verb`)
	reKnownSpellsStart  = regexp.MustCompile(`^You recall the spells you have learned`)
	reBarbarianStart    = regexp.MustCompile(`^You know the (?:Berserks|Forms|Roars|Meditations|Masteries):`)
	reThiefKhriStart    = regexp.MustCompile(`^From the (?:Subtlety|Finesse|Potence) tree, you know the following khri:`)
)

// Multi-match and sub-parser body patterns.
var (
	reStatPair  = regexp.MustCompile(`(Strength|Agility|Discipline|Intelligence|Reflex|Charisma|Wisdom|Stamina)\s*:\s*(\d+)`)
	reExpColumn = regexp.MustCompile(`(?P<skill>[A-Za-z][A-Za-z ]*?):\s+(?P<rank>\d+)\s+(?P<percent>\d+)%\s+(?P<rate>[a-z]+(?: [a-z]+)?)(?:\s*\((?P<num>\d+)/34\))?`)

	reExpModsEnd  = regexp.MustCompile(`<output class=""/>`)
	reExpModifier = regexp.MustCompile(`^(?P<sign>[+-])(?P<value>\d+)\s+(?P<skill>[A-Za-z][A-Za-z ]*?)\s*$`)

	reColumnSpell   = regexp.MustCompile(`Slot\(s\):\s*\d+\s+Min Prep:\s*\d+\s+Max Prep:\s*\d+`)
	reChapterSpells = regexp.MustCompile(`^In the chapter entitled "[^"]*", you have notes on the (?P<list>.+?) spells?\.?\s*$`)
	reMemorized     = regexp.MustCompile(`^You have temporarily memorized the (?P<list>.+?) spells?\.?\s*$`)
	reApprentice    = regexp.MustCompile(`^From your apprenticeship you remember practicing with the (?P<list>.+?) spells?\.?\s*$`)
	reFeats         = regexp.MustCompile(`^You recall proficiency with the magic feats of (?P<list>.+?)\.?\s*$`)
	reSpellsEnd     = regexp.MustCompile(`^You (?:have no|do not have any) (?:formal )?(?:spell |magical )?training|^You (?:can't|cannot) learn any more magic feats|^You have no (?:more )?magic feat slots?|^You can use SPELL STANCE|^You really shouldn't be loitering`)
	reBracketed     = regexp.MustCompile(`\s*\[[^\]]*\]`)
	reListSplit     = regexp.MustCompile(`\s*,\s*(?:and\s+)?|\s+and\s+`)

	reBarbarianList = regexp.MustCompile(`^You know the (?P<kind>Berserks|Forms|Roars|Meditations|Masteries):\s*(?P<list>.*)$`)
	reBarbarianEnd  = regexp.MustCompile(`training sessions? remaining`)

	reKhriList      = regexp.MustCompile(`^From the (?:Subtlety|Finesse|Potence) tree, you know the following khri:\s*(?P<list>.*)$`)
	reKhriEnd       = regexp.MustCompile(`available slots?`)
	reParenthetical = regexp.MustCompile(`\s*\([^)]*\)`)
)

// group returns the named submatch of re in m, or "".
func group(re *regexp.Regexp, m []string, name string) string {
	idx := re.SubexpIndex(name)
	if idx < 0 || idx >= len(m) {
		return ""
	}
	return m[idx]
}
