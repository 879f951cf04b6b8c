package parser

import "fmt"

// Classification is the top-level kind of a recognized line. Values are in
// dispatch order: the first classification whose pattern matches wins.
type Classification int

const (
	NameRaceGuild Classification = iota
	GenderAgeCircle
	StatValue
	ConcentrationValue
	Favors
	TDPs
	Luck
	Encumbrance
	Balance
	AccountName
	LastLogoff
	RestedExp
	RoomPlayersEmpty
	RoomPlayers
	RoomObjsEmpty
	RoomObjs
	GroupMembersEmpty
	GroupMember
	ExpClearMindstate
	BriefExpOn
	BriefExpOff
	ExpColumns
	ExpModsStart
	SpellbookFormat
	KnownSpellsStart
	BarbarianAbilitiesStart
	ThiefKhriStart
	numClassifications
)

var classificationNames = [numClassifications]string{
	"NameRaceGuild",
	"GenderAgeCircle",
	"StatValue",
	"Concentration",
	"Favors",
	"TDPs",
	"Luck",
	"Encumbrance",
	"Balance",
	"AccountName",
	"LastLogoff",
	"RestedExp",
	"RoomPlayersEmpty",
	"RoomPlayers",
	"RoomObjsEmpty",
	"RoomObjs",
	"GroupMembersEmpty",
	"GroupMember",
	"ExpClearMindstate",
	"BriefExpOn",
	"BriefExpOff",
	"ExpColumns",
	"ExpModsStart",
	"SpellbookFormat",
	"KnownSpellsStart",
	"BarbarianAbilitiesStart",
	"ThiefKhriStart",
}

func (c Classification) String() string {
	if c < 0 || c >= numClassifications {
		return fmt.Sprintf("Classification(%d)", int(c))
	}
	return classificationNames[c]
}
