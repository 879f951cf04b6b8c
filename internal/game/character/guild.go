package character

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGuild is returned when a guild name is not one of the known guilds.
var ErrUnknownGuild = errors.New("unknown guild")

// Guild identifies a character's profession.
type Guild int

// Known guilds. GuildUnknown is the zero value, used until an INFO line
// reports the real guild.
const (
	GuildUnknown Guild = iota
	GuildBarbarian
	GuildBard
	GuildCleric
	GuildCommoner
	GuildEmpath
	GuildMoonMage
	GuildNecromancer
	GuildPaladin
	GuildRanger
	GuildThief
	GuildTrader
	GuildWarriorMage
)

var guildNames = [...]string{
	GuildUnknown:     "",
	GuildBarbarian:   "Barbarian",
	GuildBard:        "Bard",
	GuildCleric:      "Cleric",
	GuildCommoner:    "Commoner",
	GuildEmpath:      "Empath",
	GuildMoonMage:    "Moon Mage",
	GuildNecromancer: "Necromancer",
	GuildPaladin:     "Paladin",
	GuildRanger:      "Ranger",
	GuildThief:       "Thief",
	GuildTrader:      "Trader",
	GuildWarriorMage: "Warrior Mage",
}

// Mana types a guild draws on.
const (
	ManaNone      = ""
	ManaArcane    = "arcane"
	ManaElemental = "elemental"
	ManaHoly      = "holy"
	ManaLife      = "life"
	ManaLunar     = "lunar"
)

var guildMana = map[Guild]string{
	GuildBard:        ManaElemental,
	GuildCleric:      ManaHoly,
	GuildEmpath:      ManaLife,
	GuildMoonMage:    ManaLunar,
	GuildNecromancer: ManaArcane,
	GuildPaladin:     ManaHoly,
	GuildRanger:      ManaLife,
	GuildTrader:      ManaLunar,
	GuildWarriorMage: ManaElemental,
}

// ParseGuild resolves a guild name as the game prints it, ignoring case and
// surrounding whitespace.
//
// Postcondition: Returns a known Guild other than GuildUnknown, or ErrUnknownGuild.
func ParseGuild(name string) (Guild, error) {
	key := strings.TrimSpace(name)
	for g, n := range guildNames {
		if n != "" && strings.EqualFold(n, key) {
			return Guild(g), nil
		}
	}
	return GuildUnknown, fmt.Errorf("%w: %q", ErrUnknownGuild, name)
}

// String returns the display name of the guild; GuildUnknown renders empty.
func (g Guild) String() string {
	if g < 0 || int(g) >= len(guildNames) {
		return fmt.Sprintf("Guild(%d)", int(g))
	}
	return guildNames[g]
}

// ManaType returns the native mana type of the guild, or ManaNone for
// guilds that do not cast from a mana pool.
func (g Guild) ManaType() string {
	return guildMana[g]
}

// Guilds returns every known guild in declaration order, excluding GuildUnknown.
func Guilds() []Guild {
	out := make([]Guild, 0, len(guildNames)-1)
	for g := GuildBarbarian; int(g) < len(guildNames); g++ {
		out = append(out, g)
	}
	return out
}

// MarshalText renders the guild by name in YAML and JSON output.
func (g Guild) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText accepts a guild name; empty text yields GuildUnknown.
func (g *Guild) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*g = GuildUnknown
		return nil
	}
	parsed, err := ParseGuild(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
