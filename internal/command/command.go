// Package command resolves the proxy's local commands, typed after the
// command prefix, by name or alias.
package command

import "strings"

// Handler identifiers for the built-in commands.
const (
	HandlerEcho   = "echo"
	HandlerReset  = "reset"
	HandlerFlags  = "flags"
	HandlerGains  = "gains"
	HandlerStatus = "status"
	HandlerHelp   = "help"
)

// Categories for grouping help output.
const (
	CategorySession = "session"
	CategoryState   = "state"
	CategorySystem  = "system"
)

// Command defines a local proxy command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the arguments, without the name.
	Usage string
	// Help is the one-line description shown by help.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler selects the implementation.
	Handler string
}

// BuiltinCommands returns the commands every proxy session understands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "echo", Usage: "[on|off]", Help: "show or set skill gain recording", Category: CategorySession, Handler: HandlerEcho},
		{Name: "reset", Usage: "skills|character", Help: "rebaseline skills or forget the character", Category: CategorySession, Handler: HandlerReset},
		{Name: "flags", Aliases: []string{"fl"}, Help: "list condition flags", Category: CategoryState, Handler: HandlerFlags},
		{Name: "gains", Aliases: []string{"exp"}, Help: "list recorded skill gains", Category: CategoryState, Handler: HandlerGains},
		{Name: "status", Aliases: []string{"st"}, Help: "summarize the session", Category: CategoryState, Handler: HandlerStatus},
		{Name: "help", Aliases: []string{"?"}, Help: "show this list", Category: CategorySystem, Handler: HandlerHelp},
	}
}

// Input is a command line split into its command word and arguments.
type Input struct {
	// Command is the first word, lowercased.
	Command string
	// Args are the remaining words, lowercased.
	Args []string
}

// Parse splits line into a command word and arguments.
//
// Postcondition: an empty or blank line yields an empty Command.
func Parse(line string) Input {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Input{}
	}
	return Input{Command: fields[0], Args: fields[1:]}
}
