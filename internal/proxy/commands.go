package proxy

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudproxy/internal/command"
	"github.com/cory-johannsen/mudproxy/internal/game/session"
	"github.com/cory-johannsen/mudproxy/internal/settings"
)

// commands resolves local command names; it is read-only after init.
var commands = command.DefaultRegistry()

// command runs a local proxy command and writes its output to the player.
// Local commands are never forwarded to the game.
func (b *Bridge) command(ctx context.Context, sess *session.Session, front *Conn, input string) {
	out, err := b.runCommand(ctx, sess, input)
	if err != nil {
		_ = front.WriteLine(errorLine(err.Error()))
		return
	}
	for _, line := range out {
		_ = front.WriteLine(noticeLine(line))
	}
}

func (b *Bridge) runCommand(ctx context.Context, sess *session.Session, input string) ([]string, error) {
	in := command.Parse(input)
	if in.Command == "" {
		return commands.HelpLines(b.cfg.Proxy.CommandPrefix), nil
	}
	cmd, ok := commands.Resolve(in.Command)
	if !ok {
		return nil, fmt.Errorf("unknown command %q, try %shelp", in.Command, b.cfg.Proxy.CommandPrefix)
	}
	switch cmd.Handler {
	case command.HandlerEcho:
		return b.echo(ctx, sess, in.Args)
	case command.HandlerReset:
		return reset(sess, in.Args)
	case command.HandlerFlags:
		return flagLines(sess), nil
	case command.HandlerGains:
		return gainLines(sess), nil
	case command.HandlerStatus:
		return statusLines(sess), nil
	case command.HandlerHelp:
		return commands.HelpLines(b.cfg.Proxy.CommandPrefix), nil
	}
	return nil, fmt.Errorf("command %q has no handler", cmd.Name)
}

func reset(sess *session.Session, args []string) ([]string, error) {
	if len(args) == 1 {
		switch args[0] {
		case "skills":
			sess.ResetSkills()
			return []string{"skill baselines reset"}, nil
		case "character":
			sess.ResetCharacter()
			return []string{"character state cleared"}, nil
		}
	}
	return nil, fmt.Errorf("usage: reset skills|character")
}

func flagLines(sess *session.Session) []string {
	values := sess.Flags().Values()
	if len(values) == 0 {
		return []string{"no flags registered"}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s = %t", k, values[k]))
	}
	return out
}

func gainLines(sess *session.Session) []string {
	st := sess.Snapshot()
	if len(st.Gains) == 0 {
		return []string{"no gains recorded"}
	}
	out := make([]string, 0, len(st.Gains))
	for _, g := range st.Gains {
		out = append(out, fmt.Sprintf("%s +%d (mindstate %d)", g.Skill, g.Delta, g.Mindstate))
	}
	return out
}

func statusLines(sess *session.Session) []string {
	st := sess.Snapshot()
	name := st.Character.Name
	if name == "" {
		name = "unknown"
	}
	return []string{
		"session " + st.ID,
		fmt.Sprintf("character %s, %s circle %d", name, st.Character.Guild, st.Character.Circle),
		fmt.Sprintf("%d skills tracked, %d gains, echo %s", len(st.Skills), len(st.Gains), onOff(sess.EchoGains())),
		fmt.Sprintf("%d spells, %d feats known", len(st.Spells), len(st.Feats)),
	}
}

func (b *Bridge) echo(ctx context.Context, sess *session.Session, args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{"echo is " + onOff(sess.EchoGains())}, nil
	}
	var on bool
	switch args[0] {
	case "on":
		on = true
	case "off":
	default:
		return nil, fmt.Errorf("usage: echo on|off")
	}
	sess.SetEchoGains(on)
	if err := settings.SetBool(ctx, b.store, b.cfg.Proxy.Profile, settings.KeyEchoExp, on); err != nil {
		b.logger.Error("saving echo preference", zap.Error(err))
		return nil, fmt.Errorf("echo is %s for this session but could not be saved", onOff(on))
	}
	return []string{"echo is " + onOff(on)}, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
