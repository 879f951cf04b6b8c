// Package parser classifies game output lines and routes the extracted
// fields into the session state.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudproxy/internal/game/session"
)

type handler func(p *Parser, e *session.Entities, m []string, line string) error

type rule struct {
	class   Classification
	pattern *regexp.Regexp
	handle  handler
}

// dispatchTable is evaluated top to bottom; the first matching rule wins.
var dispatchTable = []rule{
	{NameRaceGuild, reNameRaceGuild, handleNameRaceGuild},
	{GenderAgeCircle, reGenderAgeCircle, handleGenderAgeCircle},
	{StatValue, reStatValue, handleStatValue},
	{ConcentrationValue, reConcentration, handleConcentration},
	{Favors, reFavors, handleFavors},
	{TDPs, reTDPs, handleTDPs},
	{Luck, reLuck, handleLuck},
	{Encumbrance, reEncumbrance, handleEncumbrance},
	{Balance, reBalance, handleBalance},
	{AccountName, reAccountName, handleAccountName},
	{LastLogoff, reLastLogoff, handleLastLogoff},
	{RestedExp, reRestedExp, handleRestedExp},
	{RoomPlayersEmpty, reRoomPlayersEmpty, handleRoomPlayersEmpty},
	{RoomPlayers, reRoomPlayers, handleRoomPlayers},
	{RoomObjsEmpty, reRoomObjsEmpty, handleRoomObjsEmpty},
	{RoomObjs, reRoomObjs, handleRoomObjs},
	{GroupMembersEmpty, reGroupMembersEmpty, handleGroupMembersEmpty},
	{GroupMember, reGroupMember, handleGroupMember},
	{ExpClearMindstate, reExpClearMindstate, handleExpClearMindstate},
	{BriefExpOn, reBriefExpOn, handleBriefExpOn},
	{BriefExpOff, reBriefExpOff, handleBriefExpOff},
	{ExpColumns, reExpColumns, handleExpColumns},
	{ExpModsStart, reExpModsStart, handleExpModsStart},
	{SpellbookFormat, reSpellbookFormat, handleSpellbookFormat},
	{KnownSpellsStart, reKnownSpellsStart, handleKnownSpellsStart},
	{BarbarianAbilitiesStart, reBarbarianStart, handleBarbarianStart},
	{ThiefKhriStart, reThiefKhriStart, handleThiefKhriStart},
}

// Options configures a Parser.
type Options struct {
	Logger   *zap.Logger
	Notifier Notifier
	Policy   CapturePolicy
}

// Parser feeds game lines into a Session.
//
// Parse must be called from a single goroutine, in stream order.
type Parser struct {
	session  *session.Session
	logger   *zap.Logger
	notifier Notifier
	policy   CapturePolicy

	// expMods is true while the experience-modifier listing is open.
	expMods bool
}

// New creates a Parser that updates sess.
//
// Precondition: sess must not be nil.
func New(sess *session.Session, opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}
	return &Parser{
		session:  sess,
		logger:   opts.Logger,
		notifier: opts.Notifier,
		policy:   opts.Policy,
	}
}

// Session returns the session the parser updates.
func (p *Parser) Session() *session.Session { return p.session }

// Classify returns the classification of line, if any.
func Classify(line string) (Classification, bool) {
	for _, r := range dispatchTable {
		if r.pattern.MatchString(line) {
			return r.class, true
		}
	}
	return 0, false
}

// Parse observes one line and returns it unchanged. Flags are evaluated, the
// first matching dispatch rule runs, then every armed listing window sees the
// line. A failure anywhere after flag evaluation abandons the rest of the
// line, is logged once and reported to the notifier; it never stops the
// stream.
func (p *Parser) Parse(line string) string {
	p.session.Flags().Evaluate(line)

	err := p.session.Update(func(e *session.Entities) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &panicError{value: r, stack: debug.Stack()}
			}
		}()
		if err := p.dispatch(e, line); err != nil {
			return err
		}
		return p.runCaptures(e, line)
	})
	if err != nil && !errors.Is(err, session.ErrClosed) {
		p.fail(line, err)
	}
	return line
}

func (p *Parser) dispatch(e *session.Entities, line string) error {
	for _, r := range dispatchTable {
		m := r.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if err := r.handle(p, e, m, line); err != nil {
			return fmt.Errorf("%s: %w", r.class, err)
		}
		return nil
	}
	return nil
}

func (p *Parser) fail(line string, err error) {
	fields := []zap.Field{zap.String("line", line), zap.Error(err)}
	var pe *panicError
	if errors.As(err, &pe) {
		fields = append(fields, zap.ByteString("stacktrace", pe.stack))
	} else {
		fields = append(fields, zap.Stack("stacktrace"))
	}
	p.logger.Error("failed to parse game line", fields...)

	_ = p.notifier.Notify(fmt.Sprintf("mudproxy could not parse a game line: %v", err))

	if p.policy == ResetOnError {
		p.expMods = false
		_ = p.session.Update(func(e *session.Entities) error {
			e.Abilities.StopAll()
			return nil
		})
	}
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
