package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mudproxy/internal/game/text"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mdanger\033[0m", Colorize(Red, "danger"))
}

func TestColorf(t *testing.T) {
	assert.Equal(t, "\033[32mgains: 42\033[0m", Colorf(Green, "gains: %d", 42))
}

func TestNoticeLines(t *testing.T) {
	assert.Equal(t, "[mudproxy] echo is on", text.StripANSI(noticeLine("echo is on")))
	assert.Equal(t, "[mudproxy] bad", text.StripANSI(errorLine("bad")))
	assert.NotEqual(t, noticeLine("x"), errorLine("x"))
}

func TestPropertyNoticeLine_StripsToPlainMessage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		msg := rapid.StringMatching(`[a-zA-Z0-9 .,:!]{0,60}`).Draw(t, "msg")
		assert.Equal(t, "[mudproxy] "+msg, text.StripANSI(noticeLine(msg)))
	})
}
