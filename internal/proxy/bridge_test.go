package proxy

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/mudproxy/internal/command"
	"github.com/cory-johannsen/mudproxy/internal/config"
	"github.com/cory-johannsen/mudproxy/internal/game/session"
	"github.com/cory-johannsen/mudproxy/internal/scripting"
	"github.com/cory-johannsen/mudproxy/internal/settings"
	"github.com/cory-johannsen/mudproxy/internal/testutil"
)

const wait = 3 * time.Second

type harness struct {
	game     *testutil.FakeGame
	client   *testutil.TelnetClient
	sessions *session.Manager
	store    *settings.Memory
}

func bridgeConfig(host string, port int) config.Config {
	return config.Config{
		Game: config.GameConfig{
			Host:         host,
			Port:         port,
			DialTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		},
		Proxy: testProxyConfig(),
		Parser: config.ParserConfig{
			CapturePolicy: "keep_armed",
			NoticeBuffer:  8,
		},
		Content: config.ContentConfig{FlagsDir: filepath.Join("..", "..", "content", "flags")},
	}
}

type harnessOption func(cfg *config.Config, store *settings.Memory, scripts **scripting.Manager)

// startBridge runs the full proxy against a fake game and connects a client.
func startBridge(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	game := testutil.NewFakeGame(t)
	host, port := game.Addr()
	cfg := bridgeConfig(host, port)
	store := settings.NewMemory()
	var scripts *scripting.Manager
	for _, opt := range opts {
		opt(&cfg, store, &scripts)
	}

	sessions := session.NewManager()
	bridge, err := NewBridge(cfg, sessions, store, scripts, zaptest.NewLogger(t))
	require.NoError(t, err)
	acc := startAcceptor(t, cfg.Proxy, bridge)

	client := testutil.NewTelnetClient(t, acc.Addr())
	game.WaitConnected(wait)
	require.Eventually(t, func() bool { return sessions.Count() == 1 }, wait, 10*time.Millisecond)
	return &harness{game: game, client: client, sessions: sessions, store: store}
}

func TestBridge_RelaysAndParsesGameOutput(t *testing.T) {
	h := startBridge(t)

	h.game.Send("Name: Foo Barson   Race: Human   Guild: Ranger", "Gender: Male   Age: 1,042   Circle: 50")
	h.client.ReadUntil("Circle: 50", wait)

	h.client.Send(";status")
	out := h.client.ReadUntil("feats known", wait)
	assert.Contains(t, out, "character Foo Barson, Ranger circle 50")
}

func TestBridge_ForwardsPlayerCommands(t *testing.T) {
	h := startBridge(t)

	h.client.Send("look")
	assert.Equal(t, "look", h.game.Expect(wait))

	h.client.Send(";help")
	h.client.ReadUntil("show this list", wait)
	h.client.Send("north")
	assert.Equal(t, "north", h.game.Expect(wait), "local commands are not forwarded")
}

func TestBridge_PredefinedFlags(t *testing.T) {
	h := startBridge(t)

	h.game.Send("You are stunned!")
	h.client.ReadUntil("You are stunned!", wait)

	h.client.Send(";flags")
	out := h.client.ReadUntil("webbed = false", wait)
	assert.Contains(t, out, "stunned = true")
}

func TestBridge_ParseFailureBecomesNotice(t *testing.T) {
	h := startBridge(t)

	h.game.Send("Name: Foo   Race: Human   Guild: Juggler")
	out := h.client.ReadUntil("could not parse a game line", wait)
	assert.Contains(t, out, "Guild: Juggler", "the line still reaches the player")
}

func TestBridge_EchoPreferencePersists(t *testing.T) {
	h := startBridge(t)

	h.client.Send(";echo")
	h.client.ReadUntil("echo is off", wait)

	h.client.Send(";echo on")
	h.client.ReadUntil("echo is on", wait)

	echo, err := settings.Bool(context.Background(), h.store, "default", settings.KeyEchoExp, false)
	require.NoError(t, err)
	assert.True(t, echo)
}

func TestBridge_StoredEchoOverridesConfigDefault(t *testing.T) {
	h := startBridge(t, func(cfg *config.Config, store *settings.Memory, _ **scripting.Manager) {
		cfg.Parser.EchoGains = true
		require.NoError(t, settings.SetBool(context.Background(), store, "default", settings.KeyEchoExp, false))
	})

	h.client.Send(";echo")
	h.client.ReadUntil("echo is off", wait)
}

func TestBridge_UnknownCommand(t *testing.T) {
	h := startBridge(t)
	h.client.Send(";dance")
	h.client.ReadUntil(`unknown command "dance"`, wait)
}

func TestBridge_GameDisconnectEndsSession(t *testing.T) {
	h := startBridge(t)

	h.game.Disconnect()
	require.Eventually(t, func() bool { return h.sessions.Count() == 0 }, wait, 10*time.Millisecond)
}

func TestBridge_ClientDisconnectEndsSession(t *testing.T) {
	h := startBridge(t)

	h.client.Close()
	require.Eventually(t, func() bool { return h.sessions.Count() == 0 }, wait, 10*time.Millisecond)
}

func TestBridge_ScriptsGagLines(t *testing.T) {
	dir := t.TempDir()
	script := `
function on_line(line)
  if string.find(line, "secret") then
    return false
  end
  if string.find(line, "shout") then
    return string.upper(line)
  end
  return line
end
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gag.lua"), []byte(script), 0o644))

	h := startBridge(t, func(_ *config.Config, _ *settings.Memory, scripts **scripting.Manager) {
		*scripts = scripting.NewManager(dir, 0, zaptest.NewLogger(t))
	})

	h.game.Send("a secret line", "a shout", "visible line")
	out := h.client.ReadUntil("visible line", wait)
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "A SHOUT")
}

func TestBridge_DialFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg := bridgeConfig("127.0.0.1", port)
	sessions := session.NewManager()
	bridge, err := NewBridge(cfg, sessions, settings.NewMemory(), nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	acc := startAcceptor(t, cfg.Proxy, bridge)

	client := testutil.NewTelnetClient(t, acc.Addr())
	client.ReadUntil("cannot reach", wait)
	assert.Equal(t, 0, sessions.Count())
}

func TestNewBridge_RejectsBadPolicy(t *testing.T) {
	cfg := bridgeConfig("127.0.0.1", 1)
	cfg.Parser.CapturePolicy = "sometimes"
	_, err := NewBridge(cfg, session.NewManager(), settings.NewMemory(), nil, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	bridge, err := NewBridge(bridgeConfig("127.0.0.1", 1), session.NewManager(), settings.NewMemory(), nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	sess := session.New(session.Options{})
	ctx := context.Background()

	out, err := bridge.runCommand(ctx, sess, "")
	require.NoError(t, err)
	assert.Equal(t, command.DefaultRegistry().HelpLines(";"), out)

	out, err = bridge.runCommand(ctx, sess, "?")
	require.NoError(t, err)
	assert.Len(t, out, len(command.BuiltinCommands()))

	out, err = bridge.runCommand(ctx, sess, "flags")
	require.NoError(t, err)
	assert.Equal(t, []string{"no flags registered"}, out)

	out, err = bridge.runCommand(ctx, sess, "gains")
	require.NoError(t, err)
	assert.Equal(t, []string{"no gains recorded"}, out)

	_, err = bridge.runCommand(ctx, sess, "reset")
	assert.Error(t, err)
	_, err = bridge.runCommand(ctx, sess, "reset everything")
	assert.Error(t, err)

	out, err = bridge.runCommand(ctx, sess, "RESET Skills")
	require.NoError(t, err)
	assert.Equal(t, []string{"skill baselines reset"}, out)

	_, err = bridge.runCommand(ctx, sess, "echo maybe")
	assert.Error(t, err)

	_, err = bridge.runCommand(ctx, sess, "dance")
	assert.ErrorContains(t, err, "try ;help")

	out, err = bridge.runCommand(ctx, sess, "st")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out[1], "character unknown"))
}

type failingStore struct{ *settings.Memory }

func (failingStore) Set(context.Context, string, string, string) error {
	return assert.AnError
}

func TestRunCommand_EchoSaveFailureKeepsSessionValue(t *testing.T) {
	bridge, err := NewBridge(bridgeConfig("127.0.0.1", 1), session.NewManager(), failingStore{settings.NewMemory()}, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	sess := session.New(session.Options{})

	_, err = bridge.runCommand(context.Background(), sess, "echo on")
	assert.ErrorContains(t, err, "could not be saved")
	assert.True(t, sess.EchoGains())
}
