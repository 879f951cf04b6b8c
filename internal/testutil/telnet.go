package testutil

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// TelnetClient plays the part of a player's MUD client in proxy tests.
type TelnetClient struct {
	conn   net.Conn
	reader *bufio.Reader
	t      *testing.T
}

// NewTelnetClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}

	t.Cleanup(func() {
		conn.Close()
	})

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return &TelnetClient{
		conn:   conn,
		reader: bufio.NewReader(conn),
		t:      t,
	}
}

// ReadUntil reads until substr appears or timeout passes and returns
// everything read, including the match.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the accumulated output containing substr, or fails on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	var buf strings.Builder
	tmp := make([]byte, 1024)
	for {
		n, err := c.reader.Read(tmp)
		if n > 0 {
			buf.Write(tmp[:n])
			if strings.Contains(buf.String(), substr) {
				return buf.String()
			}
		}
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, buf.String(), err)
		}
	}
}

// Send writes a line of text to the server, appending \r\n.
//
// Postcondition: text + \r\n is written to the connection.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}

// FakeGame is a line-oriented game server that accepts one proxy
// connection, records the commands it receives and sends scripted output.
type FakeGame struct {
	t        *testing.T
	listener net.Listener

	mu       sync.Mutex
	conn     net.Conn
	ready    chan struct{}
	received chan string
}

// NewFakeGame listens on a random loopback port.
//
// Postcondition: Addr returns the listening address; the server is closed
// when the test ends.
func NewFakeGame(t *testing.T) *FakeGame {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening for fake game: %v", err)
	}
	g := &FakeGame{
		t:        t,
		listener: l,
		ready:    make(chan struct{}),
		received: make(chan string, 64),
	}
	go g.accept()
	t.Cleanup(g.Close)
	return g
}

func (g *FakeGame) accept() {
	conn, err := g.listener.Accept()
	if err != nil {
		return
	}
	g.mu.Lock()
	g.conn = conn
	g.mu.Unlock()
	close(g.ready)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		g.received <- strings.TrimRight(scanner.Text(), "\r")
	}
	close(g.received)
}

// Addr returns the host and port the fake game listens on.
func (g *FakeGame) Addr() (string, int) {
	addr := g.listener.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

// WaitConnected blocks until the proxy has connected.
func (g *FakeGame) WaitConnected(timeout time.Duration) {
	g.t.Helper()
	select {
	case <-g.ready:
	case <-time.After(timeout):
		g.t.Fatal("proxy did not connect to fake game")
	}
}

// Send writes each line to the proxy, terminated by \r\n.
//
// Precondition: the proxy must be connected.
func (g *FakeGame) Send(lines ...string) {
	g.t.Helper()
	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn == nil {
		g.t.Fatal("fake game has no connection")
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(conn, "%s\r\n", line); err != nil {
			g.t.Fatalf("fake game sending %q: %v", line, err)
		}
	}
}

// Expect waits for the next command the proxy forwarded.
//
// Postcondition: returns the command, or fails the test on timeout.
func (g *FakeGame) Expect(timeout time.Duration) string {
	g.t.Helper()
	select {
	case line, ok := <-g.received:
		if !ok {
			g.t.Fatal("fake game connection closed")
		}
		return line
	case <-time.After(timeout):
		g.t.Fatal("fake game received nothing")
	}
	return ""
}

// Disconnect drops the proxy connection, as the game does on quit.
func (g *FakeGame) Disconnect() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conn != nil {
		g.conn.Close()
	}
}

// Close stops listening and drops any connection.
func (g *FakeGame) Close() {
	g.listener.Close()
	g.Disconnect()
}
