package proxy

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	esc          byte = 0x1b
	readBufBytes      = 8192
)

// Conn frames one side of a proxied connection into lines. Telnet framing is
// consumed; ANSI escapes are kept so colour reaches the player. Reads belong
// to one goroutine; writes may come from several.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	telnet telnetDecoder
	// afterCR drops the '\n' of a "\r\n" pair on the next read.
	afterCR bool

	wmu          sync.Mutex
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps raw. A zero timeout disables that deadline.
//
// Precondition: raw must be an open connection.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, readBufBytes),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate tells a frontend client the proxy will not send go-ahead.
func (c *Conn) Negotiate() error {
	return c.Write([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine returns the next line without its terminator. A line ends at
// "\n", "\r", "\r\n", or at a telnet prompt marker when text is pending.
// Control bytes other than tab and escape are dropped.
//
// Postcondition: on error the partial line read so far is returned with it.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line strings.Builder
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}
		afterCR := c.afterCR
		c.afterCR = false

		switch c.telnet.feed(b) {
		case evSkip:
			continue
		case evPromptEnd:
			if line.Len() > 0 {
				return line.String(), nil
			}
			continue
		}

		switch {
		case b == '\n' && afterCR:
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			c.afterCR = true
			return line.String(), nil
		case b < 0x20 && b != '\t' && b != esc:
		default:
			line.WriteByte(b)
		}
	}
}

// WriteLine sends text terminated by "\r\n".
func (c *Conn) WriteLine(text string) error {
	return c.Write([]byte(text + "\r\n"))
}

// Write sends raw bytes under the write deadline.
func (c *Conn) Write(data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(data)
	return err
}

// Close closes the connection, unblocking any pending read.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
