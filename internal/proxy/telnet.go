package proxy

// Telnet command bytes (RFC 854) and the options the proxy names.
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	GA   byte = 249
	NOP  byte = 241
	SE   byte = 240
	EOR  byte = 239

	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptLinemode        byte = 34
)

type telnetState uint8

const (
	stData telnetState = iota
	stCommand
	stOption
	stSub
	stSubIAC
)

// telnetEvent is what one input byte amounts to once framing is removed.
type telnetEvent uint8

const (
	evSkip telnetEvent = iota
	evData
	// evPromptEnd marks IAC GA or IAC EOR, which games send after a prompt
	// that has no newline.
	evPromptEnd
)

// telnetDecoder strips telnet framing one byte at a time. The zero value is
// ready to use and carries state across reads, so a sequence split between
// two packets still decodes.
type telnetDecoder struct {
	state telnetState
}

func (d *telnetDecoder) feed(b byte) telnetEvent {
	switch d.state {
	case stCommand:
		d.state = stData
		switch b {
		case IAC:
			return evData
		case WILL, WONT, DO, DONT:
			d.state = stOption
		case SB:
			d.state = stSub
		case GA, EOR:
			return evPromptEnd
		}
		return evSkip
	case stOption:
		d.state = stData
		return evSkip
	case stSub:
		if b == IAC {
			d.state = stSubIAC
		}
		return evSkip
	case stSubIAC:
		if b == SE {
			d.state = stData
		} else {
			d.state = stSub
		}
		return evSkip
	}
	if b == IAC {
		d.state = stCommand
		return evSkip
	}
	return evData
}

// FilterIAC removes telnet framing from raw bytes, as found in captured
// session logs. Doubled 0xFF bytes collapse to one.
func FilterIAC(input []byte) []byte {
	var d telnetDecoder
	out := make([]byte, 0, len(input))
	for _, b := range input {
		if d.feed(b) == evData {
			out = append(out, b)
		}
	}
	return out
}
