package frame

// RxState is the receive-side state of an in-flight InMessage.
type RxState int

const (
	RxIdle RxState = iota
	RxMsg
	RxEsc
	RxError
	RxDone
)

// InMessage is an inbound frame under construction or delivered. On
// RxDone the buffer holds exactly the payload (header and CRC
// stripped), ProtocolType is set, and for the three extended-length
// protocols (PRIME_API, ADP_G3, COORD_G3) the command byte has been
// unmasked.
type InMessage struct {
	Buf          []byte
	state        RxState
	ProtocolType *SubProtocol
	payloadLen   uint16
}

// NewInMessage returns a fresh, empty InMessage ready to receive.
func NewInMessage() *InMessage {
	return &InMessage{
		Buf:   make([]byte, 0, MaxPayloadLength),
		state: RxIdle,
	}
}

// State reports the current receive state.
func (m *InMessage) State() RxState {
	return m.state
}

// Process drains bytes from data (in order) until the frame reaches
// RxDone or RxError, or data is exhausted. It reports how many bytes
// were consumed.
func (m *InMessage) Process(data []byte) int {
	n := 0
	for n < len(data) {
		m.ProcessByte(data[n])
		n++
		if m.state == RxDone || m.state == RxError {
			break
		}
	}
	return n
}

// ProcessByte advances the receive state machine by one byte, per the
// Idle/Msg/Esc/Error/Done transitions.
func (m *InMessage) ProcessByte(ch byte) {
	switch m.state {
	case RxIdle:
		if ch == Delimiter {
			m.state = RxMsg
		}
	case RxMsg:
		switch {
		case ch == Escape:
			m.state = RxEsc
		case ch == Delimiter:
			if len(m.Buf) == 0 {
				// Two consecutive delimiters: the first ended a frame
				// we already consumed (or none at all); the second
				// begins the next one. Stay in Msg.
				return
			}
			if m.checkCRC() {
				m.state = RxDone
			} else {
				m.state = RxError
			}
		default:
			m.Buf = append(m.Buf, ch)
			if m.ProtocolType == nil {
				m.extractHeader()
			}
		}
	case RxEsc:
		if ch == Escape {
			// Illegal double-escape.
			m.state = RxError
			return
		}
		m.Buf = append(m.Buf, ch^EscapeMask)
		if m.ProtocolType == nil {
			m.extractHeader()
		}
		m.state = RxMsg
	case RxError, RxDone:
		// Terminal; caller must drain and replace.
	}
}

// extractHeader derives the sub-protocol tag and payload length from
// the leading header bytes, once enough of them have arrived.
// Idempotent: a no-op once ProtocolType is already set.
func (m *InMessage) extractHeader() {
	if m.ProtocolType != nil {
		return
	}
	if len(m.Buf) < ProtocolMinLen {
		return
	}
	proto := typeProtocol(m.Buf[typeProtocolOffset])
	if extendedLength(proto) {
		if len(m.Buf) <= xlenProtocolOffset {
			return
		}
		m.payloadLen = getProtocolXLen(m.Buf[lenProtocolHiOffset], m.Buf[lenProtocolLoOffset], m.Buf[xlenProtocolOffset])
	} else {
		m.payloadLen = getProtocolLen(m.Buf[lenProtocolHiOffset], m.Buf[lenProtocolLoOffset])
	}
	m.ProtocolType = &proto
}

// checkCRC verifies the trailing CRC of the accumulated buffer against
// the algorithm selected by ProtocolType, covering the leading
// payloadLen+2 bytes (header included, CRC excluded).
func (m *InMessage) checkCRC() bool {
	if m.ProtocolType == nil {
		return false
	}
	return verifyCRC(*m.ProtocolType, m.Buf, int(m.payloadLen)+2)
}

// Finalize strips the header and CRC, truncates the buffer to the
// decoded payload length, and for the three extended-length protocols
// unmasks the command byte from its length-extension bits (their
// header packs the command into the third header byte alongside the
// top length bits, rather than leaving it as a plain payload byte).
// Only valid once State() reports RxDone.
func (m *InMessage) Finalize() {
	if len(m.Buf) >= 2 {
		m.Buf = m.Buf[2:]
	}
	if int(m.payloadLen) <= len(m.Buf) {
		m.Buf = m.Buf[:m.payloadLen]
	}
	if m.ProtocolType != nil && extendedLength(*m.ProtocolType) && len(m.Buf) > 0 {
		m.Buf[0] = cmdProtocol(m.Buf[0])
	}
}

// PayloadLen returns the decoded payload length (valid once the
// header has been parsed).
func (m *InMessage) PayloadLen() uint16 {
	return m.payloadLen
}

// Clone returns a deep copy suitable for handing to multiple
// listeners without aliasing the receive buffer.
func (m *InMessage) Clone() *InMessage {
	c := &InMessage{
		Buf:        append([]byte(nil), m.Buf...),
		state:      m.state,
		payloadLen: m.payloadLen,
	}
	if m.ProtocolType != nil {
		p := *m.ProtocolType
		c.ProtocolType = &p
	}
	return c
}
