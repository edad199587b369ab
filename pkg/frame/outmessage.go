package frame

import "fmt"

// ErrFrameTooLarge is returned by Encode when the payload exceeds
// MaxPayloadLength.
type ErrFrameTooLarge struct {
	Len int
}

func (e *ErrFrameTooLarge) Error() string {
	return fmt.Sprintf("frame: payload of %d bytes exceeds max %d", e.Len, MaxPayloadLength)
}

// OutMessage is an outbound frame as submitted by upper layers: a
// sub-protocol tag and a payload whose first byte is the command.
// Immutable once constructed.
type OutMessage struct {
	Protocol SubProtocol
	Data     []byte
}

// NewOutMessage builds an OutMessage for protocol carrying data, whose
// first byte must be the command byte.
func NewOutMessage(protocol SubProtocol, data []byte) OutMessage {
	return OutMessage{Protocol: protocol, Data: data}
}

// Encode serializes the message to wire bytes: header, payload, CRC,
// escape-encoded and delimiter-framed. Returns ErrFrameTooLarge if the
// payload exceeds MaxPayloadLength.
func (m OutMessage) Encode() ([]byte, error) {
	if len(m.Data) > MaxPayloadLength {
		return nil, &ErrFrameTooLarge{Len: len(m.Data)}
	}

	length := uint16(len(m.Data))
	v := make([]byte, 0, 3+len(m.Data)+4)
	v = append(v, lenHiProtocol(length))
	v = append(v, lenLoProtocol(length)|byte(m.Protocol))

	if len(m.Data) > 0 {
		cmd := m.Data[0]
		if extendedLength(m.Protocol) {
			v = append(v, lenExProtocol(length)|cmdProtocol(cmd))
		} else {
			v = append(v, cmd)
		}
		v = append(v, m.Data[1:]...)
	}

	v = appendCRC(m.Protocol, v)

	escaped := make([]byte, 0, len(v)+4)
	escaped = append(escaped, Delimiter)
	for _, b := range v {
		if b == Delimiter || b == Escape {
			escaped = append(escaped, Escape, b^EscapeMask)
		} else {
			escaped = append(escaped, b)
		}
	}
	escaped = append(escaped, Delimiter)
	return escaped, nil
}
