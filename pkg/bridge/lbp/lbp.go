// Package lbp is a minimal LoWPAN Bootstrap Protocol handler:
// ProcessMsg(lbp) -> optional outbound PDU, ProcessResponse(resp).
// The real EAP-PSK exchange is out of scope; this gives the App
// Manager a real, if simplified, collaborator to drive against.
package lbp

import (
	"encoding/binary"
	"log"
)

// MessageType is the LBP PDU's message code.
type MessageType byte

const (
	TypeJoinRequest MessageType = 0x01
	TypeJoinAccept  MessageType = 0x02
	TypeJoinReject  MessageType = 0x03
	TypeKick        MessageType = 0x04
)

// Message is a decoded LBP PDU.
type Message struct {
	Type      MessageType
	DeviceID  uint16
	Payload   []byte
}

// Handler tracks one pending request at a time.
type Handler struct {
	pending *uint16
}

// New returns a Handler with no pending request.
func New() *Handler {
	return &Handler{}
}

// ProcessMsg reacts to an inbound LBP message. A join request gets an
// immediate accept PDU echoed back to the modem; anything else is
// logged and produces no reply.
func (h *Handler) ProcessMsg(msg *Message) ([]byte, bool) {
	if msg == nil {
		return nil, false
	}
	switch msg.Type {
	case TypeJoinRequest:
		id := msg.DeviceID
		h.pending = &id
		return encode(TypeJoinAccept, msg.DeviceID, nil), true
	default:
		log.Printf("lbp: unhandled message type 0x%02x from device 0x%04x", msg.Type, msg.DeviceID)
		return nil, false
	}
}

// ProcessResponse updates the pending-request table once the modem
// reports the delivery status of a PDU this handler emitted.
func (h *Handler) ProcessResponse(status byte) {
	if h.pending == nil {
		return
	}
	if status != 0 {
		log.Printf("lbp: delivery failed for pending device 0x%04x, status=%d", *h.pending, status)
	}
	h.pending = nil
}

func encode(t MessageType, deviceID uint16, payload []byte) []byte {
	buf := make([]byte, 3+len(payload))
	buf[0] = byte(t)
	binary.BigEndian.PutUint16(buf[1:3], deviceID)
	copy(buf[3:], payload)
	return buf
}

// Decode parses a raw LBP PDU as received embedded in an
// AdpG3LbpEvent.
func Decode(raw []byte) (*Message, bool) {
	if len(raw) < 3 {
		return nil, false
	}
	return &Message{
		Type:     MessageType(raw[0]),
		DeviceID: binary.BigEndian.Uint16(raw[1:3]),
		Payload:  append([]byte(nil), raw[3:]...),
	}, true
}
