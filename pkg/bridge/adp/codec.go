package adp

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/nano-e/g3usi-adapter/pkg/frame"
)

// pibValue is the CBOR body of a PIB set/get request or confirm: the
// attribute being addressed, an array index (PIB tables are indexed,
// e.g. per-neighbour entries), and, for sets/get-confirms, its value.
type pibValue struct {
	Attribute uint16 `cbor:"a"`
	Index     uint8  `cbor:"i"`
	Value     []byte `cbor:"v,omitempty"`
}

// DecodeUSIMessage translates a finalized, ADP_G3 InMessage into a
// typed ADP Message. Returns false if the frame isn't an ADP_G3 frame
// or the codec doesn't recognize its command byte; callers treat that
// as silently drop, not fatal.
func DecodeUSIMessage(in *frame.InMessage) (Message, bool) {
	if in == nil || in.ProtocolType == nil || *in.ProtocolType != frame.ProtocolAdpG3 {
		return nil, false
	}
	if len(in.Buf) == 0 {
		return nil, false
	}
	cmd := in.Buf[0]
	body := in.Buf[1:]

	switch cmd {
	case CmdInitializeConfirm:
		return InitializeConfirm{Status: statusOf(body)}, true
	case CmdSetConfirm:
		var v pibValue
		if err := cbor.Unmarshal(body, &v); err != nil {
			return nil, false
		}
		return SetConfirm{Attribute: PIBAttribute(v.Attribute), Index: v.Index, Status: statusOfValue(v.Value)}, true
	case CmdGetConfirm:
		var v pibValue
		if err := cbor.Unmarshal(body, &v); err != nil {
			return nil, false
		}
		return GetConfirm{Attribute: PIBAttribute(v.Attribute), Index: v.Index, Status: StatusOK, Value: v.Value}, true
	case CmdDiscoverConfirm:
		var networks []PanDescriptor
		if err := cbor.Unmarshal(body, &networks); err != nil {
			return nil, false
		}
		return DiscoverConfirm{Status: StatusOK, Networks: networks}, true
	case CmdNetworkStartConfirm:
		return NetworkStartConfirm{Status: statusOf(body)}, true
	case CmdNetworkJoinConfirm:
		return NetworkJoinConfirm{Status: statusOf(body)}, true
	case CmdLbpIndication:
		if len(body) < 8 {
			return nil, false
		}
		var src [8]byte
		copy(src[:], body[:8])
		return LbpEvent{SrcAddress: src, Payload: append([]byte(nil), body[8:]...)}, true
	case CmdLbpResponse:
		return LbpResponse{Status: statusOf(body)}, true
	case CmdStatusEvent:
		return StatusEvent{Status: statusOf(body)}, true
	default:
		return nil, false
	}
}

func statusOf(body []byte) Status {
	if len(body) == 0 {
		return StatusOK
	}
	return Status(body[0])
}

func statusOfValue(v []byte) Status {
	// SetConfirm bodies carry no separate status field beyond the
	// attribute/index echo; absence of an error value means success.
	return StatusOK
}

// EncodeInitialize builds the AdpInitialize request for the given
// band.
func EncodeInitialize(band byte) frame.OutMessage {
	return frame.NewOutMessage(frame.ProtocolAdpG3, []byte{CmdInitialize, band})
}

// EncodeSetRequest builds a PIB attribute write.
func EncodeSetRequest(attr PIBAttribute, index uint8, value []byte) frame.OutMessage {
	body, _ := cbor.Marshal(pibValue{Attribute: uint16(attr), Index: index, Value: value})
	return frame.NewOutMessage(frame.ProtocolAdpG3, append([]byte{CmdSetRequest}, body...))
}

// EncodeGetRequest builds a PIB attribute read.
func EncodeGetRequest(attr PIBAttribute, index uint8) frame.OutMessage {
	body, _ := cbor.Marshal(pibValue{Attribute: uint16(attr), Index: index})
	return frame.NewOutMessage(frame.ProtocolAdpG3, append([]byte{CmdGetRequest}, body...))
}

// EncodeDiscover builds a network discovery request with the given
// scan duration (in seconds).
func EncodeDiscover(durationSeconds uint8) frame.OutMessage {
	return frame.NewOutMessage(frame.ProtocolAdpG3, []byte{CmdDiscover, durationSeconds})
}

// EncodeNetworkStart builds a coordinator's start-network request for
// the given PAN id.
func EncodeNetworkStart(panID uint16) frame.OutMessage {
	return frame.NewOutMessage(frame.ProtocolAdpG3, []byte{CmdNetworkStart, byte(panID >> 8), byte(panID)})
}

// EncodeNetworkJoin builds a non-coordinator's join request for the
// chosen PAN.
func EncodeNetworkJoin(panID uint16, lba uint8) frame.OutMessage {
	return frame.NewOutMessage(frame.ProtocolAdpG3, []byte{CmdNetworkJoin, byte(panID >> 8), byte(panID), lba})
}

// EncodeLbpRequest wraps an outbound LBP PDU (produced by the LBP
// handler) for transmission to the modem.
func EncodeLbpRequest(pdu []byte) frame.OutMessage {
	return frame.NewOutMessage(frame.ProtocolAdpG3, append([]byte{CmdLbpIndication}, pdu...))
}
