package lbp

import "testing"

func TestDecodeEncodeRoundTrip(t *testing.T) {
	raw := encode(TypeJoinRequest, 0x1234, []byte{0xAA, 0xBB})
	msg, ok := Decode(raw)
	if !ok {
		t.Fatalf("Decode failed")
	}
	if msg.Type != TypeJoinRequest || msg.DeviceID != 0x1234 {
		t.Fatalf("decoded = %+v", msg)
	}
	if len(msg.Payload) != 2 || msg.Payload[0] != 0xAA || msg.Payload[1] != 0xBB {
		t.Fatalf("payload = %v", msg.Payload)
	}
}

func TestDecodeRejectsShortPDU(t *testing.T) {
	if _, ok := Decode([]byte{0x01, 0x02}); ok {
		t.Fatalf("expected Decode to reject a 2-byte PDU")
	}
}

func TestProcessMsgJoinRequestRepliesWithAccept(t *testing.T) {
	h := New()
	reply, ok := h.ProcessMsg(&Message{Type: TypeJoinRequest, DeviceID: 0x0007})
	if !ok {
		t.Fatalf("expected a reply for a join request")
	}
	decoded, ok := Decode(reply)
	if !ok {
		t.Fatalf("reply did not decode")
	}
	if decoded.Type != TypeJoinAccept || decoded.DeviceID != 0x0007 {
		t.Fatalf("reply = %+v", decoded)
	}
	if h.pending == nil || *h.pending != 0x0007 {
		t.Fatalf("expected device 0x0007 pending after accept")
	}
}

func TestProcessMsgIgnoresOtherTypes(t *testing.T) {
	h := New()
	if _, ok := h.ProcessMsg(&Message{Type: TypeKick, DeviceID: 1}); ok {
		t.Fatalf("expected no reply for a kick message")
	}
}

func TestProcessResponseClearsPending(t *testing.T) {
	h := New()
	h.ProcessMsg(&Message{Type: TypeJoinRequest, DeviceID: 9})
	h.ProcessResponse(0x00)
	if h.pending != nil {
		t.Fatalf("expected pending to be cleared after a response")
	}
}

func TestProcessResponseWithNoPendingIsANoop(t *testing.T) {
	h := New()
	h.ProcessResponse(0x01)
	if h.pending != nil {
		t.Fatalf("pending should remain nil")
	}
}
