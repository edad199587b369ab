package frame

import (
	"bytes"
	"testing"
)

// decodeAll feeds wire bytes through a fresh InMessage and returns the
// finalized message once RxDone is reached; otherwise it returns the
// unfinalized message with ok=false.
func decodeAll(t *testing.T, wire []byte) (*InMessage, bool) {
	t.Helper()
	m := NewInMessage()
	m.Process(wire)
	if m.State() != RxDone {
		return m, false
	}
	m.Finalize()
	return m, true
}

func TestRoundTripKnownProtocols(t *testing.T) {
	protocols := []SubProtocol{
		MngPrimeGetQry, MngPrimeSet, ProtocolSnifPrime, ProtocolSnifG3,
		ProtocolMacG3, ProtocolAdpG3, ProtocolCoordG3, ProtocolPrimeAPI,
		ProtocolPrimeOverUDP,
	}
	payloads := [][]byte{
		{0x01},
		{0x01, 0x02, 0x03},
		{0x1F, 0x00, 0x00, 0x00, 0x00},
	}

	for _, proto := range protocols {
		for _, payload := range payloads {
			msg := NewOutMessage(proto, append([]byte(nil), payload...))
			wire, err := msg.Encode()
			if err != nil {
				t.Fatalf("encode(%v, %v): %v", proto, payload, err)
			}
			if wire[0] != Delimiter || wire[len(wire)-1] != Delimiter {
				t.Fatalf("encode(%v, %v): missing delimiters: % x", proto, payload, wire)
			}

			got, ok := decodeAll(t, wire)
			if !ok {
				t.Fatalf("decode(%v, %v): state=%v, did not reach Done", proto, payload, got.State())
			}
			if got.ProtocolType == nil || *got.ProtocolType != proto {
				t.Fatalf("decode(%v, %v): protocol mismatch: got %v", proto, payload, got.ProtocolType)
			}
			if !bytes.Equal(got.Buf, payload) {
				t.Fatalf("decode(%v, %v): payload mismatch: got % x", proto, payload, got.Buf)
			}
		}
	}
}

func TestPrimeAPICommandByteMaskRoundTrips(t *testing.T) {
	payload := []byte{0x1A, 0xAA, 0xBB}
	msg := NewOutMessage(ProtocolPrimeAPI, payload)
	wire, err := msg.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, ok := decodeAll(t, wire)
	if !ok {
		t.Fatalf("decode did not reach Done, state=%v", got.State())
	}
	if got.Buf[0] != payload[0] {
		t.Fatalf("command byte mismatch: got 0x%02x want 0x%02x", got.Buf[0], payload[0])
	}
}

func TestExtendedProtocolCommandByteRoundTripsAtLargePayload(t *testing.T) {
	// At length >= 1024 the 13-bit length extension occupies the top
	// 3 bits of header byte 2 for every extended-length sub-protocol,
	// not just PRIME_API: Encode always ORs it in alongside the
	// command byte's bottom 5 bits (see lenExProtocol/cmdProtocol
	// usage in OutMessage.Encode), so decoding must unmask all three
	// the same way or the recovered command byte is wrong whenever
	// lenEx is nonzero.
	for _, proto := range []SubProtocol{ProtocolAdpG3, ProtocolCoordG3, ProtocolPrimeAPI} {
		payload := make([]byte, 1100)
		payload[0] = 0x1A
		for i := 1; i < len(payload); i++ {
			payload[i] = byte(i)
		}

		msg := NewOutMessage(proto, payload)
		wire, err := msg.Encode()
		if err != nil {
			t.Fatalf("encode(%v): %v", proto, err)
		}
		got, ok := decodeAll(t, wire)
		if !ok {
			t.Fatalf("decode(%v): did not reach Done, state=%v", proto, got.State())
		}
		if !bytes.Equal(got.Buf, payload) {
			t.Fatalf("decode(%v): payload mismatch at length %d: command byte got 0x%02x want 0x%02x", proto, len(payload), got.Buf[0], payload[0])
		}
	}
}

func TestDoubleDelimiterBetweenFramesTolerated(t *testing.T) {
	msg := NewOutMessage(ProtocolAdpG3, []byte{0x01, 0x02, 0x03})
	wire, err := msg.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// wire already begins and ends with a delimiter; add one more at
	// each end. A stray leading delimiter and a doubled trailing one must both
	// be tolerated without affecting the decoded frame.
	doubled := append([]byte{Delimiter}, wire...)
	doubled = append(doubled, Delimiter)

	m := NewInMessage()
	n := m.Process(doubled)
	if m.State() != RxDone {
		t.Fatalf("expected Done after first frame, got %v (consumed %d/%d)", m.State(), n, len(doubled))
	}
	m.Finalize()
	if !bytes.Equal(m.Buf, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("payload mismatch: % x", m.Buf)
	}
}

func TestEscapeNeutralityOfDelimiterAndEscapeBytes(t *testing.T) {
	// MAC_G3 uses the 2-byte header and sends the command byte verbatim,
	// so 0x7E/0x7D can sit at every position, including the first. The
	// extended-length protocols keep only the low 5 bits of the command
	// byte, which would alter a leading 0x7E/0x7D before escaping.
	for _, payload := range [][]byte{
		{Delimiter, 0x02, 0x03},
		{0x01, Escape, 0x03},
		{0x01, 0x02, Delimiter},
		{Escape, Delimiter, Escape},
	} {
		msg := NewOutMessage(ProtocolMacG3, append([]byte(nil), payload...))
		wire, err := msg.Encode()
		if err != nil {
			t.Fatalf("encode(%v): %v", payload, err)
		}
		got, ok := decodeAll(t, wire)
		if !ok {
			t.Fatalf("decode(%v): did not reach Done, state=%v", payload, got.State())
		}
		if !bytes.Equal(got.Buf, payload) {
			t.Fatalf("decode(%v): payload mismatch: got % x", payload, got.Buf)
		}
	}
}

func TestPayloadLenMatchesBufferAfterDone(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	msg := NewOutMessage(ProtocolMacG3, payload)
	wire, _ := msg.Encode()
	got, ok := decodeAll(t, wire)
	if !ok {
		t.Fatalf("did not reach Done")
	}
	if len(got.Buf) != len(payload) {
		t.Fatalf("buf len = %d, want %d", len(got.Buf), len(payload))
	}
}

func TestCorruptedCRCProducesError(t *testing.T) {
	msg := NewOutMessage(ProtocolMacG3, []byte{0x01, 0x02, 0x03})
	wire, _ := msg.Encode()
	// Flip the last bit of the last CRC byte (just before the final
	// delimiter).
	wire[len(wire)-2] ^= 0x01

	m := NewInMessage()
	m.Process(wire)
	if m.State() != RxError {
		t.Fatalf("expected Error state, got %v", m.State())
	}
}

func TestOversizedLengthFieldFailsCRC(t *testing.T) {
	// A frame claiming a payload longer than what actually precedes
	// the CRC/delimiter fails the CRC check: the buffer is shorter than
	// the claimed header+payload+CRC.
	msg := NewOutMessage(ProtocolMacG3, []byte{0x01, 0x02, 0x03})
	wire, _ := msg.Encode()

	// Corrupt header byte 0 (length hi byte) to claim a larger length,
	// without changing anything else about the frame.
	wire[1] = wire[1] ^ 0xFF

	m := NewInMessage()
	m.Process(wire)
	if m.State() != RxError {
		t.Fatalf("expected Error state for bogus length field, got %v", m.State())
	}
}

func TestEncodeRefusesOversizedPayload(t *testing.T) {
	payload := make([]byte, MaxPayloadLength+1)
	msg := NewOutMessage(ProtocolAdpG3, payload)
	_, err := msg.Encode()
	if err == nil {
		t.Fatalf("expected FrameTooLarge error")
	}
	if _, ok := err.(*ErrFrameTooLarge); !ok {
		t.Fatalf("expected *ErrFrameTooLarge, got %T", err)
	}
}

func TestHeaderExtractionIsIdempotent(t *testing.T) {
	msg := NewOutMessage(ProtocolCoordG3, []byte{0x01, 0x02})
	wire, _ := msg.Encode()
	m := NewInMessage()
	// Feed one byte at a time and make sure ProtocolType, once set,
	// never flips.
	var seen SubProtocol
	var sawProtocol bool
	for _, b := range wire {
		m.ProcessByte(b)
		if m.ProtocolType != nil {
			if sawProtocol && *m.ProtocolType != seen {
				t.Fatalf("protocol type changed after being set: %v -> %v", seen, *m.ProtocolType)
			}
			seen = *m.ProtocolType
			sawProtocol = true
		}
		if m.State() == RxDone || m.State() == RxError {
			break
		}
	}
	if !sawProtocol {
		t.Fatalf("protocol type was never extracted")
	}
}

func TestTwoFramesBackToBackBothDecodeInOrder(t *testing.T) {
	m1 := NewOutMessage(ProtocolMacG3, []byte{0x01})
	m2 := NewOutMessage(ProtocolMacG3, []byte{0x02})
	w1, _ := m1.Encode()
	w2, _ := m2.Encode()
	combined := append(append([]byte{}, w1...), w2...)

	m := NewInMessage()
	n := m.Process(combined)
	if m.State() != RxDone {
		t.Fatalf("first frame: expected Done, got %v", m.State())
	}
	m.Finalize()
	if !bytes.Equal(m.Buf, []byte{0x01}) {
		t.Fatalf("first frame payload mismatch: % x", m.Buf)
	}

	m2d := NewInMessage()
	m2d.Process(combined[n:])
	if m2d.State() != RxDone {
		t.Fatalf("second frame: expected Done, got %v", m2d.State())
	}
	m2d.Finalize()
	if !bytes.Equal(m2d.Buf, []byte{0x02}) {
		t.Fatalf("second frame payload mismatch: % x", m2d.Buf)
	}
}
