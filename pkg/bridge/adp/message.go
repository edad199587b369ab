// Package adp is the ADP codec: a pure bytes<->typed-message
// translation layer over the payloads the frame codec already
// stripped header/CRC from. It knows nothing about serial transport
// or framing.
package adp

// Command bytes identify the ADP primitive carried in a frame's first
// payload byte. ADP_G3 is one of the extended-length sub-protocols, so
// the frame codec packs this byte into 5 bits of the wire header
// alongside the length extension; every value here must stay under
// 0x20. Requests and confirms never share a buffer (requests are only
// ever encoded outbound, confirms only ever decoded inbound), so they
// don't need to be bit-related to each other, just individually small
// and distinct within their own direction. CmdLbpIndication is the one
// code used in both directions: it tags inbound LBP PDUs and, via
// EncodeLbpRequest, outbound ones.
const (
	CmdInitialize    byte = 0x01
	CmdSetRequest    byte = 0x02
	CmdGetRequest    byte = 0x03
	CmdMacSetRequest byte = 0x04
	CmdDiscover      byte = 0x05
	CmdNetworkStart  byte = 0x06
	CmdNetworkJoin   byte = 0x07

	CmdInitializeConfirm   byte = 0x11
	CmdSetConfirm          byte = 0x12
	CmdGetConfirm          byte = 0x13
	CmdMacSetConfirm       byte = 0x14
	CmdDiscoverConfirm     byte = 0x15
	CmdNetworkStartConfirm byte = 0x16
	CmdNetworkJoinConfirm  byte = 0x17

	CmdLbpIndication byte = 0x18 // embedded LBP PDU, modem -> host and host -> modem
	CmdLbpResponse   byte = 0x19 // modem -> host: delivery status of an outbound LBP PDU
	CmdStatusEvent   byte = 0x1A // modem -> host: unsolicited status report
)

// Status mirrors the modem's ADP status codes; 0 is success.
type Status byte

const (
	StatusOK Status = 0x00
)

// PanDescriptor describes one network found during discovery.
type PanDescriptor struct {
	PANId     uint16
	LBA       uint8
	RCCoord   uint16
	LinkQuality uint8
}

// Message is the sum type of decoded ADP primitives the App Manager
// and LBP handler dispatch on. Concrete variants below implement it.
type Message interface {
	isAdpMessage()
}

// InitializeConfirm answers CmdInitialize.
type InitializeConfirm struct {
	Status Status
}

func (InitializeConfirm) isAdpMessage() {}

// SetConfirm answers a PIB attribute write.
type SetConfirm struct {
	Attribute PIBAttribute
	Index     uint8
	Status    Status
}

func (SetConfirm) isAdpMessage() {}

// GetConfirm answers a PIB attribute read.
type GetConfirm struct {
	Attribute PIBAttribute
	Index     uint8
	Status    Status
	Value     []byte
}

func (GetConfirm) isAdpMessage() {}

// DiscoverConfirm answers a network discovery request.
type DiscoverConfirm struct {
	Status   Status
	Networks []PanDescriptor
}

func (DiscoverConfirm) isAdpMessage() {}

// NetworkStartConfirm answers a coordinator's start-network request.
type NetworkStartConfirm struct {
	Status Status
}

func (NetworkStartConfirm) isAdpMessage() {}

// NetworkJoinConfirm answers a non-coordinator's join request.
type NetworkJoinConfirm struct {
	Status Status
}

func (NetworkJoinConfirm) isAdpMessage() {}

// LbpEvent carries an LBP PDU the modem received over the air,
// addressed to this host for bootstrap processing (AdpG3LbpEvent).
type LbpEvent struct {
	SrcAddress [8]byte
	Payload    []byte
}

func (LbpEvent) isAdpMessage() {}

// LbpResponse reports the modem's delivery status for an LBP PDU this
// host previously sent out (AdpG3LbpReponse).
type LbpResponse struct {
	Status Status
}

func (LbpResponse) isAdpMessage() {}

// StatusEvent is an unsolicited status report
// (AdpG3MsgStatusResponse) the Ready state observes but otherwise
// ignores.
type StatusEvent struct {
	Status Status
}

func (StatusEvent) isAdpMessage() {}
