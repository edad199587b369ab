package adp

// PIBAttribute identifies one entry of the modem's Protocol
// Information Base, set/get via management frames.
type PIBAttribute uint16

const (
	AttrExtendedAddress PIBAttribute = 0x0001
	AttrPANId           PIBAttribute = 0x0002
	AttrShortAddress    PIBAttribute = 0x0003
	AttrBand            PIBAttribute = 0x0004
	AttrSecurityLevel   PIBAttribute = 0x0005
	AttrMaxHops         PIBAttribute = 0x0006
)

// DefaultPIBAttributes is the ordered set of attributes SetParams
// programs and GetParams reads back, one request at a time.
var DefaultPIBAttributes = []PIBAttribute{
	AttrBand,
	AttrSecurityLevel,
	AttrMaxHops,
	AttrPANId,
}

// ReadBackAttribute is read during GetParams to populate
// Context.ExtendedAddr.
const ReadBackAttribute = AttrExtendedAddress
