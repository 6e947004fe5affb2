package protocol

// BLE advertising-channel constants (platform independent). All higher layers should depend on this file.
const (
	// PDU sizing
	// Layout:
	//   Header (1 byte) | Length (1 byte) | AdvA (6) | AdvData (0-31)
	// Length counts everything after the length byte, i.e. AdvA plus AdvData.

	HeaderSize     = 1
	LengthSize     = 1
	AddressSize    = 6
	MaxPayloadSize = 31

	// Header and length bytes in front of AdvA
	PDUHeaderSize = HeaderSize + LengthSize // 2 bytes

	// Worst-case PDU handed to the RADIO DMA
	MaxPDUSize = PDUHeaderSize + AddressSize + MaxPayloadSize // 39 bytes

	// CRC appended by the RADIO, excluded from the length field
	CRCSize = 3

	// Access address shared by all advertising-channel traffic, split the way
	// the RADIO wants it: 3 byte base (left aligned in BASE0) + 1 byte prefix.
	AccessAddress       = 0x8E89BED6
	AccessAddressBase   = (AccessAddress & 0x00FFFFFF) << 8
	AccessAddressPrefix = AccessAddress >> 24

	// CRC-24 over the PDU, address excluded
	CRCPoly = 0x00065B
	CRCInit = 0x555555

	// Uncoded 1M preamble. Its last bit on air is the inverse of the first
	// access address bit (0xD6 starts with 0 on air).
	Preamble1M = 0xAA

	// Inter frame space in µs
	TIFS = 150

	// PDU types
	PDUTypeAdvInd        = 0x0
	PDUTypeAdvDirectInd  = 0x1
	PDUTypeAdvNonconnInd = 0x2
	PDUTypeScanReq       = 0x3
	PDUTypeScanRsp       = 0x4
	PDUTypeConnectInd    = 0x5
	PDUTypeAdvScanInd    = 0x6

	// Header bit positions
	headerTypeMask = 0x0F
	headerRFUBit   = 1 << 4
	headerChSelBit = 1 << 5
	headerTxAddBit = 1 << 6
	headerRxAddBit = 1 << 7

	// The only PDU this driver sends or accepts: ADV_NONCONN_IND with a
	// random advertiser address.
	AdvNonconnIndHeader = Header(PDUTypeAdvNonconnInd | headerTxAddBit) // 0x42

	// Channels
	ChannelCount         = 40
	MaxDataChannel       = 36
	FirstAdvertisingChan = 37

	// Constant Tone Extension length in 8 µs units (0 disables)
	CTELengthDisabled = 0
	MinCTELength      = 2
	MaxCTELength      = 20

	// AD types the example programs and CLI build
	ADTypeFlags             = 0x01
	ADTypeCompleteLocalName = 0x09
)
