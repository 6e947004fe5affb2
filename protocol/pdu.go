package protocol

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// Address is a BLE device address in over-the-air byte order (least
// significant byte first).
type Address [AddressSize]byte

// String returns the address the way scanners display it, most significant
// byte first: C6:05:04:03:02:01.
func (a Address) String() string {
	var sb strings.Builder
	for i := AddressSize - 1; i >= 0; i-- {
		sb.WriteString(strings.ToUpper(hex.EncodeToString(a[i : i+1])))
		if i > 0 {
			sb.WriteByte(':')
		}
	}
	return sb.String()
}

// ParseAddress parses the colon separated, most significant byte first form
// produced by Address.String.
func ParseAddress(s string) (Address, error) {
	var a Address
	parts := strings.Split(s, ":")
	if len(parts) != AddressSize {
		return a, errors.Errorf("address %q: want %d octets", s, AddressSize)
	}
	for i, p := range parts {
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 1 {
			return a, errors.Errorf("address %q: bad octet %q", s, p)
		}
		a[AddressSize-1-i] = b[0]
	}
	return a, nil
}

// Header is the first byte of an advertising physical channel PDU.
//
//	bit 0-3  PDU type
//	bit 4    RFU
//	bit 5    ChSel
//	bit 6    TxAdd
//	bit 7    RxAdd
type Header byte

func (h Header) Type() byte  { return byte(h) & headerTypeMask }
func (h Header) RFU() bool   { return byte(h)&headerRFUBit != 0 }
func (h Header) ChSel() bool { return byte(h)&headerChSelBit != 0 }
func (h Header) TxAdd() bool { return byte(h)&headerTxAddBit != 0 }
func (h Header) RxAdd() bool { return byte(h)&headerRxAddBit != 0 }

// PDU is a decoded ADV_NONCONN_IND.
// Layout: Header(1) | Length(1) | AdvA(6) | AdvData(0-31)
type PDU struct {
	Header  Header
	Address Address
	Payload []byte

	// Truncated is set when the received length field claimed more AdvData
	// than fits in MaxPayloadSize (or than was received) and Payload was cut.
	Truncated bool
}

// PDULen returns the encoded size of a PDU carrying payloadLen bytes of AdvData.
func PDULen(payloadLen int) int { return PDUHeaderSize + AddressSize + payloadLen }

// EncodePDU writes an ADV_NONCONN_IND into dst and returns the number of
// bytes written. dst is normally the buffer handed to the RADIO DMA.
func EncodePDU(dst []byte, addr Address, payload []byte) (int, error) {
	if len(payload) > MaxPayloadSize {
		return 0, errors.Wrapf(ErrInvalidPayload, "payload length %d", len(payload))
	}
	n := PDULen(len(payload))
	if len(dst) < n {
		return 0, errors.Wrapf(ErrShortBuffer, "need %d bytes, have %d", n, len(dst))
	}
	dst[0] = byte(AdvNonconnIndHeader)
	dst[1] = byte(AddressSize + len(payload))
	copy(dst[PDUHeaderSize:], addr[:])
	copy(dst[PDUHeaderSize+AddressSize:n], payload)
	return n, nil
}

// MarshalBinary encodes p into a new slice. The header is always
// AdvNonconnIndHeader regardless of p.Header.
func (p *PDU) MarshalBinary() ([]byte, error) {
	if len(p.Payload) > MaxPayloadSize {
		return nil, errors.Wrapf(ErrInvalidPayload, "payload length %d", len(p.Payload))
	}
	data := make([]byte, PDULen(len(p.Payload)))
	_, err := EncodePDU(data, p.Address, p.Payload)
	return data, err
}

// DecodePDU parses buf as an ADV_NONCONN_IND from expected. Anything else
// (other PDU types, other advertisers, short frames) is ErrNoMatch.
func DecodePDU(buf []byte, expected Address) (PDU, error) {
	if len(buf) < PDUHeaderSize+AddressSize {
		return PDU{}, errors.Wrap(ErrNoMatch, "short frame")
	}
	h := Header(buf[0])
	if h != AdvNonconnIndHeader {
		return PDU{}, errors.Wrapf(ErrNoMatch, "header 0x%02x", byte(h))
	}
	length := int(buf[1])
	if length < AddressSize {
		return PDU{}, errors.Wrapf(ErrNoMatch, "length %d", length)
	}
	var addr Address
	copy(addr[:], buf[PDUHeaderSize:PDUHeaderSize+AddressSize])
	if addr != expected {
		return PDU{}, errors.Wrapf(ErrNoMatch, "address %s", addr)
	}

	p := PDU{Header: h, Address: addr}
	payloadLen := length - AddressSize
	if payloadLen > MaxPayloadSize {
		payloadLen = MaxPayloadSize
		p.Truncated = true
	}
	if avail := len(buf) - PDUHeaderSize - AddressSize; payloadLen > avail {
		payloadLen = avail
		p.Truncated = true
	}
	p.Payload = make([]byte, payloadLen)
	copy(p.Payload, buf[PDUHeaderSize+AddressSize:])
	return p, nil
}

// CompleteLocalName returns a single "Complete Local Name" AD structure.
func CompleteLocalName(name string) []byte {
	ad := make([]byte, 0, 2+len(name))
	ad = append(ad, byte(len(name)+1), ADTypeCompleteLocalName)
	return append(ad, name...)
}
