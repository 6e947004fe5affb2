package protocol

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Software model of the LE 1M uncoded PHY framing the RADIO does in hardware:
//
//	Preamble(1) | Access address(4) | PDU(2-39) | CRC(3)
//
// PDU and CRC are whitened. Bits go on air least significant bit first,
// except the CRC which is sent most significant bit first.

// AirHeaderSize is preamble plus access address.
const AirHeaderSize = 1 + 4

// CRC24 runs the BLE CRC shift register over data, least significant bit of
// every byte first. poly holds the feedback taps below x^24 (0x00065B for
// BLE), init the 24-bit preset.
func CRC24(data []byte, poly, init uint32) uint32 {
	crc := init & 0xFFFFFF
	for _, b := range data {
		for i := 0; i < 8; i++ {
			fb := uint32(b>>i)&1 ^ (crc>>23)&1
			crc = (crc << 1) & 0xFFFFFF
			if fb != 0 {
				crc ^= poly
			}
		}
	}
	return crc
}

// AppendCRC appends the CRC in on-air byte order.
func AppendCRC(dst []byte, crc uint32) []byte {
	return append(dst, reverseBits(byte(crc>>16)), reverseBits(byte(crc>>8)), reverseBits(byte(crc)))
}

// ReadCRC is the inverse of AppendCRC.
func ReadCRC(b []byte) uint32 {
	return uint32(reverseBits(b[0]))<<16 | uint32(reverseBits(b[1]))<<8 | uint32(reverseBits(b[2]))
}

// Whiten scrambles data in place with the x^7 + x^4 + 1 whitening sequence
// for the given channel. Whitening is its own inverse.
func Whiten(data []byte, seed uint8) {
	// Position 0 is preset to 1, positions 1-6 hold the channel index with
	// its most significant bit in position 1.
	var lfsr [7]byte
	lfsr[0] = 1
	for i := 1; i <= 6; i++ {
		lfsr[i] = (seed >> (6 - i)) & 1
	}
	for n := range data {
		var out byte
		for bit := 0; bit < 8; bit++ {
			w := lfsr[6]
			out |= (((data[n] >> bit) & 1) ^ w) << bit
			copy(lfsr[1:], lfsr[:6])
			lfsr[0] = w
			lfsr[4] ^= w
		}
		data[n] = out
	}
}

// AirPacket frames pdu the way it goes on air on channel ch, with the BLE
// CRC parameters.
func AirPacket(ch ChannelIndex, pdu []byte) []byte {
	return AirPacketWith(pdu, CRCPoly, CRCInit, uint8(ch), true)
}

// AirPacketWith frames pdu with explicit CRC parameters and whitening seed,
// the way a RADIO configured with them would.
func AirPacketWith(pdu []byte, poly, init uint32, seed uint8, whiten bool) []byte {
	air := make([]byte, 0, AirHeaderSize+len(pdu)+CRCSize)
	air = append(air, Preamble1M)
	air = binary.LittleEndian.AppendUint32(air, AccessAddress)
	air = append(air, pdu...)
	air = AppendCRC(air, CRC24(pdu, poly, init))
	if whiten {
		Whiten(air[AirHeaderSize:], seed)
	}
	return air
}

// ParseAirPacket undoes AirPacket. It returns the PDU (header, length and
// body as given by the length field) and whether the CRC matched.
func ParseAirPacket(ch ChannelIndex, air []byte) ([]byte, bool, error) {
	return ParseAirPacketWith(air, CRCPoly, CRCInit, uint8(ch), true)
}

// ParseAirPacketWith is ParseAirPacket with explicit RADIO parameters.
func ParseAirPacketWith(air []byte, poly, init uint32, seed uint8, whiten bool) ([]byte, bool, error) {
	if len(air) < AirHeaderSize+PDUHeaderSize+CRCSize {
		return nil, false, errors.Errorf("air packet too short: %d bytes", len(air))
	}
	if aa := binary.LittleEndian.Uint32(air[1:AirHeaderSize]); aa != AccessAddress {
		return nil, false, errors.Errorf("access address 0x%08X", aa)
	}
	body := make([]byte, len(air)-AirHeaderSize)
	copy(body, air[AirHeaderSize:])
	if whiten {
		Whiten(body, seed)
	}
	n := PDUHeaderSize + int(body[1])
	if n+CRCSize > len(body) {
		return nil, false, errors.Errorf("length field %d exceeds air packet", body[1])
	}
	pdu := body[:n]
	return pdu, ReadCRC(body[n:]) == CRC24(pdu, poly, init), nil
}

func reverseBits(b byte) byte {
	b = b>>4 | b<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
