package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWhitenIsInvolution(t *testing.T) {
	data := []byte("whitening must undo itself on every channel")
	for ch := uint8(0); ch < ChannelCount; ch++ {
		buf := append([]byte(nil), data...)
		Whiten(buf, ch)
		if bytes.Equal(buf, data) {
			t.Errorf("channel %d: Whiten() left data unchanged", ch)
		}
		Whiten(buf, ch)
		if !bytes.Equal(buf, data) {
			t.Errorf("channel %d: Whiten(Whiten(x)) = %x, want %x", ch, buf, data)
		}
	}
}

func TestWhitenDependsOnChannel(t *testing.T) {
	a := make([]byte, 16)
	b := make([]byte, 16)
	Whiten(a, 37)
	Whiten(b, 38)
	if bytes.Equal(a, b) {
		t.Error("channels 37 and 38 produced the same whitening sequence")
	}
}

func TestCRC24(t *testing.T) {
	pdu := []byte{0x42, 0x06, 0x01, 0x02, 0x03, 0x04, 0x05, 0xC6}
	crc := CRC24(pdu, CRCPoly, CRCInit)
	if crc > 0xFFFFFF {
		t.Fatalf("CRC24() = 0x%X, wider than 24 bits", crc)
	}
	if CRC24(nil, CRCPoly, CRCInit) != CRCInit {
		t.Errorf("CRC24(nil) = 0x%X, want preset 0x%X", CRC24(nil, CRCPoly, CRCInit), CRCInit)
	}

	// Any single bit error must be caught.
	for i := range pdu {
		for bit := 0; bit < 8; bit++ {
			corrupt := append([]byte(nil), pdu...)
			corrupt[i] ^= 1 << bit
			if CRC24(corrupt, CRCPoly, CRCInit) == crc {
				t.Errorf("bit %d of byte %d flipped without changing the CRC", bit, i)
			}
		}
	}

	if CRC24(pdu, CRCPoly, 0x123456) == crc {
		t.Error("CRC24() ignores the preset")
	}
}

func TestCRCByteOrder(t *testing.T) {
	crc := uint32(0x80_01_F0)
	got := AppendCRC(nil, crc)
	want := []byte{0x01, 0x80, 0x0F}
	if !bytes.Equal(got, want) {
		t.Errorf("AppendCRC() = %x, want %x", got, want)
	}
	if ReadCRC(got) != crc {
		t.Errorf("ReadCRC() = 0x%X, want 0x%X", ReadCRC(got), crc)
	}
}

func TestAirPacketRoundTrip(t *testing.T) {
	p := &PDU{Address: testAddress, Payload: CompleteLocalName("emlogic.no")}
	pdu, err := p.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	for _, ch := range AdvertisingChannels {
		air := AirPacket(ch, pdu)
		if len(air) != AirHeaderSize+len(pdu)+CRCSize {
			t.Fatalf("len(air) = %d, want %d", len(air), AirHeaderSize+len(pdu)+CRCSize)
		}
		if air[0] != Preamble1M {
			t.Errorf("preamble = 0x%02x, want 0x%02x", air[0], Preamble1M)
		}
		if aa := binary.LittleEndian.Uint32(air[1:5]); aa != AccessAddress {
			t.Errorf("access address = 0x%08X, want 0x%08X", aa, AccessAddress)
		}
		if bytes.Equal(air[AirHeaderSize:AirHeaderSize+len(pdu)], pdu) {
			t.Error("PDU went on air unwhitened")
		}

		got, crcOK, err := ParseAirPacket(ch, air)
		if err != nil {
			t.Fatalf("ParseAirPacket() error = %v", err)
		}
		if !crcOK {
			t.Error("ParseAirPacket() crcOK = false")
		}
		if !bytes.Equal(got, pdu) {
			t.Errorf("ParseAirPacket() = %x, want %x", got, pdu)
		}
	}
}

func TestParseAirPacketDetectsErrors(t *testing.T) {
	p := &PDU{Address: testAddress}
	pdu, _ := p.MarshalBinary()

	air := AirPacket(37, pdu)
	air[len(air)-1] ^= 0x10
	if _, crcOK, err := ParseAirPacket(37, air); err != nil || crcOK {
		t.Errorf("corrupt CRC: crcOK = %v, err = %v, want false, nil", crcOK, err)
	}

	// Dewhitening with the wrong channel scrambles the frame.
	air = AirPacket(37, pdu)
	if got, crcOK, err := ParseAirPacket(38, air); err == nil && crcOK && bytes.Equal(got, pdu) {
		t.Error("frame parsed cleanly on the wrong channel")
	}

	air = AirPacket(37, pdu)
	air[1] ^= 0xFF
	if _, _, err := ParseAirPacket(37, air); err == nil {
		t.Error("wrong access address accepted")
	}

	if _, _, err := ParseAirPacket(37, air[:6]); err == nil {
		t.Error("truncated air packet accepted")
	}
}
