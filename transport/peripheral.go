package transport

import proto "github.com/ystepanoff/blecte/protocol"

// Peripheral is the interface that wraps register access to the CLOCK and
// RADIO peripherals. A Peripheral is owned by exactly one Radio.
type Peripheral interface {
	Write(reg Register, value uint32)
	Read(reg Register) uint32

	// SetPacketBuffer points PACKETPTR at buf. The RADIO reads or writes it
	// by DMA until it is DISABLED again, so buf must not move or be reused
	// before then.
	SetPacketBuffer(buf []byte)

	// SetSampleBuffer points DFEPACKET.PTR at buf with the same lifetime
	// rules as SetPacketBuffer.
	SetSampleBuffer(buf []proto.IQSample)
}
