package protocol

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"periph.io/x/conn/v3/physic"
)

// ChannelIndex is a BLE link layer channel: 0-36 are data channels, 37, 38
// and 39 are the primary advertising channels.
type ChannelIndex uint8

// AdvertisingChannels lists the primary advertising channels in the order
// an advertisement is sent on them.
var AdvertisingChannels = [3]ChannelIndex{37, 38, 39}

// baseFrequency is the RADIO FREQUENCY register origin.
const baseFrequency = 2400 * physic.MegaHertz

// FrequencyDescriptor is what the RADIO needs to tune to a channel.
type FrequencyDescriptor struct {
	OffsetMHz     uint8 // MHz above 2400 MHz, written to FREQUENCY
	WhiteningSeed uint8 // written to DATAWHITEIV
}

// Frequency returns the carrier frequency.
func (fd FrequencyDescriptor) Frequency() physic.Frequency {
	return baseFrequency + physic.Frequency(fd.OffsetMHz)*physic.MegaHertz
}

// ChannelMap maps a channel index to its RF offset and whitening seed.
func ChannelMap(ch ChannelIndex) (FrequencyDescriptor, error) {
	var offset uint8
	switch {
	case inRange(ch, 0, 10):
		offset = 4 + 2*uint8(ch)
	case inRange(ch, 11, MaxDataChannel):
		offset = 28 + 2*(uint8(ch)-11)
	case ch == 37:
		offset = 2
	case ch == 38:
		offset = 26
	case ch == 39:
		offset = 80
	default:
		return FrequencyDescriptor{}, errors.Wrapf(ErrInvalidChannel, "channel %d", ch)
	}
	return FrequencyDescriptor{OffsetMHz: offset, WhiteningSeed: uint8(ch)}, nil
}

// Valid reports whether ch is a channel index defined by BLE.
func (ch ChannelIndex) Valid() bool { return ch < ChannelCount }

// IsAdvertising reports whether ch is one of the primary advertising channels.
func (ch ChannelIndex) IsAdvertising() bool { return inRange(ch, FirstAdvertisingChan, ChannelCount-1) }

func inRange[T constraints.Integer](v, lo, hi T) bool { return lo <= v && v <= hi }
