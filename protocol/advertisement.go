package protocol

import (
	"math"

	"github.com/pkg/errors"
)

// Advertisement is what the caller wants on air for one advertising interval.
type Advertisement struct {
	Address Address
	Payload []byte // AdvData, see Bluetooth Core Vol 3, Part C, Section 11
	// CTELength is the Constant Tone Extension length in 8 µs units.
	// 0 disables the CTE, otherwise 2-20 (16-160 µs).
	CTELength uint8
}

// Validate checks payload and CTE length before anything touches the radio.
func (a *Advertisement) Validate() error {
	if len(a.Payload) > MaxPayloadSize {
		return errors.Wrapf(ErrInvalidPayload, "payload length %d", len(a.Payload))
	}
	return ValidateCTELength(a.CTELength)
}

// ValidateCTELength accepts 0 (disabled) or MinCTELength..MaxCTELength.
func ValidateCTELength(length uint8) error {
	if length == CTELengthDisabled || inRange(length, MinCTELength, MaxCTELength) {
		return nil
	}
	return errors.Wrapf(ErrInvalidCTELength, "CTE length %d", length)
}

// ReceptionFilter selects which advertisements Receive accepts.
type ReceptionFilter struct {
	Channel ChannelIndex
	Address Address
	// CTELength is the CTE length the sender is known to use, in 8 µs
	// units. It is supplied out of band since inline CTEInfo parsing is off.
	// 0 disables IQ capture.
	CTELength uint8
}

func (f *ReceptionFilter) Validate() error {
	if !f.Channel.Valid() {
		return errors.Wrapf(ErrInvalidChannel, "channel %d", f.Channel)
	}
	return ValidateCTELength(f.CTELength)
}

// ReceptionResult is filled in place by Receive. Samples must be allocated by
// the caller; its length is the IQ capture capacity.
type ReceptionResult struct {
	Channel    ChannelIndex
	Payload    [MaxPayloadSize]byte
	PayloadLen int

	Samples     []IQSample
	SampleCount int

	// Truncated reports that the sender's length field was larger than
	// the payload capacity and the payload was cut to MaxPayloadSize.
	Truncated bool
}

// Data returns the received AdvData.
func (r *ReceptionResult) Data() []byte { return r.Payload[:r.PayloadLen] }

// IQ returns the captured samples.
func (r *ReceptionResult) IQ() []IQSample { return r.Samples[:r.SampleCount] }

// IQSample is one in-phase/quadrature pair as the RADIO writes it through
// DMA: one 32-bit word, I in the low half-word and Q in the high half-word.
type IQSample struct {
	I int16
	Q int16
}

// Pack returns the raw DMA word.
func (s IQSample) Pack() uint32 { return uint32(uint16(s.I)) | uint32(uint16(s.Q))<<16 }

// UnpackIQ splits a raw DMA word.
func UnpackIQ(w uint32) IQSample { return IQSample{I: int16(w), Q: int16(w >> 16)} }

// Magnitude returns sqrt(I²+Q²).
func (s IQSample) Magnitude() float64 { return math.Hypot(float64(s.I), float64(s.Q)) }

// Phase returns atan2(Q, I) in radians.
func (s IQSample) Phase() float64 { return math.Atan2(float64(s.Q), float64(s.I)) }
