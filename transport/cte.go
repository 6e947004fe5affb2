package transport

import (
	"time"

	proto "github.com/ystepanoff/blecte/protocol"
)

// CTEController programs the direction finding extension (DFE) of the RADIO.
// The CTE is appended after the CRC and its length is fixed by
// configuration; inline CTEInfo parsing stays off.
type CTEController struct {
	p      Peripheral
	timing proto.CTETiming
	length uint8
	limit  int
}

// Configure sets up AoA operation for a CTE of length 8 µs units, or turns
// the DFE off when length is 0. The same settings drive transmission and
// sampling.
func (c *CTEController) Configure(length uint8) error {
	if err := proto.ValidateCTELength(length); err != nil {
		return err
	}
	c.length = length
	if length == proto.CTELengthDisabled {
		c.p.Write(DFEMode, DFEModeDisabled)
		c.p.Write(DFECtrl1, 0)
		return nil
	}
	c.p.Write(DFEMode, DFEModeAoA)
	c.p.Write(CTEInlineConf, CTEInlineCtrlDisabled)
	c.p.Write(DFECtrl1, c.ctrl1(length))
	c.p.Write(DFECtrl2, c.ctrl2())
	return nil
}

// ConfigureCapture points sample DMA at samples. MAXCNT counts 32-bit words,
// one per IQ sample. An empty slice disables capture.
func (c *CTEController) ConfigureCapture(samples []proto.IQSample) {
	n := len(samples)
	if n > 0xFFFF {
		n = 0xFFFF
	}
	c.limit = n
	c.p.SetSampleBuffer(samples[:n])
	c.p.Write(DFEPacketMaxCnt, uint32(n))
}

// Captured returns how many samples the last reception stored, never more
// than the capacity given to ConfigureCapture.
func (c *CTEController) Captured() int {
	n := int(c.p.Read(DFEPacketAmount))
	if n > c.limit {
		return c.limit
	}
	return n
}

// Length is the CTE length last configured.
func (c *CTEController) Length() uint8 { return c.length }

func (c *CTEController) Timing() proto.CTETiming { return c.timing }

func (c *CTEController) ctrl1(length uint8) uint32 {
	return ((uint32(length) << DFECtrl1NumberOf8usPos) & DFECtrl1NumberOf8usMsk) |
		(DFECtrl1DFEInExtensionCRC << DFECtrl1DFEInExtensionPos) |
		(uint32(switchSpacingCode(c.timing.SwitchSpacing)) << DFECtrl1TSwitchSpacingPos) |
		(uint32(sampleSpacingCode(c.timing.SampleSpacingRef)) << DFECtrl1TSampleSpacingRefPos) |
		(uint32(c.timing.SampleType) << DFECtrl1SampleTypePos) |
		(uint32(sampleSpacingCode(c.timing.SampleSpacing)) << DFECtrl1TSampleSpacingPos)
}

// ctrl2 packs the signed offsets as two's complement fields.
func (c *CTEController) ctrl2() uint32 {
	return ((uint32(c.timing.SwitchOffset) & DFECtrl2TSwitchOffsetMsk) << DFECtrl2TSwitchOffsetPos) |
		((uint32(c.timing.SampleOffset) & DFECtrl2TSampleOffsetMsk) << DFECtrl2TSampleOffsetPos)
}

// switchSpacingCode returns the TSWITCHSPACING field value.
func switchSpacingCode(d time.Duration) uint8 {
	switch d {
	case 4 * time.Microsecond:
		return 1
	case 2 * time.Microsecond:
		return 2
	case 1 * time.Microsecond:
		return 3
	}
	return 0
}

// sampleSpacingCode returns the TSAMPLESPACING and TSAMPLESPACINGREF field
// value.
func sampleSpacingCode(d time.Duration) uint8 {
	switch d {
	case 4 * time.Microsecond:
		return 1
	case 2 * time.Microsecond:
		return 2
	case 1 * time.Microsecond:
		return 3
	case 500 * time.Nanosecond:
		return 4
	case 250 * time.Nanosecond:
		return 5
	case 125 * time.Nanosecond:
		return 6
	}
	return 0
}
