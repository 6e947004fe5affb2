package protocol

import (
	"slices"
	"time"

	"github.com/pkg/errors"
)

// SampleType selects what the RADIO stores for every CTE sample.
type SampleType uint8

const (
	SampleTypeIQ SampleType = iota
	SampleTypeMagPhase
)

// CTE structure on air: a 4 µs guard period, an 8 µs reference period on the
// first antenna, then alternating switch and sample slots until the end.
const (
	CTEUnit            = 8 * time.Microsecond
	CTEGuardPeriod     = 4 * time.Microsecond
	CTEReferencePeriod = 8 * time.Microsecond
)

// CTETiming holds the direction finding timing knobs. The defaults reproduce
// the values the firmware was developed with; switch and sample offsets in
// particular were never validated against an antenna array, so they are
// exposed instead of hard coded.
type CTETiming struct {
	// SwitchSpacing is the antenna switch period: 1, 2 or 4 µs.
	SwitchSpacing time.Duration
	// SampleSpacingRef is the sample period inside the reference period.
	SampleSpacingRef time.Duration
	// SampleSpacing is the sample period after the reference period.
	SampleSpacing time.Duration
	SampleType    SampleType
	// SwitchOffset and SampleOffset shift the first antenna switch and the
	// first sample, in 16 MHz clock cycles.
	SwitchOffset int16
	SampleOffset int16
}

// DefaultCTETiming returns IQ sampling every 125 ns with a 1 µs switch period.
func DefaultCTETiming() CTETiming {
	return CTETiming{
		SwitchSpacing:    1 * time.Microsecond,
		SampleSpacingRef: 125 * time.Nanosecond,
		SampleSpacing:    125 * time.Nanosecond,
		SampleType:       SampleTypeIQ,
	}
}

var (
	switchSpacings = []time.Duration{4 * time.Microsecond, 2 * time.Microsecond, 1 * time.Microsecond}
	sampleSpacings = []time.Duration{
		4 * time.Microsecond, 2 * time.Microsecond, 1 * time.Microsecond,
		500 * time.Nanosecond, 250 * time.Nanosecond, 125 * time.Nanosecond,
	}
)

// Validate checks the spacings against what the hardware can do.
func (t CTETiming) Validate() error {
	if !slices.Contains(switchSpacings, t.SwitchSpacing) {
		return errors.Errorf("unsupported antenna switch spacing %v", t.SwitchSpacing)
	}
	if !slices.Contains(sampleSpacings, t.SampleSpacingRef) {
		return errors.Errorf("unsupported reference sample spacing %v", t.SampleSpacingRef)
	}
	if !slices.Contains(sampleSpacings, t.SampleSpacing) {
		return errors.Errorf("unsupported sample spacing %v", t.SampleSpacing)
	}
	if t.SampleType > SampleTypeMagPhase {
		return errors.Errorf("unsupported sample type %d", t.SampleType)
	}
	return nil
}

// ExpectedSamples estimates how many samples a CTE of length units (8 µs
// each) yields, for sizing capture buffers. Sample slots take half of the
// time after the reference period.
func (t CTETiming) ExpectedSamples(length uint8) int {
	if length < MinCTELength || t.SampleSpacingRef <= 0 || t.SampleSpacing <= 0 {
		return 0
	}
	total := time.Duration(length) * CTEUnit
	n := int(CTEReferencePeriod / t.SampleSpacingRef)
	rest := total - CTEGuardPeriod - CTEReferencePeriod
	if rest > 0 {
		n += int(rest / 2 / t.SampleSpacing)
	}
	return n
}
