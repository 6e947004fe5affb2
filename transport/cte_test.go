package transport

import (
	"testing"
	"time"

	proto "github.com/ystepanoff/blecte/protocol"
)

type regFile struct {
	regs    [NumRegisters]uint32
	samples []proto.IQSample
}

func (f *regFile) Write(reg Register, v uint32)         { f.regs[reg] = v }
func (f *regFile) Read(reg Register) uint32             { return f.regs[reg] }
func (f *regFile) SetPacketBuffer([]byte)               {}
func (f *regFile) SetSampleBuffer(buf []proto.IQSample) { f.samples = buf }

func TestSpacingCodes(t *testing.T) {
	tests := []struct {
		d      time.Duration
		sw     uint8
		sample uint8
	}{
		{4 * time.Microsecond, 1, 1},
		{2 * time.Microsecond, 2, 2},
		{1 * time.Microsecond, 3, 3},
		{500 * time.Nanosecond, 0, 4},
		{250 * time.Nanosecond, 0, 5},
		{125 * time.Nanosecond, 0, 6},
		{3 * time.Microsecond, 0, 0},
	}
	for _, tt := range tests {
		if got := switchSpacingCode(tt.d); got != tt.sw {
			t.Errorf("switchSpacingCode(%v) = %d, want %d", tt.d, got, tt.sw)
		}
		if got := sampleSpacingCode(tt.d); got != tt.sample {
			t.Errorf("sampleSpacingCode(%v) = %d, want %d", tt.d, got, tt.sample)
		}
	}
}

func TestCTEConfigure(t *testing.T) {
	timing := proto.CTETiming{
		SwitchSpacing:    2 * time.Microsecond,
		SampleSpacingRef: 1 * time.Microsecond,
		SampleSpacing:    1 * time.Microsecond,
		SwitchOffset:     -1,
		SampleOffset:     3,
	}
	f := &regFile{}
	c := CTEController{p: f, timing: timing}

	if err := c.Configure(2); err != nil {
		t.Fatalf("Configure(2) error = %v", err)
	}
	if f.regs[DFEMode] != DFEModeAoA {
		t.Errorf("DFEMODE = %d, want %d", f.regs[DFEMode], DFEModeAoA)
	}
	// 2 units, CTE after CRC, 2 µs switching, 1 µs sampling.
	if want := uint32(2 | 1<<7 | 2<<8 | 3<<12 | 3<<16); f.regs[DFECtrl1] != want {
		t.Errorf("DFECTRL1 = 0x%X, want 0x%X", f.regs[DFECtrl1], want)
	}
	if want := uint32(0x1FFF | 3<<16); f.regs[DFECtrl2] != want {
		t.Errorf("DFECTRL2 = 0x%X, want 0x%X", f.regs[DFECtrl2], want)
	}
	if c.Length() != 2 {
		t.Errorf("Length() = %d, want 2", c.Length())
	}

	if err := c.Configure(1); err == nil {
		t.Error("Configure(1) error = nil, want error")
	}
	if err := c.Configure(0); err != nil {
		t.Fatalf("Configure(0) error = %v", err)
	}
	if f.regs[DFEMode] != DFEModeDisabled {
		t.Errorf("DFEMODE = %d, want disabled", f.regs[DFEMode])
	}
}

func TestCTECaptured(t *testing.T) {
	f := &regFile{}
	c := CTEController{p: f, timing: proto.DefaultCTETiming()}

	c.ConfigureCapture(make([]proto.IQSample, 8))
	if f.regs[DFEPacketMaxCnt] != 8 || len(f.samples) != 8 {
		t.Errorf("MAXCNT = %d, buffer %d, want 8", f.regs[DFEPacketMaxCnt], len(f.samples))
	}

	f.regs[DFEPacketAmount] = 5
	if got := c.Captured(); got != 5 {
		t.Errorf("Captured() = %d, want 5", got)
	}
	f.regs[DFEPacketAmount] = 100
	if got := c.Captured(); got != 8 {
		t.Errorf("Captured() = %d, want 8", got)
	}

	c.ConfigureCapture(nil)
	if f.regs[DFEPacketMaxCnt] != 0 {
		t.Errorf("MAXCNT = %d, want 0", f.regs[DFEPacketMaxCnt])
	}
}
