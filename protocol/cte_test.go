package protocol

import (
	"testing"
	"time"
)

func TestDefaultCTETimingValid(t *testing.T) {
	if err := DefaultCTETiming().Validate(); err != nil {
		t.Errorf("DefaultCTETiming().Validate() error = %v", err)
	}
}

func TestCTETimingValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CTETiming)
	}{
		{"switch 3us", func(c *CTETiming) { c.SwitchSpacing = 3 * time.Microsecond }},
		{"switch 500ns", func(c *CTETiming) { c.SwitchSpacing = 500 * time.Nanosecond }},
		{"ref 100ns", func(c *CTETiming) { c.SampleSpacingRef = 100 * time.Nanosecond }},
		{"sample 0", func(c *CTETiming) { c.SampleSpacing = 0 }},
		{"sample type", func(c *CTETiming) { c.SampleType = 7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCTETiming()
			tt.modify(&c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestExpectedSamples(t *testing.T) {
	c := DefaultCTETiming()
	tests := []struct {
		length uint8
		want   int
	}{
		{0, 0},
		{1, 0},
		{2, 64 + 16},   // 16 µs: 8 µs reference, 4 µs of slots
		{20, 64 + 592}, // 160 µs: 8 µs reference, 148 µs of slots
	}
	for _, tt := range tests {
		if got := c.ExpectedSamples(tt.length); got != tt.want {
			t.Errorf("ExpectedSamples(%d) = %d, want %d", tt.length, got, tt.want)
		}
	}

	c.SampleSpacingRef = time.Microsecond
	c.SampleSpacing = time.Microsecond
	if got := c.ExpectedSamples(20); got != 8+74 {
		t.Errorf("ExpectedSamples(20) at 1µs = %d, want %d", got, 8+74)
	}
}
