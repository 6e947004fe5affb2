package protocol

import (
	"testing"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
)

func TestChannelMapTable(t *testing.T) {
	tests := []struct {
		ch         ChannelIndex
		wantOffset uint8
	}{
		{0, 4},
		{1, 6},
		{10, 24},
		{11, 28},
		{12, 30},
		{36, 78},
		{37, 2},
		{38, 26},
		{39, 80},
	}

	for _, tt := range tests {
		fd, err := ChannelMap(tt.ch)
		if err != nil {
			t.Fatalf("ChannelMap(%d) error = %v", tt.ch, err)
		}
		if fd.OffsetMHz != tt.wantOffset {
			t.Errorf("ChannelMap(%d).OffsetMHz = %d, want %d", tt.ch, fd.OffsetMHz, tt.wantOffset)
		}
		if fd.WhiteningSeed != uint8(tt.ch) {
			t.Errorf("ChannelMap(%d).WhiteningSeed = %d, want %d", tt.ch, fd.WhiteningSeed, tt.ch)
		}
	}
}

func TestChannelMapAllChannels(t *testing.T) {
	seen := make(map[uint8]ChannelIndex)
	for ch := ChannelIndex(0); ch < ChannelCount; ch++ {
		fd, err := ChannelMap(ch)
		if err != nil {
			t.Fatalf("ChannelMap(%d) error = %v", ch, err)
		}

		var want uint8
		switch {
		case ch <= 10:
			want = 4 + 2*uint8(ch)
		case ch <= 36:
			want = 28 + 2*(uint8(ch)-11)
		case ch == 37:
			want = 2
		case ch == 38:
			want = 26
		default:
			want = 80
		}
		if fd.OffsetMHz != want {
			t.Errorf("ChannelMap(%d).OffsetMHz = %d, want %d", ch, fd.OffsetMHz, want)
		}

		// Every channel sits on its own 2 MHz slot.
		if prev, dup := seen[fd.OffsetMHz]; dup {
			t.Errorf("channels %d and %d share offset %d", prev, ch, fd.OffsetMHz)
		}
		seen[fd.OffsetMHz] = ch
	}
}

func TestChannelMapRejectsOutOfRange(t *testing.T) {
	for _, ch := range []ChannelIndex{40, 41, 125, 255} {
		_, err := ChannelMap(ch)
		if !errors.Is(err, ErrInvalidChannel) {
			t.Errorf("ChannelMap(%d) error = %v, want %v", ch, err, ErrInvalidChannel)
		}
	}
}

func TestFrequency(t *testing.T) {
	fd, err := ChannelMap(39)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := fd.Frequency(), 2480*physic.MegaHertz; got != want {
		t.Errorf("Frequency() = %v, want %v", got, want)
	}
}

func TestIsAdvertising(t *testing.T) {
	for ch := ChannelIndex(0); ch < 45; ch++ {
		want := ch == 37 || ch == 38 || ch == 39
		if got := ch.IsAdvertising(); got != want {
			t.Errorf("ChannelIndex(%d).IsAdvertising() = %v, want %v", ch, got, want)
		}
	}
}
