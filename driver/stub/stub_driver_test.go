//go:build !tinygo && !baremetal

package stub

import (
	"bytes"
	"testing"

	proto "github.com/ystepanoff/blecte/protocol"
	"github.com/ystepanoff/blecte/transport"
)

// configure programs d the way transport.Radio.Init does for channel ch.
func configure(d *Driver, ch proto.ChannelIndex, whiten bool) {
	fd, _ := proto.ChannelMap(ch)
	d.Write(transport.Power, 1)
	d.Write(transport.CRCPoly, proto.CRCPoly)
	d.Write(transport.CRCInit, proto.CRCInit)
	d.Write(transport.Base0, proto.AccessAddressBase)
	d.Write(transport.Prefix0, proto.AccessAddressPrefix)
	pcnf1 := uint32(37 | 3<<transport.PCNF1BaLenPos)
	if whiten {
		pcnf1 |= transport.PCNF1WhiteEn
	}
	d.Write(transport.PCNF1, pcnf1)
	d.Write(transport.Frequency, uint32(fd.OffsetMHz))
	d.Write(transport.DataWhiteIV, uint32(fd.WhiteningSeed))
	d.Write(transport.Shorts, transport.ShortsReadyStart|transport.ShortsPhyEndDisable)
}

func TestTransmitFramesAir(t *testing.T) {
	d := New()
	configure(d, 38, true)
	pdu := []byte{0x42, 7, 1, 2, 3, 4, 5, 0xC6, 0xAB}
	d.SetPacketBuffer(pdu)
	d.Write(transport.TaskTxEn, 1)

	if d.Read(transport.EventDisabled) != 1 || d.Read(transport.State) != transport.StateDisabled {
		t.Fatal("transmission did not end in DISABLED")
	}
	txs := d.Transmissions()
	if len(txs) != 1 {
		t.Fatalf("%d transmissions, want 1", len(txs))
	}
	if !bytes.Equal(txs[0].Air, proto.AirPacket(38, pdu)) {
		t.Errorf("Air = %x, want %x", txs[0].Air, proto.AirPacket(38, pdu))
	}
	if txs[0].Channel != 38 || txs[0].FrequencyOffset != 26 {
		t.Errorf("channel %d offset %d, want 38 offset 26", txs[0].Channel, txs[0].FrequencyOffset)
	}
}

func TestTransmitWithoutShortcuts(t *testing.T) {
	d := New()
	configure(d, 37, true)
	d.Write(transport.Shorts, 0)
	d.SetPacketBuffer([]byte{0x42, 6, 1, 2, 3, 4, 5, 6})

	d.Write(transport.TaskTxEn, 1)
	if d.Read(transport.State) != transport.StateTxIdle || len(d.Transmissions()) != 0 {
		t.Fatal("TXEN without READY_START should stop in TXIDLE")
	}
	d.Write(transport.TaskStart, 1)
	if d.Read(transport.EventEnd) != 1 || len(d.Transmissions()) != 1 {
		t.Fatal("START did not transmit")
	}
	if d.Read(transport.EventDisabled) != 0 {
		t.Error("DISABLED set without END_DISABLE")
	}
	d.Write(transport.TaskDisable, 1)
	if d.Read(transport.State) != transport.StateDisabled {
		t.Error("TASKS_DISABLE did not disable")
	}
}

func TestConnectedReceive(t *testing.T) {
	tx, rx := New(), New()
	Connect(tx, rx)
	configure(tx, 37, true)
	configure(rx, 37, true)

	pdu := []byte{0x42, 8, 1, 2, 3, 4, 5, 0xC6, 0x10, 0x20}
	tx.SetPacketBuffer(pdu)
	buf := make([]byte, proto.MaxPDUSize)
	rx.SetPacketBuffer(buf)

	rx.Write(transport.TaskRxEn, 1)
	if rx.Read(transport.State) != transport.StateRx {
		t.Fatalf("STATE = %d, want RX", rx.Read(transport.State))
	}
	tx.Write(transport.TaskTxEn, 1)

	if rx.Read(transport.EventDisabled) != 1 {
		t.Fatal("receiver did not complete")
	}
	if rx.Read(transport.CRCStatus) != transport.CRCStatusOk {
		t.Error("CRCSTATUS not OK")
	}
	if !bytes.Equal(buf[:len(pdu)], pdu) {
		t.Errorf("received %x, want %x", buf[:len(pdu)], pdu)
	}
}

func TestMisconfiguredWhitening(t *testing.T) {
	tx, rx := New(), New()
	Connect(tx, rx)
	configure(tx, 39, false)
	configure(rx, 39, true)

	tx.SetPacketBuffer([]byte{0x42, 6, 1, 2, 3, 4, 5, 6})
	rx.SetPacketBuffer(make([]byte, proto.MaxPDUSize))
	tx.Write(transport.TaskTxEn, 1)
	rx.Write(transport.TaskRxEn, 1)

	if rx.Read(transport.EventDisabled) != 1 {
		t.Fatal("receiver did not complete")
	}
	if rx.Read(transport.CRCStatus) == transport.CRCStatusOk {
		t.Error("CRCSTATUS OK for a frame sent without whitening")
	}
}

func TestReceiveIgnoresOtherFrequencies(t *testing.T) {
	d := New()
	configure(d, 37, true)
	d.SetPacketBuffer(make([]byte, proto.MaxPDUSize))
	d.Inject(38, proto.AirPacket(38, []byte{0x42, 6, 1, 2, 3, 4, 5, 6}), 0)

	d.Write(transport.TaskRxEn, 1)
	if d.Read(transport.EventDisabled) != 0 {
		t.Error("frame on channel 38 received on channel 37")
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}

func TestPowerOffResets(t *testing.T) {
	d := New()
	configure(d, 37, true)
	d.Write(transport.ClockTaskHFCLKStart, 1)
	d.Write(transport.Power, 0)

	if d.Read(transport.CRCPoly) != 0 || d.Read(transport.PCNF1) != 0 {
		t.Error("configuration survived power off")
	}
	if d.Read(transport.ClockEventHFCLKStarted) != 1 {
		t.Error("HFCLK state lost on RADIO power off")
	}

	d.Write(transport.TaskTxEn, 1)
	if len(d.Transmissions()) != 0 {
		t.Error("transmitted while powered off")
	}
}

func TestRingBufferOverwritesOldest(t *testing.T) {
	var rb ringBuffer[int]
	for i := 0; i < ringCapacity+3; i++ {
		rb.push(i)
	}
	got := rb.snapshot()
	if len(got) != ringCapacity || got[0] != 3 || got[len(got)-1] != ringCapacity+2 {
		t.Errorf("snapshot = %v..%v (%d), want 3..%d", got[0], got[len(got)-1], len(got), ringCapacity+2)
	}
	for i := 3; i < ringCapacity+3; i++ {
		v, ok := rb.pop()
		if !ok || v != i {
			t.Fatalf("pop() = %d, %v, want %d", v, ok, i)
		}
	}
	if _, ok := rb.pop(); ok {
		t.Error("pop() on empty buffer ok")
	}
}
