//go:build !tinygo && !baremetal

package stub

import (
	"encoding/binary"
	"sync"
	"time"

	proto "github.com/ystepanoff/blecte/protocol"
	"github.com/ystepanoff/blecte/transport"
)

// Driver is an in-memory RADIO for host-side testing. It keeps a register
// file, runs the TXEN/RXEN/START/DISABLE tasks against it and frames
// packets with the software PHY model, so a misconfigured CRC, whitening or
// access address shows up as frames that do not decode.
type Driver struct {
	mu      sync.Mutex
	regs    [transport.NumRegisters]uint32
	writes  []RegisterWrite
	packet  []byte
	samples []proto.IQSample

	air     ringBuffer[Frame]
	sent    ringBuffer[Transmission]
	peers   []*Driver
	stalled bool
}

// RegisterWrite is one entry of the write log.
type RegisterWrite struct {
	Register transport.Register
	Value    uint32
}

// Frame is a packet on air as seen by a receiver tuned to FrequencyOffset.
type Frame struct {
	FrequencyOffset uint8
	Air             []byte
	// CTELength in 8 µs units, 0 for none.
	CTELength uint8
	// Samples overrides the synthetic IQ samples produced for the CTE.
	Samples []proto.IQSample
}

// Transmission records one completed TXEN.
type Transmission struct {
	Channel         proto.ChannelIndex
	FrequencyOffset uint8
	TxPower         int8
	PDU             []byte
	Air             []byte
	CTELength       uint8
}

func New() *Driver {
	return &Driver{}
}

// Connect makes every transmission of tx appear on air for rx.
func Connect(tx, rx *Driver) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.peers = append(tx.peers, rx)
}

func (d *Driver) Write(reg transport.Register, value uint32) {
	d.mu.Lock()
	d.writes = append(d.writes, RegisterWrite{Register: reg, Value: value})
	d.regs[reg] = value

	var out *Frame
	if value != 0 {
		switch reg {
		case transport.ClockTaskHFCLKStart:
			if !d.stalled {
				d.regs[transport.ClockEventHFCLKStarted] = 1
			}
		case transport.TaskTxEn:
			out = d.ramp(transport.StateTxIdle)
		case transport.TaskRxEn:
			d.ramp(transport.StateRxIdle)
		case transport.TaskStart:
			out = d.start()
		case transport.TaskDisable:
			d.disable()
		}
	}
	if reg == transport.Power && value == 0 {
		d.powerOff()
	}
	peers := d.peers
	d.mu.Unlock()

	if out != nil {
		for _, p := range peers {
			p.deliver(*out)
		}
	}
}

func (d *Driver) Read(reg transport.Register) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[reg]
}

func (d *Driver) SetPacketBuffer(buf []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.packet = buf
}

func (d *Driver) SetSampleBuffer(buf []proto.IQSample) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.samples = buf
}

// Inject queues an air packet for the next reception on ch.
func (d *Driver) Inject(ch proto.ChannelIndex, air []byte, cteLength uint8) {
	fd, _ := proto.ChannelMap(ch)
	d.deliver(Frame{FrequencyOffset: fd.OffsetMHz, Air: append([]byte(nil), air...), CTELength: cteLength})
}

// InjectFrame queues f as is.
func (d *Driver) InjectFrame(f Frame) { d.deliver(f) }

// SetStalled stops the clock and radio tasks from ever completing.
func (d *Driver) SetStalled(stalled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stalled = stalled
}

// Writes returns the register write log.
func (d *Driver) Writes() []RegisterWrite {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]RegisterWrite(nil), d.writes...)
}

// LastWrite returns the last value written to reg.
func (d *Driver) LastWrite(reg transport.Register) (uint32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.writes) - 1; i >= 0; i-- {
		if d.writes[i].Register == reg {
			return d.writes[i].Value, true
		}
	}
	return 0, false
}

func (d *Driver) ResetWrites() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = d.writes[:0]
}

// Transmissions returns the most recent transmissions, oldest first.
func (d *Driver) Transmissions() []Transmission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent.snapshot()
}

// Pending reports how many frames wait to be received.
func (d *Driver) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.air.count
}

func (d *Driver) deliver(f Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.air.push(f)
	if d.regs[transport.State] == transport.StateRx {
		d.receive()
	}
}

func (d *Driver) powerOff() {
	clock := d.regs[transport.ClockEventHFCLKStarted]
	d.regs = [transport.NumRegisters]uint32{}
	d.regs[transport.ClockEventHFCLKStarted] = clock
	d.packet = nil
	d.samples = nil
}

func (d *Driver) ramp(idle uint32) *Frame {
	if d.stalled || d.regs[transport.Power] == 0 {
		return nil
	}
	d.regs[transport.State] = idle
	d.regs[transport.EventReady] = 1
	if d.regs[transport.Shorts]&transport.ShortsReadyStart != 0 {
		return d.start()
	}
	return nil
}

func (d *Driver) start() *Frame {
	switch d.regs[transport.State] {
	case transport.StateTxIdle:
		d.regs[transport.State] = transport.StateTx
		f := d.transmit()
		d.end(transport.StateTxIdle)
		return &f
	case transport.StateRxIdle:
		d.regs[transport.State] = transport.StateRx
		d.receive()
	}
	return nil
}

func (d *Driver) end(idle uint32) {
	d.regs[transport.EventEnd] = 1
	d.regs[transport.EventPhyEnd] = 1
	d.regs[transport.State] = idle
	if d.regs[transport.Shorts]&(transport.ShortsEndDisable|transport.ShortsPhyEndDisable) != 0 {
		d.disable()
	}
}

func (d *Driver) disable() {
	d.regs[transport.State] = transport.StateDisabled
	d.regs[transport.EventDisabled] = 1
}

// accessAddress assembles logical address 0 from BASE0 and PREFIX0.
func (d *Driver) accessAddress() uint32 {
	return (d.regs[transport.Prefix0]&0xFF)<<24 | d.regs[transport.Base0]>>8
}

func (d *Driver) whitening() (uint8, bool) {
	return uint8(d.regs[transport.DataWhiteIV] & 0x3F), d.regs[transport.PCNF1]&transport.PCNF1WhiteEn != 0
}

func (d *Driver) maxLen() int {
	return int(d.regs[transport.PCNF1] & transport.PCNF1MaxLenMsk)
}

func (d *Driver) cteLength() uint8 {
	if d.regs[transport.DFEMode] == transport.DFEModeDisabled {
		return 0
	}
	return uint8(d.regs[transport.DFECtrl1] & transport.DFECtrl1NumberOf8usMsk)
}

func (d *Driver) transmit() Frame {
	n := 0
	if len(d.packet) >= proto.PDUHeaderSize {
		n = proto.PDUHeaderSize + min(int(d.packet[1]), d.maxLen())
		n = min(n, len(d.packet))
	}
	pdu := append([]byte(nil), d.packet[:n]...)

	seed, whiten := d.whitening()
	air := proto.AirPacketWith(pdu, d.regs[transport.CRCPoly], d.regs[transport.CRCInit], seed, whiten)
	binary.LittleEndian.PutUint32(air[1:proto.AirHeaderSize], d.accessAddress())

	offset := uint8(d.regs[transport.Frequency])
	d.sent.push(Transmission{
		Channel:         proto.ChannelIndex(seed),
		FrequencyOffset: offset,
		TxPower:         int8(uint8(d.regs[transport.TxPower])),
		PDU:             pdu,
		Air:             air,
		CTELength:       d.cteLength(),
	})
	return Frame{FrequencyOffset: offset, Air: air, CTELength: d.cteLength()}
}

// receive takes the next frame on the tuned frequency. Without one the RADIO
// stays in RX until a frame is delivered or the task is disabled.
func (d *Driver) receive() {
	offset := uint8(d.regs[transport.Frequency])
	for {
		f, ok := d.air.pop()
		if !ok {
			return
		}
		if f.FrequencyOffset != offset || len(f.Air) < proto.AirHeaderSize+proto.PDUHeaderSize {
			continue
		}
		if binary.LittleEndian.Uint32(f.Air[1:proto.AirHeaderSize]) != d.accessAddress() {
			continue
		}
		d.demodulate(f)
		d.regs[transport.EventAddress] = 1
		d.end(transport.StateRxIdle)
		return
	}
}

func (d *Driver) demodulate(f Frame) {
	body := append([]byte(nil), f.Air[proto.AirHeaderSize:]...)
	seed, whiten := d.whitening()
	if whiten {
		proto.Whiten(body, seed)
	}

	length := int(body[1])
	n := proto.PDUHeaderSize + min(length, d.maxLen())
	copy(d.packet, body[:min(n, len(body))])

	ok := length <= d.maxLen() && proto.PDUHeaderSize+length+proto.CRCSize <= len(body)
	if ok {
		pdu := body[:proto.PDUHeaderSize+length]
		crc := proto.ReadCRC(body[len(pdu):])
		ok = crc == proto.CRC24(pdu, d.regs[transport.CRCPoly], d.regs[transport.CRCInit])
	}
	d.regs[transport.CRCStatus] = 0
	if ok {
		d.regs[transport.CRCStatus] = transport.CRCStatusOk
		d.regs[transport.EventCRCOk] = 1
	} else {
		d.regs[transport.EventCRCError] = 1
	}

	d.regs[transport.DFEPacketAmount] = 0
	length8us := min(f.CTELength, d.cteLength())
	if length8us == 0 {
		return
	}
	samples := f.Samples
	if samples == nil {
		samples = syntheticSamples(d.timing().ExpectedSamples(length8us))
	}
	c := min(len(samples), len(d.samples), int(d.regs[transport.DFEPacketMaxCnt]))
	copy(d.samples, samples[:c])
	d.regs[transport.DFEPacketAmount] = uint32(c)
}

var spacings = [...]time.Duration{
	0, 4 * time.Microsecond, 2 * time.Microsecond, 1 * time.Microsecond,
	500 * time.Nanosecond, 250 * time.Nanosecond, 125 * time.Nanosecond,
}

func spacing(code uint32) time.Duration {
	if int(code) < len(spacings) {
		return spacings[code]
	}
	return 0
}

// timing decodes DFECTRL1 back into sample spacings.
func (d *Driver) timing() proto.CTETiming {
	v := d.regs[transport.DFECtrl1]
	return proto.CTETiming{
		SwitchSpacing:    spacing(v >> transport.DFECtrl1TSwitchSpacingPos & 0x7),
		SampleSpacingRef: spacing(v >> transport.DFECtrl1TSampleSpacingRefPos & 0x7),
		SampleSpacing:    spacing(v >> transport.DFECtrl1TSampleSpacingPos & 0x7),
		SampleType:       proto.SampleType(v >> transport.DFECtrl1SampleTypePos & 0x1),
	}
}

// syntheticSamples is a tone rotating by 45° per sample.
func syntheticSamples(n int) []proto.IQSample {
	tone := [8]int16{1000, 707, 0, -707, -1000, -707, 0, 707}
	out := make([]proto.IQSample, n)
	for k := range out {
		out[k] = proto.IQSample{I: tone[k%8], Q: tone[(k+6)%8]}
	}
	return out
}

const ringCapacity = 64

type ringBuffer[T any] struct {
	data       [ringCapacity]T
	head, tail int // head = next pop, tail = next push
	count      int
}

func (rb *ringBuffer[T]) push(v T) {
	if rb.count == ringCapacity {
		// Overwrite the oldest when buffer is full to keep memory bounded
		var zero T
		rb.data[rb.tail] = zero
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = v
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer[T]) pop() (T, bool) {
	var zero T
	if rb.count == 0 {
		return zero, false
	}
	v := rb.data[rb.head]
	rb.data[rb.head] = zero
	rb.head = (rb.head + 1) % ringCapacity
	rb.count--
	return v, true
}

func (rb *ringBuffer[T]) snapshot() []T {
	out := make([]T, 0, rb.count)
	i := rb.head
	for c := 0; c < rb.count; c++ {
		out = append(out, rb.data[i])
		i = (i + 1) % ringCapacity
	}
	return out
}
