package transport

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	proto "github.com/ystepanoff/blecte/protocol"
)

// Session is the driver side view of what the radio is doing.
type Session uint8

const (
	SessionUninitialised Session = iota
	SessionIdle
	SessionTransmitting
	SessionReceiving
)

func (s Session) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionTransmitting:
		return "transmitting"
	case SessionReceiving:
		return "receiving"
	}
	return "uninitialised"
}

const (
	// pollCheckInterval is how many register polls happen between deadline checks.
	pollCheckInterval = 256

	maxLen = proto.MaxPDUSize - proto.PDUHeaderSize
)

// Radio owns the RADIO peripheral configuration for BLE advertising channel
// traffic. It keeps the TX and RX PDU buffers so their addresses stay fixed
// while DMA may reference them.
type Radio struct {
	p   Peripheral
	cfg Config
	cte CTEController

	busy    atomic.Bool
	session Session
	channel proto.ChannelIndex

	txBuf [proto.MaxPDUSize]byte
	rxBuf [proto.MaxPDUSize]byte
}

func NewRadio(p Peripheral, cfg Config) *Radio {
	r := &Radio{p: p, cfg: cfg}
	r.cte = CTEController{p: p, timing: cfg.CTE}
	return r
}

// Init starts the high frequency clock, power cycles the RADIO and programs
// the BLE 1M advertising channel packet format. It must run before any
// transmit or receive; running it again reproduces the same configuration.
func (r *Radio) Init(ctx context.Context) error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}
	if !r.busy.CompareAndSwap(false, true) {
		return proto.ErrBusy
	}
	defer r.busy.Store(false)

	r.debug("Init:hfclk")
	r.p.Write(ClockEventHFCLKStarted, 0)
	r.p.Write(ClockTaskHFCLKStart, 1)
	if err := r.waitEvent(ctx, ClockEventHFCLKStarted); err != nil {
		return err
	}

	// Power cycle so every register starts from its reset value.
	r.p.Write(Power, 0)
	r.p.Write(Power, 1)

	r.p.Write(TxPower, uint32(uint8(r.cfg.TxPower)))
	r.p.Write(Mode, ModeBle1Mbit)

	// CRC over the PDU only, Bluetooth Core Vol 6, Part B, 3.1.1.
	r.p.Write(CRCCnf, CRCCnfLenThree|CRCCnfSkipAddr)
	r.p.Write(CRCPoly, proto.CRCPoly)
	r.p.Write(CRCInit, proto.CRCInit)

	r.p.Write(TIFS, proto.TIFS)

	// Logical address 0 = BASE0 + PREFIX0.AP0 for both directions.
	r.p.Write(Base0, proto.AccessAddressBase)
	r.p.Write(Prefix0, proto.AccessAddressPrefix)
	r.p.Write(TxAddress, 0)
	r.p.Write(RxAddresses, 1)

	// S0 carries the header byte, LENGTH the length byte, no S1.
	r.p.Write(PCNF0,
		(1<<PCNF0S0LenPos)|
			(8<<PCNF0LFLenPos)|
			(0<<PCNF0S1LenPos)|
			(PCNF0PLen8bit<<PCNF0PLenPos)|
			(PCNF0CRCIncExc<<PCNF0CRCIncPos))

	// MAXLEN excludes S0 and LENGTH, so DMA never runs past MaxPDUSize bytes.
	r.p.Write(PCNF1,
		((maxLen<<PCNF1MaxLenPos)&PCNF1MaxLenMsk)|
			(0<<PCNF1StatLenPos)|
			(3<<PCNF1BaLenPos)|
			(PCNF1EndianLE<<PCNF1EndianPos)|
			PCNF1WhiteEn)

	r.session = SessionIdle
	r.info("Init:done", slog.Int("txpower", int(r.cfg.TxPower)))
	return nil
}

// SetChannel tunes the RADIO to ch and loads its whitening seed.
func (r *Radio) SetChannel(ch proto.ChannelIndex) error {
	if err := r.acquire(); err != nil {
		return err
	}
	defer r.release()
	return r.setChannel(ch)
}

// TransmitSync sends whatever the packet buffer holds once on the current
// channel and blocks until the RADIO has disabled itself again.
func (r *Radio) TransmitSync(ctx context.Context) error {
	if err := r.acquire(); err != nil {
		return err
	}
	defer r.release()
	return r.transmitSync(ctx)
}

// CTE returns the controller for the direction finding extension.
func (r *Radio) CTE() *CTEController { return &r.cte }

func (r *Radio) Session() Session { return r.session }

func (r *Radio) Channel() proto.ChannelIndex { return r.channel }

func (r *Radio) Initialised() bool { return r.session != SessionUninitialised }

func (r *Radio) acquire() error {
	if !r.busy.CompareAndSwap(false, true) {
		return proto.ErrBusy
	}
	if r.session == SessionUninitialised {
		r.busy.Store(false)
		return proto.ErrNotInitialised
	}
	return nil
}

func (r *Radio) release() {
	r.session = SessionIdle
	r.busy.Store(false)
}

func (r *Radio) setChannel(ch proto.ChannelIndex) error {
	fd, err := proto.ChannelMap(ch)
	if err != nil {
		return err
	}
	r.p.Write(Frequency, uint32(fd.OffsetMHz))
	r.p.Write(DataWhiteIV, uint32(fd.WhiteningSeed)) // Bluetooth Core Vol 6, Part B, 3.2
	r.channel = ch
	r.trace("setChannel", slog.Int("channel", int(ch)), slog.Int("offset", int(fd.OffsetMHz)))
	return nil
}

// transmitSync walks TXRU -> TX -> DISABLED through the READY->START and
// PHYEND->DISABLE shortcuts, nRF52833 datasheet 6.20.5.
func (r *Radio) transmitSync(ctx context.Context) error {
	r.session = SessionTransmitting
	r.p.Write(Shorts, ShortsReadyStart|ShortsPhyEndDisable)
	r.p.Write(EventDisabled, 0)
	r.p.Write(TaskTxEn, 1)
	err := r.waitEvent(ctx, EventDisabled)
	r.session = SessionIdle
	return err
}

// receiveOnce listens for one frame; the caller checks CRCSTATUS and the
// packet buffer afterwards.
func (r *Radio) receiveOnce(ctx context.Context) error {
	r.session = SessionReceiving
	for _, ev := range radioEvents {
		r.p.Write(ev, 0)
	}
	r.p.Write(Shorts, ShortsReadyStart|ShortsPhyEndDisable)
	r.p.Write(TaskRxEn, 1)
	err := r.waitEvent(ctx, EventDisabled)
	r.session = SessionIdle
	return err
}

// waitEvent busy-polls ev. Without a deadline on ctx this never gives up, the
// way the hardware sequence is specified. With one, the RADIO is forced back
// to DISABLED before ErrTimeout is returned so DMA no longer targets the
// caller's buffers.
func (r *Radio) waitEvent(ctx context.Context, ev Register) error {
	for i := 1; r.p.Read(ev) == 0; i++ {
		if i%pollCheckInterval != 0 {
			continue
		}
		if err := expired(ctx); err != nil {
			r.warn("waitEvent:timeout", slog.String("event", ev.String()))
			if ev != ClockEventHFCLKStarted {
				r.abort()
			}
			return errors.Wrapf(err, "waiting for %s", ev)
		}
	}
	return nil
}

func (r *Radio) abort() {
	r.p.Write(Shorts, 0)
	r.p.Write(TaskDisable, 1)
	for r.p.Read(State) != StateDisabled {
	}
	r.session = SessionIdle
}

// expired checks ctx without relying on its Done channel being closed by
// another goroutine, which a busy-polling caller would starve on TinyGo.
func expired(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(proto.ErrTimeout, err.Error())
	}
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return errors.Wrap(proto.ErrTimeout, context.DeadlineExceeded.Error())
	}
	return nil
}
