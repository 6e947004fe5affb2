package transport

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	proto "github.com/ystepanoff/blecte/protocol"
)

// Receiver listens on one channel for advertisements from one address and
// captures the IQ samples of their CTE.
type Receiver struct {
	radio     *Radio
	discarded uint32
}

func NewReceiver(r *Radio) *Receiver {
	return &Receiver{radio: r}
}

// Receive blocks until a frame with a valid CRC, an ADV_NONCONN_IND header
// and filter.Address arrives on filter.Channel, and fills result from it.
// Other frames are dropped and listening starts over. result.Samples is the
// IQ capture buffer and must stay untouched until Receive returns.
func (rc *Receiver) Receive(ctx context.Context, filter proto.ReceptionFilter, result *proto.ReceptionResult) error {
	if err := filter.Validate(); err != nil {
		return err
	}
	r := rc.radio
	if err := r.acquire(); err != nil {
		return err
	}
	defer r.release()

	if err := r.setChannel(filter.Channel); err != nil {
		return err
	}
	r.p.SetPacketBuffer(r.rxBuf[:])
	if err := r.cte.Configure(filter.CTELength); err != nil {
		return err
	}
	r.cte.ConfigureCapture(result.Samples)

	var pdu proto.PDU
	err := retryUntil(ctx, r.cfg.MaxReceiveAttempts, func(ctx context.Context) (bool, error) {
		clear(r.rxBuf[:])
		if err := r.receiveOnce(ctx); err != nil {
			return false, err
		}
		if r.p.Read(CRCStatus) != CRCStatusOk {
			rc.discard(proto.ErrCRC)
			return false, nil
		}
		var err error
		pdu, err = proto.DecodePDU(r.rxBuf[:], filter.Address)
		if err != nil {
			rc.discard(err)
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return errors.Wrapf(err, "receive on channel %d", filter.Channel)
	}

	result.Channel = filter.Channel
	result.PayloadLen = copy(result.Payload[:], pdu.Payload)
	result.SampleCount = r.cte.Captured()
	result.Truncated = pdu.Truncated
	if pdu.Truncated {
		r.warn("Receive:truncated",
			slog.Int("length", int(r.rxBuf[1])),
			slog.Int("kept", result.PayloadLen))
	}
	r.debug("Receive",
		slog.Int("channel", int(filter.Channel)),
		slog.Int("payload", result.PayloadLen),
		slog.Int("samples", result.SampleCount))
	return nil
}

// Discarded counts frames dropped for a bad CRC or a filter mismatch.
func (rc *Receiver) Discarded() uint32 { return rc.discarded }

func (rc *Receiver) discard(reason error) {
	rc.discarded++
	rc.radio.trace("Receive:discard", slog.String("reason", reason.Error()))
}
