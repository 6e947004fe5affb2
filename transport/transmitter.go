package transport

import (
	"context"
	"log/slog"

	proto "github.com/ystepanoff/blecte/protocol"
)

// Advertiser sends ADV_NONCONN_IND PDUs on the three primary advertising
// channels.
type Advertiser struct {
	radio *Radio
	sent  uint32
}

func NewAdvertiser(r *Radio) *Advertiser {
	return &Advertiser{radio: r}
}

// Advertise transmits adv once on channel 37, 38 and 39, in that order, each
// followed by the configured CTE. It returns after the last transmission has
// finished. Invalid input is rejected before any register is touched.
func (a *Advertiser) Advertise(ctx context.Context, adv proto.Advertisement) error {
	if err := adv.Validate(); err != nil {
		return err
	}
	r := a.radio
	if err := r.acquire(); err != nil {
		return err
	}
	defer r.release()

	n, err := proto.EncodePDU(r.txBuf[:], adv.Address, adv.Payload)
	if err != nil {
		return err
	}
	r.p.SetPacketBuffer(r.txBuf[:])
	if err := r.cte.Configure(adv.CTELength); err != nil {
		return err
	}
	r.debug("Advertise",
		slog.String("address", adv.Address.String()),
		slog.Int("pdulen", n),
		slog.Int("cte", int(adv.CTELength)))

	for _, ch := range proto.AdvertisingChannels {
		if err := r.setChannel(ch); err != nil {
			return err
		}
		if err := r.transmitSync(ctx); err != nil {
			return err
		}
		a.sent++
	}
	return nil
}

// Sent counts completed transmissions, three per advertising event.
func (a *Advertiser) Sent() uint32 { return a.sent }
