//go:build !tinygo && !baremetal

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"github.com/ystepanoff/blecte"
	proto "github.com/ystepanoff/blecte/protocol"
)

func channelsCommand(c *cli.Context) error {
	w := c.App.Writer
	for ch := proto.ChannelIndex(0); ch < proto.ChannelCount; ch++ {
		fd, err := proto.ChannelMap(ch)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%2d  %-9s  offset %2d  seed 0x%02X", ch, fd.Frequency(), fd.OffsetMHz, fd.WhiteningSeed)
		if ch.IsAdvertising() {
			line = Cyan(line + "  advertising")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func channelFlag(c *cli.Context) (proto.ChannelIndex, error) {
	n := c.Int("channel")
	if n < 0 || n >= proto.ChannelCount {
		return 0, errors.Wrapf(proto.ErrInvalidChannel, "channel %d", n)
	}
	return proto.ChannelIndex(n), nil
}

func advertisementFlags(c *cli.Context) (proto.Advertisement, error) {
	addr, err := proto.ParseAddress(c.String("address"))
	if err != nil {
		return proto.Advertisement{}, err
	}
	raw, err := parseHex(c.String("payload"))
	if err != nil {
		return proto.Advertisement{}, err
	}
	cte := c.Int("cte")
	if cte < 0 || cte > proto.MaxCTELength {
		return proto.Advertisement{}, errors.Wrapf(proto.ErrInvalidCTELength, "CTE length %d", cte)
	}
	adv := proto.Advertisement{
		Address:   addr,
		Payload:   buildPayload(c.String("name"), raw),
		CTELength: uint8(cte),
	}
	return adv, adv.Validate()
}

func encodeCommand(c *cli.Context) error {
	adv, err := advertisementFlags(c)
	if err != nil {
		return err
	}
	ch, err := channelFlag(c)
	if err != nil {
		return err
	}

	var buf [proto.MaxPDUSize]byte
	n, err := proto.EncodePDU(buf[:], adv.Address, adv.Payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "PDU  %s\n", hex.EncodeToString(buf[:n]))
	if c.Bool("air") {
		fmt.Fprintf(c.App.Writer, "Air  %s\n", hex.EncodeToString(proto.AirPacket(ch, buf[:n])))
	}
	return nil
}

func decodeCommand(c *cli.Context) error {
	if !c.Args().Present() {
		return errors.New("missing hex argument")
	}
	data, err := parseHex(c.Args().First())
	if err != nil {
		return err
	}
	ch, err := channelFlag(c)
	if err != nil {
		return err
	}

	w := c.App.Writer
	pdu := data
	if !c.Bool("pdu") {
		var crcOK bool
		pdu, crcOK, err = proto.ParseAirPacket(ch, data)
		if err != nil {
			return err
		}
		if crcOK {
			fmt.Fprintln(w, Green("CRC    OK"))
		} else {
			fmt.Fprintln(w, Red("CRC    FAIL"))
		}
	}

	var addr proto.Address
	if s := c.String("address"); s != "" {
		if addr, err = proto.ParseAddress(s); err != nil {
			return err
		}
	} else if len(pdu) >= proto.PDUHeaderSize+proto.AddressSize {
		copy(addr[:], pdu[proto.PDUHeaderSize:])
	}
	decoded, err := proto.DecodePDU(pdu, addr)
	if err != nil {
		return errors.Wrapf(err, "PDU %x", pdu)
	}
	fmt.Fprint(w, describePDU(decoded))
	return nil
}

func simulateCommand(c *cli.Context) error {
	adv, err := advertisementFlags(c)
	if err != nil {
		return err
	}
	ch, err := channelFlag(c)
	if err != nil {
		return err
	}
	if !ch.IsAdvertising() {
		return errors.Wrapf(proto.ErrInvalidChannel, "channel %d is not an advertising channel", ch)
	}

	cfg := blecte.DefaultConfig()
	cfg.Logger = slog.New(newSlogHandler(log))
	cfg.TxPower = int8(c.GlobalInt("tx-power"))
	cfg.MaxReceiveAttempts = c.Int("attempts")
	tx, rx := blecte.NewLinkedRadios(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()
	for _, r := range []*blecte.Radio{tx, rx} {
		if err := r.Init(ctx); err != nil {
			return err
		}
	}

	capacity := c.Int("samples")
	if capacity <= 0 {
		capacity = cfg.CTE.ExpectedSamples(adv.CTELength)
	}
	advertiser, receiver := blecte.NewAdvertiser(tx), blecte.NewReceiver(rx)
	filter := proto.ReceptionFilter{Channel: ch, Address: adv.Address, CTELength: adv.CTELength}
	res := proto.ReceptionResult{Samples: make([]proto.IQSample, capacity)}

	w := c.App.Writer
	for i := 0; i < c.Int("count"); i++ {
		if err := advertiser.Advertise(ctx, adv); err != nil {
			return errors.Wrapf(err, "advertising event %d", i)
		}
		if err := receiver.Receive(ctx, filter, &res); err != nil {
			return errors.Wrapf(err, "advertising event %d", i)
		}
		fmt.Fprintf(w, "%s event %d channel %d: %d bytes, %d IQ samples\n",
			Green("received"), i, res.Channel, res.PayloadLen, res.SampleCount)
		fmt.Fprintf(w, "  data %x\n", res.Data())
		fmt.Fprint(w, formatIQ(res.IQ(), c.Int("show")))
	}
	fmt.Fprintf(w, "sent %d, discarded %d\n", advertiser.Sent(), receiver.Discarded())
	return nil
}
