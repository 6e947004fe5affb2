//go:build !tinygo && !baremetal

package main

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	proto "github.com/ystepanoff/blecte/protocol"
)

// parseHex accepts "0x"-prefixed, space or colon separated hex.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse hex %q", s)
	}
	return b, nil
}

// buildPayload puts a Complete Local Name AD structure for name (if any) in
// front of raw.
func buildPayload(name string, raw []byte) []byte {
	var payload []byte
	if name != "" {
		payload = proto.CompleteLocalName(name)
	}
	return append(payload, raw...)
}

type adStructure struct {
	Type byte
	Data []byte
}

// parseAD splits AdvData into AD structures. A zero length byte ends the
// significant part.
func parseAD(data []byte) ([]adStructure, error) {
	var out []adStructure
	for i := 0; i < len(data); {
		n := int(data[i])
		if n == 0 {
			break
		}
		if i+1+n > len(data) {
			return out, errors.Errorf("AD structure at %d overruns payload: length %d", i, n)
		}
		out = append(out, adStructure{Type: data[i+1], Data: data[i+2 : i+1+n]})
		i += 1 + n
	}
	return out, nil
}

func (s adStructure) String() string {
	switch s.Type {
	case proto.ADTypeFlags:
		return fmt.Sprintf("Flags 0x%x", s.Data)
	case proto.ADTypeCompleteLocalName:
		return fmt.Sprintf("Complete Local Name %q", s.Data)
	}
	return fmt.Sprintf("type 0x%02X %x", s.Type, s.Data)
}

func describePDU(pdu proto.PDU) string {
	var sb strings.Builder
	h := pdu.Header
	fmt.Fprintf(&sb, "header 0x%02X type %d TxAdd %v RxAdd %v\n", byte(h), h.Type(), h.TxAdd(), h.RxAdd())
	fmt.Fprintf(&sb, "AdvA   %s\n", pdu.Address)
	fmt.Fprintf(&sb, "data   %x\n", pdu.Payload)
	ads, err := parseAD(pdu.Payload)
	for _, ad := range ads {
		fmt.Fprintf(&sb, "  %s\n", ad)
	}
	if err != nil {
		fmt.Fprintf(&sb, "  %s\n", err)
	}
	if pdu.Truncated {
		fmt.Fprintf(&sb, "  truncated to %d bytes\n", len(pdu.Payload))
	}
	return sb.String()
}

// formatIQ lists up to limit samples with magnitude and phase in degrees.
func formatIQ(samples []proto.IQSample, limit int) string {
	var sb strings.Builder
	for i, s := range samples {
		if i == limit {
			fmt.Fprintf(&sb, "  ... %d more\n", len(samples)-limit)
			break
		}
		fmt.Fprintf(&sb, "  %4d  I %6d  Q %6d  |%7.1f|  %6.1f°\n", i, s.I, s.Q, s.Magnitude(), s.Phase()*180/math.Pi)
	}
	return sb.String()
}
