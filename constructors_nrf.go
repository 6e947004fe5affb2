//go:build tinygo || baremetal

// This file is built only for embedded targets (using real radio hardware).
package blecte

import (
	"github.com/ystepanoff/blecte/driver/nrf"
	"github.com/ystepanoff/blecte/transport"
)

// NewRadio returns the radio driving the on-chip RADIO peripheral. There is
// only one; callers must not create a second.
func NewRadio(cfg Config) *transport.Radio {
	return transport.NewRadio(nrf.New(), cfg)
}
