//go:build !tinygo && !baremetal

// This file is built only for non-embedded targets (host-based testing).
package blecte

import (
	"github.com/ystepanoff/blecte/driver/stub"
	"github.com/ystepanoff/blecte/transport"
)

// NewRadio returns a radio backed by an in-memory RADIO simulation.
func NewRadio(cfg Config) *transport.Radio {
	return transport.NewRadio(stub.New(), cfg)
}

// NewLinkedRadios returns two simulated radios where everything the first
// transmits is on air for the second.
func NewLinkedRadios(cfg Config) (tx, rx *transport.Radio) {
	txDrv, rxDrv := stub.New(), stub.New()
	stub.Connect(txDrv, rxDrv)
	return transport.NewRadio(txDrv, cfg), transport.NewRadio(rxDrv, cfg)
}
