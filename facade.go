// Package blecte provides a façade to the BLE advertising radio driver with
// Constant Tone Extension (CTE) transmission and IQ sample capture.
package blecte

import (
	"github.com/ystepanoff/blecte/protocol"
	"github.com/ystepanoff/blecte/transport"
)

// The actual implementation is split into build-tag specific files:
// - constructors_nrf.go - for embedded platforms (//go:build tinygo || baremetal)
// - constructors_host.go - for development/testing (//go:build !tinygo && !baremetal)

type (
	Address         = protocol.Address
	ChannelIndex    = protocol.ChannelIndex
	Advertisement   = protocol.Advertisement
	ReceptionFilter = protocol.ReceptionFilter
	ReceptionResult = protocol.ReceptionResult
	IQSample        = protocol.IQSample
	CTETiming       = protocol.CTETiming
	Config          = transport.Config
	Radio           = transport.Radio
	Advertiser      = transport.Advertiser
	Receiver        = transport.Receiver
	Session         = transport.Session
)

// Error constants exposed in the public API
var (
	ErrInvalidPayload    = protocol.ErrInvalidPayload
	ErrInvalidCTELength  = protocol.ErrInvalidCTELength
	ErrInvalidChannel    = protocol.ErrInvalidChannel
	ErrTimeout           = protocol.ErrTimeout
	ErrBusy              = protocol.ErrBusy
	ErrNotInitialised    = protocol.ErrNotInitialised
	ErrAttemptsExhausted = protocol.ErrAttemptsExhausted
)

// Constants exposed in the public API
const (
	MaxPayloadSize = protocol.MaxPayloadSize
	MinCTELength   = protocol.MinCTELength
	MaxCTELength   = protocol.MaxCTELength
)

var (
	AdvertisingChannels = protocol.AdvertisingChannels

	DefaultConfig    = transport.DefaultConfig
	DefaultCTETiming = protocol.DefaultCTETiming
	NewAdvertiser    = transport.NewAdvertiser
	NewReceiver      = transport.NewReceiver
	ChannelMap       = protocol.ChannelMap
	ParseAddress     = protocol.ParseAddress
)
