//go:build tinygo || baremetal

package nrf

import (
	"runtime/volatile"
	"unsafe"

	proto "github.com/ystepanoff/blecte/protocol"
	"github.com/ystepanoff/blecte/transport"

	"device/nrf"
)

// Driver provides a transport.Peripheral backed by the real CLOCK and RADIO
// registers of the nRF52833.
type Driver struct{}

func New() *Driver { return &Driver{} }

func (d *Driver) Write(reg transport.Register, value uint32) {
	if r := register(reg); r != nil {
		r.Set(value)
	}
}

func (d *Driver) Read(reg transport.Register) uint32 {
	if r := register(reg); r != nil {
		return r.Get()
	}
	return 0
}

// SetPacketBuffer hands buf to EasyDMA. PACKETPTR is a 32-bit RAM address.
func (d *Driver) SetPacketBuffer(buf []byte) {
	if len(buf) == 0 {
		nrf.RADIO.PACKETPTR.Set(0)
		return
	}
	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&buf[0]))))
}

// SetSampleBuffer hands buf to the DFE. Every IQSample is one 32-bit word,
// I in the low half.
func (d *Driver) SetSampleBuffer(buf []proto.IQSample) {
	if len(buf) == 0 {
		nrf.RADIO.DFEPACKET.PTR.Set(0)
		return
	}
	nrf.RADIO.DFEPACKET.PTR.Set(uint32(uintptr(unsafe.Pointer(&buf[0]))))
}

func register(reg transport.Register) *volatile.Register32 {
	switch reg {
	case transport.ClockTaskHFCLKStart:
		return &nrf.CLOCK.TASKS_HFCLKSTART
	case transport.ClockEventHFCLKStarted:
		return &nrf.CLOCK.EVENTS_HFCLKSTARTED
	case transport.Power:
		return &nrf.RADIO.POWER
	case transport.Mode:
		return &nrf.RADIO.MODE
	case transport.TxPower:
		return &nrf.RADIO.TXPOWER
	case transport.Frequency:
		return &nrf.RADIO.FREQUENCY
	case transport.DataWhiteIV:
		return &nrf.RADIO.DATAWHITEIV
	case transport.CRCCnf:
		return &nrf.RADIO.CRCCNF
	case transport.CRCPoly:
		return &nrf.RADIO.CRCPOLY
	case transport.CRCInit:
		return &nrf.RADIO.CRCINIT
	case transport.TIFS:
		return &nrf.RADIO.TIFS
	case transport.Base0:
		return &nrf.RADIO.BASE0
	case transport.Prefix0:
		return &nrf.RADIO.PREFIX0
	case transport.TxAddress:
		return &nrf.RADIO.TXADDRESS
	case transport.RxAddresses:
		return &nrf.RADIO.RXADDRESSES
	case transport.PCNF0:
		return &nrf.RADIO.PCNF0
	case transport.PCNF1:
		return &nrf.RADIO.PCNF1
	case transport.Shorts:
		return &nrf.RADIO.SHORTS
	case transport.State:
		return &nrf.RADIO.STATE
	case transport.CRCStatus:
		return &nrf.RADIO.CRCSTATUS
	case transport.TaskTxEn:
		return &nrf.RADIO.TASKS_TXEN
	case transport.TaskRxEn:
		return &nrf.RADIO.TASKS_RXEN
	case transport.TaskStart:
		return &nrf.RADIO.TASKS_START
	case transport.TaskDisable:
		return &nrf.RADIO.TASKS_DISABLE
	case transport.EventReady:
		return &nrf.RADIO.EVENTS_READY
	case transport.EventAddress:
		return &nrf.RADIO.EVENTS_ADDRESS
	case transport.EventEnd:
		return &nrf.RADIO.EVENTS_END
	case transport.EventPhyEnd:
		return &nrf.RADIO.EVENTS_PHYEND
	case transport.EventDisabled:
		return &nrf.RADIO.EVENTS_DISABLED
	case transport.EventCRCOk:
		return &nrf.RADIO.EVENTS_CRCOK
	case transport.EventCRCError:
		return &nrf.RADIO.EVENTS_CRCERROR
	case transport.DFEMode:
		return &nrf.RADIO.DFEMODE
	case transport.CTEInlineConf:
		return &nrf.RADIO.CTEINLINECONF
	case transport.DFECtrl1:
		return &nrf.RADIO.DFECTRL1
	case transport.DFECtrl2:
		return &nrf.RADIO.DFECTRL2
	case transport.DFEPacketMaxCnt:
		return &nrf.RADIO.DFEPACKET.MAXCNT
	case transport.DFEPacketAmount:
		return &nrf.RADIO.DFEPACKET.AMOUNT
	}
	return nil
}
