package transport

// Register names one CLOCK or RADIO register, task or event of the nRF52833
// that the driver touches. Peripheral implementations map them to hardware
// (driver/nrf) or to memory (driver/stub).
type Register uint8

const (
	ClockTaskHFCLKStart Register = iota
	ClockEventHFCLKStarted

	Power
	Mode
	TxPower
	Frequency
	DataWhiteIV
	CRCCnf
	CRCPoly
	CRCInit
	TIFS
	Base0
	Prefix0
	TxAddress
	RxAddresses
	PCNF0
	PCNF1
	Shorts
	State
	CRCStatus

	TaskTxEn
	TaskRxEn
	TaskStart
	TaskDisable

	EventReady
	EventAddress
	EventEnd
	EventPhyEnd
	EventDisabled
	EventCRCOk
	EventCRCError

	DFEMode
	CTEInlineConf
	DFECtrl1
	DFECtrl2
	DFEPacketMaxCnt
	DFEPacketAmount

	NumRegisters
)

var registerNames = [NumRegisters]string{
	ClockTaskHFCLKStart:    "CLOCK.TASKS_HFCLKSTART",
	ClockEventHFCLKStarted: "CLOCK.EVENTS_HFCLKSTARTED",
	Power:                  "POWER",
	Mode:                   "MODE",
	TxPower:                "TXPOWER",
	Frequency:              "FREQUENCY",
	DataWhiteIV:            "DATAWHITEIV",
	CRCCnf:                 "CRCCNF",
	CRCPoly:                "CRCPOLY",
	CRCInit:                "CRCINIT",
	TIFS:                   "TIFS",
	Base0:                  "BASE0",
	Prefix0:                "PREFIX0",
	TxAddress:              "TXADDRESS",
	RxAddresses:            "RXADDRESSES",
	PCNF0:                  "PCNF0",
	PCNF1:                  "PCNF1",
	Shorts:                 "SHORTS",
	State:                  "STATE",
	CRCStatus:              "CRCSTATUS",
	TaskTxEn:               "TASKS_TXEN",
	TaskRxEn:               "TASKS_RXEN",
	TaskStart:              "TASKS_START",
	TaskDisable:            "TASKS_DISABLE",
	EventReady:             "EVENTS_READY",
	EventAddress:           "EVENTS_ADDRESS",
	EventEnd:               "EVENTS_END",
	EventPhyEnd:            "EVENTS_PHYEND",
	EventDisabled:          "EVENTS_DISABLED",
	EventCRCOk:             "EVENTS_CRCOK",
	EventCRCError:          "EVENTS_CRCERROR",
	DFEMode:                "DFEMODE",
	CTEInlineConf:          "CTEINLINECONF",
	DFECtrl1:               "DFECTRL1",
	DFECtrl2:               "DFECTRL2",
	DFEPacketMaxCnt:        "DFEPACKET.MAXCNT",
	DFEPacketAmount:        "DFEPACKET.AMOUNT",
}

func (r Register) String() string {
	if r < NumRegisters {
		return registerNames[r]
	}
	return "UNKNOWN"
}

// IsEvent reports whether r is an EVENTS_* register.
func (r Register) IsEvent() bool {
	return r == ClockEventHFCLKStarted || (r >= EventReady && r <= EventCRCError)
}

// IsTask reports whether r is a TASKS_* register.
func (r Register) IsTask() bool {
	return r == ClockTaskHFCLKStart || (r >= TaskTxEn && r <= TaskDisable)
}

// radioEvents are cleared before every transmit or receive.
var radioEvents = [...]Register{
	EventReady, EventAddress, EventEnd, EventPhyEnd, EventDisabled, EventCRCOk, EventCRCError,
}

// Register field layout, nRF52833 datasheet section 6.20.
const (
	ModeBle1Mbit = 3

	CRCCnfLenThree    = 3
	CRCCnfSkipAddrPos = 8
	CRCCnfSkipAddr    = 1 << CRCCnfSkipAddrPos

	PCNF0LFLenPos  = 0
	PCNF0S0LenPos  = 8
	PCNF0S1LenPos  = 16
	PCNF0PLenPos   = 24
	PCNF0PLen8bit  = 0
	PCNF0CRCIncPos = 26
	PCNF0CRCIncExc = 0

	PCNF1MaxLenPos  = 0
	PCNF1MaxLenMsk  = 0xFF
	PCNF1StatLenPos = 8
	PCNF1BaLenPos   = 16
	PCNF1EndianPos  = 24
	PCNF1EndianLE   = 0
	PCNF1WhiteEnPos = 25
	PCNF1WhiteEn    = 1 << PCNF1WhiteEnPos

	ShortsReadyStart    = 1 << 0
	ShortsEndDisable    = 1 << 1
	ShortsPhyEndDisable = 1 << 20

	StateDisabled = 0
	StateRxRu     = 1
	StateRxIdle   = 2
	StateRx       = 3
	StateTxRu     = 9
	StateTxIdle   = 10
	StateTx       = 11

	CRCStatusOk = 1

	DFEModeDisabled = 0
	DFEModeAoD      = 2
	DFEModeAoA      = 3

	CTEInlineCtrlDisabled = 0

	DFECtrl1NumberOf8usPos       = 0
	DFECtrl1NumberOf8usMsk       = 0x3F
	DFECtrl1DFEInExtensionPos    = 7
	DFECtrl1DFEInExtensionCRC    = 1
	DFECtrl1TSwitchSpacingPos    = 8
	DFECtrl1TSampleSpacingRefPos = 12
	DFECtrl1SampleTypePos        = 15
	DFECtrl1TSampleSpacingPos    = 16

	DFECtrl2TSwitchOffsetPos = 0
	DFECtrl2TSwitchOffsetMsk = 0x1FFF
	DFECtrl2TSampleOffsetPos = 16
	DFECtrl2TSampleOffsetMsk = 0xFFF
)
