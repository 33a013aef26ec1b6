package input

// Event types from linux/input-event-codes.h.
const (
	EvSyn      uint16 = 0x00
	EvKey      uint16 = 0x01
	EvRel      uint16 = 0x02
	EvAbs      uint16 = 0x03
	EvMsc      uint16 = 0x04
	EvSw       uint16 = 0x05
	EvLed      uint16 = 0x11
	EvSnd      uint16 = 0x12
	EvRep      uint16 = 0x14
	EvFf       uint16 = 0x15
	EvPwr      uint16 = 0x16
	EvFfStatus uint16 = 0x17
)

// Synchronization codes.
const (
	SynReport  uint16 = 0
	SynConfig  uint16 = 1
	SynMtFrame uint16 = 2
	SynDropped uint16 = 3
)

// Relative axes.
const (
	RelX           uint16 = 0x00
	RelY           uint16 = 0x01
	RelZ           uint16 = 0x02
	RelRx          uint16 = 0x03
	RelRy          uint16 = 0x04
	RelRz          uint16 = 0x05
	RelHWheel      uint16 = 0x06
	RelDial        uint16 = 0x07
	RelWheel       uint16 = 0x08
	RelMisc        uint16 = 0x09
	RelWheelHiRes  uint16 = 0x0b
	RelHWheelHiRes uint16 = 0x0c
	RelMax         uint16 = 0x0f
)

// Mouse buttons.
const (
	BtnLeft    uint16 = 0x110
	BtnRight   uint16 = 0x111
	BtnMiddle  uint16 = 0x112
	BtnSide    uint16 = 0x113
	BtnExtra   uint16 = 0x114
	BtnForward uint16 = 0x115
	BtnBack    uint16 = 0x116
	BtnTask    uint16 = 0x117
)

// Misc codes.
const (
	MscSerial    uint16 = 0x00
	MscPulseLed  uint16 = 0x01
	MscGesture   uint16 = 0x02
	MscRaw       uint16 = 0x03
	MscScan      uint16 = 0x04
	MscTimestamp uint16 = 0x05
)

// HiResPerDetent is the hi-res wheel value reported for one legacy detent.
const HiResPerDetent = 120

var typeNames = map[uint16]string{
	EvSyn:      "SYN",
	EvKey:      "KEY",
	EvRel:      "REL",
	EvAbs:      "ABS",
	EvMsc:      "MSC",
	EvSw:       "SW",
	EvLed:      "LED",
	EvSnd:      "SND",
	EvRep:      "REP",
	EvFf:       "FF",
	EvPwr:      "PWR",
	EvFfStatus: "FF_STATUS",
}

var codeNames = map[uint16]map[uint16]string{
	EvSyn: {
		SynReport:  "SYN_REPORT",
		SynConfig:  "SYN_CONFIG",
		SynMtFrame: "SYN_MT_REPORT",
		SynDropped: "SYN_DROPPED",
	},
	EvRel: {
		RelX:           "REL_X",
		RelY:           "REL_Y",
		RelZ:           "REL_Z",
		RelRx:          "REL_RX",
		RelRy:          "REL_RY",
		RelRz:          "REL_RZ",
		RelHWheel:      "REL_HWHEEL",
		RelDial:        "REL_DIAL",
		RelWheel:       "REL_WHEEL",
		RelMisc:        "REL_MISC",
		RelWheelHiRes:  "REL_WHEEL_HI_RES",
		RelHWheelHiRes: "REL_HWHEEL_HI_RES",
	},
	EvKey: {
		BtnLeft:    "BTN_LEFT",
		BtnRight:   "BTN_RIGHT",
		BtnMiddle:  "BTN_MIDDLE",
		BtnSide:    "BTN_SIDE",
		BtnExtra:   "BTN_EXTRA",
		BtnForward: "BTN_FORWARD",
		BtnBack:    "BTN_BACK",
		BtnTask:    "BTN_TASK",
	},
	EvMsc: {
		MscSerial:    "MSC_SERIAL",
		MscPulseLed:  "MSC_PULSELED",
		MscGesture:   "MSC_GESTURE",
		MscRaw:       "MSC_RAW",
		MscScan:      "MSC_SCAN",
		MscTimestamp: "MSC_TIMESTAMP",
	},
}
