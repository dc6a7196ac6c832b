package wire

// Operation identifies what a request asks the device to do.
type Operation uint8

const (
	// OpIdentify returns the driver name and version. The indirect
	// transport sends it once when it acquires the channel.
	OpIdentify Operation = 1

	// OpReadRegister reads one 32-bit register.
	OpReadRegister Operation = 2

	// OpWriteRegister writes one 32-bit register.
	OpWriteRegister Operation = 3

	// OpDebugRead renders the debug status block.
	OpDebugRead Operation = 4

	// OpDebugWrite submits one debug request line ("addr" or "addr value").
	OpDebugWrite Operation = 5

	// OpDebugEnable sets the debug gate.
	OpDebugEnable Operation = 6

	// OpDebugState reports the debug gate.
	OpDebugState Operation = 7

	// OpOpen enables the transmitter and receiver.
	OpOpen Operation = 8

	// OpClose disables the transmitter and receiver.
	OpClose Operation = 9

	// OpSetMAC reprograms the station address.
	OpSetMAC Operation = 10

	// OpSetRxMode requests a receive filter mode change.
	OpSetRxMode Operation = 11
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OpIdentify:
		return "IDENTIFY"
	case OpReadRegister:
		return "READ_REGISTER"
	case OpWriteRegister:
		return "WRITE_REGISTER"
	case OpDebugRead:
		return "DEBUG_READ"
	case OpDebugWrite:
		return "DEBUG_WRITE"
	case OpDebugEnable:
		return "DEBUG_ENABLE"
	case OpDebugState:
		return "DEBUG_STATE"
	case OpOpen:
		return "OPEN"
	case OpClose:
		return "CLOSE"
	case OpSetMAC:
		return "SET_MAC"
	case OpSetRxMode:
		return "SET_RX_MODE"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the operation is known.
func (o Operation) IsValid() bool {
	return o >= OpIdentify && o <= OpSetRxMode
}

// IsRegisterOp reports whether the operation is a raw register access.
func (o Operation) IsRegisterOp() bool {
	return o == OpReadRegister || o == OpWriteRegister
}

// RxMode is the requested receive filter mode.
type RxMode uint8

const (
	// RxModeNone accepts unicast only; the hash filter is cleared.
	RxModeNone RxMode = 0

	// RxModeList accepts the multicast addresses in the request.
	RxModeList RxMode = 1

	// RxModeAllMulticast accepts every multicast frame.
	RxModeAllMulticast RxMode = 2

	// RxModePromiscuous accepts every frame.
	RxModePromiscuous RxMode = 3
)

// String returns the mode name.
func (m RxMode) String() string {
	switch m {
	case RxModeNone:
		return "NONE"
	case RxModeList:
		return "LIST"
	case RxModeAllMulticast:
		return "ALL_MULTICAST"
	case RxModePromiscuous:
		return "PROMISCUOUS"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the mode is known.
func (m RxMode) IsValid() bool {
	return m <= RxModePromiscuous
}
