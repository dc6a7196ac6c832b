package reg

// bitName pairs a single bit mask with its datasheet mnemonic.
type bitName struct {
	mask Value
	name string
}

var decodeTables = map[Address][]bitName{
	OAStatus0: {
		{Value(Status0PHYInterrupt), "PHYINT"},
		{Value(Status0ResetComplete), "RESETC"},
		{Value(Status0HeaderErr), "HDRE"},
		{Value(Status0LossOfFrame), "LOFE"},
		{Value(Status0RxBufOverflow), "RXBOE"},
		{Value(Status0TxBufUnderflow), "TXBUE"},
		{Value(Status0TxBufOverflow), "TXBOE"},
		{Value(Status0TxProtocolErr), "TXPE"},
	},
	PHYBasicControl: {
		{Value(BasicControlReset), "RESET"},
		{Value(BasicControlLoopback), "LOOPBACK"},
		{Value(BasicControlSpeedSel), "SPEED_SEL"},
		{Value(BasicControlANEnable), "ANENABLE"},
		{Value(BasicControlPowerDown), "PDOWN"},
		{Value(BasicControlANRestart), "ANRESTART"},
		{Value(BasicControlFullDuplex), "FULLDPLX"},
	},
	PHYBasicStatus: {
		{Value(BasicStatusANComplete), "ANEGCOMPLETE"},
		{Value(BasicStatusRemoteFlt), "RFAULT"},
		{Value(BasicStatusANCapable), "ANEGCAPABLE"},
		{Value(BasicStatusLinkStatus), "LSTATUS"},
		{Value(BasicStatusJabber), "JCD"},
		{Value(BasicStatusExtCap), "ERCAP"},
	},
	MACNetCtl: {
		{Value(NetCtlTxEnable), "TXEN"},
		{Value(NetCtlRxEnable), "RXEN"},
	},
	MACNetCfg: {
		{Value(NetCfgUnicast), "UNIHEN"},
		{Value(NetCfgMulticast), "MTIHEN"},
		{Value(NetCfgPromiscuous), "CAF"},
	},
}

// Decode returns the mnemonics of the bits set in v for registers with a
// known bit layout. ok is false when the register has no decode table.
func Decode(addr Address, v Value) (bits []string, ok bool) {
	table, ok := decodeTables[addr]
	if !ok {
		return nil, false
	}
	for _, b := range table {
		if v&b.mask != 0 {
			bits = append(bits, b.name)
		}
	}
	return bits, true
}

// Describe returns a one-line description of the register's role, or "" if
// none is known.
func Describe(addr Address) string {
	switch addr {
	case OAStatus0, OAStatus1:
		return "Status register - shows current device state"
	case MACNetCtl, MACNetCfg:
		return "MAC control register - controls network operations"
	case PHYBasicControl, PHYBasicStatus:
		return "PHY basic register - standard IEEE 802.3 functionality"
	}
	return ""
}
