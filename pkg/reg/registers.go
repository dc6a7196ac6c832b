package reg

// Open Alliance standard registers (MMS 0).
const (
	OAID      Address = 0x0000 // Open Alliance ID
	OAPHYID   Address = 0x0001 // PHY identification
	OASTDCAP  Address = 0x0002 // Standard capabilities
	OAReset   Address = 0x0003 // Reset control
	OAConfig0 Address = 0x0004 // Configuration 0
	OAStatus0 Address = 0x0008 // Status 0
	OAStatus1 Address = 0x0009 // Status 1
	OABufSts  Address = 0x000B // Buffer status
	OAIMask0  Address = 0x000C // Interrupt mask 0
	OAIMask1  Address = 0x000D // Interrupt mask 1

	TTSCAH Address = 0x0010 // TX timestamp capture A high
	TTSCAL Address = 0x0011 // TX timestamp capture A low
	TTSCBH Address = 0x0012 // TX timestamp capture B high
	TTSCBL Address = 0x0013 // TX timestamp capture B low
	TTSCCH Address = 0x0014 // TX timestamp capture C high
	TTSCCL Address = 0x0015 // TX timestamp capture C low
)

// Clause 22 PHY registers mirrored into MMS 0.
const (
	PHYBasicControl Address = 0xFF00
	PHYBasicStatus  Address = 0xFF01
	PHYID1          Address = 0xFF02
	PHYID2          Address = 0xFF03
	PHYMMDCtrl      Address = 0xFF0D
	PHYMMDAddrData  Address = 0xFF0E
)

// MAC registers (MMS 1).
const (
	MACNetCtl       Address = 0x00010000 // MAC_NCR network control
	MACNetCfg       Address = 0x00010001 // MAC_NCFGR network configuration
	MACHashBottom   Address = 0x00010020 // MAC_HRB hash register bottom
	MACHashTop      Address = 0x00010021 // MAC_HRT hash register top
	MACSpecAddr1Bot Address = 0x00010022 // MAC_SAB1 specific address 1 bottom
	MACSpecAddr1Top Address = 0x00010023 // MAC_SAT1 specific address 1 top
	MACSpecAddr2Bot Address = 0x00010024 // MAC_SAB2
	MACSpecAddr2Top Address = 0x00010025 // MAC_SAT2
	MACTSUTimerIncr Address = 0x00010077 // MAC_TI timer increment
	BufMgrCtl       Address = 0x00010200 // BMGR_CTL buffer manager control
	Stats0          Address = 0x00010208
	Stats1          Address = 0x00010209
	Stats2          Address = 0x0001020A
)

// TSUTimerIncrNsec programs MAC_TI for a 25 MHz internal clock (40 ns).
const TSUTimerIncrNsec Value = 0x0028

// NetCtl is the MAC network control register (MAC_NCR).
type NetCtl Value

const (
	NetCtlRxEnable NetCtl = 1 << 2 // RXEN
	NetCtlTxEnable NetCtl = 1 << 3 // TXEN

	NetCtlTxRx = NetCtlTxEnable | NetCtlRxEnable
)

// Enabled reports whether both transmit and receive are enabled.
func (c NetCtl) Enabled() bool { return c&NetCtlTxRx == NetCtlTxRx }

// NetCfg is the MAC network configuration register (MAC_NCFGR).
type NetCfg Value

const (
	NetCfgPromiscuous NetCfg = 1 << 4 // CAF, copy all frames
	NetCfgMulticast   NetCfg = 1 << 6 // MTIHEN, multicast hash enable
	NetCfgUnicast     NetCfg = 1 << 7 // UNIHEN, unicast hash enable

	NetCfgModeMask = NetCfgPromiscuous | NetCfgMulticast | NetCfgUnicast
)

// Status0 is the OA_STATUS0 register.
type Status0 Value

const (
	Status0TxProtocolErr  Status0 = 1 << 0 // TXPE
	Status0TxBufOverflow  Status0 = 1 << 1 // TXBOE
	Status0TxBufUnderflow Status0 = 1 << 2 // TXBUE
	Status0RxBufOverflow  Status0 = 1 << 3 // RXBOE
	Status0LossOfFrame    Status0 = 1 << 4 // LOFE
	Status0HeaderErr      Status0 = 1 << 5 // HDRE
	Status0ResetComplete  Status0 = 1 << 6 // RESETC
	Status0PHYInterrupt   Status0 = 1 << 7 // PHYINT
)

// BasicControl is the clause 22 basic control register.
type BasicControl Value

const (
	BasicControlFullDuplex BasicControl = 1 << 8
	BasicControlANRestart  BasicControl = 1 << 9
	BasicControlPowerDown  BasicControl = 1 << 11
	BasicControlANEnable   BasicControl = 1 << 12
	BasicControlSpeedSel   BasicControl = 1 << 13
	BasicControlLoopback   BasicControl = 1 << 14
	BasicControlReset      BasicControl = 1 << 15
)

// BasicStatus is the clause 22 basic status register.
type BasicStatus Value

const (
	BasicStatusExtCap     BasicStatus = 1 << 0
	BasicStatusJabber     BasicStatus = 1 << 1
	BasicStatusLinkStatus BasicStatus = 1 << 2
	BasicStatusANCapable  BasicStatus = 1 << 3
	BasicStatusRemoteFlt  BasicStatus = 1 << 4
	BasicStatusANComplete BasicStatus = 1 << 5
)
