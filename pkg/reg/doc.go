// Package reg defines the LAN865x register addressing model.
//
// Every register is reached through a 32-bit address. The upper 16 bits
// select a memory map (MMS, called a bank here) and the lower 16 bits select
// the register within that bank:
//
//	MMS 0  Open Alliance standard registers and the clause 22 PHY mirror
//	MMS 1  MAC registers
//	MMS 2+ vendor specific (PHY PCS/PMA, miscellaneous)
//
// Register values are plain 32-bit words. Registers that carry bit fields
// have a dedicated type (NetCtl, NetCfg, ...) so callers can manipulate the
// bits without masking by hand.
//
// # Names
//
// The name table mirrors the register list published in the LAN8650/1
// datasheet. Names resolve case-insensitively, so tools can accept either
// "MAC_NCR" or "0x10000" wherever an address is expected.
package reg
