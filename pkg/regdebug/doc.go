// Package regdebug implements the register peek/poke debug protocol.
//
// A Session holds the enable gate and the last register touched. A Handler
// parses one text line per call ("addr" reads, "addr value" writes, both in
// hex) and renders a status block on Read. The gate is enabled by default.
//
// The device daemon exposes a Handler over the control channel and the
// interactive console:
//
//	sess := regdebug.NewSession(true)
//	h := regdebug.NewHandler(dev.Transport(), sess)
//	if err := h.Write("0x00010000"); err != nil { ... }
//	text, _ := h.Read()
package regdebug
