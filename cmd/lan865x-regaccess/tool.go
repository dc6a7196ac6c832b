package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

// Remote is the part of the control client the tool drives.
type Remote interface {
	ReadRegister(addr reg.Address) (reg.Value, error)
	WriteRegister(addr reg.Address, v reg.Value) error
	DebugRead() (string, error)
	DebugWrite(line string) error
	SetDebugEnabled(enabled bool) error
}

var errUsage = errors.New("usage")

// statusRegisters are read by the status command, in order.
var statusRegisters = []struct {
	addr  reg.Address
	title string
}{
	{reg.OAStatus0, "General Status"},
	{reg.OAStatus1, "Extended Status"},
	{reg.PHYBasicStatus, "PHY Basic Status"},
	{reg.OABufSts, "Buffer Status"},
	{reg.MACNetCtl, "Network Control"},
	{reg.MACNetCfg, "Network Configuration"},
}

// Tool runs diagnostic commands against a remote device.
type Tool struct {
	remote Remote
	out    io.Writer
}

// Run executes one command. The list command needs no remote.
func (t *Tool) Run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch strings.ToLower(args[0]) {
	case "list":
		printList(t.out)
		return nil
	case "read":
		return t.read(args[1:])
	case "write":
		return t.write(args[1:])
	case "status":
		return t.status()
	case "debug":
		return t.debug(args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func printList(w io.Writer) {
	fmt.Fprintln(w, "Known LAN8651 Registers:")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	for _, b := range reg.Banks() {
		fmt.Fprintf(w, "\n%s Registers (MMS %d):\n", bankTitle(b), uint16(b))
		for _, e := range reg.List(b) {
			fmt.Fprintf(w, "  %-15s = %s\n", e.Name, e.Address)
		}
	}
}

func bankTitle(b reg.Bank) string {
	if b == reg.BankStandard {
		return "Standard/PHY"
	}
	return b.String()
}

func (t *Tool) read(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: read <addr|name>", errUsage)
	}
	addr, err := reg.ParseAddress(args[0])
	if err != nil {
		return err
	}
	v, err := t.remote.ReadRegister(addr)
	if err != nil {
		return fmt.Errorf("read %s: %w", reg.Name(addr), err)
	}
	showRegister(t.out, addr, v)
	return nil
}

func (t *Tool) write(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: write <addr|name> <value>", errUsage)
	}
	addr, err := reg.ParseAddress(args[0])
	if err != nil {
		return err
	}
	v, err := reg.ParseValue(args[1])
	if err != nil {
		return err
	}
	if err := t.remote.WriteRegister(addr, v); err != nil {
		return fmt.Errorf("write %s: %w", reg.Name(addr), err)
	}
	fmt.Fprintf(t.out, "Successfully wrote %s (%s) = %s\n", reg.Name(addr), addr, v)
	return nil
}

// status reads every status register. A failed read is reported and the
// remaining registers are still read; the first error is returned.
func (t *Tool) status() error {
	fmt.Fprintln(t.out, "LAN8651 Status Information:")
	fmt.Fprintln(t.out, strings.Repeat("=", 40))

	var first error
	for _, r := range statusRegisters {
		fmt.Fprintf(t.out, "\n%s:\n", r.title)
		v, err := t.remote.ReadRegister(r.addr)
		if err != nil {
			fmt.Fprintf(t.out, "  Failed to read %s: %v\n", reg.Name(r.addr), err)
			if first == nil {
				first = err
			}
			continue
		}
		showRegister(t.out, r.addr, v)
	}
	return first
}

func (t *Tool) debug(args []string) error {
	if len(args) == 0 {
		text, err := t.remote.DebugRead()
		fmt.Fprint(t.out, text)
		return err
	}
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "on":
			return t.remote.SetDebugEnabled(true)
		case "off":
			return t.remote.SetDebugEnabled(false)
		}
	}
	return t.remote.DebugWrite(strings.Join(args, " "))
}

func showRegister(w io.Writer, addr reg.Address, v reg.Value) {
	fmt.Fprintf(w, "Register %s (%s) = %s (%d)\n", reg.Name(addr), addr, v, uint32(v))
	fmt.Fprintf(w, "Binary: %032b\n", uint32(v))
	if bits, ok := reg.Decode(addr, v); ok {
		if len(bits) == 0 {
			fmt.Fprintln(w, "Bits: none set")
		} else {
			fmt.Fprintf(w, "Bits: %s\n", strings.Join(bits, " "))
		}
	}
	if d := reg.Describe(addr); d != "" {
		fmt.Fprintln(w, d)
	}
}
