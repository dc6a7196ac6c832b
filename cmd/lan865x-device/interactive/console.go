// Package interactive provides the lan865x-device console.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/t1s-tools/lan865x-go/pkg/device"
	"github.com/t1s-tools/lan865x-go/pkg/hashfilter"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
	"github.com/t1s-tools/lan865x-go/pkg/regdebug"
	"github.com/t1s-tools/lan865x-go/pkg/sim"
)

// opTimeout bounds open, close and rx mode commands.
const opTimeout = 5 * time.Second

// Console handles interactive mode for lan865x-device.
type Console struct {
	dev   *device.Device
	chip  *sim.Chip
	debug *regdebug.Handler
	rl    *readline.Instance
	out   io.Writer
}

// New creates a console on the terminal.
func New(dev *device.Device, chip *sim.Chip, debug *regdebug.Handler) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lan865x> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	c := newConsole(dev, chip, debug, rl.Stdout())
	c.rl = rl
	return c, nil
}

func newConsole(dev *device.Device, chip *sim.Chip, debug *regdebug.Handler, out io.Writer) *Console {
	return &Console{dev: dev, chip: chip, debug: debug, out: out}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop. It calls cancel when the user
// quits.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if quit := c.Execute(ctx, line); quit {
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line and reports whether the user asked to quit.
func (c *Console) Execute(ctx context.Context, line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "regs":
		c.cmdRegs(args)
	case "peek":
		c.cmdPeek(args)
	case "poke":
		c.cmdPoke(args)
	case "debug":
		c.cmdDebug(args)
	case "up":
		c.cmdLink(ctx, true)
	case "down":
		c.cmdLink(ctx, false)
	case "mac":
		c.cmdMAC(args)
	case "rxmode":
		c.cmdRxMode(ctx, args)
	case "fault":
		c.cmdFault(args)
	case "clear-faults":
		c.chip.ClearFaults()
		fmt.Fprintln(c.out, "Faults cleared")
	case "status", "s":
		c.cmdStatus()
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
LAN865x Device Commands:
  Registers (simulated chip, no bus faults):
    regs [bank]            - Dump named registers (all banks or one MMS)
    peek <reg>             - Show a register value
    poke <reg> <value>     - Set a register value

  Device:
    up                     - Enable TX and RX
    down                   - Disable TX and RX
    mac [addr]             - Show or set the station address
    rxmode <mode> [addr..] - Set the receive filter (none, list, allmulti, promisc)
    status                 - Show device status

  Debug interface:
    debug                  - Show the debug status block
    debug on|off           - Open or close the debug gate
    debug <addr> [value]   - Run a debug command line

  Fault injection:
    fault <read|write|any> <reg> [skip] [count]
    clear-faults

    quit                   - Exit`)
}

func (c *Console) cmdRegs(args []string) {
	banks := reg.Banks()
	if len(args) > 0 {
		n, err := strconv.ParseUint(args[0], 0, 16)
		if err != nil {
			fmt.Fprintf(c.out, "Invalid bank: %s\n", args[0])
			return
		}
		banks = []reg.Bank{reg.Bank(n)}
	}
	for _, b := range banks {
		fmt.Fprintf(c.out, "%s:\n", b)
		for _, e := range reg.List(b) {
			fmt.Fprintf(c.out, "  %-16s %s = %s\n", e.Name, e.Address, c.chip.Peek(e.Address))
		}
	}
}

func (c *Console) cmdPeek(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: peek <reg>")
		return
	}
	addr, err := reg.ParseAddress(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.printRegister(addr, c.chip.Peek(addr))
}

func (c *Console) cmdPoke(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: poke <reg> <value>")
		return
	}
	addr, err := reg.ParseAddress(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	v, err := reg.ParseValue(args[1])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.chip.Poke(addr, v)
	c.printRegister(addr, v)
}

func (c *Console) printRegister(addr reg.Address, v reg.Value) {
	fmt.Fprintf(c.out, "%s (%s) = %s", reg.Name(addr), addr, v)
	if bits, ok := reg.Decode(addr, v); ok && len(bits) > 0 {
		fmt.Fprintf(c.out, " [%s]", strings.Join(bits, " "))
	}
	fmt.Fprintln(c.out)
}

func (c *Console) cmdDebug(args []string) {
	if len(args) == 0 {
		text, err := c.debug.Read()
		fmt.Fprint(c.out, text)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		return
	}
	switch strings.ToLower(args[0]) {
	case "on", "1":
		c.debug.SetEnabled(true)
		fmt.Fprintln(c.out, "Debug enabled")
		return
	case "off", "0":
		c.debug.SetEnabled(false)
		fmt.Fprintln(c.out, "Debug disabled")
		return
	}
	if err := c.debug.Write(strings.Join(args, " ")); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	addr, v := c.debug.Session().Last()
	c.printRegister(addr, v)
}

func (c *Console) cmdLink(ctx context.Context, up bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var err error
	if up {
		err = c.dev.Open(ctx)
	} else {
		err = c.dev.Close(ctx)
	}
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	fmt.Fprintf(c.out, "Link: %s\n", c.dev.State())
}

func (c *Console) cmdMAC(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(c.out, "MAC: %s (chip: %s)\n", c.dev.MACAddress(), c.chip.StationAddr())
		return
	}
	addr, err := hashfilter.ParseHardwareAddr(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if _, err := c.dev.SetMACAddress(addr); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	fmt.Fprintf(c.out, "MAC: %s (chip: %s)\n", c.dev.MACAddress(), c.chip.StationAddr())
}

func (c *Console) cmdRxMode(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: rxmode <none|list|allmulti|promisc> [addr...]")
		return
	}
	mode, err := device.ParseRxMode(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	req := device.RxRequest{Mode: mode}
	for _, s := range args[1:] {
		a, err := hashfilter.ParseHardwareAddr(s)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		req.Multicast = append(req.Multicast, a)
	}

	if err := c.dev.SetRxMode(req); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := c.dev.WaitRxMode(ctx); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Rx mode: %s (hash %s)\n", req, c.chip.Filter())
}

func (c *Console) cmdFault(args []string) {
	if len(args) < 2 || len(args) > 4 {
		fmt.Fprintln(c.out, "Usage: fault <read|write|any> <reg> [skip] [count]")
		return
	}
	op, err := sim.ParseOp(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	addr, err := reg.ParseAddress(args[1])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	f := sim.Fault{Op: op, Addr: addr}
	nums := []*int{&f.Skip, &f.Count}
	for i, s := range args[2:] {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			fmt.Fprintf(c.out, "Invalid number: %s\n", s)
			return
		}
		*nums[i] = n
	}
	c.chip.Inject(f)
	fmt.Fprintf(c.out, "Fault armed: %s %s skip=%d count=%d\n", f.Op, reg.Name(addr), f.Skip, f.Count)
}

func (c *Console) cmdStatus() {
	snap := c.dev.Snapshot()
	fmt.Fprintf(c.out, "Device:  %s\n", snap.ID)
	fmt.Fprintf(c.out, "Link:    %s\n", snap.State)
	fmt.Fprintf(c.out, "MAC:     %s\n", snap.MAC)
	fmt.Fprintf(c.out, "Rx mode: %s\n", snap.RxMode)
	if snap.RxErr != nil {
		fmt.Fprintf(c.out, "Rx error: %v\n", snap.RxErr)
	}
	fmt.Fprintf(c.out, "Hash:    %s\n", c.chip.Filter())
	fmt.Fprintf(c.out, "Debug:   %s\n", onOff(c.debug.Session().Enabled()))
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
