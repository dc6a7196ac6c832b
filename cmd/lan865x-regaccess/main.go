// Command lan865x-regaccess reads and writes LAN865x registers through a
// running lan865x-device.
//
// Usage:
//
//	lan865x-regaccess [flags] <command> [args...]
//
// Commands:
//
//	list                   List known registers
//	read <addr|name>       Read a register and decode its bits
//	write <addr|name> <v>  Write a register
//	status                 Read the status registers
//	debug [on|off|line]    Use the debug interface
//	shell                  Interactive mode
//
// The device is reached at -addr. Without it, -browse or -device look it
// up over mDNS, and otherwise the last address used is tried.
//
// Examples:
//
//	lan865x-regaccess read 0x10000
//	lan865x-regaccess read OA_STATUS0
//	lan865x-regaccess write MAC_NCR 0x0C
//	lan865x-regaccess -device lan865x0 status
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/t1s-tools/lan865x-go/pkg/control"
	"github.com/t1s-tools/lan865x-go/pkg/discovery"
	"github.com/t1s-tools/lan865x-go/pkg/persistence"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
	"github.com/t1s-tools/lan865x-go/pkg/transport"
)

var (
	addr     = flag.String("addr", "", "Control channel address (host:port)")
	deviceID = flag.String("device", "", "Find the device with this ID over mDNS")
	doBrowse = flag.Bool("browse", false, "Find the first device over mDNS")
	iface    = flag.String("interface", "", "Network interface for mDNS")
	driver   = flag.String("driver", regio.DefaultDriver, "Expected driver name")
	attempts = flag.Int("attempts", 3, "Connection attempts")
	timeout  = flag.Duration("timeout", regio.DefaultCallTimeout, "Per-request timeout")
	verbose  = flag.Bool("verbose", false, "Log connection progress")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lan865x-regaccess [flags] <command> [args...]\n\n%s\n\nFlags:\n", shellHelp)
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(0)
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	// list needs no device.
	if strings.ToLower(args[0]) == "list" {
		printList(os.Stdout)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	stateStore := toolStateStore()
	target, err := resolveTarget(ctx, stateStore)
	if err != nil {
		fatal(err)
	}

	client, err := connect(ctx, connectOptions{
		Address:  target,
		Attempts: *attempts,
		Indirect: regio.IndirectConfig{ExpectedDriver: *driver, CallTimeout: *timeout},
	})
	if err != nil {
		if errors.Is(err, regio.ErrIdentityMismatch) {
			fatal(fmt.Errorf("%w (kernel driver extension needed)", err))
		}
		fatal(err)
	}
	defer client.Close()

	id := client.Identity()
	log.Printf("Connected to %s (driver %s, protocol %s)", target, id.Driver, id.Version)
	if stateStore != nil {
		err := stateStore.Save(&persistence.ToolState{
			LastAddress: target,
			LastDriver:  id.Driver,
			LastVersion: id.Version,
		})
		if err != nil {
			log.Printf("Failed to save tool state: %v", err)
		}
	}

	tool := &Tool{remote: client, out: os.Stdout}
	if strings.ToLower(args[0]) == "shell" {
		if err := runShell(tool, target); err != nil {
			fatal(err)
		}
		return
	}
	if err := tool.Run(args); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		fatal(err)
	}
}

// resolveTarget picks the address: -addr, then mDNS, then the last address
// used, then the default.
func resolveTarget(ctx context.Context, store *persistence.ToolStateStore) (string, error) {
	if *addr != "" {
		return *addr, nil
	}
	if *deviceID != "" || *doBrowse {
		svc, err := browse(ctx, *deviceID, *iface, discovery.BrowseTimeout)
		if err != nil {
			return "", err
		}
		log.Printf("Found %s (%s) at %s", svc.DeviceID, svc.InstanceName, svc.DialAddress())
		return svc.DialAddress(), nil
	}
	if store != nil {
		if st, err := store.Load(); err == nil && st != nil && st.LastAddress != "" {
			return st.LastAddress, nil
		}
	}
	return transport.DefaultAddress, nil
}

func toolStateStore() *persistence.ToolStateStore {
	path, err := persistence.DefaultToolStatePath()
	if err != nil {
		log.Printf("No tool state: %v", err)
		return nil
	}
	return persistence.NewToolStateStore(path)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

var _ Remote = (*control.Client)(nil)
