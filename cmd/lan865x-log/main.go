// Command lan865x-log views and summarizes register access logs.
//
// Log files are written by lan865x-device when protocol_log is set in its
// configuration.
//
// Usage:
//
//	lan865x-log <command> [flags] <file.rlog>
//
// Commands:
//
//	view     Print events in human-readable form
//	stats    Show access counts per register and error kinds
//
// Examples:
//
//	# Every write to the station address high word
//	lan865x-log view -register MAC_SAT1 device.rlog
//
//	# Only failures
//	lan865x-log view -errors device.rlog
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/t1s-tools/lan865x-go/cmd/lan865x-log/commands"
	"github.com/t1s-tools/lan865x-go/pkg/log"
)

const usage = `lan865x-log - LAN865x register log viewer

Usage:
  lan865x-log <command> [flags] <file.rlog>

Commands:
  view     View log file in human-readable format
  stats    Show statistics about the log file

Use "lan865x-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lan865x-log view - View log file in human-readable format

Usage:
  lan865x-log view [flags] <file.rlog>

Flags:
`)
		fs.PrintDefaults()
	}

	layer := fs.String("layer", "", "Filter by layer (register, control, device)")
	category := fs.String("category", "", "Filter by category (access, frame, state, error)")
	register := fs.String("register", "", "Filter by register name or hex address")
	deviceID := fs.String("device-id", "", "Filter by device ID")
	session := fs.String("session", "", "Filter by session ID")
	since := fs.String("since", "", "Only events at or after this time (RFC3339)")
	errorsOnly := fs.Bool("errors", false, "Only error events and failed accesses")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter := log.Filter{
		DeviceID:   *deviceID,
		SessionID:  *session,
		ErrorsOnly: *errorsOnly,
	}
	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fail(err)
		}
		filter.Layer = &l
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}
	if *register != "" {
		a, err := commands.ParseRegisterFlag(*register)
		if err != nil {
			fail(err)
		}
		filter.Address = &a
	}
	if *since != "" {
		ts, err := time.Parse(time.RFC3339, *since)
		if err != nil {
			fail(fmt.Errorf("invalid -since: %w", err))
		}
		filter.TimeStart = &ts
	}

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lan865x-log stats - Show statistics about the log file

Usage:
  lan865x-log stats <file.rlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fail(err)
	}
}
