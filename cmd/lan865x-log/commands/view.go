// Package commands implements the lan865x-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")

	var label string
	switch {
	case event.Access != nil:
		label = event.Access.Op.String()
	case event.Frame != nil:
		label = "Frame " + event.Direction.String()
	case event.StateChange != nil:
		label = "State"
	case event.Error != nil:
		label = "Error"
	default:
		label = "Unknown"
	}

	tag := event.DeviceID
	if tag == "" {
		tag = shortenSessionID(event.SessionID)
	}
	fmt.Fprintf(w, "%s [%s] %-8s %s\n", ts, tag, event.Layer.String(), label)

	switch {
	case event.Access != nil:
		formatAccessDetails(w, event.Access)
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatAccessDetails(w io.Writer, a *log.AccessEvent) {
	addr := reg.Address(a.Address)
	fmt.Fprintf(w, "  Register: %s (%s)\n", addr, reg.Name(addr))
	if a.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", a.Error)
	} else {
		v := reg.Value(a.Value)
		fmt.Fprintf(w, "  Value: %s", v)
		if bits, ok := reg.Decode(addr, v); ok && len(bits) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(bits, " "))
		}
		fmt.Fprintln(w)
	}
	if a.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(a.Duration))
	}
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", e.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Kind != "" {
		fmt.Fprintf(w, "  Kind: %s\n", e.Kind)
	}
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseLayerFlag parses a layer name (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "register":
		return log.LayerRegister, nil
	case "control":
		return log.LayerControl, nil
	case "device":
		return log.LayerDevice, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be register, control, or device)", s)
	}
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "access":
		return log.CategoryAccess, nil
	case "frame":
		return log.CategoryFrame, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s", s)
	}
}

// ParseRegisterFlag accepts a register name or a hex address.
func ParseRegisterFlag(s string) (uint32, error) {
	addr, err := reg.ParseAddress(s)
	if err != nil {
		return 0, err
	}
	return uint32(addr), nil
}

// RunView prints every event in path that matches filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
}
