package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/reg"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByLayer    map[log.Layer]int
	EventsByCategory map[log.Category]int
	Reads            int
	Writes           int
	FailedAccesses   int
	Errors           int
	ErrorsByKind     map[string]int
	Registers        map[reg.Address]*RegisterStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// RegisterStats counts accesses to one register.
type RegisterStats struct {
	Reads     int
	Writes    int
	Failures  int
	LastValue reg.Value
}

// CollectStats consumes events from next until it returns io.EOF.
func CollectStats(next func() (log.Event, error)) (*Stats, error) {
	stats := &Stats{
		EventsByLayer:    make(map[log.Layer]int),
		EventsByCategory: make(map[log.Category]int),
		ErrorsByKind:     make(map[string]int),
		Registers:        make(map[reg.Address]*RegisterStats),
	}

	for {
		event, err := next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if a := event.Access; a != nil {
		addr := reg.Address(a.Address)
		rs, ok := s.Registers[addr]
		if !ok {
			rs = &RegisterStats{}
			s.Registers[addr] = rs
		}
		if a.Op == log.AccessWrite {
			s.Writes++
			rs.Writes++
		} else {
			s.Reads++
			rs.Reads++
		}
		if a.Error != "" {
			s.FailedAccesses++
			rs.Failures++
		} else {
			rs.LastValue = reg.Value(a.Value)
		}
	}

	if event.Error != nil {
		s.Errors++
		kind := event.Error.Kind
		if kind == "" {
			kind = "UNCLASSIFIED"
		}
		s.ErrorsByKind[kind]++
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats, err := CollectStats(reader.Next)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== LAN865x Register Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerRegister, log.LayerControl, log.LayerDevice} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryAccess, log.CategoryFrame, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Accesses: %d reads, %d writes, %d failed\n", stats.Reads, stats.Writes, stats.FailedAccesses)
	if len(stats.Registers) > 0 {
		addrs := make([]reg.Address, 0, len(stats.Registers))
		for a := range stats.Registers {
			addrs = append(addrs, a)
		}
		sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

		fmt.Fprintln(w)
		for _, a := range addrs {
			rs := stats.Registers[a]
			fmt.Fprintf(w, "  %-24s %s  r=%d w=%d", reg.Name(a), a, rs.Reads, rs.Writes)
			if rs.Failures > 0 {
				fmt.Fprintf(w, " failed=%d", rs.Failures)
			}
			fmt.Fprintf(w, " last=%s\n", rs.LastValue)
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
		kinds := make([]string, 0, len(stats.ErrorsByKind))
		for k := range stats.ErrorsByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-12s %d\n", k+":", stats.ErrorsByKind[k])
		}
	}
}
