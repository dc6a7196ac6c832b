package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter mirrors events into an operational slog.Logger. Successful
// accesses, frames and state changes go out at Debug, failures at Warn, all
// under the message "regaccess".
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter returns an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log implements Logger.
func (a *SlogAdapter) Log(event Event) {
	level := slog.LevelDebug
	if isFailure(event) {
		level = slog.LevelWarn
	}

	attrs := make([]slog.Attr, 0, 10)
	attrs = append(attrs,
		slog.String("session", event.SessionID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	)
	attrs = appendNonEmpty(attrs, "device_id", event.DeviceID)
	attrs = appendNonEmpty(attrs, "remote", event.RemoteAddr)

	switch {
	case event.Access != nil:
		attrs = accessAttrs(attrs, event.Access)
	case event.Frame != nil:
		attrs = append(attrs,
			slog.String("direction", event.Direction.String()),
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated))
	case event.StateChange != nil:
		sc := event.StateChange
		attrs = append(attrs,
			slog.String("entity", sc.Entity.String()),
			slog.String("old_state", sc.OldState),
			slog.String("new_state", sc.NewState))
		attrs = appendNonEmpty(attrs, "reason", sc.Reason)
	case event.Error != nil:
		e := event.Error
		attrs = append(attrs,
			slog.String("error_layer", e.Layer.String()),
			slog.String("error_msg", e.Message))
		attrs = appendNonEmpty(attrs, "error_kind", e.Kind)
		attrs = appendNonEmpty(attrs, "error_context", e.Context)
	}

	a.logger.LogAttrs(context.Background(), level, "regaccess", attrs...)
}

func accessAttrs(attrs []slog.Attr, acc *AccessEvent) []slog.Attr {
	attrs = append(attrs,
		slog.String("op", acc.Op.String()),
		slog.String("addr", hex32(acc.Address)),
		slog.String("value", hex32(acc.Value)))
	attrs = appendNonEmpty(attrs, "error", acc.Error)
	if acc.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", acc.Duration))
	}
	return attrs
}

func appendNonEmpty(attrs []slog.Attr, key, value string) []slog.Attr {
	if value == "" {
		return attrs
	}
	return append(attrs, slog.String(key, value))
}

func hex32(v uint32) string { return fmt.Sprintf("0x%08X", v) }

var _ Logger = (*SlogAdapter)(nil)
