// Command lan865x-device runs a LAN865x MAC-PHY device on a simulated chip
// and serves its control channel.
//
// The daemon programs the chip at startup, restores the saved station
// address and debug gate, listens for control requests and advertises the
// channel over mDNS.
//
// Usage:
//
//	lan865x-device [flags]
//
// Flags:
//
//	-config string        Configuration file path
//	-listen string        Control channel address (overrides config)
//	-mac string           Initial station address (overrides config and state)
//	-state-file string    State file path (overrides config)
//	-protocol-log string  Register access log path (overrides config)
//	-log-level string     Log level: debug, info, warn, error
//	-interactive          Run the interactive console
//	-no-mdns              Do not advertise the control channel
//
// Examples:
//
//	# Start with defaults on 127.0.0.1:8651
//	lan865x-device
//
//	# Start from a config file with the console
//	lan865x-device -config /etc/lan865x/device.yaml -interactive
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/t1s-tools/lan865x-go/cmd/lan865x-device/interactive"
	"github.com/t1s-tools/lan865x-go/pkg/config"
	"github.com/t1s-tools/lan865x-go/pkg/control"
	"github.com/t1s-tools/lan865x-go/pkg/device"
	"github.com/t1s-tools/lan865x-go/pkg/discovery"
	rlog "github.com/t1s-tools/lan865x-go/pkg/log"
	"github.com/t1s-tools/lan865x-go/pkg/persistence"
	"github.com/t1s-tools/lan865x-go/pkg/regdebug"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
	"github.com/t1s-tools/lan865x-go/pkg/sim"
	"github.com/t1s-tools/lan865x-go/pkg/transport"
	"github.com/t1s-tools/lan865x-go/pkg/version"
)

var (
	configFile  = flag.String("config", "", "Configuration file path")
	listen      = flag.String("listen", "", "Control channel address (overrides config)")
	macFlag     = flag.String("mac", "", "Initial station address (overrides config and state)")
	stateFile   = flag.String("state-file", "", "State file path (overrides config)")
	protocolLog = flag.String("protocol-log", "", "Register access log path (overrides config)")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
	interact    = flag.Bool("interactive", false, "Run the interactive console")
	noMDNS      = flag.Bool("no-mdns", false, "Do not advertise the control channel")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	setupLogging(cfg.LogLevel)
	slogger := operationalLogger(cfg.LogLevel)

	log.Println("LAN865x Device")
	log.Println("==============")
	log.Printf("Device ID: %s", cfg.DeviceID)
	log.Printf("Control channel: %s", cfg.Listen)

	// Saved state wins over the configured defaults; the -mac flag wins over both.
	var store *persistence.DeviceStateStore
	mac, _, _ := cfg.StationAddr()
	debugEnabled := cfg.DebugEnabled
	if cfg.StateFile != "" {
		store = persistence.NewDeviceStateStore(cfg.StateFile)
		saved, err := store.Load()
		if err != nil {
			log.Printf("Warning: ignoring state file: %v", err)
		} else if saved != nil && saved.DeviceID == cfg.DeviceID {
			if addr, ok, err := saved.StationAddr(); err != nil {
				log.Printf("Warning: ignoring saved MAC: %v", err)
			} else if ok && *macFlag == "" {
				mac = addr
			}
			if saved.DebugEnabled != nil {
				debugEnabled = *saved.DebugEnabled
			}
			log.Printf("Restored state saved at %s", saved.SavedAt.Format(time.RFC3339))
		}
	}

	chip := sim.New()
	faults, _ := cfg.SimFaults()
	for _, f := range faults {
		chip.Inject(f)
		log.Printf("Injected fault: %s %s skip=%d count=%d", f.Op, f.Addr, f.Skip, f.Count)
	}

	protoLogger, closeProto := protocolLogger(cfg.ProtocolLog, slogger)
	defer closeProto()

	tr := regio.NewLogged(regio.NewDirect(chip), protoLogger,
		regio.WithDeviceID(cfg.DeviceID),
		regio.WithRole(rlog.RoleDevice),
	)

	dev := device.New(tr, device.Config{
		ID:         cfg.DeviceID,
		MAC:        mac,
		StopQueue:  func() { log.Println("[EVENT] TX queue stopped") },
		StartQueue: func() { log.Println("[EVENT] TX queue started") },
		Logger:     protoLogger,
		Slog:       slogger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := dev.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize device: %v", err)
	}
	log.Printf("MAC address: %s", dev.MACAddress())

	debug := regdebug.NewHandler(dev.Transport(), regdebug.NewSession(debugEnabled))
	debug.Logger = protoLogger
	debug.DeviceID = cfg.DeviceID
	debug.Slog = slogger

	saveState := func() {
		if store == nil {
			return
		}
		enabled := debug.Session().Enabled()
		err := store.Save(&persistence.DeviceState{
			DeviceID:     cfg.DeviceID,
			MAC:          dev.MACAddress().String(),
			DebugEnabled: &enabled,
		})
		if err != nil {
			log.Printf("Warning: failed to save state: %v", err)
		}
	}

	advertiser := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{
		Instance:  cfg.MDNS.Instance,
		Interface: cfg.MDNS.Interface,
		Slog:      slogger,
	})
	advertise := cfg.MDNS.Advertise && !*noMDNS

	var server *control.Server
	controlInfo := func() *discovery.ControlInfo {
		return &discovery.ControlInfo{
			DeviceID:    cfg.DeviceID,
			Driver:      cfg.Driver,
			Version:     version.Current,
			MAC:         dev.MACAddress().String(),
			RegisterOps: cfg.RegisterOps,
			Port:        uint16(server.Port()),
		}
	}

	handler := control.NewHandler(dev, debug,
		control.WithDriver(cfg.Driver),
		control.WithRegisterOps(cfg.RegisterOps),
		control.WithRequestTimeout(cfg.RequestTimeout),
		control.WithSlog(slogger),
		control.WithOnChange(func(c control.Change) {
			saveState()
			if c == control.ChangeMAC && advertise {
				if err := advertiser.Update(controlInfo()); err != nil {
					log.Printf("Warning: failed to update mDNS record: %v", err)
				}
			}
		}),
	)

	server = control.NewServer(handler, transport.ServerConfig{
		Address: cfg.Listen,
		Logger:  protoLogger,
		Slog:    slogger,
		OnConnect: func(conn *transport.ServerConn) {
			log.Printf("[EVENT] Control connection from %s (%s)", conn.RemoteAddr(), conn.ConnID())
		},
		OnDisconnect: func(conn *transport.ServerConn) {
			log.Printf("[EVENT] Control connection closed (%s)", conn.ConnID())
		},
	})
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Failed to start control channel: %v", err)
	}
	log.Printf("Control channel listening on %s", server.Addr())

	if advertise {
		if err := advertiser.Advertise(ctx, controlInfo()); err != nil {
			log.Printf("Warning: mDNS advertisement failed: %v", err)
		} else {
			log.Printf("Advertising %s", discovery.ServiceType)
		}
	}

	if *interact {
		console, err := interactive.New(dev, chip, debug)
		if err != nil {
			log.Fatalf("Failed to start console: %v", err)
		}
		log.SetOutput(console.Stdout())
		go console.Run(ctx, cancel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	if advertise {
		_ = advertiser.Stop()
	}
	if err := server.Stop(); err != nil {
		log.Printf("Error stopping control channel: %v", err)
	}
	dev.Shutdown()
	saveState()

	log.Println("Goodbye!")
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return nil, err
		}
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *macFlag != "" {
		cfg.MAC = *macFlag
	}
	if *stateFile != "" {
		cfg.StateFile = *stateFile
	}
	if *protocolLog != "" {
		cfg.ProtocolLog = *protocolLog
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	return cfg, cfg.Validate()
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

// operationalLogger returns the slog logger handed to the libraries. They
// only emit debug messages, so it is nil below debug level.
func operationalLogger(level string) *slog.Logger {
	if level != "debug" {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// protocolLogger builds the register access logger. The returned logger is
// nil when neither a file nor debug output is configured.
func protocolLogger(path string, slogger *slog.Logger) (rlog.Logger, func()) {
	var loggers []rlog.Logger
	closeFn := func() {}

	if path != "" {
		fl, err := rlog.NewFileLogger(path)
		if err != nil {
			log.Fatalf("Failed to open protocol log: %v", err)
		}
		log.Printf("Protocol logging to: %s", path)
		loggers = append(loggers, fl)
		closeFn = func() {
			if n := fl.Dropped(); n > 0 {
				log.Printf("Protocol log dropped %d events", n)
			}
			fl.Close()
		}
	}
	if slogger != nil {
		loggers = append(loggers, rlog.NewSlogAdapter(slogger))
	}

	switch len(loggers) {
	case 0:
		return nil, closeFn
	case 1:
		return loggers[0], closeFn
	default:
		return rlog.NewMultiLogger(loggers...), closeFn
	}
}
