// Command concert-sim runs a simulated beamline rig with an interactive
// shell.
//
// The rig is described by a YAML configuration file: motors with their
// calibration and travel limits, shutters, monochromators and an
// optional focuser. All parameter and state changes are appended to a
// binary event log and, when a broker is configured, published over
// MQTT.
//
// Usage:
//
//	concert-sim [flags]
//
// Flags:
//
//	-config string     Rig configuration file (built-in rig if empty)
//	-events string     Event log path (overrides the config)
//	-mqtt string       MQTT broker URL (overrides the config)
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Start the built-in single-axis rig
//	concert-sim
//
//	# Start a configured rig with an event log
//	concert-sim -config beamline.yaml -events beamline.clog
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/concert-control/concert-go/pkg/log"
	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/telemetry"
)

var (
	configPath string
	eventsPath string
	mqttBroker string
	logLevel   string
)

func init() {
	flag.StringVar(&configPath, "config", "", "Rig configuration file (built-in rig if empty)")
	flag.StringVar(&eventsPath, "events", "", "Event log path (overrides the config)")
	flag.StringVar(&mqttBroker, "mqtt", "", "MQTT broker URL (overrides the config)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	slogger := setupLogging(logLevel)

	cfg := DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = LoadConfig(configPath)
		if err != nil {
			slogger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if eventsPath != "" {
		cfg.Events = eventsPath
	}
	if mqttBroker != "" {
		cfg.MQTT.Broker = mqttBroker
	}

	loggers := []log.Logger{log.NewSlogAdapter(slogger)}
	if cfg.Events != "" {
		fl, err := log.NewFileLogger(cfg.Events)
		if err != nil {
			slogger.Error("failed to open event log", "path", cfg.Events, "error", err)
			os.Exit(1)
		}
		defer fl.Close()
		loggers = append(loggers, fl)
		slogger.Info("event log enabled", "path", cfg.Events)
	}
	eventLog := log.NewMultiLogger(loggers...)

	// Parameter changes flow through observers; state changes and
	// warnings are logged by the devices themselves.
	observers := []param.Observer{log.NewParameterObserver(eventLog)}

	if cfg.MQTT.Broker != "" {
		clientID := cfg.MQTT.ClientID
		if clientID == "" {
			clientID = "concert-sim-" + cfg.Rig
		}
		client, err := telemetry.Connect(cfg.MQTT.Broker, clientID)
		if err != nil {
			slogger.Error("failed to connect to broker", "broker", cfg.MQTT.Broker, "error", err)
			os.Exit(1)
		}
		defer client.Disconnect(250)
		observers = append(observers, telemetry.NewPublisher(client, cfg.Rig))
		slogger.Info("telemetry enabled", "broker", cfg.MQTT.Broker, "prefix", cfg.Rig)
	}

	rig, err := BuildRig(cfg, eventLog, observers...)
	if err != nil {
		slogger.Error("failed to build rig", "error", err)
		os.Exit(1)
	}
	slogger.Info("rig ready", "rig", cfg.Rig, "devices", len(rig.Names()))

	shell, err := NewShell(rig, eventLog)
	if err != nil {
		slogger.Error("failed to start shell", "error", err)
		os.Exit(1)
	}
	shell.Run()
}

func setupLogging(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Unknown log level %q, using info\n", level)
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
