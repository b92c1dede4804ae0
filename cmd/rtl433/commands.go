package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SergeyKa2021/rtl-433/internal/bitbuf"
	"github.com/SergeyKa2021/rtl-433/internal/config"
	"github.com/SergeyKa2021/rtl-433/internal/device"
	"github.com/SergeyKa2021/rtl-433/internal/logging"
	"github.com/SergeyKa2021/rtl-433/internal/output"
	"github.com/SergeyKa2021/rtl-433/internal/server"
	"github.com/SergeyKa2021/rtl-433/internal/ui"
)

// Command flags
var (
	configPath  string
	verbose     bool
	serveAddr   string
	advertise   bool
	monitorURL  string
	scanTimeout int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(protocolsCmd)
}

// initLogging applies the --verbose flag over the configured level.
func initLogging(cfg *config.Config) error {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logging.Initialize(level); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// decodeCmd decodes captures from files or stdin to JSON lines
var decodeCmd = &cobra.Command{
	Use:   "decode [files...]",
	Short: "Decode captures to JSON lines",
	Long: `Decode bit captures and print readings as JSON lines on stdout.

Each input line is one capture: whitespace-separated {bitcount}hex row
literals, typically the repeated rows of a single transmission. With no
file arguments, captures are read from stdin.`,
	Example: `  # Decode a capture file
  rtl433 decode captures.txt

  # Decode from a demodulator pipeline
  ook_demod | rtl433 decode

  # Show why rows were rejected
  rtl433 decode -v captures.txt`,
	RunE: runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logging.Sync()

	sink := output.NewJSONWriter(os.Stdout)

	if len(args) == 0 {
		return decodeStream(os.Stdin, "stdin", sink)
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open capture file: %w", err)
		}
		err = decodeStream(f, path, sink)
		_ = f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeStream runs every capture line in r through the registered
// decoders and publishes what decodes.
func decodeStream(r io.Reader, name string, sink output.Sink) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rows, err := bitbuf.ParseCapture(line)
		if err != nil {
			logging.Warn("skipping malformed capture",
				zap.String("input", name),
				zap.Int("line", lineNum),
				zap.Error(err),
			)
			continue
		}
		decodeCapture(rows, sink)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	return nil
}

// decodeCapture offers one capture to every registered decoder.
func decodeCapture(rows []bitbuf.Row, sink output.Sink) {
	server.ObserveRows(len(rows))

	for _, dec := range device.Decoders() {
		rec, status := dec.Decode(rows)
		server.ObserveDecode(status)

		if rec == nil {
			logging.Debug("capture did not decode",
				zap.String("protocol", dec.Protocol().Name),
				zap.Stringer("status", status),
			)
			continue
		}
		if err := sink.Publish(rec); err != nil {
			logging.Error("failed to publish record", zap.Error(err))
		}
	}
}

// serveCmd runs the full pipeline: decode stdin, stream and publish
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Decode stdin and serve the record stream",
	Long: `Run the decode pipeline as a long-lived service.

Captures are read from stdin and decoded continuously. Readings go to
stdout as JSON lines, to all WebSocket clients connected to /ws, and to
an MQTT broker when one is configured. Prometheus metrics are exposed
on /metrics.`,
	Example: `  # Serve on the configured address
  ook_demod | rtl433 serve

  # Serve on a specific address and advertise over mDNS
  ook_demod | rtl433 serve --addr 0.0.0.0:8433 --advertise`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the stream over mDNS")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if advertise {
		cfg.Server.Advertise = true
	}
	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logging.Sync()

	srv := server.New(cfg.Server)

	sinks := []output.Sink{output.NewJSONWriter(os.Stdout), srv}
	if cfg.MQTT.Enabled {
		mq, err := output.NewMQTTPublisher(cfg.MQTT)
		if err != nil {
			return err
		}
		sinks = append(sinks, mq)
	}
	sink := output.NewMultiSink(sinks...)
	defer func() { _ = sink.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The decode pipeline ends when stdin does; the server keeps
	// streaming what was decoded until a signal arrives.
	go func() {
		if err := decodeStream(os.Stdin, "stdin", sink); err != nil {
			logging.Error("decode pipeline failed", zap.Error(err))
		} else {
			logging.Info("capture input exhausted")
		}
	}()

	return srv.Run(ctx)
}

// monitorCmd shows a live terminal view of a stream server
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live terminal view of a record stream",
	Long: `Connect to a running stream server and show decoded readings live.

Without --url, the local network is browsed over mDNS for an advertised
stream server and the first one found is used.`,
	Example: `  # Auto-discover a stream server on the LAN
  rtl433 monitor

  # Connect to a known server
  rtl433 monitor --url ws://192.168.1.50:8433/ws`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorURL, "url", "", "Stream WebSocket URL (skips discovery)")
	monitorCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Discovery timeout in seconds")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logging.Sync()

	url := monitorURL
	if url == "" {
		fmt.Printf("Browsing for stream servers (timeout: %ds)...\n", scanTimeout)
		urls, err := server.Discover(context.Background(), time.Duration(scanTimeout)*time.Second)
		if err != nil {
			return fmt.Errorf("discovery failed: %w", err)
		}
		if len(urls) == 0 {
			fmt.Println("No stream servers found.")
			fmt.Println("\nTroubleshooting:")
			fmt.Println("  - Ensure 'rtl433 serve --advertise' is running on the network")
			fmt.Println("  - Try increasing --timeout for slower networks")
			fmt.Println("  - Use --url to specify the server manually")
			return nil
		}
		url = urls[0]
	}

	return ui.RunMonitor(url)
}

// protocolsCmd lists the registered decode cores
var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "List registered sensor protocols",
	Run: func(cmd *cobra.Command, args []string) {
		for _, dec := range device.Decoders() {
			p := dec.Protocol()
			fmt.Println(p)
			fmt.Printf("    fields: %s\n", strings.Join(p.Fields, ", "))
		}
	},
}
