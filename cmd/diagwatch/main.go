// Command diagwatch attaches to the baseband diagnostic interface,
// configures log-code subscriptions, and runs the analyzer harness
// over the resulting stream of containers.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"diagwatch/internal/analysis"
	"diagwatch/internal/detectors"
	"diagwatch/internal/diag"
	"diagwatch/internal/diag/container"
	"diagwatch/internal/logging"
)

var newDevice = diag.New

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Getenv); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer, getenv func(string) string) error {
	fs := flag.NewFlagSet("diagwatch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	defaultFormat := strings.TrimSpace(getenv("DIAGWATCH_LOG_FORMAT"))

	mock := fs.Bool("mock", false, "drive the harness off an in-memory mock device instead of /dev/diag")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	logFormat := fs.String("log-format", defaultFormat, "log format: text or json")

	imsiRequested := fs.Bool("imsi-requested", true, "enable the imsi_requested analyzer")
	redirect2G := fs.Bool("connection-redirect-2g-downgrade", true, "enable the connection_redirect_2g_downgrade analyzer")
	sib67 := fs.Bool("lte-sib6-and-7-downgrade", true, "enable the lte_sib6_and_7_downgrade analyzer")
	nullCipher := fs.Bool("null-cipher", true, "enable the null_cipher analyzer")
	cellularNetwork := fs.Bool("cellular-network", true, "enable the cellular_network analyzer")

	if err := fs.Parse(args); err != nil {
		return err
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(*logFormat)
	if err != nil {
		return err
	}
	logger := logging.New(level, format, out)
	logging.SetDefault(logger)

	cfg := analysis.Config{
		ImsiRequested:                 *imsiRequested,
		ConnectionRedirect2GDowngrade: *redirect2G,
		LteSib6And7Downgrade:          *sib67,
		NullCipher:                    *nullCipher,
		CellularNetwork:               *cellularNetwork,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []diag.Option{diag.WithLogger(logger)}
	if *mock {
		m := diag.NewMockHandle()
		opts = append(opts, diag.WithMockHandle(m))
	}

	dev, err := newDevice(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize diag device: %w", err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Error("failed to close diag device", logging.Field{Key: "error", Value: err})
		}
	}()

	if err := dev.ConfigLogs(); err != nil {
		return fmt.Errorf("failed to configure log masks: %w", err)
	}

	raw, elems := detectors.Build(cfg)
	harness := analysis.NewHarness(raw, elems, analysis.WithLogger(logger))

	if err := writeJSONLine(out, harness.Metadata()); err != nil {
		return fmt.Errorf("failed to emit report metadata: %w", err)
	}

	containers := make(chan container.MessagesContainer)
	errs := make(chan error, 1)
	go dev.Stream(ctx, containers, errs)

	for {
		select {
		case mc, ok := <-containers:
			if !ok {
				return nil
			}
			row := harness.ProcessContainer(mc)
			if row.IsEmpty() {
				continue
			}
			if err := writeJSONLine(out, row); err != nil {
				return fmt.Errorf("failed to emit analysis row: %w", err)
			}
		case err := <-errs:
			if err != nil {
				return fmt.Errorf("diag device stream failed: %w", err)
			}
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func writeJSONLine(out io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
