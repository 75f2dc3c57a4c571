package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wiredlabs/labelctl/internal/logging"
	"github.com/wiredlabs/labelctl/internal/printer"
)

func main() {
	var (
		configPath  = flag.String("config", "", "printctl config file with named printers")
		printerName = flag.String("printer", "", "named printer from the config file")
		host        = flag.String("host", "", "printer host (overrides config)")
		port        = flag.Int("port", 0, "printer port (default 9100)")
		timeout     = flag.Duration("timeout", 0, "connect/write timeout")
		file        = flag.String("file", "", "ZPL file to send")
		probe       = flag.Bool("probe", false, "check reachability only")
		status      = flag.Bool("status", false, "query printer status (~HS)")
	)
	flag.Parse()

	logging.ConfigureRuntime()

	if err := run(*configPath, *printerName, *host, *port, *timeout, *file, *probe, *status); err != nil {
		fmt.Fprintf(os.Stderr, "printctl: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, printerName, host string, port int, timeout time.Duration, file string, probe, status bool) error {
	target, err := resolveTarget(configPath, printerName, host, port, timeout)
	if err != nil {
		return err
	}

	switch {
	case probe:
		if printer.Probe(target) {
			fmt.Printf("%s online\n", target.Addr())
			return nil
		}
		return fmt.Errorf("%s unreachable", target.Addr())

	case status:
		client := &printer.Client{}
		st, err := client.QueryStatus(context.Background(), target)
		if err != nil {
			return fmt.Errorf("status query failed: %w", err)
		}
		fmt.Printf("online=%t paper=%s ribbon=%s\n", st.Online, st.Paper, st.Ribbon)
		return nil

	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		client := &printer.Client{}
		outcome := client.Deliver(context.Background(), string(data), target)
		fmt.Println(outcome.String())
		if !outcome.Delivered() {
			return fmt.Errorf("delivery failed")
		}
		return nil

	default:
		return fmt.Errorf("one of -probe, -status, or -file is required")
	}
}

func resolveTarget(configPath, printerName, host string, port int, timeout time.Duration) (printer.Target, error) {
	var target printer.Target
	if configPath != "" && printerName != "" {
		t, err := loadTarget(configPath, printerName)
		if err != nil {
			return printer.Target{}, err
		}
		target = t
	}
	if host != "" {
		target.Host = host
	}
	if port != 0 {
		target.Port = port
	}
	if timeout > 0 {
		target.Timeout = timeout
	}
	if target.Host == "" {
		return printer.Target{}, fmt.Errorf("printer host required (use -host or -config/-printer)")
	}
	return target, nil
}
