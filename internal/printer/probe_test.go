package printer

import (
	"context"
	"io"
	"net"
	"testing"
	"time"
)

func TestProbeOnline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			_ = conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	target := Target{Host: "127.0.0.1", Port: addr.Port, Timeout: 2 * time.Second}
	if !Probe(target) {
		t.Fatal("expected probe to succeed against listening socket")
	}
}

func TestProbeOffline(t *testing.T) {
	if Probe(closedTarget(t)) {
		t.Fatal("expected probe to fail against closed port")
	}
}

// statusListener answers one connection with a canned host status reply.
func statusListener(t *testing.T, reply string) Target {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 16)
		if _, err := conn.Read(buf); err != nil && err != io.EOF {
			return
		}
		_, _ = conn.Write([]byte(reply))
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return Target{Host: "127.0.0.1", Port: addr.Port, Timeout: 2 * time.Second}
}

func TestQueryStatusOnline(t *testing.T) {
	target := statusListener(t, "\x02030,0,0,1234,000,0,0,0,000,0,0,0\x03")

	client := &Client{}
	status, err := client.QueryStatus(context.Background(), target)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !status.Online {
		t.Fatal("expected online status")
	}
	if status.Raw == "" {
		t.Fatal("expected raw status payload")
	}
}

func TestQueryStatusFailsWhenUnreachable(t *testing.T) {
	client := &Client{}
	if _, err := client.QueryStatus(context.Background(), closedTarget(t)); err == nil {
		t.Fatal("expected error for unreachable printer")
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		online bool
		paper  string
		ribbon string
	}{
		{"empty", "", false, "", ""},
		{"paper out", "WARNING: PAPER OUT", true, "out", ""},
		{"paper ok", "PAPER LOADED", true, "ok", ""},
		{"ribbon out", "ribbon out", true, "", "out"},
		{"both ok", "PAPER OK RIBBON OK", true, "ok", "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseStatus(tc.raw)
			if got.Online != tc.online || got.Paper != tc.paper || got.Ribbon != tc.ribbon {
				t.Fatalf("parseStatus(%q) = %+v", tc.raw, got)
			}
		})
	}
}
