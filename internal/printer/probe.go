package printer

import (
	"context"
	"net"
	"strings"
	"time"
)

// Probe reports whether the target accepts a TCP connection. The connection
// is closed immediately; nothing is written.
func Probe(target Target) bool {
	conn, err := net.DialTimeout("tcp", target.Addr(), target.timeout())
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Status is the parsed result of a host-status query.
type Status struct {
	Raw    string `json:"raw"`
	Online bool   `json:"online"`
	Paper  string `json:"paper,omitempty"`
	Ribbon string `json:"ribbon,omitempty"`
}

// QueryStatus sends the ~HS host-status command and parses the response.
// This is the one place the client reads from a printer; it is never part of
// the delivery path.
func (c *Client) QueryStatus(ctx context.Context, target Target) (Status, error) {
	conn, err := c.dial(ctx, target)
	if err != nil {
		return Status{}, err
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(target.timeout()))
	if _, err := conn.Write([]byte("~HS")); err != nil {
		return Status{}, err
	}

	_ = conn.SetReadDeadline(time.Now().Add(target.timeout()))
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		return Status{}, err
	}
	return parseStatus(string(buf[:n])), nil
}

func parseStatus(raw string) Status {
	status := Status{Raw: raw, Online: raw != ""}
	upper := strings.ToUpper(raw)
	if strings.Contains(upper, "PAPER OUT") {
		status.Paper = "out"
	} else if strings.Contains(upper, "PAPER") {
		status.Paper = "ok"
	}
	if strings.Contains(upper, "RIBBON OUT") {
		status.Ribbon = "out"
	} else if strings.Contains(upper, "RIBBON") {
		status.Ribbon = "ok"
	}
	return status
}
