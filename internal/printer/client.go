package printer

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort    = 9100
	DefaultTimeout = 5 * time.Second
)

// Target addresses one network printer for a single delivery.
type Target struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Addr returns the dial address, applying the canonical port default.
func (t Target) Addr() string {
	port := t.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(strings.TrimSpace(t.Host), strconv.Itoa(port))
}

func (t Target) timeout() time.Duration {
	if t.Timeout <= 0 {
		return DefaultTimeout
	}
	return t.Timeout
}

// Client delivers rendered ZPL to printers over raw TCP. The wire protocol is
// send-bytes-only: no acknowledgement is read after a job. The zero value is
// ready to use.
type Client struct {
	// DialContext overrides the network dialer. Nil uses net.Dialer with the
	// target timeout.
	DialContext func(ctx context.Context, network, addr string) (net.Conn, error)
}

// Deliver writes markup to the target and classifies the result. The
// connection is closed on every exit path; no retry happens here.
func (c *Client) Deliver(ctx context.Context, markup string, target Target) Outcome {
	payload := []byte(markup)

	conn, err := c.dial(ctx, target)
	if err != nil {
		return classifyDialError(err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(target.timeout()))
	n, err := conn.Write(payload)
	if err != nil || n < len(payload) {
		return Outcome{
			Kind:       OutcomePartialWrite,
			BytesSent:  n,
			BytesTotal: len(payload),
			Reason:     errReason(err),
		}
	}
	return Outcome{Kind: OutcomeDelivered, BytesSent: n, BytesTotal: n}
}

func (c *Client) dial(ctx context.Context, target Target) (net.Conn, error) {
	if c.DialContext != nil {
		return c.DialContext(ctx, "tcp", target.Addr())
	}
	d := net.Dialer{Timeout: target.timeout()}
	return d.DialContext(ctx, "tcp", target.Addr())
}

func classifyDialError(err error) Outcome {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Outcome{Kind: OutcomeTimedOut, Reason: err.Error()}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome{Kind: OutcomeTimedOut, Reason: err.Error()}
	}
	return Outcome{Kind: OutcomeConnectionFailed, Reason: err.Error()}
}

func errReason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
