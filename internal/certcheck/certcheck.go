// Package certcheck inspects TLS certificates and reports their remaining
// validity. Inspection failure is an expected condition (unreachable host,
// plain-HTTP endpoint, handshake refusal) and is signalled as an absent
// value, never as an error that aborts metric collection.
package certcheck

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"time"
)

// DefaultPort is used when the caller supplies no explicit port.
const DefaultPort = "443"

// Inspector dials hosts and reads peer certificate expiry.
type Inspector struct {
	timeout time.Duration
}

// NewInspector creates an inspector with a bounded dial timeout.
func NewInspector(timeout time.Duration) *Inspector {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Inspector{timeout: timeout}
}

// ValidityDays opens a TLS connection to host:port using the default trust
// roots and returns the number of whole days until the peer certificate
// expires. The result is negative when the certificate has already expired.
// The second return value is false when inspection failed for any reason.
func (i *Inspector) ValidityDays(ctx context.Context, host, port string) (int, bool) {
	if port == "" {
		port = DefaultPort
	}

	dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: i.timeout}}

	// The dialer timeout covers the TCP connect and the TLS handshake
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		slog.Debug("Certificate inspection failed", "host", host, "port", port, "error", err)
		return 0, false
	}
	defer func() { _ = conn.Close() }()

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return 0, false
	}

	return daysUntil(time.Now(), certs[0].NotAfter), true
}

// daysUntil returns the count of whole days from now until t, negative
// when t is in the past.
func daysUntil(now, t time.Time) int {
	return int(t.Sub(now).Hours() / 24)
}
