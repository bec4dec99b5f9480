// Package transport provides the HTTP transport used for storefront API calls.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// Go's standard TLS client has a distinctive fingerprint that triggers
// aggressive rate limiting on some CDNs. The storefront API sits behind such
// a CDN, so outgoing connections present a Chrome-like TLS fingerprint via
// uTLS, with ALPN negotiating h2 or http/1.1 naturally and Go's
// http2.Transport doing the HTTP/2 framing when negotiated.

// NewBrowserTransport creates an http.RoundTripper that presents Chrome's TLS
// fingerprint to upstream servers. Supports both HTTP/2 and HTTP/1.1 based on
// ALPN negotiation.
func NewBrowserTransport(timeout time.Duration) http.RoundTripper {
	dialer := &net.Dialer{Timeout: timeout}

	h2 := &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return dialBrowserTLS(ctx, dialer, network, addr)
		},
	}

	h1 := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialBrowserTLS(ctx, dialer, network, addr)
		},
		ForceAttemptHTTP2: false,
	}

	return &browserTransport{h2: h2, h1: h1}
}

// browserTransport wraps HTTP/2 and HTTP/1.1 transports with the browser TLS
// fingerprint.
type browserTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

// RoundTrip tries HTTP/2 first and falls back to HTTP/1.1 for servers that
// don't support h2.
func (t *browserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	return t.h1.RoundTrip(req)
}

// dialBrowserTLS establishes a TLS connection with Chrome's fingerprint.
func dialBrowserTLS(ctx context.Context, dialer *net.Dialer, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloChrome_Auto)
	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
