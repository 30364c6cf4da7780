package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// ErrInvalidProxyAddress is returned when the proxy address is not in
// "host:port" form with a valid port.
var ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")

// NewProxyClient builds an *http.Client that dials through a SOCKS5
// proxy at proxyAddress. Pass the result to WithHTTPClient to route the
// crawl through the proxy.
//
// The address format is validated here, but no connection is made until
// the first request; creating the client while the proxy is still
// starting is fine.
func NewProxyClient(proxyAddress string, timeout time.Duration) (*http.Client, error) {
	host, port, err := net.SplitHostPort(proxyAddress)
	if err != nil || host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, proxyAddress)
	}
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, proxyAddress)
	}

	// No auth: a local SOCKS5 proxy typically runs unauthenticated.
	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}
