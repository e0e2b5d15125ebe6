package utils

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client with pooled connections and an overall
// request timeout, so outbound calls fail instead of blocking the event loop.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   5,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
