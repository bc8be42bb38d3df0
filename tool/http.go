package tool

import (
	"net/http"
	"time"
)

var (
	DefaultTimeout       = 120 * time.Second
	ConnectionHttpClient *http.Client
)

func init() {
	ConnectionHttpClient = NewHTTPClient(DefaultTimeout)
}

// NewHTTPClient creates an HTTP client with the given total request deadline.
// Predict calls carry the whole uploaded image and wait for model inference,
// so the deadline is per-request, not per-connection.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// InitHTTPClient (re)initializes the shared client, called after config load
// so the transport deadline follows requestTimeoutSec.
func InitHTTPClient(timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ConnectionHttpClient = NewHTTPClient(timeout)
}

func GetHttpClient() *http.Client {
	return ConnectionHttpClient
}
