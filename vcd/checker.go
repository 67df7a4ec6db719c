package vcd

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Vijendrasi/container-service-extension/config"
)

// ResponseError carries a non-2xx status from a vCD endpoint probe
type ResponseError struct {
	StatusCode int
	Reason     string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("vcd response error %d, %s", e.StatusCode, e.Reason)
}

// APIChecker verifies a vCD endpoint answers on its API surface before a
// full login is attempted.
type APIChecker struct {
	cfg     *config.VCD
	timeout time.Duration
}

// NewAPIChecker create an APIChecker object
func NewAPIChecker(cfg *config.VCD, timeout time.Duration) *APIChecker {
	return &APIChecker{cfg: cfg, timeout: timeout}
}

// Check dials the endpoint and fetches the supported API versions document
func (ac *APIChecker) Check() error {
	addr := fmt.Sprintf("%s:%d", ac.cfg.Host, ac.cfg.Port)
	conn, err := net.DialTimeout("tcp", addr, ac.timeout)
	if err != nil {
		return fmt.Errorf("tcp check %s: %w", addr, err)
	}
	conn.Close()

	client := &http.Client{
		Timeout: ac.timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: !ac.cfg.Verify},
		},
	}
	url := fmt.Sprintf("https://%s/api/versions", addr)
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := resp.Status
		if b, err := io.ReadAll(io.LimitReader(resp.Body, 512)); err == nil && len(b) > 0 {
			reason = string(b)
		}
		return &ResponseError{StatusCode: resp.StatusCode, Reason: reason}
	}
	return nil
}
