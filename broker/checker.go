package broker

import (
	"fmt"
	"net"
	"time"

	"github.com/Vijendrasi/container-service-extension/config"
)

// ConnectionChecker define the check interface
type ConnectionChecker interface {
	Check() error
}

// TCPChecker verifies that a host accepts TCP connections before a more
// expensive protocol level probe is attempted.
type TCPChecker struct {
	host    string
	port    int
	timeout time.Duration
}

// NewTCPChecker create a TCPChecker object
func NewTCPChecker(host string, port int, timeout time.Duration) *TCPChecker {
	return &TCPChecker{host: host, port: port, timeout: timeout}
}

// Check dials the endpoint once within the timeout
func (tc *TCPChecker) Check() error {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", tc.host, tc.port), tc.timeout)
	if err != nil {
		return fmt.Errorf("tcp check %s:%d: %w", tc.host, tc.port, err)
	}
	conn.Close()
	return nil
}

// AMQPChecker performs a full AMQP handshake and verifies the configured
// exchange is present.
type AMQPChecker struct {
	cfg     *config.AMQP
	timeout time.Duration
}

// NewAMQPChecker create an AMQPChecker object
func NewAMQPChecker(cfg *config.AMQP, timeout time.Duration) *AMQPChecker {
	return &AMQPChecker{cfg: cfg, timeout: timeout}
}

// Check probes the broker: TCP reachability first, then handshake and a
// passive exchange declare. The probe must not create anything on the
// broker.
func (ac *AMQPChecker) Check() error {
	if err := NewTCPChecker(ac.cfg.Host, ac.cfg.Port, ac.timeout).Check(); err != nil {
		return err
	}

	client := NewClient(ac.cfg)
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Close()

	return client.CheckExchange()
}
