package broker

import (
	"crypto/tls"
	"fmt"
	"net/url"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/Vijendrasi/container-service-extension/config"
)

// ExchangeType the AMQP exchange type used by the extension
const ExchangeType = "direct"

// Client wraps one AMQP connection configured from the amqp section
type Client struct {
	cfg  *config.AMQP
	conn *amqp.Connection
}

// NewClient creates a Client object. No connection is made until Connect.
func NewClient(cfg *config.AMQP) *Client {
	return &Client{cfg: cfg}
}

// URI builds the broker URI from the configuration. The string is rendered
// explicitly so default credentials and the default port stay visible.
func (c *Client) URI() string {
	scheme := "amqp"
	if c.cfg.SSL {
		scheme = "amqps"
	}
	vhost := c.cfg.Vhost
	if vhost == "/" {
		vhost = ""
	}
	auth := url.UserPassword(c.cfg.Username, c.cfg.Password).String()
	return fmt.Sprintf("%s://%s@%s:%d/%s", scheme, auth, c.cfg.Host, c.cfg.Port, url.PathEscape(vhost))
}

// Connect dials the broker, honoring the ssl and ssl_accept_all flags
func (c *Client) Connect() error {
	var (
		conn *amqp.Connection
		err  error
	)
	if c.cfg.SSL {
		tlsCfg := &tls.Config{InsecureSkipVerify: c.cfg.SSLAcceptAll}
		conn, err = amqp.DialTLS(c.URI(), tlsCfg)
	} else {
		conn, err = amqp.Dial(c.URI())
	}
	if err != nil {
		return fmt.Errorf("connect to amqp broker %s:%d: %w", c.cfg.Host, c.cfg.Port, err)
	}
	c.conn = conn
	log.WithFields(log.Fields{
		"host":  c.cfg.Host,
		"port":  c.cfg.Port,
		"vhost": c.cfg.Vhost,
	}).Info("connected to amqp broker")
	return nil
}

// Channel opens a channel on the current connection
func (c *Client) Channel() (*amqp.Channel, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("amqp client is not connected")
	}
	return c.conn.Channel()
}

// NotifyClose registers a listener for the connection close event
func (c *Client) NotifyClose() chan *amqp.Error {
	return c.conn.NotifyClose(make(chan *amqp.Error, 1))
}

// EnsureExchange declares the durable direct exchange the extension binds to
func (c *Client) EnsureExchange() error {
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(c.cfg.Exchange, ExchangeType, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare exchange %q: %w", c.cfg.Exchange, err)
	}
	return nil
}

// CheckExchange verifies the exchange exists without creating it
func (c *Client) CheckExchange() error {
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	err = ch.ExchangeDeclarePassive(c.cfg.Exchange, ExchangeType, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("exchange %q not found on broker: %w", c.cfg.Exchange, err)
	}
	return nil
}

// Close shuts the connection down
func (c *Client) Close() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
