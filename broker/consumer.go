package broker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// Handler processes one request payload and returns the reply payload
type Handler func(ctx context.Context, body []byte) []byte

// Stats counters of a consumer pool
type Stats struct {
	Alive     int32
	Processed uint64
	Errors    uint64
	InFlight  int32
}

// Pool consumes the extension queue with a fixed number of listeners. Each
// listener owns its channel with a prefetch of one, so slow requests do not
// starve the rest of the pool.
type Pool struct {
	client    *Client
	queue     string
	listeners int
	handler   Handler

	wg        sync.WaitGroup
	alive     int32
	processed uint64
	errors    uint64
	inFlight  int32
}

// NewPool creates a consumer pool with the given number of listeners
func NewPool(client *Client, listeners int, handler Handler) *Pool {
	queue := client.cfg.RoutingKey
	if client.cfg.Prefix != "" {
		queue = client.cfg.Prefix + "." + queue
	}
	return &Pool{
		client:    client,
		queue:     queue,
		listeners: listeners,
		handler:   handler,
	}
}

// Start declares the queue, binds it with the routing key and spawns the
// listener goroutines. It returns after all listeners are consuming.
func (p *Pool) Start(ctx context.Context) error {
	ch, err := p.client.Channel()
	if err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("declare queue %q: %w", p.queue, err)
	}
	if err := ch.QueueBind(p.queue, p.client.cfg.RoutingKey, p.client.cfg.Exchange, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("bind queue %q: %w", p.queue, err)
	}
	ch.Close()

	for i := 0; i < p.listeners; i++ {
		ch, err := p.client.Channel()
		if err != nil {
			return err
		}
		if err := ch.Qos(1, 0, false); err != nil {
			ch.Close()
			return err
		}
		tag := fmt.Sprintf("cse-listener-%d", i)
		deliveries, err := ch.Consume(p.queue, tag, false, false, false, false, nil)
		if err != nil {
			ch.Close()
			return fmt.Errorf("consume queue %q: %w", p.queue, err)
		}
		p.wg.Add(1)
		atomic.AddInt32(&p.alive, 1)
		go p.listen(ctx, ch, tag, deliveries)
	}
	log.WithFields(log.Fields{"listeners": p.listeners, "queue": p.queue}).Info("consumer pool started")
	return nil
}

func (p *Pool) listen(ctx context.Context, ch *amqp.Channel, tag string, deliveries <-chan amqp.Delivery) {
	defer p.wg.Done()
	defer atomic.AddInt32(&p.alive, -1)
	defer ch.Close()

	for {
		select {
		case <-ctx.Done():
			_ = ch.Cancel(tag, false)
			return
		case d, ok := <-deliveries:
			if !ok {
				log.WithFields(log.Fields{"listener": tag}).Warn("delivery channel closed")
				return
			}
			p.dispatch(ctx, ch, tag, d)
		}
	}
}

func (p *Pool) dispatch(ctx context.Context, ch *amqp.Channel, tag string, d amqp.Delivery) {
	atomic.AddInt32(&p.inFlight, 1)
	defer atomic.AddInt32(&p.inFlight, -1)

	reply := p.handler(ctx, d.Body)
	if d.ReplyTo != "" && reply != nil {
		err := ch.PublishWithContext(ctx, p.client.cfg.Exchange, d.ReplyTo, false, false, amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: d.CorrelationId,
			Body:          reply,
		})
		if err != nil {
			atomic.AddUint64(&p.errors, 1)
			log.WithFields(log.Fields{
				log.ErrorKey: err,
				"listener":   tag,
				"reply_to":   d.ReplyTo,
			}).Error("fail to publish reply")
			_ = d.Nack(false, false)
			return
		}
	}
	if err := d.Ack(false); err != nil {
		atomic.AddUint64(&p.errors, 1)
		log.WithFields(log.Fields{log.ErrorKey: err, "listener": tag}).Error("fail to ack delivery")
		return
	}
	atomic.AddUint64(&p.processed, 1)
}

// Wait blocks until all listeners have drained and exited
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Stats returns a snapshot of the pool counters
func (p *Pool) Stats() Stats {
	return Stats{
		Alive:     atomic.LoadInt32(&p.alive),
		Processed: atomic.LoadUint64(&p.processed),
		Errors:    atomic.LoadUint64(&p.errors),
		InFlight:  atomic.LoadInt32(&p.inFlight),
	}
}
