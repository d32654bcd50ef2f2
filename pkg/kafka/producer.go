package kafka

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Message is one record to publish.
type Message struct {
	Time    time.Time
	Headers map[string]string
	Key     []byte
	Value   []byte
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer publishes to any number of topics, holding one writer per topic.
type Producer struct {
	writers   map[string]messageWriter
	newWriter func(topic string) messageWriter
	mu        sync.Mutex
}

// NewProducer validates cfg and returns a Producer. Writers are created
// lazily on first publish to a topic.
func NewProducer(cfg Config) (*Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	transport, err := cfg.transport()
	if err != nil {
		return nil, err
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	brokers := append([]string(nil), cfg.Brokers...)
	return newProducer(func(topic string) messageWriter {
		return &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkago.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           timeout,
			RequiredAcks:           kafkago.RequireAll,
			AllowAutoTopicCreation: true,
			Transport:              transport,
		}
	}), nil
}

func newProducer(factory func(topic string) messageWriter) *Producer {
	return &Producer{
		writers:   make(map[string]messageWriter),
		newWriter: factory,
	}
}

// Publish writes messages to topic in order. Messages with the same key land
// on the same partition.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	w := p.writer(topic)

	out := make([]kafkago.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, toKafkaMessage(m))
	}
	if err := w.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close closes every writer and returns the first error.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]messageWriter)
	return firstErr
}

func (p *Producer) writer(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

// toKafkaMessage sorts headers by key so the wire order is stable.
func toKafkaMessage(m Message) kafkago.Message {
	km := kafkago.Message{Key: m.Key, Value: m.Value, Time: m.Time}
	if len(m.Headers) == 0 {
		return km
	}
	keys := make([]string, 0, len(m.Headers))
	for k := range m.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	km.Headers = make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		km.Headers = append(km.Headers, kafkago.Header{Key: k, Value: []byte(m.Headers[k])})
	}
	return km
}
