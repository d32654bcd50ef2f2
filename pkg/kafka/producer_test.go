package kafka

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	err     error
	written []kafkago.Message
	closed  bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func recordingProducer() (*Producer, map[string]*recordingWriter) {
	created := make(map[string]*recordingWriter)
	p := newProducer(func(topic string) messageWriter {
		w := &recordingWriter{}
		created[topic] = w
		return w
	})
	return p, created
}

func TestNewProducerValidates(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"brokers", Config{Brokers: []string{"localhost:9092"}}, false},
		{"no brokers", Config{}, true},
		{"sasl without user", Config{Brokers: []string{"k:9092"}, SASLEnabled: true}, true},
		{"unknown mechanism", Config{Brokers: []string{"k:9092"}, SASLEnabled: true, SASLUsername: "u", SASLMechanism: "GSSAPI"}, true},
		{"scram", Config{Brokers: []string{"k:9092"}, SASLEnabled: true, SASLUsername: "u", SASLPassword: "p", SASLMechanism: SASLScramSHA512, TLS: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p == nil {
				t.Fatal("expected non-nil producer")
			}
		})
	}
}

func TestPublishConvertsMessages(t *testing.T) {
	p, created := recordingProducer()

	err := p.Publish(context.Background(), "loanrisk-events",
		Message{
			Key:     []byte("app-1"),
			Value:   []byte(`{"status":"APPROVED"}`),
			Headers: map[string]string{"event_type": "loanrisk.decision.made", "content_type": "application/json"},
		},
		Message{Key: []byte("app-1"), Value: []byte(`{}`)},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := created["loanrisk-events"]
	if w == nil || len(w.written) != 2 {
		t.Fatalf("expected 2 messages on loanrisk-events, got %+v", w)
	}
	first := w.written[0]
	if string(first.Key) != "app-1" {
		t.Errorf("expected key app-1, got %s", first.Key)
	}
	if len(first.Headers) != 2 || first.Headers[0].Key != "content_type" || first.Headers[1].Key != "event_type" {
		t.Errorf("expected headers sorted by key, got %+v", first.Headers)
	}
	if string(first.Headers[1].Value) != "loanrisk.decision.made" {
		t.Errorf("unexpected event_type header: %s", first.Headers[1].Value)
	}
	if w.written[1].Headers != nil {
		t.Errorf("expected no headers, got %+v", w.written[1].Headers)
	}
}

func TestPublishReusesWriterPerTopic(t *testing.T) {
	p, created := recordingProducer()
	ctx := context.Background()

	for _, topic := range []string{"a", "a", "b"} {
		if err := p.Publish(ctx, topic, Message{Value: []byte("x")}); err != nil {
			t.Fatalf("publish %s: %v", topic, err)
		}
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 writers, got %d", len(created))
	}
	if n := len(created["a"].written); n != 2 {
		t.Errorf("expected 2 messages on topic a, got %d", n)
	}
}

func TestPublishEmptyIsNoop(t *testing.T) {
	p, created := recordingProducer()
	if err := p.Publish(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("expected no writer to be created, got %d", len(created))
	}
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := newProducer(func(string) messageWriter { return &recordingWriter{err: boom} })

	err := p.Publish(context.Background(), "a", Message{Value: []byte("x")})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}

func TestProducerClose(t *testing.T) {
	p, created := recordingProducer()
	ctx := context.Background()
	_ = p.Publish(ctx, "a", Message{Value: []byte("x")})
	_ = p.Publish(ctx, "b", Message{Value: []byte("x")})

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	for topic, w := range created {
		if !w.closed {
			t.Errorf("writer for %s not closed", topic)
		}
	}
	if len(p.writers) != 0 {
		t.Errorf("expected 0 writers after close, got %d", len(p.writers))
	}
}
