package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	id := uint(7)

	err := p.Publish(context.Background(), audit.Event{Action: "appointment_reserved", Entity: "appointment", EntityID: &id})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("wrote %d messages, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "appointment:7" {
		t.Errorf("key = %q", msg.Key)
	}
	if header(msg, "event_type") != "appointment_reserved" || header(msg, "event_id") == "" {
		t.Errorf("unexpected headers %+v", msg.Headers)
	}

	var ev audit.Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if ev.Action != "appointment_reserved" || ev.EntityID == nil || *ev.EntityID != 7 {
		t.Errorf("unexpected payload %+v", ev)
	}
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), audit.Event{Action: "x", Entity: "sale"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}
