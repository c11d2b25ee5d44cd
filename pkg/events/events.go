// Package events publishes account lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const TypeAccountCreated = "account.created"

// Account creation sources.
const (
	SourcePassword = "password"
	SourceGoogle   = "google"
	SourceGitHub   = "github"
)

type AccountEvent struct {
	Type       string    `json:"type"`
	AccountID  string    `json:"accountId"`
	Email      string    `json:"email,omitempty"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e AccountEvent) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	return data, nil
}

type Publisher interface {
	PublishAccount(ctx context.Context, event AccountEvent) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) PublishAccount(context.Context, AccountEvent) error { return nil }
func (Nop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []AccountEvent
	Err    error
}

func (r *Recorder) PublishAccount(_ context.Context, event AccountEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []AccountEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]AccountEvent(nil), r.events...)
}
