package notify

import (
	"encoding/json"
	"fmt"
	"sync"

	"lettingscope/internal/storage"
)

// subsKey is the backend key under which push subscriptions are stored.
const subsKey = "subscriptions.json"

// Subscription is one browser push endpoint.
type Subscription struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// SubscriptionStore persists push subscriptions through the same key-value
// backend as the primary store, under a separate key.
type SubscriptionStore struct {
	kv storage.KV
	mu sync.Mutex
}

// NewSubscriptionStore returns a store over the given backend.
func NewSubscriptionStore(kv storage.KV) *SubscriptionStore {
	return &SubscriptionStore{kv: kv}
}

func (s *SubscriptionStore) load() ([]Subscription, error) {
	raw, ok, err := s.kv.Get(subsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read subscriptions: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var subs []Subscription
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, fmt.Errorf("failed to parse subscriptions: %w", err)
	}
	return subs, nil
}

func (s *SubscriptionStore) save(subs []Subscription) error {
	raw, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("failed to serialize subscriptions: %w", err)
	}
	if err := s.kv.Set(subsKey, raw); err != nil {
		return fmt.Errorf("failed to write subscriptions: %w", err)
	}
	return nil
}

// List returns all stored subscriptions.
func (s *SubscriptionStore) List() ([]Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add stores a subscription, replacing any existing one with the same
// endpoint.
func (s *SubscriptionStore) Add(sub Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs, err := s.load()
	if err != nil {
		return err
	}
	for i := range subs {
		if subs[i].Endpoint == sub.Endpoint {
			subs[i] = sub
			return s.save(subs)
		}
	}
	return s.save(append(subs, sub))
}

// Remove deletes the subscription with the given endpoint. Removing an
// unknown endpoint is not an error.
func (s *SubscriptionStore) Remove(endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs, err := s.load()
	if err != nil {
		return err
	}
	kept := subs[:0]
	for _, sub := range subs {
		if sub.Endpoint != endpoint {
			kept = append(kept, sub)
		}
	}
	return s.save(kept)
}
