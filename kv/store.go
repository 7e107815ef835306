// Package kv is the key-value adapter the stores persist their state through.
// Values are small JSON documents keyed by string; every key lives inside one
// scope (one browsing session or origin).
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys written by the stores. Each store owns a disjoint set.
const (
	KeyToken      = "token"
	KeyUserData   = "userData"
	KeyLoginTime  = "loginTime"
	KeyEventSlots = "eventSlots"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrCorrupt  = errors.New("corrupt value")
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

// GetJSON decodes the value under key into v. It returns ErrNotFound when the
// key is absent and an error wrapping ErrCorrupt when the value does not decode.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: key %q: %w", ErrCorrupt, key, err)
	}

	return nil
}

func SetJSON(ctx context.Context, s Store, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", key, err)
	}

	return s.Set(ctx, key, string(payload))
}
