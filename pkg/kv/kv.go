package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("kv: key not found")

// Store is the durable string store used for wizard drafts and session keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend is a process-wide Store that can namespace keys per visitor.
type Backend interface {
	Store
	KeyFor(visitorID, name string) string
	Ping(ctx context.Context) error
}

// ForVisitor returns a Store whose keys live under the visitor's namespace.
func ForVisitor(backend Backend, visitorID string) Store {
	return &scoped{backend: backend, visitorID: strings.TrimSpace(visitorID)}
}

type scoped struct {
	backend   Backend
	visitorID string
}

func (s *scoped) Get(ctx context.Context, key string) (string, error) {
	return s.backend.Get(ctx, s.backend.KeyFor(s.visitorID, key))
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.backend.KeyFor(s.visitorID, key), value)
}

func (s *scoped) Remove(ctx context.Context, key string) error {
	return s.backend.Remove(ctx, s.backend.KeyFor(s.visitorID, key))
}

func visitorKey(visitorID, name string) string {
	return "visitor:" + visitorID + ":" + name
}
