// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService blocks until its context ends, optionally failing the first
// failUntil runs.
type mockService struct {
	name      string
	failUntil int32
	starts    atomic.Int32
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) Serve(ctx context.Context) error {
	if n := m.starts.Add(1); n <= m.failUntil {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) StartCount() int32 {
	return m.starts.Load()
}

func (m *mockService) String() string {
	return m.name
}
