// Copyright (c) 2017-2025 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/fnichol/reindeer/pkg/cargo"
	"github.com/stretchr/testify/require"
)

// TestdataPath gives absolute path within the common 'testdata'
func TestdataPath(t *testing.T, path ...string) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	p := []string{filepath.Dir(file), "testdata"}
	p = append(p, path...)
	return filepath.Join(p...)
}

// LoadMetadata loads a metadata snapshot fixture from the common testdata
func LoadMetadata(t *testing.T, name string) *cargo.Metadata {
	meta, err := cargo.LoadMetadata(TestdataPath(t, name))
	require.NoError(t, err)
	return meta
}

// RecordingHandler is a slog handler collecting records so tests can
// assert on diagnostics without capturing global log output.
type RecordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *RecordingHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *RecordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *RecordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *RecordingHandler) WithGroup(string) slog.Handler      { return h }

// Records returns a copy of everything logged so far.
func (h *RecordingHandler) Records() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]slog.Record(nil), h.records...)
}

// Messages returns the logged messages at or above the given level.
func (h *RecordingHandler) Messages(level slog.Level) []string {
	var msgs []string
	for _, r := range h.Records() {
		if r.Level >= level {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}
