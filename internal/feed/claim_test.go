package feed

import (
	"detailq/internal/dispatch"
	"detailq/internal/global"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClaim(t *testing.T) {
	tests := []struct {
		name        string
		files       []string // created with a single byte of content
		dirs        []string
		wantClaimed bool
		wantWork    string // content expected in the work file
		wantLeft    []string
	}{
		{
			name:        "nothing to claim",
			wantClaimed: false,
		},
		{
			name:        "first in name order",
			files:       []string{"detail-20240102", "detail-20240101", "other.log"},
			wantClaimed: true,
			wantWork:    "detail-20240101",
			wantLeft:    []string{"detail-20240102", "other.log"},
		},
		{
			name:        "existing work file resumed",
			files:       []string{"detail.work", "detail-20240101"},
			wantClaimed: true,
			wantWork:    "detail.work",
			wantLeft:    []string{"detail-20240101"},
		},
		{
			name:        "directories ignored",
			files:       []string{"detail-b"},
			dirs:        []string{"detail-a"},
			wantClaimed: true,
			wantWork:    "detail-b",
			wantLeft:    []string{"detail-a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o600))
			}
			for _, name := range tt.dirs {
				require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o700))
			}

			h := newHarness(t, dir)
			claimed, err := h.feed.claim()
			require.NoError(t, err)
			require.Equal(t, tt.wantClaimed, claimed)

			workFile := filepath.Join(dir, global.DefaultWorkFileName)
			require.Equal(t, h.feed.WorkFile(), workFile)
			if !tt.wantClaimed {
				require.False(t, exists(workFile))
				return
			}

			content, err := os.ReadFile(workFile)
			require.NoError(t, err)
			require.Equal(t, tt.wantWork, string(content))
			for _, name := range tt.wantLeft {
				require.True(t, exists(filepath.Join(dir, name)), "%s should be untouched", name)
			}
		})
	}
}

func TestClaim_WorkFileMatchingPattern(t *testing.T) {
	dir := t.TempDir()
	lanes, err := dispatch.NewLanes([]string{global.NSTest}, 4)
	require.NoError(t, err)

	feed, err := New([]string{global.NSTest}, Config{
		Glob:     filepath.Join(dir, "detail*"),
		WorkFile: filepath.Join(dir, "detail.work"),
	}, lanes, make(chan dispatch.Completion))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "detail-1"), []byte("x"), 0o600))

	candidates, err := feed.pending()
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "detail-1")}, candidates)

	claimed, err := feed.claim()
	require.NoError(t, err)
	require.True(t, claimed)

	// The work file matches the pattern but is never a candidate
	candidates, err = feed.pending()
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestNew_Validation(t *testing.T) {
	lanes, err := dispatch.NewLanes([]string{global.NSTest}, 4)
	require.NoError(t, err)
	completions := make(chan dispatch.Completion)

	tests := []struct {
		name  string
		glob  string
		lanes *dispatch.Lanes
		comps chan dispatch.Completion
	}{
		{name: "empty pattern", lanes: lanes, comps: completions},
		{name: "bad pattern", glob: "/tmp/detail-[", lanes: lanes, comps: completions},
		{name: "no lanes", glob: "/tmp/detail-*", comps: completions},
		{name: "no completions", glob: "/tmp/detail-*", lanes: lanes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var comps <-chan dispatch.Completion
			if tt.comps != nil {
				comps = tt.comps
			}
			_, err := New(nil, Config{Glob: tt.glob}, tt.lanes, comps)
			require.Error(t, err)
		})
	}
}

func TestNew_BufferHoldsLargestRecord(t *testing.T) {
	lanes, err := dispatch.NewLanes([]string{global.NSTest}, 4)
	require.NoError(t, err)
	completions := make(chan dispatch.Completion)

	tests := []struct {
		name       string
		bufferSize int
		maxRecord  int
		wantBuffer int
		wantRecord int
	}{
		{name: "defaults", wantBuffer: global.DefaultBufferSize, wantRecord: global.DefaultMaxRecordSize},
		{name: "buffer raised to record limit", bufferSize: 16, maxRecord: 64, wantBuffer: 64, wantRecord: 64},
		{name: "larger buffer kept", bufferSize: 256, maxRecord: 64, wantBuffer: 256, wantRecord: 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed, err := New(nil, Config{
				Glob:          "/tmp/detail-*",
				BufferSize:    tt.bufferSize,
				MaxRecordSize: tt.maxRecord,
			}, lanes, completions)
			require.NoError(t, err)
			require.Equal(t, tt.wantBuffer, feed.config.BufferSize)
			require.Equal(t, tt.wantRecord, feed.config.MaxRecordSize)
			require.Equal(t, tt.wantBuffer, feed.buffer.Cap())
		})
	}
}
