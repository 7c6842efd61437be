package integration

import (
	"bytes"
	"context"
	"detailq/internal/detail"
	"detailq/internal/logctx"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Uses logger in context to search logger buffer for events matching filter (must match all 3 filters if filters are not empty)
func filterLogBuffer(ctx context.Context, searchText, searchTag, searchSeverity string) (matches string, found bool) {
	logger := logctx.GetLogger(ctx)
	if logger == nil {
		return
	}

	lines := logger.GetFormattedLogLines()

	bracketRe := regexp.MustCompile(`\[[^\]]*\]`)

	var foundLines []string
	for _, line := range lines {
		// Filter by tag if searchTag is non-empty
		if searchTag != "" {
			foundTag := false
			for _, bracket := range bracketRe.FindAllString(line, -1) {
				if strings.Contains(bracket, searchTag) {
					foundTag = true
					break
				}
			}
			if !foundTag {
				continue
			}
		}

		// Filter by severity if searchSeverity is non-empty
		if searchSeverity != "" && !strings.Contains(line, "["+searchSeverity+"]") {
			continue
		}

		// Filter by text if searchText is non-empty
		if searchText != "" && !strings.Contains(line, searchText) {
			continue
		}

		foundLines = append(foundLines, line)
	}

	if len(foundLines) > 0 {
		found = true
		matches = strings.Join(foundLines, "")
	}
	return
}

// Renders count accounting records starting at sequence first
func mockRecords(t *testing.T, prefix string, first, count int) []byte {
	t.Helper()
	var out bytes.Buffer
	for i := first; i < first+count; i++ {
		_, err := detail.AppendRecord(&out, detail.Entry{
			Header: fmt.Sprintf("Accounting-Request %s-%d", prefix, i),
			Fields: []detail.Field{
				{Name: "User-Name", Value: fmt.Sprintf("user%d", i)},
				{Name: "Acct-Session-Id", Value: fmt.Sprintf("%08x", i)},
			},
			Timestamp: time.Unix(1700000000+int64(i), 0),
		})
		require.NoError(t, err)
	}
	return out.Bytes()
}

// Writes content under a name the feed ignores, then renames it into place
func placeDetailFile(t *testing.T, path string, content []byte) {
	t.Helper()
	staging := filepath.Join(filepath.Dir(path), ".staging-"+filepath.Base(path))
	require.NoError(t, os.WriteFile(staging, content, 0o600))
	require.NoError(t, os.Rename(staging, path))
}

// Waits until the file holds at least expected complete lines
func waitForLines(t *testing.T, path string, expected int, timeout time.Duration) (lines []string) {
	t.Helper()
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		if err != nil {
			return false
		}
		lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		return len(data) > 0 && len(lines) >= expected
	}, timeout, 10*time.Millisecond)
	return
}

func waitForRemoval(t *testing.T, timeout time.Duration, paths ...string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, path := range paths {
			_, err := os.Stat(path)
			if !os.IsNotExist(err) {
				return false
			}
		}
		return true
	}, timeout, 10*time.Millisecond)
}

// Reserves a localhost port for a server started later in the test
func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}
