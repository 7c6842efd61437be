package journald

import (
	"bufio"
	"bytes"
	"context"
	"detailq/internal/externalio"
	"detailq/internal/global"
	"detailq/pkg/record"
	"encoding/binary"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// Reads one journal export entry, text and binary fields
func parseExport(t *testing.T, payload []byte) (fields map[string]string) {
	t.Helper()
	fields = make(map[string]string)
	reader := bufio.NewReader(bytes.NewReader(payload))
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("entry not terminated: %v", err)
		}
		line = strings.TrimSuffix(line, "\n")
		if line == "" {
			return
		}

		key, value, found := strings.Cut(line, "=")
		if found {
			fields[key] = value
			continue
		}

		var size [8]byte
		if _, err = io.ReadFull(reader, size[:]); err != nil {
			t.Fatalf("binary field %s length: %v", line, err)
		}
		data := make([]byte, binary.LittleEndian.Uint64(size[:]))
		if _, err = io.ReadFull(reader, data); err != nil {
			t.Fatalf("binary field %s value: %v", line, err)
		}
		if b, _ := reader.ReadByte(); b != '\n' {
			t.Fatalf("binary field %s missing newline", line)
		}
		fields[line] = string(data)
	}
}

type journalServer struct {
	mu      sync.Mutex
	uploads [][]byte
	paths   []string
	status  int
}

func (s *journalServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.URL.Path != "/upload" {
		w.WriteHeader(http.StatusOK)
		return
	}
	s.paths = append(s.paths, r.Header.Get("Content-Type"))
	s.uploads = append(s.uploads, body)
	w.WriteHeader(s.status)
	if s.status != http.StatusOK {
		w.Write([]byte("rejected entry"))
	}
}

func TestOutModule_Write(t *testing.T) {
	global.Hostname = "radius1"
	delivery := externalio.Delivery{
		Record: record.Record{
			Class:  'A',
			Header: "Accounting-Request",
			Fields: []record.Field{
				{Name: "User-Name", Value: "bob"},
				{Name: "Reply-Message", Value: "line one\nline two"},
			},
			Timestamp: time.Unix(1700000000, 0),
		},
		Source:     "/var/log/detailq/detail.work",
		Offset:     128,
		Priority:   "high",
		ReceivedAt: time.Now(),
	}

	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "accepted", status: http.StatusOK},
		{name: "rejected", status: http.StatusBadRequest, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := &journalServer{status: tt.status}
			httpServer := httptest.NewServer(server)
			defer httpServer.Close()

			mod, err := NewOutput([]string{global.NSTest}, httpServer.URL, "local5")
			if err != nil {
				t.Fatalf("NewOutput: %v", err)
			}
			defer mod.Shutdown()

			err = mod.Write(context.Background(), delivery)
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "rejected entry") {
					t.Fatalf("expected rejection error, got %v", err)
				}
				if mod.metrics.UploadErrors.Load() != 1 {
					t.Errorf("upload errors = %d", mod.metrics.UploadErrors.Load())
				}
				return
			}
			if err != nil {
				t.Fatalf("Write: %v", err)
			}

			if len(server.uploads) != 1 {
				t.Fatalf("expected 1 upload, got %d", len(server.uploads))
			}
			if server.paths[0] != exportContentType {
				t.Errorf("content type = %q", server.paths[0])
			}

			fields := parseExport(t, server.uploads[0])
			expected := map[string]string{
				"MESSAGE":              "Accounting-Request",
				"PRIORITY":             "5",
				"SYSLOG_FACILITY":      "21",
				"SYSLOG_IDENTIFIER":    global.ProgBaseName,
				"HOSTNAME":             "radius1",
				"DETAIL_CLASS":         "A",
				"DETAIL_OFFSET":        "128",
				"DETAIL_USER_NAME":     "bob",
				"DETAIL_REPLY_MESSAGE": "line one\nline two",
				"SYSLOG_TIMESTAMP":     "2023-11-14T22:13:20Z",
				"DETAIL_FILE":          "/var/log/detailq/detail.work",
				"DETAIL_PRIORITY":      "high",
			}
			for key, value := range expected {
				if fields[key] != value {
					t.Errorf("%s = %q, want %q", key, fields[key], value)
				}
			}
			if len(fields["_BOOT_ID"]) != 32 {
				t.Errorf("boot id %q is not 32 characters", fields["_BOOT_ID"])
			}
			if mod.metrics.EntriesSent.Load() != 1 {
				t.Errorf("entries sent = %d", mod.metrics.EntriesSent.Load())
			}
		})
	}
}

func TestNewOutput(t *testing.T) {
	mod, err := NewOutput(nil, "", "")
	if err != nil || mod != nil {
		t.Fatalf("empty endpoint should disable output, got %v %v", mod, err)
	}

	_, err = NewOutput(nil, "http://127.0.0.1:1", "nope")
	if err == nil {
		t.Fatal("expected unknown facility error")
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		priority string
		code     uint16
	}{
		{"immediate", severityWarning},
		{"high", severityNotice},
		{"normal", severityInfo},
		{"low", severityDebug},
		{"bogus", severityInfo},
	}
	for _, tt := range tests {
		if got := severityFor(tt.priority); got != tt.code {
			t.Errorf("severityFor(%q) = %d, want %d", tt.priority, got, tt.code)
		}
	}
}

func TestFieldKey(t *testing.T) {
	tests := map[string]string{
		"User-Name":       "DETAIL_USER_NAME",
		"Acct-Session-Id": "DETAIL_ACCT_SESSION_ID",
		"3GPP-IMSI":       "DETAIL_3GPP_IMSI",
		"Cisco.AVPair:x":  "DETAIL_CISCO_AVPAIR_X",
	}
	for name, want := range tests {
		if got := fieldKey(name); got != want {
			t.Errorf("fieldKey(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestReadBootID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boot_id")
	if err := os.WriteFile(path, []byte("0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := readBootID(path); got != "0f1e2d3c4b5a69788796a5b4c3d2e1f0" {
		t.Errorf("readBootID = %q", got)
	}
	if got := readBootID(filepath.Join(t.TempDir(), "missing")); got != strings.Repeat("0", 32) {
		t.Errorf("missing boot id = %q", got)
	}
}
