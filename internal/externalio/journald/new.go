// Uploads processed records to systemd-journal-remote in journal export format
package journald

import (
	"bytes"
	"context"
	"detailq/internal/global"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const bootIDPath string = "/proc/sys/kernel/random/boot_id"

// Creates new journald output module. Tests connection. Returns nil nil if no url.
func NewOutput(namespace []string, endpoint string, facility string) (module *OutModule, err error) {
	if endpoint == "" {
		return
	}

	if facility == "" {
		facility = defaultFacility
	}
	facilityCode, err := FacilityToCode(facility)
	if err != nil {
		return
	}

	new := &OutModule{
		Namespace: append(append([]string{}, namespace...), global.NSoJrnl),
		facility:  facilityCode,
		bootID:    readBootID(bootIDPath),
	}

	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		DisableKeepAlives:     false,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: -1, // Not supported by journal remote server
	}

	baseURL, err := url.Parse(endpoint)
	if err != nil {
		err = fmt.Errorf("invalid journald URL: %w", err)
		return
	}
	messagePublishPath := &url.URL{Path: "upload"} // Only path accepted by the remote server
	new.url = baseURL.ResolveReference(messagePublishPath).String()

	new.sink = &http.Client{
		Transport: transport,
		Timeout:   0, // per request deadlines come from the write context
	}

	testCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(testCtx, http.MethodPost, endpoint, bytes.NewReader(nil))
	if err != nil {
		err = fmt.Errorf("failed to create test HTTP connection to journald: %w", err)
		return
	}
	req.Header.Set("Content-Type", exportContentType)

	resp, err := new.sink.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to test HTTP connection to journald: %w", err)
		return
	}
	resp.Body.Close()

	module = new
	return
}

func (mod *OutModule) Name() string {
	return "journald:" + mod.url
}

// Boot ID without dashes, all zeros when the kernel does not expose one
func readBootID(path string) (id string) {
	raw, err := os.ReadFile(path)
	id = strings.ReplaceAll(strings.TrimSpace(string(raw)), "-", "")
	if err != nil || len(id) != 32 {
		id = strings.Repeat("0", 32)
	}
	return
}
