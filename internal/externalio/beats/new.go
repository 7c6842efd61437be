package beats

import (
	"detailq/internal/global"
	"fmt"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

// Creates new beats (lumberjack) output module. Returns nil nil if no endpoint.
func NewOutput(namespace []string, endpoint string, timeout time.Duration) (module *OutModule, err error) {
	if endpoint == "" {
		return
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	compression := lumberjack.CompressionLevel(0)
	ljTimeout := lumberjack.Timeout(timeout)

	ljClient, err := lumberjack.SyncDial(endpoint, compression, ljTimeout)
	if err != nil {
		err = fmt.Errorf("failed connection to beats server: %w", err)
		return
	}

	module = &OutModule{
		Namespace: append(append([]string{}, namespace...), global.NSoBeats),
		endpoint:  endpoint,
		sink:      ljClient,
	}
	return
}

func (mod *OutModule) Name() string {
	return "beats:" + mod.endpoint
}
