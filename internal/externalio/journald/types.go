package journald

import (
	"net/http"
	"sync/atomic"
)

type OutModule struct {
	Namespace []string
	sink      *http.Client
	url       string
	facility  uint16
	bootID    string
	metrics   MetricStorage
}

type MetricStorage struct {
	EntriesSent  atomic.Uint64
	BytesSent    atomic.Uint64
	UploadErrors atomic.Uint64
}
