package daemon

import (
	"context"
	"detailq/internal/collector"
	"detailq/internal/detail"
	"detailq/internal/dispatch"
	"detailq/internal/dispatch/manager"
	"detailq/internal/externalio"
	"detailq/internal/feed"
	"net/http"
	"sync"
	"time"
)

type JSONConfig struct {
	Detail struct {
		Filename        string            `json:"filename"`
		WorkFile        string            `json:"workFile,omitempty"`
		PollInterval    string            `json:"pollInterval,omitempty"`
		RetryDelay      string            `json:"retryDelay,omitempty"`
		AckDrainTimeout string            `json:"ackDrainTimeout,omitempty"`
		BufferSize      int               `json:"bufferSize,omitempty"`
		MaxRecordSize   int               `json:"maxRecordSize,omitempty"`
		Priorities      map[string]string `json:"priorities,omitempty"`
	} `json:"detail"`
	Outputs struct {
		File struct {
			Path      string `json:"path,omitempty"`
			BatchSize int    `json:"batchSize,omitempty"`
		} `json:"file"`
		Stdout bool `json:"stdout,omitempty"`
		Beats  struct {
			Endpoint string `json:"endpoint,omitempty"`
			Timeout  string `json:"timeout,omitempty"`
		} `json:"beats"`
		Kafka struct {
			Brokers []string `json:"brokers,omitempty"`
			Topic   string   `json:"topic,omitempty"`
		} `json:"kafka"`
		Journald struct {
			Endpoint string `json:"endpoint,omitempty"`
			Facility string `json:"facility,omitempty"`
		} `json:"journald"`
	} `json:"outputs"`
	Dispatch struct {
		MinWorkers    int    `json:"minWorkers,omitempty"`
		MaxWorkers    int    `json:"maxWorkers,omitempty"`
		ScaleInterval string `json:"scaleInterval,omitempty"`
		MinQueueSize  int    `json:"minQueueSize,omitempty"`
		MaxQueueSize  int    `json:"maxQueueSize,omitempty"`
	} `json:"dispatch"`
	Metrics struct {
		Interval          string `json:"collectionInterval"`
		MaxAge            string `json:"maximumRetention,omitempty"`
		EnableQueryServer bool   `json:"enableHTTPQueryServer"`
		QueryServerPort   int    `json:"HTTPQueryServerPort"`
	} `json:"metrics"`
	Verbosity *int `json:"verbosity,omitempty"`
}

type Config struct {
	// Source settings
	DetailGlob      string
	WorkFile        string
	PollInterval    time.Duration
	RetryDelay      time.Duration
	AckDrainTimeout time.Duration
	BufferSize      int
	MaxRecordSize   int
	Priorities      detail.PriorityTable

	// Outputs
	FilePath        string
	FileBatchSize   int
	StdoutEnabled   bool
	BeatsEndpoint   string
	BeatsTimeout    time.Duration
	KafkaBrokers    []string
	KafkaTopic      string
	JournalURL      string
	JournalFacility string

	// Worker scaling boundaries
	MinWorkers    int
	MaxWorkers    int
	ScaleInterval time.Duration

	// Per lane queue boundaries
	MinQueueSize int
	MaxQueueSize int

	// Metrics
	MetricQueryServerEnabled bool
	MetricQueryServerPort    int
	MetricCollectionInterval time.Duration
	MetricMaxAge             time.Duration

	// -1 leaves the command line verbosity in place
	Verbosity int
}

type Daemon struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	wg           sync.WaitGroup
	feedCancel   context.CancelFunc
	feedDone     chan struct{}
	shutdownOnce sync.Once

	// Pipeline components (reverse order)
	Outputs          []externalio.Output
	Lanes            *dispatch.Lanes
	Dispatch         *manager.InstanceManager
	Feed             *feed.Instance
	metricsCollector *collector.Gatherer
	MetricServer     *http.Server
}
