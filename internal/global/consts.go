package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgVersion  string = "v0.3.0"
	ProgBaseName string = "detailq"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultConfigPath    string        = "/etc/detailq.json"
	DefaultBinaryPath    string        = "/usr/local/bin/detailq"
	DefaultUnitPath      string        = "/etc/systemd/system/detailq.service"
	DefaultDetailGlob    string        = "/var/log/detailq/detail-*"
	DefaultWorkFileName  string        = "detail.work"
	DefaultPollInterval  time.Duration = 1 * time.Second
	DefaultRetryDelay    time.Duration = 5 * time.Second
	DefaultBufferSize    int           = 65536
	DefaultMaxRecordSize int           = 65536
	DefaultMinWorkers    int           = 1
	DefaultMinQueueSize  int           = 64
	DefaultMaxQueueSize  int           = 4096

	// Timeout values
	ShutdownTimeout    time.Duration = 20 * time.Second
	AckDrainTimeout    time.Duration = 10 * time.Second
	OutputWriteTimeout time.Duration = 5 * time.Second

	// Metric HTTP server
	HTTPListenPort   int           = 18812
	HTTPListenAddr   string        = "localhost" // Metric queries only exposed to local machine
	HTTPReadTimeout  time.Duration = 30 * time.Second
	HTTPWriteTimeout time.Duration = 10 * time.Second
	HTTPIdleTimeout  time.Duration = 180 * time.Second
	DataPath         string        = "/data/"
	AggregationPath  string        = "/aggregate/"
	DiscoveryPath    string        = "/discover/"
	PrometheusPath   string        = "/metrics"

	// Metric aggregation types
	MetricSum string = "sum"
	MetricMin string = "min"
	MetricMax string = "max"
	MetricAvg string = "avg"

	// Namespacing Name Components
	NSMetric    string = "Metrics"
	NSMetricSrv string = "Server"
	NSTest      string = "Test"
	NSCLI       string = "CLI"
	NSDaemon    string = "Daemon"
	NSFeed      string = "Feed"
	NSStream    string = "Stream"
	NSDispatch  string = "Dispatch"
	NSQueue     string = "Queue"
	NSWorker    string = "Worker"
	NSWatcher   string = "Watcher"
	NSOut       string = "Output"
	NSoFile     string = "File"
	NSoStdout   string = "Stdout"
	NSoBeats    string = "Beats"
	NSoKafka    string = "Kafka"
	NSoJrnl     string = "Journald"
)
