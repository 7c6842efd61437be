package daemon

import (
	"detailq/internal/detail"
	"detailq/internal/global"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"
)

// Loads JSON config from file
func LoadConfig(path string) (cfg JSONConfig, err error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file: %w", err)
		return
	}

	err = json.Unmarshal(configFile, &cfg)
	if err != nil {
		err = fmt.Errorf("invalid config syntax in '%s': %w", path, err)
		return
	}

	return
}

// Parses JSON config into daemon config
func (cfg JSONConfig) NewDaemonConf() (config Config, err error) {
	// Source settings
	config.DetailGlob = cfg.Detail.Filename
	if config.DetailGlob == "" {
		config.DetailGlob = global.DefaultDetailGlob
	}
	config.WorkFile = cfg.Detail.WorkFile
	config.BufferSize = cfg.Detail.BufferSize
	config.MaxRecordSize = cfg.Detail.MaxRecordSize
	if config.BufferSize < 0 || config.MaxRecordSize < 0 {
		err = fmt.Errorf("buffer and record sizes cannot be negative")
		return
	}
	// A record must fit in the read buffer to be delivered at all
	if config.BufferSize != 0 && config.MaxRecordSize > config.BufferSize {
		err = fmt.Errorf("maximum record size (%d) exceeds buffer size (%d)", config.MaxRecordSize, config.BufferSize)
		return
	}

	config.PollInterval, err = parseDuration("poll interval", cfg.Detail.PollInterval)
	if err != nil {
		return
	}
	config.RetryDelay, err = parseDuration("retry delay", cfg.Detail.RetryDelay)
	if err != nil {
		return
	}
	config.AckDrainTimeout, err = parseDuration("acknowledgment drain timeout", cfg.Detail.AckDrainTimeout)
	if err != nil {
		return
	}

	config.Priorities, err = parsePriorities(cfg.Detail.Priorities)
	if err != nil {
		return
	}

	// Outputs
	config.FilePath = cfg.Outputs.File.Path
	config.FileBatchSize = cfg.Outputs.File.BatchSize
	config.StdoutEnabled = cfg.Outputs.Stdout
	config.BeatsEndpoint = cfg.Outputs.Beats.Endpoint
	config.BeatsTimeout, err = parseDuration("beats timeout", cfg.Outputs.Beats.Timeout)
	if err != nil {
		return
	}
	config.KafkaBrokers = cfg.Outputs.Kafka.Brokers
	config.KafkaTopic = cfg.Outputs.Kafka.Topic
	config.JournalURL = cfg.Outputs.Journald.Endpoint
	config.JournalFacility = cfg.Outputs.Journald.Facility
	if len(config.KafkaBrokers) > 0 && config.KafkaTopic == "" {
		err = fmt.Errorf("kafka output requires a topic")
		return
	}

	// Scaling settings
	config.MinWorkers = cfg.Dispatch.MinWorkers
	config.MaxWorkers = cfg.Dispatch.MaxWorkers
	config.MinQueueSize = cfg.Dispatch.MinQueueSize
	config.MaxQueueSize = cfg.Dispatch.MaxQueueSize
	config.ScaleInterval, err = parseDuration("scale interval", cfg.Dispatch.ScaleInterval)
	if err != nil {
		return
	}
	if config.MinWorkers < 0 || config.MaxWorkers < 0 {
		err = fmt.Errorf("worker counts cannot be negative")
		return
	}
	if config.MaxWorkers != 0 && config.MinWorkers > config.MaxWorkers {
		err = fmt.Errorf("minimum workers (%d) exceeds maximum workers (%d)", config.MinWorkers, config.MaxWorkers)
		return
	}

	// Metric settings
	config.MetricQueryServerEnabled = cfg.Metrics.EnableQueryServer
	config.MetricQueryServerPort = cfg.Metrics.QueryServerPort
	config.MetricMaxAge, err = parseDuration("metric max age", cfg.Metrics.MaxAge)
	if err != nil {
		return
	}
	config.MetricCollectionInterval, err = parseDuration("collection interval", cfg.Metrics.Interval)
	if err != nil {
		return
	}

	config.Verbosity = -1
	if cfg.Verbosity != nil {
		if *cfg.Verbosity < global.VerbosityNone || *cfg.Verbosity > global.VerbosityDebug {
			err = fmt.Errorf("verbosity %d out of range 0-5", *cfg.Verbosity)
			return
		}
		config.Verbosity = *cfg.Verbosity
	}

	config.setDefaults()
	return
}

// Empty values are left at zero for setDefaults
func parseDuration(name, value string) (duration time.Duration, err error) {
	if value == "" {
		return
	}
	duration, err = time.ParseDuration(value)
	if err != nil {
		err = fmt.Errorf("failed to parse %s: %w", name, err)
		return
	}
	if duration < 0 {
		err = fmt.Errorf("%s cannot be negative", name)
	}
	return
}

// Keys are single class characters, values are priority names
func parsePriorities(raw map[string]string) (table detail.PriorityTable, err error) {
	table = make(detail.PriorityTable, len(raw))
	for class, name := range raw {
		if len(class) != 1 {
			err = fmt.Errorf("priority class %q must be a single character", class)
			return
		}
		var priority detail.Priority
		priority, err = detail.ParsePriority(name)
		if err != nil {
			err = fmt.Errorf("priority for class %q: %w", class, err)
			return
		}
		table[class[0]] = priority
	}
	return
}

// Sets defaults for any missing/invalid values
func (cfg *Config) setDefaults() {
	// Source
	if cfg.MaxRecordSize <= 0 {
		cfg.MaxRecordSize = global.DefaultMaxRecordSize
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = global.DefaultBufferSize
	}
	if cfg.BufferSize < cfg.MaxRecordSize {
		cfg.BufferSize = cfg.MaxRecordSize
	}

	// Scaling
	if cfg.ScaleInterval == 0 {
		cfg.ScaleInterval = global.DefaultPollInterval
	}
	if cfg.MinWorkers == 0 {
		cfg.MinWorkers = global.DefaultMinWorkers
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = max(runtime.NumCPU(), cfg.MinWorkers)
	}

	// Queues
	if cfg.MinQueueSize == 0 {
		cfg.MinQueueSize = global.DefaultMinQueueSize
	}
	if cfg.MaxQueueSize == 0 {
		cfg.MaxQueueSize = global.DefaultMaxQueueSize
	}
	if cfg.MaxQueueSize < cfg.MinQueueSize {
		cfg.MaxQueueSize = cfg.MinQueueSize
	}

	// Outputs
	if cfg.FileBatchSize == 0 {
		cfg.FileBatchSize = 1
	}
	if cfg.BeatsTimeout == 0 {
		cfg.BeatsTimeout = global.OutputWriteTimeout
	}

	// Metrics
	if cfg.MetricMaxAge == 0 {
		cfg.MetricMaxAge = 1 * time.Hour
	}
	if cfg.MetricQueryServerPort == 0 {
		cfg.MetricQueryServerPort = global.HTTPListenPort
	}
	if cfg.MetricCollectionInterval == 0 {
		cfg.MetricCollectionInterval = 15 * time.Second
	}
}
