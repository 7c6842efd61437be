// Claims detail files and drives the record stream: reads records into the
// dispatch lanes and writes acknowledgments back as workers finish them
package feed

import (
	"detailq/internal/detail"
	"detailq/internal/dispatch"
	"detailq/internal/global"
	"fmt"
	"path/filepath"
)

func New(namespace []string, config Config, lanes *dispatch.Lanes, completions <-chan dispatch.Completion) (new *Instance, err error) {
	if config.Glob == "" {
		err = fmt.Errorf("detail file pattern is required")
		return
	}
	_, err = filepath.Match(filepath.Base(config.Glob), "")
	if err != nil {
		err = fmt.Errorf("invalid detail file pattern %q: %w", config.Glob, err)
		return
	}
	if lanes == nil || completions == nil {
		err = fmt.Errorf("feed requires dispatch lanes and a completion channel")
		return
	}

	config = setDefaults(config)

	new = &Instance{
		Namespace:   append(append([]string{}, namespace...), global.NSFeed),
		config:      config,
		lanes:       lanes,
		completions: completions,
		changed:     make(chan struct{}, 1),
		buffer:      detail.NewBuffer(config.BufferSize),
		Metrics:     &MetricStorage{},
	}
	return
}

func setDefaults(config Config) Config {
	if config.WorkFile == "" {
		config.WorkFile = filepath.Join(filepath.Dir(config.Glob), global.DefaultWorkFileName)
	}
	if config.PollInterval <= 0 {
		config.PollInterval = global.DefaultPollInterval
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = global.DefaultRetryDelay
	}
	if config.AckDrainTimeout <= 0 {
		config.AckDrainTimeout = global.AckDrainTimeout
	}
	if config.BufferSize <= 0 {
		config.BufferSize = global.DefaultBufferSize
	}
	if config.MaxRecordSize <= 0 {
		config.MaxRecordSize = global.DefaultMaxRecordSize
	}
	if config.BufferSize < config.MaxRecordSize {
		config.BufferSize = config.MaxRecordSize
	}
	return config
}

// Path of the file currently being consumed
func (instance *Instance) WorkFile() string {
	return instance.config.WorkFile
}
