package feed

import (
	"detailq/internal/detail"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Picks the file to consume next. An existing work file is resumed,
// otherwise the first detail file in name order is renamed to the work file.
func (instance *Instance) claim() (claimed bool, err error) {
	_, err = os.Stat(instance.config.WorkFile)
	if err == nil {
		claimed = true
		return
	}
	if !errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("failed to check work file: %w", err)
		return
	}
	err = nil

	candidates, err := instance.pending()
	if err != nil {
		return
	}

	for _, candidate := range candidates {
		err = os.Rename(candidate, instance.config.WorkFile)
		if err == nil {
			claimed = true
			return
		}
		if errors.Is(err, fs.ErrNotExist) {
			// Taken by someone else between glob and rename
			err = nil
			continue
		}
		err = fmt.Errorf("failed to claim %q: %w", candidate, err)
		return
	}
	return
}

// Regular files matching the detail pattern, sorted by name, work file excluded
func (instance *Instance) pending() (candidates []string, err error) {
	matches, err := filepath.Glob(instance.config.Glob)
	if err != nil {
		err = fmt.Errorf("invalid detail file pattern: %w", err)
		return
	}
	sort.Strings(matches)

	workFile := filepath.Clean(instance.config.WorkFile)
	for _, match := range matches {
		if filepath.Clean(match) == workFile {
			continue
		}
		info, statErr := os.Stat(match)
		if statErr != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, match)
	}
	return
}

// Opens the work file as the current stream
func (instance *Instance) open() (err error) {
	stream, err := detail.Open(instance.config.WorkFile, detail.Options{
		Namespace:     instance.Namespace,
		MaxRecordSize: instance.config.MaxRecordSize,
		Priorities:    instance.config.Priorities,
	})
	if err != nil {
		return
	}

	instance.buffer.Reset()
	instance.undelivered.Store(0)

	instance.mu.Lock()
	instance.stream = stream
	instance.mu.Unlock()
	return
}

// Closes the current stream. With remove set the work file is deleted.
func (instance *Instance) release(remove bool) (err error) {
	instance.mu.Lock()
	stream := instance.stream
	instance.stream = nil
	instance.mu.Unlock()

	if stream == nil {
		return
	}

	err = stream.Close()
	if err != nil {
		return
	}

	if remove {
		err = os.Remove(stream.Path())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("failed to remove finished work file: %w", err)
			return
		}
		err = nil
	}
	return
}
