package feed

import (
	"bytes"
	"context"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const watchMask = unix.IN_CREATE | unix.IN_MOVED_TO | unix.IN_MODIFY | unix.IN_CLOSE_WRITE

// Inotify watch on the detail directory
type dirWatcher struct {
	fd        int
	wd        int
	directory string
}

func newDirWatcher(directory string) (watcher *dirWatcher, err error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		err = fmt.Errorf("failed to initialize inotify: %w", err)
		return
	}

	wd, err := unix.InotifyAddWatch(fd, directory, watchMask)
	if err != nil {
		unix.Close(fd)
		err = fmt.Errorf("failed to add directory '%s' to inotify watcher: %w", directory, err)
		return
	}

	watcher = &dirWatcher{fd: fd, wd: wd, directory: directory}
	return
}

func (watcher *dirWatcher) Close() {
	unix.InotifyRmWatch(watcher.fd, uint32(watcher.wd))
	unix.Close(watcher.fd)
}

// Signals changed for every event on a name accepted by match, until ctx ends
func (watcher *dirWatcher) Run(ctx context.Context, match func(name string) bool, changed chan<- struct{}) {
	// Create a buffer to read the events
	buf := make([]byte, unix.SizeofInotifyEvent*64+4096)
	pollFds := []unix.PollFd{{Fd: int32(watcher.fd), Events: unix.POLLIN}}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Bounded wait so cancellation is noticed
		ready, err := unix.Poll(pollFds, 250)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "error polling inotify descriptor: %v\n", err)
			return
		}
		if ready == 0 {
			continue
		}

		n, err := unix.Read(watcher.fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "error reading inotify event: %v\n", err)
			return
		}

		if relevant(buf[:n], watcher.wd, match) {
			select {
			case changed <- struct{}{}:
			default:
			}
		}
	}
}

// Reports whether any event in the batch concerns a matching name
func relevant(events []byte, wd int, match func(name string) bool) (found bool) {
	var offset int
	for offset+unix.SizeofInotifyEvent <= len(events) {
		var event unix.InotifyEvent

		reader := bytes.NewReader(events[offset : offset+unix.SizeofInotifyEvent])
		if binary.Read(reader, binary.LittleEndian, &event) != nil {
			return
		}

		nameStart := offset + unix.SizeofInotifyEvent
		nameEnd := nameStart + int(event.Len)
		if nameEnd > len(events) {
			return
		}

		// Name field has the filename for dir events (null-terminated)
		name := strings.TrimRight(string(events[nameStart:nameEnd]), "\x00")

		if event.Wd == int32(wd) && event.Mask&watchMask != 0 && match(name) {
			found = true
		}

		offset = nameEnd
	}
	return
}

// Accepts names of detail files and the work file
func (instance *Instance) matchesName(name string) bool {
	if name == "" {
		return false
	}
	if name == filepath.Base(instance.config.WorkFile) {
		return true
	}
	matched, _ := filepath.Match(filepath.Base(instance.config.Glob), name)
	return matched
}
