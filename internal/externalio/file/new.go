package file

import (
	"detailq/internal/global"
	"fmt"
	"os"
)

// Creates new file output module. Returns nil nil if no path.
func NewOutput(namespace []string, filePath string, batchSize int) (module *OutModule, err error) {
	if filePath == "" {
		return
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		err = fmt.Errorf("failed to open output file: %w", err)
		return
	}

	if batchSize < 1 {
		batchSize = 1
	}

	module = &OutModule{
		Namespace:   append(append([]string{}, namespace...), global.NSoFile),
		path:        filePath,
		sink:        file,
		batchBuffer: []string{},
		batchSize:   batchSize,
	}
	return
}

func (mod *OutModule) Name() string {
	return "file:" + mod.path
}
