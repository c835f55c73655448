package record

import (
	"fmt"
	"os"
	"sync"

	"github.com/XiaoConstantine/hyperband-go/pkg/errors"
)

// FileRecorder appends one tab-separated line per evaluation:
// cumulative cost followed by the best validation accuracy seen so far.
type FileRecorder struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileRecorder opens path for appending, creating it if needed.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, errors.RecordFailed, "failed to open trace file")
	}
	return &FileRecorder{file: f}, nil
}

func (r *FileRecorder) Record(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := fmt.Fprintf(r.file, "%.15g\t%.15g\n", e.CumulativeCost, e.BestScore); err != nil {
		return errors.Wrap(err, errors.RecordFailed, "failed to append trace line")
	}
	return nil
}

func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
