package log

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

type File struct {
	file *os.File
	path string
	temp bool
}

// NewLogFile creates a log file defined in the flags or create a temp file.
func NewLogFile(path string) (*File, error) {
	f := &File{}
	if len(path) == 0 {
		// Generate a unique hash if multiple instances start simultaneously
		randomHash := ``
		randomBytes := make([]byte, 6)
		if _, err := rand.Read(randomBytes); err == nil {
			randomHash = fmt.Sprintf(`-%x`, randomBytes)
		}

		// nolint forbidigo
		f.path = filepath.Join(os.TempDir(), fmt.Sprintf("ptrigger-%d%s.txt", time.Now().Unix(), randomHash))
		f.temp = true // temp log file will be removed. It will be preserved only in case of error
	} else {
		// nolint: forbidigo
		if v, err := filepath.Abs(path); err == nil {
			f.path = v
		} else {
			return nil, err
		}
		f.temp = false // log file defined by user will be preserved
	}

	// nolint: forbidigo
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	f.file = file
	return f, nil
}

func (f *File) File() *os.File {
	return f.file
}

func (f *File) Path() string {
	return f.path
}

func (f *File) IsTemp() bool {
	return f.temp
}

// TearDown closes the file. The temp file is removed, if no error occurred.
func (f *File) TearDown(errorOccurred bool) error {
	if f == nil {
		return nil
	}

	if err := f.file.Close(); err != nil {
		return errors.Errorf("cannot close log file \"%s\": %w", f.path, err)
	}

	if !errorOccurred && f.temp {
		// nolint: forbidigo
		if err := os.Remove(f.path); err != nil {
			return errors.Errorf("cannot remove temp log file \"%s\": %w", f.path, err)
		}
	}
	return nil
}
