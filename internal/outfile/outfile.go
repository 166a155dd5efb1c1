// Package outfile guards the files the tools write.
package outfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrDestinationExists matches every *ExistsError
var ErrDestinationExists = errors.New("destination exists")

// ExistsError reports an output that would be overwritten
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s already exists, use -overwrite to replace it", e.Path)
}

// Is lets errors.Is match ErrDestinationExists
func (e *ExistsError) Is(target error) bool {
	return target == ErrDestinationExists
}

// Check reports whether path exists. An existing path is an *ExistsError
// unless overwrite is set.
func Check(path string, overwrite bool) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		if !overwrite {
			return true, &ExistsError{Path: path}
		}
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
}

// NextFree returns pattern formatted with the lowest non-negative integer
// that names a file that does not exist yet
func NextFree(pattern string) string {
	for i := 0; ; i++ {
		p := fmt.Sprintf(pattern, i)
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			return p
		}
	}
}
