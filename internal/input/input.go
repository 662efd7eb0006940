// Package input opens the pipeline's input files and reports failures with the
// role the file plays in the run.
package input

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Roles of the input files.
const (
	RoleGraph       = "graph"
	RoleCoordinates = "coordinates"
)

var (
	// ErrMissingInputFile is returned when an input file does not exist.
	ErrMissingInputFile = errors.New("input file not found")

	// ErrMalformedPath is returned when a path cannot be used as given,
	// usually because it still carries shell quoting.
	ErrMalformedPath = errors.New("malformed path")
)

// PathError describes a failure to open an input file.
type PathError struct {
	Err  error
	Role string
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s file %q: %v", e.Role, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// CheckPath rejects empty paths and paths containing quote characters.
func CheckPath(role, path string) error {
	if strings.TrimSpace(path) == "" {
		return &PathError{Role: role, Path: path, Err: fmt.Errorf("%w: empty", ErrMalformedPath)}
	}
	if strings.ContainsAny(path, `'"`) {
		return &PathError{Role: role, Path: path, Err: fmt.Errorf("%w: contains quote characters", ErrMalformedPath)}
	}

	return nil
}

// Open validates path and opens it for reading. Failures other than a missing
// file or a malformed path keep the error from os.Open.
func Open(role, path string) (*os.File, error) {
	if err := CheckPath(role, path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathError{Role: role, Path: path, Err: ErrMissingInputFile}
		}
		return nil, &PathError{Role: role, Path: path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &PathError{Role: role, Path: path, Err: err}
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &PathError{Role: role, Path: path, Err: fmt.Errorf("%w: is a directory", ErrMalformedPath)}
	}

	return f, nil
}
