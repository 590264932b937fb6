package errorutil

import (
	"errors"
	"fmt"
	"os"
)

// FileOpError provides structured error information for file operations
type FileOpError struct {
	Operation string
	Path      string
	Err       error
}

func (e *FileOpError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Operation, e.Path, e.Err)
}

func (e *FileOpError) Unwrap() error {
	return e.Err
}

// ErrFileNotFound is wrapped by FileOpError when the path does not exist
var ErrFileNotFound = errors.New("file not found")

// ValidateFileExists checks if a file exists and is a regular file
func ValidateFileExists(filePath, operation string) error {
	if filePath == "" {
		return &FileOpError{
			Operation: operation,
			Path:      filePath,
			Err:       fmt.Errorf("empty file path provided"),
		}
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileOpError{
				Operation: operation,
				Path:      filePath,
				Err:       ErrFileNotFound,
			}
		}
		return &FileOpError{
			Operation: operation,
			Path:      filePath,
			Err:       fmt.Errorf("cannot access file: %w", err),
		}
	}

	if info.IsDir() {
		return &FileOpError{
			Operation: operation,
			Path:      filePath,
			Err:       fmt.Errorf("path is a directory, expected file"),
		}
	}

	return nil
}

// OpenForRead validates and opens a file for reading
func OpenForRead(filePath, operation string) (*os.File, error) {
	if err := ValidateFileExists(filePath, operation); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, &FileOpError{
			Operation: operation,
			Path:      filePath,
			Err:       fmt.Errorf("cannot open file: %w", err),
		}
	}
	return file, nil
}
