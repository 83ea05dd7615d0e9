package services

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Greet is the smoke-test command the front-end calls on first load.
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

// IsDirEmpty reports whether path is a directory with no entries.
func IsDirEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("read directory %s: %w", path, err)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read directory %s: %w", path, err)
	}
	return false, nil
}
