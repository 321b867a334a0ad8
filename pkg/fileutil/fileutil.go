// Package fileutil provides utility functions for working with file paths
// used by the validation CLI's directory/file mode dispatch.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eighty4/wfguard/pkg/logger"
)

var log = logger.New("fileutil:fileutil")

// ValidateAbsolutePath cleans path and verifies it is absolute, rejecting
// relative paths before they reach a file operation.
func ValidateAbsolutePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	if !filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("path must be absolute, got: %s", path)
	}

	return cleanPath, nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		log.Printf("stat failed: %s", err)
		return false
	}
	return info.IsDir()
}
